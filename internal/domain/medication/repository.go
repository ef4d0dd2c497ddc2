package medication

import "context"

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	// Update returns ErrMedicationNotFound if the medication does not exist.
	Update(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id int64) (*Medication, error)
	// CountItemReferences returns how many prescription items point at the medication.
	CountItemReferences(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListOrderedByName(ctx context.Context) ([]*Medication, error)
}
