package patient

import "context"

type Repository interface {
	// Create inserts p and assigns its ID. Uniqueness violations surface as raw storage errors.
	Create(ctx context.Context, p *Patient) error

	// Update overwrites the mutable fields of an existing patient. Returns ErrPatientNotFound if absent.
	Update(ctx context.Context, p *Patient) error

	// GetByID returns ErrPatientNotFound if the patient does not exist.
	GetByID(ctx context.Context, id int64) (*Patient, error)

	// Delete removes the patient; it reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListOrderedByName returns every patient ordered by name, for selection lists.
	ListOrderedByName(ctx context.Context) ([]*Patient, error)
}
