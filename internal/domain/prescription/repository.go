package prescription

import "context"

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	// Delete removes the prescription and all of its items. It reports whether the prescription existed.
	Delete(ctx context.Context, id int64) (bool, error)

	AddItem(ctx context.Context, item *Item) error
	// RemoveItem reports whether an item was removed.
	RemoveItem(ctx context.Context, itemID int64) (bool, error)
	// ListItems returns the items of a prescription in creation order.
	ListItems(ctx context.Context, prescriptionID int64) ([]*ItemView, error)
	CountItems(ctx context.Context, prescriptionID int64) (int64, error)
}
