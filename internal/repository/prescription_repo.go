package repository

import (
	"context"
	"errors"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"gorm.io/gorm"
)

type prescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) prescription.Repository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id int64) (*prescription.Prescription, error) {
	var p prescription.Prescription
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, prescription.ErrPrescriptionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the items explicitly before the prescription so the cascade
// does not depend on the store honoring ON DELETE CASCADE.
func (r *prescriptionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("prescription_id = ?", id).Delete(&prescription.Item{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&prescription.Prescription{}, id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}

func (r *prescriptionRepository) AddItem(ctx context.Context, item *prescription.Item) error {
	return conn(ctx, r.db).Create(item).Error
}

func (r *prescriptionRepository) RemoveItem(ctx context.Context, itemID int64) (bool, error) {
	res := conn(ctx, r.db).Delete(&prescription.Item{}, itemID)
	return res.RowsAffected > 0, res.Error
}

func (r *prescriptionRepository) ListItems(ctx context.Context, prescriptionID int64) ([]*prescription.ItemView, error) {
	out := make([]*prescription.ItemView, 0)
	err := conn(ctx, r.db).
		Table("prescription_items AS i").
		Select("i.id AS item_id, i.prescription_id, i.medication_id, m.name AS medication_name").
		Joins("JOIN medications m ON m.id = i.medication_id").
		Where("i.prescription_id = ?", prescriptionID).
		Order("i.id ASC").
		Scan(&out).Error
	return out, err
}

func (r *prescriptionRepository) CountItems(ctx context.Context, prescriptionID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&prescription.Item{}).Where("prescription_id = ?", prescriptionID).Count(&n).Error
	return n, err
}
