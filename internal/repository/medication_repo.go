package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"gorm.io/gorm"
)

type medicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) medication.Repository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, m *medication.Medication) error {
	return conn(ctx, r.db).Create(m).Error
}

func (r *medicationRepository) Update(ctx context.Context, m *medication.Medication) error {
	now := time.Now().UTC()
	res := conn(ctx, r.db).Model(&medication.Medication{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{"name": m.Name, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medication.ErrMedicationNotFound
	}
	m.UpdatedAt = now
	return nil
}

func (r *medicationRepository) GetByID(ctx context.Context, id int64) (*medication.Medication, error) {
	var m medication.Medication
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medication.ErrMedicationNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *medicationRepository) CountItemReferences(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&prescription.Item{}).Where("medication_id = ?", id).Count(&n).Error
	return n, err
}

func (r *medicationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := conn(ctx, r.db).Delete(&medication.Medication{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *medicationRepository) ListOrderedByName(ctx context.Context) ([]*medication.Medication, error) {
	var out []*medication.Medication
	err := conn(ctx, r.db).Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}
