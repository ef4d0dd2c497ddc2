package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *patientRepository) Update(ctx context.Context, p *patient.Patient) error {
	now := time.Now().UTC()
	res := conn(ctx, r.db).Model(&patient.Patient{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"national_id": p.NationalID,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id int64) (*patient.Patient, error) {
	var p patient.Patient
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := conn(ctx, r.db).Delete(&patient.Patient{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *patientRepository) ListOrderedByName(ctx context.Context) ([]*patient.Patient, error) {
	var out []*patient.Patient
	err := conn(ctx, r.db).Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}
