package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/report"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) TopMedications(ctx context.Context, n int) ([]report.RankingEntry, error) {
	out := make([]report.RankingEntry, 0, n)
	err := r.db.WithContext(ctx).
		Table("medications AS m").
		Select("m.id, m.name, COUNT(i.id) AS total").
		Joins("JOIN prescription_items i ON i.medication_id = m.id").
		Group("m.id, m.name").
		Order("total DESC, m.name ASC, m.id ASC").
		Limit(n).
		Scan(&out).Error
	return out, err
}

func (r *reportRepository) TopPatients(ctx context.Context, n int) ([]report.RankingEntry, error) {
	out := make([]report.RankingEntry, 0, n)
	err := r.db.WithContext(ctx).
		Table("patients AS p").
		Select("p.id, p.name, COUNT(i.id) AS total").
		Joins("JOIN prescriptions r ON r.patient_id = p.id").
		Joins("JOIN prescription_items i ON i.prescription_id = r.id").
		Group("p.id, p.name").
		Order("total DESC, p.name ASC, p.id ASC").
		Limit(n).
		Scan(&out).Error
	return out, err
}

func (r *reportRepository) TotalsPerPatient(ctx context.Context) ([]report.PatientTotal, error) {
	out := make([]report.PatientTotal, 0)
	err := r.db.WithContext(ctx).
		Table("patients AS p").
		Select(`p.id AS patient_id, p.name AS patient_name,
			(SELECT COUNT(*) FROM prescription_items i
				JOIN prescriptions r ON r.id = i.prescription_id
				WHERE r.patient_id = p.id) AS total`).
		Order("p.name ASC, p.id ASC").
		Scan(&out).Error
	return out, err
}
