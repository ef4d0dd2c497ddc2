package report

import "context"

// DefaultTopN is the ranking size used when a caller asks for n <= 0.
const DefaultTopN = 2

type RankingEntry struct {
	ID    int64  `gorm:"column:id" json:"id"`
	Name  string `gorm:"column:name" json:"name"`
	Count int64  `gorm:"column:total" json:"count"`
}

type PatientTotal struct {
	PatientID   int64  `gorm:"column:patient_id" json:"patientId"`
	PatientName string `gorm:"column:patient_name" json:"patientName"`
	Total       int64  `gorm:"column:total" json:"total"`
}

// Repository runs read-only aggregate queries. Calls do not share a snapshot.
type Repository interface {
	// TopMedications ranks medications by item count, descending, ties by name then id.
	TopMedications(ctx context.Context, n int) ([]RankingEntry, error)
	// TopPatients ranks patients by item count across all their prescriptions.
	TopPatients(ctx context.Context, n int) ([]RankingEntry, error)
	// TotalsPerPatient returns one row per patient, zero included, ordered by name then id.
	TotalsPerPatient(ctx context.Context) ([]PatientTotal, error)
}
