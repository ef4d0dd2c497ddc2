package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"gorm.io/gorm"
)

var nationalSeq atomic.Int64

// SeedPatient inserts a patient. An empty nationalID gets a unique generated one.
func SeedPatient(tb testing.TB, db *gorm.DB, name, nationalID string) *patient.Patient {
	tb.Helper()
	if nationalID == "" {
		nationalID = fmt.Sprintf("%011d", 90000000000+nationalSeq.Add(1))
	}
	p := &patient.Patient{Name: name, NationalID: nationalID}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed patient: %v", err)
	}
	return p
}

func SeedMedication(tb testing.TB, db *gorm.DB, name string) *medication.Medication {
	tb.Helper()
	m := &medication.Medication{Name: name}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed medication: %v", err)
	}
	return m
}

func SeedPrescription(tb testing.TB, db *gorm.DB, patientID int64) *prescription.Prescription {
	tb.Helper()
	p := &prescription.Prescription{PatientID: patientID}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed prescription: %v", err)
	}
	return p
}

func SeedItem(tb testing.TB, db *gorm.DB, prescriptionID, medicationID int64) *prescription.Item {
	tb.Helper()
	item := &prescription.Item{PrescriptionID: prescriptionID, MedicationID: medicationID}
	if err := db.Create(item).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return item
}

// Count returns the number of rows in table.
func Count(tb testing.TB, db *gorm.DB, table string) int64 {
	tb.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}
