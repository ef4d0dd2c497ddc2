package prescription

import "time"

const (
	PatientForeignKey      = "fk_prescription_patient"
	PrescriptionForeignKey = "fk_item_prescription"
	MedicationForeignKey   = "fk_item_medication"
)

// Prescription belongs to exactly one patient for its whole life. Its items are
// not loaded with it; they are reached through Repository.ListItems.
type Prescription struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	PatientID int64 `gorm:"column:patient_id;not null;<-:create" json:"patientId"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// Item is one medication entry of a prescription.
type Item struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	PrescriptionID int64 `gorm:"column:prescription_id;not null;<-:create" json:"prescriptionId"`
	MedicationID   int64 `gorm:"column:medication_id;not null;<-:create" json:"medicationId"`
}

func (Item) TableName() string {
	return "prescription_items"
}

// ItemView is an item resolved together with its medication's name.
type ItemView struct {
	ItemID         int64  `gorm:"column:item_id" json:"itemId"`
	PrescriptionID int64  `gorm:"column:prescription_id" json:"prescriptionId"`
	MedicationID   int64  `gorm:"column:medication_id" json:"medicationId"`
	MedicationName string `gorm:"column:medication_name" json:"medicationName"`
}

// Summary is the derived row of the prescription listing. It is never persisted.
type Summary struct {
	PrescriptionID int64  `gorm:"column:prescription_id" json:"prescriptionId"`
	PatientID      int64  `gorm:"column:patient_id" json:"patientId"`
	PatientName    string `gorm:"column:patient_name" json:"patientName"`
	ItemCount      int64  `gorm:"column:item_count" json:"itemCount"`
}
