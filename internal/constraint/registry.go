package constraint

import (
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
)

// Known returns the constraints declared by the medscript schema.
func Known() []Constraint {
	return []Constraint{
		{
			Name:         patient.UniqueNationalIDConstraint,
			Kind:         DuplicateKey,
			Relationship: "patient.national_id",
			Aliases:      []string{"patients.national_id"},
		},
		{
			Name:         prescription.PatientForeignKey,
			Kind:         ReferentialIntegrity,
			Relationship: "prescription -> patient",
		},
		{
			Name:         prescription.PrescriptionForeignKey,
			Kind:         ReferentialIntegrity,
			Relationship: "item -> prescription",
		},
		{
			Name:         prescription.MedicationForeignKey,
			Kind:         ReferentialIntegrity,
			Relationship: "item -> medication",
		},
	}
}

// Default returns a classifier over the medscript schema constraints.
func Default() *Classifier {
	return NewClassifier(Known()...)
}
