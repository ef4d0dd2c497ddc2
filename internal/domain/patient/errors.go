package patient

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
)

var (
	ErrPatientNotFound = fmt.Errorf("patient %w", domain.ErrNotFound)
	// ErrPatientHasPrescriptions is reported when a delete is blocked by fk_prescription_patient.
	ErrPatientHasPrescriptions = fmt.Errorf("patient still owns prescriptions: %w", domain.ErrReferentialIntegrity)
)
