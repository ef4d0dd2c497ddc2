package medication

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
)

var (
	ErrMedicationNotFound = fmt.Errorf("medication %w", domain.ErrNotFound)
	ErrMedicationInUse    = fmt.Errorf("medication is referenced by prescription items: %w", domain.ErrReferentialIntegrity)
)
