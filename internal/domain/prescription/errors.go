package prescription

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
)

var ErrPrescriptionNotFound = fmt.Errorf("prescription %w", domain.ErrNotFound)
