package v1

import "github.com/gin-gonic/gin"

// rankingSize reads the optional n parameter. Zero means the configured default.
func rankingSize(c *gin.Context) (int, bool) {
	return parseQueryInt(c, "n", 0, 0)
}

func (h *Handler) topMedications(c *gin.Context) {
	n, ok := rankingSize(c)
	if !ok {
		return
	}
	rows, err := h.svc.Reports.TopMedications(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *Handler) topPatients(c *gin.Context) {
	n, ok := rankingSize(c)
	if !ok {
		return
	}
	rows, err := h.svc.Reports.TopPatients(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *Handler) patientTotals(c *gin.Context) {
	rows, err := h.svc.Reports.TotalsPerPatient(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}
