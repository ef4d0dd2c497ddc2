package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/gin-gonic/gin"
)

type saveMedicationRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listMedications(c *gin.Context) {
	h.servePage(c, query.KindMedication)
}

func (h *Handler) createMedication(c *gin.Context) {
	var req saveMedicationRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Medications.SaveMedication(c.Request.Context(), medication.SaveCommand{Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, m)
}

func (h *Handler) updateMedication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req saveMedicationRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Medications.SaveMedication(c.Request.Context(), medication.SaveCommand{ID: id, Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) getMedication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Medications.GetMedication(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *Handler) deleteMedication(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Medications.DeleteMedication(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) medicationOptions(c *gin.Context) {
	list, err := h.svc.Medications.ListMedicationOptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}
