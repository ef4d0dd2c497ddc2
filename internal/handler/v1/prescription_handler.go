package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/gin-gonic/gin"
)

type createPrescriptionRequest struct {
	PatientID int64 `json:"patientId" binding:"required,gt=0"`
}

type addItemRequest struct {
	MedicationID int64 `json:"medicationId" binding:"required,gt=0"`
}

func (h *Handler) listPrescriptions(c *gin.Context) {
	h.servePage(c, query.KindPrescriptionSummary)
}

func (h *Handler) createPrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Prescriptions.CreatePrescription(c.Request.Context(), req.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) getPrescription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Prescriptions.GetPrescription(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) deletePrescription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Prescriptions.DeletePrescription(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.Prescriptions.ListItems(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

func (h *Handler) addItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Prescriptions.AddItem(c.Request.Context(), id, req.MedicationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, item)
}

func (h *Handler) removeItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Prescriptions.RemoveItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
