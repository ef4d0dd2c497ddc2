package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/gin-gonic/gin"
)

type savePatientRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId"`
}

func (h *Handler) listPatients(c *gin.Context) {
	h.servePage(c, query.KindPatient)
}

func (h *Handler) createPatient(c *gin.Context) {
	var req savePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Patients.SavePatient(c.Request.Context(), patient.SaveCommand{
		Name:       req.Name,
		NationalID: req.NationalID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) updatePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req savePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Patients.SavePatient(c.Request.Context(), patient.SaveCommand{
		ID:         id,
		Name:       req.Name,
		NationalID: req.NationalID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) getPatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Patients.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) deletePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Patients.DeletePatient(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) patientOptions(c *gin.Context) {
	list, err := h.svc.Patients.ListPatientOptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}
