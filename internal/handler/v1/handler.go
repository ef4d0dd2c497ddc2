package v1

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PatientService interface {
	SavePatient(ctx context.Context, cmd patient.SaveCommand) (*patient.Patient, error)
	GetPatient(ctx context.Context, id int64) (*patient.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	ListPatientOptions(ctx context.Context) ([]*patient.Patient, error)
}

type MedicationService interface {
	SaveMedication(ctx context.Context, cmd medication.SaveCommand) (*medication.Medication, error)
	GetMedication(ctx context.Context, id int64) (*medication.Medication, error)
	DeleteMedication(ctx context.Context, id int64) error
	ListMedicationOptions(ctx context.Context) ([]*medication.Medication, error)
}

type PrescriptionService interface {
	CreatePrescription(ctx context.Context, patientID int64) (*prescription.Prescription, error)
	GetPrescription(ctx context.Context, id int64) (*prescription.Prescription, error)
	AddItem(ctx context.Context, prescriptionID, medicationID int64) (*prescription.Item, error)
	RemoveItem(ctx context.Context, itemID int64) error
	DeletePrescription(ctx context.Context, id int64) error
	ListItems(ctx context.Context, prescriptionID int64) ([]*prescription.ItemView, error)
}

type ReportService interface {
	TopMedications(ctx context.Context, n int) ([]report.RankingEntry, error)
	TopPatients(ctx context.Context, n int) ([]report.RankingEntry, error)
	TotalsPerPatient(ctx context.Context) ([]report.PatientTotal, error)
}

type PageFetcher interface {
	FetchPage(ctx context.Context, req query.Request) (query.Page[any], error)
}

type Services struct {
	Patients      PatientService
	Medications   MedicationService
	Prescriptions PrescriptionService
	Reports       ReportService
	Pages         PageFetcher
}

// Handler serves the /api/v1 resources.
type Handler struct {
	svc        Services
	pagination config.PaginationConfig
	log        *zap.Logger
}

func NewHandler(svc Services, pagination config.PaginationConfig, log *zap.Logger) *Handler {
	return &Handler{svc: svc, pagination: pagination, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	patients.GET("", h.listPatients)
	patients.POST("", h.createPatient)
	patients.GET("/options", h.patientOptions)
	patients.GET("/:id", h.getPatient)
	patients.PUT("/:id", h.updatePatient)
	patients.DELETE("/:id", h.deletePatient)

	medications := rg.Group("/medications")
	medications.GET("", h.listMedications)
	medications.POST("", h.createMedication)
	medications.GET("/options", h.medicationOptions)
	medications.GET("/:id", h.getMedication)
	medications.PUT("/:id", h.updateMedication)
	medications.DELETE("/:id", h.deleteMedication)

	prescriptions := rg.Group("/prescriptions")
	prescriptions.GET("", h.listPrescriptions)
	prescriptions.POST("", h.createPrescription)
	prescriptions.GET("/:id", h.getPrescription)
	prescriptions.DELETE("/:id", h.deletePrescription)
	prescriptions.GET("/:id/items", h.listItems)
	prescriptions.POST("/:id/items", h.addItem)
	rg.DELETE("/prescription-items/:id", h.removeItem)

	reports := rg.Group("/reports")
	reports.GET("/top-medications", h.topMedications)
	reports.GET("/top-patients", h.topPatients)
	reports.GET("/patient-totals", h.patientTotals)
}
