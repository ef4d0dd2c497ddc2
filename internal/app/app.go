package app

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/constraint"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/handler"
	v1 "github.com/dmehra2102/prod-golang-projects/medscript/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/query"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired services of one process.
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Collector
	Tokens  *auth.JWTManager

	Audit         *service.AuditService
	Patients      *service.PatientService
	Medications   *service.MedicationService
	Prescriptions *service.PrescriptionService
	Reports       *service.ReportService
	Pages         *query.Engine

	registry *prometheus.Registry
}

func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *App {
	reg := metrics.NewRegistry()
	m := metrics.NewCollector(cfg.App.Name, reg)

	patientRepo := repository.NewPatientRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)

	audit := service.NewAuditService(repository.NewAuditRepository(db), m, log)
	writer := service.NewWriter(repository.NewTxRunner(db), constraint.Default(), m, log)

	return &App{
		Config:        cfg,
		DB:            db,
		Log:           log,
		Metrics:       m,
		Tokens:        auth.NewJWTManager(cfg.JWT),
		Audit:         audit,
		Patients:      service.NewPatientService(patientRepo, writer, audit, log),
		Medications:   service.NewMedicationService(medicationRepo, writer, audit, log),
		Prescriptions: service.NewPrescriptionService(prescriptionRepo, patientRepo, medicationRepo, writer, audit, log),
		Reports:       service.NewReportService(repository.NewReportRepository(db), cfg.Report.TopN, m, log),
		Pages:         query.NewEngine(db, log, m),
		registry:      reg,
	}
}

func (a *App) Router() *gin.Engine {
	return handler.NewRouter(handler.RouterDeps{
		Config:   a.Config,
		Log:      a.Log,
		Metrics:  a.Metrics,
		Gatherer: a.registry,
		Tokens:   a.Tokens,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, a.DB)
		},
		Services: v1.Services{
			Patients:      a.Patients,
			Medications:   a.Medications,
			Prescriptions: a.Prescriptions,
			Reports:       a.Reports,
			Pages:         a.Pages,
		},
	})
}

// Close drains the audit queue. The database is owned by the caller.
func (a *App) Close() {
	a.Audit.Shutdown()
}
