package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/constraint"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/testutil"
	"gorm.io/gorm"
)

type spyHooks struct {
	mu        sync.Mutex
	writes    []string
	conflicts []string
}

func (s *spyHooks) ObserveWrite(operation, outcome string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, operation+":"+outcome)
}

func (s *spyHooks) IncConflict(operation, kind, constraint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = append(s.conflicts, fmt.Sprintf("%s:%s:%s", operation, kind, constraint))
}

func (s *spyHooks) conflictCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conflicts)
}

type spyAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (r *spyAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *spyAuditRepo) snapshot() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog(nil), r.entries...)
}

type fixture struct {
	db            *gorm.DB
	hooks         *spyHooks
	auditRepo     *spyAuditRepo
	audit         *AuditService
	patients      *PatientService
	medications   *MedicationService
	prescriptions *PrescriptionService
	reports       *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	hooks := &spyHooks{}
	auditRepo := &spyAuditRepo{}
	audit := NewAuditService(auditRepo, nil, log)
	t.Cleanup(audit.Shutdown)

	writer := NewWriter(repository.NewTxRunner(db), constraint.Default(), hooks, log)
	patientRepo := repository.NewPatientRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)

	return &fixture{
		db:            db,
		hooks:         hooks,
		auditRepo:     auditRepo,
		audit:         audit,
		patients:      NewPatientService(patientRepo, writer, audit, log),
		medications:   NewMedicationService(medicationRepo, writer, audit, log),
		prescriptions: NewPrescriptionService(prescriptionRepo, patientRepo, medicationRepo, writer, audit, log),
		reports:       NewReportService(repository.NewReportRepository(db), 2, nil, log),
	}
}

func doctorCtx() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{Subject: "dr.ana", Role: domain.RoleDoctor, RequestID: "req-1"})
}
