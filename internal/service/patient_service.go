package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	writer   *Writer
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, writer *Writer, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		writer:   writer,
		auditSvc: auditSvc,
		log:      log,
	}
}

// SavePatient inserts or updates a patient. National id uniqueness is left to
// the storage constraint; a repeated id fails with domain.ErrDuplicateKey.
func (s *PatientService) SavePatient(ctx context.Context, cmd patient.SaveCommand) (*patient.Patient, error) {
	p := cmd.Patient()
	if errs := p.Validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	action := domain.ActionUpdate
	if p.IsNew() {
		action = domain.ActionCreate
	}

	err := s.writer.execute(ctx, writeOp{name: "save_patient"}, func(ctx context.Context) error {
		if p.IsNew() {
			return s.repo.Create(ctx, p)
		}
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       string(action),
		ResourceType: "patient",
		ResourceID:   strconv.FormatInt(p.ID, 10),
	})

	s.log.Info("patient saved",
		zap.Int64("patient_id", p.ID),
		zap.String("action", string(action)),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id int64) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting patient %d: %w", id, err)
	}
	return p, nil
}

// DeletePatient removes the patient if present. A patient that still owns
// prescriptions is kept and the call fails with patient.ErrPatientHasPrescriptions.
func (s *PatientService) DeletePatient(ctx context.Context, id int64) error {
	op := writeOp{
		name:         "delete_patient",
		fallbackHint: prescription.PatientForeignKey,
		referential:  patient.ErrPatientHasPrescriptions,
	}

	var removed bool
	err := s.writer.execute(ctx, op, func(ctx context.Context) error {
		var err error
		removed, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       string(domain.ActionDelete),
		ResourceType: "patient",
		ResourceID:   strconv.FormatInt(id, 10),
	})
	return nil
}

// ListPatientOptions returns every patient ordered by name, for selection lists.
func (s *PatientService) ListPatientOptions(ctx context.Context) ([]*patient.Patient, error) {
	out, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return out, nil
}
