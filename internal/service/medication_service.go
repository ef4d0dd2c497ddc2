package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"go.uber.org/zap"
)

type MedicationService struct {
	repo     medication.Repository
	writer   *Writer
	auditSvc *AuditService
	log      *zap.Logger
}

func NewMedicationService(repo medication.Repository, writer *Writer, auditSvc *AuditService, log *zap.Logger) *MedicationService {
	return &MedicationService{
		repo:     repo,
		writer:   writer,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *MedicationService) SaveMedication(ctx context.Context, cmd medication.SaveCommand) (*medication.Medication, error) {
	m := cmd.Medication()
	if errs := m.Validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	action := domain.ActionUpdate
	if m.IsNew() {
		action = domain.ActionCreate
	}

	err := s.writer.execute(ctx, writeOp{name: "save_medication"}, func(ctx context.Context) error {
		if m.IsNew() {
			return s.repo.Create(ctx, m)
		}
		return s.repo.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       string(action),
		ResourceType: "medication",
		ResourceID:   strconv.FormatInt(m.ID, 10),
	})

	s.log.Info("medication saved",
		zap.Int64("medication_id", m.ID),
		zap.String("action", string(action)),
	)

	return m, nil
}

func (s *MedicationService) GetMedication(ctx context.Context, id int64) (*medication.Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting medication %d: %w", id, err)
	}
	return m, nil
}

// DeleteMedication removes the medication only while no prescription item
// references it; otherwise it fails with domain.ErrReferentialIntegrity and
// the medication is left untouched. An absent id is a no-op.
func (s *MedicationService) DeleteMedication(ctx context.Context, id int64) error {
	op := writeOp{
		name:         "delete_medication",
		fallbackHint: prescription.MedicationForeignKey,
		referential:  medication.ErrMedicationInUse,
	}

	var removed bool
	err := s.writer.execute(ctx, op, func(ctx context.Context) error {
		refs, err := s.repo.CountItemReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.NewError(domain.KindReferentialIntegrity, op.name, prescription.MedicationForeignKey, medication.ErrMedicationInUse)
		}
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
		ResourceType: "medication",
		ResourceID:   strconv.FormatInt(id, 10),
	})
	return nil
}

func (s *MedicationService) ListMedicationOptions(ctx context.Context) ([]*medication.Medication, error) {
	out, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing medications: %w", err)
	}
	return out, nil
}
