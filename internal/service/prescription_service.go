package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"go.uber.org/zap"
)

// PrescriptionService keeps a prescription and its items consistent. Items are
// only created through AddItem and only destroyed by RemoveItem or together
// with their prescription.
type PrescriptionService struct {
	repo        prescription.Repository
	patients    patient.Repository
	medications medication.Repository
	writer      *Writer
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	patients patient.Repository,
	medications medication.Repository,
	writer *Writer,
	auditSvc *AuditService,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:        repo,
		patients:    patients,
		medications: medications,
		writer:      writer,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// CreatePrescription creates an empty prescription for an existing patient.
// The returned prescription carries its committed identifier.
func (s *PrescriptionService) CreatePrescription(ctx context.Context, patientID int64) (*prescription.Prescription, error) {
	if err := requirePrescriber(ctx); err != nil {
		return nil, err
	}

	p := &prescription.Prescription{PatientID: patientID}

	err := s.writer.execute(ctx, writeOp{name: "create_prescription", fallbackHint: prescription.PatientForeignKey}, func(ctx context.Context) error {
		if _, err := s.patients.GetByID(ctx, patientID); err != nil {
			return err
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       string(domain.ActionCreate),
		ResourceType: "prescription",
		ResourceID:   strconv.FormatInt(p.ID, 10),
		Changes:      fmt.Sprintf(`{"patientId":%d}`, patientID),
	})

	s.log.Info("prescription created",
		zap.Int64("prescription_id", p.ID),
		zap.Int64("patient_id", patientID),
	)

	return p, nil
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id int64) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting prescription %d: %w", id, err)
	}
	return p, nil
}

// AddItem links a medication to a prescription. Both must exist. A foreign key
// failure carries a constraint hint only when the driver names it, since either
// parent could be the missing one.
func (s *PrescriptionService) AddItem(ctx context.Context, prescriptionID, medicationID int64) (*prescription.Item, error) {
	if err := requirePrescriber(ctx); err != nil {
		return nil, err
	}

	item := &prescription.Item{PrescriptionID: prescriptionID, MedicationID: medicationID}

	err := s.writer.execute(ctx, writeOp{name: "add_item"}, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, prescriptionID); err != nil {
			return err
		}
		if _, err := s.medications.GetByID(ctx, medicationID); err != nil {
			return err
		}
		return s.repo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       string(domain.ActionUpdate),
		ResourceType: "prescription",
		ResourceID:   strconv.FormatInt(prescriptionID, 10),
		Changes:      fmt.Sprintf(`{"addedItem":%d,"medicationId":%d}`, item.ID, medicationID),
	})

	return item, nil
}

// RemoveItem deletes an item if it exists. Removing an absent item is not an error.
func (s *PrescriptionService) RemoveItem(ctx context.Context, itemID int64) error {
	if err := requirePrescriber(ctx); err != nil {
		return err
	}

	var removed bool
	err := s.writer.execute(ctx, writeOp{name: "remove_item"}, func(ctx context.Context) error {
		var err error
		removed, err = s.repo.RemoveItem(ctx, itemID)
		return err
	})
	if err != nil {
		return err
	}
	if removed {
		s.auditSvc.LogAsync(ctx, AuditEntry{
			Action:       string(domain.ActionDelete),
			ResourceType: "prescription_item",
			ResourceID:   strconv.FormatInt(itemID, 10),
		})
	}
	return nil
}

// DeletePrescription deletes the prescription and all of its items in one
// transaction. An absent id is a no-op.
func (s *PrescriptionService) DeletePrescription(ctx context.Context, id int64) error {
	if err := requirePrescriber(ctx); err != nil {
		return err
	}

	var (
		removed bool
		items   int64
	)
	err := s.writer.execute(ctx, writeOp{name: "delete_prescription"}, func(ctx context.Context) error {
		var err error
		if items, err = s.repo.CountItems(ctx, id); err != nil {
			return err
		}
		removed, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if removed {
		s.auditSvc.LogAsync(ctx, AuditEntry{
			Action:       string(domain.ActionDelete),
			ResourceType: "prescription",
			ResourceID:   strconv.FormatInt(id, 10),
			Changes:      fmt.Sprintf(`{"removedItems":%d}`, items),
		})
		s.log.Info("prescription deleted",
			zap.Int64("prescription_id", id),
			zap.Int64("removed_items", items),
		)
	}
	return nil
}

// ListItems returns the items of a prescription in creation order, each with
// its medication's name. An unknown prescription has no items.
func (s *PrescriptionService) ListItems(ctx context.Context, prescriptionID int64) ([]*prescription.ItemView, error) {
	items, err := s.repo.ListItems(ctx, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("listing items of prescription %d: %w", prescriptionID, err)
	}
	return items, nil
}

// requirePrescriber rejects callers whose role may not change prescriptions.
func requirePrescriber(ctx context.Context) error {
	if !domain.ActorFromContext(ctx).Role.CanPrescribe() {
		return ErrForbidden
	}
	return nil
}
