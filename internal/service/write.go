package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/constraint"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Hooks observes write outcomes.
type Hooks interface {
	ObserveWrite(operation, outcome string, d time.Duration)
	IncConflict(operation, kind, constraint string)
}

type noopHooks struct{}

func (noopHooks) ObserveWrite(string, string, time.Duration) {}
func (noopHooks) IncConflict(string, string, string)         {}

// Writer runs mutating operations: each one is a single transaction that is
// committed before execute returns, and any failure comes back as a
// *domain.Error.
type Writer struct {
	runner     repository.TxRunner
	classifier *constraint.Classifier
	hooks      Hooks
	log        *zap.Logger
	tracer     trace.Tracer
}

func NewWriter(runner repository.TxRunner, classifier *constraint.Classifier, hooks Hooks, log *zap.Logger) *Writer {
	if classifier == nil {
		classifier = constraint.Default()
	}
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Writer{
		runner:     runner,
		classifier: classifier,
		hooks:      hooks,
		log:        log,
		tracer:     otel.Tracer("medscript/service"),
	}
}

type writeOp struct {
	name string
	// fallbackHint names the constraint a referential failure of this
	// operation involves when the driver does not report one. Leave it empty
	// when the operation touches more than one foreign key.
	fallbackHint string
	// referential is wrapped into the cause of a referential failure so
	// callers can match the aggregate's own sentinel.
	referential error
}

func (w *Writer) execute(ctx context.Context, op writeOp, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := w.tracer.Start(ctx, "write."+op.name)
	defer span.End()

	err := w.runner.InTx(ctx, fn)
	mapped := w.classify(op, err)

	outcome := "ok"
	if mapped != nil {
		outcome = string(mapped.Kind)
		span.RecordError(mapped)
		span.SetStatus(codes.Error, outcome)
		span.SetAttributes(attribute.String("write.error_kind", outcome), attribute.String("write.hint", mapped.Hint))

		switch mapped.Kind {
		case domain.KindDuplicateKey, domain.KindReferentialIntegrity:
			w.hooks.IncConflict(op.name, outcome, mapped.Hint)
			w.log.Warn("write rejected by integrity constraint",
				zap.String("operation", op.name),
				zap.String("kind", outcome),
				zap.String("constraint", mapped.Hint),
			)
		case domain.KindUnrecognized:
			w.log.Error("write failed", zap.String("operation", op.name), zap.Error(err))
		}
	}
	w.hooks.ObserveWrite(op.name, outcome, time.Since(start))

	if mapped == nil {
		return nil
	}
	return mapped
}

// classify turns a failed write into a *domain.Error and names the
// relationship behind a known constraint.
func (w *Writer) classify(op writeOp, err error) *domain.Error {
	mapped := w.classifyKind(op, err)
	if mapped == nil {
		return nil
	}
	if mapped.Kind == domain.KindReferentialIntegrity && op.referential != nil && !errors.Is(mapped.Err, op.referential) {
		mapped.Err = fmt.Errorf("%w: %w", op.referential, mapped.Err)
	}
	if mapped.Relationship == "" && mapped.Hint != "" {
		if k, ok := w.classifier.Lookup(mapped.Hint); ok {
			mapped.Relationship = k.Relationship
		}
	}
	return mapped
}

// classifyKind keeps the kind of failures the service raised itself and sends
// storage failures through the classifier.
func (w *Writer) classifyKind(op writeOp, err error) *domain.Error {
	if err == nil {
		return nil
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		if derr.Op == "" {
			derr.Op = op.name
		}
		return derr
	}
	if kind := domain.KindOf(err); kind != "" {
		hint := ""
		if kind == domain.KindReferentialIntegrity {
			hint = op.fallbackHint
		}
		return domain.NewError(kind, op.name, hint, err)
	}

	c := w.classifier.Classify(err)
	switch c.Kind {
	case constraint.DuplicateKey:
		return domain.NewError(domain.KindDuplicateKey, op.name, c.Hint, err)
	case constraint.ReferentialIntegrity:
		hint := c.Hint
		if strings.TrimSpace(hint) == "" {
			hint = op.fallbackHint
		}
		return domain.NewError(domain.KindReferentialIntegrity, op.name, hint, err)
	}

	if constraint.IsIntegrity(err) {
		w.log.Warn("integrity violation on an unregistered constraint", zap.String("operation", op.name), zap.Error(err))
	}
	return domain.NewError(domain.KindUnrecognized, op.name, "", err)
}
