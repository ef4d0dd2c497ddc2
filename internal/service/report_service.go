package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// QueryObserver receives timings of read queries.
type QueryObserver interface {
	ObserveQuery(operation, kind string, rows int, d time.Duration)
}

// ReportService computes prescribing rankings and totals. Each call is an
// independent read; calls do not share a snapshot.
type ReportService struct {
	repo   report.Repository
	topN   int
	obs    QueryObserver
	log    *zap.Logger
	tracer trace.Tracer
}

func NewReportService(repo report.Repository, topN int, obs QueryObserver, log *zap.Logger) *ReportService {
	if topN <= 0 {
		topN = report.DefaultTopN
	}
	return &ReportService{
		repo:   repo,
		topN:   topN,
		obs:    obs,
		log:    log,
		tracer: otel.Tracer("medscript/service"),
	}
}

// TopMedications ranks medications by how many prescription items use them.
// n <= 0 selects the configured default.
func (s *ReportService) TopMedications(ctx context.Context, n int) ([]report.RankingEntry, error) {
	n = s.limit(n)
	return observe(ctx, s, "top_medications", func(ctx context.Context) ([]report.RankingEntry, error) {
		return s.repo.TopMedications(ctx, n)
	})
}

// TopPatients ranks patients by item count across all their prescriptions.
func (s *ReportService) TopPatients(ctx context.Context, n int) ([]report.RankingEntry, error) {
	n = s.limit(n)
	return observe(ctx, s, "top_patients", func(ctx context.Context) ([]report.RankingEntry, error) {
		return s.repo.TopPatients(ctx, n)
	})
}

// TotalsPerPatient returns one entry per patient, including patients without items.
func (s *ReportService) TotalsPerPatient(ctx context.Context) ([]report.PatientTotal, error) {
	return observe(ctx, s, "patient_totals", s.repo.TotalsPerPatient)
}

func (s *ReportService) limit(n int) int {
	if n <= 0 {
		return s.topN
	}
	return n
}

func observe[T any](ctx context.Context, s *ReportService, name string, fn func(context.Context) ([]T, error)) ([]T, error) {
	ctx, span := s.tracer.Start(ctx, "report."+name)
	defer span.End()
	start := time.Now()

	rows, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		s.log.Error("report query failed", zap.String("report", name), zap.Error(err))
		return nil, fmt.Errorf("computing %s: %w", name, err)
	}

	span.SetAttributes(attribute.Int("report.rows", len(rows)))
	if s.obs != nil {
		s.obs.ObserveQuery(name, "report", len(rows), time.Since(start))
	}
	return rows, nil
}
