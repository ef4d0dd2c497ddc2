// Package query reads filtered, sorted pages of patients, medications and
// prescription summaries together with the total number of matching rows.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/prescription"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Request struct {
	Kind   Kind
	Offset int
	Limit  int
	// Filters maps a whitelisted field to a substring term. Terms are matched
	// case-insensitively and combined with AND; blank terms are ignored.
	Filters   map[string]string
	SortField string
	Ascending bool
}

type Page[T any] struct {
	Rows       []T   `json:"rows"`
	TotalCount int64 `json:"totalCount"`
}

// Observer receives timings of executed reads.
type Observer interface {
	ObserveQuery(operation, kind string, rows int, d time.Duration)
}

type Engine struct {
	db     *gorm.DB
	log    *zap.Logger
	obs    Observer
	tracer trace.Tracer
}

func NewEngine(db *gorm.DB, log *zap.Logger, obs Observer) *Engine {
	return &Engine{
		db:     db,
		log:    log,
		obs:    obs,
		tracer: otel.Tracer("medscript/query"),
	}
}

func (e *Engine) Patients(ctx context.Context, req Request) (Page[*patient.Patient], error) {
	req.Kind = KindPatient
	return fetch[*patient.Patient](ctx, e, req)
}

func (e *Engine) Medications(ctx context.Context, req Request) (Page[*medication.Medication], error) {
	req.Kind = KindMedication
	return fetch[*medication.Medication](ctx, e, req)
}

func (e *Engine) Summaries(ctx context.Context, req Request) (Page[*prescription.Summary], error) {
	req.Kind = KindPrescriptionSummary
	return fetch[*prescription.Summary](ctx, e, req)
}

// FetchPage dispatches on req.Kind and returns rows of the kind's row type.
func (e *Engine) FetchPage(ctx context.Context, req Request) (Page[any], error) {
	switch req.Kind {
	case KindPatient:
		p, err := e.Patients(ctx, req)
		return erase(p, err)
	case KindMedication:
		p, err := e.Medications(ctx, req)
		return erase(p, err)
	case KindPrescriptionSummary:
		p, err := e.Summaries(ctx, req)
		return erase(p, err)
	}
	return Page[any]{}, unsupportedKind(req.Kind)
}

// Count returns the number of rows of kind matching filters, using the same
// predicates as a page read.
func (e *Engine) Count(ctx context.Context, kind Kind, filters map[string]string) (int64, error) {
	spec, ok := specs[kind]
	if !ok {
		return 0, unsupportedKind(kind)
	}
	var n int64
	err := spec.from(e.db.WithContext(ctx)).Scopes(e.where(kind, spec, filters)).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

func fetch[T any](ctx context.Context, e *Engine, req Request) (Page[T], error) {
	if err := validate(req); err != nil {
		return Page[T]{}, err
	}
	spec := specs[req.Kind]

	ctx, span := e.tracer.Start(ctx, "query.FetchPage", trace.WithAttributes(
		attribute.String("query.kind", string(req.Kind)),
		attribute.Int("query.offset", req.Offset),
		attribute.Int("query.limit", req.Limit),
	))
	defer span.End()
	start := time.Now()

	where := e.where(req.Kind, spec, req.Filters)

	var total int64
	if err := spec.from(e.db.WithContext(ctx)).Scopes(where).Count(&total).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return Page[T]{}, fmt.Errorf("counting %s: %w", req.Kind, err)
	}

	rows := make([]T, 0, req.Limit)
	page := spec.from(e.db.WithContext(ctx)).Scopes(where, orderBy(spec, req.SortField, req.Ascending))
	if spec.columns != "" {
		page = page.Select(spec.columns)
	}
	if err := page.Offset(req.Offset).Limit(req.Limit).Scan(&rows).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page failed")
		return Page[T]{}, fmt.Errorf("fetching %s page: %w", req.Kind, err)
	}

	span.SetAttributes(attribute.Int64("query.total", total), attribute.Int("query.rows", len(rows)))
	if e.obs != nil {
		e.obs.ObserveQuery("fetch_page", string(req.Kind), len(rows), time.Since(start))
	}
	return Page[T]{Rows: rows, TotalCount: total}, nil
}

// where builds the predicate scope shared by the count and the page query.
func (e *Engine) where(kind Kind, spec kindSpec, filters map[string]string) func(*gorm.DB) *gorm.DB {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	type clause struct {
		apply   filterFunc
		pattern string
	}
	clauses := make([]clause, 0, len(fields))
	for _, field := range fields {
		term := strings.TrimSpace(filters[field])
		if term == "" {
			continue
		}
		apply, ok := spec.filters[field]
		if !ok {
			e.log.Debug("ignoring unsupported filter field",
				zap.String("kind", string(kind)),
				zap.String("field", field),
			)
			continue
		}
		clauses = append(clauses, clause{apply: apply, pattern: containsPattern(term)})
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = c.apply(db, c.pattern)
		}
		return db
	}
}

func orderBy(spec kindSpec, field string, ascending bool) func(*gorm.DB) *gorm.DB {
	key, ok := spec.sorts[field]
	if !ok {
		key = spec.fallback
	}
	dir := "DESC"
	if ascending || key.fixed {
		dir = "ASC"
	}
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(key.column + " " + dir)
		if key.column != spec.tieBreak {
			db = db.Order(spec.tieBreak + " ASC")
		}
		return db
	}
}

func validate(req Request) error {
	var errs []string
	if _, ok := specs[req.Kind]; !ok {
		errs = append(errs, fmt.Sprintf("kind %q is not supported", req.Kind))
	}
	if req.Offset < 0 {
		errs = append(errs, "offset must not be negative")
	}
	if req.Limit <= 0 {
		errs = append(errs, "limit must be positive")
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

func unsupportedKind(kind Kind) error {
	return &domain.ValidationError{Fields: []string{fmt.Sprintf("kind %q is not supported", kind)}}
}

func erase[T any](p Page[T], err error) (Page[any], error) {
	if err != nil {
		return Page[any]{}, err
	}
	rows := make([]any, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = r
	}
	return Page[any]{Rows: rows, TotalCount: p.TotalCount}, nil
}
