package constraint

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }

func TestClassify(t *testing.T) {
	c := Default()

	sqliteUnique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	sqliteFK := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	sqliteNotNull := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}
	sqliteRestrict := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}

	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantHint string
	}{
		{
			name:     "nil",
			err:      nil,
			wantKind: Unrecognized,
		},
		{
			name:     "postgres unique violation with constraint name",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "uk_patient_national_id"},
			wantKind: DuplicateKey,
			wantHint: "uk_patient_national_id",
		},
		{
			name:     "postgres foreign key violation",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "fk_item_medication"},
			wantKind: ReferentialIntegrity,
			wantHint: "fk_item_medication",
		},
		{
			name:     "postgres unique violation on unregistered constraint keeps its name",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "medications_pkey"},
			wantKind: DuplicateKey,
			wantHint: "medications_pkey",
		},
		{
			name:     "constraint name alone classifies through the registry",
			err:      &pgconn.PgError{Code: "XX000", ConstraintName: "fk_prescription_patient"},
			wantKind: ReferentialIntegrity,
			wantHint: "fk_prescription_patient",
		},
		{
			name:     "check violation on unknown constraint is not a duplicate",
			err:      &pgconn.PgError{Code: "23514", ConstraintName: "ck_something"},
			wantKind: Unrecognized,
		},
		{
			name:     "sqlite unique code with hint from wrapping message",
			err:      fmt.Errorf("UNIQUE constraint failed: patients.national_id: %w", sqliteUnique),
			wantKind: DuplicateKey,
			wantHint: "uk_patient_national_id",
		},
		{
			name:     "sqlite foreign key code",
			err:      sqliteFK,
			wantKind: ReferentialIntegrity,
		},
		{
			name:     "sqlite not null is not recognized",
			err:      fmt.Errorf("insert: %w", sqliteNotNull),
			wantKind: Unrecognized,
		},
		{
			name:     "sqlite restrict on parent delete",
			err:      fmt.Errorf("FOREIGN KEY constraint failed: %w", sqliteRestrict),
			wantKind: ReferentialIntegrity,
		},
		{
			name:     "sqlite not null naming a registered column stays unrecognized",
			err:      fmt.Errorf("NOT NULL constraint failed: patients.national_id: %w", sqliteNotNull),
			wantKind: Unrecognized,
		},
		{
			name:     "postgres check violation mentioning a registered name stays unrecognized",
			err:      fmt.Errorf("uk_patient_national_id check: %w", &pgconn.PgError{Code: "23514", ConstraintName: "ck_national_id_format"}),
			wantKind: Unrecognized,
		},
		{
			name:     "textual fallback on registered name",
			err:      errors.New(`ERROR: update or delete on table "medications" violates foreign key constraint "fk_item_medication"`),
			wantKind: ReferentialIntegrity,
			wantHint: "fk_item_medication",
		},
		{
			name:     "generic integrity text is never classified",
			err:      errors.New("constraint violation: duplicate key"),
			wantKind: Unrecognized,
		},
		{
			name: "root cause walk through several layers",
			err: &wrapped{msg: "transaction failed", cause: fmt.Errorf("flush: %w",
				&wrapped{msg: "statement failed", cause: &pgconn.PgError{Code: "23505", ConstraintName: "uk_patient_national_id"}})},
			wantKind: DuplicateKey,
			wantHint: "uk_patient_national_id",
		},
		{
			name:     "joined errors are walked",
			err:      errors.Join(errors.New("rollback failed"), &pgconn.PgError{Code: "23503", ConstraintName: "fk_item_prescription"}),
			wantKind: ReferentialIntegrity,
			wantHint: "fk_item_prescription",
		},
		{
			name: "structured code deeper in the chain beats text higher up",
			err: &wrapped{msg: "save failed near fk_item_medication",
				cause: &pgconn.PgError{Code: "23505", ConstraintName: "uk_patient_national_id"}},
			wantKind: DuplicateKey,
			wantHint: "uk_patient_national_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.err)
			if got.Kind != tt.wantKind {
				t.Fatalf("kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.Hint != tt.wantHint {
				t.Fatalf("hint = %q, want %q", got.Hint, tt.wantHint)
			}
		})
	}
}

func TestClassifyKeepsCauseForUnrecognized(t *testing.T) {
	cause := errors.New("connection reset by peer")
	got := Default().Classify(fmt.Errorf("insert patient: %w", cause))
	if got.Recognized() {
		t.Fatalf("expected unrecognized, got %s", got.Kind)
	}
	if !errors.Is(got.Cause, cause) {
		t.Fatalf("cause %v does not wrap %v", got.Cause, cause)
	}
}

func TestNewClassifierPrefersLongestTerm(t *testing.T) {
	c := NewClassifier(
		Constraint{Name: "fk_item", Kind: DuplicateKey},
		Constraint{Name: "fk_item_medication", Kind: ReferentialIntegrity},
	)
	got := c.Classify(errors.New("violates fk_item_medication"))
	if got.Kind != ReferentialIntegrity || got.Hint != "fk_item_medication" {
		t.Fatalf("got %s/%q", got.Kind, got.Hint)
	}
}

func TestIsIntegrity(t *testing.T) {
	if !IsIntegrity(fmt.Errorf("x: %w", &pgconn.PgError{Code: "23514"})) {
		t.Fatal("postgres check violation should be an integrity error")
	}
	if !IsIntegrity(sqlite3.Error{Code: sqlite3.ErrConstraint}) {
		t.Fatal("sqlite constraint should be an integrity error")
	}
	if IsIntegrity(errors.New("boom")) {
		t.Fatal("plain error should not be an integrity error")
	}
}
