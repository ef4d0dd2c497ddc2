// Package constraint maps storage errors raised by a write into the integrity
// conflict they represent.
package constraint

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

type Kind int

const (
	Unrecognized Kind = iota
	DuplicateKey
	ReferentialIntegrity
)

func (k Kind) String() string {
	switch k {
	case DuplicateKey:
		return "duplicate_key"
	case ReferentialIntegrity:
		return "referential_integrity"
	}
	return "unrecognized"
}

// PostgreSQL SQLSTATE integrity codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const sqliteForeignKeyMessage = "FOREIGN KEY CONSTRAINT FAILED"

// Constraint is a named storage constraint the classifier can recognize.
// Aliases are alternative spellings a driver may put in its message, such as
// the "table.column" form sqlite reports for unique indexes.
type Constraint struct {
	Name         string
	Kind         Kind
	Relationship string
	Aliases      []string
}

// Classification is the result of Classify. Hint names the violated constraint
// when one could be identified.
type Classification struct {
	Kind  Kind
	Hint  string
	Cause error
}

func (c Classification) Recognized() bool {
	return c.Kind != Unrecognized
}

type Classifier struct {
	byName map[string]Constraint
	terms  []term
}

type term struct {
	text       string
	constraint Constraint
}

func NewClassifier(constraints ...Constraint) *Classifier {
	c := &Classifier{byName: make(map[string]Constraint, len(constraints))}
	for _, k := range constraints {
		name := strings.ToLower(strings.TrimSpace(k.Name))
		if name == "" {
			continue
		}
		c.byName[name] = k
		c.terms = append(c.terms, term{text: name, constraint: k})
		for _, a := range k.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				c.terms = append(c.terms, term{text: a, constraint: k})
			}
		}
	}
	// Longest first so a name never shadows a longer one containing it.
	sort.SliceStable(c.terms, func(i, j int) bool { return len(c.terms[i].text) > len(c.terms[j].text) })
	return c
}

// Lookup returns the registered constraint with the given name.
func (c *Classifier) Lookup(name string) (Constraint, bool) {
	k, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Classify inspects err and every error it wraps. Structured signals (driver
// codes, then constraint names) anywhere in the chain win over a textual match
// of a registered constraint name. The textual match only runs when no error in
// the chain came from a driver, so a driver code that is not a unique or
// foreign-key violation (NOT NULL, CHECK) stays Unrecognized even when its
// message mentions a registered column.
func (c *Classifier) Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}
	chain := unwrapAll(err)

	fromDriver := false
	for _, e := range chain {
		if kind, name, ok := structured(e); ok {
			fromDriver = true
			if kind == Unrecognized {
				k, found := c.Lookup(name)
				if !found {
					continue
				}
				return Classification{Kind: k.Kind, Hint: k.Name, Cause: e}
			}
			hint := name
			if hint == "" {
				if k, found := c.matchText(chain, kind); found {
					hint = k.Name
				}
			}
			return Classification{Kind: kind, Hint: hint, Cause: e}
		}
	}

	if fromDriver {
		return Classification{Kind: Unrecognized, Cause: err}
	}

	for _, e := range chain {
		if k, found := c.matchText([]error{e}, Unrecognized); found {
			return Classification{Kind: k.Kind, Hint: k.Name, Cause: e}
		}
	}

	return Classification{Kind: Unrecognized, Cause: err}
}

// matchText searches the messages of errs for a registered constraint. When
// want is not Unrecognized only constraints of that kind match.
func (c *Classifier) matchText(errs []error, want Kind) (Constraint, bool) {
	for _, e := range errs {
		msg := strings.ToLower(e.Error())
		for _, t := range c.terms {
			if want != Unrecognized && t.constraint.Kind != want {
				continue
			}
			if strings.Contains(msg, t.text) {
				return t.constraint, true
			}
		}
	}
	return Constraint{}, false
}

// structured reads driver-level signals from a single error value. ok is true
// when the value is a driver error; kind is Unrecognized when the code is not
// an integrity code we map, in which case name may still identify a constraint.
func structured(err error) (kind Kind, name string, ok bool) {
	switch e := err.(type) {
	case *pgconn.PgError:
		return pgKind(e.Code), e.ConstraintName, true
	case sqlite3.Error:
		return sqliteKind(e), "", true
	case *sqlite3.Error:
		if e == nil {
			return Unrecognized, "", false
		}
		return sqliteKind(*e), "", true
	}
	return Unrecognized, "", false
}

func pgKind(code string) Kind {
	switch strings.TrimSpace(code) {
	case pgUniqueViolation:
		return DuplicateKey
	case pgForeignKeyViolation:
		return ReferentialIntegrity
	}
	return Unrecognized
}

func sqliteKind(e sqlite3.Error) Kind {
	if e.Code != sqlite3.ErrConstraint {
		return Unrecognized
	}
	switch e.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return DuplicateKey
	case sqlite3.ErrConstraintForeignKey:
		return ReferentialIntegrity
	case sqlite3.ErrConstraintTrigger:
		// A parent delete blocked by ON DELETE RESTRICT is reported with the
		// trigger code. The schema declares no triggers of its own.
		return ReferentialIntegrity
	}
	if strings.Contains(strings.ToUpper(e.Error()), sqliteForeignKeyMessage) {
		return ReferentialIntegrity
	}
	return Unrecognized
}

// unwrapAll flattens the wrap tree of err, outermost first.
func unwrapAll(err error) []error {
	var out []error
	seen := 0
	var walk func(error)
	walk = func(e error) {
		if e == nil || seen > 64 {
			return
		}
		seen++
		out = append(out, e)
		switch x := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}

// IsIntegrity reports whether err carries any driver integrity code,
// recognized or not.
func IsIntegrity(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code == sqlite3.ErrConstraint
	}
	return false
}
