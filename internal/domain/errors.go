package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the caller-facing category of a failed operation.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindDuplicateKey         ErrorKind = "duplicate_key"
	KindReferentialIntegrity ErrorKind = "referential_integrity"
	KindValidation           ErrorKind = "validation"
	KindUnrecognized         ErrorKind = "unrecognized"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrValidation           = errors.New("validation failed")
	ErrUnrecognized         = errors.New("unrecognized storage failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindDuplicateKey:
		return ErrDuplicateKey
	case KindReferentialIntegrity:
		return ErrReferentialIntegrity
	case KindValidation:
		return ErrValidation
	case KindUnrecognized:
		return ErrUnrecognized
	}
	return nil
}

// Error is a classified failure of a write operation. Hint names the violated
// constraint when it is known; Relationship names the link it guards, such as
// "prescription -> patient".
type Error struct {
	Kind         ErrorKind
	Op           string
	Hint         string
	Relationship string
	Err          error
}

func NewError(kind ErrorKind, op, hint string, cause error) *Error {
	return &Error{Kind: kind, Op: strings.TrimSpace(op), Hint: strings.TrimSpace(hint), Err: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.sentinel().Error())
	switch {
	case e.Hint != "" && e.Relationship != "":
		fmt.Fprintf(&b, " (%s, %s)", e.Hint, e.Relationship)
	case e.Hint != "":
		fmt.Fprintf(&b, " (%s)", e.Hint)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf reports the kind carried by err, or "" when err is not a domain failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	for _, k := range []ErrorKind{KindNotFound, KindDuplicateKey, KindReferentialIntegrity, KindValidation, KindUnrecognized} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return ""
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
