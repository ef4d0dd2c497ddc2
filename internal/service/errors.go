package service

import (
	"errors"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

// AuditEntry describes one mutating operation. The actor is taken from the
// request context when the entry is enqueued.
type AuditEntry struct {
	Action       string
	ResourceType string
	ResourceID   string
	Changes      string
}
