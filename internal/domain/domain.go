package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RolePharmacist Role = "pharmacist"
	RoleClerk      Role = "clerk"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePharmacist, RoleClerk:
		return true
	}
	return false
}

// CanPrescribe reports whether the role may create or change prescriptions.
func (r Role) CanPrescribe() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// Actor is the authenticated caller behind a request.
type Actor struct {
	Subject   string `json:"sub"`
	Role      Role   `json:"role"`
	RequestID string `json:"-"`
	IPAddress string `json:"-"`
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the caller attached to ctx, or a "system" actor when none is present.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{Subject: "system", Role: RoleAdmin}
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`

	// Who
	Actor     string `gorm:"column:actor;type:varchar(100);not null"`
	Role      Role   `gorm:"column:role;type:varchar(30);not null"`
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50)"`

	RequestID string `gorm:"column:request_id;type:varchar(50)"`
	Changes   string `gorm:"column:changes;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
