package patient

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength       = 150
	MinNationalIDLength = 11
	MaxNationalIDLength = 14

	// UniqueNationalIDConstraint is the storage constraint guarding national id uniqueness.
	UniqueNationalIDConstraint = "uk_patient_national_id"
)

type Patient struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Name string `gorm:"column:name;type:varchar(150);not null" json:"name"`
	// NationalID is the CPF, stored as typed (with or without mask).
	NationalID string `gorm:"column:national_id;type:varchar(14);not null" json:"nationalId"`
}

func (Patient) TableName() string {
	return "patients"
}

// IsNew reports whether the patient has not been persisted yet.
func (p *Patient) IsNew() bool {
	return p.ID == 0
}

// Normalize trims surrounding whitespace from user-entered fields.
func (p *Patient) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.NationalID = strings.TrimSpace(p.NationalID)
}

// Validate returns one message per violated field rule, or nil.
func (p *Patient) Validate() []string {
	var errs []string

	switch n := utf8.RuneCountInString(strings.TrimSpace(p.Name)); {
	case n == 0:
		errs = append(errs, "name is required")
	case n > MaxNameLength:
		errs = append(errs, "name must be at most 150 characters")
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(p.NationalID)); {
	case n == 0:
		errs = append(errs, "national_id is required")
	case n < MinNationalIDLength || n > MaxNationalIDLength:
		errs = append(errs, "national_id must be between 11 and 14 characters")
	}

	return errs
}

// SaveCommand inserts a patient when ID is zero and updates it otherwise.
type SaveCommand struct {
	ID         int64
	Name       string
	NationalID string
}

func (c SaveCommand) Patient() *Patient {
	p := &Patient{ID: c.ID, Name: c.Name, NationalID: c.NationalID}
	p.Normalize()
	return p
}
