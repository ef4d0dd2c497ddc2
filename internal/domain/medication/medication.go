package medication

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 150

type Medication struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Name is not unique; two medications may share it.
	Name string `gorm:"column:name;type:varchar(150);not null" json:"name"`
}

func (Medication) TableName() string {
	return "medications"
}

func (m *Medication) IsNew() bool {
	return m.ID == 0
}

func (m *Medication) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
}

func (m *Medication) Validate() []string {
	switch n := utf8.RuneCountInString(strings.TrimSpace(m.Name)); {
	case n == 0:
		return []string{"name is required"}
	case n > MaxNameLength:
		return []string{"name must be at most 150 characters"}
	}
	return nil
}

// SaveCommand inserts a medication when ID is zero and updates it otherwise.
type SaveCommand struct {
	ID   int64
	Name string
}

func (c SaveCommand) Medication() *Medication {
	m := &Medication{ID: c.ID, Name: c.Name}
	m.Normalize()
	return m
}
