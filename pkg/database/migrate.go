package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Constraint names are part of the storage contract; the write path classifies
// violations by them.
var schema = []struct {
	name  string
	query string
}{
	{
		name: "patients",
		query: `CREATE TABLE IF NOT EXISTS patients (
	id {{pk}},
	name VARCHAR(150) NOT NULL,
	national_id VARCHAR(14) NOT NULL,
	created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT uk_patient_national_id UNIQUE (national_id)
)`,
	},
	{
		name: "medications",
		query: `CREATE TABLE IF NOT EXISTS medications (
	id {{pk}},
	name VARCHAR(150) NOT NULL,
	created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	},
	{
		name: "prescriptions",
		query: `CREATE TABLE IF NOT EXISTS prescriptions (
	id {{pk}},
	patient_id BIGINT NOT NULL,
	created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT fk_prescription_patient FOREIGN KEY (patient_id) REFERENCES patients (id) ON DELETE RESTRICT
)`,
	},
	{
		name: "prescription_items",
		query: `CREATE TABLE IF NOT EXISTS prescription_items (
	id {{pk}},
	prescription_id BIGINT NOT NULL,
	medication_id BIGINT NOT NULL,
	created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT fk_item_prescription FOREIGN KEY (prescription_id) REFERENCES prescriptions (id) ON DELETE CASCADE,
	CONSTRAINT fk_item_medication FOREIGN KEY (medication_id) REFERENCES medications (id) ON DELETE RESTRICT
)`,
	},
	{
		name: "audit_logs",
		query: `CREATE TABLE IF NOT EXISTS audit_logs (
	id {{uuid}} PRIMARY KEY,
	occurred_at {{ts}} NOT NULL,
	actor VARCHAR(100) NOT NULL,
	role VARCHAR(30) NOT NULL,
	ip_address VARCHAR(45),
	action VARCHAR(20) NOT NULL,
	resource_type VARCHAR(50) NOT NULL,
	resource_id VARCHAR(50),
	request_id VARCHAR(50),
	changes TEXT
)`,
	},
}

var indexes = []struct {
	name  string
	query string
}{
	{name: "idx_patients_lower_name", query: `CREATE INDEX IF NOT EXISTS idx_patients_lower_name ON patients (LOWER(name))`},
	{name: "idx_medications_lower_name", query: `CREATE INDEX IF NOT EXISTS idx_medications_lower_name ON medications (LOWER(name))`},
	{name: "idx_prescriptions_patient", query: `CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id)`},
	{name: "idx_items_prescription", query: `CREATE INDEX IF NOT EXISTS idx_items_prescription ON prescription_items (prescription_id)`},
	{name: "idx_items_medication", query: `CREATE INDEX IF NOT EXISTS idx_items_medication ON prescription_items (medication_id)`},
	{name: "idx_audit_logs_resource", query: `CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs (resource_type, resource_id)`},
}

func dialectReplacer(dialect string) (*strings.Replacer, error) {
	switch dialect {
	case "postgres":
		return strings.NewReplacer("{{pk}}", "BIGSERIAL PRIMARY KEY", "{{ts}}", "TIMESTAMPTZ", "{{uuid}}", "UUID"), nil
	case "sqlite":
		return strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ts}}", "DATETIME", "{{uuid}}", "TEXT"), nil
	}
	return nil, fmt.Errorf("no schema for dialect %q", dialect)
}

// Migrate creates the medscript tables and indexes. It is idempotent.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	r, err := dialectReplacer(db.Dialector.Name())
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, t := range schema {
			if err := tx.Exec(r.Replace(t.query)).Error; err != nil {
				return fmt.Errorf("creating table %s: %w", t.name, err)
			}
		}
		for _, idx := range indexes {
			if err := tx.Exec(idx.query).Error; err != nil {
				return fmt.Errorf("creating index %s: %w", idx.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}
