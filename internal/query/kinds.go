package query

import (
	"sort"
	"strings"

	"gorm.io/gorm"
)

type Kind string

const (
	KindPatient             Kind = "patient"
	KindMedication          Kind = "medication"
	KindPrescriptionSummary Kind = "prescription_summary"
)

// Filter and sort field names accepted per kind.
const (
	FieldName           = "name"
	FieldNationalID     = "nationalId"
	FieldPatientName    = "patientName"
	FieldMedicationName = "medicationName"
	FieldPrescriptionID = "prescriptionId"
	FieldID             = "id"
)

type filterFunc func(db *gorm.DB, pattern string) *gorm.DB

type sortKey struct {
	column string
	// fixed sorts ignore the requested direction.
	fixed bool
}

// kindSpec describes how one entity kind is read: its source relation, the
// whitelisted filters and sort keys, and the fallback ordering.
type kindSpec struct {
	from    func(db *gorm.DB) *gorm.DB
	columns string
	filters map[string]filterFunc
	sorts   map[string]sortKey
	// fallback applies when the requested sort field is empty or unknown.
	fallback sortKey
	// tieBreak makes equal sort keys page deterministically.
	tieBreak string
}

func likeLower(column string) filterFunc {
	clause := "LOWER(" + column + `) LIKE ? ESCAPE '\'`
	return func(db *gorm.DB, pattern string) *gorm.DB {
		return db.Where(clause, pattern)
	}
}

var specs = map[Kind]kindSpec{
	KindPatient: {
		from: func(db *gorm.DB) *gorm.DB { return db.Table("patients") },
		filters: map[string]filterFunc{
			FieldName:       likeLower("name"),
			FieldNationalID: likeLower("national_id"),
		},
		sorts: map[string]sortKey{
			FieldName:       {column: "name"},
			FieldNationalID: {column: "national_id"},
			FieldID:         {column: "id"},
		},
		fallback: sortKey{column: "name", fixed: true},
		tieBreak: "id",
	},
	KindMedication: {
		from: func(db *gorm.DB) *gorm.DB { return db.Table("medications") },
		filters: map[string]filterFunc{
			FieldName: likeLower("name"),
		},
		sorts: map[string]sortKey{
			FieldName: {column: "name"},
			FieldID:   {column: "id"},
		},
		fallback: sortKey{column: "name", fixed: true},
		tieBreak: "id",
	},
	KindPrescriptionSummary: {
		from: func(db *gorm.DB) *gorm.DB {
			return db.Table("prescriptions AS r").Joins("JOIN patients p ON p.id = r.patient_id")
		},
		// The item count is a scalar subquery per row; items are never loaded.
		columns: `r.id AS prescription_id, r.patient_id AS patient_id, p.name AS patient_name,
			(SELECT COUNT(*) FROM prescription_items i WHERE i.prescription_id = r.id) AS item_count`,
		filters: map[string]filterFunc{
			FieldPatientName: likeLower("p.name"),
			FieldMedicationName: func(db *gorm.DB, pattern string) *gorm.DB {
				return db.Where(`EXISTS (SELECT 1 FROM prescription_items mi
					JOIN medications m ON m.id = mi.medication_id
					WHERE mi.prescription_id = r.id AND LOWER(m.name) LIKE ? ESCAPE '\')`, pattern)
			},
		},
		sorts: map[string]sortKey{
			FieldPatientName:    {column: "p.name"},
			FieldPrescriptionID: {column: "r.id"},
		},
		fallback: sortKey{column: "r.id"},
		tieBreak: "r.id",
	},
}

// containsPattern turns a free-text term into a case-insensitive LIKE pattern
// matching it anywhere, with LIKE metacharacters taken literally.
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}

// FilterFields lists the filter fields accepted for kind, sorted.
func FilterFields(kind Kind) []string {
	spec, ok := specs[kind]
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(spec.filters))
	for f := range spec.filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
