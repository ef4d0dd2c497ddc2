package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/testutil"
	"gorm.io/gorm"
)

type spyObserver struct {
	calls []string
}

func (s *spyObserver) ObserveQuery(operation, kind string, rows int, _ time.Duration) {
	s.calls = append(s.calls, fmt.Sprintf("%s/%s/%d", operation, kind, rows))
}

func newEngine(t *testing.T) (*Engine, *gorm.DB, *spyObserver) {
	t.Helper()
	db := testutil.DB(t)
	obs := &spyObserver{}
	return NewEngine(db, testutil.Logger(t), obs), db, obs
}

func names(rows []*patient.Patient) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestPatientsSubstringFilter(t *testing.T) {
	e, db, obs := newEngine(t)
	testutil.SeedPatient(t, db, "Pedro", "")
	testutil.SeedPatient(t, db, "Joana", "")
	testutil.SeedPatient(t, db, "Ana", "")

	for _, term := range []string{"an", "AN", "  aN "} {
		page, err := e.Patients(context.Background(), Request{Limit: 10, Filters: map[string]string{FieldName: term}, Ascending: true})
		if err != nil {
			t.Fatalf("term %q: %v", term, err)
		}
		if page.TotalCount != 2 {
			t.Fatalf("term %q: total = %d, want 2", term, page.TotalCount)
		}
		if got := names(page.Rows); len(got) != 2 || got[0] != "Ana" || got[1] != "Joana" {
			t.Fatalf("term %q: rows = %v", term, got)
		}
	}

	if len(obs.calls) != 3 || obs.calls[0] != "fetch_page/patient/2" {
		t.Errorf("unexpected observations %v", obs.calls)
	}
}

func TestPatientsFiltersCombineWithAnd(t *testing.T) {
	e, db, _ := newEngine(t)
	testutil.SeedPatient(t, db, "Ana Souza", "111.222.333-44")
	testutil.SeedPatient(t, db, "Ana Lima", "555.666.777-88")

	page, err := e.Patients(context.Background(), Request{Limit: 10, Filters: map[string]string{
		FieldName:       "ana",
		FieldNationalID: "555",
	}})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || page.Rows[0].Name != "Ana Lima" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestLikeMetacharactersAreLiteral(t *testing.T) {
	e, db, _ := newEngine(t)
	testutil.SeedMedication(t, db, "Dipirona 50%")
	testutil.SeedMedication(t, db, "Dipirona 500")
	testutil.SeedMedication(t, db, "Soro_fisiologico")
	testutil.SeedMedication(t, db, "Soro fisiologico")

	for term, want := range map[string]int64{"50%": 1, "o_f": 1, "dipirona": 2} {
		page, err := e.Medications(context.Background(), Request{Limit: 10, Filters: map[string]string{FieldName: term}})
		if err != nil {
			t.Fatal(err)
		}
		if page.TotalCount != want {
			t.Errorf("term %q: total = %d, want %d", term, page.TotalCount, want)
		}
	}
}

func TestUnknownAndBlankFiltersAreIgnored(t *testing.T) {
	e, db, _ := newEngine(t)
	testutil.SeedPatient(t, db, "Ana", "")
	testutil.SeedPatient(t, db, "Pedro", "")

	page, err := e.Patients(context.Background(), Request{Limit: 10, Filters: map[string]string{
		"password": "x",
		FieldName:  "   ",
	}})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("total = %d, want 2", page.TotalCount)
	}
}

func TestPaginationCoversFilteredSetExactlyOnce(t *testing.T) {
	e, db, _ := newEngine(t)
	for i := 0; i < 23; i++ {
		// Duplicate names force the id tie-break to decide page boundaries.
		testutil.SeedPatient(t, db, fmt.Sprintf("Maria %d", i%4), "")
	}
	testutil.SeedPatient(t, db, "Pedro", "")

	filters := map[string]string{FieldName: "maria"}
	count, err := e.Count(context.Background(), KindPatient, filters)
	if err != nil {
		t.Fatal(err)
	}
	if count != 23 {
		t.Fatalf("count = %d, want 23", count)
	}

	for _, asc := range []bool{true, false} {
		seen := map[int64]int{}
		const limit = 5
		for offset := 0; offset < int(count); offset += limit {
			page, err := e.Patients(context.Background(), Request{Offset: offset, Limit: limit, Filters: filters, SortField: FieldName, Ascending: asc})
			if err != nil {
				t.Fatal(err)
			}
			if page.TotalCount != count {
				t.Fatalf("page total %d differs from count %d", page.TotalCount, count)
			}
			for _, p := range page.Rows {
				seen[p.ID]++
			}
		}
		if len(seen) != int(count) {
			t.Fatalf("asc=%v: saw %d distinct rows, want %d", asc, len(seen), count)
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("asc=%v: row %d returned %d times", asc, id, n)
			}
		}
	}

	all, err := e.Patients(context.Background(), Request{Limit: int(count) + 10, Filters: filters})
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(all.Rows)) != all.TotalCount {
		t.Fatalf("rows %d != total %d with limit above total", len(all.Rows), all.TotalCount)
	}
}

func TestSortFallback(t *testing.T) {
	e, db, _ := newEngine(t)
	testutil.SeedPatient(t, db, "Carla", "")
	testutil.SeedPatient(t, db, "Ana", "")
	testutil.SeedPatient(t, db, "Bruno", "")

	page, err := e.Patients(context.Background(), Request{Limit: 10, SortField: "birthday", Ascending: false})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(page.Rows); got[0] != "Ana" || got[2] != "Carla" {
		t.Fatalf("fallback should be name ascending, got %v", got)
	}

	page, err = e.Patients(context.Background(), Request{Limit: 10, SortField: FieldName, Ascending: false})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(page.Rows); got[0] != "Carla" {
		t.Fatalf("explicit descending sort ignored, got %v", got)
	}
}

func TestSummaries(t *testing.T) {
	e, db, _ := newEngine(t)
	ana := testutil.SeedPatient(t, db, "Ana", "")
	pedro := testutil.SeedPatient(t, db, "Pedro", "")
	dipirona := testutil.SeedMedication(t, db, "Dipirona")
	amoxi := testutil.SeedMedication(t, db, "Amoxicilina")

	r1 := testutil.SeedPrescription(t, db, ana.ID)
	testutil.SeedItem(t, db, r1.ID, dipirona.ID)
	testutil.SeedItem(t, db, r1.ID, amoxi.ID)
	r2 := testutil.SeedPrescription(t, db, pedro.ID)
	testutil.SeedItem(t, db, r2.ID, amoxi.ID)
	r3 := testutil.SeedPrescription(t, db, pedro.ID)

	page, err := e.Summaries(context.Background(), Request{Limit: 10, Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("total = %d, want 3", page.TotalCount)
	}
	wantCounts := map[int64]int64{r1.ID: 2, r2.ID: 1, r3.ID: 0}
	for i, s := range page.Rows {
		if i > 0 && page.Rows[i-1].PrescriptionID > s.PrescriptionID {
			t.Fatalf("default summary order should be prescription id ascending")
		}
		if s.ItemCount != wantCounts[s.PrescriptionID] {
			t.Errorf("prescription %d item count = %d, want %d", s.PrescriptionID, s.ItemCount, wantCounts[s.PrescriptionID])
		}
	}
	if page.Rows[0].PatientName != "Ana" || page.Rows[0].PatientID != ana.ID {
		t.Errorf("unexpected first row %+v", page.Rows[0])
	}

	desc, err := e.Summaries(context.Background(), Request{Limit: 10, Ascending: false})
	if err != nil {
		t.Fatal(err)
	}
	if desc.Rows[0].PrescriptionID != r3.ID {
		t.Errorf("default summary order should honor direction, first = %d", desc.Rows[0].PrescriptionID)
	}

	// Existential: r1 has two items but matches once.
	byMed, err := e.Summaries(context.Background(), Request{Limit: 10, Filters: map[string]string{FieldMedicationName: "i"}, Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if byMed.TotalCount != 2 || len(byMed.Rows) != 2 {
		t.Fatalf("medication filter: total = %d rows = %d, want 2", byMed.TotalCount, len(byMed.Rows))
	}
	if byMed.Rows[0].ItemCount != 2 {
		t.Errorf("filter must not narrow the item count, got %d", byMed.Rows[0].ItemCount)
	}

	byPatient, err := e.Summaries(context.Background(), Request{Limit: 1, Filters: map[string]string{FieldPatientName: "PED"}, SortField: FieldPatientName, Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if byPatient.TotalCount != 2 || len(byPatient.Rows) != 1 || byPatient.Rows[0].PrescriptionID != r2.ID {
		t.Fatalf("patient filter page = %+v", byPatient)
	}
}

func TestFetchPageDispatch(t *testing.T) {
	e, db, _ := newEngine(t)
	testutil.SeedMedication(t, db, "Dipirona")

	page, err := e.FetchPage(context.Background(), Request{Kind: KindMedication, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || len(page.Rows) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := e.FetchPage(context.Background(), Request{Kind: "doctor", Limit: 5}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}
}

func TestRequestValidation(t *testing.T) {
	e, _, _ := newEngine(t)
	for _, req := range []Request{
		{Offset: -1, Limit: 10},
		{Offset: 0, Limit: 0},
	} {
		if _, err := e.Patients(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("request %+v: expected validation error, got %v", req, err)
		}
	}
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Ana":     "%ana%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`c:\temp`: `%c:\\temp%`,
	}
	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
