package service

import (
	"context"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/testutil"
)

func TestTopPatients(t *testing.T) {
	f := newFixture(t)
	a := testutil.SeedPatient(t, f.db, "A", "")
	b := testutil.SeedPatient(t, f.db, "B", "")
	testutil.SeedPatient(t, f.db, "C", "")
	med := testutil.SeedMedication(t, f.db, "Dipirona")

	a1 := testutil.SeedPrescription(t, f.db, a.ID)
	a2 := testutil.SeedPrescription(t, f.db, a.ID)
	testutil.SeedItem(t, f.db, a1.ID, med.ID)
	testutil.SeedItem(t, f.db, a1.ID, med.ID)
	testutil.SeedItem(t, f.db, a2.ID, med.ID)
	b1 := testutil.SeedPrescription(t, f.db, b.ID)
	testutil.SeedItem(t, f.db, b1.ID, med.ID)

	got, err := f.reports.TopPatients(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Name != "A" || got[0].Count != 3 || got[1].Name != "B" || got[1].Count != 1 {
		t.Fatalf("unexpected ranking %+v", got)
	}
}

func TestTopMedications_TieBreakByName(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedPatient(t, f.db, "Ana", "")
	rx := testutil.SeedPrescription(t, f.db, p.ID)
	zinco := testutil.SeedMedication(t, f.db, "Zinco")
	amoxi := testutil.SeedMedication(t, f.db, "Amoxicilina")
	dipirona := testutil.SeedMedication(t, f.db, "Dipirona")
	testutil.SeedMedication(t, f.db, "Nunca Usada")

	testutil.SeedItem(t, f.db, rx.ID, dipirona.ID)
	testutil.SeedItem(t, f.db, rx.ID, dipirona.ID)
	testutil.SeedItem(t, f.db, rx.ID, dipirona.ID)
	testutil.SeedItem(t, f.db, rx.ID, zinco.ID)
	testutil.SeedItem(t, f.db, rx.ID, amoxi.ID)

	got, err := f.reports.TopMedications(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("default n should be 2, got %d entries", len(got))
	}
	if got[0].Name != "Dipirona" || got[0].Count != 3 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Name != "Amoxicilina" || got[1].Count != 1 {
		t.Fatalf("tie should break by name, second = %+v", got[1])
	}

	all, err := f.reports.TopMedications(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Count < all[i].Count {
			t.Fatalf("ranking not descending: %+v", all)
		}
	}
}

func TestTotalsPerPatient(t *testing.T) {
	f := newFixture(t)
	pedro := testutil.SeedPatient(t, f.db, "Pedro", "")
	ana := testutil.SeedPatient(t, f.db, "Ana", "")
	testutil.SeedPatient(t, f.db, "Bia", "")
	med := testutil.SeedMedication(t, f.db, "Dipirona")

	for _, owner := range []int64{pedro.ID, pedro.ID, ana.ID} {
		rx := testutil.SeedPrescription(t, f.db, owner)
		testutil.SeedItem(t, f.db, rx.ID, med.ID)
	}
	testutil.SeedPrescription(t, f.db, ana.ID)

	got, err := f.reports.TotalsPerPatient(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("want one entry per patient, got %+v", got)
	}
	wantNames := []string{"Ana", "Bia", "Pedro"}
	wantTotals := []int64{1, 0, 2}
	var sum int64
	for i, row := range got {
		if row.PatientName != wantNames[i] || row.Total != wantTotals[i] {
			t.Errorf("row %d = %+v, want %s/%d", i, row, wantNames[i], wantTotals[i])
		}
		sum += row.Total
	}
	if items := testutil.Count(t, f.db, "prescription_items"); sum != items {
		t.Fatalf("sum of totals %d != item count %d", sum, items)
	}
}
