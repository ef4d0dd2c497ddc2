package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("medscript-api", reg)

	c.ObserveWrite("save_patient", "ok", 3*time.Millisecond)
	c.ObserveWrite("save_patient", "duplicate_key", time.Millisecond)
	c.IncConflict("save_patient", "duplicate_key", "uk_patient_national_id")
	c.IncAuditDropped()

	if got := testutil.ToFloat64(c.WriteOperationsTotal.WithLabelValues("save_patient", "ok")); got != 1 {
		t.Errorf("ok writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.ConflictsTotal.WithLabelValues("save_patient", "duplicate_key", "uk_patient_national_id")); got != 1 {
		t.Errorf("conflicts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.AuditBufferDropped); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
}

func TestNewCollectorTwiceOnSeparateRegistries(t *testing.T) {
	NewCollector("medscript", prometheus.NewRegistry())
	NewCollector("medscript", prometheus.NewRegistry())
}

func TestMetricsHandlerExposesNamespace(t *testing.T) {
	reg := NewRegistry()
	c := NewCollector("medscript-api", reg)
	c.ObserveQuery("fetch_page", "patient", 10, time.Millisecond)

	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "medscript_api_db_query_duration_seconds") {
		t.Error("expected sanitized namespace in exposition")
	}
}
