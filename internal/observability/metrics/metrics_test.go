package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersUpdateCounters(t *testing.T) {
	m := New("consult-api")
	m.RecordRun("convention", "ok")
	m.RecordRun("convention", "ok")
	m.RecordRun("risk", "error")
	m.RecordExcluded(3)
	m.RecordExcluded(0)
	m.RecordInvalidDates(2)

	if got := testutil.ToFloat64(m.analysisRuns.WithLabelValues("consult-api", "convention", "ok")); got != 2 {
		t.Fatalf("expected 2 convention runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.excludedRecords); got != 3 {
		t.Fatalf("expected 3 excluded records, got %v", got)
	}
	if got := testutil.ToFloat64(m.invalidDates); got != 2 {
		t.Fatalf("expected 2 invalid dates, got %v", got)
	}
}

func TestMiddlewareBoundsPathLabel(t *testing.T) {
	m := New("consult-api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	for _, path := range []string{"/v1/risk/options", "/random/1", "/random/2"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("consult-api", "GET", "other", "418")); got != 2 {
		t.Fatalf("expected unknown paths folded into other, got %v", got)
	}

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "consult_http_requests_total") {
		t.Fatalf("expected exposition to include request counter")
	}
}
