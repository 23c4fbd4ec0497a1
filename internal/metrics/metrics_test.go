package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Beamcalc/internal/calc/beam"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCalculation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCalculation("simply_supported", nil)
	m.ObserveCalculation(" Cantilever ", nil)
	m.ObserveCalculation("cantilever", &beam.ValidationError{Kind: beam.ErrInvalidLoad})
	m.ObserveCalculation("portal", beam.ErrUnknownSupportType)
	m.ObserveCalculation("cantilever", errors.New("boom"))

	cases := []struct {
		support, outcome string
		want             float64
	}{
		{"simply_supported", "ok", 1},
		{"cantilever", "ok", 1},
		{"cantilever", "invalid_load", 1},
		{"unknown", "unknown_support_type", 1},
		{"cantilever", "error", 1},
	}
	for _, tc := range cases {
		got := testutil.ToFloat64(m.calculations.WithLabelValues(tc.support, tc.outcome))
		if got != tc.want {
			t.Fatalf("%s/%s want %v got %v", tc.support, tc.outcome, tc.want, got)
		}
	}
}

func TestMiddleware_RouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/beam/{op}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)

	for _, path := range []string{"/beam/calculate", "/beam/report"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	}

	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Fatalf("both paths should share one series, got %d", n)
	}
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `beamcalc_http_request_duration_seconds_count{code="201",method="POST",route="/beam/{op}"} 2`) {
		t.Fatalf("exposition missing route series:\n%s", body)
	}
}
