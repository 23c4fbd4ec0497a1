// Package metrics exposes calculation and HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"Beamcalc/internal/calc/beam"
	"Beamcalc/internal/logging"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beamcalc"

type Metrics struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Beam calculations by support type and outcome.",
		}, []string{"support_type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}
	reg.MustRegister(m.calculations, m.duration)
	return m
}

// ObserveCalculation counts one calculation. Unrecognized support types are
// folded into "unknown" to keep label cardinality bounded.
func (m *Metrics) ObserveCalculation(supportType string, err error) {
	support := "unknown"
	if st, perr := beam.ParseSupportType(supportType); perr == nil {
		support = string(st)
	}
	outcome := "ok"
	if err != nil {
		outcome = beam.Code(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	m.calculations.WithLabelValues(support, outcome).Inc()
}

// Middleware times requests by their mux route template. Use it as router
// middleware so the matched route is known.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := logging.NewStatusWriter(w)
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.duration.WithLabelValues(route, r.Method, strconv.Itoa(sw.Status)).Observe(time.Since(start).Seconds())
	})
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
