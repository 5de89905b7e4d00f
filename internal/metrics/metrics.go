// Package metrics exposes Prometheus instruments for HTTP traffic and the
// verification code workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oeh"

// Outcome labels shared by the code counters.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"
	OutcomeFailed    = "failed"
)

// Metrics holds every instrument on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	codesRequested *prometheus.CounterVec
	codesIssued    prometheus.Counter
	codesPurged    prometheus.Counter
	ratings        *prometheus.CounterVec
	mails          *prometheus.CounterVec
}

// New creates the instruments and registers them along with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		codesRequested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codes",
			Name:      "requested_total",
			Help:      "Personal code requests by outcome.",
		}, []string{"outcome"}),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codes",
			Name:      "issued_total",
			Help:      "Operator-issued codes created.",
		}),
		codesPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codes",
			Name:      "purged_total",
			Help:      "Expired personal codes removed by the sweeper.",
		}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratings",
			Name:      "submitted_total",
			Help:      "Ratings accepted, by the kind of code used.",
		}, []string{"code_kind"}),
		mails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Outbound mails by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.codesRequested,
		m.codesIssued,
		m.codesPurged,
		m.ratings,
		m.mails,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CodeRequested counts a personal code request.
func (m *Metrics) CodeRequested(outcome string) {
	if m == nil {
		return
	}
	m.codesRequested.WithLabelValues(outcome).Inc()
}

// CodeIssued counts an operator-issued code.
func (m *Metrics) CodeIssued() {
	if m == nil {
		return
	}
	m.codesIssued.Inc()
}

// CodesPurged counts personal codes deleted by one sweep.
func (m *Metrics) CodesPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.codesPurged.Add(float64(n))
}

// RatingSubmitted counts an accepted rating.
func (m *Metrics) RatingSubmitted(codeKind string) {
	if m == nil {
		return
	}
	m.ratings.WithLabelValues(codeKind).Inc()
}

// MailSent counts an outbound mail attempt.
func (m *Metrics) MailSent(purpose, outcome string) {
	if m == nil {
		return
	}
	m.mails.WithLabelValues(purpose, outcome).Inc()
}
