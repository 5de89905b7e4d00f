package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CodeRequested(OutcomeOK)
	m.CodeRequested(OutcomeOK)
	m.CodeRequested(OutcomeThrottled)
	m.RatingSubmitted("issued")
	m.CodeIssued()
	m.CodesPurged(3)
	m.CodesPurged(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.codesRequested.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesRequested.WithLabelValues(OutcomeThrottled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ratings.WithLabelValues("issued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesIssued))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.codesPurged))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CodeRequested(OutcomeOK)
		m.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
		m.MailSent("code", OutcomeFailed)
	})
}

func TestHandlerExposesInstruments(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/v1/courses", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oeh_http_requests_total{method="GET",route="/api/v1/courses",status="200"} 1`)
}
