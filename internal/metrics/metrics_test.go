package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg, func(v ...any) { t.Log(v...) }).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestConfirmation_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfirmation(reg)

	m.Outcome("completed")
	m.Outcome("completed")
	m.Rejected("signature")
	m.Double()
	m.Observe(0.02)

	body := scrape(t, reg)
	assert.Contains(t, body, `dotpay_confirmation_outcomes_total{outcome="completed"} 2`)
	assert.Contains(t, body, `dotpay_confirmation_rejected_total{reason="signature"} 1`)
	assert.Contains(t, body, "dotpay_double_payments_total 1")
	assert.Contains(t, body, "dotpay_confirmation_duration_seconds_count 1")
}

func TestNewConfirmation_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewConfirmation(reg)
	assert.Panics(t, func() { NewConfirmation(reg) })
}
