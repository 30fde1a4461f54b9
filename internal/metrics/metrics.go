package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Confirmation holds the counters recorded for received notifications.
type Confirmation struct {
	outcomes *prometheus.CounterVec
	rejected *prometheus.CounterVec
	doubles  prometheus.Counter
	duration prometheus.Histogram
}

func NewConfirmation(reg prometheus.Registerer) *Confirmation {
	m := &Confirmation{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dotpay_confirmation_outcomes_total",
			Help: "Applied confirmations by outcome.",
		}, []string{"outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dotpay_confirmation_rejected_total",
			Help: "Confirmations refused before touching the order, by reason.",
		}, []string{"reason"}),
		doubles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dotpay_double_payments_total",
			Help: "Orders escalated to double payment.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dotpay_confirmation_duration_seconds",
			Help:    "Time spent handling one confirmation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.outcomes, m.rejected, m.doubles, m.duration)
	return m
}

func (m *Confirmation) Outcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Confirmation) Rejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Confirmation) Double() {
	m.doubles.Inc()
}

func (m *Confirmation) Observe(seconds float64) {
	m.duration.Observe(seconds)
}

type logFunc func(v ...any)

func (l logFunc) Println(v ...any) { l(v...) }

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer, errorLog func(v ...any)) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      logFunc(errorLog),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
