package wallet

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	attempts     prometheus.Counter
	sessions     *prometheus.CounterVec
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	framesIn     prometheus.Counter
	framesOut    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "mwa",
			Name:      "connect_attempts_total",
			Help:      "Websocket connection attempts to the wallet.",
		}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mwa",
			Name:      "sessions_total",
			Help:      "Finished sessions by outcome.",
		}, []string{"outcome"}),
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mwa",
			Name:      "calls_total",
			Help:      "Capability calls by method and result.",
		}, []string{"method", "result"}),
		callDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mwa",
			Name:      "call_duration_seconds",
			Help:      "Time between sending a request and its response.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"method"}),
		framesIn: f.NewCounter(prometheus.CounterOpts{
			Namespace: "mwa",
			Name:      "frames_received_total",
			Help:      "Encrypted frames accepted from the wallet.",
		}),
		framesOut: f.NewCounter(prometheus.CounterOpts{
			Namespace: "mwa",
			Name:      "frames_sent_total",
			Help:      "Encrypted frames sent to the wallet.",
		}),
	}
}

func (m *Metrics) attempt() {
	if m != nil {
		m.attempts.Inc()
	}
}

func (m *Metrics) session(err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		var e *Error
		if errors.As(err, &e) {
			outcome = string(e.Code)
		}
	}

	m.sessions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) call(method string, start time.Time, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.calls.WithLabelValues(method, result).Inc()
	m.callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (m *Metrics) frameIn() {
	if m != nil {
		m.framesIn.Inc()
	}
}

func (m *Metrics) frameOut() {
	if m != nil {
		m.framesOut.Inc()
	}
}
