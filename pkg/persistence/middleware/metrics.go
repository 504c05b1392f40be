package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by the metrics middleware.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Templates  *prometheus.GaugeVec
}

// NewMetrics creates the store collectors and registers them with reg.
// A nil reg skips registration (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentmachine_store_operations_total",
				Help: "Total number of framework store operations by result",
			},
			[]string{"op", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contentmachine_store_duration_seconds",
				Help:    "Duration of framework store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Templates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "contentmachine_framework_templates",
				Help: "Number of templates per category in the last persisted framework",
			},
			[]string{"category"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration, m.Templates)
	}
	return m
}

type metricsMiddleware struct {
	next    ports.FrameworkStore
	metrics *Metrics
}

// NewMetricsMiddleware creates a middleware that records Prometheus metrics for every store call.
func NewMetricsMiddleware(metrics *Metrics) Middleware {
	return func(next ports.FrameworkStore) ports.FrameworkStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) Load(ctx context.Context) (domain.Framework, error) {
	start := time.Now()
	fw, err := m.next.Load(ctx)
	m.observe("load", start, err)
	return fw, err
}

func (m *metricsMiddleware) Persist(ctx context.Context, fw domain.Framework) error {
	start := time.Now()
	err := m.next.Persist(ctx, fw)
	m.observe("persist", start, err)
	if err == nil {
		for c, n := range fw.Counts() {
			m.metrics.Templates.WithLabelValues(string(c)).Set(float64(n))
		}
	}
	return err
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.metrics.Operations.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrFrameworkAbsent):
		return "absent"
	default:
		return "error"
	}
}
