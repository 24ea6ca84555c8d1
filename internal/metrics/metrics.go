// Package metrics holds the Prometheus instruments of the tracker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "budgetbuddy"

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	mutations    *prometheus.CounterVec
	unlocks      *prometheus.CounterVec
	recompute    prometheus.Histogram
	balance      prometheus.Gauge
	level        prometheus.Gauge
	health       prometheus.Gauge
	transactions prometheus.Gauge
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Tracker mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		unlocks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by id.",
		}, []string{"achievement"}),
		recompute: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent assembling a snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		balance: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Current balance in minor currency units.",
		}),
		level: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pet_level",
			Help:      "Current pet level.",
		}),
		health: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pet_health",
			Help:      "Current pet health.",
		}),
		transactions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of transactions in the ledger.",
		}),
	}
}

func (m *Metrics) Mutation(op string, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Unlocked(id string) {
	if m == nil {
		return
	}

	m.unlocks.WithLabelValues(id).Inc()
}

func (m *Metrics) Recomputed(d time.Duration) {
	if m == nil {
		return
	}

	m.recompute.Observe(d.Seconds())
}

// Observe sets the state gauges.
func (m *Metrics) Observe(balance int64, level, health, transactions int) {
	if m == nil {
		return
	}

	m.balance.Set(float64(balance))
	m.level.Set(float64(level))
	m.health.Set(float64(health))
	m.transactions.Set(float64(transactions))
}
