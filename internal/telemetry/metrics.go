// Package telemetry exposes the quote engine's Prometheus metrics and the
// monitoring HTTP endpoints.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors. It doubles as the
// observer the simulation cache and the batch engine report into.
type Metrics struct {
	registry *prometheus.Registry

	SimDuration    prometheus.Histogram
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	QuotesEmitted  prometheus.Counter
	ContractsSkip  *prometheus.CounterVec
	EffectiveSigma prometheus.Gauge
	SigmaAvailable prometheus.Gauge
	BatchesPriced  prometheus.Counter
}

// NewMetrics registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SimDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "binquote_simulation_duration_seconds",
			Help:    "Wall time of one settlement sample fetch, cache hits included",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binquote_simcache_hits_total",
			Help: "Simulation cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binquote_simcache_misses_total",
			Help: "Simulation cache misses (each one is a fresh Monte-Carlo run)",
		}),
		QuotesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binquote_quotes_emitted_total",
			Help: "Quotes produced across all batches",
		}),
		ContractsSkip: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "binquote_contracts_skipped_total",
			Help: "Contracts dropped from a batch by reason",
		}, []string{"reason"}),
		EffectiveSigma: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "binquote_effective_sigma",
			Help: "Blended annualized volatility used for the last analytic price",
		}),
		SigmaAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "binquote_sigma_available",
			Help: "1 when the volatility aggregator had at least one live source",
		}),
		BatchesPriced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "binquote_batches_priced_total",
			Help: "Pricing ticks completed",
		}),
	}

	m.registry.MustRegister(
		m.SimDuration,
		m.CacheHits,
		m.CacheMisses,
		m.QuotesEmitted,
		m.ContractsSkip,
		m.EffectiveSigma,
		m.SigmaAvailable,
		m.BatchesPriced,
	)
	return m
}

// CacheHit implements simcache.Observer.
func (m *Metrics) CacheHit() { m.CacheHits.Inc() }

// CacheMiss implements simcache.Observer.
func (m *Metrics) CacheMiss() { m.CacheMisses.Inc() }

// QuoteEmitted implements pricing.Observer.
func (m *Metrics) QuoteEmitted() { m.QuotesEmitted.Inc() }

// ContractSkipped implements pricing.Observer. Skip reasons embed the horizon
// in seconds; bucket them coarsely to keep label cardinality bounded.
func (m *Metrics) ContractSkipped(reason string) {
	m.ContractsSkip.WithLabelValues(bucketReason(reason)).Inc()
}

// SimulationObserved implements pricing.Observer.
func (m *Metrics) SimulationObserved(d time.Duration) {
	m.SimDuration.Observe(d.Seconds())
}

// RecordSigma publishes the last aggregated volatility reading.
func (m *Metrics) RecordSigma(sigma float64, ok bool) {
	if ok {
		m.EffectiveSigma.Set(sigma)
		m.SigmaAvailable.Set(1)
	} else {
		m.SigmaAvailable.Set(0)
	}
}

func bucketReason(reason string) string {
	if len(reason) > 0 && (reason[0] >= '0' && reason[0] <= '9' || reason[0] == '-') {
		return "near_expiry"
	}
	return "simulation_error"
}
