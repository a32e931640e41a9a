// Package metrics exposes Prometheus collectors for the price feed
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bonkboard"

// Cycle outcomes
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the collectors registered on its own registry
type Metrics struct {
	Registry *prometheus.Registry

	cycles        *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	price         *prometheus.GaugeVec
	change        *prometheus.GaugeVec
}

// New creates and registers the price feed collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pricefeed",
				Name:      "cycles_total",
				Help:      "Total number of polling cycles by outcome.",
			},
			[]string{"outcome"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pricefeed",
				Name:      "fetch_errors_total",
				Help:      "Total number of failed quote requests.",
			},
			[]string{"asset"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pricefeed",
				Name:      "cycle_duration_seconds",
				Help:      "Duration of polling cycles.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
		),
		price: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pricefeed",
				Name:      "price_usd",
				Help:      "Last committed USD price per asset.",
			},
			[]string{"asset"},
		),
		change: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pricefeed",
				Name:      "change_percent_24h",
				Help:      "Last committed 24h price change per asset.",
			},
			[]string{"asset"},
		),
	}

	m.Registry.MustRegister(m.cycles, m.fetchErrors, m.cycleDuration, m.price, m.change)

	return m
}

// ObserveCycle records a finished cycle
func (m *Metrics) ObserveCycle(outcome string, d time.Duration) {
	m.cycles.WithLabelValues(outcome).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

// FetchFailed records a failed request for an asset
func (m *Metrics) FetchFailed(asset string) {
	m.fetchErrors.WithLabelValues(asset).Inc()
}

// SetQuote records the committed quote of an asset
func (m *Metrics) SetQuote(asset string, price, change float64) {
	m.price.WithLabelValues(asset).Set(price)
	m.change.WithLabelValues(asset).Set(change)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
