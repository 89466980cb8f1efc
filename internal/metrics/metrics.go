// Package metrics holds the Prometheus collectors of the scanner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the scanner.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal       prometheus.Counter
	CycleDuration     prometheus.Histogram
	DecisionsTotal    *prometheus.CounterVec // labels: outcome, reason
	FetchFailures     *prometheus.CounterVec // labels: symbol
	NotificationsSent *prometheus.CounterVec // labels: result
	SymbolsMonitored  prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smc_scan_cycles_total",
			Help: "Total completed scan cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smc_scan_cycle_duration_seconds",
			Help:    "Duration of a full scan cycle",
			Buckets: prometheus.DefBuckets,
		}),
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smc_decisions_total",
			Help: "Signal engine decisions by outcome and rejection reason",
		}, []string{"outcome", "reason"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smc_fetch_failures_total",
			Help: "Market data fetch failures by symbol",
		}, []string{"symbol"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smc_notifications_total",
			Help: "Setup notifications by delivery result",
		}, []string{"result"}),
		SymbolsMonitored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smc_symbols_monitored",
			Help: "Number of symbols in the scan universe",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CyclesTotal,
		m.CycleDuration,
		m.DecisionsTotal,
		m.FetchFailures,
		m.NotificationsSent,
		m.SymbolsMonitored,
	)

	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDecision counts one engine decision. Signals use the direction as outcome.
func (m *Metrics) ObserveDecision(outcome, reason string) {
	m.DecisionsTotal.WithLabelValues(outcome, reason).Inc()
}

// ObserveNotification counts one delivery attempt.
func (m *Metrics) ObserveNotification(delivered bool) {
	result := "failed"
	if delivered {
		result = "sent"
	}

	m.NotificationsSent.WithLabelValues(result).Inc()
}
