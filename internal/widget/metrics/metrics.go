// Package metrics exposes Prometheus metrics for the widget runtime.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the widget runtime. Components
// accept a nil *Metrics and skip recording, so tests can run unregistered.
type Metrics struct {
	BundleFetches  *prometheus.CounterVec
	EmbedLoads     *prometheus.CounterVec
	Renders        *prometheus.CounterVec
	Actions        *prometheus.CounterVec
	CallbackPanics prometheus.Counter
	LoadLatency    prometheus.Histogram
	ActiveSessions prometheus.Gauge
}

// New creates and registers all widget runtime metrics.
func New() *Metrics {
	return &Metrics{
		BundleFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxyauth_bundle_fetches_total",
			Help: "Bundle fetches against the asset origin, labeled by embed type and result",
		}, []string{"type", "result"}),
		EmbedLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxyauth_embed_loads_total",
			Help: "Loader resolutions, labeled by embed type and outcome",
		}, []string{"type", "outcome"}),
		Renders: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxyauth_renders_total",
			Help: "Completed embed renders, labeled by embed type",
		}, []string{"type"}),
		Actions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxyauth_actions_total",
			Help: "Embed actions triggered by hosts, labeled by embed type and action",
		}, []string{"type", "action"}),
		CallbackPanics: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proxyauth_callback_panics_total",
			Help: "Panics recovered from host-supplied callbacks",
		}),
		LoadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "proxyauth_embed_load_latency_seconds",
			Help:    "Latency of bundle load and install, in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "proxyauth_active_widget_sessions",
			Help: "Current number of live widget sessions",
		}),
	}
}

// IncBundleFetch records one bundle fetch attempt.
func (m *Metrics) IncBundleFetch(embedType, result string) {
	if m == nil {
		return
	}
	m.BundleFetches.WithLabelValues(embedType, result).Inc()
}

// IncEmbedLoad records one loader resolution.
func (m *Metrics) IncEmbedLoad(embedType, outcome string) {
	if m == nil {
		return
	}
	m.EmbedLoads.WithLabelValues(embedType, outcome).Inc()
}

// IncRender records one completed render.
func (m *Metrics) IncRender(embedType string) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(embedType).Inc()
}

// IncAction records one triggered embed action.
func (m *Metrics) IncAction(embedType, action string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(embedType, action).Inc()
}

// IncCallbackPanic records one recovered host callback panic.
func (m *Metrics) IncCallbackPanic() {
	if m == nil {
		return
	}
	m.CallbackPanics.Inc()
}

// ObserveLoadLatency records the duration of one bundle load.
func (m *Metrics) ObserveLoadLatency(seconds float64) {
	if m == nil {
		return
	}
	m.LoadLatency.Observe(seconds)
}

// AddActiveSessions adjusts the live session gauge.
func (m *Metrics) AddActiveSessions(delta int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(float64(delta))
}
