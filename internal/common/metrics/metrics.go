package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tapgame"

// Metrics holds the collectors shared by the HTTP middleware and the game service.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	taps          prometheus.Counter
	tokensEarned  prometheus.Counter
	purchases     *prometheus.CounterVec
	buildings     *prometheus.CounterVec
	dailyClaims   prometheus.Counter
	scoreRelays   *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	rejected      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, including process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		taps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "taps_total",
			Help:      "Total number of accepted taps.",
		}),
		tokensEarned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "tokens_earned_total",
			Help:      "Tokens credited by taps and daily bonuses.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "upgrades_purchased_total",
			Help:      "Upgrades purchased by kind.",
		}, []string{"kind"}),
		buildings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "buildings_placed_total",
			Help:      "Buildings placed by kind.",
		}, []string{"kind"}),
		dailyClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "daily_bonus_claims_total",
			Help:      "Daily bonuses claimed.",
		}),
		scoreRelays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "telegram",
			Name:      "score_relays_total",
			Help:      "setGameScore calls by outcome.",
		}, []string{"success"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "telegram",
			Name:      "webhook_updates_total",
			Help:      "Bot updates received by the webhook, by handling result.",
		}, []string{"event"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "rejected_actions_total",
			Help:      "Game actions rejected by a rule, by error code.",
		}, []string{"code"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.taps,
		m.tokensEarned,
		m.purchases,
		m.buildings,
		m.dailyClaims,
		m.scoreRelays,
		m.webhookEvents,
		m.rejected,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPStarted() {
	m.httpInFlight.Inc()
}

// HTTPFinished records a completed request. route is the matched pattern, not the raw path.
func (m *Metrics) HTTPFinished(method, route, status string, seconds float64) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordTaps(n int, tokens int64) {
	m.taps.Add(float64(n))
	m.tokensEarned.Add(float64(tokens))
}

func (m *Metrics) RecordPurchase(kind string) {
	m.purchases.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordBuilding(kind string) {
	m.buildings.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordDailyClaim(reward int64) {
	m.dailyClaims.Inc()
	m.tokensEarned.Add(float64(reward))
}

func (m *Metrics) RecordScoreRelay(success bool) {
	label := "false"
	if success {
		label = "true"
	}
	m.scoreRelays.WithLabelValues(label).Inc()
}

func (m *Metrics) RecordWebhookEvent(event string) {
	m.webhookEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordRejected(code string) {
	m.rejected.WithLabelValues(code).Inc()
}
