package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cadence"

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Players       *prometheus.CounterVec
	Commands      *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	TotalTime     *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// uses a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Animations and triggers registered, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Players: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_total",
			Help:      "Timeline players created or destroyed, by event and outcome.",
		}, []string{"event", "outcome"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Timeline commands dispatched.",
		}, []string{"command", "outcome"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Trigger state changes, by trigger and whether a transition matched.",
		}, []string{"trigger", "matched"}),
		TotalTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "animation_total_time_milliseconds",
			Help:      "Total time of created players and played transitions.",
			Buckets:   []float64{0, 50, 100, 200, 300, 500, 1000, 2000, 5000},
		}, []string{"source"}),
	}
	reg.MustRegister(m.Registrations, m.Players, m.Commands, m.Transitions, m.TotalTime)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRegister: func(_ context.Context, e *domain.RegisterEvent) {
			m.Registrations.WithLabelValues(string(e.Kind), outcome(e.Error)).Inc()
		},
		OnCreate: func(_ context.Context, e *domain.PlayerEvent) {
			m.Players.WithLabelValues(string(e.Type), outcome(e.Error)).Inc()
			if e.Error == nil {
				m.TotalTime.WithLabelValues("timeline").Observe(e.TotalTime)
			}
		},
		OnDestroy: func(_ context.Context, e *domain.PlayerEvent) {
			m.Players.WithLabelValues(string(e.Type), outcome(e.Error)).Inc()
		},
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			m.Commands.WithLabelValues(e.Command, outcome(e.Error)).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			matched := "false"
			if e.Matched {
				matched = "true"
				m.TotalTime.WithLabelValues("trigger").Observe(e.TotalTime)
			}
			m.Transitions.WithLabelValues(e.Trigger, matched).Inc()
		},
	}
}

// Handler serves the registry the metrics were registered on, or the
// default gatherer when that registry cannot be gathered.
func (m *Metrics) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
