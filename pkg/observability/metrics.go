package observability

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts session lifecycle events.
type Metrics struct {
	SessionsStarted *prometheus.CounterVec
	SessionsEnded   *prometheus.CounterVec
	NodeEntries     *prometheus.CounterVec
	OptionsChosen   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parley_sessions_started_total",
			Help: "Total number of started dialogue sessions",
		}, []string{"dialogue", "resumed"}),
		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parley_sessions_ended_total",
			Help: "Total number of ended dialogue sessions",
		}, []string{"dialogue", "reason"}),
		NodeEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parley_node_entries_total",
			Help: "Total number of node entries",
		}, []string{"dialogue", "kind"}),
		OptionsChosen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parley_options_chosen_total",
			Help: "Total number of chosen options",
		}, []string{"dialogue"}),
	}
	if reg != nil {
		reg.MustRegister(m.SessionsStarted, m.SessionsEnded, m.NodeEntries, m.OptionsChosen)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(_ context.Context, e *domain.SessionEvent) {
			resumed := "false"
			if e.Resumed {
				resumed = "true"
			}
			m.SessionsStarted.WithLabelValues(e.Dialogue, resumed).Inc()
		},
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeEntries.WithLabelValues(e.Dialogue, string(e.NodeKind)).Inc()
		},
		OnOptionSelected: func(_ context.Context, e *domain.OptionEvent) {
			m.OptionsChosen.WithLabelValues(e.Dialogue).Inc()
		},
		OnSessionEnd: func(_ context.Context, e *domain.EndEvent) {
			m.SessionsEnded.WithLabelValues(e.Dialogue, string(e.Reason)).Inc()
		},
	}
}
