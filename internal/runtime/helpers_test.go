package runtime_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// hero carries class variables next to its dialogue values.
type hero struct {
	*memory.Participant
	Gold  int `mapstructure:"gold"`
	Mood  float64
	Title string
}

func newHero(name string) *hero {
	return &hero{Participant: memory.NewParticipant(name)}
}

func newDialogue(t *testing.T, start domain.Node, nodes ...domain.Node) *domain.Dialogue {
	t.Helper()
	d, err := domain.NewDialogue("test", uuid.Nil, start, nodes, nil)
	require.NoError(t, err)
	return d
}

func startAt(target int) domain.Node {
	return domain.Node{Owner: "Alice", Edges: []domain.Edge{{TargetIndex: target}}}
}

func edge(target int, conds ...domain.Condition) domain.Edge {
	return domain.Edge{TargetIndex: target, Conditions: conds}
}

func endNode(key string) domain.Node {
	return domain.Node{Key: key, Kind: domain.NodeEnd, Owner: "Alice"}
}

func intCond(participant, variable string, op domain.Operation, value int) domain.Condition {
	return domain.Condition{Participant: participant, Check: domain.IntCheck{Variable: variable, Op: op, Value: value}}
}

func named(participant, name string, expected bool) domain.Condition {
	return domain.Condition{Participant: participant, Check: domain.NamedCheck{Name: name, Expected: expected}}
}

func bind(ps ...domain.Participant) map[string]domain.Participant {
	out := make(map[string]domain.Participant, len(ps))
	for _, p := range ps {
		out[p.ParticipantName()] = p
	}
	return out
}

func captureEnv() (runtime.Env, *bytes.Buffer) {
	var buf bytes.Buffer
	return runtime.Env{Logger: logging.NewWithWriter(&buf, slog.LevelDebug)}, &buf
}

// recorder collects lifecycle events in order.
type recorder struct {
	mu      sync.Mutex
	types   []domain.EventType
	nodes   []int
	reasons []domain.EndReason
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(_ context.Context, e *domain.SessionEvent) {
			r.add(e.Type)
		},
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			r.add(e.Type)
			r.mu.Lock()
			r.nodes = append(r.nodes, e.NodeIndex)
			r.mu.Unlock()
		},
		OnOptionSelected: func(_ context.Context, e *domain.OptionEvent) {
			r.add(e.Type)
		},
		OnSessionEnd: func(_ context.Context, e *domain.EndEvent) {
			r.add(e.Type)
			r.mu.Lock()
			r.reasons = append(r.reasons, e.Reason)
			r.mu.Unlock()
		},
	}
}

func (r *recorder) add(t domain.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, t)
}
