package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/parley/pkg/domain"
)

// LogHooks writes every lifecycle event to logger at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.DebugContext(ctx, "session_start", "dialogue", e.Dialogue, "resumed", e.Resumed)
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter",
				"dialogue", e.Dialogue,
				"node_index", e.NodeIndex,
				"node_key", e.NodeKey,
				"kind", e.NodeKind,
			)
		},
		OnOptionSelected: func(ctx context.Context, e *domain.OptionEvent) {
			logger.DebugContext(ctx, "option_selected",
				"dialogue", e.Dialogue,
				"node_index", e.NodeIndex,
				"option_index", e.OptionIndex,
				"target_index", e.TargetIndex,
			)
		},
		OnSessionEnd: func(ctx context.Context, e *domain.EndEvent) {
			logger.DebugContext(ctx, "session_end", "dialogue", e.Dialogue, "node_index", e.NodeIndex, "reason", e.Reason)
		},
	}
}

// Combine fans every event out to each hook set, in order. Nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			for _, s := range sets {
				if s.OnSessionStart != nil {
					s.OnSessionStart(ctx, e)
				}
			}
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			for _, s := range sets {
				if s.OnNodeEnter != nil {
					s.OnNodeEnter(ctx, e)
				}
			}
		},
		OnOptionSelected: func(ctx context.Context, e *domain.OptionEvent) {
			for _, s := range sets {
				if s.OnOptionSelected != nil {
					s.OnOptionSelected(ctx, e)
				}
			}
		},
		OnSessionEnd: func(ctx context.Context, e *domain.EndEvent) {
			for _, s := range sets {
				if s.OnSessionEnd != nil {
					s.OnSessionEnd(ctx, e)
				}
			}
		},
	}
}
