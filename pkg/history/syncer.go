package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/google/uuid"
)

const lockKey = "history"

// Syncer moves a Memory to and from a HistoryStore.
// When a locker is configured every store access runs under a distributed
// lock, so processes sharing a store write one at a time.
type Syncer struct {
	memory  *Memory
	store   ports.HistoryStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Syncer.
type Option func(*Syncer)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Syncer) {
		s.locker = locker
	}
}

// WithLockTTL bounds how long a crashed writer can hold the lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Syncer) {
		s.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Syncer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// NewSyncer binds a memory to a store.
func NewSyncer(memory *Memory, store ports.HistoryStore, opts ...Option) *Syncer {
	s := &Syncer{
		memory:  memory,
		store:   store,
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Memory returns the synced memory.
func (s *Syncer) Memory() *Memory {
	return s.memory
}

// Restore replaces the memory with everything in the store.
func (s *Syncer) Restore(ctx context.Context) error {
	return s.withLock(ctx, func(ctx context.Context) error {
		all, err := s.store.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		s.memory.Replace(all)
		s.logger.Debug("history restored", "dialogues", len(all))
		return nil
	})
}

// Flush writes the memory to the store. Visits already stored by other
// processes are kept: each stored entry becomes the union of both sides,
// and the memory is updated with that union.
func (s *Syncer) Flush(ctx context.Context) error {
	return s.withLock(ctx, func(ctx context.Context) error {
		for id, h := range s.memory.Export() {
			stored, err := s.store.Load(ctx, id)
			if err != nil && !errors.Is(err, domain.ErrHistoryNotFound) {
				return fmt.Errorf("failed to load history for %s: %w", id, err)
			}
			stored.Merge(h)
			if err := s.store.Save(ctx, id, stored); err != nil {
				return fmt.Errorf("failed to save history for %s: %w", id, err)
			}
			s.memory.SetNodeHistory(id, stored)
		}
		return nil
	})
}

// ClearDialogue forgets one dialogue in memory and in the store.
func (s *Syncer) ClearDialogue(ctx context.Context, dialogue uuid.UUID) error {
	return s.withLock(ctx, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, dialogue); err != nil {
			return fmt.Errorf("failed to delete history for %s: %w", dialogue, err)
		}
		s.memory.Forget(dialogue)
		return nil
	})
}

// Clear forgets everything in memory and in the store.
func (s *Syncer) Clear(ctx context.Context) error {
	return s.withLock(ctx, func(ctx context.Context) error {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		s.memory.Clear()
		return nil
	})
}

func (s *Syncer) withLock(ctx context.Context, fn func(context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}

	unlock, err := s.locker.Lock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire distributed lock: %w", err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
				"key", lockKey,
				"err", err,
			)
		}
	}()

	return fn(ctx)
}
