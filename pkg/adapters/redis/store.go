package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.HistoryStore using Redis.
// Each dialogue history is one JSON value; a sorted set indexes them by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of stored histories.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewClient connects to a Redis server.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(NewClient(address, password, db), opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "parley:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(dialogue string) string {
	return s.prefix + "history:" + dialogue
}

func (s *Store) indexKey() string {
	return s.prefix + "history:index"
}

// Save persists the history of one dialogue.
func (s *Store) Save(ctx context.Context, dialogue uuid.UUID, h domain.History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	id := dialogue.String()
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(id), data, s.ttl)

	// Score = Now + TTL, far in the future without TTL.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: id,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the history of one dialogue.
func (s *Store) Load(ctx context.Context, dialogue uuid.UUID) (domain.History, error) {
	val, err := s.client.Get(ctx, s.key(dialogue.String())).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.History{}, fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, dialogue)
		}
		return domain.History{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var h domain.History
	if err := json.Unmarshal([]byte(val), &h); err != nil {
		return domain.History{}, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return h, nil
}

// LoadAll reads every indexed history. Expired entries are pruned from the index first.
func (s *Store) LoadAll(ctx context.Context) (map[uuid.UUID]domain.History, error) {
	ids, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]domain.History, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read histories: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Expired between the index read and MGET.
			continue
		}
		dialogue, err := uuid.Parse(ids[i])
		if err != nil {
			return nil, fmt.Errorf("invalid dialogue id %q in index: %w", ids[i], err)
		}
		var h domain.History
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history of %s: %w", ids[i], err)
		}
		out[dialogue] = h
	}
	return out, nil
}

// Delete removes the history of one dialogue.
func (s *Store) Delete(ctx context.Context, dialogue uuid.UUID) error {
	id := dialogue.String()
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// Clear removes every indexed history and the index itself.
func (s *Store) Clear(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list histories: %w", err)
	}
	keys := []string{s.indexKey()}
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear histories: %w", err)
	}
	return nil
}

func (s *Store) list(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired histories: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list histories: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
