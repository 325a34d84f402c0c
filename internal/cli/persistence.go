package cli

import (
	"log/slog"

	"github.com/aretw0/parley/pkg/adapters/file"
	redisAdapter "github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/history"
	"github.com/aretw0/parley/pkg/ports"
)

// persistence keeps the global visitation memory in a file or, when
// configured, in Redis shared by several processes.
type persistence struct {
	Syncer *history.Syncer
	// Locker is set when the store is shared.
	Locker ports.DistributedLocker
	close  func() error
}

func (p *persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

func setupPersistence(opts Options, memory *history.Memory, logger *slog.Logger) *persistence {
	cfg := opts.Config
	if !cfg.UsesRedis() {
		logger.Debug("history persisted to file", "path", cfg.HistoryFile)
		return &persistence{
			Syncer: history.NewSyncer(memory, file.New(cfg.HistoryFile), history.WithLogger(logger)),
		}
	}

	client := redisAdapter.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := redisAdapter.NewFromClient(client, redisAdapter.WithPrefix(cfg.RedisPrefix))
	locker := redisAdapter.NewLocker(client, cfg.RedisPrefix)
	logger.Debug("history persisted to redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)

	return &persistence{
		Syncer: history.NewSyncer(memory, store,
			history.WithLocker(locker),
			history.WithLockTTL(cfg.LockTTL),
			history.WithLogger(logger),
		),
		Locker: locker,
		close:  store.Close,
	}
}
