package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/repository"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/service"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/adapter"
	"github.com/reshetovitsme/news-highlights/internal/shared/config"
	httpServer "github.com/reshetovitsme/news-highlights/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

const shutdownTimeout = 10 * time.Second

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Snapshot Repository
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		switch cfg.SnapshotStore {
		case config.StoreKindFile:
			repo, err := repository.NewFileStorage(cfg.StoragePath)
			if err != nil {
				return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize snapshot repository").Wrap(err)
			}
			return repo, nil
		case config.StoreKindRedis:
			ctx, cancel := context.WithTimeout(context.Background(), cfg.SourceTimeoutDuration())
			defer cancel()
			repo, err := repository.NewRedisStorage(ctx, cfg.RedisAddr, cfg.RedisKey)
			if err != nil {
				return nil, oops.With("redis_addr", cfg.RedisAddr, "context", "failed to initialize snapshot repository").Wrap(err)
			}
			return repo, nil
		default:
			return nil, oops.With("snapshot_store", cfg.SnapshotStore).Errorf("snapshot mirroring is disabled")
		}
	})

	// Register Source Adapters
	do.Provide(injector, func(i do.Injector) (*adapter.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return adapter.NewDefaultRegistry(
			adapter.WithTimeout(cfg.SourceTimeoutDuration()),
			adapter.WithRetries(cfg.SourceRetries),
			adapter.WithLogger(slog.Default()),
		), nil
	})

	// Register Aggregator
	do.Provide(injector, func(i do.Injector) (*service.Aggregator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*adapter.Registry](i)
		aggregator := service.NewAggregator(cfg.Sources, registry, cfg.MaxItems)
		aggregator.SetLogger(slog.Default())
		return aggregator, nil
	})

	// Register Cache, restored from the mirror when one is configured
	do.Provide(injector, func(i do.Injector) (*service.Cache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		aggregator := do.MustInvoke[*service.Aggregator](i)

		opts := []service.CacheOption{service.WithCacheLogger(slog.Default())}
		if cfg.SnapshotStore != config.StoreKindNone {
			// Without a reachable store the cache runs unmirrored.
			if repo, err := do.Invoke[repository.Repository](i); err != nil {
				slog.Warn("Snapshot mirror unavailable, running without it", "store", cfg.SnapshotStore, "error", err)
			} else {
				opts = append(opts, service.WithRepository(repo))
			}
		}

		cache := service.NewCache(aggregator, cfg.CacheTTLDuration(), opts...)
		if err := cache.Restore(context.Background()); err != nil {
			slog.Warn("Failed to restore highlights snapshot", "store", cfg.SnapshotStore, "error", err)
		}
		return cache, nil
	})

	// Register Warmer
	do.Provide(injector, func(i do.Injector) (*service.Warmer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cache := do.MustInvoke[*service.Cache](i)
		// Every source may use its full retry budget.
		timeout := cfg.SourceTimeoutDuration() * time.Duration(cfg.SourceRetries+2)
		warmer, err := service.NewWarmer(cfg.RefreshCron, cache, timeout)
		if err != nil {
			return nil, err
		}
		warmer.SetLogger(slog.Default())
		return warmer, nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cache := do.MustInvoke[*service.Cache](i)
		server := httpServer.New(cfg, cache)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services started by serve
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if warmer, err := do.Invoke[*service.Warmer](injector); err == nil && warmer != nil {
		warmer.Stop()
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "http server shutdown").Wrap(err))
		}
	}

	if cache, err := do.Invoke[*service.Cache](injector); err == nil && cache != nil {
		if err := cache.Close(); err != nil {
			errs = append(errs, oops.With("context", "snapshot mirror close").Wrap(err))
		}
	}

	return errors.Join(errs...)
}
