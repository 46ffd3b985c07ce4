// Package bootstrap opens the configured snapshot provider and mirror and
// assembles the document store shared by the server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/storefront/assets"
	"github.com/fastygo/storefront/internal/config"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/internal/infrastructure/mirror"
	pgInfra "github.com/fastygo/storefront/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/storefront/internal/infrastructure/redis"
	"github.com/fastygo/storefront/repository"
	"github.com/fastygo/storefront/repository/filesystem"
	"github.com/fastygo/storefront/repository/memory"
	pgRepo "github.com/fastygo/storefront/repository/postgres"
	redisRepo "github.com/fastygo/storefront/repository/redis"
	siteUC "github.com/fastygo/storefront/usecase/site"
)

// Closer releases one resource opened by Open.
type Closer struct {
	Name  string
	Close func(ctx context.Context) error
}

// Backend holds everything Open created. Closers are in opening order.
type Backend struct {
	Name     string
	Provider repository.SnapshotProvider
	Mirror   *mirror.Store
	Store    *docstore.Store
	Closers  []Closer
}

// Open connects the snapshot provider selected by cfg.Store.Backend, opens
// the mirror when enabled and builds the document store on top.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{Name: cfg.Store.Backend}

	provider, err := b.openProvider(ctx, cfg, logger)
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	b.Provider = provider

	var m repository.Mirror
	if cfg.Mirror.Enabled {
		store, err := mirror.Open(cfg.Mirror.Path, cfg.Mirror.Bucket)
		if err != nil {
			_ = b.Close(ctx)
			return nil, fmt.Errorf("open mirror: %w", err)
		}
		b.Mirror = store
		m = store
		b.Closers = append(b.Closers, Closer{Name: "mirror", Close: func(context.Context) error {
			return store.Close()
		}})
		logger.Info("mirror opened", zap.String("path", cfg.Mirror.Path))
	}

	b.Store = docstore.New(provider, m, docstore.Options{
		Namespace: cfg.Store.Namespace,
		Entity:    cfg.Store.Entity,
		Timeout:   cfg.Store.ProviderTimeout,
	}, logger.Named("docstore"))

	logger.Info("document store ready",
		zap.String("backend", b.Name),
		zap.String("namespace", b.Store.Namespace()),
		zap.Bool("mirror", b.Mirror != nil),
	)
	return b, nil
}

func (b *Backend) openProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SnapshotProvider, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory snapshot provider; data is lost on restart")
		return memory.NewProvider(), nil

	case config.BackendFilesystem:
		p, err := filesystem.NewProvider(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open snapshot directory: %w", err)
		}
		return p, nil

	case config.BackendRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		b.Closers = append(b.Closers, Closer{Name: "redis", Close: func(context.Context) error {
			return client.Close()
		}})
		return redisRepo.NewSnapshotProvider(client, cfg.Store.RedisKeyPrefix), nil

	case config.BackendPostgres:
		migrations, err := assets.Migrations()
		if err != nil {
			return nil, err
		}
		if err := pgInfra.RunMigrations(cfg, migrations, logger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		b.Closers = append(b.Closers, Closer{Name: "postgres", Close: func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		}})
		return pgRepo.NewSnapshotProvider(pool), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

// Close runs the closers in reverse opening order.
func (b *Backend) Close(ctx context.Context) error {
	if b == nil {
		return nil
	}
	var result error
	for i := len(b.Closers) - 1; i >= 0; i-- {
		if err := b.Closers[i].Close(ctx); err != nil {
			result = errors.Join(result, fmt.Errorf("%s: %w", b.Closers[i].Name, err))
		}
	}
	b.Closers = nil
	return result
}

// SiteOptions builds the whole-document use case options from cfg: the
// embedded seed document plus the configured overrides.
func SiteOptions(cfg *config.Config) siteUC.Options {
	return siteUC.Options{
		Seed: assets.SeedDocument,
		Overrides: siteUC.Overrides{
			AdminUsername:   cfg.Seed.AdminUsername,
			AdminPassword:   cfg.Seed.AdminPassword,
			AdminEmail:      cfg.Seed.AdminEmail,
			AdminName:       cfg.Seed.AdminName,
			SiteTitle:       cfg.Seed.SiteTitle,
			SiteDescription: cfg.Seed.SiteDescription,
		},
	}
}
