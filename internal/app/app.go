package app

import (
	"context"
	"fmt"

	"chainstore/internal/adapter/storage"
	"chainstore/internal/adapter/storage/seed"
	"chainstore/internal/application"
	"chainstore/internal/application/port"
	"chainstore/internal/config"
	domainRepo "chainstore/internal/domain/repository"

	"go.uber.org/zap"
)

// App holds the wired chain store components shared by the server and the CLI.
type App struct {
	KV      domainRepo.KeyValueStore
	Store   *application.ChainStore
	Service port.ChainService
}

// New opens storage, loads the stored chains and, when a seed file is configured,
// syncs the registry partitions from it.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	kv, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := application.NewChainStore(kv, cfg.Chain, logger)
	svc, err := application.NewChainService(ctx, store, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	if cfg.Registry.SeedFile != "" {
		snapshot, err := seed.NewRepository(cfg.Registry.SeedFile, logger).Load()
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to load registry seed: %w", err)
		}
		changed, err := svc.SyncRegistry(ctx, snapshot)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to sync registry: %w", err)
		}
		logger.Info("Registry seed applied", zap.Bool("changed", changed), zap.String("sha", snapshot.SHA))
	}

	return &App{KV: kv, Store: store, Service: svc}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.KV.Close()
}
