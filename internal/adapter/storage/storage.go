package storage

import (
	"fmt"

	badgerstore "chainstore/internal/adapter/storage/badger"
	leveldbstore "chainstore/internal/adapter/storage/leveldb"
	"chainstore/internal/adapter/storage/memory"
	"chainstore/internal/config"
	domainRepo "chainstore/internal/domain/repository"
	"chainstore/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Open returns the key/value backend named by cfg.Storage.Backend.
func Open(cfg config.Config, logger *zap.Logger) (domainRepo.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.NewKVRepository(cfg.Cache, logger), nil
	case config.BackendLevelDB, "":
		return leveldbstore.NewKVRepository(cfg.Storage, logger)
	case config.BackendBadger:
		return badgerstore.NewKVRepository(cfg.Storage, logger)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", apperrors.ErrInvalidInput, cfg.Storage.Backend)
	}
}
