package leveldb

import (
	"context"
	"errors"
	"fmt"

	"chainstore/internal/config"
	"chainstore/internal/domain"
	domainRepo "chainstore/internal/domain/repository"
	"chainstore/internal/pkg/apperrors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.KeyValueStore = (*KVRepository)(nil)

// KVRepository implements domainRepo.KeyValueStore on a LevelDB directory.
type KVRepository struct {
	db     *leveldb.DB
	write  *opt.WriteOptions
	logger *zap.Logger
}

// NewKVRepository opens (or creates) the LevelDB database at cfg.Path.
func NewKVRepository(cfg config.StorageConfig, logger *zap.Logger) (*KVRepository, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: leveldb storage requires a path", apperrors.ErrInvalidInput)
	}

	db, err := leveldb.OpenFile(cfg.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open leveldb at %s: %v", domain.ErrStorageFailure, cfg.Path, err)
	}
	logger.Info("Opened leveldb storage", zap.String("path", cfg.Path), zap.Bool("syncWrites", cfg.SyncWrites))

	return &KVRepository{
		db:     db,
		write:  &opt.WriteOptions{Sync: cfg.SyncWrites},
		logger: logger.Named("LevelDBStorage"),
	}, nil
}

// Get returns the value stored under key.
func (r *KVRepository) Get(_ context.Context, key string) (string, bool, error) {
	data, err := r.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		r.logger.Debug("LevelDB miss", zap.String("key", key))
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("LevelDB read failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("%w: get %s: %v", domain.ErrStorageFailure, key, err)
	}
	return string(data), true, nil
}

// Set overwrites the value stored under key.
func (r *KVRepository) Set(_ context.Context, key, value string) error {
	if err := r.db.Put([]byte(key), []byte(value), r.write); err != nil {
		r.logger.Error("LevelDB write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: put %s: %v", domain.ErrStorageFailure, key, err)
	}
	r.logger.Debug("LevelDB set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Close closes the database.
func (r *KVRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
