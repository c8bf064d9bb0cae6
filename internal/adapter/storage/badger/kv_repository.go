// Package badger stores chain state in an embedded BadgerDB, on disk or in memory.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chainstore/internal/config"
	"chainstore/internal/domain"
	domainRepo "chainstore/internal/domain/repository"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.KeyValueStore = (*KVRepository)(nil)

// KVRepository implements domainRepo.KeyValueStore on BadgerDB.
type KVRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

// badgerLogger adapts zap to BadgerDB's Logger interface.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.sugar.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.sugar.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.sugar.Debugf(format, args...) }

// NewKVRepository opens a BadgerDB at cfg.Path, or in memory when the path is empty.
func NewKVRepository(cfg config.StorageConfig, logger *zap.Logger) (*KVRepository, error) {
	named := logger.Named("BadgerStorage")

	var opts badger.Options
	if cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("%w: create badger directory %s: %v", domain.ErrStorageFailure, cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{sugar: named.Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open badger database: %v", domain.ErrStorageFailure, err)
	}
	logger.Info("Opened badger storage", zap.String("path", cfg.Path), zap.Bool("inMemory", cfg.Path == ""))

	return &KVRepository{db: db, logger: named}, nil
}

// Get returns the value stored under key.
func (r *KVRepository) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		r.logger.Debug("Badger miss", zap.String("key", key))
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Badger read failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("%w: get %s: %v", domain.ErrStorageFailure, key, err)
	}
	return string(value), true, nil
}

// Set overwrites the value stored under key.
func (r *KVRepository) Set(_ context.Context, key, value string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		r.logger.Error("Badger write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: set %s: %v", domain.ErrStorageFailure, key, err)
	}
	r.logger.Debug("Badger set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Close closes the database.
func (r *KVRepository) Close() error {
	return r.db.Close()
}
