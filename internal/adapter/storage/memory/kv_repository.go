package memory

import (
	"context"
	"fmt"

	"chainstore/internal/config"
	domainRepo "chainstore/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.KeyValueStore = (*KVRepository)(nil)

// KVRepository implements domainRepo.KeyValueStore using the go-cache in-memory library.
// Entries never expire; the store lives as long as the process.
type KVRepository struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewKVRepository creates a new in-memory key/value store.
func NewKVRepository(cfg config.CacheConfig, logger *zap.Logger) *KVRepository {
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(cache.NoExpiration, cleanupInterval)
	logger.Info("Initialized go-cache for memory storage", zap.Duration("cleanupInterval", cleanupInterval))

	return &KVRepository{
		cache:  c,
		logger: logger.Named("MemoryKVStorage"),
	}
}

// Get returns the value stored under key.
func (r *KVRepository) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := r.cache.Get(key); found {
		if value, ok := x.(string); ok {
			r.logger.Debug("Memory store hit", zap.String("key", key))
			return value, true, nil
		}
		r.logger.Warn(
			"Memory store data type mismatch for key",
			zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory store miss", zap.String("key", key))
	return "", false, nil
}

// Set overwrites the value stored under key.
func (r *KVRepository) Set(_ context.Context, key, value string) error {
	r.cache.Set(key, value, cache.NoExpiration)
	r.logger.Debug("Memory store set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Close empties the store.
func (r *KVRepository) Close() error {
	r.cache.Flush()
	return nil
}
