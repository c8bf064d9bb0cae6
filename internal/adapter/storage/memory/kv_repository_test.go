package memory

import (
	"context"
	"testing"
	"time"

	"chainstore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKVRepository_GetSet(t *testing.T) {
	repo := NewKVRepository(config.CacheConfig{CleanupInterval: time.Minute}, zap.NewNop())
	defer repo.Close()
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "context-registry-sha", "abc"))
	require.NoError(t, repo.Set(ctx, "context-registry-sha", "def"))

	value, found, err := repo.Get(ctx, "context-registry-sha")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "def", value)
}

func TestKVRepository_CloseFlushes(t *testing.T) {
	repo := NewKVRepository(config.CacheConfig{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v"))
	require.NoError(t, repo.Close())

	_, found, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
