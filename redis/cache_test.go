package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/internal/testutils"
	"github.com/Vector/usuarios-api/models"
	"github.com/Vector/usuarios-api/redis"
	"github.com/Vector/usuarios-api/testcontainers"
	"github.com/Vector/usuarios-api/web/memory"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redis.NewClient(context.Background(), "not a url")
	require.Error(t, err)
}

func TestCachedRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	container := testcontainers.StartRedis(t)
	ctx := context.Background()

	client, err := redis.NewClient(ctx, container.GetURL())
	require.NoError(t, err)

	store, err := memory.New()
	require.NoError(t, err)

	repo := redis.NewCachedRepository(store, client, time.Minute, zap.NewNop())
	defer repo.Close()

	created, err := repo.Create(ctx, testutils.GenerateRandomUsuarioInput())
	require.NoError(t, err)

	t.Run("get populates the cache", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)

		n, err := client.Exists(ctx, "usuarios:usuario:"+strconv.FormatInt(created.ID, 10)).Result()
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("update refreshes the entry", func(t *testing.T) {
		in := testutils.GenerateRandomUsuarioInput()

		updated, err := repo.Update(ctx, created.ID, in)
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
		assert.Equal(t, in.Email, got.Email)
	})

	t.Run("delete invalidates", func(t *testing.T) {
		removed, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = repo.Get(ctx, created.ID)
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		_, err := repo.Get(ctx, 4242)
		require.ErrorIs(t, err, models.ErrNotFound)

		n, err := client.Exists(ctx, "usuarios:usuario:4242").Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
