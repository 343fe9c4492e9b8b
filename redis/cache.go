// Package redis adds an optional read-through cache in front of a record
// store. Only single-record lookups are cached; listings always hit the store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
)

const (
	DefaultTTL = time.Minute

	keyPrefix = "usuarios:usuario:"
)

// NewClient connects to the server named by a redis:// URL and pings it.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CachedRepository wraps a store. Redis failures are logged and the call
// falls through to the store, so the cache never changes an outcome.
type CachedRepository struct {
	models.UsuarioRepository

	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ models.UsuarioRepository = (*CachedRepository)(nil)

func NewCachedRepository(repo models.UsuarioRepository, client *goredis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedRepository{
		UsuarioRepository: repo,
		client:            client,
		ttl:               ttl,
		logger:            logger,
	}
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func (c *CachedRepository) Get(ctx context.Context, id int64) (models.Usuario, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()

	switch {
	case err == nil:
		var u models.Usuario
		if err := json.Unmarshal(raw, &u); err == nil {
			return u, nil
		}

		c.logger.Warn("dropping undecodable cache entry", zap.Int64("id", id))
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	u, err := c.UsuarioRepository.Get(ctx, id)
	if err != nil {
		return models.Usuario{}, err
	}

	c.store(ctx, u)

	return u, nil
}

func (c *CachedRepository) Update(ctx context.Context, id int64, in models.UsuarioInput) (models.Usuario, error) {
	u, err := c.UsuarioRepository.Update(ctx, id, in)
	if err != nil {
		return models.Usuario{}, err
	}

	c.store(ctx, u)

	return u, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := c.UsuarioRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}

	return removed, nil
}

// Close closes the Redis client and then the wrapped store.
func (c *CachedRepository) Close() error {
	return multierr.Combine(c.client.Close(), c.UsuarioRepository.Close())
}

func (c *CachedRepository) store(ctx context.Context, u models.Usuario) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(u.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Int64("id", u.ID), zap.Error(err))
	}
}
