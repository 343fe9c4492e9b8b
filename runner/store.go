package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/internal/database"
	"github.com/Vector/usuarios-api/models"
	"github.com/Vector/usuarios-api/redis"
	"github.com/Vector/usuarios-api/web/memory"
	"github.com/Vector/usuarios-api/web/sqlite"
)

const sqliteFileName = "usuarios.db"

// OpenStore opens the repository selected by cfg.Storage and makes sure its
// schema exists. With a Redis URL configured the store is wrapped in the
// record cache.
func OpenStore(ctx context.Context, cfg *Config, logger *zap.Logger) (models.UsuarioRepository, error) {
	var (
		repo models.UsuarioRepository
		err  error
	)

	switch cfg.Storage {
	case StorageSQLite:
		if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
			return nil, err
		}

		repo, err = sqlite.New(filepath.Join(cfg.DataFolder, sqliteFileName))
	case StoragePostgres:
		repo, err = database.New(cfg.Dsn, logger)
	case StorageMemory:
		repo, err = memory.New()
	default:
		return nil, fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, cfg.Storage)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		_ = repo.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("storage ready", zap.String("storage", cfg.Storage))

	if cfg.RedisURL == "" || cfg.SchemaOnly {
		return repo, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = repo.Close()

		return nil, err
	}

	logger.Info("record cache enabled", zap.Duration("ttl", cfg.CacheTTL))

	return redis.NewCachedRepository(repo, client, cfg.CacheTTL, logger), nil
}
