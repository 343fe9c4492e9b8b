package runner

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{"DATABASE_URL", "DISABLE_TELEMETRY", "POSTHOG_API_KEY", "POSTHOG_ENDPOINT", "CORS_ORIGINS", "REDIS_URL"} {
		t.Setenv(k, "")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, RunModeWeb, cfg.RunMode)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, defaultPosthogEndpoint, cfg.PosthogEndpoint)
	assert.False(t, cfg.DisableTelemetry)
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "dsn selects postgres",
			args: []string{"-dsn", "postgres://u:p@localhost/db"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StoragePostgres, cfg.Storage)
			},
		},
		{
			name: "dsn from environment",
			env:  map[string]string{"DATABASE_URL": "postgres://env/db"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StoragePostgres, cfg.Storage)
				assert.Equal(t, "postgres://env/db", cfg.Dsn)
			},
		},
		{
			name: "explicit storage wins over dsn",
			args: []string{"-storage", "memory", "-dsn", "postgres://x/y"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorageMemory, cfg.Storage)
			},
		},
		{
			name:    "postgres without dsn",
			args:    []string{"-storage", "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown storage",
			args:    []string{"-storage", "mongo"},
			wantErr: true,
		},
		{
			name:    "non positive shutdown timeout",
			args:    []string{"-shutdown-timeout", "0s"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope"},
			wantErr: true,
		},
		{
			name: "telemetry disabled by env",
			env:  map[string]string{"DISABLE_TELEMETRY": "1"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.DisableTelemetry)
			},
		},
		{
			name: "cors origins from env",
			env:  map[string]string{"CORS_ORIGINS": "http://a.com, http://b.com"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSOrigins)
			},
		},
		{
			name: "cors flag wins over env",
			args: []string{"-cors-origins", "http://c.com"},
			env:  map[string]string{"CORS_ORIGINS": "http://a.com"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://c.com"}, cfg.CORSOrigins)
			},
		},
		{
			name: "redis url from env",
			env:  map[string]string{"REDIS_URL": "redis://localhost:6379/0"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				assert.Equal(t, time.Minute, cfg.CacheTTL)
			},
		},
		{
			name:    "cache ttl must be positive with redis",
			args:    []string{"-redis-url", "redis://localhost:6379/0", "-cache-ttl", "0s"},
			wantErr: true,
		},
		{
			name: "schema only",
			args: []string{"-schema-only", "-storage", "memory"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, RunModeSchema, cfg.RunMode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := ParseConfig(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)

	assert.Empty(t, wrapText("", 4))
}

func TestBanner(t *testing.T) {
	out := banner([]string{"👥 API de Usuários", "storage: sqlite"}, 40)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)

	for _, l := range lines {
		assert.Equal(t, 40, runewidth.StringWidth(l), l)
	}
}

func TestBannerWriter(t *testing.T) {
	var buf bytes.Buffer

	Banner(&buf, &Config{Addr: ":9000", Storage: StorageMemory, Debug: true})

	assert.Contains(t, buf.String(), "localhost:9000/swagger/")
	assert.Contains(t, buf.String(), "memory")
	assert.Contains(t, buf.String(), "debug")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite creates the data folder", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")

		repo, err := OpenStore(ctx, &Config{Storage: StorageSQLite, DataFolder: dir}, zap.NewNop())
		require.NoError(t, err)

		defer repo.Close()

		assert.FileExists(t, filepath.Join(dir, sqliteFileName))

		_, err = repo.Create(ctx, models.UsuarioInput{
			Nome:     "Ana",
			Endereco: "Rua 1",
			Email:    "ana@x.com",
			Telefone: "(11) 99999-0000",
		})
		require.NoError(t, err)
	})

	t.Run("memory", func(t *testing.T) {
		repo, err := OpenStore(ctx, &Config{Storage: StorageMemory}, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, repo.Ping(ctx))
		require.NoError(t, repo.Close())
	})

	t.Run("unknown storage", func(t *testing.T) {
		_, err := OpenStore(ctx, &Config{Storage: "csv"}, zap.NewNop())
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
