package testcontainers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestContext(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	WithTestContext(t, func(tc *TestContext) {
		ctx := tc.Context()

		t.Run("pings postgres", func(t *testing.T) {
			require.NoError(t, tc.DB.Ping(ctx))
			assert.NotZero(t, tc.PostgresConfig.Port)
			assert.Contains(t, tc.DSN(), tc.PostgresConfig.Database)
		})

		t.Run("truncate resets identity", func(t *testing.T) {
			_, err := tc.DB.Exec(ctx, `CREATE TABLE items (id SERIAL PRIMARY KEY, name TEXT NOT NULL)`)
			require.NoError(t, err)

			_, err = tc.DB.Exec(ctx, `INSERT INTO items (name) VALUES ('a'), ('b')`)
			require.NoError(t, err)

			require.NoError(t, tc.Truncate("items"))

			var count int
			require.NoError(t, tc.DB.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count))
			assert.Equal(t, 0, count)

			var id int
			require.NoError(t, tc.DB.QueryRow(ctx, `INSERT INTO items (name) VALUES ('c') RETURNING id`).Scan(&id))
			assert.Equal(t, 1, id)
		})

		t.Run("truncate without tables is a no-op", func(t *testing.T) {
			assert.NoError(t, tc.Truncate())
		})
	})
}
