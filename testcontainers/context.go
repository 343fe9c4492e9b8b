// Package testcontainers provides the testing infrastructure for integration
// tests that need a PostgreSQL database. It manages the lifecycle of a Docker
// container, a pgx connection pool and automatic cleanup of resources.
//
// Basic usage:
//
//	func TestMyFeature(t *testing.T) {
//	    tc := testcontainers.NewTestContext(t)
//	    defer tc.Cleanup()
//
//	    db, err := database.New(tc.DSN(), zap.NewNop())
//	    require.NoError(t, err)
//	}
//
// Tests are skipped, not failed, when no Docker provider is reachable.
//
// Environment Variables:
//   - TESTCONTAINERS_RYUK_DISABLED: Set to "true" to disable Ryuk (container cleanup)
//   - DOCKER_HOST: Custom Docker host (optional)
package testcontainers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
)

const (
	// defaultTimeout is the maximum lifetime of a test context, image pull included
	defaultTimeout = 2 * time.Minute
)

// TestContext holds the test infrastructure and makes sure it is released
// even when the test fails.
type TestContext struct {
	t *testing.T

	ctx        context.Context
	cancelFunc context.CancelFunc
	cleanup    []func()

	postgresContainer *PostgresContainer

	// DB is a pool on the test database, handy for fixtures and truncation
	DB *pgxpool.Pool

	PostgresConfig *PostgresConfig
}

// NewTestContext starts a PostgreSQL container and opens a pool on it. The
// test is skipped when Docker is unavailable and fails on any other error.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	tc := &TestContext{
		t:          t,
		ctx:        ctx,
		cancelFunc: cancel,
		cleanup:    make([]func(), 0),
	}

	if err := tc.initPostgres(); err != nil {
		tc.Cleanup()
		t.Fatalf("Failed to initialize Postgres: %v", err)
	}

	return tc
}

// WithTestContext runs fn with a fresh test context and cleans up afterwards.
func WithTestContext(t *testing.T, fn func(*TestContext)) {
	t.Helper()

	tc := NewTestContext(t)
	defer tc.Cleanup()

	fn(tc)
}

// Context returns the context bound to the container lifetime.
func (tc *TestContext) Context() context.Context {
	return tc.ctx
}

// DSN returns the connection string of the test database.
func (tc *TestContext) DSN() string {
	return tc.postgresContainer.GetDSN()
}

// Truncate empties the given tables and resets their identity sequences.
func (tc *TestContext) Truncate(tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(tables))
	for _, table := range tables {
		quoted = append(quoted, pgx.Identifier{table}.Sanitize())
	}

	q := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))

	_, err := tc.DB.Exec(tc.ctx, q)

	return err
}

// Cleanup performs cleanup of all resources in reverse order of creation.
func (tc *TestContext) Cleanup() {
	for i := len(tc.cleanup) - 1; i >= 0; i-- {
		tc.cleanup[i]()
	}

	tc.cleanup = nil
	tc.cancelFunc()
}

func (tc *TestContext) addCleanup(fn func()) {
	tc.cleanup = append(tc.cleanup, fn)
}

func (tc *TestContext) initPostgres() error {
	container, err := NewPostgresContainer(tc.ctx)
	if err != nil {
		return fmt.Errorf("failed to create Postgres container: %w", err)
	}

	tc.postgresContainer = container
	tc.addCleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			tc.t.Errorf("Failed to terminate Postgres container: %v", err)
		}
	})

	pool, err := pgxpool.New(tc.ctx, container.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	tc.DB = pool
	tc.addCleanup(func() {
		tc.DB.Close()
	})

	tc.PostgresConfig = &PostgresConfig{
		Host:     container.Host,
		Port:     container.Port,
		User:     container.User,
		Password: container.Password,
		Database: container.Database,
	}

	return nil
}
