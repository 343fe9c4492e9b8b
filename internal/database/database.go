// Package database provides the PostgreSQL implementation of the usuarios
// record store.
//
// The package uses GORM as its ORM layer with the pgx based postgres driver.
// Duplicate key violations are translated by GORM and surface as
// models.ErrAlreadyExists.
//
// Basic usage:
//
//	db, err := database.New(dsn, logger)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	u, err := db.Create(ctx, input)
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Vector/usuarios-api/models"
)

const defaultQueryTimeout = 10 * time.Second

var (
	// ErrInvalidDBObject is returned when the database object is not properly
	// initialized or is missing required components
	ErrInvalidDBObject = errors.New("invalid database object")

	// ErrInvalidGormConnectionObject is returned when the GORM engine is nil
	ErrInvalidGormConnectionObject = errors.New("invalid gorm connection object")
)

// Db is a models.UsuarioRepository backed by PostgreSQL.
type Db struct {
	// Engine is the gorm handle every query goes through
	Engine *gorm.DB
	// Logger is used for schema and connection messages
	Logger *zap.Logger
	// QueryTimeout bounds every single store operation
	QueryTimeout time.Duration
}

var _ models.UsuarioRepository = (*Db)(nil)

// Option customizes a Db created by New.
type Option func(*Db)

// WithQueryTimeout overrides the per operation timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(db *Db) {
		if d > 0 {
			db.QueryTimeout = d
		}
	}
}

// New connects to dsn, validates the resulting object and migrates the schema.
func New(dsn string, logger *zap.Logger, opts ...Option) (*Db, error) {
	engine, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := engine.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	database := &Db{
		Engine:       engine,
		Logger:       logger,
		QueryTimeout: defaultQueryTimeout,
	}

	for _, opt := range opts {
		opt(database)
	}

	if err := database.Validate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := database.EnsureSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return database, nil
}

// Validate checks if the database object is properly initialized with all required components.
func (db *Db) Validate() error {
	if db == nil {
		return ErrInvalidDBObject
	}

	var err error

	if db.Engine == nil {
		err = multierr.Append(err, ErrInvalidGormConnectionObject)
	}

	if db.Logger == nil {
		err = multierr.Append(err, errors.New("missing logger"))
	}

	if db.QueryTimeout <= 0 {
		err = multierr.Append(err, errors.New("query timeout must be positive"))
	}

	if err != nil {
		return multierr.Append(ErrInvalidDBObject, err)
	}

	return nil
}

// EnsureSchema runs GORM's AutoMigrate for the usuarios table. It is safe to
// call on every start.
func (db *Db) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	if err := db.Engine.WithContext(ctx).AutoMigrate(&usuarioORM{}); err != nil {
		db.Logger.Error("schema migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate usuarios table: %w", err)
	}

	db.Logger.Debug("successfully migrated database schemas")

	return nil
}

func (db *Db) Ping(ctx context.Context) error {
	sqlDB, err := db.Engine.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (db *Db) Close() error {
	sqlDB, err := db.Engine.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// GetQueryTimeout returns the configured query timeout duration for database operations.
func (db *Db) GetQueryTimeout() time.Duration {
	if db.QueryTimeout <= 0 {
		return defaultQueryTimeout
	}

	return db.QueryTimeout
}
