package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectMaxRetries = 5

type Repository struct {
	db *gorm.DB
}

type Config struct {
	// Driver selects the dialect: "sqlite" (default) or "postgres".
	Driver string
	// DSN is the sqlite file path or the postgres connection string.
	DSN string
}

func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		// gorm's own logger writes to stderr and would garble the
		// interactive menus.
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	// The database may still be starting when the CLI launches.
	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(dialector, gormCfg)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("backoff", next),
		)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectMaxRetries)
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Collaborator{},
		&models.Client{},
		&models.Contract{},
		&models.Event{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := &Repository{db: db}
	if cfg.Driver != "postgres" {
		// sqlite leaves foreign key enforcement off per connection.
		if err := repo.Exec(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return repo, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
