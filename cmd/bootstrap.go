package cmd

import (
	"fmt"
	"strings"

	"migration-reconciler/core/config"
	"migration-reconciler/core/database"
	"migration-reconciler/core/logger"
	"migration-reconciler/core/metrics"
	"migration-reconciler/core/storage"
	"migration-reconciler/feature/clients"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Manager
}

func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, logger: l, metrics: metrics.NewManager(cfg.Metrics)}, nil
}

// clientDependencies connects the backends the given locations need. Object
// storage connects lazily, so its client is always built; the database is
// only dialed when a db:// location is used.
func (a *app) clientDependencies(locations ...string) (clients.Dependencies, error) {
	deps := clients.Dependencies{
		Bucket:  a.cfg.Storage.Bucket,
		Region:  a.cfg.Storage.Region,
		Metrics: a.metrics,
		Logger:  a.logger,
	}

	store, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return deps, fmt.Errorf("failed to create storage client: %w", err)
	}
	deps.Storage = store

	if usesScheme(locations, "db://") {
		db, err := database.Connect(a.cfg.Database)
		if err != nil {
			return deps, err
		}
		deps.DB = db
	}
	return deps, nil
}

func usesScheme(locations []string, prefix string) bool {
	for _, loc := range locations {
		if strings.HasPrefix(loc, prefix) {
			return true
		}
	}
	return false
}

// closeDB releases the database pool, if any.
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
