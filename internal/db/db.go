// Package db opens the backing store and prepares its schema.
package db

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db/dsn"
	"github.com/aquamon/aquamon/internal/db/models"
	"github.com/aquamon/aquamon/internal/logger/adapter/gormlogger"
)

// Open connects to the configured engine and migrates all models.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var (
		dialector    gorm.Dialector
		singleWriter bool
	)

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	default:
		if dir := filepath.Dir(cfg.DB.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, errors.Wrap(err, "failed to create database directory")
			}
		}

		dialector = sqlite.Open(dsn.Create(cfg))
		singleWriter = true
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.New(gormlogger.Config{SlowThreshold: time.Duration(cfg.DB.SlowQueryMs) * time.Millisecond}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if singleWriter {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql.DB")
		}

		// sqlite allows one writer, so writers queue on the pool instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// Close releases the connection pool of db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	return sqlDB.Close() //nolint:wrapcheck
}
