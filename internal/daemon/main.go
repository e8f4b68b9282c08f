// Package daemon assembles store, seeder and web service of the running process.
package daemon

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db"
	"github.com/aquamon/aquamon/internal/web"
	"github.com/aquamon/aquamon/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	db             *gorm.DB
	sessionStorage fiber.Storage
	webService     *web.Service
}

// Start serves http until SIGINT or SIGTERM and releases all resources afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Msg("starting http server")

	err := d.webService.Start(addr)

	d.Close()

	return err //nolint:wrapcheck
}

// Close releases the session storage and the database pool.
func (d *Daemon) Close() {
	if d.sessionStorage != nil {
		if err := d.sessionStorage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}

	if err := db.Close(d.db); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}

	log.Info().Msg("database closed")
}

// New opens the store, runs the default seeder and prepares the web service.
// The seeder completes before the listener can accept a request.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	d := &Daemon{cfg: cfg, db: gormDB}

	if err = seed(cfg, gormDB); err != nil {
		d.Close()
		return nil, err
	}

	if err = os.MkdirAll(cfg.Photos.Dir, 0o750); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "failed to create photo directory")
	}

	if d.sessionStorage, err = session.NewStorage(cfg, gormDB); err != nil {
		d.Close()
		return nil, err //nolint:wrapcheck
	}

	session.Init(cfg, d.sessionStorage)

	if d.webService, err = web.New(cfg, gormDB); err != nil {
		d.Close()
		return nil, err //nolint:wrapcheck
	}

	return d, nil
}
