// Package web wires the HTTP API of the service.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/auth"
	"github.com/aquamon/aquamon/internal/config"
	fiberlogger "github.com/aquamon/aquamon/internal/logger/adapter/fiber"
	"github.com/aquamon/aquamon/internal/web/handler"
	"github.com/aquamon/aquamon/internal/web/handler/photo"
	"github.com/aquamon/aquamon/internal/web/handler/sensordata"
	"github.com/aquamon/aquamon/internal/web/handler/sensorsettings"
	authmiddleware "github.com/aquamon/aquamon/internal/web/middleware/auth"
	"github.com/aquamon/aquamon/internal/web/session"
)

const (
	// MsgNotFound is the error text of unknown routes.
	MsgNotFound = "Invalid endpoint or table does not exist"

	msgNotFoundFmt = "The requested path '%s' was not found"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address and blocks until it is stopped.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err
			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown answers 503 on check alive for Webserver.ShutDownTime seconds
// and stops the http server afterwards.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service runs and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// ErrorHandler turns errors returned by handlers into the JSON error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return handler.Fail(c, e.Code, e.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")

	return handler.Fail(c, fiber.StatusInternalServerError, utils.StatusMessage(fiber.StatusInternalServerError), err)
}

// NotFound answers every route nobody else handled.
func NotFound(c *fiber.Ctx) error {
	return handler.FailWithMessage(c, fiber.StatusNotFound, MsgNotFound, fmt.Sprintf(msgNotFoundFmt, c.Path()))
}

// New creates a new web service with the given configuration.
// session.Store is used if initialized, otherwise an in-memory store is created.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	verifier, err := auth.NewTokenVerifier(cfg.Auth.Token)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	store := session.Store
	if store == nil {
		store = session.New(cfg, nil)
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   ErrorHandler,
		},
	)

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: fiberlogger.RequestIDLocal,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Log:   cfg.Log,
		Quiet: []string{cfg.Webserver.CheckAliveURI},
	}))

	app.Use(metricsMiddleware)

	// init web service
	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	// not gated
	app.Get(cfg.Webserver.CheckAliveURI, service.CheckAlive)
	app.Get(cfg.Webserver.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath, authmiddleware.New(authmiddleware.Config{
		Verifier: verifier,
		Store:    store,
	}))

	// init handlers (they register their own routes)
	for _, h := range []handler.Service{
		&sensorsettings.Handler,
		&sensordata.Handler,
		&photo.Handler,
	} {
		if err = h.Init(api, cfg, db); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	app.Use(NotFound)

	return service, nil
}
