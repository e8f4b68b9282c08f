// Package fiber provides the zerolog access log of the web service.
package fiber

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aquamon/aquamon/internal/logger"
)

const (
	// RequestIDLocal is the fiber.Locals key read for the request id.
	RequestIDLocal = "requestid"

	// sensorTypeParam is the route parameter naming the sensor of settings and readings routes.
	sensorTypeParam = "sensorType"
)

// Config of the access log middleware.
type Config struct {
	// Next skips logging of a request when it returns true.
	Next func(c *fiber.Ctx) bool

	// Log selects the console and file writers.
	Log logger.Log

	// Quiet paths are not logged while Log.DisableCheckAlive is set.
	Quiet []string

	// Output replaces the writers selected by Log.
	Output io.Writer
}

// New returns a middleware writing one access line per request.
// Errors of the chain are resolved with the app error handler first,
// so the logged status is the one the client receives.
func New(cfg Config) fiber.Handler {
	out := cfg.Output
	if out == nil {
		out = accessWriter(cfg.Log)
	}

	if out == nil {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	quiet := make(map[string]struct{}, len(cfg.Quiet))
	if cfg.Log.DisableCheckAlive {
		for _, p := range cfg.Quiet {
			quiet[p] = struct{}{}
		}
	}

	access := zerolog.New(out).With().Timestamp().Logger()

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		begin := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		if _, ok := quiet[c.Path()]; ok {
			return nil
		}

		uri := c.Path()
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			uri += "?" + string(q)
		}

		event := access.Log().
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("uri", uri).
			Str("route", c.Route().Path).
			Int("status", c.Response().StatusCode()).
			Int("bytes", len(c.Response().Body())).
			Dur("latency", time.Since(begin)).
			Bytes("host", c.Request().Host()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent))

		if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
			event.Str("forwarded_for", fwd)
		}

		if sensorType := c.Params(sensorTypeParam); sensorType != "" {
			event.Str("sensor_type", sensorType)
		}

		if rid, ok := c.Locals(RequestIDLocal).(string); ok && rid != "" {
			event.Str("request_id", rid)
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

// accessWriter returns the configured access log sinks, nil when none is enabled.
func accessWriter(cfg logger.Log) io.Writer {
	var writers []io.Writer

	if cfg.File.Enabled && cfg.File.AccessLog != "" {
		if fw := rollingFile(cfg.File); fw != nil {
			writers = append(writers, fw)
		}
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	switch len(writers) {
	case 0:
		return nil
	case 1:
		return writers[0]
	default:
		return zerolog.MultiLevelWriter(writers...)
	}
}

func rollingFile(cfg logger.LogFile) io.Writer {
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.Path).Msg("can't create access log directory")

			return nil
		}
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, cfg.AccessLog),
		MaxSize:    cfg.AccessMaxSize,
		MaxAge:     cfg.AccessMaxAge,
		MaxBackups: cfg.AccessMaxBackups,
	}
}
