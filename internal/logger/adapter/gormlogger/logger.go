// Package gormlogger routes gorm query logging through the global zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config of the adapter.
type Config struct {
	// SlowThreshold marks queries taking longer as slow. Zero disables it.
	SlowThreshold time.Duration
}

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	cfg   Config
	level gormlogger.LogLevel
}

// New returns a gorm logger writing to the global zerolog logger.
func New(cfg Config) *Logger {
	return &Logger{cfg: cfg, level: gormlogger.Info}
}

// LogMode returns a copy of l with the given gorm log level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.level = level

	return &nl
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement.
// Failed statements go to error, except record not found. Slow ones go to warn,
// everything else to trace.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = log.Error().Err(err)
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold && l.level >= gormlogger.Warn:
		event = log.Warn().Dur("threshold", l.cfg.SlowThreshold)
	case l.level >= gormlogger.Info:
		event = log.Trace()
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("query")
}
