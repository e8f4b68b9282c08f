// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/aquamon/aquamon/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(dbCfg)
	case config.EngineMySQL:
		return MySQL(dbCfg)
	default:
		return SQLite(dbCfg)
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// Postgres builds a pgx keyword/value DSN.
func Postgres(dbCfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
	)

	if dbCfg.DB.Extras != "" {
		out += " " + dbCfg.DB.Extras
	}

	return out
}

// SQLiteBusyTimeout is the lock wait applied unless the extras set their own.
const SQLiteBusyTimeout = "_pragma=busy_timeout(5000)"

// SQLite returns the database file path with the extras as query string.
func SQLite(dbCfg *config.Config) string {
	extras := dbCfg.DB.Extras

	switch {
	case extras == "":
		extras = SQLiteBusyTimeout
	case !strings.Contains(extras, "busy_timeout"):
		extras = SQLiteBusyTimeout + "&" + extras
	}

	return dbCfg.DB.Path + "?" + extras
}

// PostgresURL builds a postgres:// connection URI, as used by the session storage.
func PostgresURL(dbCfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
	)
}
