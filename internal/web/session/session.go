// Package session keeps the authenticated state of API clients between requests.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db/dsn"
	"github.com/aquamon/aquamon/internal/uniuri"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	// Table holds the sessions on mysql and postgres.
	Table = "sessions"

	keyAuthenticated = "authenticated"
	keyLength        = 32
)

// Store is the global session store instance.
var Store *session.Store //nolint:gochecknoglobals

// NewStorage returns the session storage for the configured engine.
// For sqlite it returns nil and the store keeps sessions in memory.
func NewStorage(cfg *config.Config, db *gorm.DB) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql.DB for session storage")
		}

		return mysql.New(mysql.Config{
			Db:         sqlDB,
			Table:      Table,
			GCInterval: 10 * time.Minute,
		}), nil
	case config.EnginePostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.PostgresURL(cfg),
			Table:         Table,
			GCInterval:    10 * time.Minute,
		}), nil
	default:
		return nil, nil //nolint:nilnil // memory storage
	}
}

// Init initializes the session store on top of storage.
func Init(cfg *config.Config, storage fiber.Storage) {
	Store = New(cfg, storage)
}

// New returns a session store with the cookie settings of the service.
func New(cfg *config.Config, storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.Auth.SessionExpiry,
		KeyLookup:      "cookie:" + CookieName,
		CookieSecure:   !cfg.DevMode,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteStrictMode,
		KeyGenerator: func() string {
			return uniuri.NewLen(keyLength)
		},
	})
}

// IsAuthenticated reports whether the session of c was marked authenticated.
func IsAuthenticated(store *session.Store, c *fiber.Ctx) bool {
	sess, err := store.Get(c)
	if err != nil {
		return false
	}

	ok, _ := sess.Get(keyAuthenticated).(bool)

	return ok
}

// MarkAuthenticated marks the session of c authenticated and saves it,
// which also sets the session cookie.
func MarkAuthenticated(store *session.Store, c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return errors.Wrap(err, "failed to get session")
	}

	sess.Set(keyAuthenticated, true)

	return errors.Wrap(sess.Save(), "failed to save session")
}
