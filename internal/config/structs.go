package config

import (
	"time"

	"github.com/aquamon/aquamon/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Seed      Seed
	Photos    Photos
}

// Webserver implement webserver settings.
type Webserver struct {
	Port          int    // listening port for the webserver
	ShutDownTime  int    // seconds to answer 503 on /checkalive before stopping
	BodyLimit     int    // max request body size in bytes
	CheckAliveURI string // liveness endpoint, not gated by auth
	MetricsURI    string // prometheus endpoint, not gated by auth
}

// Auth holds the shared secret gate settings.
type Auth struct {
	Token         string        // bearer token expected in the Authorization header
	SessionExpiry time.Duration // lifetime of an authenticated session
}

// Seed controls the default settings seeder.
type Seed struct {
	Policy string // preserve or overwrite
}

// Photos configures the camera photo directory.
type Photos struct {
	Dir string
}
