package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrAuthTokenEmpty error if no bearer token is configured.
	ErrAuthTokenEmpty = errors.New("config auth.token can not be empty")

	// ErrUnknownGormEngine error if db.gormengine is not sqlite, mysql or postgres.
	ErrUnknownGormEngine = errors.New("config db.gormengine must be sqlite, mysql or postgres")

	// ErrUnknownSeedPolicy error if seed.policy is not preserve or overwrite.
	ErrUnknownSeedPolicy = errors.New("config seed.policy must be preserve or overwrite")
)
