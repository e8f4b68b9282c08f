// Package config handles input from etc/main.toml and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. AQUAMON_AUTH_TOKEN.
	EnvPrefix = "AQUAMON"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = "AQUAMON_CONFIG_JSON"

	// SeedPolicyPreserve keeps operator-modified settings across restarts.
	SeedPolicyPreserve = "preserve"
	// SeedPolicyOverwrite resets settings to their defaults on every start.
	SeedPolicyOverwrite = "overwrite"

	masked = "******"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfigJSON config as JSON String with secrets masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	out := *c
	if out.Auth.Token != "" {
		out.Auth.Token = masked
	}

	if out.DB.Password != "" {
		out.DB.Password = masked
	}

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(out); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without
// and fills in defaults for optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Auth.Token == "" {
		return errors.Wrap(ErrAuthTokenEmpty, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Seed.Policy {
	case "":
		c.Seed.Policy = SeedPolicyPreserve
	case SeedPolicyPreserve, SeedPolicyOverwrite:
	default:
		return errors.Wrap(ErrUnknownSeedPolicy, invalidErrMessage)
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.Path == "" {
		c.DB.Path = "./data/sensor_data.db"
	}

	if c.DB.Timeout == 0 {
		c.DB.Timeout = 5 // seconds
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.CheckAliveURI == "" {
		c.Webserver.CheckAliveURI = "/checkalive"
	}

	if c.Webserver.MetricsURI == "" {
		c.Webserver.MetricsURI = "/metrics"
	}

	if c.Auth.SessionExpiry == 0 {
		c.Auth.SessionExpiry = 24 * time.Hour
	}

	if c.Photos.Dir == "" {
		c.Photos.Dir = "./photos"
	}

	return nil
}
