package daemon

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db"
	"github.com/aquamon/aquamon/internal/db/controller/setting"
)

// seed writes the default settings catalogue with the configured policy.
func seed(cfg *config.Config, gormDB *gorm.DB) error {
	policy := setting.SeedPolicy(cfg.Seed.Policy)

	if err := setting.Seed(gormDB, setting.Defaults, policy); err != nil {
		return errors.Wrap(err, "failed to seed default settings")
	}

	log.Info().
		Str("policy", string(policy)).
		Int("defaults", len(setting.Defaults)).
		Msg("default settings seeded")

	return nil
}

// Seed opens the store, runs only the default seeder and closes the store again.
func Seed(cfg *config.Config) error {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	return seed(cfg, gormDB)
}
