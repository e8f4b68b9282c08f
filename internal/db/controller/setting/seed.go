package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/db/models"
)

// SeedPolicy decides what seeding does with settings that already exist.
type SeedPolicy string

const (
	// SeedPreserve inserts missing defaults and keeps operator-modified values.
	SeedPreserve SeedPolicy = "preserve"
	// SeedOverwrite resets every default to its catalogue value.
	SeedOverwrite SeedPolicy = "overwrite"
)

// ErrUnknownSeedPolicy is returned for a policy other than preserve or overwrite.
var ErrUnknownSeedPolicy = errors.New("unknown seed policy")

// Default is one entry of the default catalogue.
type Default struct {
	SensorType models.SensorType
	Name       string
	Value      float64
}

// Defaults is the baseline configuration of the rig. Intervals are in seconds.
var Defaults = []Default{ //nolint:gochecknoglobals
	{models.SensorCamera, "capture_interval", 3600},

	{models.SensorFeed, "feed_interval", 43200},

	{models.SensorAirPump, "ph_threshold_min", 6.5},
	{models.SensorAirPump, "ph_threshold_max", 7.5},
	{models.SensorAirPump, "conductivity_threshold_min", 100},
	{models.SensorAirPump, "conductivity_threshold_max", 500},

	{models.SensorWaterLevel, "level_low", 10},
	{models.SensorWaterLevel, "level_normal", 20},
	{models.SensorWaterLevel, "level_high", 30},

	{models.SensorPH, "sensing_interval", 300},
	{models.SensorPH, "alert_min", 6.0},
	{models.SensorPH, "alert_max", 8.0},

	{models.SensorConductivity, "sensing_interval", 300},

	{models.SensorIlluminance, "sensing_interval", 300},
	{models.SensorIlluminance, "alert_max", 1000},

	{models.SensorWaterTemperature, "sensing_interval", 300},
	{models.SensorWaterTemperature, "alert_min", 20},
	{models.SensorWaterTemperature, "alert_max", 30},
}

// Valid reports whether p is a known policy.
func (p SeedPolicy) Valid() bool {
	return p == SeedPreserve || p == SeedOverwrite
}

// Seed writes the given defaults in a single transaction according to policy.
// Either all defaults are applied or none.
func Seed(db *gorm.DB, defaults []Default, policy SeedPolicy) error {
	if db == nil {
		return ErrDBNil
	}

	if !policy.Valid() {
		return ErrUnknownSeedPolicy
	}

	now := Now()
	rows := make([]models.Setting, 0, len(defaults))

	for _, d := range defaults {
		if d.SensorType == "" {
			return ErrSensorTypeEmpty
		}

		if err := checkName(d.Name); err != nil {
			return err
		}

		if err := checkValue(d.Value); err != nil {
			return err
		}

		rows = append(rows, models.Setting{
			SensorType: string(d.SensorType),
			Name:       d.Name,
			Value:      d.Value,
			UpdatedAt:  now,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return upsert(tx, rows, policy == SeedOverwrite)
	})
}
