// Package setting provides the read and write operations of the sensor settings store.
package setting

import (
	"errors"
	"math"
	"time"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aquamon/aquamon/internal/db/models"
)

const (
	typeQueryPattern     = "sensor_type = ?"
	typeNameQueryPattern = "sensor_type = ? AND setting_name = ?"
	orderByName          = "setting_name ASC"
)

var (
	// ErrSettingNotFound is returned when no setting exists for a sensor type and name.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrNoSettings is returned when a sensor type has no settings at all.
	ErrNoSettings = errors.New("no settings found for this sensor type")
	// ErrSensorTypeEmpty is returned when the sensor type is empty.
	ErrSensorTypeEmpty = errors.New("sensor type cannot be empty")
	// ErrSensorTypeUnknown is returned when writing settings for a sensor type outside the vocabulary.
	ErrSensorTypeUnknown = errors.New("unknown sensor type")
	// ErrSettingNameEmpty is returned when the setting name is empty.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingNameTooLong is returned when a written setting name exceeds its column width.
	ErrSettingNameTooLong = errors.New("setting name is too long")
	// ErrValueNotFinite is returned for NaN or infinite values.
	ErrValueNotFinite = errors.New("setting value must be a finite number")
	// ErrEmptyBatch is returned when a batch replace carries no entries.
	ErrEmptyBatch = errors.New("settings must be a non-empty list")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Entry is one name/value pair of a batch replace.
type Entry struct {
	Name  string
	Value float64
}

// IsValidation reports whether err is caused by invalid input rather than by the store.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrSensorTypeEmpty,
		ErrSensorTypeUnknown,
		ErrSettingNameEmpty,
		ErrSettingNameTooLong,
		ErrValueNotFinite,
		ErrEmptyBatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Now returns the timestamp assigned to writes.
// Truncated to milliseconds so the echoed value matches what every engine stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Get retrieves the setting of a sensor type by name.
func Get(db *gorm.DB, sensorType, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := checkKey(sensorType, name); err != nil {
		return nil, err
	}

	var setting models.Setting

	result := db.Where(typeNameQueryPattern, sensorType, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, pkgerrors.Wrap(result.Error, "failed to read setting")
	}

	return &setting, nil
}

// List retrieves all settings of a sensor type ordered by setting name.
// ErrNoSettings is returned if the sensor type has none.
func List(db *gorm.DB, sensorType string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if sensorType == "" {
		return nil, ErrSensorTypeEmpty
	}

	var settings []models.Setting

	result := db.Where(typeQueryPattern, sensorType).Order(orderByName).Find(&settings)
	if result.Error != nil {
		return nil, pkgerrors.Wrap(result.Error, "failed to list settings")
	}

	if len(settings) == 0 {
		return nil, ErrNoSettings
	}

	return settings, nil
}

// Update overwrites the value of an existing setting.
// It never creates a row: a missing setting yields ErrSettingNotFound.
func Update(db *gorm.DB, sensorType, name string, value float64) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := checkKey(sensorType, name); err != nil {
		return nil, err
	}

	if err := checkValue(value); err != nil {
		return nil, err
	}

	var setting models.Setting

	// The write comes first so the transaction takes the write lock up front.
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Setting{}).
			Where(typeNameQueryPattern, sensorType, name).
			Updates(map[string]any{
				"setting_value": value,
				"updated_at":    Now(),
			})
		if result.Error != nil {
			return result.Error
		}

		// mysql counts changed rows only, so a zero count still needs the read.
		return tx.Where(typeNameQueryPattern, sensorType, name).First(&setting).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to update setting")
	}

	return &setting, nil
}

// Replace upserts all entries of a sensor type in one transaction.
// Every row written shares the returned timestamp. If any entry fails,
// nothing of the batch is applied.
func Replace(db *gorm.DB, sensorType string, entries []Entry) (time.Time, error) {
	if db == nil {
		return time.Time{}, ErrDBNil
	}

	if sensorType == "" {
		return time.Time{}, ErrSensorTypeEmpty
	}

	if !models.SensorType(sensorType).HasSettings() {
		return time.Time{}, ErrSensorTypeUnknown
	}

	if len(entries) == 0 {
		return time.Time{}, ErrEmptyBatch
	}

	for _, e := range entries {
		if err := checkName(e.Name); err != nil {
			return time.Time{}, err
		}

		if err := checkValue(e.Value); err != nil {
			return time.Time{}, err
		}
	}

	now := Now()
	rows := make([]models.Setting, 0, len(entries))

	for _, e := range entries {
		rows = append(rows, models.Setting{
			SensorType: sensorType,
			Name:       e.Name,
			Value:      e.Value,
			UpdatedAt:  now,
		})
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return upsert(tx, rows, true)
	}); err != nil {
		return time.Time{}, err
	}

	return now, nil
}

// upsert writes rows one by one inside tx. With overwrite an existing
// (sensor_type, setting_name) gets the new value and timestamp, otherwise it is left alone.
func upsert(tx *gorm.DB, rows []models.Setting, overwrite bool) error {
	conflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "sensor_type"}, {Name: "setting_name"}},
	}

	if overwrite {
		conflict.DoUpdates = clause.AssignmentColumns([]string{"setting_value", "updated_at"})
	} else {
		conflict.DoNothing = true
	}

	for i := range rows {
		if err := tx.Clauses(conflict).Create(&rows[i]).Error; err != nil {
			return pkgerrors.Wrapf(err, "failed to write setting %s/%s", rows[i].SensorType, rows[i].Name)
		}
	}

	return nil
}

func checkKey(sensorType, name string) error {
	if sensorType == "" {
		return ErrSensorTypeEmpty
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return nil
}

// checkName validates a setting name about to be written.
func checkName(name string) error {
	if name == "" {
		return ErrSettingNameEmpty
	}

	if utf8.RuneCountInString(name) > models.SettingNameMaxLen {
		return ErrSettingNameTooLong
	}

	return nil
}

func checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrValueNotFinite
	}

	return nil
}
