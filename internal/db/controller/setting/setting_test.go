package setting

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/db/models"
)

var errForced = errors.New("forced failure")

// setupTestDB creates a file backed SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "settings.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()

	for _, setting := range settings {
		if setting.UpdatedAt.IsZero() {
			setting.UpdatedAt = Now()
		}

		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

// failOnCreate makes every insert of the named setting fail.
func failOnCreate(t *testing.T, db *gorm.DB, name string) {
	t.Helper()

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+name, func(tx *gorm.DB) {
		if s, ok := tx.Statement.Dest.(*models.Setting); ok && s.Name == name {
			_ = tx.AddError(errForced)
		}
	})
	require.NoError(t, err)
}

func valuesOf(t *testing.T, db *gorm.DB, sensorType string) map[string]float64 {
	t.Helper()

	var rows []models.Setting

	require.NoError(t, db.Where("sensor_type = ?", sensorType).Find(&rows).Error)

	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Value
	}

	return out
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		sensorType    string
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue float64
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			sensorType:    "ph",
			settingName:   "alert_min",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty sensor type",
			dbParam:       db,
			settingName:   "alert_min",
			expectedError: ErrSensorTypeEmpty,
		},
		{
			name:          "empty name",
			dbParam:       db,
			sensorType:    "ph",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			sensorType:    "ph",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "same name of another sensor type does not match",
			dbParam:     db,
			sensorType:  "ph",
			settingName: "sensing_interval",
			seedData: []models.Setting{
				{SensorType: "conductivity", Name: "sensing_interval", Value: 300},
			},
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			sensorType:  "ph",
			settingName: "alert_min",
			seedData: []models.Setting{
				{SensorType: "ph", Name: "alert_min", Value: 6.2},
			},
			expectedValue: 6.2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM tb_sensor_settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.sensorType, tc.settingName)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				require.NotNil(t, setting)
				assert.Equal(t, tc.sensorType, setting.SensorType)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.InDelta(t, tc.expectedValue, setting.Value, 1e-9)
			}
		})
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		sensorType    string
		seedData      []models.Setting
		expectedError error
		expectedNames []string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			sensorType:    "ph",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty sensor type",
			dbParam:       db,
			expectedError: ErrSensorTypeEmpty,
		},
		{
			name:          "unconfigured sensor type",
			dbParam:       db,
			sensorType:    "ph",
			expectedError: ErrNoSettings,
		},
		{
			name:       "ordered by setting name",
			dbParam:    db,
			sensorType: "ph",
			seedData: []models.Setting{
				{SensorType: "ph", Name: "sensing_interval", Value: 300},
				{SensorType: "ph", Name: "alert_min", Value: 6},
				{SensorType: "ph", Name: "alert_max", Value: 8},
				{SensorType: "illuminance", Name: "alert_max", Value: 1000},
			},
			expectedNames: []string{"alert_max", "alert_min", "sensing_interval"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM tb_sensor_settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			settings, err := List(tc.dbParam, tc.sensorType)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, settings)

				return
			}

			require.NoError(t, err)

			names := make([]string, 0, len(settings))
			for _, s := range settings {
				assert.Equal(t, tc.sensorType, s.SensorType)
				names = append(names, s.Name)
			}

			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		sensorType    string
		settingName   string
		value         float64
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			sensorType:    "water_level",
			settingName:   "level_low",
			value:         5,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			sensorType:    "water_level",
			value:         5,
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "nan value",
			dbParam:       db,
			sensorType:    "water_level",
			settingName:   "level_low",
			value:         math.NaN(),
			expectedError: ErrValueNotFinite,
		},
		{
			name:          "infinite value",
			dbParam:       db,
			sensorType:    "water_level",
			settingName:   "level_low",
			value:         math.Inf(1),
			expectedError: ErrValueNotFinite,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			sensorType:    "water_level",
			settingName:   "level_low",
			value:         5,
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful update",
			dbParam:     db,
			sensorType:  "water_level",
			settingName: "level_low",
			value:       5,
			seedData: []models.Setting{
				{SensorType: "water_level", Name: "level_low", Value: 10},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM tb_sensor_settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Update(tc.dbParam, tc.sensorType, tc.settingName, tc.value)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, setting)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.InDelta(t, tc.value, setting.Value, 1e-9)
		})
	}
}

func TestUpdateThenGet(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{SensorType: "water_level", Name: "level_low", Value: 10, UpdatedAt: Now().Add(-time.Hour)},
	})

	updated, err := Update(db, "water_level", "level_low", 5)
	require.NoError(t, err)

	got, err := Get(db, "water_level", "level_low")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.Value, 1e-9)
	assert.False(t, got.UpdatedAt.Before(updated.UpdatedAt),
		"stored timestamp %v is before echoed %v", got.UpdatedAt, updated.UpdatedAt)
}

func TestUpdateNeverCreates(t *testing.T) {
	db := setupTestDB(t)

	_, err := Update(db, "ph", "alert_min", 6.1)
	require.ErrorIs(t, err, ErrSettingNotFound)

	_, err = Get(db, "ph", "alert_min")
	require.ErrorIs(t, err, ErrSettingNotFound)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Zero(t, count)
}

func TestReplace(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		sensorType    string
		entries       []Entry
		seedData      []models.Setting
		expectedError error
		expected      map[string]float64
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			sensorType:    "ph",
			entries:       []Entry{{Name: "alert_min", Value: 6.2}},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty sensor type",
			dbParam:       db,
			entries:       []Entry{{Name: "alert_min", Value: 6.2}},
			expectedError: ErrSensorTypeEmpty,
		},
		{
			name:          "unknown sensor type",
			dbParam:       db,
			sensorType:    "aquarium_lid",
			entries:       []Entry{{Name: "alert_min", Value: 6.2}},
			expectedError: ErrSensorTypeUnknown,
		},
		{
			name:          "empty batch",
			dbParam:       db,
			sensorType:    "ph",
			expectedError: ErrEmptyBatch,
		},
		{
			name:       "empty name rejects whole batch",
			dbParam:    db,
			sensorType: "ph",
			entries: []Entry{
				{Name: "alert_min", Value: 6.2},
				{Name: "", Value: 7.8},
			},
			expectedError: ErrSettingNameEmpty,
			expected:      map[string]float64{},
		},
		{
			name:       "overlong name rejects whole batch",
			dbParam:    db,
			sensorType: "ph",
			entries: []Entry{
				{Name: "alert_min", Value: 6.2},
				{Name: strings.Repeat("n", models.SettingNameMaxLen+1), Value: 7.8},
			},
			expectedError: ErrSettingNameTooLong,
			expected:      map[string]float64{},
		},
		{
			name:       "name at column width",
			dbParam:    db,
			sensorType: "ph",
			entries: []Entry{
				{Name: strings.Repeat("n", models.SettingNameMaxLen), Value: 1},
			},
			expected: map[string]float64{strings.Repeat("n", models.SettingNameMaxLen): 1},
		},
		{
			name:       "creates and updates",
			dbParam:    db,
			sensorType: "ph",
			entries: []Entry{
				{Name: "alert_min", Value: 6.2},
				{Name: "alert_max", Value: 7.8},
			},
			seedData: []models.Setting{
				{SensorType: "ph", Name: "alert_min", Value: 6},
				{SensorType: "ph", Name: "sensing_interval", Value: 300},
			},
			expected: map[string]float64{
				"alert_min":        6.2,
				"alert_max":        7.8,
				"sensing_interval": 300,
			},
		},
		{
			name:       "duplicate name in batch last wins",
			dbParam:    db,
			sensorType: "ph",
			entries: []Entry{
				{Name: "alert_min", Value: 6.2},
				{Name: "alert_min", Value: 6.4},
			},
			expected: map[string]float64{"alert_min": 6.4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM tb_sensor_settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			ts, err := Replace(tc.dbParam, tc.sensorType, tc.entries)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.True(t, IsValidation(err) || errors.Is(err, ErrDBNil))
				assert.True(t, ts.IsZero())
			} else {
				require.NoError(t, err)
				assert.False(t, ts.IsZero())
			}

			if tc.expected != nil {
				assert.Equal(t, tc.expected, valuesOf(t, tc.dbParam, tc.sensorType))
			}
		})
	}
}

func TestReplaceSharesTimestamp(t *testing.T) {
	db := setupTestDB(t)

	ts, err := Replace(db, "ph", []Entry{
		{Name: "alert_min", Value: 6.2},
		{Name: "alert_max", Value: 7.8},
	})
	require.NoError(t, err)

	settings, err := List(db, "ph")
	require.NoError(t, err)
	require.Len(t, settings, 2)

	for _, s := range settings {
		assert.True(t, s.UpdatedAt.Equal(ts), "%s updated_at %v, want %v", s.Name, s.UpdatedAt, ts)
	}
}

func TestReplaceIsAtomic(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Defaults, SeedPreserve))

	before, err := List(db, "water_level")
	require.NoError(t, err)

	failOnCreate(t, db, "level_normal")

	// level_normal is the last item of the batch
	_, err = Replace(db, "water_level", []Entry{
		{Name: "level_low", Value: 1},
		{Name: "level_high", Value: 3},
		{Name: "level_normal", Value: 2},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errForced)
	assert.False(t, IsValidation(err))

	after, err := List(db, "water_level")
	require.NoError(t, err)

	require.Len(t, after, len(before))

	for i := range before {
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.InDelta(t, before[i].Value, after[i].Value, 1e-9)
		assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
}

func TestReplaceRollsBackInsertedRows(t *testing.T) {
	db := setupTestDB(t)

	failOnCreate(t, db, "alert_max")

	_, err := Replace(db, "ph", []Entry{
		{Name: "alert_min", Value: 6.2},
		{Name: "sensing_interval", Value: 60},
		{Name: "alert_max", Value: 7.8},
	})
	require.ErrorIs(t, err, errForced)

	_, err = List(db, "ph")
	require.ErrorIs(t, err, ErrNoSettings)
}

func TestReplaceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	batch := []Entry{
		{Name: "alert_min", Value: 6.2},
		{Name: "alert_max", Value: 7.8},
	}

	first, err := Replace(db, "ph", batch)
	require.NoError(t, err)

	once := valuesOf(t, db, "ph")

	time.Sleep(2 * time.Millisecond)

	second, err := Replace(db, "ph", batch)
	require.NoError(t, err)

	assert.Equal(t, once, valuesOf(t, db, "ph"))
	assert.True(t, second.After(first))

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyBatch))
	assert.True(t, IsValidation(ErrValueNotFinite))
	assert.True(t, IsValidation(ErrSettingNameTooLong))
	assert.False(t, IsValidation(ErrSettingNotFound))
	assert.False(t, IsValidation(errForced))
	assert.False(t, IsValidation(nil))
}
