// Package reading stores and reads back raw sensor telemetry.
package reading

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/db/models"
)

const (
	// DefaultLimit is the number of readings returned when no limit is given.
	DefaultLimit = 50
	// MaxLimit caps the number of readings returned by Latest.
	MaxLimit = 1000
)

var (
	// ErrUnknownSensorType is returned for sensor types without a telemetry table.
	ErrUnknownSensorType = errors.New("invalid sensor type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Input is a decoded sensor report.
type Input struct {
	Timestamp string
	SensorID  string
	Location  string
	Value     float64
	Voltage   float64
}

// Insert stores one reading in the table of sensorType and returns its id.
func Insert(db *gorm.DB, sensorType models.SensorType, in Input) (uint64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	m, ok := models.NewMeasurement(sensorType)
	if !ok {
		return 0, ErrUnknownSensorType
	}

	base := m.Base()
	base.Timestamp = in.Timestamp
	base.SensorID = in.SensorID
	base.Location = in.Location
	base.Voltage = in.Voltage
	m.SetValue(in.Value)

	if err := db.Create(m).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "failed to save sensor data")
	}

	return base.ID, nil
}

// Latest returns up to limit readings of sensorType, newest first.
// Rows are returned with their column names as keys.
func Latest(db *gorm.DB, sensorType models.SensorType, limit int) ([]map[string]any, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	m, ok := models.NewMeasurement(sensorType)
	if !ok {
		return nil, ErrUnknownSensorType
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows := make([]map[string]any, 0)

	result := db.Table(m.TableName()).Order("id DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, pkgerrors.Wrap(result.Error, "failed to read sensor data")
	}

	return rows, nil
}
