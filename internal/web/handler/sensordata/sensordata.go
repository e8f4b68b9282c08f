// Package sensordata serves telemetry ingestion and read-back.
package sensordata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db/controller/reading"
	"github.com/aquamon/aquamon/internal/db/models"
	"github.com/aquamon/aquamon/internal/web/handler"
)

const (
	// Path is the path of the sensor data API below handler.APIPath.
	Path = "/sensor-data"

	paramSensorType = "sensorType"
	queryLimit      = "limit"
)

// Client facing error and status texts.
const (
	MsgInvalidSensorType = "Invalid sensor type"
	MsgInvalidFormat     = "Invalid sensor data format"
	MsgSaveFailed        = "Failed to save sensor data"
	MsgSaved             = "Sensor data saved successfully"
)

// wireField names the body field carrying the measured value of a sensor type.
type wireField struct {
	value           string
	voltageRequired bool
}

var wireFields = map[models.SensorType]wireField{ //nolint:gochecknoglobals
	models.SensorPH:               {value: "pH_value", voltageRequired: true},
	models.SensorWaterLevel:       {value: "water_level", voltageRequired: true},
	models.SensorWaterTemperature: {value: "temp_value"},
	models.SensorIlluminance:      {value: "light_value"},
	models.SensorConductivity:     {value: "tds_value"},
}

// report holds the fields common to every sensor.
type report struct {
	Timestamp string `json:"timestamp" validate:"omitempty,max=64"`
	SensorID  string `json:"sensor_id" validate:"omitempty,max=64"`
	Location  string `json:"location"  validate:"omitempty,max=128"`
}

type saveResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id"`
}

type latestResponse struct {
	SensorType string           `json:"sensor_type"`
	Readings   []map[string]any `json:"readings"`
}

// Service is the sensor data handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the sensor data handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the sensor data handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	router.Route(Path, func(r fiber.Router) {
		r.Post("/:"+paramSensorType, s.Post)
		r.Get("/:"+paramSensorType, s.Get)
	})

	return nil
}

// Post stores one sensor report.
func (s *Service) Post(c *fiber.Ctx) error {
	sensorType := models.SensorType(c.Params(paramSensorType))

	field, ok := wireFields[sensorType]
	if !ok {
		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSensorType, nil)
	}

	in, err := s.decode(c, field)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidFormat, err)
	}

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	id, err := reading.Insert(db, sensorType, in)
	if err != nil {
		log.Error().Err(err).Str("sensor_type", string(sensorType)).Msg("failed to save sensor data")

		return handler.Fail(c, fiber.StatusInternalServerError, MsgSaveFailed, err)
	}

	log.Debug().Str("sensor_type", string(sensorType)).Uint64("id", id).Msg("sensor data saved")

	return c.JSON(saveResponse{Message: MsgSaved, ID: id})
}

// Get returns the latest readings of a sensor type, newest first.
func (s *Service) Get(c *fiber.Ctx) error {
	sensorType := models.SensorType(c.Params(paramSensorType))

	if _, ok := wireFields[sensorType]; !ok {
		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSensorType, nil)
	}

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	rows, err := reading.Latest(db, sensorType, c.QueryInt(queryLimit, reading.DefaultLimit))
	if err != nil {
		if errors.Is(err, reading.ErrUnknownSensorType) {
			return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSensorType, nil)
		}

		log.Error().Err(err).Str("sensor_type", string(sensorType)).Msg("failed to read sensor data")

		return handler.Fail(c, fiber.StatusInternalServerError, handler.MsgDatabaseError, err)
	}

	return c.JSON(latestResponse{SensorType: string(sensorType), Readings: rows})
}

// decode reads the body of c in the wire format of field.
func (s *Service) decode(c *fiber.Ctx, field wireField) (reading.Input, error) {
	var (
		in     reading.Input
		common report
		body   map[string]json.RawMessage
	)

	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return in, err //nolint:wrapcheck
	}

	if err := json.Unmarshal(c.Body(), &common); err != nil {
		return in, err //nolint:wrapcheck
	}

	if err := s.validator.Struct(common); err != nil {
		return in, err //nolint:wrapcheck
	}

	value, err := handler.ParseNumber(body[field.value])
	if err != nil {
		return in, fmt.Errorf("%s: %w", field.value, err)
	}

	parseVoltage := handler.ParseOptionalNumber
	if field.voltageRequired {
		parseVoltage = handler.ParseNumber
	}

	voltage, err := parseVoltage(body["voltage"])
	if err != nil {
		return in, fmt.Errorf("voltage: %w", err)
	}

	in.Timestamp = common.Timestamp
	in.SensorID = common.SensorID
	in.Location = common.Location
	in.Value = value
	in.Voltage = voltage

	return in, nil
}
