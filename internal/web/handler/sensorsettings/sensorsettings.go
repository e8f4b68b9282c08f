// Package sensorsettings serves the sensor settings API.
package sensorsettings

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/db/controller/setting"
	"github.com/aquamon/aquamon/internal/db/models"
	"github.com/aquamon/aquamon/internal/web/handler"
)

const (
	// Path is the path of the sensor settings API below handler.APIPath.
	Path = "/sensor-settings"

	paramSensorType  = "sensorType"
	paramSettingName = "settingName"
)

// Client facing error texts.
const (
	MsgNoSettings         = "No settings found for this sensor type"
	MsgSettingNotFound    = "Setting not found"
	MsgValueRequired      = "Setting value is required"
	MsgValueNotNumber     = "Setting value must be a number"
	MsgInvalidBody        = "Invalid request body"
	MsgInvalidSettings    = "Settings must be a non-empty list of name and value pairs"
	MsgInvalidSensorType  = "Invalid sensor type"
	MsgBatchFailed        = "Failed to update settings"
	MsgSettingUpdated     = "Setting updated successfully"
	MsgSettingsReplaced   = "Settings updated successfully"
	msgSettingNotFoundFmt = "No setting found for sensor type '%s' with name '%s'"
)

// Service is the sensor settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the sensor settings handler.
var Handler = Service{} //nolint:gochecknoglobals

type listResponse struct {
	SensorType string           `json:"sensor_type"`
	Settings   []models.Setting `json:"settings"`
}

type updateRequest struct {
	Value json.RawMessage `json:"value"`
}

type updateResponse struct {
	Message     string    `json:"message"`
	SensorType  string    `json:"sensor_type"`
	SettingName string    `json:"setting_name"`
	NewValue    float64   `json:"new_value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type entryRequest struct {
	Name  string          `json:"name" validate:"required,max=128"`
	Value json.RawMessage `json:"value"`
}

type replaceRequest struct {
	Settings []entryRequest `json:"settings" validate:"required,min=1,dive"`
}

type replaceResponse struct {
	Message    string    `json:"message"`
	SensorType string    `json:"sensor_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// Init initializes the sensor settings handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	router.Route(Path, func(r fiber.Router) {
		r.Get("/:"+paramSensorType, s.List)
		r.Post("/:"+paramSensorType, s.Replace)
		r.Get("/:"+paramSensorType+"/:"+paramSettingName, s.Get)
		r.Put("/:"+paramSensorType+"/:"+paramSettingName, s.Update)
	})

	return nil
}

// List returns all settings of a sensor type ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	sensorType := c.Params(paramSensorType)

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	settings, err := setting.List(db, sensorType)
	if err != nil {
		return s.fail(c, err, sensorType, "")
	}

	return c.JSON(listResponse{SensorType: sensorType, Settings: settings})
}

// Get returns one setting.
func (s *Service) Get(c *fiber.Ctx) error {
	sensorType := c.Params(paramSensorType)
	settingName := c.Params(paramSettingName)

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	row, err := setting.Get(db, sensorType, settingName)
	if err != nil {
		return s.fail(c, err, sensorType, settingName)
	}

	return c.JSON(row)
}

// Update overwrites the value of an existing setting. Unknown settings are not created.
func (s *Service) Update(c *fiber.Ctx) error {
	sensorType := c.Params(paramSensorType)
	settingName := c.Params(paramSettingName)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidBody, err)
	}

	value, err := handler.ParseNumber(req.Value)
	if err != nil {
		return failValue(c, err)
	}

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	updated, err := setting.Update(db, sensorType, settingName, value)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return handler.FailWithMessage(c, fiber.StatusNotFound, MsgSettingNotFound,
				fmt.Sprintf(msgSettingNotFoundFmt, sensorType, settingName))
		}

		return s.fail(c, err, sensorType, settingName)
	}

	log.Info().
		Str("sensor_type", sensorType).
		Str("setting_name", settingName).
		Float64("value", updated.Value).
		Msg("setting updated")

	return c.JSON(updateResponse{
		Message:     MsgSettingUpdated,
		SensorType:  sensorType,
		SettingName: settingName,
		NewValue:    updated.Value,
		UpdatedAt:   updated.UpdatedAt,
	})
}

// Replace upserts a batch of settings of one sensor type in a single transaction.
func (s *Service) Replace(c *fiber.Ctx) error {
	sensorType := c.Params(paramSensorType)

	var req replaceRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSettings, err)
	}

	if err := s.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			err = fmt.Errorf("field '%s' failed validation tag '%s'", ve.Namespace(), ve.Tag())
		}

		return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSettings, err)
	}

	entries := make([]setting.Entry, 0, len(req.Settings))

	for i, e := range req.Settings {
		value, err := handler.ParseNumber(e.Value)
		if err != nil {
			return handler.Fail(c, fiber.StatusBadRequest, MsgValueNotNumber,
				fmt.Errorf("settings[%d] (%s): %w", i, e.Name, err))
		}

		entries = append(entries, setting.Entry{Name: e.Name, Value: value})
	}

	db, cancel := handler.DB(c, s.db, s.cfg.DB.Timeout)
	defer cancel()

	timestamp, err := setting.Replace(db, sensorType, entries)
	if err != nil {
		switch {
		case errors.Is(err, setting.ErrSensorTypeUnknown):
			return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSensorType, err)
		case setting.IsValidation(err):
			return handler.Fail(c, fiber.StatusBadRequest, MsgInvalidSettings, err)
		}

		log.Error().Err(err).Str("sensor_type", sensorType).Int("count", len(entries)).Msg("batch settings update rolled back")

		return handler.Fail(c, fiber.StatusInternalServerError, MsgBatchFailed, err)
	}

	log.Info().Str("sensor_type", sensorType).Int("count", len(entries)).Msg("settings replaced")

	return c.JSON(replaceResponse{
		Message:    MsgSettingsReplaced,
		SensorType: sensorType,
		Timestamp:  timestamp,
	})
}

// fail maps store errors of the read and update path to a response.
func (s *Service) fail(c *fiber.Ctx, err error, sensorType, settingName string) error {
	switch {
	case errors.Is(err, setting.ErrNoSettings):
		return handler.Fail(c, fiber.StatusNotFound, MsgNoSettings, nil)
	case errors.Is(err, setting.ErrSettingNotFound):
		return handler.Fail(c, fiber.StatusNotFound, MsgSettingNotFound, nil)
	case setting.IsValidation(err):
		return handler.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	log.Error().Err(err).
		Str("sensor_type", sensorType).
		Str("setting_name", settingName).
		Msg("settings store failure")

	return handler.Fail(c, fiber.StatusInternalServerError, handler.MsgDatabaseError, err)
}

func failValue(c *fiber.Ctx, err error) error {
	if errors.Is(err, handler.ErrNumberMissing) {
		return handler.Fail(c, fiber.StatusBadRequest, MsgValueRequired, nil)
	}

	return handler.Fail(c, fiber.StatusBadRequest, MsgValueNotNumber, nil)
}
