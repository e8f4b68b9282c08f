package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
)

// ErrNilACD is returned by Init if router, cfg or db is nil.
var ErrNilACD = errors.New(ErrNilACDFatalLogMsg)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error
}
