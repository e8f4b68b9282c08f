// Package photo serves the most recent camera capture.
package photo

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/web/handler"
)

const (
	// Path is the path of the latest photo below handler.APIPath.
	Path = "/latest-photo"

	// MsgNoPhotos is returned when the photo directory holds no image.
	MsgNoPhotos = "No photos found"
	// MsgReadFailed is returned when the photo directory can not be read.
	MsgReadFailed = "Failed to read directory"
)

// ErrNoPhotos is returned by Latest for a directory without images.
var ErrNoPhotos = errors.New("no photos found")

// imageExt lists the served file extensions, lower case.
var imageExt = map[string]bool{ //nolint:gochecknoglobals
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Service is the latest photo handler service.
type Service struct {
	handler.Service
	dir string
}

// Handler is the latest photo handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the latest photo handler. db is not used.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ *gorm.DB) error {
	if router == nil || cfg == nil {
		return handler.ErrNilACD
	}

	s.dir = cfg.Photos.Dir

	router.Get(Path, s.Get)

	return nil
}

// Get sends the most recently modified image of the photo directory.
func (s *Service) Get(c *fiber.Ctx) error {
	latest, err := Latest(s.dir)
	if err != nil {
		if errors.Is(err, ErrNoPhotos) {
			return handler.Fail(c, fiber.StatusNotFound, MsgNoPhotos, nil)
		}

		log.Error().Err(err).Str("dir", s.dir).Msg("failed to read photo directory")

		return handler.Fail(c, fiber.StatusInternalServerError, MsgReadFailed, nil)
	}

	return c.SendFile(latest)
}

// Latest returns the path of the most recently modified image in dir.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to read photo directory")
	}

	var (
		name    string
		modTime time.Time
	)

	for _, e := range entries {
		if e.IsDir() || !imageExt[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// removed since ReadDir
			continue
		}

		if name == "" || info.ModTime().After(modTime) {
			name = e.Name()
			modTime = info.ModTime()
		}
	}

	if name == "" {
		return "", ErrNoPhotos
	}

	return filepath.Join(dir, name), nil
}
