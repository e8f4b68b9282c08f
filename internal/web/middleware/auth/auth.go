package auth

import (
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"github.com/aquamon/aquamon/internal/auth"
	"github.com/aquamon/aquamon/internal/web/handler"
	"github.com/aquamon/aquamon/internal/web/session"
)

// MsgUnauthorized is the error text of rejected requests.
const MsgUnauthorized = "Unauthorized access"

// Config of the middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// Verifier checks bearer tokens.
	Verifier *auth.TokenVerifier

	// Store holds the authenticated sessions.
	Store *fibersession.Store
}

// New returns the authentication gate.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if session.IsAuthenticated(cfg.Store, c) {
			return c.Next()
		}

		token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok || !cfg.Verifier.Verify(token) {
			return handler.Fail(c, fiber.StatusUnauthorized, MsgUnauthorized, nil)
		}

		if err := session.MarkAuthenticated(cfg.Store, c); err != nil {
			// the token was valid, the client just has to send it again next time
			log.Warn().Err(err).Msg("failed to mark session authenticated")
		}

		return c.Next()
	}
}
