package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamon/aquamon/internal/config"
)

func newTestApp(cfg *config.Config) *fiber.App {
	store := New(cfg, nil)

	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		return MarkAuthenticated(store, c)
	})
	app.Get("/check", func(c *fiber.Ctx) error {
		if IsAuthenticated(store, c) {
			return c.SendStatus(fiber.StatusOK)
		}

		return c.SendStatus(fiber.StatusUnauthorized)
	})

	return app
}

func TestNewStorageSQLite(t *testing.T) {
	storage, err := NewStorage(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite}}, nil)
	require.NoError(t, err)
	assert.Nil(t, storage)
}

func TestSessionCookie(t *testing.T) {
	testCases := []struct {
		name           string
		devMode        bool
		expectedSecure bool
	}{
		{name: "production cookie is secure", expectedSecure: true},
		{name: "dev mode cookie is not secure", devMode: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&config.Config{
				DevMode: tc.devMode,
				Auth:    config.Auth{SessionExpiry: time.Hour},
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
			require.NoError(t, err)
			defer func() {
				_ = resp.Body.Close()
			}()

			var cookie *http.Cookie

			for _, c := range resp.Cookies() {
				if c.Name == CookieName {
					cookie = c
				}
			}

			require.NotNil(t, cookie)
			assert.Len(t, cookie.Value, keyLength)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
			assert.Equal(t, tc.expectedSecure, cookie.Secure)
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	app := newTestApp(&config.Config{Auth: config.Auth{SessionExpiry: time.Hour}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/check", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	req.AddCookie(cookies[0])

	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/check", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})

	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
