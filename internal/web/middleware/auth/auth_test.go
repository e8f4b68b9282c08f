package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquamon/aquamon/internal/auth"
	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/web/handler"
	"github.com/aquamon/aquamon/internal/web/session"
)

const testToken = "s3cret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	verifier, err := auth.NewTokenVerifier(testToken)
	require.NoError(t, err)

	store := session.New(&config.Config{DevMode: true, Auth: config.Auth{SessionExpiry: time.Hour}}, nil)

	app := fiber.New()
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	api := app.Group(handler.APIPath, New(Config{Verifier: verifier, Store: store}))
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t)

	testCases := []struct {
		name           string
		target         string
		authorization  string
		expectedStatus int
	}{
		{name: "valid bearer token", target: "/api/ping", authorization: "Bearer " + testToken, expectedStatus: fiber.StatusOK},
		{name: "no header", target: "/api/ping", expectedStatus: fiber.StatusUnauthorized},
		{name: "wrong token", target: "/api/ping", authorization: "Bearer nope", expectedStatus: fiber.StatusUnauthorized},
		{name: "token without bearer scheme", target: "/api/ping", authorization: testToken, expectedStatus: fiber.StatusUnauthorized},
		{name: "checkalive is not gated", target: "/checkalive", expectedStatus: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.authorization != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.authorization)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			if tc.expectedStatus == fiber.StatusUnauthorized {
				var body handler.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, MsgUnauthorized, body.Error)
			}
		})
	}
}

func TestSessionAfterBearer(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookie *http.Cookie

	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}

	require.NotNil(t, cookie, "session cookie expected after bearer login")

	// no header, the session carries the request
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.AddCookie(cookie)

	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
