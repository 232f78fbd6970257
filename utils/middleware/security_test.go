package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecuredApp(t *testing.T, limit int) *fiber.App {
	t.Helper()
	app := fiber.New()
	SetupSecurity(app, SecurityConfig{
		AllowedOrigins:    " http://localhost:3000 , ",
		RateLimitRequests: limit,
		RateLimitWindow:   time.Minute,
	})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/api/v1/bursaries", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })
	return app
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSetupSecurity_Headers(t *testing.T) {
	app := newSecuredApp(t, 0)

	resp := get(t, app, "/api/v1/bursaries", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get(fiber.HeaderXFrameOptions))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestSetupSecurity_RecoversFromPanics(t *testing.T) {
	app := newSecuredApp(t, 0)
	resp := get(t, app, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSetupSecurity_RateLimit(t *testing.T) {
	app := newSecuredApp(t, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(t, app, "/api/v1/bursaries", nil).StatusCode)
	}

	resp := get(t, app, "/api/v1/bursaries", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "RATE_LIMIT_EXCEEDED")

	// Health checks are never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(t, app, "/ping", nil).StatusCode)
	}
}
