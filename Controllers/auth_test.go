package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWrongPasscode(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest("POST", "/api/login", fiber.Map{"passcode": "wrong"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestSessionLifecycle(t *testing.T) {
	app, _ := testApp(t)
	cookie := login(t, app)

	resp := adminRequest(t, app, cookie, "GET", "/api/validate-session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Garbage cookie is rejected
	req := jsonRequest("GET", "/api/validate-session", nil)
	req.AddCookie(&http.Cookie{Name: "turno_session", Value: "not-a-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardRequiresSession(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest("GET", "/api/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
