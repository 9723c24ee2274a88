package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Turno/Controllers"
	"Turno/FiberConfig"
	"Turno/Models"
	"Turno/Storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPasscode = "20262"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Models.Sector{},
		&Models.Employee{},
		&Models.Task{},
		&Models.ChecklistRecord{},
	))
	return db
}

func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("ADMIN_PASSCODE", testPasscode)
	Controllers.InitPasscode()

	db := testDB(t)
	app := fiber.New(fiber.Config{BodyLimit: 25 * 1024 * 1024})
	FiberConfig.SetupRoutes(app, db, &Storage.InlineStore{})
	return app, db
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// login returns the admin session cookie
func login(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonRequest("POST", "/api/login", fiber.Map{"passcode": testPasscode}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "turno_session" {
			return c
		}
	}
	t.Fatal("no session cookie returned")
	return nil
}

func adminRequest(t *testing.T, app *fiber.App, cookie *http.Cookie, method, target string, body interface{}) *http.Response {
	t.Helper()
	req := jsonRequest(method, target, body)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func seedSectorWithTasks(t *testing.T, db *gorm.DB) (Models.Sector, []Models.Task) {
	t.Helper()
	sector := Models.Sector{Name: "Kitchen", Icon: "🍳"}
	require.NoError(t, db.Create(&sector).Error)
	tasks := []Models.Task{
		{SectorID: sector.ID, Type: Models.ShiftOpening, Description: "Check fridge temps"},
		{SectorID: sector.ID, Type: Models.ShiftOpening, Description: "Clean prep counters"},
		{SectorID: sector.ID, Type: Models.ShiftClosing, Description: "Sanitize stove"},
	}
	require.NoError(t, db.Create(&tasks).Error)
	return sector, tasks
}
