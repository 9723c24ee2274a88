package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRequiresSession(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(jsonRequest("POST", "/api/sectors", fiber.Map{"name": "Bar"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Reads stay open for the composer
	resp, err = app.Test(jsonRequest("GET", "/api/sectors", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSectorCreateAndList(t *testing.T) {
	app, _ := testApp(t)
	cookie := login(t, app)

	resp := adminRequest(t, app, cookie, "POST", "/api/sectors", fiber.Map{"name": "Bar", "icon": "🍹"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = adminRequest(t, app, cookie, "POST", "/api/sectors", fiber.Map{"icon": "🍹"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "name is required")

	resp, err := app.Test(jsonRequest("GET", "/api/sectors", nil))
	require.NoError(t, err)

	var sectors []Models.Sector
	decodeBody(t, resp, &sectors)
	require.Len(t, sectors, 1)
	assert.Equal(t, "Bar", sectors[0].Name)
}

func TestSectorDeleteReferentialConflict(t *testing.T) {
	app, db := testApp(t)
	cookie := login(t, app)
	sector, _ := seedSectorWithTasks(t, db)

	resp := adminRequest(t, app, cookie, "DELETE", fmt.Sprintf("/api/sectors/%d", sector.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "sector with tasks must not be deletable")

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "referential_conflict", body["code"])

	// Still there
	var count int64
	db.Model(&Models.Sector{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSectorDeleteBlockedByRecords(t *testing.T) {
	app, db := testApp(t)
	cookie := login(t, app)

	sector := Models.Sector{Name: "Floor", Icon: "🍽️"}
	require.NoError(t, db.Create(&sector).Error)
	record := Models.ChecklistRecord{
		SectorID: sector.ID,
		Employee: "Ana",
		Type:     Models.ShiftOpening,
		Date:     time.Now().Format("2006-01-02"),
		PhotoURL: "https://photos.example/1.jpg",
		Status:   Models.StatusDone,
	}
	require.NoError(t, db.Create(&record).Error)

	resp := adminRequest(t, app, cookie, "DELETE", fmt.Sprintf("/api/sectors/%d", sector.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSectorDeleteUnreferenced(t *testing.T) {
	app, db := testApp(t)
	cookie := login(t, app)

	sector := Models.Sector{Name: "Patio", Icon: "🌿"}
	require.NoError(t, db.Create(&sector).Error)

	resp := adminRequest(t, app, cookie, "DELETE", fmt.Sprintf("/api/sectors/%d", sector.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskFilterBySectorAndType(t *testing.T) {
	app, db := testApp(t)
	sector, _ := seedSectorWithTasks(t, db)

	resp, err := app.Test(jsonRequest("GET",
		fmt.Sprintf("/api/tasks?sector_id=%d&type=OPENING", sector.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []Models.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, Models.ShiftOpening, task.Type)
		assert.Equal(t, sector.ID, task.SectorID)
	}

	resp, err = app.Test(jsonRequest("GET", "/api/tasks?type=LUNCH", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTaskCreateUnknownSector(t *testing.T) {
	app, _ := testApp(t)
	cookie := login(t, app)

	resp := adminRequest(t, app, cookie, "POST", "/api/tasks", fiber.Map{
		"sector_id":   9999,
		"type":        "OPENING",
		"description": "Count the till",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmployeeCRUD(t *testing.T) {
	app, db := testApp(t)
	cookie := login(t, app)

	sector := Models.Sector{Name: "Bar", Icon: "🍹"}
	require.NoError(t, db.Create(&sector).Error)

	resp := adminRequest(t, app, cookie, "POST", "/api/employees", fiber.Map{
		"name":      "Carlos Oliveira",
		"sector_id": sector.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Models.Employee
	decodeBody(t, resp, &created)

	resp, err := app.Test(jsonRequest("GET", "/api/employees", nil))
	require.NoError(t, err)
	var employees []Models.Employee
	decodeBody(t, resp, &employees)
	require.Len(t, employees, 1)

	resp = adminRequest(t, app, cookie, "DELETE", fmt.Sprintf("/api/employees/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
