package Controllers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"Turno/Models"
	"Turno/Notify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordController struct {
	DB    *gorm.DB
	Slack *Notify.SlackClient
}

func NewRecordController(db *gorm.DB, slack *Notify.SlackClient) *RecordController {
	return &RecordController{DB: db, Slack: slack}
}

// CreateRecordRequest mirrors the persisted wire shape. Photo references must
// already be resolved; the composer (or the client) uploads before calling.
type CreateRecordRequest struct {
	SectorID         uint                `json:"sector_id" validate:"required"`
	Employee         string              `json:"employee" validate:"required"`
	Type             string              `json:"type" validate:"required,oneof=OPENING CLOSING"`
	PhotoURL         string              `json:"photo_url"`
	Photos           []string            `json:"photos"`
	Date             string              `json:"date"`
	Notes            string              `json:"notes"`
	Problems         string              `json:"problems"`
	CompletedTaskIDs []string            `json:"completed_task_ids"`
	TaskPhotos       map[string][]string `json:"task_photos"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DONE REVISION_REQUESTED REDONE"`
}

// RecordDetail decorates a record with catalog context for the report view
type RecordDetail struct {
	Models.ChecklistRecord
	SectorName      string `json:"sector_name"`
	SectorIcon      string `json:"sector_icon"`
	ApplicableTasks int    `json:"applicable_tasks"`
	Conformance     int    `json:"conformance"`
}

func (rc *RecordController) sectorName(id uint) (string, string) {
	var sector Models.Sector
	if err := rc.DB.First(&sector, id).Error; err != nil {
		return "Unknown sector", ""
	}
	return sector.Name, sector.Icon
}

// CreateRecord persists a finished submission as a single atomic row
func (rc *RecordController) CreateRecord(ctx *fiber.Ctx) error {
	var req CreateRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}

	req.Employee = strings.TrimSpace(req.Employee)
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Sector, employee name and shift type are required",
			"code":    "validation_error",
		})
	}

	var sector Models.Sector
	if err := rc.DB.First(&sector, req.SectorID).Error; err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Sector not found",
			"code":    "validation_error",
		})
	}

	if req.PhotoURL == "" && len(req.Photos) == 0 && len(req.TaskPhotos) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "At least one photo is required",
			"code":    "validation_error",
		})
	}

	// Completed ids must be a subset of the tasks valid for sector+type
	tasks, err := Models.TasksFor(rc.DB, req.SectorID, req.Type)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load tasks",
			"error":   err.Error(),
		})
	}
	valid := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		valid[strconv.FormatUint(uint64(t.ID), 10)] = true
	}
	for _, id := range req.CompletedTaskIDs {
		if !valid[id] {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Completed task " + id + " does not belong to this sector and shift type",
				"code":    "validation_error",
			})
		}
	}

	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if req.Photos == nil {
		req.Photos = []string{}
	}
	if req.CompletedTaskIDs == nil {
		req.CompletedTaskIDs = []string{}
	}
	if req.TaskPhotos == nil {
		req.TaskPhotos = map[string][]string{}
	}
	if req.PhotoURL == "" && len(req.Photos) > 0 {
		req.PhotoURL = req.Photos[0]
	}

	completedJSON, _ := json.Marshal(req.CompletedTaskIDs)
	photosJSON, _ := json.Marshal(req.Photos)
	taskPhotosJSON, _ := json.Marshal(req.TaskPhotos)

	record := Models.ChecklistRecord{
		SectorID:         req.SectorID,
		Employee:         req.Employee,
		Type:             req.Type,
		Date:             req.Date,
		PhotoURL:         req.PhotoURL,
		Photos:           datatypes.JSON(photosJSON),
		CompletedTaskIDs: datatypes.JSON(completedJSON),
		TaskPhotos:       datatypes.JSON(taskPhotosJSON),
		Notes:            req.Notes,
		Problems:         req.Problems,
		Status:           Models.StatusDone,
	}

	if err := rc.DB.Create(&record).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save checklist record",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	if rc.Slack != nil && record.Problems != "" {
		go rc.Slack.ProblemReported(&record, sector.Name)
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

// GetRecords lists all records newest-first
func (rc *RecordController) GetRecords(ctx *fiber.Ctx) error {
	var records []Models.ChecklistRecord
	if err := rc.DB.Order("id DESC").Find(&records).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch records",
			"error":   err.Error(),
		})
	}
	return ctx.JSON(records)
}

func (rc *RecordController) GetRecord(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var record Models.ChecklistRecord
	if err := rc.DB.First(&record, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Record not found",
			"code":    "record_not_found",
		})
	}

	name, icon := rc.sectorName(record.SectorID)
	tasks, _ := Models.TasksFor(rc.DB, record.SectorID, record.Type)

	return ctx.JSON(RecordDetail{
		ChecklistRecord: record,
		SectorName:      name,
		SectorIcon:      icon,
		ApplicableTasks: len(tasks),
		Conformance:     record.Conformance(len(tasks)),
	})
}

// UpdateStatus is the only mutation allowed after creation
func (rc *RecordController) UpdateStatus(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var req UpdateStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}
	if !Models.ValidStatus(req.Status) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status must be DONE, REVISION_REQUESTED or REDONE",
			"code":    "validation_error",
		})
	}

	var record Models.ChecklistRecord
	if err := rc.DB.First(&record, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Record not found",
			"code":    "record_not_found",
		})
	}

	record.Status = req.Status
	if err := rc.DB.Save(&record).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update record status",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	return ctx.JSON(record)
}
