package Controllers

import (
	"strconv"

	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskController struct {
	DB *gorm.DB
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

type CreateTaskRequest struct {
	SectorID    uint   `json:"sector_id" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=OPENING CLOSING"`
	Description string `json:"description" validate:"required"`
}

// GetTasks lists tasks, optionally filtered to one sector and shift type
func (tc *TaskController) GetTasks(ctx *fiber.Ctx) error {
	query := tc.DB.Order("id ASC")
	if sectorID := ctx.Query("sector_id"); sectorID != "" {
		query = query.Where("sector_id = ?", sectorID)
	}
	if shiftType := ctx.Query("type"); shiftType != "" {
		if !Models.ValidShiftType(shiftType) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Shift type must be OPENING or CLOSING",
				"code":    "validation_error",
			})
		}
		query = query.Where("type = ?", shiftType)
	}

	var tasks []Models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch tasks",
			"error":   err.Error(),
		})
	}
	return ctx.JSON(tasks)
}

func (tc *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Sector, shift type and description are required",
			"code":    "validation_error",
		})
	}

	var sector Models.Sector
	if err := tc.DB.First(&sector, req.SectorID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Sector not found",
		})
	}

	task := Models.Task{SectorID: req.SectorID, Type: req.Type, Description: req.Description}
	if err := tc.DB.Create(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create task",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(task)
}

// DeleteTask removes a task definition. Historical records keep the orphaned
// id in completed_task_ids; report views render those as unknown tasks.
func (tc *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid task ID",
			"code":    "validation_error",
		})
	}

	var task Models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	}

	tc.DB.Delete(&task)
	return ctx.JSON(fiber.Map{"message": "Task deleted successfully"})
}
