package Controllers

import (
	"strconv"

	"Turno/Models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type SectorController struct {
	DB *gorm.DB
}

func NewSectorController(db *gorm.DB) *SectorController {
	return &SectorController{DB: db}
}

type CreateSectorRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

func (sc *SectorController) GetSectors(ctx *fiber.Ctx) error {
	var sectors []Models.Sector
	if err := sc.DB.Order("id ASC").Find(&sectors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch sectors",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}
	return ctx.JSON(sectors)
}

func (sc *SectorController) CreateSector(ctx *fiber.Ctx) error {
	var req CreateSectorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Sector name is required",
			"code":    "validation_error",
		})
	}

	sector := Models.Sector{Name: req.Name, Icon: req.Icon}
	if err := sc.DB.Create(&sector).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create sector",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(sector)
}

// DeleteSector refuses to remove a sector that tasks or historical records
// still reference, so reports never point at a dangling id
func (sc *SectorController) DeleteSector(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid sector ID",
			"code":    "validation_error",
		})
	}

	var sector Models.Sector
	if err := sc.DB.First(&sector, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Sector not found",
		})
	}

	var taskCount, recordCount int64
	sc.DB.Model(&Models.Task{}).Where("sector_id = ?", id).Count(&taskCount)
	sc.DB.Model(&Models.ChecklistRecord{}).Where("sector_id = ?", id).Count(&recordCount)
	if taskCount > 0 || recordCount > 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Sector is still referenced by tasks or checklist records",
			"code":    "referential_conflict",
			"tasks":   taskCount,
			"records": recordCount,
		})
	}

	if err := sc.DB.Delete(&sector).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete sector",
			"error":   err.Error(),
			"code":    "store_write_failure",
		})
	}

	return ctx.JSON(fiber.Map{"message": "Sector deleted successfully"})
}
