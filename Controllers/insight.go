package Controllers

import (
	"Turno/Insight"
	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InsightController struct {
	DB *gorm.DB
}

func NewInsightController(db *gorm.DB) *InsightController {
	return &InsightController{DB: db}
}

// GenerateInsight asks the text-generation collaborator for a short manager
// analysis of one record. The call is best-effort and never mutates stored
// data; any failure comes back as the fallback string with a 200.
func (ic *InsightController) GenerateInsight(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var record Models.ChecklistRecord
	if err := ic.DB.First(&record, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Record not found",
			"code":    "record_not_found",
		})
	}

	sectorName := "Unknown sector"
	var sector Models.Sector
	if err := ic.DB.First(&sector, record.SectorID).Error; err == nil {
		sectorName = sector.Name
	}

	tasks, _ := Models.TasksFor(ic.DB, record.SectorID, record.Type)
	text := Insight.Generate(ctx.UserContext(), &record, sectorName, len(tasks))

	return ctx.JSON(fiber.Map{"insight": text})
}
