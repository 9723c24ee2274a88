package Controllers

import (
	"time"

	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type SectorActivity struct {
	SectorID  uint   `json:"sector_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Completed int64  `json:"completed"`
}

// GetDashboard aggregates today's counts and per-sector activity for the
// manager overview
func (dc *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	today := time.Now().Format("2006-01-02")

	var todayCount, problemCount, sectorCount, totalCount int64
	dc.DB.Model(&Models.ChecklistRecord{}).Where("date = ?", today).Count(&todayCount)
	dc.DB.Model(&Models.ChecklistRecord{}).Where("date = ? AND problems <> ''", today).Count(&problemCount)
	dc.DB.Model(&Models.Sector{}).Count(&sectorCount)
	dc.DB.Model(&Models.ChecklistRecord{}).Count(&totalCount)

	var sectors []Models.Sector
	if err := dc.DB.Order("id ASC").Find(&sectors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch sectors",
			"error":   err.Error(),
		})
	}

	activity := make([]SectorActivity, 0, len(sectors))
	for _, s := range sectors {
		var completed int64
		dc.DB.Model(&Models.ChecklistRecord{}).
			Where("sector_id = ? AND date = ?", s.ID, today).
			Count(&completed)
		activity = append(activity, SectorActivity{
			SectorID:  s.ID,
			Name:      s.Name,
			Icon:      s.Icon,
			Completed: completed,
		})
	}

	var recent []Models.ChecklistRecord
	dc.DB.Order("id DESC").Limit(5).Find(&recent)

	return ctx.JSON(fiber.Map{
		"today":           todayCount,
		"problems":        problemCount,
		"sectors":         sectorCount,
		"total":           totalCount,
		"sector_activity": activity,
		"recent":          recent,
	})
}
