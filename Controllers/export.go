package Controllers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"Turno/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportRecords streams the full record history as an Excel workbook
func (ec *ExportController) ExportRecords(ctx *fiber.Ctx) error {
	var records []Models.ChecklistRecord
	if err := ec.DB.Order("id DESC").Find(&records).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch records",
			"error":   err.Error(),
		})
	}

	var sectors []Models.Sector
	ec.DB.Find(&sectors)
	sectorNames := make(map[uint]string, len(sectors))
	for _, s := range sectors {
		sectorNames[s.ID] = s.Name
	}

	buf, err := recordsToExcel(records, sectorNames)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build Excel file",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("checklists_export_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	return ctx.Send(buf.Bytes())
}

func recordsToExcel(records []Models.ChecklistRecord, sectorNames map[uint]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheetName := "Checklists"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Date", "Sector", "Shift Type", "Employee",
		"Completed Tasks", "Status", "Notes", "Problems", "Photo URL",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, rec := range records {
		row := rowIndex + 2

		sectorName, ok := sectorNames[rec.SectorID]
		if !ok {
			sectorName = "Unknown sector"
		}

		values := []interface{}{
			rec.ID,
			rec.Date,
			sectorName,
			rec.Type,
			rec.Employee,
			strings.Join(rec.CompletedIDs(), ", "),
			rec.Status,
			rec.Notes,
			rec.Problems,
			rec.PhotoURL,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := 0; i < len(headers); i++ {
		f.SetColWidth(sheetName, string('A'+rune(i)), string('A'+rune(i)), 18)
	}

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}
