package Models

import (
	"gorm.io/gorm"
)

// Shift types for checklists
const (
	ShiftOpening = "OPENING"
	ShiftClosing = "CLOSING"
)

func ValidShiftType(t string) bool {
	return t == ShiftOpening || t == ShiftClosing
}

type Sector struct {
	gorm.Model
	Name string `json:"name" gorm:"not null;uniqueIndex"`
	Icon string `json:"icon"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:SectorID"`
}

// Task is a checklist item scoped to a (sector, shift type) pair
type Task struct {
	gorm.Model
	SectorID    uint   `json:"sector_id" gorm:"not null;index"`
	Type        string `json:"type" gorm:"type:varchar(20);not null;index"` // "OPENING" or "CLOSING"
	Description string `json:"description" gorm:"not null"`
}

type Employee struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	SectorID uint   `json:"sector_id" gorm:"index"`
}

// TasksFor returns the applicable tasks for a sector and shift type
func TasksFor(db *gorm.DB, sectorID uint, shiftType string) ([]Task, error) {
	var tasks []Task
	err := db.Where("sector_id = ? AND type = ?", sectorID, shiftType).Find(&tasks).Error
	return tasks, err
}
