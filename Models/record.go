package Models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record statuses. A record is immutable after creation except for Status,
// which a reviewer transitions.
const (
	StatusDone              = "DONE"
	StatusRevisionRequested = "REVISION_REQUESTED"
	StatusRedone            = "REDONE"
)

func ValidStatus(s string) bool {
	return s == StatusDone || s == StatusRevisionRequested || s == StatusRedone
}

// ChecklistRecord is one completed submission tied to a sector, shift type
// and employee
type ChecklistRecord struct {
	gorm.Model
	SectorID uint   `json:"sector_id" gorm:"not null;index"`
	Employee string `json:"employee" gorm:"not null"`
	Type     string `json:"type" gorm:"type:varchar(20);not null"` // "OPENING" or "CLOSING"
	Date     string `json:"date" gorm:"type:varchar(10);index"`    // YYYY-MM-DD

	// Primary evidence photo plus any extra general photos
	PhotoURL string         `json:"photo_url"`
	Photos   datatypes.JSON `json:"photos"` // []string of photo URLs

	// Task ids completed this shift, and per-task evidence photos
	CompletedTaskIDs datatypes.JSON `json:"completed_task_ids"` // []string
	TaskPhotos       datatypes.JSON `json:"task_photos"`        // map[taskID][]url

	Notes    string `json:"notes"`
	Problems string `json:"problems"`
	Status   string `json:"status" gorm:"type:varchar(30);not null;default:DONE"`
}

func (r *ChecklistRecord) CompletedIDs() []string {
	var ids []string
	if len(r.CompletedTaskIDs) > 0 {
		if err := json.Unmarshal(r.CompletedTaskIDs, &ids); err != nil {
			return nil
		}
	}
	return ids
}

func (r *ChecklistRecord) GeneralPhotos() []string {
	var urls []string
	if len(r.Photos) > 0 {
		if err := json.Unmarshal(r.Photos, &urls); err != nil {
			return nil
		}
	}
	return urls
}

func (r *ChecklistRecord) PhotosByTask() map[string][]string {
	out := map[string][]string{}
	if len(r.TaskPhotos) > 0 {
		if err := json.Unmarshal(r.TaskPhotos, &out); err != nil {
			return map[string][]string{}
		}
	}
	return out
}

// Conformance returns the completed/applicable percentage, 0 when no tasks apply
func (r *ChecklistRecord) Conformance(applicableTasks int) int {
	if applicableTasks == 0 {
		return 0
	}
	return int(float64(len(r.CompletedIDs()))/float64(applicableTasks)*100 + 0.5)
}
