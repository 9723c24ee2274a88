package Composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"Turno/Models"
	"Turno/Storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Composer steps. A draft only moves forward once its guard is satisfied.
const (
	StepSelectSector    = "SELECT_SECTOR"
	StepSelectShiftType = "SELECT_SHIFT_TYPE"
	StepIdentify        = "IDENTIFY_OPERATOR"
	StepTasks           = "TASK_COMPLETION_AND_EVIDENCE"
	StepReview          = "REVIEW_NOTES"
	StepSubmitted       = "SUBMITTED"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	// ErrConfirmationRequired is the soft warning for submitting with zero
	// completed tasks while tasks exist
	ErrConfirmationRequired = errors.New("no tasks completed, confirmation required")
)

// ValidationError blocks a local transition before any I/O is attempted
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type pendingPhoto struct {
	TaskID      string
	Data        []byte
	ContentType string
}

// Draft accumulates one checklist submission. It holds a point-in-time
// snapshot of the applicable task list taken when the operator is identified;
// concurrent catalog edits do not invalidate it.
type Draft struct {
	ID       string
	Step     string
	SectorID uint
	Type     string
	Employee string

	tasks     []Models.Task
	completed map[string]bool
	photos    []pendingPhoto

	Notes    string
	Problems string

	mu sync.Mutex
}

func (d *Draft) lockedSnapshot() DraftView {
	completed := make([]string, 0, len(d.completed))
	for id := range d.completed {
		completed = append(completed, id)
	}
	photoCount := len(d.photos)
	return DraftView{
		ID:             d.ID,
		Step:           d.Step,
		SectorID:       d.SectorID,
		Type:           d.Type,
		Employee:       d.Employee,
		CompletedTasks: completed,
		PhotoCount:     photoCount,
		Notes:          d.Notes,
		Problems:       d.Problems,
	}
}

// DraftView is the JSON shape handed back to the client
type DraftView struct {
	ID             string   `json:"id"`
	Step           string   `json:"step"`
	SectorID       uint     `json:"sector_id"`
	Type           string   `json:"type"`
	Employee       string   `json:"employee"`
	CompletedTasks []string `json:"completed_tasks"`
	PhotoCount     int      `json:"photo_count"`
	Notes          string   `json:"notes"`
	Problems       string   `json:"problems"`
}

func (d *Draft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lockedSnapshot()
}

func (d *Draft) SetSector(id uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.SectorID = id
	if d.Step == StepSelectSector {
		d.Step = StepSelectShiftType
	}
}

func (d *Draft) SetShiftType(t string) error {
	if !Models.ValidShiftType(t) {
		return &ValidationError{Message: "Shift type must be OPENING or CLOSING"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Type = t
	if d.Step == StepSelectShiftType {
		d.Step = StepIdentify
	}
	return nil
}

// Identify names the operator and loads the task snapshot. Guard: sector,
// shift type and a non-empty trimmed name must all be present.
func (d *Draft) Identify(name string, db *gorm.DB) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Message: "Employee name is required"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SectorID == 0 {
		return &ValidationError{Message: "Sector must be selected first"}
	}
	if d.Type == "" {
		return &ValidationError{Message: "Shift type must be selected first"}
	}
	tasks, err := Models.TasksFor(db, d.SectorID, d.Type)
	if err != nil {
		return err
	}
	d.Employee = name
	d.tasks = tasks
	d.Step = StepTasks
	return nil
}

func (d *Draft) taskInSnapshot(id string) bool {
	for _, t := range d.tasks {
		if strconv.FormatUint(uint64(t.ID), 10) == id {
			return true
		}
	}
	return false
}

// ToggleTask flips a task between completed and not completed
func (d *Draft) ToggleTask(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.taskInSnapshot(id) {
		return &ValidationError{Message: "Task does not belong to this sector and shift type"}
	}
	if d.completed[id] {
		delete(d.completed, id)
	} else {
		d.completed[id] = true
	}
	return nil
}

// AttachPhoto keeps the raw capture until submit. Attaching a photo to a task
// auto-marks the task complete; removing the photo later does not unmark it.
func (d *Draft) AttachPhoto(taskID string, data []byte, contentType string) error {
	if len(data) == 0 {
		return &ValidationError{Message: "Photo data is empty"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if taskID != "" {
		if !d.taskInSnapshot(taskID) {
			return &ValidationError{Message: "Task does not belong to this sector and shift type"}
		}
		d.completed[taskID] = true
	}
	d.photos = append(d.photos, pendingPhoto{TaskID: taskID, Data: data, ContentType: contentType})
	return nil
}

func (d *Draft) RemovePhoto(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.photos) {
		return &ValidationError{Message: "No photo at that position"}
	}
	d.photos = append(d.photos[:index], d.photos[index+1:]...)
	return nil
}

func (d *Draft) SetNotes(notes, problems string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Notes = notes
	d.Problems = problems
	if d.Step == StepTasks {
		d.Step = StepReview
	}
}

// Submit uploads every pending photo, then writes the full record. On any
// failure the draft is left untouched so the operator can retry without
// re-entering earlier steps.
func (d *Draft) Submit(ctx context.Context, store Storage.PhotoStore, db *gorm.DB, confirmed bool) (*Models.ChecklistRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Step == StepSubmitted {
		return nil, &ValidationError{Message: "Checklist already submitted"}
	}
	if d.Employee == "" || d.SectorID == 0 || d.Type == "" {
		return nil, &ValidationError{Message: "Sector, shift type and employee name are required"}
	}
	if len(d.photos) == 0 {
		return nil, &ValidationError{Message: "At least one photo is required"}
	}
	if len(d.completed) == 0 && len(d.tasks) > 0 && !confirmed {
		return nil, ErrConfirmationRequired
	}

	// Resolve every photo reference before anything touches the record store
	taskPhotos := map[string][]string{}
	var general []string
	for _, p := range d.photos {
		url, err := store.Save(ctx, p.Data, p.ContentType)
		if err != nil {
			return nil, err
		}
		if p.TaskID == "" {
			general = append(general, url)
		} else {
			taskPhotos[p.TaskID] = append(taskPhotos[p.TaskID], url)
		}
	}

	completed := make([]string, 0, len(d.completed))
	for id := range d.completed {
		completed = append(completed, id)
	}

	completedJSON, _ := json.Marshal(completed)
	photosJSON, _ := json.Marshal(general)
	taskPhotosJSON, _ := json.Marshal(taskPhotos)

	photoURL := ""
	if len(general) > 0 {
		photoURL = general[0]
	} else {
		for _, urls := range taskPhotos {
			if len(urls) > 0 {
				photoURL = urls[0]
				break
			}
		}
	}

	record := Models.ChecklistRecord{
		SectorID:         d.SectorID,
		Employee:         d.Employee,
		Type:             d.Type,
		Date:             time.Now().Format("2006-01-02"),
		PhotoURL:         photoURL,
		Photos:           datatypes.JSON(photosJSON),
		CompletedTaskIDs: datatypes.JSON(completedJSON),
		TaskPhotos:       datatypes.JSON(taskPhotosJSON),
		Notes:            d.Notes,
		Problems:         d.Problems,
		Status:           Models.StatusDone,
	}

	if err := db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to save checklist record: %w", err)
	}

	d.Step = StepSubmitted
	return &record, nil
}

// Manager tracks in-flight drafts by id
type Manager struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewManager() *Manager {
	return &Manager{drafts: make(map[string]*Draft)}
}

func (m *Manager) Start() *Draft {
	d := &Draft{
		ID:        uuid.NewString(),
		Step:      StepSelectSector,
		completed: make(map[string]bool),
	}
	m.mu.Lock()
	m.drafts[d.ID] = d
	m.mu.Unlock()
	return d
}

func (m *Manager) Get(id string) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (m *Manager) Discard(id string) {
	m.mu.Lock()
	delete(m.drafts, id)
	m.mu.Unlock()
}
