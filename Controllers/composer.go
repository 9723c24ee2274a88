package Controllers

import (
	"errors"
	"io"
	"strconv"

	"Turno/Composer"
	"Turno/Storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ComposerController struct {
	DB      *gorm.DB
	Drafts  *Composer.Manager
	Photos  Storage.PhotoStore
	Records *RecordController
}

func NewComposerController(db *gorm.DB, photos Storage.PhotoStore, records *RecordController) *ComposerController {
	return &ComposerController{
		DB:      db,
		Drafts:  Composer.NewManager(),
		Photos:  photos,
		Records: records,
	}
}

type UpdateDraftRequest struct {
	SectorID   *uint   `json:"sector_id"`
	Type       *string `json:"type"`
	Employee   *string `json:"employee"`
	ToggleTask *string `json:"toggle_task"`
	Notes      *string `json:"notes"`
	Problems   *string `json:"problems"`
}

type SubmitDraftRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (cc *ComposerController) draft(ctx *fiber.Ctx) (*Composer.Draft, error) {
	d, err := cc.Drafts.Get(ctx.Params("id"))
	if err != nil {
		return nil, ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Draft not found",
		})
	}
	return d, nil
}

func composerError(ctx *fiber.Ctx, err error) error {
	var vErr *Composer.ValidationError
	if errors.As(err, &vErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": vErr.Message,
			"code":    "validation_error",
		})
	}
	if errors.Is(err, Composer.ErrConfirmationRequired) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "No tasks marked complete. Confirm to submit anyway.",
			"code":    "confirmation_required",
		})
	}
	var uErr *Storage.UploadError
	if errors.As(err, &uErr) {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Photo upload failed, nothing was saved. Try submitting again.",
			"error":   uErr.Error(),
			"code":    "upload_failure",
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Failed to save checklist record",
		"error":   err.Error(),
		"code":    "store_write_failure",
	})
}

// StartDraft opens a new composer flow
func (cc *ComposerController) StartDraft(ctx *fiber.Ctx) error {
	d := cc.Drafts.Start()
	return ctx.Status(fiber.StatusCreated).JSON(d.View())
}

func (cc *ComposerController) GetDraft(ctx *fiber.Ctx) error {
	d, err := cc.draft(ctx)
	if d == nil {
		return err
	}
	return ctx.JSON(d.View())
}

// UpdateDraft applies whichever composer inputs the request carries
func (cc *ComposerController) UpdateDraft(ctx *fiber.Ctx) error {
	d, err := cc.draft(ctx)
	if d == nil {
		return err
	}

	var req UpdateDraftRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
			"code":    "validation_error",
		})
	}

	if req.SectorID != nil {
		d.SetSector(*req.SectorID)
	}
	if req.Type != nil {
		if err := d.SetShiftType(*req.Type); err != nil {
			return composerError(ctx, err)
		}
	}
	if req.Employee != nil {
		if err := d.Identify(*req.Employee, cc.DB); err != nil {
			return composerError(ctx, err)
		}
	}
	if req.ToggleTask != nil {
		if err := d.ToggleTask(*req.ToggleTask); err != nil {
			return composerError(ctx, err)
		}
	}
	if req.Notes != nil || req.Problems != nil {
		notes, problems := d.Notes, d.Problems
		if req.Notes != nil {
			notes = *req.Notes
		}
		if req.Problems != nil {
			problems = *req.Problems
		}
		d.SetNotes(notes, problems)
	}

	return ctx.JSON(d.View())
}

// AttachPhoto stores a captured image on the draft until submit. Passing
// task_id ties the photo to that task and auto-marks it complete.
func (cc *ComposerController) AttachPhoto(ctx *fiber.Ctx) error {
	d, err := cc.draft(ctx)
	if d == nil {
		return err
	}

	file, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No photo provided",
			"code":    "validation_error",
		})
	}

	src, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to open uploaded photo",
			"error":   err.Error(),
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read uploaded photo",
			"error":   err.Error(),
		})
	}

	taskID := ctx.FormValue("task_id")
	if err := d.AttachPhoto(taskID, data, file.Header.Get("Content-Type")); err != nil {
		return composerError(ctx, err)
	}

	return ctx.JSON(d.View())
}

func (cc *ComposerController) RemovePhoto(ctx *fiber.Ctx) error {
	d, err := cc.draft(ctx)
	if d == nil {
		return err
	}

	index, err := strconv.Atoi(ctx.Params("index"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid photo index",
			"code":    "validation_error",
		})
	}
	if err := d.RemovePhoto(index); err != nil {
		return composerError(ctx, err)
	}

	return ctx.JSON(d.View())
}

// SubmitDraft uploads all pending photos and writes the record. On failure
// the draft survives with its form state intact for a manual retry.
func (cc *ComposerController) SubmitDraft(ctx *fiber.Ctx) error {
	d, err := cc.draft(ctx)
	if d == nil {
		return err
	}

	var req SubmitDraftRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
				"code":    "validation_error",
			})
		}
	}

	record, err := d.Submit(ctx.UserContext(), cc.Photos, cc.DB, req.Confirmed)
	if err != nil {
		return composerError(ctx, err)
	}

	if cc.Records != nil && cc.Records.Slack != nil && record.Problems != "" {
		name, _ := cc.Records.sectorName(record.SectorID)
		go cc.Records.Slack.ProblemReported(record, name)
	}

	cc.Drafts.Discard(d.ID)
	return ctx.Status(fiber.StatusCreated).JSON(record)
}
