package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/draft"
	"github.com/head-marketing/backend/internal/http/dto"
	"github.com/head-marketing/backend/internal/middleware"
	"github.com/head-marketing/backend/internal/services"
)

// WizardHandler exposes the campaign-creation wizard. Every mutation
// responds with the full draft state so the client re-renders from one
// source of truth.
type WizardHandler struct {
	wizard *services.WizardService
	log    *zap.Logger
}

func NewWizardHandler(wizard *services.WizardService, log *zap.Logger) *WizardHandler {
	return &WizardHandler{wizard: wizard, log: log}
}

func (h *WizardHandler) session(c *fiber.Ctx) (*services.WizardSession, error) {
	return h.wizard.Open(c.Context(), middleware.GetUserID(c))
}

func stateResponse(c *fiber.Ctx, sess *services.WizardSession) error {
	return c.JSON(dto.WizardStateResponse{
		State:      sess.Draft.Snapshot(),
		Completion: sess.Draft.Completion(),
	})
}

// GetState opens (or restores) the user's wizard session.
func (h *WizardHandler) GetState(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		h.log.Error("wizard open failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return stateResponse(c, sess)
}

// Patch applies scalar field updates.
func (h *WizardHandler) Patch(c *fiber.Ctx) error {
	var req dto.WizardPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	d := sess.Draft

	if req.BusinessLogo != nil {
		d.SetBusinessLogo(*req.BusinessLogo)
	}
	if req.BusinessName != nil {
		d.SetBusinessName(*req.BusinessName)
	}
	if req.ProductType != nil {
		d.SetProductType(*req.ProductType)
	}
	if req.DeliveryType != nil {
		d.SetDeliveryType(*req.DeliveryType)
	}
	if req.ProductName != nil {
		d.SetProductName(*req.ProductName)
	}
	if req.VideoAssetLink != nil {
		d.SetVideoAssetLink(*req.VideoAssetLink)
	}
	if req.BusinessIntroduction != nil {
		if err := d.SetBusinessIntroduction(*req.BusinessIntroduction); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
	}
	if req.AudienceInterests != nil {
		if err := d.SetAudienceInterests(*req.AudienceInterests); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
	}
	if req.Budget != nil {
		d.SetBudget(*req.Budget)
	}
	if req.LandingPageURL != nil {
		d.SetLandingPageURL(*req.LandingPageURL)
	}
	if req.PostTimeMode != nil {
		d.SetPostTimeMode(*req.PostTimeMode)
	}
	if req.WindowStartDate != nil || req.WindowDueDate != nil {
		if err := d.SetWindow(req.WindowStartDate, req.WindowDueDate); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
	}
	if req.ProductExplainerVideo != nil {
		d.SetProductExplainerVideo(*req.ProductExplainerVideo)
	}

	return stateResponse(c, sess)
}

// Analyze starts URL analysis, superseding any in-flight request.
func (h *WizardHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url is required"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	sess.Analysis.Start(req.URL)
	return stateResponse(c, sess)
}

// CancelAnalysis aborts the running analysis and clears its results.
func (h *WizardHandler) CancelAnalysis(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	sess.Analysis.Cancel()
	return stateResponse(c, sess)
}

func (h *WizardHandler) SelectStrategies(c *fiber.Ctx) error {
	var req dto.SelectStrategiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	sess.Draft.SetSelectedStrategies(req.Strategies)
	return stateResponse(c, sess)
}

// Advance moves to another step. Forward moves require every earlier step
// to be complete.
func (h *WizardHandler) Advance(c *fiber.Ctx) error {
	var req dto.AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	if err := sess.Draft.Advance(draft.Step(req.Step)); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, draft.ErrStepIncomplete) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return stateResponse(c, sess)
}

func indexParam(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("index"))
}

func (h *WizardHandler) AddSellingPoint(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.AddSellingPoint()
	return stateResponse(c, sess)
}

func (h *WizardHandler) UpdateSellingPoint(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	var req dto.ListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	if err := sess.Draft.UpdateSellingPoint(idx, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return stateResponse(c, sess)
}

func (h *WizardHandler) RemoveSellingPoint(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.RemoveSellingPoint(idx)
	return stateResponse(c, sess)
}

func (h *WizardHandler) AddAudience(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.AddAudience()
	return stateResponse(c, sess)
}

func (h *WizardHandler) UpdateAudience(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	var req dto.AudienceItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	if req.Title != nil {
		sess.Draft.UpdateAudienceTitle(idx, *req.Title)
	}
	if req.Description != nil {
		sess.Draft.UpdateAudienceDescription(idx, *req.Description)
	}
	return stateResponse(c, sess)
}

func (h *WizardHandler) RemoveAudience(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.RemoveAudience(idx)
	return stateResponse(c, sess)
}

func (h *WizardHandler) AddGuideline(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.AddGuideline()
	return stateResponse(c, sess)
}

func (h *WizardHandler) UpdateGuideline(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	var req dto.ListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.UpdateGuideline(idx, req.Value)
	return stateResponse(c, sess)
}

func (h *WizardHandler) RemoveGuideline(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.RemoveGuideline(idx)
	return stateResponse(c, sess)
}

// Toggle flips membership in one of the named option sets.
func (h *WizardHandler) Toggle(c *fiber.Ctx) error {
	var req dto.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	switch req.Set {
	case "genders":
		sess.Draft.ToggleGender(req.Value)
	case "ages":
		sess.Draft.ToggleAge(req.Value)
	case "placements":
		sess.Draft.TogglePlacement(req.Value)
	case "languages":
		sess.Draft.ToggleLanguage(req.Value)
	case "locations":
		sess.Draft.ToggleLocation(req.Value)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown option set"})
	}
	return stateResponse(c, sess)
}

func (h *WizardHandler) AddPhoto(c *fiber.Ctx) error {
	var req dto.PhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url is required"})
	}

	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.AddProductPhoto(req.URL, req.Name)
	return stateResponse(c, sess)
}

func (h *WizardHandler) RemovePhoto(c *fiber.Ctx) error {
	idx, err := indexParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid index"})
	}
	sess, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	sess.Draft.RemoveProductPhoto(idx)
	return stateResponse(c, sess)
}

// Submit turns the draft into a campaign record. Repeat submits update the
// same record.
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	campaign, err := h.wizard.Submit(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrWizardIncomplete) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, services.ErrNoSession) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("wizard submit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.SubmitResponse{Campaign: campaign})
}

// Discard throws the draft away entirely.
func (h *WizardHandler) Discard(c *fiber.Ctx) error {
	if err := h.wizard.Discard(c.Context(), middleware.GetUserID(c)); err != nil {
		h.log.Error("wizard discard failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.MessageResponse{Message: "wizard discarded"})
}
