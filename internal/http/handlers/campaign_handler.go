package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/http/dto"
	"github.com/head-marketing/backend/internal/middleware"
	"github.com/head-marketing/backend/internal/repositories"
	"github.com/head-marketing/backend/internal/services"
)

type CampaignHandler struct {
	campaigns *services.CampaignService
	dashboard *services.DashboardService
	log       *zap.Logger
}

func NewCampaignHandler(campaigns *services.CampaignService, dashboard *services.DashboardService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, dashboard: dashboard, log: log}
}

func campaignIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	f := repositories.CampaignFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		f.Status = &status
	}

	campaigns, err := h.campaigns.List(c.Context(), userID, f)
	if err != nil {
		h.log.Error("list campaigns failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := campaignIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	campaign, err := h.campaigns.GetByID(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(campaign)
}

// Transition changes campaign status along the allowed lifecycle.
func (h *CampaignHandler) Transition(c *fiber.Ctx) error {
	id, err := campaignIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	campaign, err := h.campaigns.Transition(c.Context(), id, middleware.GetUserID(c), req.Status)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(campaign)
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := campaignIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	if err := h.campaigns.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "campaign deleted"})
}

// GetDashboard returns the campaign's influencer and results view.
func (h *CampaignHandler) GetDashboard(c *fiber.Ctx) error {
	id, err := campaignIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	dash, err := h.dashboard.Get(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "campaign not found"})
	}
	return c.JSON(dash)
}
