package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/events"
	"github.com/head-marketing/backend/internal/models"
	"github.com/head-marketing/backend/internal/repositories"
)

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *CampaignService) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found")
	}
	return c, nil
}

func (s *CampaignService) List(ctx context.Context, userID uuid.UUID, f repositories.CampaignFilter) ([]models.Campaign, error) {
	f.UserID = &userID
	return s.campaignRepo.List(ctx, f)
}

// Transition moves a campaign along draft -> active -> completed -> archived.
func (s *CampaignService) Transition(ctx context.Context, id, userID uuid.UUID, to string) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found")
	}

	if !models.IsValidCampaignTransition(c.Status, to) {
		return nil, fmt.Errorf("cannot move campaign from %s to %s", c.Status, to)
	}

	if err := s.campaignRepo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	c.Status = to

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorType:  models.ActorUser,
		ActorID:    &userID,
		Action:     "campaign_status_changed",
		EntityType: "campaign",
		EntityID:   id.String(),
		Details:    map[string]any{"status": to},
	})

	eventType := events.EventCampaignUpdated
	if to == models.CampaignStatusCompleted {
		eventType = events.EventCampaignCompleted
	}
	_ = s.publisher.Publish(ctx, events.StreamCampaign, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"campaign_id": id.String(),
			"status":      to,
		},
	})

	return c, nil
}

func (s *CampaignService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.campaignRepo.GetByIDForUser(ctx, id, userID); err != nil {
		return fmt.Errorf("campaign not found")
	}
	return s.campaignRepo.Delete(ctx, id)
}
