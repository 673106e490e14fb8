package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/models"
	"github.com/head-marketing/backend/internal/repositories"
)

// Dashboard is the per-campaign view: matched influencers, delivered
// content and aggregate results. Until real collaborations accumulate the
// influencer list falls back to platform recommendations.
type Dashboard struct {
	Campaign       *models.Campaign       `json:"campaign"`
	Collaborations []models.Collaboration `json:"collaborations"`
	Recommended    []models.Influencer    `json:"recommended"`
	Results        models.ContentMetrics  `json:"results"`
}

type DashboardService struct {
	campaignRepo   *repositories.CampaignRepo
	influencerRepo *repositories.InfluencerRepo
	log            *zap.Logger
}

func NewDashboardService(
	campaignRepo *repositories.CampaignRepo,
	influencerRepo *repositories.InfluencerRepo,
	log *zap.Logger,
) *DashboardService {
	return &DashboardService{
		campaignRepo:   campaignRepo,
		influencerRepo: influencerRepo,
		log:            log,
	}
}

func (s *DashboardService) Get(ctx context.Context, campaignID, userID uuid.UUID) (*Dashboard, error) {
	campaign, err := s.campaignRepo.GetByIDForUser(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	collabs, err := s.influencerRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	recommended, err := s.influencerRepo.List(ctx, 10)
	if err != nil {
		return nil, err
	}

	var results models.ContentMetrics
	for _, c := range collabs {
		if c.Metrics == nil {
			continue
		}
		results.Views += c.Metrics.Views
		results.Likes += c.Metrics.Likes
		results.Comments += c.Metrics.Comments
		results.Shares += c.Metrics.Shares
		results.Sales += c.Metrics.Sales
		results.Revenue += c.Metrics.Revenue
	}

	return &Dashboard{
		Campaign:       campaign,
		Collaborations: collabs,
		Recommended:    recommended,
		Results:        results,
	}, nil
}
