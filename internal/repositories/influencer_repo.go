package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/head-marketing/backend/internal/models"
)

type InfluencerRepo struct {
	pool *pgxpool.Pool
}

func NewInfluencerRepo(pool *pgxpool.Pool) *InfluencerRepo {
	return &InfluencerRepo{pool: pool}
}

func (r *InfluencerRepo) List(ctx context.Context, limit int) ([]models.Influencer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, platform, followers_count, engagement_rate,
		       average_likes, average_comments, content_category, created_at, updated_at
		FROM influencers
		ORDER BY followers_count DESC NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var influencers []models.Influencer
	for rows.Next() {
		var i models.Influencer
		if err := rows.Scan(&i.ID, &i.Name, &i.Platform, &i.FollowersCount,
			&i.EngagementRate, &i.AverageLikes, &i.AverageComments,
			&i.ContentCategory, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		influencers = append(influencers, i)
	}
	return influencers, rows.Err()
}

func (r *InfluencerRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Collaboration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, influencer_id, status, content_url, content_status,
		       metrics, created_at, updated_at
		FROM collaborations
		WHERE campaign_id = $1
		ORDER BY created_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collabs []models.Collaboration
	for rows.Next() {
		var c models.Collaboration
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.InfluencerID, &c.Status,
			&c.ContentURL, &c.ContentStatus, &c.Metrics, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collabs = append(collabs, c)
	}
	return collabs, rows.Err()
}

// CreateCollaboration attaches an influencer to a campaign with TBD status.
func (r *InfluencerRepo) CreateCollaboration(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.Collaboration, error) {
	var c models.Collaboration
	err := r.pool.QueryRow(ctx, `
		INSERT INTO collaborations (campaign_id, influencer_id, status, content_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (campaign_id, influencer_id) DO UPDATE SET updated_at = now()
		RETURNING id, campaign_id, influencer_id, status, content_url, content_status,
		          metrics, created_at, updated_at
	`, campaignID, influencerID, models.CollaborationStatusTBD, models.ContentStatusPending,
	).Scan(&c.ID, &c.CampaignID, &c.InfluencerID, &c.Status,
		&c.ContentURL, &c.ContentStatus, &c.Metrics, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
