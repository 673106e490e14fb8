package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/head-marketing/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `
	id, user_id, name, status,
	product_url, analysis, selected_strategies,
	business_logo, business_name, product_type,
	delivery_type, product_name, product_photos, video_asset_link,
	business_introduction, core_selling_points, core_audiences,
	audience_genders, audience_ages, audience_interests,
	budget, window_start_date, window_due_date, landing_page_url,
	selected_placements, selected_languages, selected_locations,
	product_explainer_video, custom_brand_guidelines,
	created_at, updated_at
`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Status,
		&c.ProductURL, &c.Analysis, &c.SelectedStrategies,
		&c.BusinessLogo, &c.BusinessName, &c.ProductType,
		&c.DeliveryType, &c.ProductName, &c.ProductPhotos, &c.VideoAssetLink,
		&c.BusinessIntroduction, &c.CoreSellingPoints, &c.CoreAudiences,
		&c.AudienceGenders, &c.AudienceAges, &c.AudienceInterests,
		&c.Budget, &c.WindowStartDate, &c.WindowDueDate, &c.LandingPageURL,
		&c.SelectedPlacements, &c.SelectedLanguages, &c.SelectedLocations,
		&c.ProductExplainerVideo, &c.CustomBrandGuidelines,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (
			user_id, name, status,
			product_url, analysis, selected_strategies,
			business_logo, business_name, product_type,
			delivery_type, product_name, product_photos, video_asset_link,
			business_introduction, core_selling_points, core_audiences,
			audience_genders, audience_ages, audience_interests,
			budget, window_start_date, window_due_date, landing_page_url,
			selected_placements, selected_languages, selected_locations,
			product_explainer_video, custom_brand_guidelines
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
		RETURNING id, created_at, updated_at
	`,
		c.UserID, c.Name, c.Status,
		c.ProductURL, c.Analysis, c.SelectedStrategies,
		c.BusinessLogo, c.BusinessName, c.ProductType,
		c.DeliveryType, c.ProductName, c.ProductPhotos, c.VideoAssetLink,
		c.BusinessIntroduction, c.CoreSellingPoints, c.CoreAudiences,
		c.AudienceGenders, c.AudienceAges, c.AudienceInterests,
		c.Budget, c.WindowStartDate, c.WindowDueDate, c.LandingPageURL,
		c.SelectedPlacements, c.SelectedLanguages, c.SelectedLocations,
		c.ProductExplainerVideo, c.CustomBrandGuidelines,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

// GetByIDForUser scopes the lookup to the owning user.
func (r *CampaignRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET
			name = $1, status = $2,
			product_url = $3, analysis = $4, selected_strategies = $5,
			business_logo = $6, business_name = $7, product_type = $8,
			delivery_type = $9, product_name = $10, product_photos = $11, video_asset_link = $12,
			business_introduction = $13, core_selling_points = $14, core_audiences = $15,
			audience_genders = $16, audience_ages = $17, audience_interests = $18,
			budget = $19, window_start_date = $20, window_due_date = $21, landing_page_url = $22,
			selected_placements = $23, selected_languages = $24, selected_locations = $25,
			product_explainer_video = $26, custom_brand_guidelines = $27,
			updated_at = now()
		WHERE id = $28
	`,
		c.Name, c.Status,
		c.ProductURL, c.Analysis, c.SelectedStrategies,
		c.BusinessLogo, c.BusinessName, c.ProductType,
		c.DeliveryType, c.ProductName, c.ProductPhotos, c.VideoAssetLink,
		c.BusinessIntroduction, c.CoreSellingPoints, c.CoreAudiences,
		c.AudienceGenders, c.AudienceAges, c.AudienceInterests,
		c.Budget, c.WindowStartDate, c.WindowDueDate, c.LandingPageURL,
		c.SelectedPlacements, c.SelectedLanguages, c.SelectedLocations,
		c.ProductExplainerVideo, c.CustomBrandGuidelines,
		c.ID,
	)
	return err
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}

type CampaignFilter struct {
	UserID *uuid.UUID
	Status *string
	Limit  int
	Offset int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *f.UserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// ListActivePastDue returns active campaigns whose posting window closed
// before the given moment.
func (r *CampaignRepo) ListActivePastDue(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	return r.listWhere(ctx,
		`status = $1 AND window_due_date IS NOT NULL AND window_due_date < $2`,
		models.CampaignStatusActive, now)
}

// ListStaleDrafts returns draft campaigns untouched since the cutoff.
func (r *CampaignRepo) ListStaleDrafts(ctx context.Context, cutoff time.Time) ([]models.Campaign, error) {
	return r.listWhere(ctx, `status = $1 AND updated_at < $2`,
		models.CampaignStatusDraft, cutoff)
}

func (r *CampaignRepo) listWhere(ctx context.Context, cond string, args ...any) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE `+cond, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}
