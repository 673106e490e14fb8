package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

// ValidCampaignTransitions maps each status to the statuses it may move to.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusActive, CampaignStatusArchived},
	CampaignStatusActive:    {CampaignStatusCompleted, CampaignStatusArchived},
	CampaignStatusCompleted: {CampaignStatusArchived},
	CampaignStatusArchived:  {},
}

func IsValidCampaignTransition(from, to string) bool {
	for _, s := range ValidCampaignTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Audience is one target audience segment.
type Audience struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProductPhoto is an uploaded product image reference.
type ProductPhoto struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Strategy is a selectable marketing-channel approach. Type is the uniqueness key.
type Strategy struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
}

// WebsiteAnalysis is the structured summary produced for a business URL.
// Field names follow the analysis API contract.
type WebsiteAnalysis struct {
	BusinessIntro     string     `json:"business_intro"`
	CoreSellingPoints []string   `json:"core_selling_points"`
	CoreAudiences     []Audience `json:"core_audiences"`
	Error             string     `json:"error,omitempty"`
}

type Campaign struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`

	ProductURL         string           `json:"product_url"`
	Analysis           *WebsiteAnalysis `json:"analysis,omitempty"`
	SelectedStrategies []Strategy       `json:"selected_strategies,omitempty"`

	BusinessLogo *string `json:"business_logo,omitempty"`
	BusinessName string  `json:"business_name"`
	ProductType  string  `json:"product_type"`

	DeliveryType   string         `json:"delivery_type"`
	ProductName    string         `json:"product_name"`
	ProductPhotos  []ProductPhoto `json:"product_photos,omitempty"`
	VideoAssetLink string         `json:"video_asset_link"`

	BusinessIntroduction string     `json:"business_introduction"`
	CoreSellingPoints    []string   `json:"core_selling_points"`
	CoreAudiences        []Audience `json:"core_audiences"`

	AudienceGenders   []string `json:"audience_genders,omitempty"`
	AudienceAges      []string `json:"audience_ages,omitempty"`
	AudienceInterests string   `json:"audience_interests"`

	Budget          float64    `json:"budget"`
	WindowStartDate *time.Time `json:"window_start_date,omitempty"`
	WindowDueDate   *time.Time `json:"window_due_date,omitempty"`
	LandingPageURL  string     `json:"landing_page_url"`

	SelectedPlacements []string `json:"selected_placements"`
	SelectedLanguages  []string `json:"selected_languages"`
	SelectedLocations  []string `json:"selected_locations"`

	ProductExplainerVideo string   `json:"product_explainer_video"`
	CustomBrandGuidelines []string `json:"custom_brand_guidelines,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
