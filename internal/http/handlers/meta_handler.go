package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/head-marketing/backend/internal/models"
)

// MetaHandler serves the option catalogs the wizard renders its pickers
// from.
type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

var strategyCatalog = []models.Strategy{
	{
		Type:        "Influencer marketing",
		Description: "Creators present your product to their audience in their own voice.",
		Goal:        "Awareness and conversions through trusted recommendations",
	},
	{
		Type:        "Content seeding",
		Description: "Your product placed organically across many mid-size creators at once.",
		Goal:        "Broad reach with authentic-feeling placements",
	},
	{
		Type:        "Affiliate program",
		Description: "Creators earn a revenue share for every sale they drive.",
		Goal:        "Performance-priced sales growth",
	},
	{
		Type:        "Brand ambassador",
		Description: "A small set of creators represents your brand over a longer period.",
		Goal:        "Long-term trust and repeat exposure",
	},
}

var (
	productTypeOptions = []string{"Web app", "Mobile app", "Physical product", "Service", "Digital product"}
	placementOptions   = []string{"TikTok videos", "Instagram Reels", "Instagram Stories", "YouTube videos", "YouTube Shorts"}
	genderOptions      = []string{"Male", "Female", "All"}
	ageOptions         = []string{"13-17", "18-24", "25-34", "35-44", "45-54", "55+"}
	languageOptions    = []string{"English", "Spanish", "French", "German", "Portuguese", "Japanese", "Korean"}
	locationOptions    = []string{"United States", "United Kingdom", "Canada", "Australia", "Germany", "France", "Japan", "Brazil"}
)

func (h *MetaHandler) GetStrategies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"strategies": strategyCatalog})
}

func (h *MetaHandler) GetWizardOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"product_types": productTypeOptions,
		"placements":    placementOptions,
		"genders":       genderOptions,
		"ages":          ageOptions,
		"languages":     languageOptions,
		"locations":     locationOptions,
	})
}
