package draft

import (
	"strings"
	"time"

	"github.com/head-marketing/backend/internal/models"
)

// Reconcile maps a draft snapshot onto a campaign record. When existing is
// non-nil its identity fields (id, owner, status, timestamps) are preserved
// and every draft field overwrites its campaign counterpart. Blank list
// entries are dropped before the merge. Neither input is mutated.
func Reconcile(s State, existing *models.Campaign) models.Campaign {
	var c models.Campaign
	if existing != nil {
		c = *existing
	} else {
		c.Status = models.CampaignStatusDraft
	}

	name := strings.TrimSpace(s.BusinessName)
	if name == "" {
		name = "New"
	}
	c.Name = name + " Campaign"

	c.ProductURL = s.TargetURL
	if s.Analysis != nil {
		a := *s.Analysis
		a.CoreSellingPoints = append([]string(nil), s.Analysis.CoreSellingPoints...)
		a.CoreAudiences = append([]models.Audience(nil), s.Analysis.CoreAudiences...)
		c.Analysis = &a
	} else {
		c.Analysis = nil
	}
	c.SelectedStrategies = append([]models.Strategy(nil), s.SelectedStrategies...)

	if s.BusinessLogo != "" {
		logo := s.BusinessLogo
		c.BusinessLogo = &logo
	} else {
		c.BusinessLogo = nil
	}
	c.BusinessName = s.BusinessName
	c.ProductType = s.ProductType

	c.DeliveryType = s.DeliveryType
	c.ProductName = s.ProductName
	c.ProductPhotos = append([]models.ProductPhoto(nil), s.ProductPhotos...)
	c.VideoAssetLink = s.VideoAssetLink

	c.BusinessIntroduction = s.BusinessIntroduction
	c.CoreSellingPoints = filterBlank(s.CoreSellingPoints)
	c.CoreAudiences = filterBlankAudiences(s.CoreAudiences)

	c.AudienceGenders = append([]string(nil), s.AudienceGenders...)
	c.AudienceAges = append([]string(nil), s.AudienceAges...)
	c.AudienceInterests = s.AudienceInterests

	c.Budget = s.Budget
	c.WindowStartDate = copyTime(s.WindowStartDate)
	c.WindowDueDate = copyTime(s.WindowDueDate)
	c.LandingPageURL = s.LandingPageURL

	c.SelectedPlacements = append([]string(nil), s.SelectedPlacements...)
	c.SelectedLanguages = append([]string(nil), s.SelectedLanguages...)
	c.SelectedLocations = append([]string(nil), s.SelectedLocations...)

	c.ProductExplainerVideo = s.ProductExplainerVideo
	c.CustomBrandGuidelines = filterBlank(s.CustomBrandGuidelines)

	return c
}

func filterBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// A partially filled audience survives reconciliation; only fully blank
// entries are dropped.
func filterBlankAudiences(in []models.Audience) []models.Audience {
	out := make([]models.Audience, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.Title) != "" || strings.TrimSpace(a.Description) != "" {
			out = append(out, a)
		}
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
