package draft

import "strings"

// StepComplete is the pure per-step completion predicate, gating forward
// navigation and the final submit.
func (s State) StepComplete(step Step) bool {
	switch step {
	case StepTarget:
		return len(s.SelectedStrategies) > 0
	case StepKeyMessage:
		return s.keyMessageComplete()
	case StepSetting:
		return s.settingComplete()
	default:
		return false
	}
}

func (s State) keyMessageComplete() bool {
	basic := strings.TrimSpace(s.BusinessName) != "" && s.ProductType != ""

	var delivery bool
	switch s.DeliveryType {
	case DeliveryVideo:
		delivery = strings.TrimSpace(s.VideoAssetLink) != ""
	case DeliveryShip:
		delivery = strings.TrimSpace(s.ProductName) != "" && len(s.ProductPhotos) > 0
	default:
		delivery = false
	}

	intro := strings.TrimSpace(s.BusinessIntroduction) != ""

	points := false
	for _, p := range s.CoreSellingPoints {
		if strings.TrimSpace(p) != "" {
			points = true
			break
		}
	}

	// An audience counts only when title and description are both filled.
	audiences := false
	for _, a := range s.CoreAudiences {
		if strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.Description) != "" {
			audiences = true
			break
		}
	}

	return basic && delivery && intro && points && audiences
}

func (s State) settingComplete() bool {
	datesOK := s.PostTimeMode != PostTimeFixed ||
		(s.WindowStartDate != nil && s.WindowDueDate != nil)

	// budget == 0 is stored as valid but never counts as complete.
	return len(s.SelectedPlacements) > 0 &&
		len(s.SelectedLanguages) > 0 &&
		len(s.SelectedLocations) > 0 &&
		datesOK &&
		strings.TrimSpace(s.LandingPageURL) != "" &&
		s.Budget > 0
}
