package draft

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/head-marketing/backend/internal/models"
)

// Wizard steps, in order.
type Step string

const (
	StepTarget     Step = "target"
	StepKeyMessage Step = "key-message"
	StepSetting    Step = "setting"
)

var stepOrder = map[Step]int{
	StepTarget:     0,
	StepKeyMessage: 1,
	StepSetting:    2,
}

// Steps returns the wizard steps in order.
func Steps() []Step {
	return []Step{StepTarget, StepKeyMessage, StepSetting}
}

// Analysis states for the thinking indicator.
type ThinkingState string

const (
	ThinkingIdle      ThinkingState = "idle"
	ThinkingPending   ThinkingState = "pending"
	ThinkingSucceeded ThinkingState = "succeeded"
	ThinkingFailed    ThinkingState = "failed"
	ThinkingCancelled ThinkingState = "cancelled"
)

// Delivery types for the key-message step.
const (
	DeliveryShip  = "ship"
	DeliveryVideo = "video"
	DeliveryUnset = ""
)

// Post time modes for the setting step.
const (
	PostTimeFlexible = "flexible"
	PostTimeFixed    = "fixed"
)

// List capacities. Every bounded list keeps len(list)+remaining == cap.
const (
	SellingPointCap = 20
	AudienceCap     = 15
	GuidelineCap    = 11

	initialSellingPoints = 5
	initialAudiences     = 3
	initialGuidelines    = 1
)

// Field length limits, matching the form inputs.
const (
	MaxIntroductionLen = 500
	MaxSellingPointLen = 300
	MaxInterestsLen    = 200
)

var (
	ErrStepIncomplete = errors.New("previous step incomplete")
	ErrUnknownStep    = errors.New("unknown step")
	ErrTooLong        = errors.New("value exceeds maximum length")
	ErrInvalidWindow  = errors.New("window start date must not be after due date")
)

// State is a plain snapshot of the wizard draft. It is JSON-serializable so
// sessions can be parked in redis and rebuilt later.
type State struct {
	CurrentStep Step `json:"current_step"`

	TargetURL      string                  `json:"target_url"`
	Analysis       *models.WebsiteAnalysis `json:"analysis,omitempty"`
	Thinking       ThinkingState           `json:"thinking"`
	AnalysisError  string                  `json:"analysis_error,omitempty"`
	ShowStrategies bool                    `json:"show_strategies"`

	SelectedStrategies []models.Strategy `json:"selected_strategies"`

	BusinessLogo string `json:"business_logo,omitempty"`
	BusinessName string `json:"business_name"`
	ProductType  string `json:"product_type"`

	DeliveryType   string                `json:"delivery_type"`
	ProductName    string                `json:"product_name"`
	ProductPhotos  []models.ProductPhoto `json:"product_photos"`
	VideoAssetLink string                `json:"video_asset_link"`

	BusinessIntroduction string `json:"business_introduction"`

	CoreSellingPoints []string `json:"core_selling_points"`
	RemainingPoints   int      `json:"remaining_points"`

	CoreAudiences      []models.Audience `json:"core_audiences"`
	RemainingAudiences int               `json:"remaining_audiences"`

	AudienceGenders   []string `json:"audience_genders"`
	AudienceAges      []string `json:"audience_ages"`
	AudienceInterests string   `json:"audience_interests"`

	Budget          float64    `json:"budget"`
	PostTimeMode    string     `json:"post_time_mode"`
	WindowStartDate *time.Time `json:"window_start_date,omitempty"`
	WindowDueDate   *time.Time `json:"window_due_date,omitempty"`
	LandingPageURL  string     `json:"landing_page_url"`

	SelectedPlacements []string `json:"selected_placements"`
	SelectedLanguages  []string `json:"selected_languages"`
	SelectedLocations  []string `json:"selected_locations"`

	ProductExplainerVideo string   `json:"product_explainer_video"`
	CustomBrandGuidelines []string `json:"custom_brand_guidelines"`
	RemainingGuidelines   int      `json:"remaining_guidelines"`
}

func initialState() State {
	return State{
		CurrentStep:           StepTarget,
		Thinking:              ThinkingIdle,
		SelectedStrategies:    []models.Strategy{},
		ProductPhotos:         []models.ProductPhoto{},
		CoreSellingPoints:     make([]string, initialSellingPoints),
		RemainingPoints:       SellingPointCap - initialSellingPoints,
		CoreAudiences:         make([]models.Audience, initialAudiences),
		RemainingAudiences:    AudienceCap - initialAudiences,
		AudienceGenders:       []string{},
		AudienceAges:          []string{},
		PostTimeMode:          PostTimeFlexible,
		SelectedPlacements:    []string{"TikTok videos"},
		SelectedLanguages:     []string{"English"},
		SelectedLocations:     []string{"United States"},
		CustomBrandGuidelines: make([]string, initialGuidelines),
		RemainingGuidelines:   GuidelineCap - initialGuidelines,
	}
}

// Draft is the wizard's mutable store. One instance per wizard session; all
// access is serialized by its mutex. Mutations never perform I/O, they only
// update the state and wake subscribers.
type Draft struct {
	mu    sync.Mutex
	state State
	subs  map[int]chan struct{}
	nextS int
}

func New() *Draft {
	return &Draft{state: initialState(), subs: make(map[int]chan struct{})}
}

// NewFromState rebuilds a draft from a parked snapshot.
func NewFromState(s State) *Draft {
	d := New()
	d.state = s.clone()
	// A request cannot survive the session it ran in.
	if d.state.Thinking == ThinkingPending {
		d.state.Thinking = ThinkingIdle
	}
	return d
}

// Subscribe registers a change listener. The channel receives a coalesced
// signal after each mutation; the returned func unsubscribes.
func (d *Draft) Subscribe() (<-chan struct{}, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextS
	d.nextS++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch
	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// notify must be called with d.mu held.
func (d *Draft) notify() {
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a deep copy of the current state.
func (d *Draft) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

func (s State) clone() State {
	c := s
	c.SelectedStrategies = append([]models.Strategy(nil), s.SelectedStrategies...)
	c.ProductPhotos = append([]models.ProductPhoto(nil), s.ProductPhotos...)
	c.CoreSellingPoints = append([]string(nil), s.CoreSellingPoints...)
	c.CoreAudiences = append([]models.Audience(nil), s.CoreAudiences...)
	c.AudienceGenders = append([]string(nil), s.AudienceGenders...)
	c.AudienceAges = append([]string(nil), s.AudienceAges...)
	c.SelectedPlacements = append([]string(nil), s.SelectedPlacements...)
	c.SelectedLanguages = append([]string(nil), s.SelectedLanguages...)
	c.SelectedLocations = append([]string(nil), s.SelectedLocations...)
	c.CustomBrandGuidelines = append([]string(nil), s.CustomBrandGuidelines...)
	if s.Analysis != nil {
		a := *s.Analysis
		a.CoreSellingPoints = append([]string(nil), s.Analysis.CoreSellingPoints...)
		a.CoreAudiences = append([]models.Audience(nil), s.Analysis.CoreAudiences...)
		c.Analysis = &a
	}
	if s.WindowStartDate != nil {
		t := *s.WindowStartDate
		c.WindowStartDate = &t
	}
	if s.WindowDueDate != nil {
		t := *s.WindowDueDate
		c.WindowDueDate = &t
	}
	return c
}

// Reset restores the initial state, keeping subscribers.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = initialState()
	d.notify()
}

// Advance moves to another step. Moving forward requires every step before the
// target to be complete; moving backward is always allowed.
func (d *Draft) Advance(to Step) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	target, ok := stepOrder[to]
	if !ok {
		return ErrUnknownStep
	}
	current := stepOrder[d.state.CurrentStep]
	if target > current {
		for step, idx := range stepOrder {
			if idx < target && !d.state.StepComplete(step) {
				return ErrStepIncomplete
			}
		}
	}
	d.state.CurrentStep = to
	d.notify()
	return nil
}

// --- scalar setters ---

func (d *Draft) set(fn func(*State)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.state)
	d.notify()
}

func (d *Draft) SetTargetURL(url string)      { d.set(func(s *State) { s.TargetURL = url }) }
func (d *Draft) SetBusinessLogo(url string)   { d.set(func(s *State) { s.BusinessLogo = url }) }
func (d *Draft) SetBusinessName(name string)  { d.set(func(s *State) { s.BusinessName = name }) }
func (d *Draft) SetProductType(t string)      { d.set(func(s *State) { s.ProductType = t }) }
func (d *Draft) SetDeliveryType(t string)     { d.set(func(s *State) { s.DeliveryType = t }) }
func (d *Draft) SetProductName(name string)   { d.set(func(s *State) { s.ProductName = name }) }
func (d *Draft) SetVideoAssetLink(url string) { d.set(func(s *State) { s.VideoAssetLink = url }) }
func (d *Draft) SetLandingPageURL(url string) { d.set(func(s *State) { s.LandingPageURL = url }) }
func (d *Draft) SetPostTimeMode(mode string)  { d.set(func(s *State) { s.PostTimeMode = mode }) }
func (d *Draft) SetProductExplainerVideo(url string) {
	d.set(func(s *State) { s.ProductExplainerVideo = url })
}

// SetBudget stores any value; the completion check is where budget > 0 is
// enforced, matching the form's display-only >= 0 validation.
func (d *Draft) SetBudget(v float64) { d.set(func(s *State) { s.Budget = v }) }

func (d *Draft) SetBusinessIntroduction(intro string) error {
	if len(intro) > MaxIntroductionLen {
		return ErrTooLong
	}
	d.set(func(s *State) { s.BusinessIntroduction = intro })
	return nil
}

func (d *Draft) SetAudienceInterests(v string) error {
	if len(v) > MaxInterestsLen {
		return ErrTooLong
	}
	d.set(func(s *State) { s.AudienceInterests = v })
	return nil
}

// SetWindow sets both window dates at once so the start <= due invariant can
// be checked against the pair.
func (d *Draft) SetWindow(start, due *time.Time) error {
	if start != nil && due != nil && start.After(*due) {
		return ErrInvalidWindow
	}
	d.set(func(s *State) {
		s.WindowStartDate = start
		s.WindowDueDate = due
	})
	return nil
}

func (d *Draft) SetProductPhotos(photos []models.ProductPhoto) {
	d.set(func(s *State) { s.ProductPhotos = append([]models.ProductPhoto(nil), photos...) })
}

func (d *Draft) AddProductPhoto(url, name string) {
	d.set(func(s *State) {
		s.ProductPhotos = append(s.ProductPhotos, models.ProductPhoto{URL: url, Name: name})
	})
}

func (d *Draft) RemoveProductPhoto(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.ProductPhotos) {
		return
	}
	d.state.ProductPhotos = append(d.state.ProductPhotos[:index], d.state.ProductPhotos[index+1:]...)
	d.notify()
}

// SetSelectedStrategies replaces the strategy selection, deduplicated by type.
func (d *Draft) SetSelectedStrategies(strategies []models.Strategy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := make(map[string]bool, len(strategies))
	out := make([]models.Strategy, 0, len(strategies))
	for _, st := range strategies {
		if seen[st.Type] {
			continue
		}
		seen[st.Type] = true
		out = append(out, st)
	}
	d.state.SelectedStrategies = out
	d.notify()
}

// --- bounded lists ---
// add is a no-op at capacity; removeAt is a no-op out of range. The remaining
// counter moves with every successful add/remove so len+remaining stays at cap.

func (d *Draft) AddSellingPoint() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.RemainingPoints <= 0 {
		return
	}
	d.state.CoreSellingPoints = append(d.state.CoreSellingPoints, "")
	d.state.RemainingPoints--
	d.notify()
}

func (d *Draft) RemoveSellingPoint(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CoreSellingPoints) {
		return
	}
	d.state.CoreSellingPoints = append(d.state.CoreSellingPoints[:index], d.state.CoreSellingPoints[index+1:]...)
	d.state.RemainingPoints++
	d.notify()
}

func (d *Draft) UpdateSellingPoint(index int, value string) error {
	if len(value) > MaxSellingPointLen {
		return ErrTooLong
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CoreSellingPoints) {
		return nil
	}
	d.state.CoreSellingPoints[index] = value
	d.notify()
	return nil
}

func (d *Draft) AddAudience() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.RemainingAudiences <= 0 {
		return
	}
	d.state.CoreAudiences = append(d.state.CoreAudiences, models.Audience{})
	d.state.RemainingAudiences--
	d.notify()
}

func (d *Draft) RemoveAudience(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CoreAudiences) {
		return
	}
	d.state.CoreAudiences = append(d.state.CoreAudiences[:index], d.state.CoreAudiences[index+1:]...)
	d.state.RemainingAudiences++
	d.notify()
}

func (d *Draft) UpdateAudienceTitle(index int, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CoreAudiences) {
		return
	}
	d.state.CoreAudiences[index].Title = value
	d.notify()
}

func (d *Draft) UpdateAudienceDescription(index int, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CoreAudiences) {
		return
	}
	d.state.CoreAudiences[index].Description = value
	d.notify()
}

func (d *Draft) AddGuideline() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.RemainingGuidelines <= 0 {
		return
	}
	d.state.CustomBrandGuidelines = append(d.state.CustomBrandGuidelines, "")
	d.state.RemainingGuidelines--
	d.notify()
}

func (d *Draft) RemoveGuideline(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CustomBrandGuidelines) {
		return
	}
	d.state.CustomBrandGuidelines = append(d.state.CustomBrandGuidelines[:index], d.state.CustomBrandGuidelines[index+1:]...)
	d.state.RemainingGuidelines++
	d.notify()
}

func (d *Draft) UpdateGuideline(index int, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.state.CustomBrandGuidelines) {
		return
	}
	d.state.CustomBrandGuidelines[index] = value
	d.notify()
}

// --- set toggles ---
// toggle adds the value if absent, removes it if present.

func toggle(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, value)
}

func (d *Draft) ToggleGender(v string) {
	d.set(func(s *State) { s.AudienceGenders = toggle(s.AudienceGenders, v) })
}
func (d *Draft) ToggleAge(v string) {
	d.set(func(s *State) { s.AudienceAges = toggle(s.AudienceAges, v) })
}
func (d *Draft) TogglePlacement(v string) {
	d.set(func(s *State) { s.SelectedPlacements = toggle(s.SelectedPlacements, v) })
}
func (d *Draft) ToggleLanguage(v string) {
	d.set(func(s *State) { s.SelectedLanguages = toggle(s.SelectedLanguages, v) })
}
func (d *Draft) ToggleLocation(v string) {
	d.set(func(s *State) { s.SelectedLocations = toggle(s.SelectedLocations, v) })
}

// --- analysis transitions, driven by the analyzer session ---

// BeginAnalysis marks a request in flight. Strategies derived from the
// previous result are cleared; the old analysis stays visible until a new
// result replaces it.
func (d *Draft) BeginAnalysis(url string) {
	d.set(func(s *State) {
		s.TargetURL = strings.TrimSpace(url)
		s.Thinking = ThinkingPending
		s.AnalysisError = ""
		s.ShowStrategies = false
		s.SelectedStrategies = []models.Strategy{}
	})
}

func (d *Draft) CompleteAnalysis(result *models.WebsiteAnalysis) {
	d.set(func(s *State) {
		s.Thinking = ThinkingSucceeded
		s.Analysis = result
		s.AnalysisError = ""
	})
}

func (d *Draft) FailAnalysis(msg string) {
	d.set(func(s *State) {
		s.Thinking = ThinkingFailed
		s.AnalysisError = msg
	})
}

// CancelAnalysis discards everything derived from the cancelled request.
func (d *Draft) CancelAnalysis() {
	d.set(func(s *State) {
		s.Thinking = ThinkingCancelled
		s.AnalysisError = ""
		s.Analysis = nil
		s.ShowStrategies = false
		s.SelectedStrategies = []models.Strategy{}
		s.TargetURL = ""
	})
}

func (d *Draft) RevealStrategies() {
	d.set(func(s *State) { s.ShowStrategies = true })
}

// StepComplete reports whether a step's completion predicate holds.
func (d *Draft) StepComplete(step Step) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.StepComplete(step)
}

// Completion evaluates all three predicates at once, for rendering.
func (d *Draft) Completion() map[Step]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return map[Step]bool{
		StepTarget:     d.state.StepComplete(StepTarget),
		StepKeyMessage: d.state.StepComplete(StepKeyMessage),
		StepSetting:    d.state.StepComplete(StepSetting),
	}
}
