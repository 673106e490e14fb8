package draft

import (
	"testing"
	"time"

	"github.com/head-marketing/backend/internal/models"
)

func strategies(types ...string) []models.Strategy {
	out := make([]models.Strategy, 0, len(types))
	for _, ty := range types {
		out = append(out, models.Strategy{Type: ty, Description: "d", Goal: "g"})
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func TestSellingPointCapacityInvariant(t *testing.T) {
	d := New()

	check := func(label string) {
		s := d.Snapshot()
		if got := len(s.CoreSellingPoints) + s.RemainingPoints; got != SellingPointCap {
			t.Fatalf("%s: len+remaining = %d, want %d", label, got, SellingPointCap)
		}
	}

	check("initial")
	if got := len(d.Snapshot().CoreSellingPoints); got != 5 {
		t.Fatalf("initial selling points = %d, want 5", got)
	}

	// Fill to capacity.
	for i := 0; i < SellingPointCap; i++ {
		d.AddSellingPoint()
		check("add")
	}
	if got := len(d.Snapshot().CoreSellingPoints); got != SellingPointCap {
		t.Fatalf("selling points after filling = %d, want %d", got, SellingPointCap)
	}

	// Add at capacity is a no-op.
	d.AddSellingPoint()
	check("add at cap")
	if got := len(d.Snapshot().CoreSellingPoints); got != SellingPointCap {
		t.Fatalf("add at capacity grew the list to %d", got)
	}

	// Drain completely; the store allows removing the last element.
	for i := SellingPointCap - 1; i >= 0; i-- {
		d.RemoveSellingPoint(i)
		check("remove")
	}
	s := d.Snapshot()
	if len(s.CoreSellingPoints) != 0 || s.RemainingPoints != SellingPointCap {
		t.Fatalf("after draining: len=%d remaining=%d", len(s.CoreSellingPoints), s.RemainingPoints)
	}
}

func TestRemoveOutOfRangeIsNoop(t *testing.T) {
	d := New()
	before := d.Snapshot()

	d.RemoveSellingPoint(-1)
	d.RemoveSellingPoint(len(before.CoreSellingPoints))
	d.RemoveAudience(100)
	d.RemoveGuideline(-5)

	after := d.Snapshot()
	if len(after.CoreSellingPoints) != len(before.CoreSellingPoints) ||
		after.RemainingPoints != before.RemainingPoints ||
		len(after.CoreAudiences) != len(before.CoreAudiences) ||
		after.RemainingAudiences != before.RemainingAudiences ||
		len(after.CustomBrandGuidelines) != len(before.CustomBrandGuidelines) ||
		after.RemainingGuidelines != before.RemainingGuidelines {
		t.Fatal("out-of-range remove mutated the store")
	}
}

func TestAudienceAndGuidelineCaps(t *testing.T) {
	d := New()

	for i := 0; i < AudienceCap+3; i++ {
		d.AddAudience()
	}
	for i := 0; i < GuidelineCap+3; i++ {
		d.AddGuideline()
	}

	s := d.Snapshot()
	if len(s.CoreAudiences) != AudienceCap || s.RemainingAudiences != 0 {
		t.Errorf("audiences: len=%d remaining=%d, want %d/0", len(s.CoreAudiences), s.RemainingAudiences, AudienceCap)
	}
	if len(s.CustomBrandGuidelines) != GuidelineCap || s.RemainingGuidelines != 0 {
		t.Errorf("guidelines: len=%d remaining=%d, want %d/0", len(s.CustomBrandGuidelines), s.RemainingGuidelines, GuidelineCap)
	}

	d.RemoveAudience(0)
	d.RemoveGuideline(0)
	s = d.Snapshot()
	if len(s.CoreAudiences)+s.RemainingAudiences != AudienceCap {
		t.Error("audience invariant broken after remove")
	}
	if len(s.CustomBrandGuidelines)+s.RemainingGuidelines != GuidelineCap {
		t.Error("guideline invariant broken after remove")
	}
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	d := New()

	tests := []struct {
		name   string
		toggle func(string)
		read   func() []string
		value  string
	}{
		{"genders", d.ToggleGender, func() []string { return d.Snapshot().AudienceGenders }, "Female"},
		{"ages", d.ToggleAge, func() []string { return d.Snapshot().AudienceAges }, "18-24"},
		{"placements", d.TogglePlacement, func() []string { return d.Snapshot().SelectedPlacements }, "Instagram Reels"},
		{"languages", d.ToggleLanguage, func() []string { return d.Snapshot().SelectedLanguages }, "German"},
		{"locations", d.ToggleLocation, func() []string { return d.Snapshot().SelectedLocations }, "Japan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]string(nil), tt.read()...)

			tt.toggle(tt.value)
			if !contains(tt.read(), tt.value) {
				t.Fatalf("first toggle did not add %q", tt.value)
			}
			tt.toggle(tt.value)
			after := tt.read()
			if len(after) != len(before) || contains(after, tt.value) != contains(before, tt.value) {
				t.Fatalf("double toggle changed membership: before=%v after=%v", before, after)
			}
		})
	}
}

func TestToggleRemovesDefault(t *testing.T) {
	d := New()
	d.TogglePlacement("TikTok videos") // default member
	if contains(d.Snapshot().SelectedPlacements, "TikTok videos") {
		t.Fatal("toggle did not remove an existing member")
	}
}

func TestAdvanceBlocksIncompleteSteps(t *testing.T) {
	d := New()

	if err := d.Advance(StepKeyMessage); err != ErrStepIncomplete {
		t.Fatalf("advance past incomplete target: err=%v, want ErrStepIncomplete", err)
	}

	d.SetSelectedStrategies(strategies("Influencer marketing"))
	if err := d.Advance(StepKeyMessage); err != nil {
		t.Fatalf("advance to key-message after selecting strategy: %v", err)
	}

	// Skipping straight to setting requires key-message completion too.
	if err := d.Advance(StepSetting); err != ErrStepIncomplete {
		t.Fatalf("advance past incomplete key-message: err=%v, want ErrStepIncomplete", err)
	}

	// Backward navigation is always allowed.
	if err := d.Advance(StepTarget); err != nil {
		t.Fatalf("advance backward: %v", err)
	}

	if err := d.Advance("nonsense"); err != ErrUnknownStep {
		t.Fatalf("advance to unknown step: err=%v, want ErrUnknownStep", err)
	}
}

func TestStrategySelectionDeduplicatesByType(t *testing.T) {
	d := New()
	d.SetSelectedStrategies(append(
		strategies("Influencer marketing"),
		strategies("Influencer marketing")...,
	))
	if got := len(d.Snapshot().SelectedStrategies); got != 1 {
		t.Fatalf("strategies after duplicate select = %d, want 1", got)
	}
}

func TestSetWindowRejectsInvertedRange(t *testing.T) {
	d := New()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, -1)
	if err := d.SetWindow(&start, &due); err != ErrInvalidWindow {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if d.Snapshot().WindowStartDate != nil {
		t.Fatal("rejected window mutated the store")
	}

	due = start.AddDate(0, 0, 7)
	if err := d.SetWindow(&start, &due); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
}

func TestLengthLimits(t *testing.T) {
	d := New()
	long := make([]byte, MaxIntroductionLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := d.SetBusinessIntroduction(string(long)); err != ErrTooLong {
		t.Errorf("introduction over limit: err=%v, want ErrTooLong", err)
	}
	if err := d.UpdateSellingPoint(0, string(long)); err != ErrTooLong {
		t.Errorf("selling point over limit: err=%v, want ErrTooLong", err)
	}
	if err := d.SetAudienceInterests(string(long[:MaxInterestsLen+1])); err != ErrTooLong {
		t.Errorf("interests over limit: err=%v, want ErrTooLong", err)
	}
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	d := New()
	ch, unsub := d.Subscribe()
	defer unsub()

	d.SetBusinessName("Acme")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after mutation")
	}

	// Signals coalesce; a burst of mutations leaves at most one pending.
	d.SetBusinessName("Acme 2")
	d.SetBusinessName("Acme 3")
	<-ch
	select {
	case <-ch:
		t.Fatal("notifications did not coalesce")
	default:
	}

	unsub()
	d.SetBusinessName("Acme 4")
	select {
	case <-ch:
		t.Fatal("notified after unsubscribe")
	default:
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	d := New()
	d.UpdateSellingPoint(0, "original")
	s := d.Snapshot()
	s.CoreSellingPoints[0] = "mutated"
	if d.Snapshot().CoreSellingPoints[0] != "original" {
		t.Fatal("snapshot shares backing storage with the store")
	}
}

func TestNewFromStateResetsPendingAnalysis(t *testing.T) {
	d := New()
	d.BeginAnalysis("https://example.com")
	restored := NewFromState(d.Snapshot())
	if got := restored.Snapshot().Thinking; got != ThinkingIdle {
		t.Fatalf("restored thinking state = %q, want idle", got)
	}
}
