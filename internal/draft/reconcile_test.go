package draft

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/head-marketing/backend/internal/models"
)

func TestReconcileNewRecord(t *testing.T) {
	s := completeKeyMessageState()
	if !s.StepComplete(StepKeyMessage) {
		t.Fatal("fixture should satisfy the key-message predicate")
	}

	c := Reconcile(s, nil)

	if c.Name != "Acme Campaign" {
		t.Errorf("name = %q, want %q", c.Name, "Acme Campaign")
	}
	if c.Status != models.CampaignStatusDraft {
		t.Errorf("status = %q, want draft", c.Status)
	}
	if len(c.CoreSellingPoints) != 1 || c.CoreSellingPoints[0] != "Fast" {
		t.Errorf("selling points = %v, want [Fast]", c.CoreSellingPoints)
	}
	if len(c.CoreAudiences) != 1 || c.CoreAudiences[0].Title != "Devs" {
		t.Errorf("audiences = %v", c.CoreAudiences)
	}
	if c.DeliveryType != DeliveryVideo || c.VideoAssetLink != "https://x.co/v" {
		t.Errorf("delivery fields not carried over: %q %q", c.DeliveryType, c.VideoAssetLink)
	}
}

func TestReconcileDefaultName(t *testing.T) {
	s := initialState()
	c := Reconcile(s, nil)
	if c.Name != "New Campaign" {
		t.Errorf("name = %q, want %q", c.Name, "New Campaign")
	}
}

func TestReconcileKeepsPartialAudiences(t *testing.T) {
	s := initialState()
	s.CoreAudiences = []models.Audience{
		{Title: "T", Description: ""},
		{Title: "", Description: ""},
		{Title: "", Description: "D"},
	}
	c := Reconcile(s, nil)
	if len(c.CoreAudiences) != 2 {
		t.Fatalf("audiences after filter = %d, want 2 (only the fully blank entry dropped)", len(c.CoreAudiences))
	}
}

func TestReconcileMergesExistingRecord(t *testing.T) {
	id := uuid.New()
	owner := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &models.Campaign{
		ID:           id,
		UserID:       owner,
		Name:         "Old Name",
		Status:       models.CampaignStatusActive,
		BusinessName: "Old Co",
		CreatedAt:    created,
	}

	s := completeKeyMessageState()
	c := Reconcile(s, existing)

	if c.ID != id || c.UserID != owner {
		t.Error("identity fields not preserved from existing record")
	}
	if c.Status != models.CampaignStatusActive {
		t.Errorf("status = %q, want existing status preserved", c.Status)
	}
	if c.Name != "Acme Campaign" {
		t.Errorf("name = %q, want draft value to win", c.Name)
	}
	if c.BusinessName != "Acme" {
		t.Errorf("business name = %q, want draft value to win", c.BusinessName)
	}
	if !c.CreatedAt.Equal(created) {
		t.Error("created_at not preserved")
	}

	// Inputs stay untouched.
	if existing.Name != "Old Name" || existing.BusinessName != "Old Co" {
		t.Error("Reconcile mutated the existing record")
	}
}

func TestReconcileDoesNotAliasDraftSlices(t *testing.T) {
	s := completeKeyMessageState()
	s.Analysis = &models.WebsiteAnalysis{
		BusinessIntro:     "intro",
		CoreSellingPoints: []string{"a"},
	}
	c := Reconcile(s, nil)

	c.CoreSellingPoints[0] = "mutated"
	c.Analysis.CoreSellingPoints[0] = "mutated"
	if s.CoreSellingPoints[0] != "Fast" {
		t.Error("record shares selling-point storage with the draft")
	}
	if s.Analysis.CoreSellingPoints[0] != "a" {
		t.Error("record shares analysis storage with the draft")
	}
}

func TestReconcileClearsLogoWhenUnset(t *testing.T) {
	logo := "https://cdn.example/logo.svg"
	existing := &models.Campaign{BusinessLogo: &logo}
	c := Reconcile(initialState(), existing)
	if c.BusinessLogo != nil {
		t.Error("blank draft logo should clear the record's logo")
	}
}
