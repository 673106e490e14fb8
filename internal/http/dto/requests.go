package dto

import (
	"time"

	"github.com/head-marketing/backend/internal/models"
)

// Auth

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"id_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Wizard

type AnalyzeRequest struct {
	URL string `json:"url"`
}

type AdvanceRequest struct {
	Step string `json:"step"`
}

type SelectStrategiesRequest struct {
	Strategies []models.Strategy `json:"strategies"`
}

// WizardPatchRequest updates scalar draft fields. Only non-nil fields are
// applied.
type WizardPatchRequest struct {
	BusinessLogo          *string    `json:"business_logo"`
	BusinessName          *string    `json:"business_name"`
	ProductType           *string    `json:"product_type"`
	DeliveryType          *string    `json:"delivery_type"`
	ProductName           *string    `json:"product_name"`
	VideoAssetLink        *string    `json:"video_asset_link"`
	BusinessIntroduction  *string    `json:"business_introduction"`
	AudienceInterests     *string    `json:"audience_interests"`
	Budget                *float64   `json:"budget"`
	LandingPageURL        *string    `json:"landing_page_url"`
	PostTimeMode          *string    `json:"post_time_mode"`
	WindowStartDate       *time.Time `json:"window_start_date"`
	WindowDueDate         *time.Time `json:"window_due_date"`
	ProductExplainerVideo *string    `json:"product_explainer_video"`
}

type ListItemRequest struct {
	Value string `json:"value"`
}

type AudienceItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ToggleRequest struct {
	Set   string `json:"set"`
	Value string `json:"value"`
}

type PhotoRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Campaigns

type TransitionRequest struct {
	Status string `json:"status"`
}
