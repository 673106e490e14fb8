package dto

import (
	"github.com/head-marketing/backend/internal/draft"
	"github.com/head-marketing/backend/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type AuthResponse struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WizardStateResponse is returned by every wizard endpoint so the client
// always renders from the latest draft.
type WizardStateResponse struct {
	State      draft.State         `json:"state"`
	Completion map[draft.Step]bool `json:"completion"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type SubmitResponse struct {
	Campaign *models.Campaign `json:"campaign"`
}
