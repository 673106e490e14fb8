package models

import (
	"time"

	"github.com/google/uuid"
)

// Collaboration statuses
const (
	CollaborationStatusTBD      = "TBD"
	CollaborationStatusAccepted = "accepted"
	CollaborationStatusRejected = "rejected"
)

// Content review statuses
const (
	ContentStatusPending  = "pending"
	ContentStatusApproved = "approved"
	ContentStatusRejected = "rejected"
)

type Influencer struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Platform        string    `json:"platform"`
	FollowersCount  *int      `json:"followers_count,omitempty"`
	EngagementRate  *float64  `json:"engagement_rate,omitempty"`
	AverageLikes    *int      `json:"average_likes,omitempty"`
	AverageComments *int      `json:"average_comments,omitempty"`
	ContentCategory []string  `json:"content_category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Collaboration links an influencer to a campaign and tracks the content
// they deliver.
type Collaboration struct {
	ID            uuid.UUID       `json:"id"`
	CampaignID    uuid.UUID       `json:"campaign_id"`
	InfluencerID  uuid.UUID       `json:"influencer_id"`
	Status        string          `json:"status"`
	ContentURL    *string         `json:"content_url,omitempty"`
	ContentStatus string          `json:"content_status"`
	Metrics       *ContentMetrics `json:"metrics,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ContentMetrics are the result figures reported for a published collaboration.
type ContentMetrics struct {
	Views    int     `json:"views"`
	Likes    int     `json:"likes"`
	Comments int     `json:"comments"`
	Shares   int     `json:"shares"`
	Sales    int     `json:"sales"`
	Revenue  float64 `json:"revenue"`
}
