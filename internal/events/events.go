package events

import "context"

// Stream every campaign event is published on.
const StreamCampaign = "events:campaign"

// Event types
const (
	EventAnalysisStateChanged = "analysis_state_changed"
	EventWizardSubmitted      = "wizard_submitted"
	EventCampaignCreated      = "campaign_created"
	EventCampaignUpdated      = "campaign_updated"
	EventCampaignCompleted    = "campaign_completed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
