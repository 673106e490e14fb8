package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actor types
const (
	ActorUser   = "user"
	ActorSystem = "system"
)

type AuditLog struct {
	ID         int64      `json:"id"`
	ActorType  string     `json:"actor_type"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Details    any        `json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
