package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationSessionCompleted = "SESSION_COMPLETED"
	NotificationSystemBroadcast  = "SYSTEM_BROADCAST"
)

// Notification is the payload pushed to connected clients. It is delivery
// only: the session row itself is the durable record, so nothing is stored.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	TypeCode  string                 `json:"type_code"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
