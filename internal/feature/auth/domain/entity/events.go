package entity

import "time"

// EventType identifies a session lifecycle notification.
type EventType string

const (
	EventSessionCreated   EventType = "session.created"
	EventTokensRefreshed  EventType = "session.tokens_refreshed"
	EventSessionRevoked   EventType = "session.revoked"
	EventSessionSuspended EventType = "session.suspended"
	EventSessionActivated EventType = "session.activated"
)

// Event is a pending lifecycle notification. Events accumulate on the
// aggregate during a mutation and are dispatched by the orchestration layer
// only after the write commits.
type Event struct {
	Type       EventType
	SessionID  string
	UserID     uint
	OccurredAt time.Time
}
