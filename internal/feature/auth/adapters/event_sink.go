package adapters

import (
	"context"
	"log/slog"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// slogEventSink logs session lifecycle events. It stands in for a real
// message bus; the usecase only sees the EventSink interface.
type slogEventSink struct{}

var _ usecase.EventSink = slogEventSink{}

// NewSlogEventSink returns a sink that emits each event as a structured log line.
func NewSlogEventSink() slogEventSink {
	return slogEventSink{}
}

// Dispatch logs the committed lifecycle events. It never fails the caller.
func (slogEventSink) Dispatch(_ context.Context, events []entity.Event) {
	for _, ev := range events {
		slog.Info("session event",
			"type", string(ev.Type),
			"session_id", ev.SessionID,
			"user_id", ev.UserID,
			"occurred_at", ev.OccurredAt,
		)
	}
}
