package events

import (
	"context"
	"log/slog"
)

// SubscribeAudit logs every session and document change at info level, so
// a server log shows who was signed in when the document moved.
func SubscribeAudit(bus *EventBus, logger *slog.Logger) {
	bus.Subscribe(EventTypeSessionChanged, func(ctx context.Context, event Event) error {
		e, ok := event.(*SessionChangedEvent)
		if !ok {
			return nil
		}
		logger.Info("session changed", "authenticated", e.Authenticated, "email", e.Email, "role", e.Role)
		return nil
	})
	bus.Subscribe(EventTypeDocumentChanged, func(ctx context.Context, event Event) error {
		e, ok := event.(*DocumentChangedEvent)
		if !ok {
			return nil
		}
		logger.Info("document changed", "version", e.Version, "event_id", e.ID)
		return nil
	})
}
