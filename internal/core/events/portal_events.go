package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePageActivated   = "page.activated"
	EventTypeSessionChanged  = "session.changed"
	EventTypeDocumentChanged = "document.changed"
)

// PageActivatedEvent tells the presentation layer which page to render.
type PageActivatedEvent struct {
	BaseEvent
	Page     string `json:"page"`
	Fragment string `json:"fragment"`
}

func NewPageActivatedEvent(page, fragment string, context map[string]interface{}) *PageActivatedEvent {
	data := map[string]interface{}{
		"page":     page,
		"fragment": fragment,
	}
	for k, v := range context {
		data[k] = v
	}
	return &PageActivatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePageActivated,
			Timestamp: time.Now(),
			Data:      data,
		},
		Page:     page,
		Fragment: fragment,
	}
}

type SessionChangedEvent struct {
	BaseEvent
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

func NewSessionChangedEvent(authenticated bool, email, role string) *SessionChangedEvent {
	return &SessionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSessionChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"authenticated": authenticated,
				"email":         email,
				"role":          role,
			},
		},
		Authenticated: authenticated,
		Email:         email,
		Role:          role,
	}
}

type DocumentChangedEvent struct {
	BaseEvent
	Version int `json:"version"`
}

func NewDocumentChangedEvent(version int) *DocumentChangedEvent {
	return &DocumentChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDocumentChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"version": version,
			},
		},
		Version: version,
	}
}
