package entities

import "time"

// Sync event types broadcast by the session
const (
	SyncEventNavigation = "navigation"
	SyncEventReload     = "reload"
	SyncEventState      = "state"
)

// SyncEvent represents a change that every view of a session must observe
type SyncEvent struct {
	Type      string          `json:"type"`
	State     NavigationState `json:"state"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSyncEvent creates a new sync event
func NewSyncEvent(eventType string, state NavigationState) SyncEvent {
	return SyncEvent{
		Type:      eventType,
		State:     state,
		Timestamp: time.Now(),
	}
}
