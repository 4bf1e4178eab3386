package model

import "time"

// EventType identifies the type of event pushed to the kiosk front-end
type EventType string

const (
	// Profile events
	EventProfileUpdated EventType = "profile_updated"

	// Catalog events
	EventCatalogUpdated EventType = "catalog_updated"

	// Session events
	EventSessionState    EventType = "session_state"
	EventScoreTick       EventType = "score_tick"
	EventSessionComplete EventType = "session_complete"
)

// Event is the base structure for all pushed events
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// ProfileUpdatedPayload carries the fields the HUD renders
type ProfileUpdatedPayload struct {
	UserID UserID
	Level  int
	XP     int
	Coins  int
}

// SessionStatePayload carries a state-machine transition
type SessionStatePayload struct {
	State   SessionState
	EntryID EntryID // empty outside a session
	PhaseID PhaseID // empty outside a session
}

// ScoreTickPayload carries the live score forwarded each frame
type ScoreTickPayload struct {
	Score int
}

// SessionCompletePayload carries the results screen contents
type SessionCompletePayload struct {
	Result SessionResult
}
