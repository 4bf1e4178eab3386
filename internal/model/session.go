package model

import "time"

// SessionState represents the current screen of the orchestrator
type SessionState string

const (
	SessionStateAuth        SessionState = "auth"         // No authenticated profile
	SessionStateMenu        SessionState = "menu"         // Catalog shown
	SessionStatePhaseSelect SessionState = "phase_select" // Phases of the chosen entry shown
	SessionStateLoading     SessionState = "loading"      // Acquiring the camera
	SessionStateActive      SessionState = "active"       // Frame loop running
	SessionStateResults     SessionState = "results"      // Reward summary shown
	SessionStateAdmin       SessionState = "admin"        // Admin panel (admin role only)
)

// Rank classifies a session score
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// RankResult is the classification shown on the results screen
type RankResult struct {
	Rank    Rank
	Message string
}

// RewardResult holds the deltas computed for one completed session
type RewardResult struct {
	XPGained    int
	CoinsGained int
	LeveledUp   bool
}

// SessionResult is the full outcome of a completed play session
type SessionResult struct {
	EntryID     EntryID
	PhaseID     PhaseID
	Score       int
	Win         bool
	Reward      RewardResult
	Rank        RankResult
	CompletedAt time.Time
}
