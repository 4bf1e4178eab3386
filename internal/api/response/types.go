package response

import (
	"time"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/auth"
	"github.com/kinetikids/motionhub/internal/services/session"
)

// Profile represents a player profile in API responses
type Profile struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	XP          int             `json:"xp"`
	Level       int             `json:"level"`
	Coins       int             `json:"coins"`
	Permissions map[string]bool `json:"permissions"`
}

// ProfileFromModel converts a model.Profile to a response Profile
func ProfileFromModel(p *model.Profile) Profile {
	permissions := make(map[string]bool, len(p.Permissions))
	for id, granted := range p.Permissions {
		permissions[string(id)] = granted
	}
	return Profile{
		ID:          string(p.ID),
		Username:    p.Username,
		Role:        string(p.Role),
		XP:          p.XP,
		Level:       p.Level,
		Coins:       p.Coins,
		Permissions: permissions,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	SessionToken string   `json:"session_token"`
	Profile      *Profile `json:"profile,omitempty"`
}

// AuthResponseFromSession creates an AuthResponse from a session and the
// attached profile
func AuthResponseFromSession(s *auth.Session, p *model.Profile) AuthResponse {
	resp := AuthResponse{
		UserID:       string(s.UserID),
		Username:     s.Username,
		SessionToken: s.Token,
	}
	if p != nil {
		profile := ProfileFromModel(p)
		resp.Profile = &profile
	}
	return resp
}

// Phase represents a game phase
type Phase struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	RequiredLevel int    `json:"required_level"`
}

// PhaseFromModel converts model.Phase
func PhaseFromModel(p model.Phase) Phase {
	return Phase{
		ID:            string(p.ID),
		Name:          p.Name,
		Description:   p.Description,
		RequiredLevel: p.RequiredLevel,
	}
}

// PhaseStatus is a phase plus its unlock state for the current profile
type PhaseStatus struct {
	Phase
	Unlocked bool `json:"unlocked"`
}

// PhaseStatusFromModel converts model.PhaseStatus
func PhaseStatusFromModel(ps model.PhaseStatus) PhaseStatus {
	return PhaseStatus{
		Phase:    PhaseFromModel(ps.Phase),
		Unlocked: ps.Unlocked,
	}
}

// CatalogEntry represents a playable catalog entry
type CatalogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon,omitempty"`
	Camera      string `json:"camera"`
	Passthrough bool   `json:"passthrough"`
}

// CatalogEntryFromModel converts model.CatalogEntry
func CatalogEntryFromModel(e *model.CatalogEntry) CatalogEntry {
	return CatalogEntry{
		ID:          string(e.ID),
		Title:       e.Title,
		Icon:        e.Icon,
		Camera:      string(e.Options.Camera),
		Passthrough: e.Options.Passthrough,
	}
}

// RewardResult is the reward portion of a session outcome
type RewardResult struct {
	XPGained    int  `json:"xp_gained"`
	CoinsGained int  `json:"coins_gained"`
	LeveledUp   bool `json:"leveled_up"`
}

// SessionResult is a completed session outcome
type SessionResult struct {
	EntryID     string       `json:"entry_id"`
	PhaseID     string       `json:"phase_id"`
	Score       int          `json:"score"`
	Win         bool         `json:"win"`
	Reward      RewardResult `json:"reward"`
	Rank        string       `json:"rank"`
	RankMessage string       `json:"rank_message"`
	CompletedAt time.Time    `json:"completed_at"`
}

// SessionResultFromModel converts model.SessionResult
func SessionResultFromModel(r *model.SessionResult) *SessionResult {
	if r == nil {
		return nil
	}
	return &SessionResult{
		EntryID: string(r.EntryID),
		PhaseID: string(r.PhaseID),
		Score:   r.Score,
		Win:     r.Win,
		Reward: RewardResult{
			XPGained:    r.Reward.XPGained,
			CoinsGained: r.Reward.CoinsGained,
			LeveledUp:   r.Reward.LeveledUp,
		},
		Rank:        string(r.Rank.Rank),
		RankMessage: r.Rank.Message,
		CompletedAt: r.CompletedAt,
	}
}

// SessionSnapshot is the externally visible orchestrator state
type SessionSnapshot struct {
	State   string         `json:"state"`
	EntryID string         `json:"entry_id,omitempty"`
	PhaseID string         `json:"phase_id,omitempty"`
	Score   int            `json:"score"`
	Notice  string         `json:"notice,omitempty"`
	Result  *SessionResult `json:"result,omitempty"`
}

// SessionSnapshotFromController converts a session.Snapshot
func SessionSnapshotFromController(s session.Snapshot) SessionSnapshot {
	snap := SessionSnapshot{
		State:  string(s.State),
		Score:  s.Score,
		Notice: s.Notice,
		Result: SessionResultFromModel(s.Result),
	}
	if s.Entry != nil {
		snap.EntryID = string(s.Entry.ID)
	}
	if s.Phase != nil {
		snap.PhaseID = string(s.Phase.ID)
	}
	return snap
}
