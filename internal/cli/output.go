package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case []Profile:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printProfile(v[i])
		}
	case AuthResult:
		o.printAuthResult(v)
	case []CatalogEntry:
		o.printCatalog(v)
	case []PhaseStatus:
		o.printPhases(v)
	case SessionSnapshot:
		o.printSnapshot(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile response type (matches API)
type Profile struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	XP          int             `json:"xp"`
	Level       int             `json:"level"`
	Coins       int             `json:"coins"`
	Permissions map[string]bool `json:"permissions"`
}

// AuthResult combines the signed-in user and token
type AuthResult struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	SessionToken string   `json:"session_token"`
	Profile      *Profile `json:"profile,omitempty"`
}

// CatalogEntry response type
type CatalogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Camera      string `json:"camera"`
	Passthrough bool   `json:"passthrough"`
}

// PhaseStatus response type
type PhaseStatus struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredLevel int    `json:"required_level"`
	Unlocked      bool   `json:"unlocked"`
}

// RewardResult response type
type RewardResult struct {
	XPGained    int  `json:"xp_gained"`
	CoinsGained int  `json:"coins_gained"`
	LeveledUp   bool `json:"leveled_up"`
}

// SessionResult response type
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

// SessionSnapshot response type
type SessionSnapshot struct {
	State   string         `json:"state"`
	EntryID string         `json:"entry_id"`
	PhaseID string         `json:"phase_id"`
	Score   int            `json:"score"`
	Notice  string         `json:"notice"`
	Result  *SessionResult `json:"result"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("User:  %s (%s)\n", p.Username, p.ID)
	fmt.Printf("Role:  %s\n", p.Role)
	fmt.Printf("Level: %d  XP: %d  Coins: %d\n", p.Level, p.XP, p.Coins)

	var granted []string
	for id, ok := range p.Permissions {
		if ok {
			granted = append(granted, id)
		}
	}
	sort.Strings(granted)
	fmt.Printf("Games: %s\n", strings.Join(granted, ", "))
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Signed in as %s\n", a.Username)
	fmt.Printf("Token: %s\n", a.SessionToken)
	if a.Profile != nil {
		fmt.Println()
		o.printProfile(*a.Profile)
	}
}

func (o *Output) printCatalog(entries []CatalogEntry) {
	if len(entries) == 0 {
		fmt.Println("No games available")
		return
	}
	for _, e := range entries {
		camera := e.Camera
		if camera == "" || camera == "none" {
			camera = "no camera"
		}
		fmt.Printf("%-16s %s (%s)\n", e.ID, e.Title, camera)
	}
}

func (o *Output) printPhases(phases []PhaseStatus) {
	for _, p := range phases {
		lock := fmt.Sprintf("locked, level %d", p.RequiredLevel)
		if p.Unlocked {
			lock = "unlocked"
		}
		fmt.Printf("%-16s %s (%s)\n", p.ID, p.Name, lock)
	}
}

func (o *Output) printSnapshot(s SessionSnapshot) {
	fmt.Printf("State: %s\n", s.State)
	if s.EntryID != "" {
		fmt.Printf("Entry: %s\n", s.EntryID)
	}
	if s.PhaseID != "" {
		fmt.Printf("Phase: %s\n", s.PhaseID)
	}
	if s.State == "active" {
		fmt.Printf("Score: %d\n", s.Score)
	}
	if s.Notice != "" {
		fmt.Printf("Notice: %s\n", s.Notice)
	}
	if s.Result != nil {
		r := s.Result
		outcome := "LOSS"
		if r.Win {
			outcome = "WIN"
		}
		fmt.Printf("Result: %s  score %d  rank %s (%s)\n", outcome, r.Score, r.Rank, r.RankMessage)
		fmt.Printf("Reward: +%d XP, +%d coins", r.Reward.XPGained, r.Reward.CoinsGained)
		if r.Reward.LeveledUp {
			fmt.Print("  LEVEL UP!")
		}
		fmt.Println()
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
