package model

// EntryID uniquely identifies a catalog entry
type EntryID string

// CameraMode selects which capture device a game requires
type CameraMode string

const (
	CameraNone  CameraMode = "none"
	CameraFront CameraMode = "front"
	CameraRear  CameraMode = "rear"
)

// PhaseID identifies a phase within a catalog entry
type PhaseID string

// DefaultPhaseID is synthesized for entries that declare no phases
const DefaultPhaseID PhaseID = "arcade"

// Phase is an unlockable difficulty/variant tier of a catalog entry
type Phase struct {
	ID            PhaseID
	Name          string
	Description   string
	RequiredLevel int
}

// DefaultPhase returns the phase synthesized for entries without phases,
// so every visible entry is always playable
func DefaultPhase() Phase {
	return Phase{
		ID:            DefaultPhaseID,
		Name:          "Arcade",
		RequiredLevel: 1,
	}
}

// EntryOptions holds per-entry play requirements
type EntryOptions struct {
	// Camera is the capture mode the entry requires
	Camera CameraMode
	// Passthrough entries consume raw video directly and skip pose estimation
	Passthrough bool
	// Phases in unlock order; empty means a single default phase
	Phases []Phase
}

// CatalogEntry is one registered playable unit with metadata and phase list.
// Immutable after registration except full replacement by id.
type CatalogEntry struct {
	ID      EntryID
	Title   string
	Icon    string
	Options EntryOptions
}

// PhaseStatus pairs a phase with its unlock state for a given profile
type PhaseStatus struct {
	Phase    Phase
	Unlocked bool
}
