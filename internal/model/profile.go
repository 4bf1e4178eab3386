package model

import "time"

// UserID uniquely identifies a user; issued by the auth service
type UserID string

// Role determines which surfaces a profile may access
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// XPThreshold returns the XP required to advance from the given level
func XPThreshold(level int) int {
	return level * 1000
}

// Profile is the persistent record for a user: identity, role and progression
type Profile struct {
	ID       UserID
	Username string
	Role     Role

	// Progression; invariant: XP < XPThreshold(Level) after reward application
	XP    int
	Level int
	Coins int

	// Permissions is the set of catalog entry ids this profile may access.
	// Admins bypass permission checks at read time.
	Permissions map[EntryID]bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess reports whether the profile may see the given catalog entry
func (p *Profile) CanAccess(id EntryID) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Permissions[id]
}

// Clone returns a deep copy so mirrored snapshots can be handed out safely
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Permissions = make(map[EntryID]bool, len(p.Permissions))
	for id, granted := range p.Permissions {
		cp.Permissions[id] = granted
	}
	return &cp
}

// ProfilePatch is a shallow merge update: only non-nil fields are applied.
// The reward path writes progression fields only; permission and role changes
// go through the admin path so the two never race on the same fields.
type ProfilePatch struct {
	XP          *int
	Level       *int
	Coins       *int
	Permissions map[EntryID]bool // replaces the whole set when non-nil
}

// Credentials is the stored sign-in record for a username
type Credentials struct {
	UserID       UserID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
