package profile

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/kinetikids/motionhub/internal/dependencies/clock"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage"
)

// Config holds profile store policy
type Config struct {
	// ReservedAdminName grants the admin role at registration when the
	// chosen username matches case-insensitively
	ReservedAdminName string
	// DefaultEntryID seeds every new player's permission set so nobody is
	// dropped into an empty catalog
	DefaultEntryID model.EntryID
}

// DefaultConfig returns default profile store configuration
func DefaultConfig() Config {
	return Config{
		ReservedAdminName: "admin",
		DefaultEntryID:    "dance",
	}
}

// AllEntryLister supplies the entry ids an admin's permission seed covers.
// The seed is taken at registration time only; entries registered later are
// not retroactively granted (admins bypass permission checks anyway).
type AllEntryLister interface {
	EntryIDs() []model.EntryID
}

// Store mirrors the authenticated user's persistent profile in memory.
// It holds a live subscription to the external store for the lifetime of the
// sign-in and notifies dependents on every emitted snapshot.
type Store struct {
	storage storage.Storage
	catalog AllEntryLister
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config

	mu      sync.RWMutex
	userID  model.UserID
	current *model.Profile
	cancel  context.CancelFunc
	done    chan struct{}

	listeners []func(*model.Profile)
}

// New creates a profile store
func New(st storage.Storage, catalog AllEntryLister, clk clock.Clock, cfg Config, logger *slog.Logger) *Store {
	if cfg.ReservedAdminName == "" {
		cfg.ReservedAdminName = DefaultConfig().ReservedAdminName
	}
	return &Store{
		storage: st,
		catalog: catalog,
		clock:   clk,
		logger:  logger.With(slog.String("component", "profile")),
		cfg:     cfg,
	}
}

// Attach opens the live subscription to the user's record. The first
// snapshot populates the mirror before Attach returns; subsequent snapshots
// replace it wholesale and notify dependents. A previous attachment is
// detached first.
func (s *Store) Attach(ctx context.Context, userID model.UserID) error {
	s.Detach()

	first, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	snapshots, err := s.storage.WatchProfile(watchCtx, userID)
	if err != nil {
		cancel()
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.userID = userID
	s.current = first
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.logger.Info("profile attached",
		slog.String("user_id", string(userID)),
		slog.String("username", first.Username),
		slog.String("role", string(first.Role)),
	)
	s.notify(first)

	go func() {
		defer close(done)
		for snapshot := range snapshots {
			s.mu.Lock()
			s.current = snapshot
			s.mu.Unlock()
			s.notify(snapshot)
		}
	}()

	return nil
}

// Detach closes the subscription and clears the mirror; called on sign-out
func (s *Store) Detach() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.userID = ""
	s.current = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		s.logger.Info("profile detached")
	}
}

// Current returns a copy of the mirrored profile, or an error when no user
// is attached
func (s *Store) Current() (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, model.ErrNotAttached
	}
	return s.current.Clone(), nil
}

// Subscribe registers a dependent notified on every snapshot. The current
// snapshot, if any, is delivered immediately.
func (s *Store) Subscribe(fn func(*model.Profile)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	current := s.current
	s.mu.Unlock()

	if current != nil {
		fn(current.Clone())
	}
}

// Persist writes the progression deltas back with a merge update. Only xp,
// level and coins are sent; permissions and role are never written from this
// path, so admin-side writes cannot be clobbered by a reward.
func (s *Store) Persist(ctx context.Context, profile *model.Profile) error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == "" {
		return model.ErrNotAttached
	}

	xp, level, coins := profile.XP, profile.Level, profile.Coins
	_, err := s.storage.MergeProfile(ctx, userID, model.ProfilePatch{
		XP:    &xp,
		Level: &level,
		Coins: &coins,
	})
	return err
}

// Bootstrap writes the full initial record for a new registration.
// The reserved admin name grants the admin role; admins are seeded with
// every entry registered so far, players with the single default entry.
func (s *Store) Bootstrap(ctx context.Context, userID model.UserID, username string) (*model.Profile, error) {
	role := model.RolePlayer
	if strings.EqualFold(username, s.cfg.ReservedAdminName) {
		role = model.RoleAdmin
	}

	permissions := make(map[model.EntryID]bool)
	if role == model.RoleAdmin {
		for _, id := range s.catalog.EntryIDs() {
			permissions[id] = true
		}
	} else if s.cfg.DefaultEntryID != "" {
		permissions[s.cfg.DefaultEntryID] = true
	}

	now := s.clock.Now()
	profile := &model.Profile{
		ID:          userID,
		Username:    username,
		Role:        role,
		XP:          0,
		Level:       1,
		Coins:       0,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile bootstrapped",
		slog.String("user_id", string(userID)),
		slog.String("username", username),
		slog.String("role", string(role)),
	)
	return profile, nil
}

func (s *Store) notify(profile *model.Profile) {
	s.mu.RLock()
	listeners := make([]func(*model.Profile), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(profile.Clone())
	}
}

// Interface for dependency injection
type StoreInterface interface {
	Attach(ctx context.Context, userID model.UserID) error
	Detach()
	Current() (*model.Profile, error)
	Subscribe(fn func(*model.Profile))
	Persist(ctx context.Context, profile *model.Profile) error
	Bootstrap(ctx context.Context, userID model.UserID, username string) (*model.Profile, error)
}

var _ StoreInterface = (*Store)(nil)
