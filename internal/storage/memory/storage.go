package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage"
)

// watcherBuffer bounds pending snapshots per subscriber; a slow consumer
// drops intermediate snapshots rather than blocking writers.
const watcherBuffer = 16

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles      map[model.UserID]*model.Profile
	credentials   map[model.UserID]*model.Credentials
	usernameIndex map[string]model.UserID
	watchers      map[model.UserID][]chan *model.Profile
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:      make(map[model.UserID]*model.Profile),
		credentials:   make(map[model.UserID]*model.Credentials),
		usernameIndex: make(map[string]model.UserID),
		watchers:      make(map[model.UserID][]chan *model.Profile),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile.Clone()
	s.notifyLocked(profile.ID)
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.UserID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return profile.Clone(), nil
}

func (s *Storage) MergeProfile(ctx context.Context, id model.UserID, patch model.ProfilePatch) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}

	applyPatch(profile, patch)
	s.notifyLocked(id)
	return profile.Clone(), nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[id]; ok {
		delete(s.usernameIndex, strings.ToLower(profile.Username))
	}
	delete(s.profiles, id)
	delete(s.credentials, id)

	// Deletion terminates subscriptions
	for _, ch := range s.watchers[id] {
		close(ch)
	}
	delete(s.watchers, id)
	return nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]*model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p.Clone())
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Username < profiles[j].Username
	})
	return profiles, nil
}

func (s *Storage) WatchProfile(ctx context.Context, id model.UserID) (<-chan *model.Profile, error) {
	s.mu.Lock()
	ch := make(chan *model.Profile, watcherBuffer)
	s.watchers[id] = append(s.watchers[id], ch)

	// Emit the current snapshot immediately so subscribers start populated
	if profile, ok := s.profiles[id]; ok {
		ch <- profile.Clone()
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.removeWatcher(id, ch)
	}()

	return ch, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *creds
	s.credentials[creds.UserID] = &cp
	s.usernameIndex[strings.ToLower(creds.Username)] = creds.UserID
	return nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[strings.ToLower(username)]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	creds, ok := s.credentials[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	cp := *creds
	return &cp, nil
}

// notifyLocked fans the current snapshot out to all watchers of id.
// Callers must hold s.mu.
func (s *Storage) notifyLocked(id model.UserID) {
	profile, ok := s.profiles[id]
	if !ok {
		return
	}
	for _, ch := range s.watchers[id] {
		select {
		case ch <- profile.Clone():
		default:
			// Subscriber is behind; it will catch up on the next write
		}
	}
}

func (s *Storage) removeWatcher(id model.UserID, target chan *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	watchers := s.watchers[id]
	for i, ch := range watchers {
		if ch == target {
			s.watchers[id] = append(watchers[:i], watchers[i+1:]...)
			close(ch)
			return
		}
	}
}

// applyPatch applies a shallow merge to a profile in place and stamps the
// update time
func applyPatch(profile *model.Profile, patch model.ProfilePatch) {
	if patch.XP != nil {
		profile.XP = *patch.XP
	}
	if patch.Level != nil {
		profile.Level = *patch.Level
	}
	if patch.Coins != nil {
		profile.Coins = *patch.Coins
	}
	if patch.Permissions != nil {
		profile.Permissions = make(map[model.EntryID]bool, len(patch.Permissions))
		for id, granted := range patch.Permissions {
			profile.Permissions[id] = granted
		}
	}
	profile.UpdatedAt = time.Now()
}
