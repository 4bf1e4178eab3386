package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kinetikids/motionhub/internal/dependencies/mocks"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage/memory"
	"github.com/kinetikids/motionhub/internal/testutil"
)

// stubCatalog satisfies AllEntryLister with a fixed id set
type stubCatalog struct {
	ids []model.EntryID
}

func (c *stubCatalog) EntryIDs() []model.EntryID {
	return c.ids
}

type StoreSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	store   *Store
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = New(s.storage, &stubCatalog{ids: []model.EntryID{"dance", "stretch"}}, s.clock, Config{
		ReservedAdminName: "admin",
		DefaultEntryID:    "dance",
	}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.store.Detach()
}

// Bootstrap tests

func (s *StoreSuite) TestBootstrapPlayer() {
	prof, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)

	s.Equal(model.RolePlayer, prof.Role)
	s.Equal(1, prof.Level)
	s.Equal(0, prof.XP)
	s.Equal(0, prof.Coins)
	s.Equal(map[model.EntryID]bool{"dance": true}, prof.Permissions)
	s.Equal(s.clock.Now(), prof.CreatedAt)

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice", stored.Username)
}

func (s *StoreSuite) TestBootstrapReservedNameGrantsAdmin() {
	prof, err := s.store.Bootstrap(s.ctx, "user-1", "Admin")
	s.Require().NoError(err)

	s.Equal(model.RoleAdmin, prof.Role)
	s.Equal(map[model.EntryID]bool{"dance": true, "stretch": true}, prof.Permissions)
}

// Attach tests

func (s *StoreSuite) TestAttachMirrorsProfile() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	current, err := s.store.Current()
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), current.ID)
	s.Equal("alice", current.Username)
}

func (s *StoreSuite) TestAttachUnknownUserFails() {
	err := s.store.Attach(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StoreSuite) TestCurrentFailsWhenDetached() {
	_, err := s.store.Current()
	s.ErrorIs(err, model.ErrNotAttached)
}

func (s *StoreSuite) TestAttachReplacesPreviousAttachment() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	_, err = s.store.Bootstrap(s.ctx, "user-2", "bob")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))
	s.Require().NoError(s.store.Attach(s.ctx, "user-2"))

	current, err := s.store.Current()
	s.Require().NoError(err)
	s.Equal("bob", current.Username)
}

func (s *StoreSuite) TestDetachClearsMirror() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	s.store.Detach()

	_, err = s.store.Current()
	s.ErrorIs(err, model.ErrNotAttached)
}

// Live update tests

func (s *StoreSuite) TestExternalWritesReachTheMirror() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	coins := 50
	_, err = s.storage.MergeProfile(s.ctx, "user-1", model.ProfilePatch{Coins: &coins})
	s.Require().NoError(err)

	s.Eventually(func() bool {
		current, err := s.store.Current()
		return err == nil && current.Coins == 50
	}, time.Second, 5*time.Millisecond)
}

func (s *StoreSuite) TestSubscribeDeliversCurrentSnapshotImmediately() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	var mu sync.Mutex
	var seen []*model.Profile
	s.store.Subscribe(func(p *model.Profile) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})

	mu.Lock()
	s.Require().Len(seen, 1)
	s.Equal("alice", seen[0].Username)
	mu.Unlock()
}

func (s *StoreSuite) TestSubscribeObservesLiveUpdates() {
	_, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	var mu sync.Mutex
	var latest *model.Profile
	s.store.Subscribe(func(p *model.Profile) {
		mu.Lock()
		latest = p
		mu.Unlock()
	})

	level := 3
	_, err = s.storage.MergeProfile(s.ctx, "user-1", model.ProfilePatch{Level: &level})
	s.Require().NoError(err)

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Level == 3
	}, time.Second, 5*time.Millisecond)
}

// Persist tests

func (s *StoreSuite) TestPersistWritesProgressionOnly() {
	prof, err := s.store.Bootstrap(s.ctx, "user-1", "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Attach(s.ctx, "user-1"))

	prof.XP = 400
	prof.Level = 2
	prof.Coins = 75
	prof.Permissions = map[model.EntryID]bool{} // must not be written

	s.Require().NoError(s.store.Persist(s.ctx, prof))

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(400, stored.XP)
	s.Equal(2, stored.Level)
	s.Equal(75, stored.Coins)
	s.Equal(map[model.EntryID]bool{"dance": true}, stored.Permissions)
}

func (s *StoreSuite) TestPersistFailsWhenDetached() {
	prof := &model.Profile{ID: "user-1"}
	err := s.store.Persist(s.ctx, prof)
	s.ErrorIs(err, model.ErrNotAttached)
}
