package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage/memory"
	"github.com/kinetikids/motionhub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) seedProfile(id model.UserID, username string, coins int) {
	err := s.storage.SaveProfile(s.ctx, &model.Profile{
		ID:          id,
		Username:    username,
		Role:        model.RolePlayer,
		Level:       1,
		Coins:       coins,
		Permissions: map[model.EntryID]bool{"dance": true},
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
}

// ListProfiles tests

func (s *ServiceSuite) TestListProfilesSortedByUsername() {
	s.seedProfile("user-2", "bob", 0)
	s.seedProfile("user-1", "alice", 0)

	profiles, err := s.service.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("alice", profiles[0].Username)
	s.Equal("bob", profiles[1].Username)
}

func (s *ServiceSuite) TestListProfilesEmpty() {
	profiles, err := s.service.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Empty(profiles)
}

// SetPermission tests

func (s *ServiceSuite) TestGrantPermission() {
	s.seedProfile("user-1", "alice", 0)

	updated, err := s.service.SetPermission(s.ctx, "user-1", "stretch", true)
	s.Require().NoError(err)
	s.True(updated.Permissions["stretch"])
	s.True(updated.Permissions["dance"])

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.True(stored.Permissions["stretch"])
}

func (s *ServiceSuite) TestRevokePermission() {
	s.seedProfile("user-1", "alice", 0)

	updated, err := s.service.SetPermission(s.ctx, "user-1", "dance", false)
	s.Require().NoError(err)
	s.False(updated.Permissions["dance"])

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.False(stored.Permissions["dance"])
}

func (s *ServiceSuite) TestSetPermissionUnknownUserFails() {
	_, err := s.service.SetPermission(s.ctx, "nonexistent", "dance", true)
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// GiftCoins tests

func (s *ServiceSuite) TestGiftCoinsAddsToBalance() {
	s.seedProfile("user-1", "alice", 25)

	updated, err := s.service.GiftCoins(s.ctx, "user-1", 100)
	s.Require().NoError(err)
	s.Equal(125, updated.Coins)

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(125, stored.Coins)
}

func (s *ServiceSuite) TestGiftCoinsRejectsZero() {
	s.seedProfile("user-1", "alice", 25)

	_, err := s.service.GiftCoins(s.ctx, "user-1", 0)
	s.ErrorIs(err, model.ErrInvalidGiftAmount)
}

func (s *ServiceSuite) TestGiftCoinsRejectsNegativeWithoutWriting() {
	s.seedProfile("user-1", "alice", 25)

	_, err := s.service.GiftCoins(s.ctx, "user-1", -10)
	s.ErrorIs(err, model.ErrInvalidGiftAmount)

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(25, stored.Coins)
}

func (s *ServiceSuite) TestGiftCoinsUnknownUserFails() {
	_, err := s.service.GiftCoins(s.ctx, "nonexistent", 10)
	s.ErrorIs(err, model.ErrProfileNotFound)
}
