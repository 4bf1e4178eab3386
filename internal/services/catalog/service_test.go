package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(testutil.NopLogger())
}

func (s *ServiceSuite) register(id model.EntryID, title string) {
	s.service.Register(id, title, "", games.NewPoseStub(), model.EntryOptions{Camera: model.CameraFront})
}

func (s *ServiceSuite) player(level int, entries ...model.EntryID) *model.Profile {
	permissions := make(map[model.EntryID]bool)
	for _, id := range entries {
		permissions[id] = true
	}
	return &model.Profile{
		ID:          "user-1",
		Role:        model.RolePlayer,
		Level:       level,
		Permissions: permissions,
	}
}

// Register tests

func (s *ServiceSuite) TestRegisterAndGet() {
	s.register("dance", "Dance Along")

	entry, err := s.service.Get("dance")
	s.Require().NoError(err)
	s.Equal("Dance Along", entry.Title)
	s.Equal(model.CameraFront, entry.Options.Camera)
}

func (s *ServiceSuite) TestGetUnknownEntry() {
	_, err := s.service.Get("nope")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *ServiceSuite) TestRegisterKeepsRegistrationOrder() {
	s.register("dance", "Dance Along")
	s.register("drive", "Drive Time")
	s.register("explore", "World Explorer")

	s.Equal([]model.EntryID{"dance", "drive", "explore"}, s.service.EntryIDs())
}

func (s *ServiceSuite) TestReRegisterReplacesInPlace() {
	s.register("dance", "Dance Along")
	s.register("drive", "Drive Time")
	s.register("explore", "World Explorer")

	s.register("drive", "Drive Time Deluxe")

	s.Equal([]model.EntryID{"dance", "drive", "explore"}, s.service.EntryIDs())

	entry, err := s.service.Get("drive")
	s.Require().NoError(err)
	s.Equal("Drive Time Deluxe", entry.Title)
}

func (s *ServiceSuite) TestRegisterNotifiesListeners() {
	calls := 0
	s.service.OnChange(func() { calls++ })

	s.register("dance", "Dance Along")
	s.register("dance", "Dance Along 2")

	s.Equal(2, calls)
}

func (s *ServiceSuite) TestUnitLookup() {
	unit := games.NewPassthroughStub()
	s.service.Register("explore", "World Explorer", "", unit, model.EntryOptions{Passthrough: true})

	got, err := s.service.Unit("explore")
	s.Require().NoError(err)
	s.Same(games.Unit(unit), got)
}

// Visibility tests

func (s *ServiceSuite) TestVisibleForFiltersByPermission() {
	s.register("dance", "Dance Along")
	s.register("drive", "Drive Time")
	s.register("explore", "World Explorer")

	visible := s.service.VisibleFor(s.player(1, "dance", "explore"))

	s.Require().Len(visible, 2)
	s.Equal(model.EntryID("dance"), visible[0].ID)
	s.Equal(model.EntryID("explore"), visible[1].ID)
}

func (s *ServiceSuite) TestVisibleForAdminSeesEverything() {
	s.register("dance", "Dance Along")
	s.register("drive", "Drive Time")

	adminProfile := &model.Profile{ID: "admin-1", Role: model.RoleAdmin}
	visible := s.service.VisibleFor(adminProfile)

	s.Len(visible, 2)
}

func (s *ServiceSuite) TestVisibleForRevokedEntryHidden() {
	s.register("dance", "Dance Along")

	profile := s.player(1, "dance")
	profile.Permissions["dance"] = false

	s.Empty(s.service.VisibleFor(profile))
}

// Phase tests

func (s *ServiceSuite) TestPhasesForDefaultsWhenEntryHasNone() {
	s.register("dance", "Dance Along")
	entry, _ := s.service.Get("dance")

	phases := s.service.PhasesFor(entry, s.player(1, "dance"))

	s.Require().Len(phases, 1)
	s.Equal(model.DefaultPhaseID, phases[0].Phase.ID)
	s.True(phases[0].Unlocked)
}

func (s *ServiceSuite) TestPhasesForUnlocksByLevel() {
	s.service.Register("dance", "Dance Along", "", games.NewPoseStub(), model.EntryOptions{
		Camera: model.CameraFront,
		Phases: []model.Phase{
			{ID: "arcade", Name: "Arcade", RequiredLevel: 1},
			{ID: "groove", Name: "Groove", RequiredLevel: 3},
			{ID: "marathon", Name: "Marathon", RequiredLevel: 5},
		},
	})
	entry, _ := s.service.Get("dance")

	phases := s.service.PhasesFor(entry, s.player(3, "dance"))

	s.Require().Len(phases, 3)
	s.True(phases[0].Unlocked)
	s.True(phases[1].Unlocked)
	s.False(phases[2].Unlocked)
}
