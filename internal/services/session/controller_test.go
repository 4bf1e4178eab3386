package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kinetikids/motionhub/internal/dependencies/mocks"
	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
	"github.com/kinetikids/motionhub/internal/services/camera"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/services/reward"
	"github.com/kinetikids/motionhub/internal/storage/memory"
	"github.com/kinetikids/motionhub/internal/testutil"
)

// scriptedUnit is a unit whose score advances by ten per frame. When doneAt
// is set it reports its outcome once that many updates have run.
type scriptedUnit struct {
	games.Base

	mu       sync.Mutex
	updates  int
	cleanups int
	doneAt   int
	outcome  games.Outcome
}

func (u *scriptedUnit) Update(rc games.RenderContext, p *pose.Pose) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.updates++
	return u.updates * 10
}

func (u *scriptedUnit) Cleanup() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cleanups++
}

func (u *scriptedUnit) Outcome() (games.Outcome, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.doneAt > 0 && u.updates >= u.doneAt {
		return u.outcome, true
	}
	return games.Outcome{}, false
}

func (u *scriptedUnit) cleanupCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cleanups
}

// interruptingUnit runs a callback from Cleanup, standing in for a player
// navigating away while the completion path is suspended
type interruptingUnit struct {
	scriptedUnit
	onCleanup func()
}

func (u *interruptingUnit) Cleanup() {
	u.scriptedUnit.Cleanup()
	if u.onCleanup != nil {
		u.onCleanup()
	}
}

// eventRecorder collects emitted events for assertions
type eventRecorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *eventRecorder) record(e model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]model.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	catalog    *catalog.Service
	camera     *camera.Resource
	profiles   *profile.Store
	rewards    *reward.Service
	clock      *mocks.MockClock
	recorder   *eventRecorder
	unit       *scriptedUnit
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()

	s.storage = memory.New()
	s.catalog = catalog.New(logger)
	s.camera = camera.New(camera.NewSimDevice(), logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.profiles = profile.New(s.storage, s.catalog, s.clock, profile.Config{
		ReservedAdminName: "admin",
		DefaultEntryID:    "dance",
	}, logger)
	s.rewards = reward.New()
	s.recorder = &eventRecorder{}
	s.ctx = context.Background()

	s.unit = &scriptedUnit{}
	s.catalog.Register("dance", "Dance Off", "dance.png", s.unit, model.EntryOptions{
		Camera: model.CameraFront,
		Phases: []model.Phase{
			{ID: "arcade", Name: "Arcade", RequiredLevel: 1},
			{ID: "marathon", Name: "Marathon", RequiredLevel: 5},
		},
	})
	s.catalog.Register("hidden", "Hidden", "hidden.png", &scriptedUnit{}, model.EntryOptions{
		Camera: model.CameraFront,
	})

	s.controller = NewController(
		s.catalog, s.camera, pose.Nop{}, s.profiles, s.rewards, s.clock,
		Config{FrameInterval: 2 * time.Millisecond, Emitter: s.recorder.record},
		logger,
	)
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.SignedOut()
	s.profiles.Detach()
}

// signIn bootstraps a fresh profile, attaches it and moves the controller
// into the menu
func (s *ControllerSuite) signIn(username string) *model.Profile {
	prof, err := s.profiles.Bootstrap(s.ctx, model.UserID("user-"+username), username)
	s.Require().NoError(err)
	s.Require().NoError(s.profiles.Attach(s.ctx, prof.ID))
	s.controller.SignedIn()
	return prof
}

// startSession drives the controller to the Active state on the dance entry
func (s *ControllerSuite) startSession() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))
	s.Require().NoError(s.controller.SelectPhase(s.ctx, "arcade"))
	s.Require().Equal(model.SessionStateActive, s.controller.Snapshot().State)
}

// State machine tests

func (s *ControllerSuite) TestStartsInAuthState() {
	s.Equal(model.SessionStateAuth, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestSignedInMovesToMenu() {
	s.signIn("kid")
	s.Equal(model.SessionStateMenu, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestSelectEntryFailsBeforeSignIn() {
	err := s.controller.SelectEntry("dance")
	s.ErrorIs(err, model.ErrNotAttached)
}

func (s *ControllerSuite) TestSelectEntryMovesToPhaseSelect() {
	s.signIn("kid")

	err := s.controller.SelectEntry("dance")
	s.Require().NoError(err)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStatePhaseSelect, snap.State)
	s.Require().NotNil(snap.Entry)
	s.Equal(model.EntryID("dance"), snap.Entry.ID)
}

func (s *ControllerSuite) TestSelectEntryUnknownFails() {
	s.signIn("kid")
	err := s.controller.SelectEntry("nonexistent")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *ControllerSuite) TestSelectEntryWithoutPermissionFails() {
	s.signIn("kid")

	err := s.controller.SelectEntry("hidden")
	s.ErrorIs(err, model.ErrEntryNotVisible)
	s.Equal(model.SessionStateMenu, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestPhasesReportUnlockState() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))

	phases, err := s.controller.Phases()
	s.Require().NoError(err)
	s.Require().Len(phases, 2)
	s.True(phases[0].Unlocked)
	s.False(phases[1].Unlocked)
}

func (s *ControllerSuite) TestPhasesFailWithoutSelectedEntry() {
	s.signIn("kid")
	_, err := s.controller.Phases()
	s.ErrorIs(err, model.ErrInvalidTransition)
}

// Phase selection tests

func (s *ControllerSuite) TestSelectLockedPhaseStaysInPhaseSelect() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))

	err := s.controller.SelectPhase(s.ctx, "marathon")
	s.ErrorIs(err, model.ErrPhaseLocked)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStatePhaseSelect, snap.State)
	s.Equal("requires level 5", snap.Notice)
}

func (s *ControllerSuite) TestSelectUnknownPhaseFails() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))

	err := s.controller.SelectPhase(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPhaseNotFound)
}

func (s *ControllerSuite) TestSelectPhaseStartsActiveSession() {
	s.startSession()

	snap := s.controller.Snapshot()
	s.Require().NotNil(snap.Phase)
	s.Equal(model.PhaseID("arcade"), snap.Phase.ID)
	s.Equal(model.CameraFront, s.camera.Mode())
	s.True(s.camera.Mirrored())
}

func (s *ControllerSuite) TestSelectPhaseClearsLockNotice() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))
	_ = s.controller.SelectPhase(s.ctx, "marathon")
	s.Require().NotEmpty(s.controller.Snapshot().Notice)

	s.Require().NoError(s.controller.SelectPhase(s.ctx, "arcade"))
	s.Empty(s.controller.Snapshot().Notice)
}

// Completion tests

func (s *ControllerSuite) TestFinishAppliesRewardAndPersists() {
	s.startSession()

	err := s.controller.Finish(s.ctx, 500, true, 0)
	s.Require().NoError(err)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStateResults, snap.State)
	s.Require().NotNil(snap.Result)
	s.Equal(500, snap.Result.Score)
	s.True(snap.Result.Win)
	s.Equal(1000, snap.Result.Reward.XPGained)
	s.Equal(100, snap.Result.Reward.CoinsGained)
	s.True(snap.Result.Reward.LeveledUp)
	s.Equal(model.RankC, snap.Result.Rank.Rank)
	s.Equal(s.clock.Now(), snap.Result.CompletedAt)

	// 1000 xp crosses the level-1 threshold exactly
	stored, err := s.storage.GetProfile(s.ctx, "user-kid")
	s.Require().NoError(err)
	s.Equal(2, stored.Level)
	s.Equal(0, stored.XP)
	s.Equal(100, stored.Coins)
}

func (s *ControllerSuite) TestFinishCleansUpUnit() {
	s.startSession()

	s.Require().NoError(s.controller.Finish(s.ctx, 100, true, 0))
	s.Equal(1, s.unit.cleanupCount())
}

func (s *ControllerSuite) TestFinishFailsWhenNotActive() {
	s.signIn("kid")
	err := s.controller.Finish(s.ctx, 100, true, 0)
	s.ErrorIs(err, model.ErrSessionNotActive)
}

func (s *ControllerSuite) TestUnitEndsItsOwnSession() {
	s.signIn("kid")
	s.unit.doneAt = 3
	s.unit.outcome = games.Outcome{Score: 900, Win: true, BonusCoins: 5}
	s.Require().NoError(s.controller.SelectEntry("dance"))
	s.Require().NoError(s.controller.SelectPhase(s.ctx, "arcade"))

	s.Eventually(func() bool {
		return s.controller.Snapshot().State == model.SessionStateResults
	}, time.Second, 5*time.Millisecond)

	snap := s.controller.Snapshot()
	s.Require().NotNil(snap.Result)
	s.Equal(900, snap.Result.Score)
	s.Equal(model.RankA, snap.Result.Rank.Rank)
	// 900*2 xp plus the bonus coins on top of 900*0.2
	s.Equal(1800, snap.Result.Reward.XPGained)
	s.Equal(185, snap.Result.Reward.CoinsGained)
}

func (s *ControllerSuite) TestAbortDuringCompletionWins() {
	unit := &interruptingUnit{}
	unit.onCleanup = func() { _ = s.controller.Abort() }
	s.catalog.Register("dance", "Dance Off", "dance.png", unit, model.EntryOptions{
		Camera: model.CameraFront,
		Phases: []model.Phase{
			{ID: "arcade", Name: "Arcade", RequiredLevel: 1},
		},
	})

	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))
	s.Require().NoError(s.controller.SelectPhase(s.ctx, "arcade"))

	err := s.controller.Finish(s.ctx, 100, true, 0)
	s.ErrorIs(err, model.ErrSessionNotActive)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStateMenu, snap.State)
	s.Nil(snap.Result)
	s.Equal(1, unit.cleanupCount())

	// The aborted session earned nothing
	stored, err := s.storage.GetProfile(s.ctx, "user-kid")
	s.Require().NoError(err)
	s.Equal(0, stored.XP)
	s.Equal(1, stored.Level)
	s.Equal(0, stored.Coins)
}

func (s *ControllerSuite) TestDismissReturnsToMenu() {
	s.startSession()
	s.Require().NoError(s.controller.Finish(s.ctx, 100, true, 0))

	err := s.controller.Dismiss()
	s.Require().NoError(err)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStateMenu, snap.State)
	s.Nil(snap.Entry)
	s.Nil(snap.Result)
}

func (s *ControllerSuite) TestDismissFailsOutsideResults() {
	s.signIn("kid")
	s.ErrorIs(s.controller.Dismiss(), model.ErrInvalidTransition)
}

// Abort tests

func (s *ControllerSuite) TestAbortActiveSessionReturnsToMenu() {
	s.startSession()

	err := s.controller.Abort()
	s.Require().NoError(err)

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStateMenu, snap.State)
	s.Nil(snap.Entry)
	s.Equal(0, snap.Score)
	s.Equal(1, s.unit.cleanupCount())
}

func (s *ControllerSuite) TestAbortFromPhaseSelect() {
	s.signIn("kid")
	s.Require().NoError(s.controller.SelectEntry("dance"))

	s.Require().NoError(s.controller.Abort())
	s.Equal(model.SessionStateMenu, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestAbortFailsInMenu() {
	s.signIn("kid")
	s.ErrorIs(s.controller.Abort(), model.ErrInvalidTransition)
}

// Sign-out tests

func (s *ControllerSuite) TestSignedOutTearsDownEverything() {
	s.startSession()

	s.controller.SignedOut()

	snap := s.controller.Snapshot()
	s.Equal(model.SessionStateAuth, snap.State)
	s.Nil(snap.Entry)
	s.Nil(snap.Phase)
	s.Equal(model.CameraNone, s.camera.Mode())
	s.Equal(1, s.unit.cleanupCount())
}

// Admin tests

func (s *ControllerSuite) TestEnterAdminRejectsPlayers() {
	s.signIn("kid")
	s.ErrorIs(s.controller.EnterAdmin(), model.ErrNotAdmin)
	s.Equal(model.SessionStateMenu, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestAdminRoundTrip() {
	s.signIn("admin")

	s.Require().NoError(s.controller.EnterAdmin())
	s.Equal(model.SessionStateAdmin, s.controller.Snapshot().State)

	s.Require().NoError(s.controller.ExitAdmin())
	s.Equal(model.SessionStateMenu, s.controller.Snapshot().State)
}

func (s *ControllerSuite) TestExitAdminFailsOutsideAdmin() {
	s.signIn("admin")
	s.ErrorIs(s.controller.ExitAdmin(), model.ErrInvalidTransition)
}

// Event tests

func (s *ControllerSuite) TestScoreTicksAreEmittedWhileActive() {
	s.startSession()
	defer func() { _ = s.controller.Abort() }()

	s.Eventually(func() bool {
		return s.controller.Snapshot().Score > 0
	}, time.Second, 5*time.Millisecond)

	s.Contains(s.recorder.types(), model.EventScoreTick)
}

func (s *ControllerSuite) TestCompletionEmitsSessionComplete() {
	s.startSession()
	s.Require().NoError(s.controller.Finish(s.ctx, 100, true, 0))

	types := s.recorder.types()
	s.Contains(types, model.EventSessionComplete)
	s.Contains(types, model.EventSessionState)
}
