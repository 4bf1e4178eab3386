package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kinetikids/motionhub/internal/dependencies/clock"
	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
	"github.com/kinetikids/motionhub/internal/services/camera"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/services/reward"
)

// Config holds session controller settings
type Config struct {
	// FrameInterval paces the cooperative frame loop; one tick per interval,
	// and a tick that overruns simply delays its successor
	FrameInterval time.Duration
	// Emitter receives session events for the front-end; nil means no events
	Emitter func(model.Event)
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
	}
}

// Controller is the top-level orchestrator driving a user through
// catalog -> phase selection -> active play -> results. It owns the current
// screen state, the active game unit and the per-frame loop, and composes
// the catalog, the camera resource, the pose estimator and the reward
// engine.
type Controller struct {
	catalog   *catalog.Service
	camera    *camera.Resource
	estimator pose.Estimator
	profiles  *profile.Store
	rewards   *reward.Service
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config

	mu     sync.Mutex
	state  model.SessionState
	entry  *model.CatalogEntry
	phase  *model.Phase
	unit   games.Unit
	loop   *frameLoop
	score  int
	notice string
	result *model.SessionResult

	// epoch identifies the current play session; bumped on session start and
	// on every teardown so a suspended completion can detect it lost the race
	epoch uint64
}

// NewController creates a session controller in the Auth state
func NewController(
	cat *catalog.Service,
	cam *camera.Resource,
	estimator pose.Estimator,
	profiles *profile.Store,
	rewards *reward.Service,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Controller{
		catalog:   cat,
		camera:    cam,
		estimator: estimator,
		profiles:  profiles,
		rewards:   rewards,
		clock:     clk,
		logger:    logger.With(slog.String("component", "session")),
		cfg:       cfg,
		state:     model.SessionStateAuth,
	}
}

// Snapshot is the externally visible session state
type Snapshot struct {
	State  model.SessionState
	Entry  *model.CatalogEntry
	Phase  *model.Phase
	Score  int
	Notice string
	Result *model.SessionResult
}

// Snapshot returns the current orchestrator state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:  c.state,
		Entry:  c.entry,
		Phase:  c.phase,
		Score:  c.score,
		Notice: c.notice,
		Result: c.result,
	}
}

// SignedIn moves Auth -> Menu after a profile has been attached
func (c *Controller) SignedIn() {
	c.mu.Lock()
	c.state = model.SessionStateMenu
	c.entry = nil
	c.phase = nil
	c.result = nil
	c.notice = ""
	c.mu.Unlock()
	c.emitState()
}

// SignedOut tears down any running session and returns to Auth
func (c *Controller) SignedOut() {
	c.stopLoopIfRunning()

	c.mu.Lock()
	if c.unit != nil {
		c.unit.Cleanup()
	}
	c.state = model.SessionStateAuth
	c.entry = nil
	c.phase = nil
	c.unit = nil
	c.score = 0
	c.notice = ""
	c.result = nil
	c.epoch++
	c.mu.Unlock()

	c.camera.Release()
	c.emitState()
}

// SelectEntry moves Menu -> PhaseSelect for a catalog entry the current
// profile may access
func (c *Controller) SelectEntry(id model.EntryID) error {
	prof, err := c.profiles.Current()
	if err != nil {
		return err
	}

	entry, err := c.catalog.Get(id)
	if err != nil {
		return err
	}
	if !prof.CanAccess(id) {
		return model.ErrEntryNotVisible
	}

	c.mu.Lock()
	if c.state != model.SessionStateMenu {
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	c.state = model.SessionStatePhaseSelect
	c.entry = entry
	c.phase = nil
	c.notice = ""
	c.mu.Unlock()

	c.emitState()
	return nil
}

// Phases returns the phase list with unlock states for the selected entry
func (c *Controller) Phases() ([]model.PhaseStatus, error) {
	prof, err := c.profiles.Current()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry := c.entry
	c.mu.Unlock()
	if entry == nil {
		return nil, model.ErrInvalidTransition
	}
	return c.catalog.PhasesFor(entry, prof), nil
}

// SelectPhase moves PhaseSelect -> Loading -> Active. A locked phase is a
// normal rejected transition: the state stays PhaseSelect and a transient
// notice is set. Camera acquisition failure keeps the Loading state with the
// mode unset so a retry is possible.
func (c *Controller) SelectPhase(ctx context.Context, phaseID model.PhaseID) error {
	prof, err := c.profiles.Current()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != model.SessionStatePhaseSelect && c.state != model.SessionStateLoading {
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	entry := c.entry
	c.mu.Unlock()

	var selected *model.Phase
	for _, ps := range c.catalog.PhasesFor(entry, prof) {
		if ps.Phase.ID == phaseID {
			if !ps.Unlocked {
				c.mu.Lock()
				c.notice = fmt.Sprintf("requires level %d", ps.Phase.RequiredLevel)
				c.mu.Unlock()
				return fmt.Errorf("%w: requires level %d", model.ErrPhaseLocked, ps.Phase.RequiredLevel)
			}
			phase := ps.Phase
			selected = &phase
			break
		}
	}
	if selected == nil {
		return model.ErrPhaseNotFound
	}

	c.mu.Lock()
	c.state = model.SessionStateLoading
	c.phase = selected
	c.notice = ""
	c.mu.Unlock()
	c.emitState()

	// Acquire the camera outside the lock; this suspends
	var stream camera.Stream
	if entry.Options.Camera != model.CameraNone {
		stream, err = c.camera.SwitchTo(ctx, entry.Options.Camera)
		if err != nil {
			c.logger.Warn("camera acquisition failed",
				slog.String("entry_id", string(entry.ID)),
				slog.String("error", err.Error()),
			)
			return err
		}
	}

	unit, err := c.catalog.Unit(entry.ID)
	if err != nil {
		return err
	}
	if err := unit.Init(*selected); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != model.SessionStateLoading {
		// Aborted while loading; don't start a stale loop
		c.mu.Unlock()
		unit.Cleanup()
		return model.ErrInvalidTransition
	}
	c.state = model.SessionStateActive
	c.unit = unit
	c.score = 0
	c.epoch++
	c.loop = c.startLoop(entry, unit, stream)
	c.mu.Unlock()

	c.logger.Info("session started",
		slog.String("entry_id", string(entry.ID)),
		slog.String("phase_id", string(selected.ID)),
	)
	c.emitState()
	return nil
}

// Finish is the session outcome sink: it ends the active session with the
// terminal score, computes and applies the reward, persists the profile and
// shows the results screen. The frame loop is cancelled synchronously before
// any state changes so no stale tick can fire against the torn-down context.
func (c *Controller) Finish(ctx context.Context, score int, win bool, bonusCoins int) error {
	c.mu.Lock()
	if c.state != model.SessionStateActive {
		c.mu.Unlock()
		return model.ErrSessionNotActive
	}
	loop := c.loop
	c.loop = nil
	c.mu.Unlock()

	if loop != nil {
		loop.stop()
	}
	return c.completeSession(ctx, games.Outcome{Score: score, Win: win, BonusCoins: bonusCoins})
}

// Dismiss moves Results -> Menu on explicit user dismissal, clearing the
// session context
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	if c.state != model.SessionStateResults {
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	c.state = model.SessionStateMenu
	c.entry = nil
	c.phase = nil
	c.unit = nil
	c.score = 0
	c.result = nil
	c.mu.Unlock()

	c.emitState()
	return nil
}

// Abort returns to the menu from any pre-results screen, cancelling the
// frame loop first if one is running
func (c *Controller) Abort() error {
	c.stopLoopIfRunning()

	c.mu.Lock()
	switch c.state {
	case model.SessionStatePhaseSelect, model.SessionStateLoading, model.SessionStateActive:
	default:
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	if c.unit != nil {
		c.unit.Cleanup()
	}
	c.state = model.SessionStateMenu
	c.entry = nil
	c.phase = nil
	c.unit = nil
	c.score = 0
	c.notice = ""
	c.epoch++
	c.mu.Unlock()

	c.emitState()
	return nil
}

// EnterAdmin moves Menu -> Admin; available only to admin-role profiles
func (c *Controller) EnterAdmin() error {
	prof, err := c.profiles.Current()
	if err != nil {
		return err
	}
	if !prof.IsAdmin() {
		return model.ErrNotAdmin
	}

	c.mu.Lock()
	if c.state != model.SessionStateMenu {
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	c.state = model.SessionStateAdmin
	c.mu.Unlock()

	c.emitState()
	return nil
}

// ExitAdmin moves Admin -> Menu
func (c *Controller) ExitAdmin() error {
	c.mu.Lock()
	if c.state != model.SessionStateAdmin {
		c.mu.Unlock()
		return model.ErrInvalidTransition
	}
	c.state = model.SessionStateMenu
	c.mu.Unlock()

	c.emitState()
	return nil
}

// completeSession runs the reward path once the loop is no longer ticking.
// The session epoch is captured up front and re-verified before the reward is
// persisted and before Results is committed: an Abort or sign-out landing
// while this path is suspended wins, and the torn-down session earns nothing.
func (c *Controller) completeSession(ctx context.Context, outcome games.Outcome) error {
	c.mu.Lock()
	if c.state != model.SessionStateActive {
		c.mu.Unlock()
		return model.ErrSessionNotActive
	}
	epoch := c.epoch
	entry := c.entry
	phase := c.phase
	unit := c.unit
	// Take ownership of the unit so a concurrent teardown can't clean it twice
	c.unit = nil
	c.mu.Unlock()

	if unit != nil {
		unit.Cleanup()
	}

	prof, err := c.profiles.Current()
	if err != nil {
		return err
	}

	result := c.rewards.Compute(outcome.Score, outcome.Win, outcome.BonusCoins)
	result = c.rewards.Apply(prof, result)
	rank := c.rewards.Rank(outcome.Score, outcome.Win)

	if !c.sessionStillCurrent(epoch) {
		return model.ErrSessionNotActive
	}

	if err := c.profiles.Persist(ctx, prof); err != nil {
		c.logger.Error("persisting reward failed", slog.String("error", err.Error()))
		return err
	}

	sessionResult := &model.SessionResult{
		EntryID:     entry.ID,
		PhaseID:     phase.ID,
		Score:       outcome.Score,
		Win:         outcome.Win,
		Reward:      result,
		Rank:        rank,
		CompletedAt: c.clock.Now(),
	}

	c.mu.Lock()
	if c.state != model.SessionStateActive || c.epoch != epoch {
		c.mu.Unlock()
		return model.ErrSessionNotActive
	}
	c.state = model.SessionStateResults
	c.result = sessionResult
	c.mu.Unlock()

	c.logger.Info("session completed",
		slog.String("entry_id", string(entry.ID)),
		slog.Int("score", outcome.Score),
		slog.Bool("win", outcome.Win),
		slog.String("rank", string(rank.Rank)),
		slog.Bool("leveled_up", result.LeveledUp),
	)

	c.emit(model.EventSessionComplete, model.SessionCompletePayload{Result: *sessionResult})
	c.emitState()
	return nil
}

// sessionStillCurrent reports whether the session identified by epoch is
// still the active one
func (c *Controller) sessionStillCurrent(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == model.SessionStateActive && c.epoch == epoch
}

func (c *Controller) stopLoopIfRunning() {
	c.mu.Lock()
	loop := c.loop
	c.loop = nil
	c.mu.Unlock()

	if loop != nil {
		loop.stop()
	}
}

func (c *Controller) emitState() {
	c.mu.Lock()
	payload := model.SessionStatePayload{State: c.state}
	if c.entry != nil {
		payload.EntryID = c.entry.ID
	}
	if c.phase != nil {
		payload.PhaseID = c.phase.ID
	}
	c.mu.Unlock()
	c.emit(model.EventSessionState, payload)
}

func (c *Controller) emit(eventType model.EventType, payload any) {
	if c.cfg.Emitter == nil {
		return
	}
	c.cfg.Emitter(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		Payload:   payload,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	Snapshot() Snapshot
	SignedIn()
	SignedOut()
	SelectEntry(id model.EntryID) error
	Phases() ([]model.PhaseStatus, error)
	SelectPhase(ctx context.Context, phaseID model.PhaseID) error
	Finish(ctx context.Context, score int, win bool, bonusCoins int) error
	Dismiss() error
	Abort() error
	EnterAdmin() error
	ExitAdmin() error
}

var _ ControllerInterface = (*Controller)(nil)
