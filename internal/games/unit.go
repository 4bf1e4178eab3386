// Package games defines the capability contract every playable unit satisfies
// and the built-in stub units the kiosk catalog seeds at startup.
package games

import (
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
)

// RenderContext describes the draw target for one frame. Units render through
// their own means; the orchestrator only supplies dimensions and the mirror
// policy of the active camera.
type RenderContext struct {
	Width    int
	Height   int
	Mirrored bool
}

// Unit is the contract a playable game satisfies. Update is the per-frame
// entry point and returns the current score; pose is nil for passthrough
// units and on frames where detection found nobody.
//
// Init and Cleanup are lifecycle hooks; embed Base to get no-op defaults.
type Unit interface {
	Init(phase model.Phase) error
	Update(rc RenderContext, p *pose.Pose) int
	Cleanup()
}

// Outcome is the terminal result a unit reports when its session ends
type Outcome struct {
	Score      int
	Win        bool
	BonusCoins int
}

// Completer is an optional capability: a unit that decides its own ending
// returns its outcome here. The frame loop polls it after every Update and
// finishes the session when done is true.
type Completer interface {
	Outcome() (outcome Outcome, done bool)
}

// Base provides no-op Init and Cleanup so units only implementing Update
// still satisfy the Unit contract.
type Base struct{}

// Init is a no-op
func (Base) Init(model.Phase) error { return nil }

// Cleanup is a no-op
func (Base) Cleanup() {}
