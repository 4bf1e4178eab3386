package games

import (
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
)

// PoseStub is a placeholder unit for games whose rules are not implemented
// yet. It accrues one point per frame with a detected pose so the session
// flow, score sink and reward path are exercisable end to end.
type PoseStub struct {
	Base
	score int
}

// NewPoseStub creates a fresh stub unit
func NewPoseStub() *PoseStub {
	return &PoseStub{}
}

// Init resets the score for a new phase
func (u *PoseStub) Init(model.Phase) error {
	u.score = 0
	return nil
}

// Update scores one point per frame containing a pose
func (u *PoseStub) Update(_ RenderContext, p *pose.Pose) int {
	if p != nil {
		u.score++
	}
	return u.score
}

// PassthroughStub is a placeholder for camera-overlay games; it never
// receives pose data and its score only moves when the unit itself decides.
type PassthroughStub struct {
	Base
	score int
}

// NewPassthroughStub creates a fresh passthrough stub
func NewPassthroughStub() *PassthroughStub {
	return &PassthroughStub{}
}

// Update returns the current score unchanged per frame
func (u *PassthroughStub) Update(RenderContext, *pose.Pose) int {
	return u.score
}
