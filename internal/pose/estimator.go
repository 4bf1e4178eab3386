// Package pose defines the interface to the external pose estimation model.
// Model loading and inference are opaque; the orchestrator only requests one
// estimate per frame and tolerates a nil result.
package pose

import "context"

// Keypoint is a single detected body landmark in source pixel coordinates
type Keypoint struct {
	Name  string
	X     float64
	Y     float64
	Score float64
}

// Pose is one detected person as an ordered list of keypoints
type Pose struct {
	Keypoints []Keypoint
	Score     float64
}

// Source is an opaque frame source the estimator can read from. The camera
// stream satisfies it; FrameReady gates per-tick estimation so the estimator
// never reads an unready source.
type Source interface {
	FrameReady() bool
}

// Estimator produces at most one pose per frame. Estimate may suspend; a nil
// pose with a nil error means no person was detected.
type Estimator interface {
	Estimate(ctx context.Context, src Source) (*Pose, error)
}
