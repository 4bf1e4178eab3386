package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
	"github.com/kinetikids/motionhub/internal/services/camera"
)

// frameLoop drives the active session. Ticks run sequentially on a single
// goroutine; a tick that overruns the interval delays the next one rather
// than running concurrently with it.
type frameLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the loop and waits for the current tick to complete. Safe to
// call while a tick is in flight; never call it from the loop goroutine.
func (l *frameLoop) stop() {
	l.cancel()
	<-l.done
}

// startLoop spawns the frame loop for the active unit. Called with c.mu held.
func (c *Controller) startLoop(entry *model.CatalogEntry, unit games.Unit, stream camera.Stream) *frameLoop {
	ctx, cancel := context.WithCancel(context.Background())
	loop := &frameLoop{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	rc := games.RenderContext{
		Width:    camera.TargetWidth,
		Height:   camera.TargetHeight,
		Mirrored: entry.Options.Camera == model.CameraFront,
	}
	if stream != nil {
		rc.Width = stream.Width()
		rc.Height = stream.Height()
	}
	passthrough := entry.Options.Passthrough

	go func() {
		defer close(loop.done)

		ticker := time.NewTicker(c.cfg.FrameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				outcome, finished := c.tick(ctx, rc, unit, stream, passthrough)
				if finished {
					// The unit ended its own session. The loop goroutine is
					// already past its last tick, so complete directly rather
					// than round-tripping through Finish, which would wait on
					// this goroutine
					c.detachLoop(loop)
					if err := c.completeSession(context.WithoutCancel(ctx), outcome); err != nil {
						c.logger.Error("completing unit-ended session failed",
							slog.String("error", err.Error()),
						)
					}
					return
				}
			}
		}
	}()

	return loop
}

// tick runs one frame: estimate the pose when a camera frame is readable,
// advance the unit, forward the score. Returns the unit's outcome when it
// reports completion.
func (c *Controller) tick(ctx context.Context, rc games.RenderContext, unit games.Unit, stream camera.Stream, passthrough bool) (games.Outcome, bool) {
	p := c.poseForFrame(ctx, stream, passthrough)

	score := unit.Update(rc, p)

	c.mu.Lock()
	changed := score != c.score
	c.score = score
	c.mu.Unlock()
	if changed {
		c.emit(model.EventScoreTick, model.ScoreTickPayload{Score: score})
	}

	if completer, ok := unit.(games.Completer); ok {
		if outcome, done := completer.Outcome(); done {
			return outcome, true
		}
	}
	return games.Outcome{}, false
}

// poseForFrame runs the estimator unless the unit is passthrough, there is no
// stream, or no frame is readable yet. Estimation failures degrade to a nil
// pose; the unit still gets its Update.
func (c *Controller) poseForFrame(ctx context.Context, stream camera.Stream, passthrough bool) *pose.Pose {
	if passthrough || stream == nil || c.estimator == nil {
		return nil
	}
	if !stream.FrameReady() {
		return nil
	}
	p, err := c.estimator.Estimate(ctx, stream)
	if err != nil {
		c.logger.Debug("pose estimation failed", slog.String("error", err.Error()))
		return nil
	}
	return p
}

// detachLoop clears the controller's loop reference if it still points at the
// given loop, so a later Abort or Finish doesn't wait on an exited goroutine
func (c *Controller) detachLoop(loop *frameLoop) {
	c.mu.Lock()
	if c.loop == loop {
		c.loop = nil
	}
	c.mu.Unlock()
}
