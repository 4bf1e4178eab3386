package camera

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kinetikids/motionhub/internal/model"
)

// Capture resolution requested for every stream. The facing mode is a
// preference only; devices without the requested camera may fall back.
const (
	TargetWidth  = 640
	TargetHeight = 480
)

// Constraints describes a capture request
type Constraints struct {
	Width  int
	Height int
	Facing model.CameraMode
}

// Stream is one live capture stream. FrameReady reports whether the first
// frame metadata has arrived; Close stops every track of the stream.
type Stream interface {
	// WaitReady blocks until the first frame metadata is available
	WaitReady(ctx context.Context) error
	// FrameReady reports whether a frame is currently readable
	FrameReady() bool
	// Width and Height are the negotiated dimensions
	Width() int
	Height() int
	// Close stops all tracks and releases the device
	Close() error
}

// Device abstracts the platform capture stack
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Resource manages the kiosk's single capture stream. Real capture devices
// are exclusive, so at most one stream exists at a time: switching modes
// tears the old stream down before requesting the new one.
type Resource struct {
	device Device
	logger *slog.Logger

	mu     sync.Mutex
	mode   model.CameraMode
	stream Stream
}

// New creates a camera resource over the given device
func New(device Device, logger *slog.Logger) *Resource {
	return &Resource{
		device: device,
		logger: logger.With(slog.String("component", "camera")),
		mode:   model.CameraNone,
	}
}

// SwitchTo acquires a stream for the requested mode. Calling it again with
// the active mode is a no-op returning the existing stream. On failure the
// mode is left unset and no partial stream is retained, so a retry is
// possible.
func (r *Resource) SwitchTo(ctx context.Context, mode model.CameraMode) (Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mode == r.mode && r.stream != nil {
		return r.stream, nil
	}

	// Exclusive device: stop the old stream before requesting a new one
	if r.stream != nil {
		if err := r.stream.Close(); err != nil {
			r.logger.Warn("closing previous stream", slog.String("error", err.Error()))
		}
		r.stream = nil
		r.mode = model.CameraNone
	}

	stream, err := r.device.Open(ctx, Constraints{
		Width:  TargetWidth,
		Height: TargetHeight,
		Facing: mode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCameraUnavailable, err)
	}

	// Never hand out a stream the frame loop could read before its first
	// frame metadata has arrived.
	if err := stream.WaitReady(ctx); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %v", model.ErrCameraUnavailable, err)
	}

	r.stream = stream
	r.mode = mode
	r.logger.Info("camera stream acquired",
		slog.String("mode", string(mode)),
		slog.Int("width", stream.Width()),
		slog.Int("height", stream.Height()),
	)
	return stream, nil
}

// Release stops the active stream, if any
func (r *Resource) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		if err := r.stream.Close(); err != nil {
			r.logger.Warn("closing stream", slog.String("error", err.Error()))
		}
		r.stream = nil
	}
	r.mode = model.CameraNone
}

// Mode returns the active facing mode, or CameraNone
func (r *Resource) Mode() model.CameraMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Stream returns the active stream, or an error if none is held
func (r *Resource) Stream() (Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return nil, model.ErrNoStream
	}
	return r.stream, nil
}

// Mirrored reports the render mirror policy: only the front (selfie) camera
// is mirrored; rear streams render unmirrored for spatial correctness in
// augmented overlays.
func (r *Resource) Mirrored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode == model.CameraFront
}
