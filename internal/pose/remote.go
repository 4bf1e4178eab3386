package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FrameReader is an optional Source capability: sources that can surface raw
// frame bytes let the remote estimator ship pixels to the model service.
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// Remote talks to an out-of-process pose estimation service over HTTP. One
// request per frame; a 204 response means no person was detected.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote creates a remote estimator for the given endpoint
func NewRemote(url string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Remote{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Estimate posts the current frame and decodes the detected pose
func (r *Remote) Estimate(ctx context.Context, src Source) (*Pose, error) {
	var frame []byte
	if reader, ok := src.(FrameReader); ok {
		var err error
		frame, err = reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("reading frame: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(frame))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("estimator request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent:
		// No person in frame
		return nil, nil
	case http.StatusOK:
		var pose Pose
		if err := json.NewDecoder(resp.Body).Decode(&pose); err != nil {
			return nil, fmt.Errorf("decoding pose: %w", err)
		}
		return &pose, nil
	default:
		return nil, fmt.Errorf("estimator returned status %d", resp.StatusCode)
	}
}

// Nop is an estimator that never detects anyone. Used when no estimator
// endpoint is configured; passthrough and pose-tolerant units still run.
type Nop struct{}

// Estimate always reports no detection
func (Nop) Estimate(context.Context, Source) (*Pose, error) {
	return nil, nil
}

var (
	_ Estimator = (*Remote)(nil)
	_ Estimator = Nop{}
)
