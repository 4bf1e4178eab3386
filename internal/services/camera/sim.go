package camera

import (
	"context"
	"errors"
	"sync"
)

// ErrStreamClosed is returned when a closed stream is used
var ErrStreamClosed = errors.New("stream closed")

// SimDevice stands in for the kiosk capture hardware. Streams it opens are
// ready immediately and report the requested dimensions. It also serves as
// the backend for kiosks running without a connected camera.
type SimDevice struct{}

// NewSimDevice creates a simulated capture device
func NewSimDevice() *SimDevice {
	return &SimDevice{}
}

// Open returns a ready stream with the requested dimensions
func (d *SimDevice) Open(_ context.Context, constraints Constraints) (Stream, error) {
	return &simStream{
		width:  constraints.Width,
		height: constraints.Height,
	}, nil
}

type simStream struct {
	width  int
	height int

	mu     sync.Mutex
	closed bool
}

func (s *simStream) WaitReady(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	return nil
}

func (s *simStream) FrameReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *simStream) Width() int  { return s.width }
func (s *simStream) Height() int { return s.height }

func (s *simStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Device = (*SimDevice)(nil)
