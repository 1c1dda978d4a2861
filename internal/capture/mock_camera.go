package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrStreamEnded is returned once a bounded mock stream runs out of frames.
var ErrStreamEnded = errors.New("frame stream ended")

// MockCamera is a scripted frame source for pipeline tests. It hands out
// fresh empty frames on demand; tests pair it with a scripted detector,
// so only frame delivery and lifecycle matter, never pixel content.
type MockCamera struct {
	mu        sync.Mutex
	open      bool
	fps       int
	remaining int
	served    int
}

// NewMockCamera creates a mock camera that serves up to frameCount
// frames per Open. A negative frameCount means an unbounded stream.
func NewMockCamera(frameCount int) *MockCamera {
	return &MockCamera{
		fps:       DefaultFPS,
		remaining: frameCount,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.served = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// ReadFrame serves the next frame. The caller closes the returned Mat,
// same contract as the real camera.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if c.remaining == 0 {
		return nil, ErrStreamEnded
	}
	if c.remaining > 0 {
		c.remaining--
	}
	c.served++

	mat := gocv.NewMat()
	return &mat, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Served reports how many frames have been read since the last Open.
func (c *MockCamera) Served() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.served
}
