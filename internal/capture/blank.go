package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// BlankCamera produces black frames of a fixed size. It stands in for a real
// device when hands come from a mock detector.
type BlankCamera struct {
	width, height int
	mu            sync.Mutex
	running       bool
	fps           int
	reads         int
}

// NewBlankCamera returns a closed BlankCamera producing width x height frames.
func NewBlankCamera(width, height int) *BlankCamera {
	return &BlankCamera{width: width, height: height, fps: DefaultFPS}
}

func (c *BlankCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	return nil
}

func (c *BlankCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame returns a new zeroed BGR frame. The caller closes it.
func (c *BlankCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	c.reads++
	mat := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	return &mat, nil
}

func (c *BlankCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *BlankCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *BlankCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many frames have been handed out.
func (c *BlankCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
