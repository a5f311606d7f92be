package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Preview holds the most recent JPEG-encoded camera frame for the MJPEG
// stream. Frames are only encoded while at least one viewer is watching.
type Preview struct {
	mu      sync.RWMutex
	jpeg    []byte
	seq     uint64
	at      time.Time
	viewers int
}

// NewPreview returns an empty preview slot.
func NewPreview() *Preview {
	return &Preview{}
}

// Watch registers a viewer and returns a function that unregisters it.
func (p *Preview) Watch() (stop func()) {
	p.mu.Lock()
	p.viewers++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.viewers--
			p.mu.Unlock()
		})
	}
}

// Wanted reports whether anyone is watching.
func (p *Preview) Wanted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewers > 0
}

// Publish encodes frame as JPEG and stores it when a viewer is registered.
func (p *Preview) Publish(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() || !p.Wanted() {
		return nil
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return err
	}
	defer buf.Close()

	data := append([]byte(nil), buf.GetBytes()...)
	p.Store(data, time.Now())
	return nil
}

// Store replaces the latest frame with already-encoded JPEG bytes.
func (p *Preview) Store(jpeg []byte, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = jpeg
	p.seq++
	p.at = at
}

// Latest returns the newest frame and its sequence number. The sequence is
// zero before the first frame.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.seq
}
