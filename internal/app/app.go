// Package app wires pose detection, the gesture classifier and the particle
// field into a running scene.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/framing"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/particle"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline defaults.
const (
	DefaultFPS       = 60
	DefaultDetectFPS = 30
	// StaleAfter is how old a detection may be before the hands are
	// treated as gone.
	StaleAfter = 500 * time.Millisecond
	// TriggerTimeout bounds one plugin run.
	TriggerTimeout = 5 * time.Second
	eventQueueSize = 64
)

// ErrRunning is returned by Start when the pipeline is already running.
var ErrRunning = errors.New("app: already running")

// Publisher receives each completed frame. The frame and its buffers are
// reused by the next tick, so implementations must not retain them.
type Publisher interface {
	Publish(f *render.Frame)
}

// Config holds the collaborators and settings of an App. Store, Preview,
// Dispatcher and Publisher are optional.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Store      *store.Store
	Preview    *capture.Preview
	Dispatcher *plugin.Dispatcher
	Publisher  Publisher

	Particles particle.Config
	Framing   framing.Config
	FPS       int
	DetectFPS int
}

// App runs the tick loop, the pose feed and the event recorder.
type App struct {
	config Config
	scene  *Scene
	sctx   *Context
	frame  *render.Frame

	// latest detection, written by the pose feed and read by the tick loop
	poseMu    sync.Mutex
	poseHands []detector.HandLandmarks
	poseAt    time.Time

	tracking  bool
	status    render.Status
	session   *store.Session
	listeners []func(Event)
	mu        sync.RWMutex

	// tick-loop bookkeeping
	lastTick    time.Time
	lastGesture gesture.Category

	events  chan Event
	firing  atomic.Bool
	cancel  context.CancelFunc
	loops   sync.WaitGroup
	workers sync.WaitGroup
	running bool
}

// Event is a gesture change or trigger surfaced to listeners and the store.
type Event struct {
	Kind    store.EventKind
	Gesture gesture.Classification
	At      time.Time
}

// New creates an App. Zero rates and particle settings take their defaults.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.DetectFPS <= 0 {
		config.DetectFPS = DefaultDetectFPS
	}
	if config.Particles.Count <= 0 {
		config.Particles = particle.DefaultConfig()
	}
	if config.Framing.Bound <= 0 {
		config.Framing = framing.DefaultConfig()
	}

	field := particle.NewField(config.Particles)
	return &App{
		config:   config,
		scene:    NewScene(field, config.Framing.Bound),
		sctx:     NewContext(config.Framing),
		frame:    render.NewFrame(field.Len()),
		tracking: true,
	}
}

// OnEvent registers fn to be called for every gesture change and trigger.
// Callbacks run on the recorder goroutine.
func (a *App) OnEvent(fn func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// SetTracking enables or disables the pose feed. While disabled the scene
// keeps ticking with no hands.
func (a *App) SetTracking(enabled bool) {
	a.mu.Lock()
	a.tracking = enabled
	a.mu.Unlock()

	if !enabled {
		a.setPose(nil, time.Time{})
	}
	log.Info("tracking toggled", "enabled", enabled)
}

// Tracking reports whether the pose feed is enabled.
func (a *App) Tracking() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracking
}

// Status returns the header of the most recent frame.
func (a *App) Status() render.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Session returns the store session of the current run, or nil.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// ParticleCount returns the size of the field.
func (a *App) ParticleCount() int {
	return a.scene.Field().Len()
}

// Start opens the camera, records a new session and launches the pipeline
// goroutines. It returns once they are running.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return ErrRunning
	}

	if a.config.Camera != nil {
		if err := a.config.Camera.Open(); err != nil {
			return fmt.Errorf("open camera: %w", err)
		}
		a.config.Camera.SetFPS(a.config.DetectFPS)
	}

	now := time.Now()
	if a.config.Store != nil {
		sess, err := a.config.Store.Sessions().Start(a.scene.Field().Len(), now)
		if err != nil {
			log.Warn("failed to record session", "err", err)
		} else {
			a.session = sess
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.events = make(chan Event, eventQueueSize)
	a.lastTick = now
	a.running = true

	a.workers.Add(1)
	go a.record(a.events)

	a.loops.Add(1)
	go a.tickLoop(ctx)
	if a.config.Camera != nil && a.config.Detector != nil {
		a.loops.Add(1)
		go a.poseFeed(ctx)
	}

	log.Info("pipeline started",
		"particles", a.scene.Field().Len(),
		"fps", a.config.FPS,
		"detect_fps", a.config.DetectFPS)
	return nil
}

// Stop halts the pipeline, waits for in-flight work, closes the session
// and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	cancel := a.cancel
	a.mu.Unlock()

	cancel()
	a.loops.Wait()
	close(a.events)
	a.workers.Wait()

	if sess := a.Session(); sess != nil {
		if err := a.config.Store.Sessions().End(sess.ID, time.Now()); err != nil {
			log.Warn("failed to close session", "session", sess.ID, "err", err)
		}
	}

	if a.config.Camera != nil {
		if err := a.config.Camera.Close(); err != nil {
			log.Warn("error closing camera", "err", err)
		}
	}
	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			log.Warn("error closing detector", "err", err)
		}
	}

	log.Info("pipeline stopped")
}

// record persists events and notifies listeners until events is closed.
func (a *App) record(events <-chan Event) {
	defer a.workers.Done()

	for ev := range events {
		if sess := a.Session(); sess != nil {
			err := a.config.Store.Events().Record(&store.Event{
				SessionID:  sess.ID,
				Kind:       ev.Kind,
				Category:   ev.Gesture.Category.String(),
				Strength:   ev.Gesture.Strength,
				OccurredAt: ev.At,
			})
			if err != nil {
				log.Warn("failed to record event", "kind", ev.Kind, "err", err)
			}
		}

		a.mu.RLock()
		listeners := a.listeners
		a.mu.RUnlock()
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// enqueue hands ev to the recorder without blocking the tick loop.
func (a *App) enqueue(ev Event) {
	select {
	case a.events <- ev:
	default:
		log.Warn("event queue full, dropping event", "kind", ev.Kind, "gesture", ev.Gesture.Category)
	}
}

// dispatch runs the trigger plugin in the background. Triggers arriving
// while a run is in flight are dropped.
func (a *App) dispatch(ctx context.Context, at time.Time) {
	d := a.config.Dispatcher
	if d == nil {
		return
	}
	if !a.firing.CompareAndSwap(false, true) {
		log.Debug("trigger plugin busy, skipping")
		return
	}

	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		defer a.firing.Store(false)

		ctx, cancel := context.WithTimeout(ctx, TriggerTimeout)
		defer cancel()

		name, action := d.Target()
		if _, err := d.Fire(ctx, gesture.DoublePalm.String(), at); err != nil {
			log.Warn("trigger plugin failed", "plugin", name, "action", action, "err", err)
			return
		}
		log.Debug("trigger plugin ran", "plugin", name, "action", action)
	}()
}
