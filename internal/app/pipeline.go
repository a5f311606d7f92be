package app

import (
	"context"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/store"
)

// tickLoop advances the scene once per display frame until ctx is done.
// It is the only goroutine that touches the field and its buffers.
func (a *App) tickLoop(ctx context.Context) {
	defer a.loops.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.step(ctx, now)
		}
	}
}

// step runs one complete tick at now: scene update, frame export, publish,
// then event and trigger hand-off.
func (a *App) step(ctx context.Context, now time.Time) Output {
	dt := now.Sub(a.lastTick).Seconds()
	a.lastTick = now

	out := a.scene.Tick(a.sctx, Input{
		Hands: a.latestHands(now),
		Dt:    dt,
		Now:   now,
	})

	f := a.frame
	a.scene.Field().Export(f.Positions, f.Colors)
	f.Tick = out.Tick
	f.TimestampMs = now.UnixMilli()
	f.Gesture = out.Gesture
	f.HandPresent = out.HandPresent
	f.Trigger = out.Trigger
	f.Camera = out.Camera

	a.mu.Lock()
	a.status = f.Status()
	a.mu.Unlock()

	if p := a.config.Publisher; p != nil {
		p.Publish(f)
	}

	if out.Gesture.Category != a.lastGesture {
		a.lastGesture = out.Gesture.Category
		a.enqueue(Event{Kind: store.EventGesture, Gesture: out.Gesture, At: now})
	}
	if out.Trigger {
		log.Info("double palm trigger", "tick", out.Tick)
		a.enqueue(Event{
			Kind:    store.EventTrigger,
			Gesture: gesture.Classification{Category: gesture.DoublePalm, Strength: 1},
			At:      now,
		})
		a.dispatch(ctx, now)
	}

	return out
}

// poseFeed reads camera frames and runs detection at the detection rate,
// keeping only the newest result. Failures are logged and stored as "no
// hands" so the tick loop never waits on the provider.
func (a *App) poseFeed(ctx context.Context) {
	defer a.loops.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.DetectFPS))
	defer ticker.Stop()

	var failing bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.Tracking() {
			continue
		}

		hands, err := a.detectOnce()
		if err != nil {
			if !failing {
				log.Warn("pose provider failed", "err", err)
				failing = true
			}
			hands = nil
		} else if failing {
			log.Info("pose provider recovered")
			failing = false
		}
		if !a.Tracking() {
			continue
		}
		a.setPose(hands, time.Now())
	}
}

func (a *App) detectOnce() ([]detector.HandLandmarks, error) {
	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	if pv := a.config.Preview; pv != nil {
		if err := pv.Publish(frame); err != nil {
			log.Debug("preview encode failed", "err", err)
		}
	}

	return a.config.Detector.Detect(frame)
}

func (a *App) setPose(hands []detector.HandLandmarks, at time.Time) {
	a.poseMu.Lock()
	defer a.poseMu.Unlock()
	a.poseHands = hands
	a.poseAt = at
}

// latestHands returns the newest detection, or nil if it is older than
// StaleAfter at now.
func (a *App) latestHands(now time.Time) []detector.HandLandmarks {
	a.poseMu.Lock()
	defer a.poseMu.Unlock()
	if a.poseAt.IsZero() || now.Sub(a.poseAt) > StaleAfter {
		return nil
	}
	return a.poseHands
}
