package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/framing"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/particle"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Tray {
		if err := run(ctx, cfg, nil); err != nil {
			log.Error("mudra exited", "err", err)
			os.Exit(1)
		}
		return
	}

	// The tray owns the main thread on macOS.
	t := tray.New()
	t.OnQuit(stop)
	t.OnOpen(func() { openBrowser(viewerURL(cfg.Addr)) })

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, t)
		t.Quit()
	}()
	t.Run()
	stop()
	if err := <-done; err != nil {
		log.Error("mudra exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, t *tray.Tray) error {
	log.Info("starting mudra", "env", cfg.Env, "addr", cfg.Addr, "data_dir", cfg.DataDir)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cam, det := newCapture(cfg)

	plugins := plugin.NewManager(cfg.PluginDir)
	if err := plugins.Discover(); err != nil {
		log.Warn("plugin discovery failed", "dir", cfg.PluginDir, "err", err)
	}
	dispatcher := plugin.NewDispatcher(plugins, plugin.NewExecutor(app.TriggerTimeout),
		cfg.TriggerPlugin, cfg.TriggerAction)

	preview := capture.NewPreview()
	field := server.NewFieldHandler()

	framingCfg := framing.DefaultConfig()
	a := app.New(app.Config{
		Camera:     cam,
		Detector:   det,
		Store:      st,
		Preview:    preview,
		Dispatcher: dispatcher,
		Publisher:  field,
		Particles: particle.Config{
			Count:  cfg.ParticleCount,
			Radius: cfg.SphereRadius,
			Seed:   cfg.Seed,
		},
		Framing:   framingCfg,
		FPS:       cfg.FPS,
		DetectFPS: cfg.DetectFPS,
	})

	if t != nil {
		a.OnEvent(func(ev app.Event) {
			if ev.Kind == store.EventGesture {
				t.SetGesture(ev.Gesture.Category.String())
			}
		})
		t.OnToggle(a.SetTracking)
	}

	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Stop()

	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		log.Info("serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Preview:   preview,
		Field:     field,
		Status:    a,
	})
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info("shutting down")
	return nil
}

// newCapture picks the camera and detector. Without the MediaPipe service
// the mock detector is used with a blank camera.
func newCapture(cfg *config.Config) (capture.Camera, detector.Detector) {
	detCfg := detector.Config{MaxHands: cfg.MaxHands, MinConfidence: cfg.MinConfidence}

	if !cfg.MockDetector {
		mp, err := detector.NewMediaPipeDetector(detCfg)
		if err == nil {
			cam := capture.NewCamera(capture.Config{DeviceID: cfg.CameraID, FPS: cfg.DetectFPS})
			return cam, mp
		}
		log.Warn("mediapipe unavailable, using mock detector", "err", err)
	}

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	return capture.NewBlankCamera(640, 480), mock
}

// findWebDir searches for the renderer assets next to the working
// directory, then under dataDir/web.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	p := filepath.Join(dataDir, "web")
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p
	}
	return ""
}

func viewerURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		log.Warn("cannot open browser on this platform", "url", url)
		return
	}
	if err := cmd.Start(); err != nil && !errors.Is(err, exec.ErrNotFound) {
		log.Warn("failed to open browser", "url", url, "err", err)
	}
}
