// Package app provides the main application logic for the Mudra gesture mouse.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/output"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultFPS is the frame rate of the tracking pipeline. Cursor control
// needs continuous tracking, so there is no idle mode.
const DefaultFPS = 30

// Publisher receives pipeline notifications (gesture events, calibration
// progress, mode changes) for broadcast to connected clients.
type Publisher interface {
	Publish(v any)
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	Settings     config.Config
	ScreenWidth  int
	ScreenHeight int

	// Injector performs the OS-level input. Defaults to the robotgo
	// implementation when nil.
	Injector output.Injector

	// Publisher receives pipeline notifications. May be nil.
	Publisher Publisher
}

// App orchestrates the capture, detection, engine and output stages.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	engine     *engine.Engine
	mapper     *mapping.Mapper
	dispatcher *output.Dispatcher

	// OnModeChange is invoked from the pipeline goroutine whenever the
	// mapping mode changes. May be nil.
	OnModeChange func(mode mapping.Mode)

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	settings := cfg.Settings

	a := &App{
		config:  cfg,
		camera:  capture.NewCamera(cfg.CameraID),
		enabled: true,
	}

	// Stored runtime state overrides the config file.
	mode := mapping.ScreenMode
	if cfg.Store != nil {
		if v, err := cfg.Store.Settings().Get(store.SettingSmoothingAlpha); err == nil {
			if alpha, err := strconv.ParseFloat(v, 64); err == nil {
				settings.Gestures.SmoothingAlpha = alpha
			}
		}
		if v, err := cfg.Store.Settings().Get(store.SettingMode); err == nil && v == "table" {
			mode = mapping.TableMode
		}
	}

	a.mapper = mapping.NewMapper(cfg.ScreenWidth, cfg.ScreenHeight)
	a.mapper.SetMode(mode)

	hold := time.Duration(settings.Gestures.CalibrationHold * float64(time.Second))
	calibrator := mapping.NewCalibrator(hold, config.HoldTolerance,
		cfg.ScreenWidth, cfg.ScreenHeight)

	machine := engine.DefaultMachineConfig()
	machine.DoubleClickWindow = time.Duration(settings.Gestures.DoubleClickWindow * float64(time.Second))
	machine.ZoomInFactor = settings.Gestures.ZoomInFactor
	machine.ZoomOutFactor = settings.Gestures.ZoomOutFactor

	a.engine = engine.New(engine.Config{
		Classifier:   engine.NewClassifier(settings.Gestures.PinchDistance),
		Machine:      machine,
		Smoothing:    settings.Gestures.SmoothingAlpha,
		Mapper:       a.mapper,
		Calibrator:   calibrator,
		OnCalibrated: a.saveCalibration,
	})

	injector := cfg.Injector
	if injector == nil {
		injector = output.NewRobotInjector()
	}
	a.dispatcher = output.NewDispatcher(injector, cfg.ScreenWidth, cfg.ScreenHeight,
		settings.Gestures.ZoomInFactor, settings.Gestures.ZoomOutFactor)

	// Try MediaPipe first, fall back to mock detector
	detConfig := detector.DefaultConfig()
	detConfig.MinConfidence = settings.Detection.MinDetectionConfidence
	detConfig.MinTrackingConf = settings.Detection.MinTrackingConfidence
	if mp, err := detector.NewMediaPipeDetector(detConfig); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// Engine exposes the gesture engine command surface (Enqueue, Mode,
// Calibrating, SmoothingAlpha) for the server and tray.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Camera returns the capture source, used by the preview stream.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// SetEnabled enables or disables gesture control. Disabling takes effect
// on the next pipeline tick, which closes any in-progress gesture before
// going quiet.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the capture source. Must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// LoadCalibration installs the most recent persisted calibration, if any.
func (a *App) LoadCalibration() error {
	if a.config.Store == nil {
		return nil
	}

	cal, err := a.config.Store.Calibrations().Latest()
	if err != nil {
		if err == store.ErrNotFound {
			return nil
		}
		return err
	}

	a.mapper.SetHomography(mapping.NewHomography(cal.Matrix))
	log.Printf("Loaded calibration %s from %s", cal.ID, cal.CreatedAt.Format(time.RFC3339))
	return nil
}

// saveCalibration persists a completed calibration and notifies clients.
// Called from the pipeline goroutine via the engine callback.
func (a *App) saveCalibration(cal *mapping.Calibration) {
	if a.config.Store != nil {
		rec := &store.Calibration{Matrix: cal.Homography.Matrix()}
		for i, p := range cal.Corners {
			rec.Corners[i] = store.Point{X: p.X, Y: p.Y}
		}
		if err := a.config.Store.Calibrations().Save(rec); err != nil {
			log.Printf("Failed to save calibration: %v", err)
		}
	}

	a.publish(map[string]any{"type": "calibrated"})
	log.Println("Table calibration completed")
}

func (a *App) publish(v any) {
	if a.config.Publisher != nil {
		a.config.Publisher.Publish(v)
	}
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(DefaultFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources. It returns
// only after the pipeline goroutine has exited, so no event reaches the
// injector afterwards.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.mu.RLock()
	det := a.detector
	a.mu.RUnlock()

	// Close the hand detector if set
	if det != nil {
		if err := det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}
