// Package config loads the Mudra configuration file. The recognized keys
// keep the names of the original gesture-control project's config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default values applied for missing or out-of-range options.
const (
	DefaultMinDetectionConfidence = 0.7
	DefaultMinTrackingConfidence  = 0.5
	DefaultPinchDistance          = 0.06
	DefaultZoomInFactor           = 1.5
	DefaultZoomOutFactor          = 0.7
	DefaultDoubleClickWindow      = 0.5
	DefaultSmoothingAlpha         = 0.5
	DefaultHoldSeconds            = 3.0

	// HoldTolerance is the allowed fingertip drift during a calibration
	// hold, in normalized camera units. Fixed, same as the original.
	HoldTolerance = 0.05
)

// Detection holds the hand-tracker confidence thresholds.
type Detection struct {
	MinDetectionConfidence float64 `json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `json:"min_tracking_confidence"`
}

// Gestures holds the gesture recognition tuning. The section carries the
// calibration hold time too, same as the original config layout.
type Gestures struct {
	// PinchDistance is the thumb-to-fingertip pinch threshold in
	// normalized camera units.
	PinchDistance float64 `json:"distancia_pinza"`
	// ZoomInFactor and ZoomOutFactor bound the zoom scale ratio.
	ZoomInFactor  float64 `json:"factor_zoom_in"`
	ZoomOutFactor float64 `json:"factor_zoom_out"`
	// DoubleClickWindow is the double-click window in seconds.
	DoubleClickWindow float64 `json:"doble_click_ventana"`
	// SmoothingAlpha is the motion smoothing factor (0,1]; 1 disables
	// filtering. Runtime-adjustable from the tray.
	SmoothingAlpha float64 `json:"suavizado_movimiento"`
	// CalibrationHold is how long the fingertip must stay on a corner
	// during calibration, in seconds.
	CalibrationHold float64 `json:"tiempo_calibracion"`
}

// Config is the full configuration, read once at startup.
type Config struct {
	Detection Detection `json:"deteccion"`
	Gestures  Gestures  `json:"gestos"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Detection: Detection{
			MinDetectionConfidence: DefaultMinDetectionConfidence,
			MinTrackingConfidence:  DefaultMinTrackingConfidence,
		},
		Gestures: Gestures{
			PinchDistance:     DefaultPinchDistance,
			ZoomInFactor:      DefaultZoomInFactor,
			ZoomOutFactor:     DefaultZoomOutFactor,
			DoubleClickWindow: DefaultDoubleClickWindow,
			SmoothingAlpha:    DefaultSmoothingAlpha,
			CalibrationHold:   DefaultHoldSeconds,
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error. Out-of-range values are
// replaced by their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	cfg.sanitize()
	return cfg, nil
}

// sanitize clamps out-of-range options back to their defaults.
func (c *Config) sanitize() {
	if c.Detection.MinDetectionConfidence <= 0 || c.Detection.MinDetectionConfidence > 1 {
		c.Detection.MinDetectionConfidence = DefaultMinDetectionConfidence
	}
	if c.Detection.MinTrackingConfidence <= 0 || c.Detection.MinTrackingConfidence > 1 {
		c.Detection.MinTrackingConfidence = DefaultMinTrackingConfidence
	}
	if c.Gestures.PinchDistance <= 0 || c.Gestures.PinchDistance >= 1 {
		c.Gestures.PinchDistance = DefaultPinchDistance
	}
	if c.Gestures.ZoomInFactor <= 1 {
		c.Gestures.ZoomInFactor = DefaultZoomInFactor
	}
	if c.Gestures.ZoomOutFactor <= 0 || c.Gestures.ZoomOutFactor >= 1 {
		c.Gestures.ZoomOutFactor = DefaultZoomOutFactor
	}
	if c.Gestures.DoubleClickWindow <= 0 {
		c.Gestures.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if c.Gestures.SmoothingAlpha <= 0 || c.Gestures.SmoothingAlpha > 1 {
		c.Gestures.SmoothingAlpha = DefaultSmoothingAlpha
	}
	if c.Gestures.CalibrationHold <= 0 {
		c.Gestures.CalibrationHold = DefaultHoldSeconds
	}
}
