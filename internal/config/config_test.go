package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_ReadsRecognizedKeys(t *testing.T) {
	path := writeConfig(t, `{
		"deteccion": {
			"min_detection_confidence": 0.8,
			"min_tracking_confidence": 0.6
		},
		"gestos": {
			"distancia_pinza": 0.08,
			"factor_zoom_in": 2.0,
			"factor_zoom_out": 0.5,
			"doble_click_ventana": 0.4,
			"suavizado_movimiento": 0.3,
			"tiempo_calibracion": 2.0
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Detection.MinDetectionConfidence != 0.8 {
		t.Errorf("min_detection_confidence = %v, want 0.8", cfg.Detection.MinDetectionConfidence)
	}
	if cfg.Gestures.PinchDistance != 0.08 {
		t.Errorf("distancia_pinza = %v, want 0.08", cfg.Gestures.PinchDistance)
	}
	if cfg.Gestures.ZoomInFactor != 2.0 || cfg.Gestures.ZoomOutFactor != 0.5 {
		t.Errorf("zoom factors = %v/%v, want 2.0/0.5", cfg.Gestures.ZoomInFactor, cfg.Gestures.ZoomOutFactor)
	}
	if cfg.Gestures.DoubleClickWindow != 0.4 {
		t.Errorf("doble_click_ventana = %v, want 0.4", cfg.Gestures.DoubleClickWindow)
	}
	if cfg.Gestures.SmoothingAlpha != 0.3 {
		t.Errorf("suavizado_movimiento = %v, want 0.3", cfg.Gestures.SmoothingAlpha)
	}
	// tiempo_calibracion lives in the gestos section, same as the
	// original config.json, so existing files keep working.
	if cfg.Gestures.CalibrationHold != 2.0 {
		t.Errorf("tiempo_calibracion = %v, want 2.0", cfg.Gestures.CalibrationHold)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `{"gestos": {"distancia_pinza": 0.1}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gestures.PinchDistance != 0.1 {
		t.Errorf("distancia_pinza = %v, want 0.1", cfg.Gestures.PinchDistance)
	}
	if cfg.Detection.MinDetectionConfidence != DefaultMinDetectionConfidence {
		t.Errorf("unset detection option must keep its default, got %v", cfg.Detection.MinDetectionConfidence)
	}
	if cfg.Gestures.CalibrationHold != DefaultHoldSeconds {
		t.Errorf("unset hold time must keep its default, got %v", cfg.Gestures.CalibrationHold)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := writeConfig(t, `{not json`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a malformed file")
	}
}

func TestLoad_OutOfRangeValuesClampToDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"deteccion": {"min_detection_confidence": 7},
		"gestos": {
			"distancia_pinza": -1,
			"factor_zoom_in": 0.5,
			"suavizado_movimiento": 3,
			"tiempo_calibracion": -2
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Detection.MinDetectionConfidence != DefaultMinDetectionConfidence {
		t.Errorf("out-of-range confidence must reset, got %v", cfg.Detection.MinDetectionConfidence)
	}
	if cfg.Gestures.PinchDistance != DefaultPinchDistance {
		t.Errorf("negative pinch distance must reset, got %v", cfg.Gestures.PinchDistance)
	}
	if cfg.Gestures.ZoomInFactor != DefaultZoomInFactor {
		t.Errorf("zoom-in factor below 1 must reset, got %v", cfg.Gestures.ZoomInFactor)
	}
	if cfg.Gestures.SmoothingAlpha != DefaultSmoothingAlpha {
		t.Errorf("alpha above 1 must reset, got %v", cfg.Gestures.SmoothingAlpha)
	}
	if cfg.Gestures.CalibrationHold != DefaultHoldSeconds {
		t.Errorf("negative hold must reset, got %v", cfg.Gestures.CalibrationHold)
	}
}
