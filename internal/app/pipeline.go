package app

import (
	"log"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main tracking loop. Each tick it reads one camera
// frame, runs hand detection, advances the gesture engine one frame and
// dispatches the resulting input events.
//
// The engine is single-writer: only this goroutine calls Process and
// ForceIdle. Everything external (tray, HTTP) reaches the engine through
// Enqueue, which the engine drains at the start of the next frame.
func (a *App) runPipeline(stopCh, doneCh chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(DefaultFPS))
	defer ticker.Stop()
	defer close(doneCh)

	// Release any held button when the pipeline winds down.
	defer a.dispatcher.Dispatch(a.engine.ForceIdle(time.Now()))

	wasEnabled := true
	wasUncalibrated := false
	lastMode := a.engine.Mode()
	lastAlpha := a.engine.SmoothingAlpha()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			enabled := a.IsEnabled()
			if !enabled {
				// Close any in-progress gesture exactly once, then go quiet.
				if wasEnabled {
					a.dispatcher.Dispatch(a.engine.ForceIdle(time.Now()))
					wasEnabled = false
				}
				continue
			}
			wasEnabled = true

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.mu.RLock()
			det := a.detector
			a.mu.RUnlock()

			hands, err := det.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				hands = nil
			}

			res := a.engine.Process(engine.Frame{
				Timestamp: time.Now(),
				Hands:     hands,
			})

			a.dispatcher.Dispatch(res.Events)

			if len(res.Events) > 0 {
				a.publish(map[string]any{"type": "gestures", "events": res.Events})
			}
			if res.Calibration != nil {
				a.publish(map[string]any{"type": "calibration", "progress": res.Calibration})
			}
			if res.Uncalibrated != wasUncalibrated {
				wasUncalibrated = res.Uncalibrated
				if res.Uncalibrated {
					log.Println("Table mode active without calibration; cursor control suspended")
				}
				a.publish(map[string]any{"type": "uncalibrated", "active": res.Uncalibrated})
			}

			// Persist runtime state changes applied by queued commands.
			if mode := a.engine.Mode(); mode != lastMode {
				lastMode = mode
				a.persistSetting(store.SettingMode, mode.String())
				a.publish(map[string]any{"type": "mode", "mode": mode.String()})
				if a.OnModeChange != nil {
					a.OnModeChange(mode)
				}
			}
			if alpha := a.engine.SmoothingAlpha(); alpha != lastAlpha {
				lastAlpha = alpha
				a.persistSetting(store.SettingSmoothingAlpha, strconv.FormatFloat(alpha, 'f', -1, 64))
				a.publish(map[string]any{"type": "smoothing", "alpha": alpha})
			}
		}
	}
}

func (a *App) persistSetting(key, value string) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Set(key, value); err != nil {
		log.Printf("Failed to persist %s: %v", key, err)
	}
}
