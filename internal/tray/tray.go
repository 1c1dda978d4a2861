// Package tray provides the system tray interface for the Mudra gesture mouse.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(enabled bool)
	onMode      func()
	onCalibrate func()
	onSmoothing func(direction int)
	onQuit      func()
	enabled     bool
	mode        string
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a new Tray instance with gesture control enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		mode:    "screen",
	}
}

// OnToggle sets the callback for toggling gesture control on and off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback for switching between screen and table mode.
func (t *Tray) OnMode(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnCalibrate sets the callback for starting a table calibration.
func (t *Tray) OnCalibrate(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCalibrate = fn
}

// OnSmoothing sets the callback for smoothing adjustments; direction is
// +1 for more smoothing, -1 for less.
func (t *Tray) OnSmoothing(fn func(direction int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSmoothing = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetMode updates the mode menu item label.
func (t *Tray) SetMode(mode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	if t.menuMode != nil {
		t.menuMode.SetTitle("Mode: " + mode)
	}
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Mouse")

	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle gesture control")
	systray.AddSeparator()

	t.mu.RLock()
	mode := t.mode
	t.mu.RUnlock()
	t.menuMode = systray.AddMenuItem("Mode: "+mode, "Switch screen/table mode")
	menuCalibrate := systray.AddMenuItem("Calibrate Table...", "Capture the four table corners")
	systray.AddSeparator()

	menuSmoothMore := systray.AddMenuItem("More Smoothing", "Increase cursor smoothing")
	menuSmoothLess := systray.AddMenuItem("Less Smoothing", "Decrease cursor smoothing")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.toggle()
			case <-t.menuMode.ClickedCh:
				t.mu.RLock()
				fn := t.onMode
				t.mu.RUnlock()
				if fn != nil {
					fn()
				}
			case <-menuCalibrate.ClickedCh:
				t.mu.RLock()
				fn := t.onCalibrate
				t.mu.RUnlock()
				if fn != nil {
					fn()
				}
			case <-menuSmoothMore.ClickedCh:
				t.smoothing(+1)
			case <-menuSmoothLess.ClickedCh:
				t.smoothing(-1)
			case <-menuQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) toggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	fn := t.onToggle
	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}
	t.mu.Unlock()

	if fn != nil {
		fn(enabled)
	}
}

func (t *Tray) smoothing(direction int) {
	t.mu.RLock()
	fn := t.onSmoothing
	t.mu.RUnlock()
	if fn != nil {
		fn(direction)
	}
}

// onExit is called when the system tray is shutting down.
func (t *Tray) onExit() {
	t.mu.RLock()
	fn := t.onQuit
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
