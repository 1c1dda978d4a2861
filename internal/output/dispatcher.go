package output

import (
	"github.com/ayusman/mudra/internal/engine"
)

// scrollStep is the scroll amount injected per zoom update past the
// configured factor bounds, matching the original controller's behavior.
const scrollStep = 10

// Dispatcher translates the per-frame engine event batch into injector
// calls, clamping cursor positions to the screen rectangle.
type Dispatcher struct {
	injector Injector
	width    int
	height   int
	zoomIn   float64
	zoomOut  float64
}

// NewDispatcher creates a Dispatcher for a screen of the given pixel size.
// zoomIn and zoomOut are the scale-ratio bounds at which zoom updates
// become scroll injections.
func NewDispatcher(injector Injector, width, height int, zoomIn, zoomOut float64) *Dispatcher {
	return &Dispatcher{
		injector: injector,
		width:    width,
		height:   height,
		zoomIn:   zoomIn,
		zoomOut:  zoomOut,
	}
}

// Dispatch injects one frame's event batch in order.
func (d *Dispatcher) Dispatch(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EventCursorMove, engine.EventDragMove:
			d.injector.Move(d.clampX(ev.Pos.X), d.clampY(ev.Pos.Y))
		case engine.EventClickDown:
			d.injector.ButtonDown()
		case engine.EventClickUp, engine.EventDragEnd:
			d.injector.ButtonUp()
		case engine.EventDoubleClick:
			d.injector.DoubleClick()
		case engine.EventRightClick:
			d.injector.RightClick()
		case engine.EventZoomUpdate:
			if ev.Scale >= d.zoomIn {
				d.injector.Scroll(scrollStep)
			} else if ev.Scale <= d.zoomOut {
				d.injector.Scroll(-scrollStep)
			}
		case engine.EventZoomStart, engine.EventZoomEnd:
			// Zoom boundaries carry no OS-level action; the overlay uses them.
		}
	}
}

func (d *Dispatcher) clampX(x float64) int {
	return clampInt(int(x), 0, d.width-1)
}

func (d *Dispatcher) clampY(y float64) int {
	return clampInt(int(y), 0, d.height-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
