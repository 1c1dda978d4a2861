package engine

import (
	"encoding/json"

	"github.com/ayusman/mudra/internal/mapping"
)

// EventType enumerates the output events handed to the OS input injector.
type EventType int

const (
	// EventCursorMove repositions the cursor (open-hand tracking).
	EventCursorMove EventType = iota
	// EventClickDown presses the primary button (pinch-index entry).
	EventClickDown
	// EventClickUp releases the primary button (pinch released before
	// the drag threshold).
	EventClickUp
	// EventDoubleClick fires when a second click lands inside the
	// double-click window without anchor movement.
	EventDoubleClick
	// EventRightClick fires once when a middle pinch stabilizes.
	EventRightClick
	// EventDragMove repositions the cursor while dragging.
	EventDragMove
	// EventDragEnd releases a drag.
	EventDragEnd
	// EventZoomStart begins a two-fist zoom; the current inter-fist
	// distance becomes the reference.
	EventZoomStart
	// EventZoomUpdate carries the clamped current/reference scale ratio.
	EventZoomUpdate
	// EventZoomEnd closes a zoom.
	EventZoomEnd
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventCursorMove:
		return "cursor-move"
	case EventClickDown:
		return "click-down"
	case EventClickUp:
		return "click-up"
	case EventDoubleClick:
		return "double-click"
	case EventRightClick:
		return "right-click"
	case EventDragMove:
		return "drag-move"
	case EventDragEnd:
		return "drag-end"
	case EventZoomStart:
		return "zoom-start"
	case EventZoomUpdate:
		return "zoom-update"
	case EventZoomEnd:
		return "zoom-end"
	}
	return "unknown"
}

// MarshalJSON encodes the event type as its name.
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Event is one output event. Pos is set for cursor and drag moves
// (surface pixels); Scale is set for zoom updates.
type Event struct {
	Type  EventType     `json:"type"`
	Pos   mapping.Point `json:"pos"`
	Scale float64       `json:"scale,omitempty"`
}
