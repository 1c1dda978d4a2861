package engine

import (
	"time"

	"github.com/ayusman/mudra/internal/mapping"
)

// State machine defaults. Timing windows run on frame timestamps (logical
// time), so behavior is deterministic for a given timestamped sequence
// regardless of actual frame rate.
const (
	// DefaultDebounceFrames is how many consecutive frames a raw label
	// must persist before it becomes the stable gesture.
	DefaultDebounceFrames = 3
	// DefaultDragThreshold is how long a pinch must be held, with the
	// anchor moving, before it becomes a drag.
	DefaultDragThreshold = 300 * time.Millisecond
	// DefaultMoveTolerance is the surface-pixel distance under which the
	// anchor counts as stationary for drag and double-click checks.
	DefaultMoveTolerance = 12.0
)

// MachineConfig tunes the gesture state machine.
type MachineConfig struct {
	DebounceFrames    int
	DragThreshold     time.Duration
	MoveTolerance     float64
	DoubleClickWindow time.Duration
	ZoomInFactor      float64
	ZoomOutFactor     float64
}

// DefaultMachineConfig returns the stock tuning.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		DebounceFrames:    DefaultDebounceFrames,
		DragThreshold:     DefaultDragThreshold,
		MoveTolerance:     DefaultMoveTolerance,
		DoubleClickWindow: 500 * time.Millisecond,
		ZoomInFactor:      1.5,
		ZoomOutFactor:     0.7,
	}
}

// FrameInput is one frame's worth of classified input for the machine.
type FrameInput struct {
	Timestamp time.Time
	// Label is the control hand's raw classification for this frame.
	Label Label
	// Anchor is the smoothed surface-space cursor position. AnchorValid
	// is false when no hand is tracked or table mode is uncalibrated;
	// position events are suppressed but gesture transitions still run.
	Anchor      mapping.Point
	AnchorValid bool
	// TwoFists is true when two tracked hands both classify as fists;
	// FistDistance is then the inter-palm distance in camera units.
	TwoFists     bool
	FistDistance float64
}

// StateMachine converts the raw per-frame label stream into stable,
// debounced gesture events. All inputs, however noisy, map to a defined
// transition; the machine never fails.
type StateMachine struct {
	cfg MachineConfig

	stable         Label
	candidate      Label
	candidateCount int

	pinchActive   bool
	pinchStart    time.Time
	pinchAnchor   mapping.Point
	pinchAnchorOK bool
	dragging      bool
	suppressDrag  bool

	lastClickUp      time.Time
	lastClickAnchor  mapping.Point
	lastClickUpValid bool

	zoomActive    bool
	zoomRef       float64
	twoFistFrames int
	noFistFrames  int
}

// NewStateMachine creates a machine in the idle state.
func NewStateMachine(cfg MachineConfig) *StateMachine {
	if cfg.DebounceFrames < 1 {
		cfg.DebounceFrames = 1
	}
	return &StateMachine{cfg: cfg}
}

// Stable returns the current debounced gesture label.
func (m *StateMachine) Stable() Label {
	return m.stable
}

// DebounceFrames returns the configured debounce window, in frames.
func (m *StateMachine) DebounceFrames() int {
	return m.cfg.DebounceFrames
}

// Dragging reports whether a drag is in progress.
func (m *StateMachine) Dragging() bool {
	return m.dragging
}

// ZoomActive reports whether a two-fist zoom is in progress.
func (m *StateMachine) ZoomActive() bool {
	return m.zoomActive
}

// Advance processes one frame and returns the events it produced, in
// emission order.
func (m *StateMachine) Advance(in FrameInput) []Event {
	var events []Event

	events = append(events, m.debounce(in)...)
	events = append(events, m.continuous(in)...)
	events = append(events, m.zoom(in)...)

	return events
}

// debounce accepts a raw label into the stable gesture once it has
// persisted for the configured window. A flicker back to the stable label
// discards the pending candidate without disturbing the stable gesture.
func (m *StateMachine) debounce(in FrameInput) []Event {
	raw := in.Label

	if raw == m.stable {
		m.candidate = m.stable
		m.candidateCount = 0
		return nil
	}

	if raw != m.candidate {
		m.candidate = raw
		m.candidateCount = 0
	}
	m.candidateCount++

	if m.candidateCount < m.cfg.DebounceFrames {
		return nil
	}

	return m.transition(raw, in)
}

// transition moves the stable gesture to a new label, closing any open
// click or drag that does not survive the change.
func (m *StateMachine) transition(to Label, in FrameInput) []Event {
	var events []Event

	from := m.stable
	if m.pinchActive && to != LabelPinchIndex {
		// A transition to none is tracking loss, not a user release.
		events = append(events, m.closePinch(in, to == LabelNone)...)
	}

	m.stable = to
	m.candidate = to
	m.candidateCount = 0

	switch to {
	case LabelPinchIndex:
		if from == LabelOpenHand || from == LabelNone {
			events = append(events, m.openPinch(in)...)
		}
	case LabelPinchMiddle:
		// Edge-triggered: fires once on entry, never repeated while held.
		events = append(events, Event{Type: EventRightClick})
	case LabelNone, LabelOpenHand, LabelFist:
	}

	return events
}

// openPinch starts a click, arming the drag and double-click timers.
func (m *StateMachine) openPinch(in FrameInput) []Event {
	m.pinchActive = true
	m.pinchStart = in.Timestamp
	m.pinchAnchor = in.Anchor
	m.pinchAnchorOK = in.AnchorValid
	m.dragging = false

	// A pinch landing inside the double-click window of the previous
	// ClickUp, without anchor movement, is a double-click candidate and
	// must not turn into a drag.
	m.suppressDrag = m.lastClickUpValid &&
		in.Timestamp.Sub(m.lastClickUp) <= m.cfg.DoubleClickWindow &&
		(!in.AnchorValid || mapping.Distance(in.Anchor, m.lastClickAnchor) <= m.cfg.MoveTolerance)

	return []Event{{Type: EventClickDown}}
}

// closePinch releases an open click or drag. Called on pinch release and
// on any forced return to idle, so no click or drag stays stuck open.
// A forced close (tracking loss, external command) emits only the closing
// event: it never completes a double-click the user did not finish, and
// it never arms the double-click window.
func (m *StateMachine) closePinch(in FrameInput, forced bool) []Event {
	var events []Event

	if m.dragging {
		events = append(events, Event{Type: EventDragEnd})
	} else {
		events = append(events, Event{Type: EventClickUp})

		isDouble := !forced && m.suppressDrag && m.lastClickUpValid &&
			in.Timestamp.Sub(m.lastClickUp) <= m.cfg.DoubleClickWindow &&
			(!in.AnchorValid || mapping.Distance(in.Anchor, m.lastClickAnchor) <= m.cfg.MoveTolerance)

		switch {
		case forced:
			// The interrupted pair is void; the next click starts fresh.
			m.lastClickUpValid = false
		case isDouble:
			events = append(events, Event{Type: EventDoubleClick})
			// Consume the window so a third click starts a fresh pair.
			m.lastClickUpValid = false
		default:
			m.lastClickUp = in.Timestamp
			m.lastClickAnchor = in.Anchor
			m.lastClickUpValid = true
		}
	}

	m.pinchActive = false
	m.dragging = false
	m.suppressDrag = false

	return events
}

// continuous emits the per-frame position events for the stable gesture.
func (m *StateMachine) continuous(in FrameInput) []Event {
	switch m.stable {
	case LabelOpenHand:
		if in.AnchorValid {
			return []Event{{Type: EventCursorMove, Pos: in.Anchor}}
		}

	case LabelPinchIndex:
		if !m.pinchActive {
			return nil
		}
		if !m.dragging && !m.suppressDrag &&
			in.AnchorValid && m.pinchAnchorOK &&
			in.Timestamp.Sub(m.pinchStart) >= m.cfg.DragThreshold &&
			mapping.Distance(in.Anchor, m.pinchAnchor) > m.cfg.MoveTolerance {
			m.dragging = true
		}
		if m.dragging && in.AnchorValid {
			return []Event{{Type: EventDragMove, Pos: in.Anchor}}
		}

	case LabelNone, LabelPinchMiddle, LabelFist:
	}

	return nil
}

// zoom tracks the parallel two-fist state. Entry and exit are debounced
// with the same window as labels so a single dropped frame does not end
// an active zoom.
func (m *StateMachine) zoom(in FrameInput) []Event {
	if in.TwoFists {
		m.noFistFrames = 0

		if m.zoomActive {
			ref := m.zoomRef
			if ref <= 0 {
				m.zoomRef = in.FistDistance
				ref = in.FistDistance
			}
			scale := 1.0
			if ref > 0 {
				scale = in.FistDistance / ref
			}
			if scale > m.cfg.ZoomInFactor {
				scale = m.cfg.ZoomInFactor
			}
			if scale < m.cfg.ZoomOutFactor {
				scale = m.cfg.ZoomOutFactor
			}
			return []Event{{Type: EventZoomUpdate, Scale: scale}}
		}

		m.twoFistFrames++
		if m.twoFistFrames >= m.cfg.DebounceFrames {
			m.zoomActive = true
			m.zoomRef = in.FistDistance
			return []Event{
				{Type: EventZoomStart},
				{Type: EventZoomUpdate, Scale: 1.0},
			}
		}
		return nil
	}

	m.twoFistFrames = 0
	if !m.zoomActive {
		return nil
	}

	m.noFistFrames++
	if m.noFistFrames >= m.cfg.DebounceFrames {
		m.zoomActive = false
		m.noFistFrames = 0
		return []Event{{Type: EventZoomEnd}}
	}
	return nil
}

// ForceIdle closes every open gesture and returns the machine to idle.
// Used when an external command (mode switch, calibration start) takes
// effect or when frame delivery stops: no event may remain open.
func (m *StateMachine) ForceIdle(ts time.Time) []Event {
	var events []Event

	if m.pinchActive {
		events = append(events, m.closePinch(FrameInput{Timestamp: ts}, true)...)
	}
	if m.zoomActive {
		m.zoomActive = false
		events = append(events, Event{Type: EventZoomEnd})
	}

	m.stable = LabelNone
	m.candidate = LabelNone
	m.candidateCount = 0
	m.twoFistFrames = 0
	m.noFistFrames = 0

	return events
}
