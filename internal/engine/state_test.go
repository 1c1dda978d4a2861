package engine

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/mapping"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// frameAt builds a FrameInput at the i-th 33ms frame with a valid anchor.
func frameAt(i int, label Label, anchor mapping.Point) FrameInput {
	return FrameInput{
		Timestamp:   t0.Add(time.Duration(i) * 33 * time.Millisecond),
		Label:       label,
		Anchor:      anchor,
		AnchorValid: true,
	}
}

// countEvents tallies the event types in a batch.
func countEvents(events []Event) map[EventType]int {
	counts := make(map[EventType]int)
	for _, ev := range events {
		counts[ev.Type]++
	}
	return counts
}

// run feeds a label n times starting at frame i and collects all events.
func run(m *StateMachine, i, n int, label Label, anchor mapping.Point) []Event {
	var events []Event
	for k := 0; k < n; k++ {
		events = append(events, m.Advance(frameAt(i+k, label, anchor))...)
	}
	return events
}

func TestStateMachine_FlickerNeverEmits(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	// Per-frame label flicker never survives the debounce window
	labels := []Label{LabelOpenHand, LabelNone, LabelPinchIndex, LabelNone, LabelOpenHand,
		LabelPinchMiddle, LabelNone, LabelFist, LabelOpenHand, LabelNone}
	for i, l := range labels {
		if events := m.Advance(frameAt(i, l, mapping.Point{X: 100, Y: 100})); len(events) != 0 {
			t.Fatalf("frame %d (%v): flicker emitted %v", i, l, events)
		}
	}
	if m.Stable() != LabelNone {
		t.Errorf("stable label must remain none, got %v", m.Stable())
	}
}

func TestStateMachine_FlickerBackToStableDiscardsCandidate(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)
	if m.Stable() != LabelOpenHand {
		t.Fatalf("expected stable open hand, got %v", m.Stable())
	}

	// 2 pinch frames, then back to open: candidate must be discarded
	run(m, 3, 2, LabelPinchIndex, anchor)
	run(m, 5, 1, LabelOpenHand, anchor)

	// 2 more pinch frames: not enough on their own
	events := run(m, 6, 2, LabelPinchIndex, anchor)
	if counts := countEvents(events); counts[EventClickDown] != 0 {
		t.Errorf("interrupted pinch must not click, got %v", counts)
	}
	if m.Stable() != LabelOpenHand {
		t.Errorf("stable label must remain open, got %v", m.Stable())
	}
}

func TestStateMachine_PinchClick(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	var all []Event
	all = append(all, run(m, 0, 5, LabelOpenHand, anchor)...)
	all = append(all, run(m, 5, 6, LabelPinchIndex, anchor)...)
	all = append(all, run(m, 11, 5, LabelOpenHand, anchor)...)

	counts := countEvents(all)
	if counts[EventClickDown] != 1 || counts[EventClickUp] != 1 {
		t.Errorf("expected one click-down and one click-up, got %v", counts)
	}
	if counts[EventDragMove] != 0 || counts[EventDragEnd] != 0 {
		t.Errorf("stationary short pinch must not drag, got %v", counts)
	}
	if counts[EventDoubleClick] != 0 {
		t.Errorf("single click must not double-click, got %v", counts)
	}
}

func TestStateMachine_ClickOrderDownBeforeUp(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)

	// Cursor moves keep flowing during the debounce window; the click-down
	// lands on the stabilization frame
	down := run(m, 3, 3, LabelPinchIndex, anchor)
	if len(down) == 0 || down[len(down)-1].Type != EventClickDown {
		t.Fatalf("expected click-down on pinch stabilization, got %v", down)
	}

	up := run(m, 6, 3, LabelOpenHand, anchor)
	if len(up) == 0 || up[0].Type != EventClickUp {
		t.Fatalf("expected click-up on release, got %v", up)
	}
}

func TestStateMachine_DoubleClickWithinWindow(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	// First click
	run(m, 0, 3, LabelOpenHand, anchor)
	run(m, 3, 3, LabelPinchIndex, anchor)
	run(m, 6, 3, LabelOpenHand, anchor) // ClickUp at frame 8 (264ms)

	// Second click lands well inside the 500ms window, same spot
	run(m, 9, 3, LabelPinchIndex, anchor)
	events := run(m, 12, 3, LabelOpenHand, anchor)

	counts := countEvents(events)
	if counts[EventClickUp] != 1 {
		t.Fatalf("expected the second click-up, got %v", counts)
	}
	if counts[EventDoubleClick] != 1 {
		t.Fatalf("expected a double-click with the second click-up, got %v", counts)
	}

	// The double-click must follow its click-up in the batch
	for i, ev := range events {
		if ev.Type == EventDoubleClick && (i == 0 || events[i-1].Type != EventClickUp) {
			t.Errorf("double-click must directly follow click-up, batch %v", events)
		}
	}
}

func TestStateMachine_DoubleClickWindowConsumed(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)
	var all []Event
	// Three rapid clicks: the third starts a fresh pair
	frame := 3
	for c := 0; c < 3; c++ {
		all = append(all, run(m, frame, 3, LabelPinchIndex, anchor)...)
		frame += 3
		all = append(all, run(m, frame, 3, LabelOpenHand, anchor)...)
		frame += 3
	}

	counts := countEvents(all)
	if counts[EventDoubleClick] != 1 {
		t.Errorf("three rapid clicks yield exactly one double-click, got %v", counts)
	}
	if counts[EventClickDown] != 3 || counts[EventClickUp] != 3 {
		t.Errorf("every pinch still clicks, got %v", counts)
	}
}

func TestStateMachine_SlowSecondClickIsSingle(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)
	run(m, 3, 3, LabelPinchIndex, anchor)
	run(m, 6, 3, LabelOpenHand, anchor)

	// Second pinch starts 700ms after the first release: outside the window
	all := run(m, 30, 3, LabelPinchIndex, anchor)
	all = append(all, run(m, 33, 3, LabelOpenHand, anchor)...)

	if counts := countEvents(all); counts[EventDoubleClick] != 0 {
		t.Errorf("late second click must not double-click, got %v", counts)
	}
}

func TestStateMachine_MovedSecondClickIsSingle(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	run(m, 0, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})
	run(m, 3, 3, LabelPinchIndex, mapping.Point{X: 100, Y: 100})
	run(m, 6, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})

	// Second click in time but far from the first click's anchor
	far := mapping.Point{X: 200, Y: 200}
	all := run(m, 9, 3, LabelPinchIndex, far)
	all = append(all, run(m, 12, 3, LabelOpenHand, far)...)

	if counts := countEvents(all); counts[EventDoubleClick] != 0 {
		t.Errorf("moved second click must not double-click, got %v", counts)
	}
}

func TestStateMachine_DragAfterThresholdAndMovement(t *testing.T) {
	cfg := DefaultMachineConfig()
	m := NewStateMachine(cfg)

	run(m, 0, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})
	run(m, 3, 3, LabelPinchIndex, mapping.Point{X: 100, Y: 100}) // ClickDown at frame 5

	// Keep pinching while moving: the drag starts once both the hold
	// threshold and the movement tolerance are exceeded
	var all []Event
	for k := 0; k < 15; k++ {
		anchor := mapping.Point{X: 100 + float64(k)*5, Y: 100}
		all = append(all, m.Advance(frameAt(6+k, LabelPinchIndex, anchor))...)
	}
	if !m.Dragging() {
		t.Fatal("expected an active drag")
	}

	counts := countEvents(all)
	if counts[EventDragMove] == 0 {
		t.Fatal("expected drag-move events while dragging")
	}

	// Release: the drag ends with drag-end, not click-up
	end := run(m, 21, 3, LabelOpenHand, mapping.Point{X: 175, Y: 100})
	endCounts := countEvents(end)
	if endCounts[EventDragEnd] != 1 {
		t.Errorf("expected one drag-end, got %v", endCounts)
	}
	if endCounts[EventClickUp] != 0 {
		t.Errorf("a drag release must not click-up, got %v", endCounts)
	}
}

func TestStateMachine_NoDragBeforeThreshold(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	run(m, 0, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})
	run(m, 3, 3, LabelPinchIndex, mapping.Point{X: 100, Y: 100})

	// Large movement immediately after the pinch, within the hold threshold
	events := m.Advance(frameAt(6, LabelPinchIndex, mapping.Point{X: 300, Y: 300}))
	if counts := countEvents(events); counts[EventDragMove] != 0 {
		t.Errorf("movement before the drag threshold must not drag, got %v", counts)
	}
	if m.Dragging() {
		t.Error("drag must not start before the hold threshold")
	}
}

func TestStateMachine_TrackingLossEndsDrag(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	run(m, 0, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})
	run(m, 3, 3, LabelPinchIndex, mapping.Point{X: 100, Y: 100})
	for k := 0; k < 15; k++ {
		m.Advance(frameAt(6+k, LabelPinchIndex, mapping.Point{X: 100 + float64(k)*5, Y: 100}))
	}
	if !m.Dragging() {
		t.Fatal("expected an active drag")
	}

	// The hand vanishes: after the debounce window the drag must close
	var all []Event
	for k := 0; k < 5; k++ {
		all = append(all, m.Advance(FrameInput{
			Timestamp: t0.Add(time.Duration(21+k) * 33 * time.Millisecond),
			Label:     LabelNone,
		})...)
	}

	counts := countEvents(all)
	if counts[EventDragEnd] != 1 {
		t.Errorf("expected one drag-end on tracking loss, got %v", counts)
	}
	if m.Dragging() {
		t.Error("drag must be closed after tracking loss")
	}
}

func TestStateMachine_RightClickFiresOnce(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)

	// Hold the middle pinch for 20 frames: exactly one right-click
	all := run(m, 3, 20, LabelPinchMiddle, anchor)
	counts := countEvents(all)
	if counts[EventRightClick] != 1 {
		t.Errorf("expected exactly one right-click, got %v", counts)
	}
	if counts[EventClickDown] != 0 {
		t.Errorf("middle pinch must not press the primary button, got %v", counts)
	}

	// Releasing and re-pinching fires again
	run(m, 23, 3, LabelOpenHand, anchor)
	again := run(m, 26, 3, LabelPinchMiddle, anchor)
	if counts := countEvents(again); counts[EventRightClick] != 1 {
		t.Errorf("expected a fresh right-click after release, got %v", counts)
	}
}

func TestStateMachine_CursorMoveOnlyWhileOpenHand(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	open := run(m, 0, 6, LabelOpenHand, anchor)
	counts := countEvents(open)
	// Moves start once the open hand is stable (frame 2), then every frame
	if counts[EventCursorMove] != 4 {
		t.Errorf("expected 4 cursor moves, got %v", counts)
	}

	// Moves continue through the fist's debounce window, then stop
	fist := run(m, 6, 6, LabelFist, anchor)
	if counts := countEvents(fist); counts[EventCursorMove] != 2 {
		t.Errorf("a stable fist must not move the cursor, got %v", counts)
	}
}

func TestStateMachine_SingleFistEmitsNothing(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	all := run(m, 0, 10, LabelFist, mapping.Point{X: 100, Y: 100})
	if len(all) != 0 {
		t.Errorf("a single fist has no bound action, got %v", all)
	}
}

func TestStateMachine_InvalidAnchorSuppressesMoves(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	// Open hand with no usable anchor (uncalibrated table mode): the
	// gesture still stabilizes but produces no position events
	var all []Event
	for k := 0; k < 6; k++ {
		all = append(all, m.Advance(FrameInput{
			Timestamp: t0.Add(time.Duration(k) * 33 * time.Millisecond),
			Label:     LabelOpenHand,
		})...)
	}

	if len(all) != 0 {
		t.Errorf("moves must be suppressed without a valid anchor, got %v", all)
	}
	if m.Stable() != LabelOpenHand {
		t.Errorf("gesture must still stabilize, got %v", m.Stable())
	}
}

func zoomFrame(i int, twoFists bool, dist float64) FrameInput {
	return FrameInput{
		Timestamp:    t0.Add(time.Duration(i) * 33 * time.Millisecond),
		Label:        LabelFist,
		TwoFists:     twoFists,
		FistDistance: dist,
	}
}

func TestStateMachine_ZoomLifecycle(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	// Entry is debounced
	var all []Event
	for k := 0; k < 2; k++ {
		all = append(all, m.Advance(zoomFrame(k, true, 0.2))...)
	}
	if len(all) != 0 {
		t.Fatalf("zoom must not start before the debounce window, got %v", all)
	}

	start := m.Advance(zoomFrame(2, true, 0.2))
	if len(start) != 2 || start[0].Type != EventZoomStart || start[1].Type != EventZoomUpdate {
		t.Fatalf("expected zoom-start followed by zoom-update, got %v", start)
	}
	if start[1].Scale != 1.0 {
		t.Errorf("initial zoom scale must be 1.0, got %v", start[1].Scale)
	}

	// Spreading the fists raises the scale monotonically until the clamp
	prev := 1.0
	for k, dist := range []float64{0.22, 0.26, 0.3, 0.34, 0.4} {
		events := m.Advance(zoomFrame(3+k, true, dist))
		if len(events) != 1 || events[0].Type != EventZoomUpdate {
			t.Fatalf("expected one zoom-update, got %v", events)
		}
		scale := events[0].Scale
		if scale < prev {
			t.Errorf("scale must not decrease while spreading: %v after %v", scale, prev)
		}
		if scale > 1.5 {
			t.Errorf("scale must clamp at 1.5, got %v", scale)
		}
		prev = scale
	}
	if prev != 1.5 {
		t.Errorf("doubled distance must clamp to 1.5, got %v", prev)
	}

	// Exit is debounced too: a single dropped frame keeps the zoom alive
	if events := m.Advance(zoomFrame(8, false, 0)); len(events) != 0 {
		t.Fatalf("one dropped frame must not end the zoom, got %v", events)
	}
	if events := m.Advance(zoomFrame(9, true, 0.3)); len(events) != 1 || events[0].Type != EventZoomUpdate {
		t.Fatalf("zoom must continue after a dropped frame, got %v", events)
	}

	var end []Event
	for k := 0; k < 3; k++ {
		end = append(end, m.Advance(zoomFrame(10+k, false, 0))...)
	}
	if len(end) != 1 || end[0].Type != EventZoomEnd {
		t.Fatalf("expected a single zoom-end, got %v", end)
	}
	if m.ZoomActive() {
		t.Error("zoom must be inactive after the end")
	}
}

func TestStateMachine_ZoomOutClampsLow(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	for k := 0; k < 3; k++ {
		m.Advance(zoomFrame(k, true, 0.4))
	}

	events := m.Advance(zoomFrame(3, true, 0.1))
	if len(events) != 1 || events[0].Scale != 0.7 {
		t.Fatalf("expected scale clamped to 0.7, got %v", events)
	}
}

func TestStateMachine_ForceIdleClosesOpenClick(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)
	run(m, 3, 3, LabelPinchIndex, anchor)

	events := m.ForceIdle(t0.Add(time.Second))
	counts := countEvents(events)
	if counts[EventClickUp] != 1 {
		t.Errorf("expected click-up on forced idle, got %v", counts)
	}
	if m.Stable() != LabelNone {
		t.Errorf("expected idle state, got %v", m.Stable())
	}
}

func TestStateMachine_ForceIdleClosesDragAndZoom(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	// Build an active drag
	run(m, 0, 3, LabelOpenHand, mapping.Point{X: 100, Y: 100})
	run(m, 3, 3, LabelPinchIndex, mapping.Point{X: 100, Y: 100})
	for k := 0; k < 15; k++ {
		m.Advance(frameAt(6+k, LabelPinchIndex, mapping.Point{X: 100 + float64(k)*5, Y: 100}))
	}

	events := m.ForceIdle(t0.Add(time.Second))
	if counts := countEvents(events); counts[EventDragEnd] != 1 {
		t.Errorf("expected drag-end on forced idle, got %v", counts)
	}

	// And an active zoom
	for k := 0; k < 3; k++ {
		m.Advance(zoomFrame(60+k, true, 0.3))
	}
	events = m.ForceIdle(t0.Add(2 * time.Second))
	if counts := countEvents(events); counts[EventZoomEnd] != 1 {
		t.Errorf("expected zoom-end on forced idle, got %v", counts)
	}
}

func TestStateMachine_ForceIdleWhenIdleIsSilent(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())

	if events := m.ForceIdle(t0); len(events) != 0 {
		t.Errorf("idle machine must stay silent, got %v", events)
	}
}

func TestStateMachine_ForcedReleaseNeverDoubleClicks(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	// A completed click arms the double-click window
	run(m, 0, 3, LabelOpenHand, anchor)
	run(m, 3, 3, LabelPinchIndex, anchor)
	run(m, 6, 3, LabelOpenHand, anchor)

	// Second pinch inside the window: a double-click candidate
	run(m, 9, 3, LabelPinchIndex, anchor)

	// An external command lands before the user releases: only the open
	// click comes back, never a double-click the user did not finish
	events := m.ForceIdle(t0.Add(12 * 33 * time.Millisecond))
	counts := countEvents(events)
	if counts[EventClickUp] != 1 {
		t.Fatalf("expected the open click released, got %v", counts)
	}
	if counts[EventDoubleClick] != 0 {
		t.Errorf("forced release emitted a double-click: %v", counts)
	}

	// The interruption voids the window: the next full click is single
	run(m, 13, 3, LabelOpenHand, anchor)
	run(m, 16, 3, LabelPinchIndex, anchor)
	release := run(m, 19, 3, LabelOpenHand, anchor)
	counts = countEvents(release)
	if counts[EventClickUp] != 1 || counts[EventDoubleClick] != 0 {
		t.Errorf("click after a forced release must be single, got %v", counts)
	}
}

func TestStateMachine_TrackingLossReleaseIsSingleClick(t *testing.T) {
	m := NewStateMachine(DefaultMachineConfig())
	anchor := mapping.Point{X: 100, Y: 100}

	run(m, 0, 3, LabelOpenHand, anchor)
	run(m, 3, 3, LabelPinchIndex, anchor)
	run(m, 6, 3, LabelOpenHand, anchor)
	run(m, 9, 3, LabelPinchIndex, anchor)

	// The hand disappears mid-pinch, inside the double-click window
	var events []Event
	for k := 0; k < 3; k++ {
		in := FrameInput{
			Timestamp: t0.Add(time.Duration(12+k) * 33 * time.Millisecond),
			Label:     LabelNone,
		}
		events = append(events, m.Advance(in)...)
	}

	counts := countEvents(events)
	if counts[EventClickUp] != 1 {
		t.Fatalf("expected the open click released on tracking loss, got %v", counts)
	}
	if counts[EventDoubleClick] != 0 {
		t.Errorf("tracking loss emitted a double-click: %v", counts)
	}
}
