package mapping

import (
	"encoding/json"
	"time"
)

// CornerState describes the progress of a single calibration corner.
type CornerState int

const (
	// CornerWaiting means the calibrator is waiting for the index
	// fingertip to appear at the current corner.
	CornerWaiting CornerState = iota
	// CornerHolding means the fingertip is pinned and the hold timer runs.
	CornerHolding
	// CornerCaptured means the current corner was captured.
	CornerCaptured
	// CornerReset means the fingertip drifted or vanished mid-hold and
	// the hold timer restarted from zero.
	CornerReset
	// CalibrationDone means all four corners were captured and the
	// homography computed.
	CalibrationDone
	// CalibrationRejected means the captured corners were degenerate and
	// the reported corner must be re-captured.
	CalibrationRejected
)

// String returns the state name as used in progress notifications.
func (s CornerState) String() string {
	switch s {
	case CornerWaiting:
		return "waiting"
	case CornerHolding:
		return "holding"
	case CornerCaptured:
		return "captured"
	case CornerReset:
		return "reset"
	case CalibrationDone:
		return "done"
	case CalibrationRejected:
		return "rejected"
	}
	return "unknown"
}

// MarshalJSON encodes the state as its name.
func (s CornerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CornerNames lists the capture order shown to the user.
var CornerNames = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

// Progress is the per-frame calibration notification handed to the
// display collaborator.
type Progress struct {
	Corner   int           `json:"corner"`
	State    CornerState   `json:"state"`
	Elapsed  time.Duration `json:"elapsed"`
	Required time.Duration `json:"required"`
}

// Calibration is a completed calibration: the four captured camera-space
// corners and the homography computed from them.
type Calibration struct {
	Corners    [4]Point
	Homography *Homography
}

// Calibrator drives the 4-corner capture protocol. Corners are captured
// in the order top-left, top-right, bottom-right, bottom-left; each
// capture requires the index fingertip to stay within the spatial
// tolerance of its initial touch position for the full hold duration.
type Calibrator struct {
	hold      time.Duration
	tolerance float64
	width     float64
	height    float64

	active    bool
	captured  [4]Point
	done      [4]bool
	holding   bool
	holdStart time.Time
	holdPos   Point
}

// NewCalibrator creates a Calibrator for a target surface of the given
// pixel size. tolerance is in normalized camera units.
func NewCalibrator(hold time.Duration, tolerance float64, width, height int) *Calibrator {
	return &Calibrator{
		hold:      hold,
		tolerance: tolerance,
		width:     float64(width),
		height:    float64(height),
	}
}

// Start begins a new calibration session, discarding any prior progress.
func (c *Calibrator) Start() {
	c.active = true
	c.holding = false
	c.done = [4]bool{}
}

// Cancel aborts the session.
func (c *Calibrator) Cancel() {
	c.active = false
	c.holding = false
}

// Active reports whether a calibration session is in progress.
func (c *Calibrator) Active() bool {
	return c.active
}

// Corner returns the index of the corner currently being captured,
// or -1 when no corner is pending.
func (c *Calibrator) Corner() int {
	for i := range c.done {
		if !c.done[i] {
			return i
		}
	}
	return -1
}

// Feed advances the capture protocol with one frame's index fingertip
// position (normalized camera coordinates). detected is false when no
// hand was tracked this frame. On completion it returns the finished
// Calibration; otherwise the Calibration result is nil.
func (c *Calibrator) Feed(ts time.Time, fingertip Point, detected bool) (Progress, *Calibration) {
	if !c.active {
		return Progress{Corner: -1, State: CornerWaiting, Required: c.hold}, nil
	}

	corner := c.Corner()

	if !detected {
		if c.holding {
			c.holding = false
			return Progress{Corner: corner, State: CornerReset, Required: c.hold}, nil
		}
		return Progress{Corner: corner, State: CornerWaiting, Required: c.hold}, nil
	}

	if !c.holding {
		c.holding = true
		c.holdStart = ts
		c.holdPos = fingertip
		return Progress{Corner: corner, State: CornerHolding, Required: c.hold}, nil
	}

	if Distance(fingertip, c.holdPos) > c.tolerance {
		c.holding = false
		return Progress{Corner: corner, State: CornerReset, Required: c.hold}, nil
	}

	elapsed := ts.Sub(c.holdStart)
	if elapsed < c.hold {
		return Progress{Corner: corner, State: CornerHolding, Elapsed: elapsed, Required: c.hold}, nil
	}

	c.captured[corner] = c.holdPos
	c.done[corner] = true
	c.holding = false

	if c.Corner() >= 0 {
		return Progress{Corner: corner, State: CornerCaptured, Elapsed: c.hold, Required: c.hold}, nil
	}

	return c.finish(corner)
}

// finish validates the captured quadrilateral and computes the homography.
// A degenerate set re-opens capture for the offending corner.
func (c *Calibrator) finish(corner int) (Progress, *Calibration) {
	if bad := DegenerateCorner(c.captured[:]); bad >= 0 {
		c.done[bad] = false
		return Progress{Corner: bad, State: CalibrationRejected, Required: c.hold}, nil
	}

	dst := [4]Point{
		{X: 0, Y: 0},
		{X: c.width, Y: 0},
		{X: c.width, Y: c.height},
		{X: 0, Y: c.height},
	}

	h, err := ComputeHomography(c.captured, dst)
	if err != nil {
		c.done[corner] = false
		return Progress{Corner: corner, State: CalibrationRejected, Required: c.hold}, nil
	}

	c.active = false
	return Progress{Corner: corner, State: CalibrationDone, Elapsed: c.hold, Required: c.hold},
		&Calibration{Corners: c.captured, Homography: h}
}
