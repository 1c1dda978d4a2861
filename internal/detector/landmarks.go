// Package detector provides hand landmark acquisition for the Mudra gesture mouse.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Slack allowed around the [0,1] normalized range before a landmark set is
// considered malformed. MediaPipe reports slightly out-of-frame points for
// hands at the image border.
const coordSlack = 0.5

// Point3D represents a 3D point in normalized camera coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance2D calculates the Euclidean distance between two points in the
// camera plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Anchor returns the point that drives the cursor: the thumb tip.
func (h *HandLandmarks) Anchor() Point3D {
	return h.Points[ThumbTip]
}

// IndexFingertip returns the index fingertip, used for calibration touches.
func (h *HandLandmarks) IndexFingertip() Point3D {
	return h.Points[IndexTip]
}

// PalmCenter returns the wrist point, used as the palm reference for
// finger-curl checks and as the fist center during zoom.
func (h *HandLandmarks) PalmCenter() Point3D {
	return h.Points[Wrist]
}

// Valid reports whether the landmark set is geometrically plausible.
// Out-of-range coordinates are treated as a malformed detection and the
// hand is ignored for that frame.
func (h *HandLandmarks) Valid() bool {
	for i := 0; i < NumLandmarks; i++ {
		p := h.Points[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return false
		}
		if p.X < -coordSlack || p.X > 1+coordSlack {
			return false
		}
		if p.Y < -coordSlack || p.Y > 1+coordSlack {
			return false
		}
	}
	return true
}
