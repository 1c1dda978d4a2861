// Package engine implements the gesture-to-input mapping core: per-frame
// gesture classification, the debounced gesture state machine, motion
// smoothing and the frame-synchronous command queue.
package engine

import (
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mapping"
)

// curlRatio is the fingertip-to-palm distance, relative to the finger
// MCP-to-palm distance, below which a finger counts as curled. An
// extended finger sits near 1.7-2.0, a curled one near 1.0.
const curlRatio = 1.3

// Features are the per-hand scalar quantities the classifier works from.
// They are recomputed every frame and never retained.
type Features struct {
	ThumbIndexDist  float64
	ThumbMiddleDist float64
	// Curled flags for index, middle, ring, pinky.
	Curled [4]bool
	// Anchor is the cursor reference point (thumb tip), normalized.
	Anchor mapping.Point
	// Palm is the palm center (wrist), normalized.
	Palm mapping.Point
	// Valid is false for malformed or out-of-range landmark sets; the
	// classifier maps invalid features to LabelNone.
	Valid bool
}

// fingers lists (tip, mcp) landmark index pairs for the four non-thumb
// fingers, in Curled order.
var fingers = [4][2]int{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// ExtractFeatures derives Features from one hand's landmarks.
func ExtractFeatures(h *detector.HandLandmarks) Features {
	if h == nil || !h.Valid() {
		return Features{}
	}

	thumb := h.Points[detector.ThumbTip]
	palm := h.PalmCenter()

	f := Features{
		ThumbIndexDist:  detector.Distance2D(thumb, h.Points[detector.IndexTip]),
		ThumbMiddleDist: detector.Distance2D(thumb, h.Points[detector.MiddleTip]),
		Anchor:          mapping.Point{X: thumb.X, Y: thumb.Y},
		Palm:            mapping.Point{X: palm.X, Y: palm.Y},
		Valid:           true,
	}

	for i, pair := range fingers {
		tipDist := detector.Distance2D(h.Points[pair[0]], palm)
		mcpDist := detector.Distance2D(h.Points[pair[1]], palm)
		f.Curled[i] = tipDist < mcpDist*curlRatio
	}

	return f
}

// AllCurled reports whether all four non-thumb fingers are curled.
func (f Features) AllCurled() bool {
	return f.Curled[0] && f.Curled[1] && f.Curled[2] && f.Curled[3]
}

// NoneCurled reports whether no finger is curled.
func (f Features) NoneCurled() bool {
	return !f.Curled[0] && !f.Curled[1] && !f.Curled[2] && !f.Curled[3]
}
