package engine

import "encoding/json"

// Label is the frame-local gesture classification for one hand.
type Label int

const (
	// LabelNone means no hand detected or geometry matching no gesture.
	LabelNone Label = iota
	// LabelOpenHand means all fingers extended, no pinch.
	LabelOpenHand
	// LabelPinchIndex means thumb tip touching the index fingertip.
	LabelPinchIndex
	// LabelPinchMiddle means thumb tip touching the middle fingertip.
	LabelPinchMiddle
	// LabelFist means all four non-thumb fingers curled, no pinch.
	LabelFist
)

// String returns the label name.
func (l Label) String() string {
	switch l {
	case LabelNone:
		return "none"
	case LabelOpenHand:
		return "open"
	case LabelPinchIndex:
		return "pinch-index"
	case LabelPinchMiddle:
		return "pinch-middle"
	case LabelFist:
		return "fist"
	}
	return "unknown"
}

// MarshalJSON encodes the label as its name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// Classifier assigns a Label to one hand's Features. Classification is
// frame-local and stateless; debouncing happens in the state machine.
type Classifier struct {
	// PinchDistance is the thumb-to-fingertip threshold in normalized
	// camera units below which a pinch is recognized.
	PinchDistance float64
}

// NewClassifier creates a Classifier with the given pinch threshold.
func NewClassifier(pinchDistance float64) *Classifier {
	return &Classifier{PinchDistance: pinchDistance}
}

// Classify returns the gesture label for the given features.
// The index pinch is checked before the middle pinch, so it wins when
// both fingertips are within the threshold.
func (c *Classifier) Classify(f Features) Label {
	if !f.Valid {
		return LabelNone
	}

	if f.ThumbIndexDist < c.PinchDistance {
		return LabelPinchIndex
	}
	if f.ThumbMiddleDist < c.PinchDistance {
		return LabelPinchMiddle
	}
	if f.AllCurled() {
		return LabelFist
	}
	if f.NoneCurled() {
		return LabelOpenHand
	}

	return LabelNone
}
