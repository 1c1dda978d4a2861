package engine

import "github.com/ayusman/mudra/internal/mapping"

// Smoothing alpha bounds for runtime adjustment.
const (
	MinSmoothingAlpha  = 0.1
	MaxSmoothingAlpha  = 1.0
	SmoothingAlphaStep = 0.1
)

// Smoother low-pass filters mapped cursor positions with exponential
// smoothing: out = alpha*new + (1-alpha)*prev. The first sample after
// construction or a Reset passes through unfiltered so the cursor does
// not visibly lag in from a stale position.
type Smoother struct {
	alpha  float64
	last   mapping.Point
	primed bool
}

// NewSmoother creates a Smoother with the given alpha, clamped to
// [MinSmoothingAlpha, MaxSmoothingAlpha].
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: clampAlpha(alpha)}
}

// Apply filters one position sample and returns the smoothed position.
func (s *Smoother) Apply(p mapping.Point) mapping.Point {
	if !s.primed {
		s.last = p
		s.primed = true
		return p
	}

	s.last = mapping.Point{
		X: s.alpha*p.X + (1-s.alpha)*s.last.X,
		Y: s.alpha*p.Y + (1-s.alpha)*s.last.Y,
	}
	return s.last
}

// Reset discards the filter state. Called whenever hand tracking is lost
// so a regained hand does not jump from a stale filtered position.
func (s *Smoother) Reset() {
	s.primed = false
}

// Alpha returns the current smoothing factor.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}

// Adjust shifts alpha by delta steps (positive = less smoothing) and
// returns the new value.
func (s *Smoother) Adjust(steps int) float64 {
	s.alpha = clampAlpha(s.alpha + float64(steps)*SmoothingAlphaStep)
	return s.alpha
}

func clampAlpha(a float64) float64 {
	if a < MinSmoothingAlpha {
		return MinSmoothingAlpha
	}
	if a > MaxSmoothingAlpha {
		return MaxSmoothingAlpha
	}
	return a
}
