package mapping

import "errors"

// ErrNotCalibrated is returned by Map when table mode is active without a
// valid calibration. The caller suppresses cursor movement rather than
// mapping incorrectly.
var ErrNotCalibrated = errors.New("table mode is not calibrated")

// Mode selects how camera coordinates map onto the target surface.
type Mode int

const (
	// ScreenMode scales normalized camera coordinates directly to the
	// target surface resolution.
	ScreenMode Mode = iota
	// TableMode applies the calibrated homography before scaling.
	TableMode
)

// String returns the mode name as used in config and API payloads.
func (m Mode) String() string {
	switch m {
	case ScreenMode:
		return "screen"
	case TableMode:
		return "table"
	}
	return "unknown"
}

// Mapper transforms anchor points in normalized camera space into
// target-surface pixel coordinates.
type Mapper struct {
	mode       Mode
	width      float64
	height     float64
	homography *Homography
}

// NewMapper creates a Mapper for a target surface of the given pixel size,
// starting in screen mode.
func NewMapper(width, height int) *Mapper {
	return &Mapper{
		mode:   ScreenMode,
		width:  float64(width),
		height: float64(height),
	}
}

// Mode returns the active operating mode.
func (m *Mapper) Mode() Mode {
	return m.mode
}

// SetMode switches the operating mode.
func (m *Mapper) SetMode(mode Mode) {
	m.mode = mode
}

// Toggle flips between screen and table mode and returns the new mode.
func (m *Mapper) Toggle() Mode {
	if m.mode == ScreenMode {
		m.mode = TableMode
	} else {
		m.mode = ScreenMode
	}
	return m.mode
}

// SetHomography installs a calibrated camera-to-surface transform.
func (m *Mapper) SetHomography(h *Homography) {
	m.homography = h
}

// Calibrated reports whether a homography is installed.
func (m *Mapper) Calibrated() bool {
	return m.homography != nil
}

// SurfaceSize returns the target surface dimensions in pixels.
func (m *Mapper) SurfaceSize() (int, int) {
	return int(m.width), int(m.height)
}

// Map transforms a normalized camera-space point into surface pixels.
// In table mode without a calibration it returns ErrNotCalibrated.
func (m *Mapper) Map(p Point) (Point, error) {
	switch m.mode {
	case TableMode:
		if m.homography == nil {
			return Point{}, ErrNotCalibrated
		}
		return m.clamp(m.homography.Apply(p)), nil
	default:
		return m.clamp(Point{X: p.X * m.width, Y: p.Y * m.height}), nil
	}
}

func (m *Mapper) clamp(p Point) Point {
	if p.X < 0 {
		p.X = 0
	} else if p.X > m.width {
		p.X = m.width
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y > m.height {
		p.Y = m.height
	}
	return p
}
