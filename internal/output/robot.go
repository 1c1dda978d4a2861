package output

import "github.com/go-vgo/robotgo"

// RobotInjector injects input through robotgo.
type RobotInjector struct{}

// NewRobotInjector creates a robotgo-backed injector.
func NewRobotInjector() RobotInjector {
	return RobotInjector{}
}

// Move positions the cursor at absolute screen coordinates.
func (RobotInjector) Move(x, y int) {
	robotgo.Move(x, y)
}

// ButtonDown presses the primary mouse button.
func (RobotInjector) ButtonDown() {
	robotgo.MouseDown("left")
}

// ButtonUp releases the primary mouse button.
func (RobotInjector) ButtonUp() {
	robotgo.MouseUp("left")
}

// DoubleClick performs a native double click.
func (RobotInjector) DoubleClick() {
	robotgo.Click("left", true)
}

// RightClick performs a secondary-button click.
func (RobotInjector) RightClick() {
	robotgo.Click("right")
}

// Scroll scrolls vertically; positive amounts scroll up.
func (RobotInjector) Scroll(amount int) {
	robotgo.Scroll(0, amount)
}

// ScreenSize returns the primary display resolution in pixels.
func ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
