// Package output dispatches engine events to the operating system's
// input facilities.
package output

// Injector is the narrow interface to OS-level mouse injection.
type Injector interface {
	// Move positions the cursor at absolute screen coordinates.
	Move(x, y int)
	// ButtonDown presses the primary mouse button.
	ButtonDown()
	// ButtonUp releases the primary mouse button.
	ButtonUp()
	// DoubleClick performs a native primary-button double click.
	DoubleClick()
	// RightClick performs a secondary-button click.
	RightClick()
	// Scroll scrolls vertically; positive amounts scroll up.
	Scroll(amount int)
}
