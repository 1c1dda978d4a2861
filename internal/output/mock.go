package output

import "fmt"

// MockInjector records injected input for tests.
type MockInjector struct {
	Calls []string
}

// NewMockInjector creates an empty MockInjector.
func NewMockInjector() *MockInjector {
	return &MockInjector{}
}

// Move records a cursor move.
func (m *MockInjector) Move(x, y int) {
	m.Calls = append(m.Calls, fmt.Sprintf("move %d %d", x, y))
}

// ButtonDown records a primary button press.
func (m *MockInjector) ButtonDown() {
	m.Calls = append(m.Calls, "down")
}

// ButtonUp records a primary button release.
func (m *MockInjector) ButtonUp() {
	m.Calls = append(m.Calls, "up")
}

// DoubleClick records a double click.
func (m *MockInjector) DoubleClick() {
	m.Calls = append(m.Calls, "double")
}

// RightClick records a right click.
func (m *MockInjector) RightClick() {
	m.Calls = append(m.Calls, "right")
}

// Scroll records a scroll.
func (m *MockInjector) Scroll(amount int) {
	m.Calls = append(m.Calls, fmt.Sprintf("scroll %d", amount))
}

// Reset clears the recorded calls.
func (m *MockInjector) Reset() {
	m.Calls = nil
}
