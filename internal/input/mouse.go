package input

// MouseTracker turns absolute cursor positions into per-event offsets
type MouseTracker struct {
	lastX, lastY float64
	firstMouse   bool
}

// NewMouseTracker creates a tracker that treats the next position as its baseline
func NewMouseTracker() *MouseTracker {
	return &MouseTracker{firstMouse: true}
}

// Reset makes the next position the new baseline. Call after (re)capturing the cursor,
// since the warp on capture would otherwise show up as a large jump.
func (m *MouseTracker) Reset() {
	m.firstMouse = true
}

// Move returns the offset since the previous position. The y offset is reversed
// because screen y grows downwards while pitch grows upwards.
func (m *MouseTracker) Move(x, y float64) (dx, dy float32) {
	if m.firstMouse {
		m.lastX = x
		m.lastY = y
		m.firstMouse = false
		return 0, 0
	}

	dx = float32(x - m.lastX)
	dy = float32(m.lastY - y)
	m.lastX = x
	m.lastY = y
	return dx, dy
}
