package renderer

import "fmt"

// FrameClock measures the time between loop iterations
type FrameClock struct {
	last    float64
	started bool
	delta   float64
}

// Tick records a new frame at now (seconds). The first tick has a zero delta,
// and a clock that goes backwards yields zero rather than a negative delta.
func (c *FrameClock) Tick(now float64) {
	if !c.started {
		c.started = true
		c.last = now
		c.delta = 0
		return
	}
	c.delta = now - c.last
	if c.delta < 0 {
		c.delta = 0
	}
	c.last = now
}

// Delta returns the last frame time in seconds
func (c *FrameClock) Delta() float64 {
	return c.delta
}

// FPS returns the instantaneous frame rate, 0 before a delta is known
func (c *FrameClock) FPS() float64 {
	if c.delta <= 0 {
		return 0
	}
	return 1 / c.delta
}

// StatsTitle formats the window title with the frame rate and frame time in milliseconds
func StatsTitle(base string, c *FrameClock) string {
	return fmt.Sprintf("%s FPS:%f|Frametime:%f", base, c.FPS(), c.Delta()*1000)
}
