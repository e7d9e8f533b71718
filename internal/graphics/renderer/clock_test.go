package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock(t *testing.T) {
	var c FrameClock
	c.Tick(5)
	assert.Zero(t, c.Delta())
	assert.Zero(t, c.FPS())

	c.Tick(5.25)
	assert.InDelta(t, 0.25, c.Delta(), 1e-9)
	assert.InDelta(t, 4, c.FPS(), 1e-9)

	c.Tick(5.0)
	assert.Zero(t, c.Delta(), "a clock going backwards never yields a negative delta")

	c.Tick(5.5)
	assert.InDelta(t, 0.5, c.Delta(), 1e-9)
}

func TestStatsTitle(t *testing.T) {
	var c FrameClock
	c.Tick(0)
	assert.Equal(t, "lowpoly FPS:0.000000|Frametime:0.000000", StatsTitle("lowpoly", &c))

	c.Tick(0.5)
	assert.Equal(t, "lowpoly FPS:2.000000|Frametime:500.000000", StatsTitle("lowpoly", &c))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "TERMINATED", Terminated.String())
}

func TestFPSLimiterDisabled(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	for range 100 {
		f.Wait()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFPSLimiterPacesFrames(t *testing.T) {
	f := NewFPSLimiter(200)
	start := time.Now()
	for range 5 {
		f.Wait()
	}
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
