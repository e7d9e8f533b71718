package hud

import (
	"testing"
	"time"

	"lowpoly/internal/camera"
	"lowpoly/internal/graphics"
	"lowpoly/internal/graphics/renderer"
	"lowpoly/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestLinesReportFrameCameraAndTopSections(t *testing.T) {
	profiling.ResetFrame()
	profiling.Add("draw.terrain", 3*time.Millisecond)
	profiling.Add("draw.trees", 1500*time.Microsecond)
	profiling.Add("renderer.processInput", 0)

	var clock renderer.FrameClock
	clock.Tick(1)
	clock.Tick(1.02)

	ctx := renderer.FrameContext{
		Clock:  &clock,
		Camera: camera.New(800, 600, camera.Options{Position: mgl32.Vec3{10, 15, 10}}),
	}
	lines := Lines(ctx)

	require.Len(t, lines, 5)
	assert.Equal(t, "FPS: 50.0 | Frame: 20.00ms", lines[0])
	assert.Equal(t, "Pos: 10.0, 15.0, 10.0", lines[1])
	assert.Equal(t, "Draw: 4.50ms", lines[2])
	assert.Equal(t, []string{"draw.terrain:3ms", "draw.trees:1.5ms"}, lines[3:], "empty sections are left out")
}

func TestLinesWithoutClockOrCamera(t *testing.T) {
	profiling.ResetFrame()
	assert.Equal(t, []string{"Draw: 0.00ms"}, Lines(renderer.FrameContext{}))
}

func TestLayoutStacksLines(t *testing.T) {
	atlas, err := graphics.BakeFont(gomono.TTF, DefaultFontSize)
	require.NoError(t, err)
	s := &Stats{atlas: atlas}

	verts := s.Layout(nil, []string{"AB", "", "C"})
	require.Len(t, verts, 3*graphics.FloatsPerGlyph)

	// bottom-left corner y of a quad is baseline - bearing + height
	bottom := func(quad int, r rune) float32 {
		g := atlas.Glyphs[r]
		return verts[quad*graphics.FloatsPerGlyph+1] + g.BearingY - g.Height
	}
	step := float32(atlas.LineHeight)
	assert.InDelta(t, marginY+step, bottom(0, 'A'), 1e-3)
	assert.InDelta(t, marginY+3*step, bottom(2, 'C'), 1e-3, "empty lines still advance")
}

func TestProjectionMapsCorners(t *testing.T) {
	p := Projection(800, 600)
	topLeft := p.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	bottomRight := p.Mul4x1(mgl32.Vec4{800, 600, 0, 1})
	assert.InDelta(t, -1, topLeft.X(), 1e-6)
	assert.InDelta(t, 1, topLeft.Y(), 1e-6)
	assert.InDelta(t, 1, bottomRight.X(), 1e-6)
	assert.InDelta(t, -1, bottomRight.Y(), 1e-6)
}
