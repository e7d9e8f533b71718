// Package hud draws screen-space text over the scene.
package hud

import (
	"fmt"
	"strings"

	"lowpoly/internal/graphics"
	"lowpoly/internal/graphics/renderer"
	"lowpoly/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/gomono"
)

// DefaultFontSize is used when no size is configured
const DefaultFontSize = 16

const (
	marginX   = 10
	marginY   = 8
	topTracks = 5
)

// Stats is a frame statistics overlay: frame rate, camera position and the most
// expensive tracked sections of the current frame
type Stats struct {
	atlas *graphics.FontAtlas
	color mgl32.Vec3

	vao   uint32
	vbo   uint32
	verts []float32
}

// NewStats bakes the monospace Go font at the given pixel size and creates the text buffers
func NewStats(pixels int) (*Stats, error) {
	if pixels == 0 {
		pixels = DefaultFontSize
	}
	atlas, err := graphics.BakeFont(gomono.TTF, pixels)
	if err != nil {
		return nil, fmt.Errorf("stats font: %w", err)
	}
	atlas.Upload()

	s := &Stats{atlas: atlas, color: mgl32.Vec3{1, 1, 1}}
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 256*graphics.FloatsPerGlyph*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return s, nil
}

// Projection maps top-left origin pixel coordinates to clip space
func Projection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Lines formats the statistics shown for a frame
func Lines(ctx renderer.FrameContext) []string {
	lines := make([]string, 0, 3+topTracks)
	if ctx.Clock != nil {
		lines = append(lines, fmt.Sprintf("FPS: %.1f | Frame: %.2fms", ctx.Clock.FPS(), ctx.Clock.Delta()*1000))
	}
	if ctx.Camera != nil {
		p := ctx.Camera.Position
		lines = append(lines, fmt.Sprintf("Pos: %.1f, %.1f, %.1f", p.X(), p.Y(), p.Z()))
	}

	drawMs := float64(profiling.SumWithPrefix("draw.").Microseconds()) / 1000.0
	lines = append(lines, fmt.Sprintf("Draw: %.2fms", drawMs))

	if top := profiling.TopN(topTracks); top != "" {
		for line := range strings.SplitSeq(top, ", ") {
			if line != "" && !strings.HasSuffix(line, ":0ms") {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// Layout appends the quads of lines stacked from the top-left corner
func (s *Stats) Layout(dst []float32, lines []string) []float32 {
	step := float32(s.atlas.LineHeight)
	y := marginY + step
	for _, line := range lines {
		dst = s.atlas.AppendText(dst, line, marginX, y, 1)
		y += step
	}
	return dst
}

// Bind sets the overlay uniforms and lays out this frame's text
func (s *Stats) Bind(p graphics.Program, ctx renderer.FrameContext) {
	p.SetMat4("projection", Projection(ctx.Width, ctx.Height))
	p.SetVec3("textColor", s.color)
	p.SetInt("text", 0)
	s.verts = s.Layout(s.verts[:0], Lines(ctx))
}

// Draw renders the text laid out by the last Bind
func (s *Stats) Draw(graphics.Program) {
	if len(s.verts) == 0 {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.atlas.TextureID)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)

	// Orphan the buffer before the update to avoid stalling on the previous frame
	size := len(s.verts) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(s.verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(s.verts)/4))

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

// Dispose releases the text buffers and the atlas texture
func (s *Stats) Dispose() {
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	s.atlas.Delete()
}
