package graphics

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FloatsPerGlyph is the vertex data of one glyph quad: 6 vertices of (x, y, u, v)
const FloatsPerGlyph = 6 * 4

const (
	atlasWidth   = 512
	atlasPadding = 1
	firstRune    = rune(32)
	lastRune     = rune(126)
)

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas image (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Offset from the pen position on the baseline
	BearingX float32
	BearingY float32
	Advance  int
}

// FontAtlas holds printable ASCII baked into a single-channel image
type FontAtlas struct {
	Image      *image.Alpha
	Glyphs     map[rune]Glyph
	LineHeight int
	TextureID  uint32
}

// BakeFont parses a TrueType/OpenType font and rasterizes the printable ASCII range at
// the given pixel size. No GL calls are made; see Upload.
func BakeFont(data []byte, pixels int) (*FontAtlas, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("invalid font size %d", pixels)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	type placed struct {
		dr    image.Rectangle
		mask  image.Image
		maskp image.Point
		x, y  int
	}

	// Pack rows left to right, then size the image to what was used
	glyphs := make(map[rune]Glyph)
	var queue []placed
	offsetX, offsetY, rowHeight := 0, 0, 0
	for r := firstRune; r <= lastRune; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		gw, gh := dr.Dx(), dr.Dy()
		if mask == nil || gw == 0 || gh == 0 {
			// Space or non-drawable glyph; still record advance
			glyphs[r] = g
			continue
		}
		if offsetX+gw > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + atlasPadding
			rowHeight = 0
		}
		g.AtlasX, g.AtlasY = float32(offsetX), float32(offsetY)
		g.Width, g.Height = float32(gw), float32(gh)
		glyphs[r] = g
		queue = append(queue, placed{dr: dr, mask: mask, maskp: maskp, x: offsetX, y: offsetY})

		offsetX += gw + atlasPadding
		rowHeight = max(rowHeight, gh)
	}
	if len(queue) == 0 {
		return nil, errors.New("font has no drawable ASCII glyphs")
	}

	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, nextPowerOfTwo(offsetY+rowHeight)))
	for _, p := range queue {
		dst := image.Rect(p.x, p.y, p.x+p.dr.Dx(), p.y+p.dr.Dy())
		draw.Draw(img, dst, p.mask, p.maskp, draw.Src)
	}

	return &FontAtlas{
		Image:      img,
		Glyphs:     glyphs,
		LineHeight: face.Metrics().Height.Ceil(),
	}, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Upload creates the GL_RED texture backing the atlas
func (a *FontAtlas) Upload() {
	w, h := a.Image.Bounds().Dx(), a.Image.Bounds().Dy()
	gl.GenTextures(1, &a.TextureID)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, a.TextureID)
	// Ensure tight byte alignment for single-channel upload
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

// Delete releases the atlas texture
func (a *FontAtlas) Delete() {
	if a.TextureID != 0 {
		gl.DeleteTextures(1, &a.TextureID)
		a.TextureID = 0
	}
}

// Measure returns the width and tallest glyph height in pixels of text at the given scale
func (a *FontAtlas) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			g = a.Glyphs[' ']
		}
		width += float32(g.Advance) * scale
		maxH = max(maxH, g.Height*scale)
	}
	return width, maxH
}

// AppendText appends the quads of text with its baseline starting at (x, y), in a
// top-left origin pixel space. Unknown runes advance like a space.
func (a *FontAtlas) AppendText(dst []float32, text string, x, y, scale float32) []float32 {
	aw := float32(a.Image.Bounds().Dx())
	ah := float32(a.Image.Bounds().Dy())
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			x += float32(a.Glyphs[' '].Advance) * scale
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			xPos := x + g.BearingX*scale
			yPos := y - g.BearingY*scale
			w := g.Width * scale
			h := g.Height * scale

			u0, v0 := g.AtlasX/aw, g.AtlasY/ah
			u1, v1 := (g.AtlasX+g.Width)/aw, (g.AtlasY+g.Height)/ah

			dst = append(dst,
				xPos, yPos+h, u0, v1,
				xPos, yPos, u0, v0,
				xPos+w, yPos, u1, v0,

				xPos, yPos+h, u0, v1,
				xPos+w, yPos, u1, v0,
				xPos+w, yPos+h, u1, v1,
			)
		}
		x += float32(g.Advance) * scale
	}
	return dst
}
