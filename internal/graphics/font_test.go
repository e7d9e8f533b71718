package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestBakeFontCoversPrintableASCII(t *testing.T) {
	atlas, err := BakeFont(gomono.TTF, 16)
	require.NoError(t, err)

	for r := rune(32); r <= 126; r++ {
		_, ok := atlas.Glyphs[r]
		assert.True(t, ok, "glyph %q", r)
	}
	assert.Zero(t, atlas.Glyphs[' '].Width)
	assert.Positive(t, atlas.Glyphs[' '].Advance)
	assert.Positive(t, atlas.LineHeight)

	b := atlas.Image.Bounds()
	assert.Equal(t, 512, b.Dx())
	assert.Equal(t, 0, b.Dy()&(b.Dy()-1), "height is a power of two")

	// every drawable glyph lies inside the image and has coverage
	for r, g := range atlas.Glyphs {
		if g.Width == 0 {
			continue
		}
		assert.LessOrEqual(t, int(g.AtlasX+g.Width), b.Dx(), "glyph %q", r)
		assert.LessOrEqual(t, int(g.AtlasY+g.Height), b.Dy(), "glyph %q", r)
	}
	m := atlas.Glyphs['M']
	covered := false
	for y := int(m.AtlasY); y < int(m.AtlasY+m.Height); y++ {
		for x := int(m.AtlasX); x < int(m.AtlasX+m.Width); x++ {
			if atlas.Image.AlphaAt(x, y).A > 0 {
				covered = true
			}
		}
	}
	assert.True(t, covered)
}

func TestBakeFontRejectsBadInput(t *testing.T) {
	_, err := BakeFont(gomono.TTF, 0)
	assert.Error(t, err)

	_, err = BakeFont([]byte("not a font"), 16)
	assert.Error(t, err)
}

func TestAppendTextLaysOutQuads(t *testing.T) {
	atlas, err := BakeFont(gomono.TTF, 16)
	require.NoError(t, err)

	verts := atlas.AppendText(nil, "A B", 10, 20, 1)
	assert.Len(t, verts, 2*FloatsPerGlyph, "spaces advance without a quad")

	// monospace: the second quad starts two advances after the first
	a, b := atlas.Glyphs['A'], atlas.Glyphs['B']
	adv := float32(a.Advance)
	assert.InDelta(t, 10+a.BearingX, verts[0], 1e-4)
	assert.InDelta(t, 10+2*adv+b.BearingX, verts[FloatsPerGlyph], 1e-4)

	for i := 2; i < len(verts); i += 4 {
		assert.GreaterOrEqual(t, verts[i], float32(0))
		assert.LessOrEqual(t, verts[i], float32(1))
		assert.GreaterOrEqual(t, verts[i+1], float32(0))
		assert.LessOrEqual(t, verts[i+1], float32(1))
	}

	// unknown runes advance like a space
	withUnknown := atlas.AppendText(nil, "éA", 0, 0, 1)
	plain := atlas.AppendText(nil, " A", 0, 0, 1)
	assert.Equal(t, plain, withUnknown)
}

func TestMeasureScales(t *testing.T) {
	atlas, err := BakeFont(gomono.TTF, 16)
	require.NoError(t, err)

	w1, h1 := atlas.Measure("abc", 1)
	w2, h2 := atlas.Measure("abc", 2)
	assert.InDelta(t, 2*w1, w2, 1e-4)
	assert.InDelta(t, 2*h1, h2, 1e-4)
	assert.InDelta(t, 3*float32(atlas.Glyphs['a'].Advance), w1, 1e-4)
}
