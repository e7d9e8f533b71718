package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		Size:          32,
		Scale:         0.08,
		Amplitude:     20,
		Octaves:       4,
		Persistence:   0.5,
		Lacunarity:    2,
		Seed:          1337,
		TreeCount:     25,
		TreeMinHeight: 4,
		TreeMaxHeight: 16,
		TreeScale:     1,
	}
}

func TestFractalCornersAreStable(t *testing.T) {
	f := newFractal(testParams())
	first := f.corner(0, 10, 20)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, f.corner(0, 10, 20))
	}
	assert.NotEqual(t, f.corner(0, 1, 2), f.corner(0, 2, 1), "axes are not interchangeable")
	assert.NotEqual(t, f.corner(0, 1, 1), f.corner(1, 1, 1), "octaves read separate lattices")

	p := testParams()
	p.Seed = 200
	assert.NotEqual(t, f.corner(0, 1, 1), newFractal(p).corner(0, 1, 1))
}

func TestFractalRange(t *testing.T) {
	p := testParams()
	p.Octaves = 5
	f := newFractal(p)
	for x := float32(-50); x < 50; x += 3.7 {
		for z := float32(-50); z < 50; z += 4.1 {
			v := f.At(x*0.1, z*0.1)
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}

	p.Octaves = 0
	assert.Zero(t, newFractal(p).At(1, 1))
}

func TestFractalMatchesLatticeAtIntegerPoints(t *testing.T) {
	p := testParams()
	p.Octaves = 1
	f := newFractal(p)
	assert.InDelta(t, f.corner(0, 3, -4), f.At(3, -4), 1e-6)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(testParams())
	b := Generate(testParams())
	assert.Equal(t, a.Heights, b.Heights)
	assert.Equal(t, a.Trees, b.Trees)

	p := testParams()
	p.Seed = 99
	c := Generate(p)
	assert.NotEqual(t, a.Heights, c.Heights)
}

func TestHeightsWithinAmplitude(t *testing.T) {
	hm := Generate(testParams())
	require.Len(t, hm.Heights, 33*33)
	for _, h := range hm.Heights {
		assert.GreaterOrEqual(t, h, float32(0))
		assert.LessOrEqual(t, h, float32(20))
	}
}

func TestHeightMatchesGridAndClamps(t *testing.T) {
	hm := Generate(testParams())

	// Grid vertex (i, j) sits at world (i-16, j-16)
	assert.InDelta(t, hm.at(0, 0), hm.Height(-16, -16), 1e-5)
	assert.InDelta(t, hm.at(5, 7), hm.Height(-11, -9), 1e-5)
	assert.InDelta(t, hm.at(32, 32), hm.Height(16, 16), 1e-5)
	assert.InDelta(t, hm.at(32, 32), hm.Height(1000, 1000), 1e-5, "outside points clamp to the edge")
}

func TestVerticesAreFlatShadedAndFaceUp(t *testing.T) {
	hm := Generate(testParams())
	verts := hm.Vertices()
	require.Len(t, verts, 32*32*6)

	for i := 0; i < len(verts); i += 3 {
		a, b, c := verts[i], verts[i+1], verts[i+2]
		assert.Equal(t, a.Normal, b.Normal)
		assert.Equal(t, a.Normal, c.Normal)
		assert.Equal(t, a.Color, c.Color)
		assert.Greater(t, a.Normal.Y(), float32(0), "counter-clockwise from above")
		assert.InDelta(t, 1, a.Normal.Len(), 1e-4)
	}
}

func TestBandColors(t *testing.T) {
	hm := &Heightmap{Params: Params{Amplitude: 10}}
	assert.Equal(t, colorSand, hm.bandColor(1))
	assert.Equal(t, colorGrass, hm.bandColor(4))
	assert.Equal(t, colorRock, hm.bandColor(7))
	assert.Equal(t, colorSnow, hm.bandColor(9.5))
}

func TestTreesSitOnSurfaceInsideBand(t *testing.T) {
	p := testParams()
	hm := Generate(p)
	require.NotEmpty(t, hm.Trees)
	assert.LessOrEqual(t, len(hm.Trees), p.TreeCount)

	for _, m := range hm.Trees {
		pos := m.Col(3).Vec3()
		assert.InDelta(t, hm.Height(pos.X(), pos.Z()), pos.Y(), 1e-3)
		assert.GreaterOrEqual(t, pos.Y(), p.TreeMinHeight)
		assert.LessOrEqual(t, pos.Y(), p.TreeMaxHeight)
		assert.LessOrEqual(t, pos.X(), float32(16))
		assert.GreaterOrEqual(t, pos.X(), float32(-16))

		// Uniform scale within the jitter range
		s := m.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3().Len()
		assert.InDelta(t, 1.0, s, 0.2+1e-4)
	}
}

func TestNoTreesRequested(t *testing.T) {
	p := testParams()
	p.TreeCount = 0
	assert.Empty(t, Generate(p).Trees)
}
