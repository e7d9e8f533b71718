package terrain

import (
	"math/rand/v2"

	"lowpoly/internal/graphics"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Params controls heightmap shape and tree placement
type Params struct {
	Size        int     // cells per side; the grid has Size+1 vertices per side
	Scale       float32 // noise frequency per world unit
	Amplitude   float32 // height of the tallest peak above the lowest valley
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Seed        int64

	TreeCount     int
	TreeMinHeight float32
	TreeMaxHeight float32
	TreeScale     float32
}

// Height bands as a fraction of Amplitude
const (
	sandLevel  = 0.30
	grassLevel = 0.60
	rockLevel  = 0.80
)

var (
	colorSand  = mgl32.Vec3{0.76, 0.70, 0.50}
	colorGrass = mgl32.Vec3{0.33, 0.55, 0.25}
	colorRock  = mgl32.Vec3{0.45, 0.42, 0.40}
	colorSnow  = mgl32.Vec3{0.95, 0.95, 0.97}
)

// Heightmap is generated terrain data, independent of any GPU state
type Heightmap struct {
	Params  Params
	Heights []float32 // (Size+1)*(Size+1), row-major by z
	Trees   []mgl32.Mat4
}

// Generate builds the heightmap and tree transforms for p. The result is a pure function of p.
func Generate(p Params) *Heightmap {
	n := p.Size + 1
	hm := &Heightmap{
		Params:  p,
		Heights: make([]float32, n*n),
	}

	noise := newFractal(p)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			x, z := hm.worldPos(i, j)
			hm.Heights[j*n+i] = noise.At(x*p.Scale, z*p.Scale) * p.Amplitude
		}
	}

	hm.Trees = hm.placeTrees()
	return hm
}

// half is the world-space distance from the center to an edge
func (hm *Heightmap) half() float32 {
	return float32(hm.Params.Size) / 2
}

func (hm *Heightmap) worldPos(i, j int) (float32, float32) {
	return float32(i) - hm.half(), float32(j) - hm.half()
}

func (hm *Heightmap) at(i, j int) float32 {
	n := hm.Params.Size + 1
	return hm.Heights[j*n+i]
}

// Height returns the surface height at world (x, z), bilinearly interpolated.
// Points outside the grid are clamped to the edge.
func (hm *Heightmap) Height(x, z float32) float32 {
	size := float32(hm.Params.Size)
	gx := clampf(x+hm.half(), 0, size)
	gz := clampf(z+hm.half(), 0, size)

	i0 := int(math32.Floor(gx))
	j0 := int(math32.Floor(gz))
	if i0 >= hm.Params.Size {
		i0 = hm.Params.Size - 1
	}
	if j0 >= hm.Params.Size {
		j0 = hm.Params.Size - 1
	}
	fx := gx - float32(i0)
	fz := gz - float32(j0)

	// Follow the triangle split used by Vertices so the result lies on the rendered surface
	h00 := hm.at(i0, j0)
	h10 := hm.at(i0+1, j0)
	h01 := hm.at(i0, j0+1)
	h11 := hm.at(i0+1, j0+1)
	if fx+fz <= 1 {
		return h00 + (h10-h00)*fx + (h01-h00)*fz
	}
	return h11 + (h01-h11)*(1-fx) + (h10-h11)*(1-fz)
}

// Vertices returns the flat-shaded triangle list: two triangles per cell, counter-clockwise
// seen from above, each with its own face normal and a color picked by its mean height.
func (hm *Heightmap) Vertices() []graphics.Vertex {
	size := hm.Params.Size
	out := make([]graphics.Vertex, 0, size*size*6)

	corner := func(i, j int) mgl32.Vec3 {
		x, z := hm.worldPos(i, j)
		return mgl32.Vec3{x, hm.at(i, j), z}
	}

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			v00 := corner(i, j)
			v10 := corner(i+1, j)
			v01 := corner(i, j+1)
			v11 := corner(i+1, j+1)

			out = hm.appendTriangle(out, v00, v01, v10)
			out = hm.appendTriangle(out, v10, v01, v11)
		}
	}
	return out
}

func (hm *Heightmap) appendTriangle(out []graphics.Vertex, a, b, c mgl32.Vec3) []graphics.Vertex {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	color := hm.bandColor((a.Y() + b.Y() + c.Y()) / 3)
	for _, p := range [3]mgl32.Vec3{a, b, c} {
		out = append(out, graphics.Vertex{
			Position:  p,
			Normal:    normal,
			TexCoords: mgl32.Vec2{p.X() / float32(hm.Params.Size), p.Z() / float32(hm.Params.Size)},
			Color:     color,
		})
	}
	return out
}

func (hm *Heightmap) bandColor(h float32) mgl32.Vec3 {
	if hm.Params.Amplitude <= 0 {
		return colorGrass
	}
	t := h / hm.Params.Amplitude
	switch {
	case t < sandLevel:
		return colorSand
	case t < grassLevel:
		return colorGrass
	case t < rockLevel:
		return colorRock
	default:
		return colorSnow
	}
}

// placeTrees scatters up to TreeCount trees on the surface where the height lies in the tree band
func (hm *Heightmap) placeTrees() []mgl32.Mat4 {
	p := hm.Params
	if p.TreeCount <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(uint64(p.Seed), 0x7265657374726565))
	trees := make([]mgl32.Mat4, 0, p.TreeCount)
	margin := float32(1)
	span := float32(p.Size) - 2*margin
	if span <= 0 {
		return nil
	}

	for attempt := 0; attempt < p.TreeCount*10 && len(trees) < p.TreeCount; attempt++ {
		x := rng.Float32()*span - hm.half() + margin
		z := rng.Float32()*span - hm.half() + margin
		angle := rng.Float32() * 2 * math32.Pi
		scale := p.TreeScale * (0.8 + 0.4*rng.Float32())

		h := hm.Height(x, z)
		if h < p.TreeMinHeight || h > p.TreeMaxHeight {
			continue
		}

		model := mgl32.Translate3D(x, h, z).
			Mul4(mgl32.HomogRotate3DY(angle)).
			Mul4(mgl32.Scale3D(scale, scale, scale))
		trees = append(trees, model)
	}
	return trees
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
