package terrain

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// fractal is layered value noise. Every octave reads its own lattice, whose corner
// values come from a PCG stream keyed by the seed, the octave and the corner.
type fractal struct {
	seed        uint64
	octaves     int
	persistence float32
	lacunarity  float32
}

func newFractal(p Params) fractal {
	return fractal{
		seed:        uint64(p.Seed),
		octaves:     p.Octaves,
		persistence: float32(p.Persistence),
		lacunarity:  float32(p.Lacunarity),
	}
}

// corner is the lattice value at (ix, iz) for one octave, in [0,1)
func (f fractal) corner(octave int, ix, iz int32) float32 {
	key := uint64(uint32(ix))*0x9E3779B97F4A7C15 ^ uint64(uint32(iz))*0xC2B2AE3D27D4EB4F
	src := rand.NewPCG(f.seed^uint64(octave)<<56, key)
	return float32(src.Uint64()>>40) / (1 << 24)
}

// smoother is the quintic ease curve 6t^5 - 15t^4 + 10t^3
func smoother(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

// sample is a single octave at lattice coordinates (x, z), in [0,1)
func (f fractal) sample(octave int, x, z float32) float32 {
	fx, fz := math32.Floor(x), math32.Floor(z)
	ix, iz := int32(fx), int32(fz)
	tx, tz := smoother(x-fx), smoother(z-fz)

	near := f.corner(octave, ix, iz) + tx*(f.corner(octave, ix+1, iz)-f.corner(octave, ix, iz))
	far := f.corner(octave, ix, iz+1) + tx*(f.corner(octave, ix+1, iz+1)-f.corner(octave, ix, iz+1))
	return near + tz*(far-near)
}

// At sums the octaves at (x, z) and normalizes by their total weight. The result is
// in [0,1]; with no octaves it is 0.
func (f fractal) At(x, z float32) float32 {
	var sum, weight float32
	amp, freq := float32(1), float32(1)
	for o := range f.octaves {
		sum += amp * f.sample(o, x*freq, z*freq)
		weight += amp
		amp *= f.persistence
		freq *= f.lacunarity
	}
	if weight == 0 {
		return 0
	}
	return math32.Min(sum/weight, 1)
}
