// Package noise implements the coherent noise fields terrain synthesis is
// built on. A Field hashes integer lattice coordinates into gradient
// directions and interpolates between them, so the same seed always yields
// the same surface without storing any lattice state.
package noise

import "math"

// Field is a seeded 2D gradient-noise source.
type Field struct {
	seed uint64
}

// NewField creates a noise field for the given seed.
func NewField(seed int64) *Field {
	return &Field{seed: uint64(seed)}
}

// mix runs an avalanche hash over the lattice coordinate and seed. Every
// input bit flips roughly half the output bits, which keeps neighboring
// lattice cells decorrelated.
func (f *Field) mix(ix, iz int64) uint64 {
	h := f.seed ^ uint64(ix)*0x9E3779B97F4A7C15 ^ uint64(iz)*0xC2B2AE3D27D4EB4F
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return h
}

// gradient returns the unit gradient vector at a lattice corner.
func (f *Field) gradient(ix, iz int64) (gx, gz float64) {
	angle := float64(f.mix(ix, iz)&0xFFFFFF) / float64(0x1000000) * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// At samples the field at a continuous coordinate. Lattice corners are
// exactly zero and values stay within about [-0.71, 0.71].
func (f *Field) At(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix := int64(x0)
	iz := int64(z0)
	fx := x - x0
	fz := z - z0

	g00x, g00z := f.gradient(ix, iz)
	g10x, g10z := f.gradient(ix+1, iz)
	g01x, g01z := f.gradient(ix, iz+1)
	g11x, g11z := f.gradient(ix+1, iz+1)

	d00 := g00x*fx + g00z*fz
	d10 := g10x*(fx-1) + g10z*fz
	d01 := g01x*fx + g01z*(fz-1)
	d11 := g11x*(fx-1) + g11z*(fz-1)

	u := fade(fx)
	v := fade(fz)

	top := d00 + u*(d10-d00)
	bottom := d01 + u*(d11-d01)
	return top + v*(bottom-top)
}

// Octave sums the field at doubling frequencies with amplitudes shrinking
// by persistence each step, normalized back into roughly [-1, 1].
func (f *Field) Octave(x, z float64, octaves int, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := 1.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		total += f.At(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

// fade is the smoothstep easing applied to interpolation weights so the
// surface has continuous first derivatives across cell borders.
func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Pseudo is a stateless sine hash returning a value in [0, 1). It is not
// coherent between nearby inputs, which is what edge jitter wants.
func Pseudo(x, z, seed float64) float64 {
	v := math.Sin(x*12.9898+z*78.233+seed*37.719) * 43758.5453
	return v - math.Floor(v)
}

// PseudoSigned maps Pseudo into [-1, 1).
func PseudoSigned(x, z, seed float64) float64 {
	return Pseudo(x, z, seed)*2 - 1
}
