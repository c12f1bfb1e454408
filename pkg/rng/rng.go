// Package rng provides the deterministic random stream the generator draws
// from. Every stage of a generation run pulls from one shared Stream in a
// fixed call order, so equal seeds reproduce equal maps bit for bit.
package rng

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// Stream is a 31-bit linear-congruential generator.
type Stream struct {
	state int64
}

// New creates a stream seeded with the given value. Seed 0 would lock the
// low bits, so it is remapped to a fixed non-zero state.
func New(seed int64) *Stream {
	s := seed % lcgModulus
	if s < 0 {
		s = -s
	}
	if s == 0 {
		s = 987654321
	}
	return &Stream{state: s}
}

// Next advances the state and returns a float in [0, 1).
func (s *Stream) Next() float64 {
	s.state = (lcgMultiplier*s.state + lcgIncrement) % lcgModulus
	return float64(s.state) / lcgModulus
}

// IntN returns an int in [0, n). n must be positive.
func (s *Stream) IntN(n int) int {
	return int(s.Next() * float64(n))
}

// IntBetween returns an int in [min, max] inclusive.
func (s *Stream) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.IntN(max-min+1)
}

// FloatBetween returns a float in [min, max).
func (s *Stream) FloatBetween(min, max float64) float64 {
	return min + s.Next()*(max-min)
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.Next() < p
}

// Angle returns a uniform angle in [0, 2π).
func (s *Stream) Angle() float64 {
	return s.Next() * 2 * 3.141592653589793
}

// Sign returns +1 or -1 with equal probability.
func (s *Stream) Sign() float64 {
	if s.Chance(0.5) {
		return 1
	}
	return -1
}

// Shuffle performs a Fisher-Yates shuffle of n elements via swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		swap(i, j)
	}
}

// Pick returns a random index weighted by the given weights. Zero or
// negative total weight falls back to index 0.
func (s *Stream) Pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := s.Next() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
