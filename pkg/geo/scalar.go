package geo

import "math"

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LerpF returns the linear interpolation between a and b at t.
func LerpF(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep01 is the hermite easing 3t²-2t³ with t clamped to [0,1].
func Smoothstep01(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Smoothstep eases x across the band [edge0, edge1].
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	return Smoothstep01((x - edge0) / (edge1 - edge0))
}

// NormalizeAngle wraps a into (-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDelta returns the smallest signed rotation from a to b.
func AngleDelta(a, b float64) float64 {
	return NormalizeAngle(b - a)
}
