package noise

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// --- gradient field tests ---

func TestFieldDeterministic(t *testing.T) {
	a := NewField(42)
	b := NewField(42)

	for x := -3.0; x < 3.0; x += 0.37 {
		for z := -3.0; z < 3.0; z += 0.41 {
			va, vb := a.At(x, z), b.At(x, z)
			if va != vb {
				t.Fatalf("field diverged at (%f, %f): %v vs %v", x, z, va, vb)
			}
		}
	}
}

func TestFieldSeedChangesSurface(t *testing.T) {
	a := NewField(1)
	b := NewField(2)

	same := 0
	samples := 0
	for x := 0.1; x < 5.0; x += 0.53 {
		for z := 0.1; z < 5.0; z += 0.49 {
			samples++
			if math.Abs(a.At(x, z)-b.At(x, z)) < tolerance {
				same++
			}
		}
	}
	if same > samples/10 {
		t.Errorf("expected distinct surfaces, got %d of %d equal samples", same, samples)
	}
}

func TestFieldZeroAtLatticePoints(t *testing.T) {
	f := NewField(7)
	for ix := -2; ix <= 2; ix++ {
		for iz := -2; iz <= 2; iz++ {
			if v := f.At(float64(ix), float64(iz)); math.Abs(v) > tolerance {
				t.Errorf("expected 0 at lattice point (%d, %d), got %v", ix, iz, v)
			}
		}
	}
}

func TestFieldBounded(t *testing.T) {
	f := NewField(11)
	for x := -10.0; x < 10.0; x += 0.13 {
		for z := -10.0; z < 10.0; z += 0.17 {
			v := f.At(x, z)
			if v < -1 || v > 1 {
				t.Fatalf("sample out of bounds at (%f, %f): %v", x, z, v)
			}
		}
	}
}

func TestFieldContinuous(t *testing.T) {
	f := NewField(13)
	const step = 1e-4
	for x := 0.2; x < 3.0; x += 0.31 {
		for z := 0.2; z < 3.0; z += 0.29 {
			v := f.At(x, z)
			if math.Abs(f.At(x+step, z)-v) > 0.01 {
				t.Fatalf("discontinuity in x at (%f, %f)", x, z)
			}
			if math.Abs(f.At(x, z+step)-v) > 0.01 {
				t.Fatalf("discontinuity in z at (%f, %f)", x, z)
			}
		}
	}
}

func TestFieldContinuousAcrossCellBorder(t *testing.T) {
	f := NewField(17)
	// Either side of the x=1 lattice line.
	left := f.At(1-1e-7, 0.5)
	right := f.At(1+1e-7, 0.5)
	if math.Abs(left-right) > 1e-4 {
		t.Errorf("expected continuity across lattice border, got %v vs %v", left, right)
	}
}

// --- octave tests ---

func TestOctaveDeterministic(t *testing.T) {
	a := NewField(42)
	b := NewField(42)
	for x := 0.0; x < 4.0; x += 0.61 {
		va := a.Octave(x, 1.3, 4, 0.5)
		vb := b.Octave(x, 1.3, 4, 0.5)
		if va != vb {
			t.Fatalf("octave sum diverged at x=%f: %v vs %v", x, va, vb)
		}
	}
}

func TestOctaveBounded(t *testing.T) {
	f := NewField(19)
	for x := -5.0; x < 5.0; x += 0.23 {
		for z := -5.0; z < 5.0; z += 0.27 {
			v := f.Octave(x, z, 4, 0.5)
			if v < -1 || v > 1 {
				t.Fatalf("octave sum out of bounds at (%f, %f): %v", x, z, v)
			}
		}
	}
}

func TestOctaveAddsDetail(t *testing.T) {
	f := NewField(23)

	// Mean absolute difference between nearby samples should grow when
	// higher-frequency octaves are stacked on.
	detail := func(octaves int) float64 {
		sum := 0.0
		n := 0
		for x := 0.0; x < 8.0; x += 0.11 {
			sum += math.Abs(f.Octave(x+0.05, 2.0, octaves, 0.5) - f.Octave(x, 2.0, octaves, 0.5))
			n++
		}
		return sum / float64(n)
	}

	if d1, d4 := detail(1), detail(4); d4 <= d1 {
		t.Errorf("expected 4 octaves to carry more detail than 1, got %f vs %f", d4, d1)
	}
}

func TestOctaveZeroOctaves(t *testing.T) {
	f := NewField(29)
	if v := f.Octave(1.5, 2.5, 0, 0.5); v != 0 {
		t.Errorf("expected 0 for zero octaves, got %v", v)
	}
}

// --- sine hash tests ---

func TestPseudoRange(t *testing.T) {
	for x := -20.0; x < 20.0; x += 0.7 {
		for z := -20.0; z < 20.0; z += 0.9 {
			v := Pseudo(x, z, 5)
			if v < 0 || v >= 1 {
				t.Fatalf("Pseudo out of [0,1) at (%f, %f): %v", x, z, v)
			}
		}
	}
}

func TestPseudoDeterministic(t *testing.T) {
	if Pseudo(3.7, 8.1, 42) != Pseudo(3.7, 8.1, 42) {
		t.Error("expected identical values for identical inputs")
	}
	if Pseudo(3.7, 8.1, 42) == Pseudo(3.7, 8.1, 43) {
		t.Error("expected seed to change the hash")
	}
}

func TestPseudoSigned(t *testing.T) {
	low, high := 1.0, -1.0
	for x := 0.0; x < 50.0; x += 0.37 {
		v := PseudoSigned(x, x*1.7, 9)
		if v < -1 || v >= 1 {
			t.Fatalf("PseudoSigned out of [-1,1) at x=%f: %v", x, v)
		}
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if low > -0.5 || high < 0.5 {
		t.Errorf("expected the hash to span most of [-1,1), got [%f, %f]", low, high)
	}
}
