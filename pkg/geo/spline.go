package geo

// CatmullRom evaluates a Catmull-Rom spline through the control points with
// samplesPerSegment intermediate points per segment. Tension 0.5 gives the
// standard centripetal curve. Endpoints are preserved via reflected phantom
// points.
func CatmullRom(control []Point, samplesPerSegment int, tension float64) Polyline {
	n := len(control)
	if n == 0 {
		return Polyline{}
	}
	if n == 1 {
		return NewPolyline(control[0])
	}
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	if n == 2 {
		pts := make([]Point, samplesPerSegment+1)
		for i := 0; i <= samplesPerSegment; i++ {
			pts[i] = control[0].Lerp(control[1], float64(i)/float64(samplesPerSegment))
		}
		return Polyline{Points: pts}
	}

	// Phantom endpoints reflect the first and last segments so the curve
	// passes through the real endpoints with a natural tangent.
	ext := make([]Point, n+2)
	ext[0] = control[0].Add(control[0].Sub(control[1]))
	copy(ext[1:], control)
	ext[n+1] = control[n-1].Add(control[n-1].Sub(control[n-2]))

	pts := make([]Point, 0, (n-1)*samplesPerSegment+1)
	for i := 1; i < n; i++ {
		for j := 0; j < samplesPerSegment; j++ {
			t := float64(j) / float64(samplesPerSegment)
			pts = append(pts, catmullRomAt(ext[i-1], ext[i], ext[i+1], ext[i+2], t, tension))
		}
	}
	pts = append(pts, control[n-1])
	return Polyline{Points: pts}
}

// CatmullRomClosed evaluates a closed Catmull-Rom loop through the control
// points. The returned polyline ends on a copy of its first point.
func CatmullRomClosed(control []Point, samplesPerSegment int, tension float64) Polyline {
	n := len(control)
	if n < 3 {
		return CatmullRom(control, samplesPerSegment, tension)
	}
	if samplesPerSegment < 1 {
		samplesPerSegment = 1
	}
	pts := make([]Point, 0, n*samplesPerSegment+1)
	for i := 0; i < n; i++ {
		p0 := control[(i-1+n)%n]
		p1 := control[i]
		p2 := control[(i+1)%n]
		p3 := control[(i+2)%n]
		for j := 0; j < samplesPerSegment; j++ {
			t := float64(j) / float64(samplesPerSegment)
			pts = append(pts, catmullRomAt(p0, p1, p2, p3, t, tension))
		}
	}
	pts = append(pts, pts[0])
	return Polyline{Points: pts}
}

// catmullRomAt evaluates one point of the spline segment p1→p2.
func catmullRomAt(p0, p1, p2, p3 Point, t, tension float64) Point {
	t2 := t * t
	t3 := t2 * t
	s := tension
	basis := func(v0, v1, v2, v3 float64) float64 {
		return 0.5 * ((-s*v0+(2-s)*v1+(s-2)*v2+s*v3)*t3 +
			(2*s*v0+(s-3)*v1+(3-2*s)*v2-s*v3)*t2 +
			(-s*v0+s*v2)*t +
			2*v1)
	}
	return Point{
		X: basis(p0.X, p1.X, p2.X, p3.X),
		Z: basis(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}
