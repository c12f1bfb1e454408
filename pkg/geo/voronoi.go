package geo

import "math"

// VoronoiCells computes one convex cell polygon per seed point by
// half-plane intersection against the bounding polygon. Robust for the
// small seed counts used for parcel carving.
func VoronoiCells(seeds []Point, bounds Polygon) []Polygon {
	n := len(seeds)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Polygon{bounds}
	}
	cells := make([]Polygon, n)
	for i := 0; i < n; i++ {
		cell := bounds
		for j, other := range seeds {
			if j == i {
				continue
			}
			// Keep the side of the perpendicular bisector nearer seed i.
			mid := Mid(seeds[i], other)
			dir := other.Sub(seeds[i]).Perp()
			cell = clipToHalfPlane(cell, mid, mid.Add(dir))
			if cell.IsEmpty() {
				break
			}
		}
		cells[i] = cell
	}
	return cells
}

// clipToHalfPlane clips a polygon to the left side of the directed line a→b.
func clipToHalfPlane(poly Polygon, a, b Point) Polygon {
	if poly.IsEmpty() {
		return Polygon{}
	}
	n := len(poly.Vertices)
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		curr := poly.Vertices[i]
		next := poly.Vertices[(i+1)%n]
		currIn := leftOfLine(curr, a, b)
		nextIn := leftOfLine(next, a, b)
		switch {
		case currIn && nextIn:
			out = append(out, next)
		case currIn && !nextIn:
			if ix, ok := lineIntersection(curr, next, a, b); ok {
				out = append(out, ix)
			}
		case !currIn && nextIn:
			if ix, ok := lineIntersection(curr, next, a, b); ok {
				out = append(out, ix)
			}
			out = append(out, next)
		}
	}
	if len(out) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: out}
}

// leftOfLine reports whether p is on or left of the directed line a→b.
func leftOfLine(p, a, b Point) bool {
	return (b.X-a.X)*(p.Z-a.Z)-(b.Z-a.Z)*(p.X-a.X) >= 0
}

// lineIntersection intersects the infinite lines p1→p2 and p3→p4.
func lineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	d := (p1.X-p2.X)*(p3.Z-p4.Z) - (p1.Z-p2.Z)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point{}, false
	}
	t := ((p1.X-p3.X)*(p3.Z-p4.Z) - (p1.Z-p3.Z)*(p3.X-p4.X)) / d
	return p1.Add(p2.Sub(p1).Scale(t)), true
}

// CirclePolygon approximates a circle as a CCW polygon with the given number
// of segments.
func CirclePolygon(center Point, radius float64, segments int) Polygon {
	if segments < 3 {
		segments = 3
	}
	pts := make([]Point, segments)
	for i := 0; i < segments; i++ {
		pts[i] = Polar(center, 2*math.Pi*float64(i)/float64(segments), radius)
	}
	return Polygon{Vertices: pts}
}
