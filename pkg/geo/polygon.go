package geo

import "math"

// Polygon is a closed ring of vertices in order.
type Polygon struct {
	Vertices []Point
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// SignedArea returns the shoelace area, positive for CCW winding.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X*p.Vertices[j].Z - p.Vertices[j].X*p.Vertices[i].Z
	}
	return area / 2
}

// Area returns the unsigned area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid returns the area centroid, falling back to the vertex average for
// degenerate rings.
func (p Polygon) Centroid() Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cz := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Z - p.Vertices[j].X*p.Vertices[i].Z
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cz += (p.Vertices[i].Z + p.Vertices[j].Z) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{cx * f, cz * f}
}

// Contains reports whether pt is inside the polygon (ray casting).
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Z > pt.Z) != (vj.Z > pt.Z) &&
			pt.X < (vj.X-vi.X)*(pt.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() AABB {
	return BoundsOf(p.Vertices)
}

// Perimeter returns the total ring length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += p.Vertices[i].Distance(p.Vertices[(i+1)%n])
	}
	return total
}

// MaxDistanceTo returns the largest vertex distance from pt.
func (p Polygon) MaxDistanceTo(pt Point) float64 {
	maxDist := 0.0
	for _, v := range p.Vertices {
		if d := v.Distance(pt); d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

// EdgeCrossings returns the points where segment a-b crosses the polygon ring.
func (p Polygon) EdgeCrossings(a, b Point) []Point {
	n := len(p.Vertices)
	if n < 3 {
		return nil
	}
	var hits []Point
	for i := 0; i < n; i++ {
		v1, v2 := p.Vertices[i], p.Vertices[(i+1)%n]
		if pt, ok := SegmentIntersection(a, b, v1, v2); ok {
			hits = append(hits, pt)
		}
	}
	return hits
}
