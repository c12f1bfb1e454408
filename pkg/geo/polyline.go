package geo

import "math"

// Polyline is an ordered open sequence of points forming a path.
type Polyline struct {
	Points []Point
}

// NewPolyline creates a polyline from a list of points.
func NewPolyline(pts ...Point) Polyline {
	return Polyline{Points: pts}
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}

// PointAt returns the point at fraction t in [0,1] along the arc length.
func (pl Polyline) PointAt(t float64) Point {
	if len(pl.Points) == 0 {
		return Point{}
	}
	if len(pl.Points) == 1 || t <= 0 {
		return pl.Points[0]
	}
	if t >= 1 {
		return pl.Points[len(pl.Points)-1]
	}
	target := t * pl.Length()
	walked := 0.0
	for i := 1; i < len(pl.Points); i++ {
		seg := pl.Points[i-1].Distance(pl.Points[i])
		if walked+seg >= target && seg > 0 {
			return pl.Points[i-1].Lerp(pl.Points[i], (target-walked)/seg)
		}
		walked += seg
	}
	return pl.Points[len(pl.Points)-1]
}

// DirectionAt returns the unit direction of the segment containing index i.
func (pl Polyline) DirectionAt(i int) Point {
	n := len(pl.Points)
	if n < 2 {
		return Point{}
	}
	if i >= n-1 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	return pl.Points[i+1].Sub(pl.Points[i]).Normalize()
}

// NearestPoint returns the closest point on the polyline to p and its distance.
func (pl Polyline) NearestPoint(p Point) (Point, float64) {
	pt, _, d := pl.NearestPointIndex(p)
	return pt, d
}

// NearestPointIndex returns the closest point on the polyline to p, the index
// of the segment start it lies on, and the distance.
func (pl Polyline) NearestPointIndex(p Point) (Point, int, float64) {
	if len(pl.Points) == 0 {
		return Point{}, -1, math.MaxFloat64
	}
	if len(pl.Points) == 1 {
		return pl.Points[0], 0, p.Distance(pl.Points[0])
	}
	bestPt := pl.Points[0]
	bestIdx := 0
	bestDist := p.Distance(pl.Points[0])
	for i := 1; i < len(pl.Points); i++ {
		pt, dist := NearestOnSegment(p, pl.Points[i-1], pl.Points[i])
		if dist < bestDist {
			bestPt, bestIdx, bestDist = pt, i-1, dist
		}
	}
	return bestPt, bestIdx, bestDist
}

// Bounds returns the axis-aligned bounding box of the polyline.
func (pl Polyline) Bounds() AABB {
	return BoundsOf(pl.Points)
}

// SpanX returns the extent of the polyline along the X axis.
func (pl Polyline) SpanX() float64 {
	b := pl.Bounds()
	return b.Max.X - b.Min.X
}

// SpanZ returns the extent of the polyline along the Z axis.
func (pl Polyline) SpanZ() float64 {
	b := pl.Bounds()
	return b.Max.Z - b.Min.Z
}

// NearestOnSegment returns the closest point on segment ab to p and the distance.
func NearestOnSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 < 1e-12 {
		return a, p.Distance(a)
	}
	t := Clamp(p.Sub(a).Dot(ab)/len2, 0, 1)
	closest := a.Add(ab.Scale(t))
	return closest, p.Distance(closest)
}

// SegmentIntersection returns the intersection point of segments a1-a2 and
// b1-b2, or ok=false when they do not cross.
func SegmentIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return a1.Add(r.Scale(t)), true
}
