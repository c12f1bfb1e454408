package geo

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// BoundsOf returns the AABB enclosing all points.
func BoundsOf(pts []Point) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}

// Center returns the box center.
func (b AABB) Center() Point {
	return Mid(b.Min, b.Max)
}

// Width returns the X extent.
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Depth returns the Z extent.
func (b AABB) Depth() float64 {
	return b.Max.Z - b.Min.Z
}

// Contains reports whether p lies inside the box.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Expand returns the box grown by m on every side.
func (b AABB) Expand(m float64) AABB {
	return AABB{
		Min: Point{b.Min.X - m, b.Min.Z - m},
		Max: Point{b.Max.X + m, b.Max.Z + m},
	}
}

// Rect is an oriented rectangle: center, half extents, rotation about center.
type Rect struct {
	Center   Point
	HalfW    float64
	HalfD    float64
	Rotation float64
}

// NewRect builds an oriented rectangle from full width/depth.
func NewRect(center Point, width, depth, rotation float64) Rect {
	return Rect{Center: center, HalfW: width / 2, HalfD: depth / 2, Rotation: rotation}
}

// Corners returns the four corners in CCW order.
func (r Rect) Corners() [4]Point {
	c, s := math.Cos(r.Rotation), math.Sin(r.Rotation)
	ax := Point{c * r.HalfW, s * r.HalfW}
	az := Point{-s * r.HalfD, c * r.HalfD}
	return [4]Point{
		r.Center.Add(ax).Add(az),
		r.Center.Sub(ax).Add(az),
		r.Center.Sub(ax).Sub(az),
		r.Center.Add(ax).Sub(az),
	}
}

// Expand returns the rectangle grown by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{Center: r.Center, HalfW: r.HalfW + m, HalfD: r.HalfD + m, Rotation: r.Rotation}
}

// Contains reports whether p lies inside the rectangle, rotation included.
func (r Rect) Contains(p Point) bool {
	d := p.Sub(r.Center)
	c, s := math.Cos(r.Rotation), math.Sin(r.Rotation)
	along := d.X*c + d.Z*s
	across := -d.X*s + d.Z*c
	return math.Abs(along) <= r.HalfW && math.Abs(across) <= r.HalfD
}

// Bounds returns the axis-aligned box enclosing the rectangle.
func (r Rect) Bounds() AABB {
	c := r.Corners()
	return BoundsOf(c[:])
}

// Intersects reports whether two oriented rectangles overlap, using the
// separating-axis test over both rectangles' edge normals.
func (r Rect) Intersects(o Rect) bool {
	axes := [4]Point{
		Point{math.Cos(r.Rotation), math.Sin(r.Rotation)},
		Point{-math.Sin(r.Rotation), math.Cos(r.Rotation)},
		Point{math.Cos(o.Rotation), math.Sin(o.Rotation)},
		Point{-math.Sin(o.Rotation), math.Cos(o.Rotation)},
	}
	rc := r.Corners()
	oc := o.Corners()
	for _, axis := range axes {
		rMin, rMax := projectOnto(rc[:], axis)
		oMin, oMax := projectOnto(oc[:], axis)
		if rMax < oMin || oMax < rMin {
			return false
		}
	}
	return true
}

// IntersectsSegment reports whether segment a-b touches the rectangle.
func (r Rect) IntersectsSegment(a, b Point) bool {
	corners := r.Corners()
	poly := Polygon{Vertices: corners[:]}
	if poly.Contains(a) || poly.Contains(b) {
		return true
	}
	for i := 0; i < 4; i++ {
		if _, ok := SegmentIntersection(a, b, corners[i], corners[(i+1)%4]); ok {
			return true
		}
	}
	return false
}

// projectOnto returns the min/max scalar projections of pts on axis.
func projectOnto(pts []Point, axis Point) (float64, float64) {
	lo := pts[0].Dot(axis)
	hi := lo
	for _, p := range pts[1:] {
		v := p.Dot(axis)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
