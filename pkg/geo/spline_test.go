package geo

import (
	"math"
	"testing"
)

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(100, 0), Pt(200, 100), Pt(300, 100)}
	spline := CatmullRom(pts, 20, 0.5)

	if spline.Points[0].Distance(pts[0]) > 0.1 {
		t.Errorf("spline does not start at first control point: got %v", spline.Points[0])
	}
	last := spline.Points[len(spline.Points)-1]
	if last.Distance(pts[len(pts)-1]) > 0.1 {
		t.Errorf("spline does not end at last control point: got %v", last)
	}

	for i := 1; i < len(pts)-1; i++ {
		_, dist := spline.NearestPoint(pts[i])
		if dist > 5.0 {
			t.Errorf("control point %d is %.1fm from spline (>5m)", i, dist)
		}
	}
}

func TestCatmullRomTwoPointsLinear(t *testing.T) {
	spline := CatmullRom([]Point{Pt(0, 0), Pt(100, 0)}, 10, 0.5)
	if len(spline.Points) != 11 {
		t.Fatalf("expected 11 points, got %d", len(spline.Points))
	}
	for i, p := range spline.Points {
		if math.Abs(p.Z) > 0.01 {
			t.Errorf("point %d has Z=%.3f, expected 0", i, p.Z)
		}
	}
}

func TestCatmullRomClosedLoop(t *testing.T) {
	pts := []Point{Pt(100, 0), Pt(0, 100), Pt(-100, 0), Pt(0, -100)}
	spline := CatmullRomClosed(pts, 10, 0.5)

	if len(spline.Points) < 40 {
		t.Fatalf("expected at least 40 points, got %d", len(spline.Points))
	}
	first := spline.Points[0]
	last := spline.Points[len(spline.Points)-1]
	if first.Distance(last) > 0.1 {
		t.Errorf("loop not closed: first=%v last=%v", first, last)
	}
}

func TestPolylineLength(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(100, 0), Pt(100, 100))
	if !approxEqual(pl.Length(), 200, tolerance) {
		t.Errorf("expected length 200, got %f", pl.Length())
	}
}

func TestPolylinePointAt(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(100, 0))

	if mid := pl.PointAt(0.5); mid.Distance(Pt(50, 0)) > tolerance {
		t.Errorf("expected midpoint (50,0), got %v", mid)
	}
	if start := pl.PointAt(0); start.Distance(Pt(0, 0)) > tolerance {
		t.Errorf("expected start (0,0), got %v", start)
	}
	if end := pl.PointAt(1); end.Distance(Pt(100, 0)) > tolerance {
		t.Errorf("expected end (100,0), got %v", end)
	}
}

func TestPolylineNearestPointIndex(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(100, 0), Pt(100, 100))

	pt, idx, dist := pl.NearestPointIndex(Pt(50, 10))
	if !approxEqual(dist, 10, tolerance) {
		t.Errorf("expected distance 10, got %f", dist)
	}
	if pt.Distance(Pt(50, 0)) > tolerance {
		t.Errorf("expected nearest (50,0), got %v", pt)
	}
	if idx != 0 {
		t.Errorf("expected segment index 0, got %d", idx)
	}

	_, idx, _ = pl.NearestPointIndex(Pt(110, 50))
	if idx != 1 {
		t.Errorf("expected segment index 1, got %d", idx)
	}
}

func TestPolylineSpans(t *testing.T) {
	pl := NewPolyline(Pt(-500, 0), Pt(0, 20), Pt(500, -10))
	if !approxEqual(pl.SpanX(), 1000, tolerance) {
		t.Errorf("expected span 1000, got %f", pl.SpanX())
	}
	if !approxEqual(pl.SpanZ(), 30, tolerance) {
		t.Errorf("expected span 30, got %f", pl.SpanZ())
	}
}

func TestPolylineDirectionAt(t *testing.T) {
	pl := NewPolyline(Pt(0, 0), Pt(100, 0), Pt(100, 100))
	d0 := pl.DirectionAt(0)
	if !approxEqual(d0.X, 1, tolerance) || !approxEqual(d0.Z, 0, tolerance) {
		t.Errorf("expected (1,0), got %v", d0)
	}
	// Past-the-end index clamps to the last segment.
	dEnd := pl.DirectionAt(5)
	if !approxEqual(dEnd.X, 0, tolerance) || !approxEqual(dEnd.Z, 1, tolerance) {
		t.Errorf("expected (0,1), got %v", dEnd)
	}
}

func TestSegmentIntersection(t *testing.T) {
	pt, ok := SegmentIntersection(Pt(0, -10), Pt(0, 10), Pt(-10, 0), Pt(10, 0))
	if !ok {
		t.Fatal("expected crossing segments to intersect")
	}
	if pt.Distance(Pt(0, 0)) > tolerance {
		t.Errorf("expected intersection at origin, got %v", pt)
	}

	if _, ok := SegmentIntersection(Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5)); ok {
		t.Error("parallel segments must not intersect")
	}
	if _, ok := SegmentIntersection(Pt(0, 0), Pt(1, 0), Pt(5, -1), Pt(5, 1)); ok {
		t.Error("disjoint segments must not intersect")
	}
}

func TestPolylineEmpty(t *testing.T) {
	pl := Polyline{}
	if pl.Length() != 0 {
		t.Error("empty polyline should have zero length")
	}
	if pt := pl.PointAt(0.5); pt.X != 0 || pt.Z != 0 {
		t.Error("empty polyline PointAt should return zero")
	}
}
