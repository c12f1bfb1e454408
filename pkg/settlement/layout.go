package settlement

import (
	"math"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	spokeStep       = 18.0
	spokeWobble     = 0.25
	webSkipChance   = 0.15
	webBow          = 8.0
	mixedCoreFrac   = 0.35
	mixedRingFrac   = 0.45
	minStreetLength = 25.0
	maxSegmentLen   = 30.0
	steepStreetRise = 4.5
)

// streetType maps settlement size to pavement: towns and cities pave,
// villages and hamlets keep dirt lanes.
func streetType(size world.SettlementSize) world.RoadType {
	if size == world.SettlementHamlet || size == world.SettlementVillage {
		return world.RoadDirt
	}
	return world.RoadTown
}

func blockSpacing(size world.SettlementSize) float64 {
	switch size {
	case world.SettlementCity:
		return 45
	case world.SettlementTown:
		return 55
	case world.SettlementVillage:
		return 60
	default:
		return 70
	}
}

func entryCount(size world.SettlementSize) int {
	switch size {
	case world.SettlementCity:
		return 5
	case world.SettlementTown:
		return 4
	case world.SettlementVillage:
		return 3
	default:
		return 2
	}
}

// buildStreets fills s.Streets and s.EntryPoints according to the layout
// chosen for the settlement.
func buildStreets(stream *rng.Stream, grid *world.Grid, s *world.Settlement) {
	switch s.Layout {
	case world.LayoutGrid:
		buildGridStreets(stream, grid, s)
	case world.LayoutMixed:
		buildMixedStreets(stream, grid, s)
	default:
		buildOrganicStreets(stream, grid, s)
	}
}

// --- organic ---

// buildOrganicStreets grows 5 to 8 spokes outward from the center with
// per-step angular wobble, then webs adjacent spokes together at a few
// fixed fractions. Roughly one web link in seven is skipped so the mesh
// stays irregular.
func buildOrganicStreets(stream *rng.Stream, grid *world.Grid, s *world.Settlement) {
	spokes := stream.IntBetween(5, 8)
	roadType := streetType(s.Size)
	nextID := 1

	var spokeLines []geo.Polyline
	for i := 0; i < spokes; i++ {
		angle := s.MainAxis + 2*math.Pi*float64(i)/float64(spokes) + stream.FloatBetween(-0.2, 0.2)
		pts := walkSpoke(stream, grid, s.Position, angle, s.Radius)
		if len(pts) < 2 {
			continue
		}
		spokeLines = append(spokeLines, geo.NewPolyline(pts...))
		s.Streets = append(s.Streets, world.Road{
			ID:           nextID,
			Type:         roadType,
			Points:       pts,
			Width:        roadType.Width(),
			SettlementID: s.ID,
		})
		nextID++
	}

	webFractions := []float64{0.35, 0.65, 0.95}
	for i := range spokeLines {
		next := (i + 1) % len(spokeLines)
		if next == i {
			break
		}
		for _, f := range webFractions {
			if stream.Chance(webSkipChance) {
				continue
			}
			a := spokeLines[i].PointAt(f)
			b := spokeLines[next].PointAt(f)
			if a.Distance(b) < minStreetLength {
				continue
			}
			// Bow the midpoint slightly away from the center.
			mid := geo.Mid(a, b)
			out := mid.Sub(s.Position)
			if out.Length() > 1 {
				mid = mid.Add(out.Normalize().Scale(webBow))
			}
			if grid.WaterAt(mid.X, mid.Z) {
				continue
			}
			s.Streets = append(s.Streets, world.Road{
				ID:           nextID,
				Type:         roadType,
				Points:       []geo.Point{a, mid, b},
				Width:        roadType.Width(),
				SettlementID: s.ID,
			})
			nextID++
		}
	}

	// Entries sit at the outer ends of the first spokes.
	want := entryCount(s.Size)
	for i := 0; i < len(spokeLines) && len(s.EntryPoints) < want; i++ {
		pts := spokeLines[i].Points
		s.EntryPoints = append(s.EntryPoints, pts[len(pts)-1])
	}
}

// walkSpoke steps outward until it reaches the settlement radius or runs
// into water or a steep rise.
func walkSpoke(stream *rng.Stream, grid *world.Grid, center geo.Point, angle, radius float64) []geo.Point {
	pts := []geo.Point{center}
	pos := center
	dir := angle
	for pos.Distance(center) < radius {
		dir += stream.FloatBetween(-spokeWobble, spokeWobble)
		next := geo.Polar(pos, dir, spokeStep)
		if grid.WaterAt(next.X, next.Z) {
			break
		}
		rise := math.Abs(grid.ElevationAt(next.X, next.Z) - grid.ElevationAt(pos.X, pos.Z))
		if rise > steepStreetRise {
			break
		}
		pts = append(pts, next)
		pos = next
	}
	return pts
}

// --- grid ---

// buildGridStreets lays two street families aligned to the main axis,
// clipped to the settlement circle. The two central streets are widened
// and extended past the edge so highways can pick them up.
func buildGridStreets(stream *rng.Stream, grid *world.Grid, s *world.Settlement) {
	spacing := blockSpacing(s.Size) * stream.FloatBetween(0.9, 1.1)
	roadType := streetType(s.Size)
	u := geo.Pt(math.Cos(s.MainAxis), math.Sin(s.MainAxis))
	v := u.Perp()
	nextID := 1

	addFamily := func(along, across geo.Point) {
		steps := int(s.Radius / spacing)
		for k := -steps; k <= steps; k++ {
			off := float64(k) * spacing
			if math.Abs(off) >= s.Radius {
				continue
			}
			half := math.Sqrt(s.Radius*s.Radius - off*off)
			width := roadType.Width()
			if k == 0 {
				half *= 1.15
				width *= 1.5
			}
			base := s.Position.Add(across.Scale(off))
			a := base.Add(along.Scale(-half))
			b := base.Add(along.Scale(half))
			if 2*half < minStreetLength || chordBlocked(grid, a, b) {
				continue
			}
			s.Streets = append(s.Streets, world.Road{
				ID:           nextID,
				Type:         roadType,
				Points:       subdividePath([]geo.Point{a, b}),
				Width:        width,
				SettlementID: s.ID,
			})
			if k == 0 {
				s.EntryPoints = append(s.EntryPoints, a, b)
			}
			nextID++
		}
	}

	addFamily(u, v)
	addFamily(v, u)
}

// chordBlocked samples along the chord and rejects it when too much of
// it sits on water.
func chordBlocked(grid *world.Grid, a, b geo.Point) bool {
	wet := 0
	for i := 0; i <= 4; i++ {
		p := a.Lerp(b, float64(i)/4)
		if grid.WaterAt(p.X, p.Z) {
			wet++
		}
	}
	return wet > 1
}

// --- mixed ---

// buildMixedStreets puts an organic knot in the inner core, a ring road
// around it, and grid streets in the outer annulus only.
func buildMixedStreets(stream *rng.Stream, grid *world.Grid, s *world.Settlement) {
	coreR := s.Radius * mixedCoreFrac
	ringR := s.Radius * mixedRingFrac
	roadType := streetType(s.Size)
	nextID := 1

	// Organic core: fewer, shorter spokes.
	spokes := stream.IntBetween(4, 6)
	for i := 0; i < spokes; i++ {
		angle := s.MainAxis + 2*math.Pi*float64(i)/float64(spokes) + stream.FloatBetween(-0.2, 0.2)
		pts := walkSpoke(stream, grid, s.Position, angle, coreR)
		if len(pts) < 2 {
			continue
		}
		s.Streets = append(s.Streets, world.Road{
			ID:           nextID,
			Type:         roadType,
			Points:       pts,
			Width:        roadType.Width(),
			SettlementID: s.ID,
		})
		nextID++
	}

	// Ring road as a closed loop.
	ring := geo.CirclePolygon(s.Position, ringR, 20)
	ringPts := append(append([]geo.Point{}, ring.Vertices...), ring.Vertices[0])
	s.Streets = append(s.Streets, world.Road{
		ID:           nextID,
		Type:         roadType,
		Points:       ringPts,
		Width:        roadType.Width(),
		SettlementID: s.ID,
	})
	nextID++

	// Outer grid: chords clipped against the ring so nothing crosses the
	// core.
	spacing := blockSpacing(s.Size) * stream.FloatBetween(0.9, 1.1)
	u := geo.Pt(math.Cos(s.MainAxis), math.Sin(s.MainAxis))
	v := u.Perp()

	addFamily := func(along, across geo.Point) {
		steps := int(s.Radius / spacing)
		for k := -steps; k <= steps; k++ {
			off := float64(k) * spacing
			if math.Abs(off) >= s.Radius {
				continue
			}
			half := math.Sqrt(s.Radius*s.Radius - off*off)
			base := s.Position.Add(across.Scale(off))
			for _, seg := range clipChordOutsideRing(off, half, ringR) {
				a := base.Add(along.Scale(seg[0]))
				b := base.Add(along.Scale(seg[1]))
				if a.Distance(b) < minStreetLength || chordBlocked(grid, a, b) {
					continue
				}
				s.Streets = append(s.Streets, world.Road{
					ID:           nextID,
					Type:         roadType,
					Points:       subdividePath([]geo.Point{a, b}),
					Width:        roadType.Width(),
					SettlementID: s.ID,
				})
				nextID++
			}
		}
	}

	addFamily(u, v)
	addFamily(v, u)

	// Entries on the ring at the rotated cardinal points.
	for i := 0; i < 4; i++ {
		angle := s.MainAxis + float64(i)*math.Pi/2
		s.EntryPoints = append(s.EntryPoints, geo.Polar(s.Position, angle, ringR))
	}
}

// clipChordOutsideRing returns the sub-intervals of a chord at
// perpendicular offset off, with half-length half, that lie outside a
// circle of radius ringR centered on the chord's perpendicular origin.
func clipChordOutsideRing(off, half, ringR float64) [][2]float64 {
	if math.Abs(off) >= ringR {
		return [][2]float64{{-half, half}}
	}
	hc := math.Sqrt(ringR*ringR - off*off)
	if hc >= half {
		return nil
	}
	return [][2]float64{{-half, -hc}, {hc, half}}
}

// subdividePath inserts interpolated points so no segment exceeds
// maxSegmentLen. Grading and draping want reasonably short segments.
func subdividePath(pts []geo.Point) []geo.Point {
	if len(pts) < 2 {
		return pts
	}
	out := []geo.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := a.Distance(b)
		n := int(math.Ceil(d / maxSegmentLen))
		for j := 1; j <= n; j++ {
			out = append(out, a.Lerp(b, float64(j)/float64(n)))
		}
	}
	return out
}
