package hydrology

import (
	"math"
	"sort"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/noise"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	lakeCandidates  = 12
	lakeBasinShare  = 0.3
	lakeEdgeMargin  = 140.0
	lakePointMin    = 8
	lakePointMax    = 14
	lakeAvoidBuffer = 40.0
)

// placeLake searches for a basin and builds the lake polygon. Candidates
// in the lowest-elevation share are preferred so lakes settle into
// natural hollows.
func placeLake(stream *rng.Stream, grid *world.Grid, p Params) (world.WaterBody, bool) {
	type candidate struct {
		pos  geo.Point
		elev float64
	}

	candidates := make([]candidate, 0, lakeCandidates)
	half := p.Extent.Width/2 - lakeEdgeMargin
	halfH := p.Extent.Height/2 - lakeEdgeMargin
	for i := 0; i < lakeCandidates; i++ {
		pos := geo.Pt(
			stream.FloatBetween(-half, half),
			stream.FloatBetween(-halfH, halfH),
		)
		blocked := false
		for _, zone := range p.Avoid {
			if zone.Expand(lakeAvoidBuffer).Contains(pos) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		candidates = append(candidates, candidate{pos: pos, elev: grid.ElevationAt(pos.X, pos.Z)})
	}
	if len(candidates) == 0 {
		return world.WaterBody{}, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].elev < candidates[j].elev })
	basin := int(math.Ceil(float64(len(candidates)) * lakeBasinShare))
	center := candidates[stream.IntN(basin)].pos

	radius := stream.FloatBetween(60, 110) * (p.Extent.Width / 1600)
	if radius < 45 {
		radius = 45
	}

	points := stream.IntBetween(lakePointMin, lakePointMax)
	wobbleSeed := stream.FloatBetween(0, 1000)
	shape := make([]geo.Point, points)
	for i := 0; i < points; i++ {
		angle := 2 * math.Pi * float64(i) / float64(points)
		r := radius * stream.FloatBetween(0.72, 1.0)
		r *= 1 + 0.12*noise.PseudoSigned(math.Cos(angle), math.Sin(angle), wobbleSeed)
		shape[i] = geo.Polar(center, angle, r)
	}

	return world.WaterBody{
		Kind:   world.WaterLake,
		Points: shape,
		Radius: radius,
	}, true
}

// paintLake floods the polygon interior and smoothsteps the surrounding
// bank band down to the waterline.
func paintLake(grid *world.Grid, lake world.WaterBody) {
	polygon := geo.NewPolygon(lake.Points...)
	bounds := polygon.Bounds().Expand(lakeBank + grid.CellSize)

	minCol, minRow := grid.ClampIndex(bounds.Min.X, bounds.Min.Z)
	maxCol, maxRow := grid.ClampIndex(bounds.Max.X, bounds.Max.Z)

	edges := geo.Polyline{Points: closedRing(lake.Points)}

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cell := &grid.Cells[row][col]
			pos := grid.CellCenter(col, row)

			if polygon.Contains(pos) {
				cell.Type = world.CellWater
				cell.Elevation = 0
				cell.Cover = world.CoverNone
				continue
			}
			if cell.Type.IsWater() {
				continue
			}
			_, _, d := edges.NearestPointIndex(pos)
			if d < lakeBank {
				cell.Elevation *= geo.Smoothstep01(d / lakeBank)
			}
		}
	}
}

// closedRing appends the first point so the polyline covers every edge
// of the polygon.
func closedRing(points []geo.Point) []geo.Point {
	if len(points) == 0 {
		return nil
	}
	ring := make([]geo.Point, len(points)+1)
	copy(ring, points)
	ring[len(points)] = points[0]
	return ring
}
