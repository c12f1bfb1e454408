package hydrology

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	riverSampleStep  = 25.0
	riverMinSamples  = 24
	tightBendChance  = 0.35
	toLakeChance     = 0.5
	tributaryMin     = 1
	tributaryMax     = 3
	tributaryMinLen  = 150.0
	tributaryJoinLo  = 0.25
	tributaryJoinHi  = 0.75
	riverEdgeSpanLo  = 0.2
	riverEdgeSpanHi  = 0.8
	mainRiverBendLo  = 2
	mainRiverBendHi  = 4
	tribBendHi       = 2
	riverWidthFactor = 1600.0
)

// map edges, clockwise from north
const (
	edgeNorth = iota
	edgeEast
	edgeSouth
	edgeWest
)

// buildRiver creates the main river and its tributaries. The main river
// runs edge to edge, weighted toward opposite-edge flow, or ends in the
// lake when one exists.
func buildRiver(stream *rng.Stream, p Params, lake *world.WaterBody, log zerolog.Logger) (world.WaterBody, []world.WaterBody) {
	startEdge := stream.IntN(4)
	start := edgePoint(stream, p.Extent, startEdge)

	var end geo.Point
	if lake != nil && stream.Chance(toLakeChance) {
		end = geo.NewPolygon(lake.Points...).Centroid()
	} else {
		end = edgePoint(stream, p.Extent, oppositeBiased(stream, startEdge))
	}

	width := stream.FloatBetween(10, 16) * math.Sqrt(p.Extent.Width/riverWidthFactor)
	main := world.WaterBody{
		Kind:   world.WaterRiver,
		Points: meander(stream, start, end, stream.IntBetween(mainRiverBendLo, mainRiverBendHi), true),
		Width:  width,
	}

	var tribs []world.WaterBody
	count := stream.IntBetween(tributaryMin, tributaryMax)
	for i := 0; i < count; i++ {
		joinIdx := stream.IntBetween(
			int(float64(len(main.Points))*tributaryJoinLo),
			int(float64(len(main.Points))*tributaryJoinHi),
		)
		join := main.Points[joinIdx]
		source := edgePoint(stream, p.Extent, stream.IntN(4))
		if source.Distance(join) < tributaryMinLen {
			log.Debug().Int("tributary", i).Msg("tributary skipped below minimum length")
			continue
		}
		tribs = append(tribs, world.WaterBody{
			Kind:   world.WaterRiver,
			Points: meander(stream, source, join, stream.IntBetween(1, tribBendHi), false),
			Width:  width * 0.6,
		})
	}

	return main, tribs
}

// edgePoint picks a position along a map edge, away from the corners.
func edgePoint(stream *rng.Stream, extent world.Extent, edge int) geo.Point {
	tx := stream.FloatBetween(riverEdgeSpanLo, riverEdgeSpanHi)
	switch edge {
	case edgeNorth:
		return geo.Pt((tx-0.5)*extent.Width, -extent.Height/2)
	case edgeSouth:
		return geo.Pt((tx-0.5)*extent.Width, extent.Height/2)
	case edgeEast:
		return geo.Pt(extent.Width/2, (tx-0.5)*extent.Height)
	default:
		return geo.Pt(-extent.Width/2, (tx-0.5)*extent.Height)
	}
}

// oppositeBiased picks an exit edge, strongly favoring the edge opposite
// the entry so the river crosses the map.
func oppositeBiased(stream *rng.Stream, startEdge int) int {
	weights := []float64{1, 1, 1, 1}
	weights[startEdge] = 0
	weights[(startEdge+2)%4] = 4
	return stream.Pick(weights)
}

// meander shapes the path between two points as layered low-frequency
// sine bends, optionally with one sharper bend, with amplitude tapering
// to zero at both ends.
func meander(stream *rng.Stream, start, end geo.Point, bends int, allowTight bool) []geo.Point {
	chord := end.Sub(start)
	length := chord.Length()
	perp := chord.Normalize().Perp()

	type bend struct {
		amp, freq, phase float64
	}
	shape := make([]bend, bends)
	for i := range shape {
		shape[i] = bend{
			amp:   stream.FloatBetween(35, 85) / float64(i+1),
			freq:  float64(i + 1),
			phase: stream.FloatBetween(0, 2*math.Pi),
		}
	}

	tightAmp := 0.0
	tightAt := 0.0
	if allowTight && stream.Chance(tightBendChance) {
		tightAmp = stream.FloatBetween(50, 100) * stream.Sign()
		tightAt = stream.FloatBetween(0.3, 0.7)
	}

	samples := int(length / riverSampleStep)
	if samples < riverMinSamples {
		samples = riverMinSamples
	}

	points := make([]geo.Point, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		offset := 0.0
		for _, b := range shape {
			offset += b.amp * math.Sin(math.Pi*b.freq*t+b.phase)
		}
		if tightAmp != 0 {
			d := (t - tightAt) / 0.07
			offset += tightAmp * math.Exp(-d*d)
		}
		offset *= taper(t)
		points[i] = start.Lerp(end, t).Add(perp.Scale(offset))
	}
	return points
}

// taper ramps the bend amplitude to zero near both endpoints so the
// river meets the map edge head-on.
func taper(t float64) float64 {
	return geo.Smoothstep(0, 0.2, t) * geo.Smoothstep(1, 0.8, t)
}

// paintRiver stamps a flat river bed with smoothstep banks along the
// polyline. Existing water cells keep their type; land banks only ever
// get lower.
func paintRiver(grid *world.Grid, river world.WaterBody) {
	if len(river.Points) < 2 {
		return
	}
	line := geo.Polyline{Points: river.Points}
	halfWidth := river.Width / 2
	reach := halfWidth + riverBank + grid.CellSize

	bounds := line.Bounds().Expand(reach)
	minCol, minRow := grid.ClampIndex(bounds.Min.X, bounds.Min.Z)
	maxCol, maxRow := grid.ClampIndex(bounds.Max.X, bounds.Max.Z)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cell := &grid.Cells[row][col]
			pos := grid.CellCenter(col, row)
			_, _, d := line.NearestPointIndex(pos)

			if d <= halfWidth {
				if !cell.Type.IsWater() {
					cell.Type = world.CellRiver
				}
				cell.Elevation = 0
				cell.Cover = world.CoverNone
				continue
			}
			if cell.Type.IsWater() {
				continue
			}
			if d < halfWidth+riverBank {
				cell.Elevation *= geo.Smoothstep01((d - halfWidth) / riverBank)
			}
		}
	}
}
