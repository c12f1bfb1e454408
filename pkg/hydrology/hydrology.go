// Package hydrology places the lake and river network, paints their
// footprints into the terrain grid, applies the global source-to-sink
// slope, and smooths the banks. Water cells always sit at elevation 0;
// every painting and smoothing pass preserves that.
package hydrology

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	lakeChance    = 0.7
	lakeBank      = 15.0
	riverBank     = 12.0
	slopeRaiseMin = 1.0
	slopeRaiseMax = 10.0
	slopeDropMax  = 10.0
)

// Params carries the stage inputs.
type Params struct {
	Extent world.Extent
	Avoid  []geo.AABB
}

// Run executes the hydrology stage: optional lake, the main river with
// tributaries, footprint painting, the global slope, and the first bank
// smoothing pass. The RNG draw order is fixed; reordering any draw
// changes every downstream map.
func Run(stream *rng.Stream, grid *world.Grid, p Params, report *validation.Report, log zerolog.Logger) []world.WaterBody {
	var bodies []world.WaterBody
	nextID := 1

	var lake *world.WaterBody
	if stream.Chance(lakeChance) {
		if body, ok := placeLake(stream, grid, p); ok {
			body.ID = nextID
			nextID++
			bodies = append(bodies, body)
			lake = &body
			paintLake(grid, body)
			log.Debug().Int("points", len(body.Points)).Msg("lake placed")
		} else {
			report.AddWarning(validation.Result{
				Stage:   validation.StageHydrology,
				Message: "lake dropped after exhausting candidate centers",
			})
		}
	}

	river, tribs := buildRiver(stream, p, lake, log)
	river.ID = nextID
	nextID++
	bodies = append(bodies, river)
	paintRiver(grid, river)
	for _, trib := range tribs {
		trib.ID = nextID
		nextID++
		bodies = append(bodies, trib)
		paintRiver(grid, trib)
	}

	applySlope(stream, grid, river)
	SmoothBanks(grid)

	log.Debug().Int("bodies", len(bodies)).Msg("hydrology committed")
	return bodies
}

// applySlope tilts the whole map from the river source toward its sink
// so terrain never looks artificially level. Water cells are skipped and
// land stays clamped at ≥ 0.
func applySlope(stream *rng.Stream, grid *world.Grid, river world.WaterBody) {
	if len(river.Points) < 2 {
		return
	}
	source := river.Points[0]
	sink := river.Points[len(river.Points)-1]

	raise := stream.FloatBetween(slopeRaiseMin, slopeRaiseMax)
	drop := stream.FloatBetween(0, slopeDropMax)

	axis := sink.Sub(source)
	lengthSq := axis.LengthSq()
	if lengthSq == 0 {
		return
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := &grid.Cells[row][col]
			if cell.Type.IsWater() {
				continue
			}
			pos := grid.CellCenter(col, row)
			t := geo.Clamp(pos.Sub(source).Dot(axis)/lengthSq, 0, 1)
			cell.Elevation = math.Max(0, cell.Elevation+raise*(1-t)-drop*t)
		}
	}
}
