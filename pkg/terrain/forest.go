package terrain

import (
	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/noise"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	forestBaseScale   = 140.0
	forestEdgeJitter  = 0.08
	forestSeedSpan    = 1 << 30
	forestSlopeCutoff = 18.0
)

// GrowForest paints forest patches over dry land after hydrology has
// run. Patch shape comes from a simplex density field thresholded by the
// biome's forest density, with sine-hash jitter roughening the edges.
// Returns the number of forest cells painted.
func GrowForest(stream *rng.Stream, grid *world.Grid, cfg biome.Config, avoid []geo.AABB, log zerolog.Logger) int {
	if cfg.ForestDensity <= 0 {
		return 0
	}

	// Draw order: field seed, then scale, then jitter seed.
	field := opensimplex.NewNormalized(int64(stream.IntN(forestSeedSpan)))
	scale := forestBaseScale * stream.FloatBetween(cfg.ForestScaleMin, cfg.ForestScaleMax)
	jitterSeed := stream.FloatBetween(0, 1000)

	painted := 0
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := &grid.Cells[row][col]
			if cell.Type.IsWater() {
				continue
			}
			pos := grid.CellCenter(col, row)
			if insideAny(pos, avoid) {
				continue
			}
			if tooSteep(grid, col, row) {
				continue
			}

			v := field.Eval2(pos.X/scale, pos.Z/scale)
			v += forestEdgeJitter * noise.PseudoSigned(pos.X, pos.Z, jitterSeed)
			if v < cfg.ForestDensity {
				cell.Type = world.CellForest
				painted++
			}
		}
	}

	markForestCover(grid)
	log.Debug().Int("cells", painted).Msg("forest cover painted")
	return painted
}

// markForestCover grades interior forest cells heavy and boundary cells
// light.
func markForestCover(grid *world.Grid) {
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := &grid.Cells[row][col]
			if cell.Type != world.CellForest {
				continue
			}
			interior := true
			for dr := -1; dr <= 1 && interior; dr++ {
				for dc := -1; dc <= 1; dc++ {
					n := grid.At(col+dc, row+dr)
					if n == nil || n.Type != world.CellForest {
						interior = false
						break
					}
				}
			}
			if interior {
				cell.Cover = world.CoverHeavy
			} else {
				cell.Cover = world.CoverLight
			}
		}
	}
}

// tooSteep rejects forest on sharp slopes, comparing against the east
// and south neighbors only so the scan stays cheap.
func tooSteep(grid *world.Grid, col, row int) bool {
	cell := grid.At(col, row)
	east := grid.At(col+1, row)
	south := grid.At(col, row+1)
	if east != nil && abs(east.Elevation-cell.Elevation) > forestSlopeCutoff {
		return true
	}
	if south != nil && abs(south.Elevation-cell.Elevation) > forestSlopeCutoff {
		return true
	}
	return false
}

func insideAny(pos geo.Point, zones []geo.AABB) bool {
	for _, z := range zones {
		if z.Contains(pos) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
