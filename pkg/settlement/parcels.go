package settlement

import (
	"math"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	parcelInnerFrac = 0.85
	parcelOuterFrac = 1.6
)

// parcelVariants texture the farmland ring; adjacent parcels usually end
// up with different variants, which makes the field boundaries read on
// the map.
var parcelVariants = [...]string{"crops", "fallow", "pasture", "orchard"}

// carveParcels rings hamlets and villages with 3 to 6 farmland parcels.
// Jittered seed points in an annulus outside the built-up edge are
// partitioned into Voronoi cells, and each cell stamps its variant onto
// the plain field cells it covers.
func carveParcels(stream *rng.Stream, grid *world.Grid, s *world.Settlement) {
	if s.Size != world.SettlementHamlet && s.Size != world.SettlementVillage {
		return
	}
	hasAgri := false
	for _, b := range s.Buildings {
		if b.Category == world.CategoryAgricultural {
			hasAgri = true
			break
		}
	}
	if !hasAgri {
		return
	}

	n := stream.IntBetween(3, 6)
	seeds := make([]geo.Point, 0, n)
	base := stream.Angle()
	for i := 0; i < n; i++ {
		angle := base + 2*math.Pi*float64(i)/float64(n) + stream.FloatBetween(-0.3, 0.3)
		dist := s.Radius * stream.FloatBetween(1.0, 1.45)
		seeds = append(seeds, geo.Polar(s.Position, angle, dist))
	}

	bounds := geo.CirclePolygon(s.Position, s.Radius*parcelOuterFrac, 16)
	cells := geo.VoronoiCells(seeds, bounds)

	inner := s.Radius * parcelInnerFrac
	for _, cell := range cells {
		if cell.IsEmpty() {
			continue
		}
		variant := parcelVariants[stream.IntN(len(parcelVariants))]
		stampParcel(grid, cell, s.Position, inner, variant)
	}
}

// stampParcel marks the plain field cells inside the parcel polygon,
// sparing the built-up disc and anything that is not bare field.
func stampParcel(grid *world.Grid, parcel geo.Polygon, center geo.Point, innerRadius float64, variant string) {
	box := parcel.Bounds()
	minCol, minRow := grid.ClampIndex(box.Min.X, box.Min.Z)
	maxCol, maxRow := grid.ClampIndex(box.Max.X, box.Max.Z)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cell := grid.At(col, row)
			if cell == nil || cell.Type != world.CellField || cell.Variant != "" {
				continue
			}
			p := grid.CellCenter(col, row)
			if p.Distance(center) < innerRadius {
				continue
			}
			if !parcel.Contains(p) {
				continue
			}
			cell.Variant = variant
		}
	}
}
