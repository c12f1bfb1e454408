package worldgen

import (
	"math"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/gameplay"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/road"
	"github.com/graywick/mapforge/pkg/world"
)

// assemble freezes the run state into the result map: settlement streets
// and buildings are copied into the map-level lists under fresh ids, road
// and building footprints are painted into the grid, and the elevation
// range is computed last so it sees every terrain edit.
func assemble(p Params, extent world.Extent, cfg biome.Config, grid *world.Grid, water []world.WaterBody, settlements []world.Settlement, net road.Network, md gameplay.Metadata) *world.Map {
	m := &world.Map{
		Seed:            p.Seed,
		Size:            p.Size,
		Biome:           cfg.Name,
		Width:           extent.Width,
		Height:          extent.Height,
		CellSize:        grid.CellSize,
		Grid:            grid,
		Roads:           net.Roads,
		Intersections:   net.Intersections,
		Bridges:         net.Bridges,
		WaterBodies:     water,
		Settlements:     settlements,
		DeploymentZones: md.DeploymentZones,
		CaptureZones:    md.CaptureZones,
		EntryPoints:     md.EntryPoints,
		ResupplyPoints:  md.ResupplyPoints,
	}

	mergeStreets(m)
	mergeBuildings(m)
	paintRoads(grid, m.Roads)
	paintBuildings(grid, m.Buildings)
	m.MinElevation, m.MaxElevation = grid.ElevationRange()

	return m
}

// mergeStreets copies settlement streets into the map road list with
// map-level ids continuing after the network's.
func mergeStreets(m *world.Map) {
	nextID := 1
	for _, r := range m.Roads {
		if r.ID >= nextID {
			nextID = r.ID + 1
		}
	}
	for _, s := range m.Settlements {
		for _, street := range s.Streets {
			street.ID = nextID
			street.SettlementID = s.ID
			nextID++
			m.Roads = append(m.Roads, street)
		}
	}
}

func mergeBuildings(m *world.Map) {
	nextID := 1
	for _, s := range m.Settlements {
		for _, b := range s.Buildings {
			b.ID = nextID
			b.SettlementID = s.ID
			nextID++
			m.Buildings = append(m.Buildings, b)
		}
	}
}

// paintRoads stamps road cells along every polyline. Water cells are
// never repainted; a road over water is a bridge deck, not a ford.
func paintRoads(grid *world.Grid, roads []world.Road) {
	for _, r := range roads {
		half := r.Width / 2
		for i := 0; i+1 < len(r.Points); i++ {
			paintSegment(grid, r.Points[i], r.Points[i+1], half)
		}
	}
}

func paintSegment(grid *world.Grid, a, b geo.Point, reach float64) {
	minC, minR := grid.ClampIndex(math.Min(a.X, b.X)-reach, math.Min(a.Z, b.Z)-reach)
	maxC, maxR := grid.ClampIndex(math.Max(a.X, b.X)+reach, math.Max(a.Z, b.Z)+reach)
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			cell := grid.At(col, row)
			if cell.Type.IsWater() {
				continue
			}
			if _, d := geo.NearestOnSegment(grid.CellCenter(col, row), a, b); d <= reach {
				cell.Type = world.CellRoad
			}
		}
	}
}

func paintBuildings(grid *world.Grid, buildings []world.Building) {
	for _, b := range buildings {
		rect := b.Footprint()
		bounds := rect.Bounds()
		minC, minR := grid.ClampIndex(bounds.Min.X, bounds.Min.Z)
		maxC, maxR := grid.ClampIndex(bounds.Max.X, bounds.Max.Z)
		for row := minR; row <= maxR; row++ {
			for col := minC; col <= maxC; col++ {
				cell := grid.At(col, row)
				if cell.Type.IsWater() {
					continue
				}
				if rect.Contains(grid.CellCenter(col, row)) {
					cell.Type = world.CellBuilding
				}
			}
		}
	}
}
