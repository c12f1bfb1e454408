package validation

import (
	"fmt"
	"math"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	boundsSlack         = 1.0
	buildingRoadBuffer  = 2.0
	riverBridgeClear    = 3.0
	crossMapSpanFrac    = 0.6
	minNorthSouthRoutes = 3
	minCrossMapRoutes   = 5
	waterElevationTol   = 1e-9
)

// CheckMap verifies a finished map against the generator's invariants.
// It checks structural correctness only; it never mutates the map.
func CheckMap(m *world.Map) *Report {
	r := NewReport()

	checkGrid(m, r)
	checkBounds(m, r)
	checkWaterIntegrity(m, r)
	checkBuildingOverlap(m, r)
	checkBuildingClearance(m, r)
	checkConnectivity(m, r)
	checkBridges(m, r)

	return r
}

func checkGrid(m *world.Map, r *Report) {
	if m.Grid == nil || m.Grid.Cols < 1 || m.Grid.Rows < 1 {
		r.AddError(Result{
			Stage:   StageMap,
			Message: "terrain grid is empty",
		})
	}
}

func checkBounds(m *world.Map, r *Report) {
	halfW := m.Width/2 + boundsSlack
	halfH := m.Height/2 + boundsSlack

	outside := func(p geo.Point) bool {
		return math.Abs(p.X) > halfW || math.Abs(p.Z) > halfH
	}

	for _, road := range m.Roads {
		for _, p := range road.Points {
			if outside(p) {
				r.AddError(Result{
					Stage:    StageRoad,
					Message:  fmt.Sprintf("road %d leaves the map bounds", road.ID),
					Position: &p,
				})
				break
			}
		}
	}

	for _, b := range m.Buildings {
		for _, corner := range b.Footprint().Corners() {
			if outside(corner) {
				r.AddError(Result{
					Stage:    StageSettlement,
					Message:  fmt.Sprintf("building %d corner leaves the map bounds", b.ID),
					Position: &corner,
				})
				break
			}
		}
	}
}

func checkWaterIntegrity(m *world.Map, r *Report) {
	if m.Grid == nil {
		return
	}

	wet := 0
	for row := 0; row < m.Grid.Rows; row++ {
		for col := 0; col < m.Grid.Cols; col++ {
			cell := m.Grid.Cells[row][col]
			if cell.Type.IsWater() && math.Abs(cell.Elevation) > waterElevationTol {
				wet++
			}
		}
	}
	if wet > 0 {
		r.AddError(Result{
			Stage:   StageHydrology,
			Message: "water cells carry non-zero elevation",
			Count:   wet,
		})
	}

	for _, b := range m.Buildings {
		if m.Grid.WaterAt(b.Position.X, b.Position.Z) {
			r.AddError(Result{
				Stage:    StageSettlement,
				Message:  fmt.Sprintf("building %d sits on a water cell", b.ID),
				Position: &b.Position,
			})
		}
	}
}

func checkBuildingOverlap(m *world.Map, r *Report) {
	bySettlement := make(map[int][]world.Building)
	for _, b := range m.Buildings {
		if b.SettlementID != 0 {
			bySettlement[b.SettlementID] = append(bySettlement[b.SettlementID], b)
		}
	}

	overlaps := 0
	for _, group := range bySettlement {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Footprint().Intersects(group[j].Footprint()) {
					overlaps++
				}
			}
		}
	}
	if overlaps > 0 {
		r.AddError(Result{
			Stage:   StageSettlement,
			Message: "building footprints overlap within a settlement",
			Count:   overlaps,
		})
	}
}

func checkBuildingClearance(m *world.Map, r *Report) {
	hits := 0
	for _, b := range m.Buildings {
		footprint := b.Footprint()
		for _, road := range m.Roads {
			buffer := road.Width/2 + buildingRoadBuffer
			expanded := footprint.Expand(buffer)
			// Cheap reject on the road's bounding box first.
			roadBounds := road.Polyline().Bounds().Expand(buffer)
			if !roadBounds.Intersects(expanded.Bounds()) {
				continue
			}
			for i := 0; i < len(road.Points)-1; i++ {
				if expanded.IntersectsSegment(road.Points[i], road.Points[i+1]) {
					hits++
					break
				}
			}
		}
	}
	if hits > 0 {
		r.AddError(Result{
			Stage:   StageSettlement,
			Message: "buildings intersect a road within its clearance buffer",
			Count:   hits,
		})
	}
}

func checkConnectivity(m *world.Map, r *Report) {
	northSouth := 0
	total := 0
	for _, road := range m.Roads {
		line := road.Polyline()
		spansNS := line.SpanZ() >= m.Height*crossMapSpanFrac
		spansEW := line.SpanX() >= m.Width*crossMapSpanFrac
		if spansNS {
			northSouth++
		}
		if spansNS || spansEW {
			total++
		}
	}

	if northSouth < minNorthSouthRoutes {
		r.AddError(Result{
			Stage:   StageRoad,
			Message: fmt.Sprintf("only %d north-south cross-map routes, want ≥ %d", northSouth, minNorthSouthRoutes),
			Count:   northSouth,
		})
	}
	if total < minCrossMapRoutes {
		r.AddError(Result{
			Stage:   StageRoad,
			Message: fmt.Sprintf("only %d cross-map routes, want ≥ %d", total, minCrossMapRoutes),
			Count:   total,
		})
	}
}

func checkBridges(m *world.Map, r *Report) {
	if m.Grid == nil {
		return
	}
	for _, b := range m.Bridges {
		if m.Grid.WaterAt(b.Position.X, b.Position.Z) {
			// Water sits at elevation 0, so the deck needs the full clearance.
			if b.Elevation < riverBridgeClear-waterElevationTol {
				r.AddError(Result{
					Stage:    StageBridge,
					Message:  fmt.Sprintf("bridge %d deck at %.1f m lacks water clearance", b.ID, b.Elevation),
					Position: &b.Position,
				})
			}
		}
	}
}
