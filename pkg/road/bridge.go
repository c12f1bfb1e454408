package road

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	waterClearance   = 3.0
	roadClearance    = 5.0
	crossingGroupGap = 50.0
	approachMargin   = 8.0
	extendStep       = 10.0
	extendMaxSteps   = 8
	forceGradeDiff   = 2.0
	bridgeMergeDist  = 60.0
)

// placeRiverBridges creates one bridge per grouped run of river
// crossings on each road. The deck clears the water by at least 3m and
// never sits below either graded approach; the footprint extends
// outward until the approaches can ramp onto the deck within the grade
// limit.
func placeRiverBridges(grid *world.Grid, roads []world.Road, water []world.WaterBody, log zerolog.Logger) []world.Bridge {
	var rivers []world.Road
	for _, w := range water {
		if w.Kind != world.WaterRiver {
			continue
		}
		rivers = append(rivers, world.Road{Points: w.Points, Width: w.Width})
	}
	if len(rivers) == 0 {
		return nil
	}

	profiles := computeProfiles(grid, roads, nil)

	var bridges []world.Bridge
	nextID := 1
	for i, r := range roads {
		line := r.Polyline()
		total := line.Length()
		if total < 1 {
			continue
		}
		for _, river := range rivers {
			groups := groupCrossings(crossingParams(r, river), crossingGroupGap)
			for _, grp := range groups {
				br := buildRiverBridge(r, profiles[i], line, total, grp, river.Width)
				br.ID = nextID
				nextID++
				bridges = append(bridges, br)
				log.Debug().
					Int("road", r.ID).
					Float64("length", br.Length).
					Float64("deck", br.Elevation).
					Msg("river bridge placed")
			}
		}
	}
	return bridges
}

// groupCrossings merges crossings whose along-road gaps stay within
// maxGap, so braided channels get one long bridge instead of several
// slivers.
func groupCrossings(crossings []crossing, maxGap float64) [][]crossing {
	if len(crossings) == 0 {
		return nil
	}
	var groups [][]crossing
	current := []crossing{crossings[0]}
	for _, c := range crossings[1:] {
		if c.along-current[len(current)-1].along <= maxGap {
			current = append(current, c)
			continue
		}
		groups = append(groups, current)
		current = []crossing{c}
	}
	return append(groups, current)
}

func buildRiverBridge(r world.Road, profile roadProfile, line geo.Polyline, total float64, grp []crossing, riverWidth float64) world.Bridge {
	margin := riverWidth/2 + approachMargin
	startAlong := grp[0].along - margin
	endAlong := grp[len(grp)-1].along + margin

	deck := waterClearance
	for step := 0; step <= extendMaxSteps; step++ {
		a := line.PointAt(geo.Clamp(startAlong/total, 0, 1))
		b := line.PointAt(geo.Clamp(endAlong/total, 0, 1))
		ea := profile.elevationAt(a)
		eb := profile.elevationAt(b)
		deck = math.Max(waterClearance, math.Max(ea, eb))

		// Extend while an approach sits so far below the deck that a
		// ramp could not reach it at a legal grade.
		need := deck - maxGrade*extendStep*float64(step+2)
		if (ea >= need && eb >= need) || step == extendMaxSteps {
			break
		}
		startAlong -= extendStep
		endAlong += extendStep
	}

	midT := geo.Clamp((startAlong+endAlong)/2/total, 0, 1)
	mid := line.PointAt(midT)
	_, idx, _ := line.NearestPointIndex(mid)

	return world.Bridge{
		Position:  mid,
		Length:    endAlong - startAlong,
		Width:     r.Width + 2,
		Angle:     line.DirectionAt(idx).Angle(),
		Elevation: deck,
		RoadID:    r.ID,
	}
}

// placeRoadBridges grade-separates road crossings. When one road is
// already bridged at the crossing, or the graded profiles differ by
// more than 2m, the higher road gets a deck at least 5m above the lower
// one. Existing bridge records for that road are grown, never shrunk or
// duplicated.
func placeRoadBridges(grid *world.Grid, roads []world.Road, bridges []world.Bridge, log zerolog.Logger) []world.Bridge {
	nextID := 1
	for _, br := range bridges {
		if br.ID >= nextID {
			nextID = br.ID + 1
		}
	}

	profiles := computeProfiles(grid, roads, bridges)

	for i := 0; i < len(roads); i++ {
		for j := i + 1; j < len(roads); j++ {
			for _, c := range crossingParams(roads[i], roads[j]) {
				ei := profiles[i].elevationAt(c.point)
				ej := profiles[j].elevationAt(c.point)
				onI := onOwnBridge(bridges, roads[i].ID, c.point)
				onJ := onOwnBridge(bridges, roads[j].ID, c.point)

				if !onI && !onJ && math.Abs(ei-ej) <= forceGradeDiff {
					continue
				}

				hi, lo := i, j
				eHi, eLo := ei, ej
				if ej > ei || (onJ && !onI) {
					hi, lo = j, i
					eHi, eLo = ej, ei
				}
				target := eLo + roadClearance
				if target < eHi {
					target = eHi
				}
				needLen := roads[lo].Width + 16

				if !mergeBridge(bridges, roads[hi].ID, c.point, target, needLen) {
					line := roads[hi].Polyline()
					_, idx, _ := line.NearestPointIndex(c.point)
					bridges = append(bridges, world.Bridge{
						ID:        nextID,
						Position:  c.point,
						Length:    needLen,
						Width:     roads[hi].Width + 2,
						Angle:     line.DirectionAt(idx).Angle(),
						Elevation: target,
						RoadID:    roads[hi].ID,
					})
					nextID++
					log.Debug().
						Int("over", roads[hi].ID).
						Int("under", roads[lo].ID).
						Float64("deck", target).
						Msg("grade-separated crossing")
				}

				// The new deck changes the owning road's profile for any
				// later crossings.
				profiles[hi] = reprofile(grid, roads, bridges, hi)
			}
		}
	}
	return bridges
}

func onOwnBridge(bridges []world.Bridge, roadID int, p geo.Point) bool {
	for _, br := range bridges {
		if br.RoadID == roadID && br.Position.Distance(p) <= br.Length/2 {
			return true
		}
	}
	return false
}

// mergeBridge grows an existing nearby bridge of the same road instead
// of stacking a duplicate. Elevation and length only ever increase.
func mergeBridge(bridges []world.Bridge, roadID int, p geo.Point, elevation, length float64) bool {
	for k := range bridges {
		br := &bridges[k]
		if br.RoadID != roadID {
			continue
		}
		if br.Position.Distance(p) > br.Length/2+bridgeMergeDist {
			continue
		}
		if elevation > br.Elevation {
			br.Elevation = elevation
		}
		if length > br.Length {
			br.Length = length
		}
		return true
	}
	return false
}
