package gameplay

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	centralSearchFrac = 0.15
	centralCandidates = 24
	zoneSpreadLimit   = 25.0
	zoneWaterLimit    = 0.6
	zoneRadialSamples = 12
	zoneBuffer        = 25.0
	zoneAttempts      = 18
	footprintSize     = 20.0
	footprintSpread   = 5.0
	footprintTries    = 10
	linkFactor        = 1.5
)

// ringSpec describes one concentric band of capture zones. Zones shrink
// and gain value toward the map edge.
type ringSpec struct {
	radiusFrac float64
	minCount   int
	maxCount   int
	minRadius  float64
	maxRadius  float64
	value      int
}

var captureRings = []ringSpec{
	{radiusFrac: 0.18, minCount: 1, maxCount: 2, minRadius: 50, maxRadius: 65, value: 1},
	{radiusFrac: 0.32, minCount: 2, maxCount: 3, minRadius: 35, maxRadius: 50, value: 2},
	{radiusFrac: 0.45, minCount: 2, maxCount: 4, minRadius: 22, maxRadius: 32, value: 3},
}

// defaultObjectives backs biomes whose config carries no objective pool.
var defaultObjectives = []string{"crossroads", "supply cache", "radio post", "overlook"}

// buildCaptureZones places the central zone by high-ground search, then
// fills the rings by rejection sampling. Quotas that cannot be met
// degrade to fewer zones with a warning.
func buildCaptureZones(stream *rng.Stream, grid *world.Grid, p Params, deployments []world.DeploymentZone, report *validation.Report, log zerolog.Logger) []world.CaptureZone {
	var zones []world.CaptureZone
	id := 1

	if z, ok := centralZone(stream, grid, p); ok {
		z.ID = id
		id++
		zones = append(zones, z)
	} else {
		report.Warnf(validation.StageGameplay, "no suitable central capture zone")
		log.Warn().Msg("central capture zone search failed")
	}

	for ri, ring := range captureRings {
		want := stream.IntBetween(ring.minCount, ring.maxCount)
		got := 0
		for attempt := 0; attempt < zoneAttempts*want && got < want; attempt++ {
			z, ok := tryRingZone(stream, grid, p, ring, zones, deployments)
			if !ok {
				continue
			}
			z.ID = id
			id++
			zones = append(zones, z)
			got++
		}
		if got < want {
			report.Warnf(validation.StageGameplay, "capture ring %d degraded: %d of %d zones", ri+1, got, want)
			log.Debug().Int("ring", ri+1).Int("got", got).Int("want", want).Msg("capture ring under quota")
		}
	}

	for i := range zones {
		linkZone(&zones[i], p.Settlements)
	}
	return zones
}

// centralZone samples candidates around the map center and keeps the
// highest suitable ground.
func centralZone(stream *rng.Stream, grid *world.Grid, p Params) (world.CaptureZone, bool) {
	radius := stream.FloatBetween(65, 85)
	searchR := p.Extent.Width * centralSearchFrac

	var bestPos, bestObj geo.Point
	bestElev := math.Inf(-1)
	found := false
	for i := 0; i < centralCandidates; i++ {
		d := searchR * math.Sqrt(stream.Next())
		a := stream.Angle()
		pos := geo.Pt(math.Cos(a)*d, math.Sin(a)*d)
		if !suitableZone(grid, pos, radius) {
			continue
		}
		obj, ok := findObjective(stream, grid, pos, radius)
		if !ok {
			continue
		}
		if e := grid.ElevationAt(pos.X, pos.Z); e > bestElev {
			bestElev, bestPos, bestObj = e, pos, obj
			found = true
		}
	}
	if !found {
		return world.CaptureZone{}, false
	}
	return world.CaptureZone{
		Position:      bestPos,
		Radius:        radius,
		Value:         1,
		Objective:     bestObj,
		ObjectiveType: rollObjectiveType(stream, p.Biome),
	}, true
}

func tryRingZone(stream *rng.Stream, grid *world.Grid, p Params, ring ringSpec, existing []world.CaptureZone, deployments []world.DeploymentZone) (world.CaptureZone, bool) {
	radius := stream.FloatBetween(ring.minRadius, ring.maxRadius)
	dist := p.Extent.Width * ring.radiusFrac * stream.FloatBetween(0.85, 1.15)
	a := stream.Angle()
	pos := geo.Pt(math.Cos(a)*dist, math.Sin(a)*dist)

	margin := radius + 20
	if math.Abs(pos.X) > p.Extent.Width/2-margin || math.Abs(pos.Z) > p.Extent.Height/2-margin {
		return world.CaptureZone{}, false
	}
	if !suitableZone(grid, pos, radius) {
		return world.CaptureZone{}, false
	}

	box := zoneBox(pos, radius).Expand(zoneBuffer)
	for _, z := range existing {
		if box.Intersects(zoneBox(z.Position, z.Radius)) {
			return world.CaptureZone{}, false
		}
	}
	for _, d := range deployments {
		if box.Intersects(d.Bounds) {
			return world.CaptureZone{}, false
		}
	}

	obj, ok := findObjective(stream, grid, pos, radius)
	if !ok {
		return world.CaptureZone{}, false
	}
	return world.CaptureZone{
		Position:      pos,
		Radius:        radius,
		Value:         ring.value,
		Objective:     obj,
		ObjectiveType: rollObjectiveType(stream, p.Biome),
	}, true
}

// suitableZone checks elevation spread and water coverage over a radial
// sample of the zone disc.
func suitableZone(grid *world.Grid, pos geo.Point, radius float64) bool {
	lo := grid.ElevationAt(pos.X, pos.Z)
	hi := lo
	wet := 0
	if grid.WaterAt(pos.X, pos.Z) {
		wet++
	}
	for i := 0; i < zoneRadialSamples; i++ {
		a := 2 * math.Pi * float64(i) / zoneRadialSamples
		s := pos.Add(geo.Pt(math.Cos(a)*radius, math.Sin(a)*radius))
		e := grid.ElevationAt(s.X, s.Z)
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
		if grid.WaterAt(s.X, s.Z) {
			wet++
		}
	}
	if hi-lo > zoneSpreadLimit {
		return false
	}
	return float64(wet)/float64(zoneRadialSamples+1) <= zoneWaterLimit
}

// findObjective looks for a flat dry 20x20 footprint inside the zone
// for the objective structure. The zone center is tried first.
func findObjective(stream *rng.Stream, grid *world.Grid, pos geo.Point, radius float64) (geo.Point, bool) {
	if flatFootprint(grid, pos) {
		return pos, true
	}
	reach := math.Max(0, radius-footprintSize/2)
	for i := 0; i < footprintTries; i++ {
		d := reach * math.Sqrt(stream.Next())
		a := stream.Angle()
		c := pos.Add(geo.Pt(math.Cos(a)*d, math.Sin(a)*d))
		if flatFootprint(grid, c) {
			return c, true
		}
	}
	return geo.Point{}, false
}

func flatFootprint(grid *world.Grid, center geo.Point) bool {
	half := footprintSize / 2
	lo, hi := math.Inf(1), math.Inf(-1)
	for dz := -half; dz <= half; dz += footprintSize / 4 {
		for dx := -half; dx <= half; dx += footprintSize / 4 {
			x, z := center.X+dx, center.Z+dz
			if grid.WaterAt(x, z) {
				return false
			}
			e := grid.ElevationAt(x, z)
			if e < lo {
				lo = e
			}
			if e > hi {
				hi = e
			}
		}
	}
	return hi-lo <= footprintSpread
}

// linkZone names a zone after the nearest settlement whose reach covers
// it, falling back to its objective type.
func linkZone(z *world.CaptureZone, settlements []world.Settlement) {
	bestD := math.Inf(1)
	for _, s := range settlements {
		d := s.Position.Distance(z.Position)
		if d <= s.Radius*linkFactor && d < bestD {
			bestD = d
			z.Name = s.Name
			z.SettlementID = s.ID
		}
	}
	if z.Name == "" {
		z.Name = fmt.Sprintf("%s %d", z.ObjectiveType, z.ID)
	}
}

func rollObjectiveType(stream *rng.Stream, b biome.Config) string {
	pool := b.Objectives
	if len(pool) == 0 {
		pool = defaultObjectives
	}
	return pool[stream.IntN(len(pool))]
}

func zoneBox(pos geo.Point, radius float64) geo.AABB {
	return geo.AABB{
		Min: geo.Pt(pos.X-radius, pos.Z-radius),
		Max: geo.Pt(pos.X+radius, pos.Z+radius),
	}
}
