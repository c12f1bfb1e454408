// Package settlement picks settlement sites, lays out their street
// graphs, fills them with buildings, and names them. Site and placement
// searches are attempt-bounded; a settlement that finds no suitable
// terrain is dropped with a warning rather than forced.
package settlement

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	minSpacing        = 400.0
	suitabilitySpread = 10.0
	citiesSpread      = 25.0
	maxMeanSlope      = 0.15
	radialSamples     = 16
	maxWetSamples     = 4
	candidateMargin   = 150.0
	candidateRingStep = 140.0
	stripBuffer       = 50.0
)

// Params carries the stage inputs.
type Params struct {
	Extent world.Extent
	Biome  biome.Config
	Avoid  []geo.AABB
}

// sizeRadius is the nominal settlement footprint per size.
func sizeRadius(size world.SettlementSize) float64 {
	switch size {
	case world.SettlementCity:
		return 280
	case world.SettlementTown:
		return 180
	case world.SettlementVillage:
		return 110
	default:
		return 60
	}
}

// placementOrder sites large settlements first so they get the best
// candidates.
var placementOrder = [...]world.SettlementSize{
	world.SettlementCity,
	world.SettlementTown,
	world.SettlementVillage,
	world.SettlementHamlet,
}

// Generate runs the settlement stage and returns the placed settlements
// with their streets and buildings attached.
func Generate(stream *rng.Stream, grid *world.Grid, p Params, report *validation.Report, log zerolog.Logger) []world.Settlement {
	counts := rollCounts(stream, p.Extent, p.Biome)
	candidates := candidatePositions(stream, p.Extent)

	spread := suitabilitySpread
	if p.Biome.Name == "cities" {
		spread = citiesSpread
	}

	var placed []world.Settlement
	used := make([]bool, len(candidates))
	nextID := 1
	namer := newNamer(stream)

	for _, size := range placementOrder {
		for n := 0; n < counts[size]; n++ {
			idx, ok := findSite(grid, p, candidates, used, placed, size, spread)
			if !ok {
				report.AddWarning(validation.Result{
					Stage:   validation.StageSettlement,
					Message: "settlement dropped: no suitable terrain",
					Count:   1,
				})
				log.Warn().Str("size", string(size)).Msg("settlement site search failed")
				continue
			}
			used[idx] = true

			s := world.Settlement{
				ID:       nextID,
				Name:     namer.next(),
				Position: candidates[idx],
				Size:     size,
				Radius:   sizeRadius(size),
				Layout:   chooseLayout(stream, candidates[idx], p.Extent, size),
				MainAxis: stream.Angle(),
			}
			nextID++

			buildStreets(stream, grid, &s)
			placeBuildings(stream, grid, &s, p.Biome, report, log)
			carveParcels(stream, grid, &s)
			s.Bounds = settlementBounds(s)

			placed = append(placed, s)
			log.Debug().
				Str("name", s.Name).
				Str("size", string(s.Size)).
				Str("layout", string(s.Layout)).
				Int("buildings", len(s.Buildings)).
				Msg("settlement placed")
		}
	}

	return placed
}

// rollCounts builds the per-size settlement counts for this run. Small
// maps roll a flavor: hamlet-only, village-focused, or rarely
// town-focused. The cities biome bypasses flavor with a fixed table.
func rollCounts(stream *rng.Stream, extent world.Extent, cfg biome.Config) map[world.SettlementSize]int {
	if cfg.Name == "cities" {
		return citiesCounts(extent)
	}

	counts := make(map[world.SettlementSize]int)
	switch {
	case extent.Width <= 1100: // small
		switch stream.Pick([]float64{0.5, 0.4, 0.1}) {
		case 0:
			counts[world.SettlementHamlet] = stream.IntBetween(2, 4)
		case 1:
			counts[world.SettlementVillage] = stream.IntBetween(1, 2)
			counts[world.SettlementHamlet] = stream.IntBetween(1, 2)
		default:
			counts[world.SettlementTown] = 1
			counts[world.SettlementVillage] = stream.IntBetween(0, 1)
			counts[world.SettlementHamlet] = stream.IntBetween(1, 2)
		}
	case extent.Width <= 1800: // medium
		switch stream.Pick([]float64{0.4, 0.4, 0.2}) {
		case 0:
			counts[world.SettlementVillage] = stream.IntBetween(2, 3)
			counts[world.SettlementHamlet] = stream.IntBetween(2, 3)
		case 1:
			counts[world.SettlementTown] = stream.IntBetween(1, 2)
			counts[world.SettlementVillage] = stream.IntBetween(1, 2)
			counts[world.SettlementHamlet] = stream.IntBetween(1, 2)
		default:
			counts[world.SettlementCity] = 1
			counts[world.SettlementTown] = stream.IntBetween(0, 1)
			counts[world.SettlementVillage] = stream.IntBetween(1, 2)
		}
	default: // large
		switch stream.Pick([]float64{0.35, 0.45, 0.2}) {
		case 0:
			counts[world.SettlementTown] = stream.IntBetween(2, 3)
			counts[world.SettlementVillage] = stream.IntBetween(2, 3)
			counts[world.SettlementHamlet] = stream.IntBetween(2, 4)
		case 1:
			counts[world.SettlementCity] = stream.IntBetween(1, 2)
			counts[world.SettlementTown] = stream.IntBetween(1, 2)
			counts[world.SettlementVillage] = stream.IntBetween(2, 3)
			counts[world.SettlementHamlet] = stream.IntBetween(1, 3)
		default:
			counts[world.SettlementVillage] = stream.IntBetween(3, 5)
			counts[world.SettlementHamlet] = stream.IntBetween(3, 5)
		}
	}

	applyBiome(stream, counts, cfg)
	return counts
}

// citiesCounts is the forced distribution for the cities biome.
func citiesCounts(extent world.Extent) map[world.SettlementSize]int {
	switch {
	case extent.Width <= 1100:
		return map[world.SettlementSize]int{
			world.SettlementCity:    1,
			world.SettlementTown:    3,
			world.SettlementVillage: 2,
		}
	case extent.Width <= 1800:
		return map[world.SettlementSize]int{
			world.SettlementCity:    2,
			world.SettlementTown:    5,
			world.SettlementVillage: 3,
		}
	default:
		return map[world.SettlementSize]int{
			world.SettlementCity:    3,
			world.SettlementTown:    8,
			world.SettlementVillage: 5,
		}
	}
}

// applyBiome scales counts by the biome's settlement density and demotes
// sizes the biome disallows to the next smaller allowed size.
func applyBiome(stream *rng.Stream, counts map[world.SettlementSize]int, cfg biome.Config) {
	if cfg.SettlementDensity != 1 {
		for _, size := range placementOrder {
			if counts[size] == 0 {
				continue
			}
			scaled := float64(counts[size]) * cfg.SettlementDensity
			n := int(scaled)
			if stream.Chance(scaled - float64(n)) {
				n++
			}
			counts[size] = n
		}
	}

	for i, size := range placementOrder {
		if counts[size] == 0 || cfg.AllowsSize(string(size)) {
			continue
		}
		// Demote downward; hamlets with nowhere to go are dropped.
		for j := i + 1; j < len(placementOrder); j++ {
			if cfg.AllowsSize(string(placementOrder[j])) {
				counts[placementOrder[j]] += counts[size]
				break
			}
		}
		counts[size] = 0
	}
}

// candidatePositions lays out the shared site candidates: one jittered
// central spot plus expanding rings out to the margin.
func candidatePositions(stream *rng.Stream, extent world.Extent) []geo.Point {
	out := []geo.Point{geo.Pt(
		stream.FloatBetween(-60, 60),
		stream.FloatBetween(-60, 60),
	)}

	maxR := extent.Width/2 - candidateMargin
	ring := 1
	for r := candidateRingStep; r <= maxR; r += candidateRingStep {
		n := 6 + (ring-1)*3
		base := stream.Angle()
		for i := 0; i < n; i++ {
			angle := base + 2*math.Pi*float64(i)/float64(n) + stream.FloatBetween(-0.15, 0.15)
			dist := r + stream.FloatBetween(-60, 60)
			out = append(out, geo.Polar(geo.Origin, angle, dist))
		}
		ring++
	}
	return out
}

// findSite walks the candidate list for the first admissible position.
func findSite(grid *world.Grid, p Params, candidates []geo.Point, used []bool, placed []world.Settlement, size world.SettlementSize, spread float64) (int, bool) {
	radius := sizeRadius(size)
	half := p.Extent.Width/2 - candidateMargin
	halfH := p.Extent.Height/2 - candidateMargin

	for i, pos := range candidates {
		if used[i] {
			continue
		}
		if math.Abs(pos.X) > half || math.Abs(pos.Z) > halfH {
			continue
		}
		if insideStrip(pos, p.Avoid) {
			continue
		}
		if tooCrowded(pos, placed) {
			continue
		}
		if !suitable(grid, pos, radius, spread) {
			continue
		}
		return i, true
	}
	return 0, false
}

func insideStrip(pos geo.Point, strips []geo.AABB) bool {
	for _, s := range strips {
		if s.Expand(stripBuffer).Contains(pos) {
			return true
		}
	}
	return false
}

func tooCrowded(pos geo.Point, placed []world.Settlement) bool {
	for _, s := range placed {
		if pos.Distance(s.Position) < minSpacing {
			return true
		}
	}
	return false
}

// suitable samples a radial ring plus the center and requires a small
// elevation spread, shallow mean slope, and mostly dry ground.
func suitable(grid *world.Grid, pos geo.Point, radius, maxSpread float64) bool {
	if grid.WaterAt(pos.X, pos.Z) {
		return false
	}
	center := grid.ElevationAt(pos.X, pos.Z)
	min, max := center, center
	slopeSum := 0.0
	wet := 0

	for i := 0; i < radialSamples; i++ {
		angle := 2 * math.Pi * float64(i) / radialSamples
		sample := geo.Polar(pos, angle, radius)
		if grid.WaterAt(sample.X, sample.Z) {
			wet++
		}
		e := grid.ElevationAt(sample.X, sample.Z)
		min = math.Min(min, e)
		max = math.Max(max, e)
		slopeSum += math.Abs(e-center) / radius
	}

	if wet > maxWetSamples {
		return false
	}
	if max-min >= maxSpread {
		return false
	}
	return slopeSum/radialSamples < maxMeanSlope
}

// chooseLayout weights the street pattern by distance from map center:
// central sites lean organic, edge sites lean grid. Cities always split
// organic/grid evenly.
func chooseLayout(stream *rng.Stream, pos geo.Point, extent world.Extent, size world.SettlementSize) world.LayoutKind {
	if size == world.SettlementCity {
		if stream.Chance(0.5) {
			return world.LayoutOrganic
		}
		return world.LayoutGrid
	}

	central := 1 - geo.Clamp(pos.Length()/(extent.Width/2), 0, 1)
	weights := []float64{1 + central, 1 + (1 - central), 0.8}
	switch stream.Pick(weights) {
	case 0:
		return world.LayoutOrganic
	case 1:
		return world.LayoutGrid
	default:
		return world.LayoutMixed
	}
}

// settlementBounds wraps the streets and buildings, falling back to the
// nominal radius for an empty settlement.
func settlementBounds(s world.Settlement) geo.AABB {
	bounds := geo.AABB{
		Min: geo.Pt(s.Position.X-s.Radius, s.Position.Z-s.Radius),
		Max: geo.Pt(s.Position.X+s.Radius, s.Position.Z+s.Radius),
	}
	for _, street := range s.Streets {
		for _, p := range street.Points {
			bounds = growAABB(bounds, p)
		}
	}
	for _, b := range s.Buildings {
		for _, c := range b.Footprint().Corners() {
			bounds = growAABB(bounds, c)
		}
	}
	return bounds
}

func growAABB(b geo.AABB, p geo.Point) geo.AABB {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}
