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
	annularAttempts = 15
	infillAttempts  = 10
	focalAttempts   = 25
	basePadding     = 3.0
	streetClearance = 1.5
	streetSetback   = 2.5
	infillMaxArea   = 120.0
	edgeMargin      = 20.0
)

// buildingSpec is a rolled building awaiting placement.
type buildingSpec struct {
	category world.BuildingCategory
	subtype  string
	width    float64
	depth    float64
	height   float64
	floors   int
}

func (bs buildingSpec) area() float64 { return bs.width * bs.depth }

// subtypeDef is a template row for one building subtype.
type subtypeDef struct {
	name   string
	width  float64
	depth  float64
	height float64
	floors int
	weight float64
	// minSize restricts large subtypes to bigger settlements.
	minSize world.SettlementSize
}

var subtypeTables = map[world.BuildingCategory][]subtypeDef{
	world.CategoryResidential: {
		{name: "house", width: 9, depth: 8, height: 5, floors: 1, weight: 5},
		{name: "cottage", width: 7, depth: 6, height: 4, floors: 1, weight: 3},
		{name: "townhouse", width: 10, depth: 9, height: 8, floors: 2, weight: 2, minSize: world.SettlementTown},
		{name: "apartment", width: 16, depth: 12, height: 14, floors: 4, weight: 2, minSize: world.SettlementCity},
	},
	world.CategoryCommercial: {
		{name: "shop", width: 9, depth: 8, height: 5, floors: 1, weight: 4},
		{name: "market", width: 14, depth: 12, height: 6, floors: 1, weight: 2},
		{name: "inn", width: 12, depth: 10, height: 8, floors: 2, weight: 2},
		{name: "tavern", width: 10, depth: 9, height: 6, floors: 1, weight: 2},
	},
	world.CategoryIndustrial: {
		{name: "workshop", width: 11, depth: 9, height: 6, floors: 1, weight: 4},
		{name: "mill", width: 10, depth: 10, height: 9, floors: 2, weight: 2},
		{name: "depot", width: 16, depth: 12, height: 7, floors: 1, weight: 2},
		{name: "factory", width: 22, depth: 14, height: 9, floors: 2, weight: 2, minSize: world.SettlementTown},
	},
	world.CategoryCivic: {
		{name: "church", width: 14, depth: 9, height: 12, floors: 1, weight: 3},
		{name: "chapel", width: 8, depth: 6, height: 7, floors: 1, weight: 2},
		{name: "town-hall", width: 15, depth: 12, height: 10, floors: 2, weight: 2, minSize: world.SettlementVillage},
		{name: "school", width: 14, depth: 10, height: 7, floors: 1, weight: 2, minSize: world.SettlementVillage},
		{name: "clinic", width: 11, depth: 9, height: 6, floors: 1, weight: 1, minSize: world.SettlementTown},
	},
	world.CategoryAgricultural: {
		{name: "barn", width: 13, depth: 9, height: 7, floors: 1, weight: 3},
		{name: "farmhouse", width: 10, depth: 8, height: 5, floors: 1, weight: 3},
		{name: "granary", width: 8, depth: 8, height: 9, floors: 1, weight: 2},
		{name: "stable", width: 12, depth: 7, height: 5, floors: 1, weight: 2},
	},
	world.CategoryInfrastructure: {
		{name: "well", width: 3, depth: 3, height: 3, floors: 1, weight: 3},
		{name: "water-tower", width: 6, depth: 6, height: 13, floors: 1, weight: 2},
		{name: "storehouse", width: 10, depth: 8, height: 6, floors: 1, weight: 3},
		{name: "guard-post", width: 6, depth: 5, height: 5, floors: 1, weight: 2},
	},
}

// quotaOrder fixes category iteration for deterministic spec rolls.
var quotaOrder = [...]world.BuildingCategory{
	world.CategoryResidential,
	world.CategoryCommercial,
	world.CategoryIndustrial,
	world.CategoryCivic,
	world.CategoryAgricultural,
	world.CategoryInfrastructure,
}

// categoryRatios gives the composition weights per settlement size, in
// quotaOrder.
func categoryRatios(size world.SettlementSize) [6]float64 {
	switch size {
	case world.SettlementCity:
		return [6]float64{8, 5, 3, 2.5, 0.4, 1.2}
	case world.SettlementTown:
		return [6]float64{9, 4, 2.5, 2.5, 1, 1.2}
	case world.SettlementVillage:
		return [6]float64{10, 3, 1, 2, 3, 1}
	default:
		return [6]float64{11, 2, 0, 1, 5, 1}
	}
}

func buildingBudget(stream *rng.Stream, size world.SettlementSize) int {
	switch size {
	case world.SettlementCity:
		return stream.IntBetween(55, 80)
	case world.SettlementTown:
		return stream.IntBetween(30, 45)
	case world.SettlementVillage:
		return stream.IntBetween(14, 22)
	default:
		return stream.IntBetween(6, 10)
	}
}

// annularBand gives each category its preferred distance band, as
// fractions of the settlement radius. Civic clusters near the center,
// agriculture pushes past the edge.
func annularBand(cat world.BuildingCategory) (lo, hi float64) {
	switch cat {
	case world.CategoryCivic:
		return 0.05, 0.35
	case world.CategoryCommercial:
		return 0.10, 0.50
	case world.CategoryResidential:
		return 0.15, 0.85
	case world.CategoryIndustrial:
		return 0.55, 1.0
	case world.CategoryAgricultural:
		return 0.60, 1.10
	default:
		return 0.30, 0.90
	}
}

// placeBuildings rolls the building list for the settlement and places
// each spec through up to three tiers: annular attempts in the
// category's band, then walking the streets for a frontage slot, then
// random infill for small structures. Specs that fail every tier are
// dropped and counted.
func placeBuildings(stream *rng.Stream, grid *world.Grid, s *world.Settlement, cfg biome.Config, report *validation.Report, log zerolog.Logger) {
	padding := basePadding
	if cfg.SettlementDensity > 0 {
		padding = basePadding / math.Sqrt(cfg.SettlementDensity)
	}

	pl := &placer{
		stream:  stream,
		grid:    grid,
		s:       s,
		padding: padding,
	}

	nextID := 1
	if focal, ok := pl.placeFocal(focalSpec(stream, s)); ok {
		focal.ID = nextID
		nextID++
		s.Buildings = append(s.Buildings, focal)
	}

	specs := rollSpecs(stream, s.Size, buildingBudget(stream, s.Size))
	dropped := 0
	for _, spec := range specs {
		b, ok := pl.placeSpec(spec)
		if !ok {
			dropped++
			continue
		}
		b.ID = nextID
		nextID++
		s.Buildings = append(s.Buildings, b)
	}

	if dropped > 0 {
		report.AddWarning(validation.Result{
			Stage:    validation.StageSettlement,
			Message:  "buildings dropped: no clear placement",
			Position: &s.Position,
			Count:    dropped,
		})
		log.Debug().Str("name", s.Name).Int("dropped", dropped).Msg("building placement failures")
	}
}

// rollSpecs converts the budget into per-category quotas and rolls a
// subtype for each slot.
func rollSpecs(stream *rng.Stream, size world.SettlementSize, budget int) []buildingSpec {
	ratios := categoryRatios(size)
	total := 0.0
	for _, r := range ratios {
		total += r
	}

	var specs []buildingSpec
	assigned := 0
	for i, cat := range quotaOrder {
		quota := int(math.Round(float64(budget) * ratios[i] / total))
		if i == len(quotaOrder)-1 {
			quota = budget - assigned
		}
		if quota < 0 {
			quota = 0
		}
		assigned += quota
		for n := 0; n < quota; n++ {
			specs = append(specs, rollSubtype(stream, cat, size))
		}
	}
	return specs
}

func rollSubtype(stream *rng.Stream, cat world.BuildingCategory, size world.SettlementSize) buildingSpec {
	table := subtypeTables[cat]
	weights := make([]float64, len(table))
	for i, def := range table {
		if def.minSize != "" && sizeRank(size) < sizeRank(def.minSize) {
			continue
		}
		weights[i] = def.weight
	}
	def := table[stream.Pick(weights)]

	jitter := func(v float64) float64 { return v * stream.FloatBetween(0.85, 1.15) }
	return buildingSpec{
		category: cat,
		subtype:  def.name,
		width:    jitter(def.width),
		depth:    jitter(def.depth),
		height:   jitter(def.height),
		floors:   def.floors,
	}
}

func sizeRank(size world.SettlementSize) int {
	switch size {
	case world.SettlementCity:
		return 3
	case world.SettlementTown:
		return 2
	case world.SettlementVillage:
		return 1
	}
	return 0
}

// focalSpec picks the landmark that anchors the settlement center.
func focalSpec(stream *rng.Stream, s *world.Settlement) buildingSpec {
	var def subtypeDef
	switch s.Size {
	case world.SettlementCity:
		if s.Layout == world.LayoutGrid {
			def = subtypeDef{name: "city-hall", width: 18, depth: 14, height: 12, floors: 3}
		} else {
			def = subtypeDef{name: "cathedral", width: 20, depth: 13, height: 22, floors: 1}
		}
	case world.SettlementTown:
		if s.Layout == world.LayoutGrid {
			def = subtypeDef{name: "town-hall", width: 15, depth: 12, height: 10, floors: 2}
		} else {
			def = subtypeDef{name: "church", width: 14, depth: 9, height: 12, floors: 1}
		}
	case world.SettlementVillage:
		def = subtypeDef{name: "church", width: 12, depth: 8, height: 10, floors: 1}
	default:
		def = subtypeDef{name: "chapel", width: 8, depth: 6, height: 7, floors: 1}
	}

	jitter := func(v float64) float64 { return v * stream.FloatBetween(0.92, 1.08) }
	return buildingSpec{
		category: world.CategoryCivic,
		subtype:  def.name,
		width:    jitter(def.width),
		depth:    jitter(def.depth),
		height:   jitter(def.height),
		floors:   def.floors,
	}
}

// placer holds the shared placement state for one settlement.
type placer struct {
	stream  *rng.Stream
	grid    *world.Grid
	s       *world.Settlement
	padding float64
}

// placeFocal tries polar positions close to the center until one is
// clear. The search radius widens with each failed attempt so the
// landmark escapes the street knot at the very center.
func (pl *placer) placeFocal(spec buildingSpec) (world.Building, bool) {
	for i := 0; i < focalAttempts; i++ {
		reach := geo.LerpF(10, 0.35*pl.s.Radius, float64(i)/float64(focalAttempts-1))
		dist := reach * pl.stream.FloatBetween(0.8, 1.2)
		pos := geo.Polar(pl.s.Position, pl.stream.Angle(), dist)
		rotation := pl.s.MainAxis + pl.stream.FloatBetween(-0.15, 0.15)
		if b, ok := pl.try(spec, pos, rotation); ok {
			return b, true
		}
	}
	return world.Building{}, false
}

// placeSpec runs the placement tiers for one rolled spec.
func (pl *placer) placeSpec(spec buildingSpec) (world.Building, bool) {
	if b, ok := pl.placeAnnular(spec); ok {
		return b, true
	}
	if b, ok := pl.placeAlongStreets(spec); ok {
		return b, true
	}
	if spec.area() < infillMaxArea {
		if b, ok := pl.placeInfill(spec); ok {
			return b, true
		}
	}
	return world.Building{}, false
}

// placeAnnular tries random positions inside the category's band. The
// building is rotated roughly tangent to the ring so it faces inward.
func (pl *placer) placeAnnular(spec buildingSpec) (world.Building, bool) {
	lo, hi := annularBand(spec.category)
	for i := 0; i < annularAttempts; i++ {
		angle := pl.stream.Angle()
		dist := pl.stream.FloatBetween(lo, hi) * pl.s.Radius
		pos := geo.Polar(pl.s.Position, angle, dist)
		rotation := angle + math.Pi/2 + pl.stream.FloatBetween(-0.2, 0.2)
		if b, ok := pl.try(spec, pos, rotation); ok {
			return b, true
		}
	}
	return world.Building{}, false
}

// placeAlongStreets walks the settlement streets in a shuffled order and
// probes frontage slots on both sides, first at the near setback and
// then one row back.
func (pl *placer) placeAlongStreets(spec buildingSpec) (world.Building, bool) {
	order := make([]int, len(pl.s.Streets))
	for i := range order {
		order[i] = i
	}
	pl.stream.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	step := spec.width + 4
	for _, si := range order {
		street := pl.s.Streets[si]
		line := street.Polyline()
		total := line.Length()
		if total < step {
			continue
		}
		near := street.Width/2 + streetSetback + spec.depth/2
		far := near + spec.depth + 3

		for along := step / 2; along < total; along += step {
			t := along / total
			station := line.PointAt(t)
			// Segment direction at the station.
			idx := segmentIndexAt(line, t)
			dir := line.DirectionAt(idx)
			normal := dir.Perp()
			rotation := dir.Angle()

			for _, setback := range [2]float64{near, far} {
				for _, side := range [2]float64{1, -1} {
					pos := station.Add(normal.Scale(side * setback))
					if b, ok := pl.try(spec, pos, rotation); ok {
						return b, true
					}
				}
			}
		}
	}
	return world.Building{}, false
}

// segmentIndexAt maps a normalized arc position to the segment index.
func segmentIndexAt(line geo.Polyline, t float64) int {
	target := geo.Clamp(t, 0, 1) * line.Length()
	walked := 0.0
	for i := 1; i < len(line.Points); i++ {
		walked += line.Points[i-1].Distance(line.Points[i])
		if walked >= target {
			return i - 1
		}
	}
	return len(line.Points) - 2
}

// placeInfill scatters small structures uniformly inside the settlement
// disc.
func (pl *placer) placeInfill(spec buildingSpec) (world.Building, bool) {
	for i := 0; i < infillAttempts; i++ {
		dist := 0.9 * pl.s.Radius * math.Sqrt(pl.stream.Next())
		pos := geo.Polar(pl.s.Position, pl.stream.Angle(), dist)
		rotation := pl.stream.Angle()
		if b, ok := pl.try(spec, pos, rotation); ok {
			return b, true
		}
	}
	return world.Building{}, false
}

// try validates a candidate pose and materializes the building if it
// fits.
func (pl *placer) try(spec buildingSpec, pos geo.Point, rotation float64) (world.Building, bool) {
	footprint := geo.NewRect(pos, spec.width, spec.depth, rotation)
	if !pl.fits(footprint) {
		return world.Building{}, false
	}
	b := world.Building{
		Position:     pos,
		Width:        spec.width,
		Depth:        spec.depth,
		Height:       spec.height,
		Rotation:     rotation,
		Category:     spec.category,
		Subtype:      spec.subtype,
		Floors:       spec.floors,
		SettlementID: pl.s.ID,
	}
	applyCombatStats(pl.stream, &b)
	return b, true
}

// fits rejects candidates off the map, on water, on a slope, or
// overlapping an earlier building or street.
func (pl *placer) fits(footprint geo.Rect) bool {
	corners := footprint.Corners()
	halfW := pl.grid.Width()/2 - edgeMargin
	halfH := pl.grid.Height()/2 - edgeMargin

	minE, maxE := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		if math.Abs(c.X) > halfW || math.Abs(c.Z) > halfH {
			return false
		}
		if pl.grid.WaterAt(c.X, c.Z) {
			return false
		}
		e := pl.grid.ElevationAt(c.X, c.Z)
		minE = math.Min(minE, e)
		maxE = math.Max(maxE, e)
	}
	center := footprint.Center
	if pl.grid.WaterAt(center.X, center.Z) {
		return false
	}
	if maxE-minE > 3.5 {
		return false
	}

	padded := footprint.Expand(pl.padding)
	for _, other := range pl.s.Buildings {
		if padded.Intersects(other.Footprint()) {
			return false
		}
	}

	for _, street := range pl.s.Streets {
		cleared := footprint.Expand(street.Width/2 + streetClearance)
		box := cleared.Bounds()
		pts := street.Points
		for i := 1; i < len(pts); i++ {
			segBox := geo.BoundsOf(pts[i-1 : i+1])
			if !box.Intersects(segBox) {
				continue
			}
			if cleared.IntersectsSegment(pts[i-1], pts[i]) {
				return false
			}
		}
	}
	return true
}

// applyCombatStats fills the gameplay scalars from the footprint and
// category.
func applyCombatStats(stream *rng.Stream, b *world.Building) {
	area := b.Width * b.Depth
	b.Garrison = int(area*float64(b.Floors)/35) + 1

	var defense float64
	switch b.Category {
	case world.CategoryCivic:
		defense = 0.7
	case world.CategoryIndustrial:
		defense = 0.6
	case world.CategoryInfrastructure:
		defense = 0.5
	case world.CategoryCommercial:
		defense = 0.45
	case world.CategoryResidential:
		defense = 0.4
	default:
		defense = 0.3
	}
	b.Defense = geo.Clamp(defense+stream.FloatBetween(-0.08, 0.08), 0, 1)

	// Tall buildings are easy to spot; squat ones hide troops well.
	b.Stealth = geo.Clamp(1-b.Height/20, 0.1, 0.9) * stream.FloatBetween(0.85, 1.0)
}

// FilterBuildings drops any building that, after hydrology adjustments
// and road construction, ends up on water or under a road. Returns the
// number removed.
func FilterBuildings(settlements []world.Settlement, grid *world.Grid, roads []world.Road, report *validation.Report, log zerolog.Logger) int {
	removed := 0
	for si := range settlements {
		s := &settlements[si]
		kept := s.Buildings[:0]
		for _, b := range s.Buildings {
			if buildingDrowned(grid, b) || buildingUnderRoad(b, roads) {
				removed++
				continue
			}
			kept = append(kept, b)
		}
		s.Buildings = kept
	}
	if removed > 0 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageSettlement,
			Message: "buildings removed: covered by water or road",
			Count:   removed,
		})
		log.Debug().Int("removed", removed).Msg("post-pass building filter")
	}
	return removed
}

func buildingDrowned(grid *world.Grid, b world.Building) bool {
	if grid.WaterAt(b.Position.X, b.Position.Z) {
		return true
	}
	for _, c := range b.Footprint().Corners() {
		if grid.WaterAt(c.X, c.Z) {
			return true
		}
	}
	return false
}

func buildingUnderRoad(b world.Building, roads []world.Road) bool {
	footprint := b.Footprint()
	box := footprint.Bounds()
	for _, road := range roads {
		if road.SettlementID == b.SettlementID && road.SettlementID != 0 {
			// Streets were already respected at placement time.
			continue
		}
		cleared := footprint.Expand(road.Width / 2)
		pts := road.Points
		for i := 1; i < len(pts); i++ {
			segBox := geo.BoundsOf(pts[i-1 : i+1]).Expand(road.Width)
			if !box.Intersects(segBox) {
				continue
			}
			if cleared.IntersectsSegment(pts[i-1], pts[i]) {
				return true
			}
		}
	}
	return false
}
