package road

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	corridorClearance = 60.0
	corridorScanStep  = 40.0
	corridorScanMax   = 20
	minLinkLength     = 40.0
	hamletLinkReach   = 1400.0
)

// Params carries the stage inputs.
type Params struct {
	Extent      world.Extent
	Settlements []world.Settlement
	Water       []world.WaterBody
}

// Network is the finished road stage output.
type Network struct {
	Roads         []world.Road
	Bridges       []world.Bridge
	Intersections []world.Intersection
}

// builder accumulates roads through the stage passes.
type builder struct {
	stream *rng.Stream
	grid   *world.Grid
	p      Params
	pb     *pathBuilder
	roads  []world.Road
	nextID int
	report *validation.Report
	log    zerolog.Logger
}

// Build runs the road stage: corridor, settlement highways, hamlet
// connectors, network cleanup, the cross-map connectivity guarantee,
// intersections, bridges, and finally terrain grading.
func Build(stream *rng.Stream, grid *world.Grid, p Params, report *validation.Report, log zerolog.Logger) Network {
	b := &builder{
		stream: stream,
		grid:   grid,
		p:      p,
		nextID: 1,
		report: report,
		log:    log,
	}
	b.pb = &pathBuilder{
		stream: stream,
		grid:   grid,
		lakes:  lakeZones(p.Water),
		avoid:  avoidZones(p.Settlements, p.Water),
	}

	b.buildCorridor()
	b.connectSettlements()
	b.connectHamlets()

	b.roads = removeShortRoads(b.roads, report, log)
	b.roads = dedupeParallel(b.roads, report, log)
	b.roads = trimOvershoots(b.roads)
	b.ensureConnectivity()

	intersections := FindIntersections(b.roads)
	bridges := placeRiverBridges(b.grid, b.roads, p.Water, log)
	bridges = placeRoadBridges(b.grid, b.roads, bridges, log)
	Grade(b.grid, b.roads, bridges, log)

	log.Info().
		Int("roads", len(b.roads)).
		Int("bridges", len(bridges)).
		Int("intersections", len(intersections)).
		Msg("road network complete")

	return Network{Roads: b.roads, Bridges: bridges, Intersections: intersections}
}

func lakeZones(water []world.WaterBody) []avoidZone {
	var zones []avoidZone
	for _, w := range water {
		if w.Kind == world.WaterRiver {
			continue
		}
		center := geo.NewPolygon(w.Points...).Centroid()
		zones = append(zones, avoidZone{center: center, radius: w.Radius})
	}
	return zones
}

func avoidZones(settlements []world.Settlement, water []world.WaterBody) []avoidZone {
	var zones []avoidZone
	for _, s := range settlements {
		zones = append(zones, avoidZone{center: s.Position, radius: s.Radius})
	}
	zones = append(zones, lakeZones(water)...)
	return zones
}

func (b *builder) addRoad(rt world.RoadType, pts []geo.Point) *world.Road {
	if len(pts) < 2 {
		return nil
	}
	b.roads = append(b.roads, world.Road{
		ID:     b.nextID,
		Type:   rt,
		Points: pts,
		Width:  rt.Width(),
	})
	b.nextID++
	return &b.roads[len(b.roads)-1]
}

// buildCorridor routes the single north-south main corridor. On large
// maps it is an interstate, otherwise a highway. The x position is found
// by a linear scan that bypasses every settlement disc.
func (b *builder) buildCorridor() {
	rt := world.RoadHighway
	if b.p.Extent.Width >= 2000 {
		rt = world.RoadInterstate
	}

	x := b.findBypassX(b.stream.FloatBetween(-0.2, 0.2) * b.p.Extent.Width)
	halfH := b.p.Extent.Height/2 - edgeInset
	top := geo.Pt(x+b.stream.FloatBetween(-50, 50), -halfH)
	bottom := geo.Pt(x+b.stream.FloatBetween(-50, 50), halfH)

	b.addRoad(rt, b.pb.route(top, bottom, rt))
	b.log.Debug().Float64("x", x).Str("type", string(rt)).Msg("main corridor routed")
}

// findBypassX scans outward from the preferred x until the vertical line
// clears every settlement by the corridor clearance. If nothing clears,
// the best candidate seen wins.
func (b *builder) findBypassX(preferred float64) float64 {
	limit := b.p.Extent.Width/2 - candidateEdge(b.p.Extent)
	bestX, bestGap := preferred, math.Inf(-1)

	for k := 0; k <= corridorScanMax; k++ {
		for _, sign := range [2]float64{1, -1} {
			if k == 0 && sign < 0 {
				continue
			}
			x := preferred + sign*float64(k)*corridorScanStep
			if math.Abs(x) > limit {
				continue
			}
			gap := b.bypassGap(x)
			if gap > bestGap {
				bestX, bestGap = x, gap
			}
			if gap >= corridorClearance {
				return x
			}
		}
	}
	return bestX
}

// bypassGap is the smallest margin between the vertical line at x and
// any settlement disc. Negative when the line cuts a disc.
func (b *builder) bypassGap(x float64) float64 {
	gap := math.Inf(1)
	for _, s := range b.p.Settlements {
		g := math.Abs(s.Position.X-x) - s.Radius
		if g < gap {
			gap = g
		}
	}
	return gap
}

func candidateEdge(extent world.Extent) float64 {
	return math.Max(60, extent.Width*0.05)
}

// connectSettlements links every non-hamlet settlement to the main
// corridor and to its nearest unlinked peer. Cities connect first so
// their highways shape the network.
func (b *builder) connectSettlements() {
	order := make([]int, 0, len(b.p.Settlements))
	for i, s := range b.p.Settlements {
		if s.Size != world.SettlementHamlet {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, c int) bool {
		ra, rc := settlementRank(b.p.Settlements[order[a]].Size), settlementRank(b.p.Settlements[order[c]].Size)
		if ra != rc {
			return ra > rc
		}
		return b.p.Settlements[order[a]].ID < b.p.Settlements[order[c]].ID
	})

	corridor := b.roads[0]
	linked := make(map[[2]int]bool)

	for _, i := range order {
		s := b.p.Settlements[i]
		rt := connectionType(s.Size)

		entry := nearestEntryTo(s, corridor.Polyline().PointAt(0.5))
		target, _ := corridor.Polyline().NearestPoint(entry)
		length := entry.Distance(target)
		switch {
		case length < minLinkLength:
			b.log.Debug().Str("name", s.Name).Msg("settlement already on corridor")
		case length > b.p.Extent.Width*0.9:
			b.log.Debug().Str("name", s.Name).Msg("corridor link unreasonably long, skipped")
		default:
			b.addRoad(rt, b.pb.route(entry, target, rt))
		}

		// Peer link to the nearest settlement not yet joined directly.
		pi, ok := b.nearestPeer(i, linked)
		if !ok {
			continue
		}
		peer := b.p.Settlements[pi]
		pairKey := pairOf(s.ID, peer.ID)
		from := nearestEntryTo(s, peer.Position)
		to := nearestEntryTo(peer, s.Position)
		d := from.Distance(to)
		if d < minLinkLength || d > b.p.Extent.Width*0.75 {
			continue
		}
		peerType := rt
		if settlementRank(peer.Size) < settlementRank(s.Size) {
			peerType = connectionType(peer.Size)
		}
		b.addRoad(peerType, b.pb.route(from, to, peerType))
		linked[pairKey] = true
	}
}

func settlementRank(size world.SettlementSize) int {
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

func connectionType(size world.SettlementSize) world.RoadType {
	if size == world.SettlementVillage {
		return world.RoadTown
	}
	return world.RoadHighway
}

func pairOf(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (b *builder) nearestPeer(i int, linked map[[2]int]bool) (int, bool) {
	s := b.p.Settlements[i]
	best, bestD := -1, math.Inf(1)
	for j, other := range b.p.Settlements {
		if j == i || other.Size == world.SettlementHamlet {
			continue
		}
		if linked[pairOf(s.ID, other.ID)] {
			continue
		}
		if d := s.Position.Distance(other.Position); d < bestD {
			best, bestD = j, d
		}
	}
	return best, best >= 0
}

// nearestEntryTo picks the settlement entry point closest to a target,
// falling back to the settlement center when the layout produced none.
func nearestEntryTo(s world.Settlement, target geo.Point) geo.Point {
	if len(s.EntryPoints) == 0 {
		return s.Position
	}
	best := s.EntryPoints[0]
	bestD := best.Distance(target)
	for _, e := range s.EntryPoints[1:] {
		if d := e.Distance(target); d < bestD {
			best, bestD = e, d
		}
	}
	return best
}

// connectHamlets gives each hamlet a dirt track to the nearest existing
// road.
func (b *builder) connectHamlets() {
	for _, s := range b.p.Settlements {
		if s.Size != world.SettlementHamlet {
			continue
		}
		entry := nearestEntryTo(s, geo.Origin)
		target, _, dist := nearestRoadPoint(b.roads, entry)
		if dist > hamletLinkReach {
			b.log.Debug().Str("name", s.Name).Float64("dist", dist).Msg("hamlet too remote, track skipped")
			b.report.Warnf(validation.StageRoad, "hamlet %s left unconnected", s.Name)
			continue
		}
		b.addRoad(world.RoadDirt, b.pb.route(entry, target, world.RoadDirt))
	}
}

// nearestRoadPoint projects a point onto every road and returns the
// closest hit.
func nearestRoadPoint(roads []world.Road, p geo.Point) (geo.Point, int, float64) {
	best := geo.Origin
	bestIdx := -1
	bestD := math.Inf(1)
	for i, r := range roads {
		hit, d := r.Polyline().NearestPoint(p)
		if d < bestD {
			best, bestIdx, bestD = hit, i, d
		}
	}
	return best, bestIdx, bestD
}

// --- connectivity guarantee ---

// spansNS reports whether the road covers at least 60% of the map
// height; spansEW the same for width.
func spansNS(r world.Road, extent world.Extent) bool {
	return r.Polyline().SpanZ() >= 0.6*extent.Height
}

func spansEW(r world.Road, extent world.Extent) bool {
	return r.Polyline().SpanX() >= 0.6*extent.Width
}

// ensureConnectivity synthesizes extra cross-map routes until the
// guarantees hold: at least 3 north-south spanning roads, 5 spanning
// roads in total, and at least one east-west highway.
func (b *builder) ensureConnectivity() {
	ns, total := 0, 0
	ewHighway := false
	for _, r := range b.roads {
		n, e := spansNS(r, b.p.Extent), spansEW(r, b.p.Extent)
		if n {
			ns++
		}
		if n || e {
			total++
		}
		if e && (r.Type == world.RoadHighway || r.Type == world.RoadInterstate) {
			ewHighway = true
		}
	}

	halfH := b.p.Extent.Height/2 - edgeInset
	halfW := b.p.Extent.Width/2 - edgeInset

	for ns < 3 {
		x := b.findBypassX(b.stream.FloatBetween(-0.35, 0.35) * b.p.Extent.Width)
		top := geo.Pt(x, -halfH)
		bottom := geo.Pt(x+b.stream.FloatBetween(-40, 40), halfH)
		b.addRoad(world.RoadHighway, b.pb.route(top, bottom, world.RoadHighway))
		ns++
		total++
		b.log.Debug().Float64("x", x).Msg("forced north-south highway added")
	}

	if !ewHighway {
		y := b.stream.FloatBetween(-0.3, 0.3) * b.p.Extent.Height
		west := geo.Pt(-halfW, y)
		east := geo.Pt(halfW, y+b.stream.FloatBetween(-40, 40))
		b.addRoad(world.RoadHighway, b.pb.route(west, east, world.RoadHighway))
		total++
		b.log.Debug().Float64("y", y).Msg("forced east-west highway added")
	}

	// First filler is a diagonal curvy highway, the rest are plain town
	// roads at spread heights.
	diagonal := true
	for total < 5 {
		if diagonal {
			a := geo.Pt(-halfW, b.stream.FloatBetween(-halfH, -halfH*0.3))
			c := geo.Pt(halfW, b.stream.FloatBetween(halfH*0.3, halfH))
			b.addRoad(world.RoadHighway, b.pb.route(a, c, world.RoadHighway))
			diagonal = false
		} else {
			y := b.stream.FloatBetween(-0.4, 0.4) * b.p.Extent.Height
			a := geo.Pt(-halfW, y)
			c := geo.Pt(halfW, y+b.stream.FloatBetween(-60, 60))
			b.addRoad(world.RoadTown, b.pb.route(a, c, world.RoadTown))
		}
		total++
	}
}
