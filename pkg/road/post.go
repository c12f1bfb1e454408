package road

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	minRoadLength     = 15.0
	parallelSamples   = 12
	parallelFraction  = 0.6
	parallelDirLimit  = 0.45 // radians
	overshootFraction = 0.2
	intersectionSnap  = 0.5
	endpointArmDist   = 6.0
)

// removeShortRoads drops sub-15m fragments left over from routing.
func removeShortRoads(roads []world.Road, report *validation.Report, log zerolog.Logger) []world.Road {
	kept := roads[:0]
	dropped := 0
	for _, r := range roads {
		if r.Length() < minRoadLength {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageRoad,
			Message: "short road fragments removed",
			Count:   dropped,
		})
		log.Debug().Int("removed", dropped).Msg("short roads pruned")
	}
	return kept
}

// dedupeParallel removes roads that shadow another road: most of the
// shorter road's sampled points lie within the combined half-widths of
// the longer one and the local directions agree. The higher-priority
// type survives; on a tie the longer road does.
func dedupeParallel(roads []world.Road, report *validation.Report, log zerolog.Logger) []world.Road {
	dead := make([]bool, len(roads))
	for i := 0; i < len(roads); i++ {
		if dead[i] {
			continue
		}
		for j := i + 1; j < len(roads); j++ {
			if dead[j] {
				continue
			}
			if !roadsShadow(roads[i], roads[j]) {
				continue
			}
			loser := pickLoser(roads[i], roads[j])
			if loser == 0 {
				dead[i] = true
				break
			}
			dead[j] = true
		}
	}

	kept := roads[:0]
	removed := 0
	for i, r := range roads {
		if dead[i] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed > 0 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageRoad,
			Message: "duplicate parallel roads removed",
			Count:   removed,
		})
		log.Debug().Int("removed", removed).Msg("parallel duplicates pruned")
	}
	return kept
}

// roadsShadow samples the shorter road against the longer one.
func roadsShadow(a, b world.Road) bool {
	short, long := a, b
	if a.Length() > b.Length() {
		short, long = b, a
	}
	shortLine := short.Polyline()
	longLine := long.Polyline()
	closeDist := (a.Width+b.Width)/2 + 4

	hits := 0
	for i := 0; i < parallelSamples; i++ {
		t := (float64(i) + 0.5) / parallelSamples
		p := shortLine.PointAt(t)
		hit, d := longLine.NearestPoint(p)
		if d > closeDist {
			continue
		}
		// Local direction comparison keeps genuine crossings out.
		sd := shortLine.PointAt(math.Min(t+0.05, 1)).Sub(p)
		_, li, _ := longLine.NearestPointIndex(hit)
		ld := longLine.DirectionAt(li)
		if sd.Length() < 1e-9 {
			hits++
			continue
		}
		angle := math.Acos(geo.Clamp(math.Abs(sd.Normalize().Dot(ld)), 0, 1))
		if angle < parallelDirLimit {
			hits++
		}
	}
	return float64(hits)/parallelSamples > parallelFraction
}

// pickLoser returns 0 when the first road should be removed, 1 for the
// second.
func pickLoser(a, b world.Road) int {
	if a.Type.Priority() != b.Type.Priority() {
		if a.Type.Priority() < b.Type.Priority() {
			return 0
		}
		return 1
	}
	if a.Length() < b.Length() {
		return 0
	}
	return 1
}

// trimOvershoots truncates a road's tail or head where it crosses a
// higher-or-equal priority road near its end, so connectors stop at the
// junction instead of poking past it.
func trimOvershoots(roads []world.Road) []world.Road {
	for i := range roads {
		for j := range roads {
			if i == j || roads[j].Type.Priority() < roads[i].Type.Priority() {
				continue
			}
			trimRoadAt(&roads[i], roads[j])
		}
	}
	return roads
}

// trimRoadAt cuts road r where it crosses other, when the crossing sits
// inside the head or tail fraction of r.
func trimRoadAt(r *world.Road, other world.Road) {
	total := r.Length()
	if total < 1 {
		return
	}
	crossings := crossingParams(*r, other)
	if len(crossings) == 0 {
		return
	}

	first := crossings[0]
	last := crossings[len(crossings)-1]

	if last.along > total*(1-overshootFraction) && last.along < total {
		truncateAfter(r, last)
	}
	if first.along < total*overshootFraction && first.along > 0 {
		truncateBefore(r, first)
	}
}

// crossing is one geometric intersection between two roads, positioned
// by arc length along the first road.
type crossing struct {
	point   geo.Point
	along   float64
	segment int
}

// crossingParams lists crossings of r with other, ordered by arc length
// along r.
func crossingParams(r, other world.Road) []crossing {
	var out []crossing
	walked := 0.0
	for i := 1; i < len(r.Points); i++ {
		a1, a2 := r.Points[i-1], r.Points[i]
		segLen := a1.Distance(a2)
		for k := 1; k < len(other.Points); k++ {
			if pt, ok := geo.SegmentIntersection(a1, a2, other.Points[k-1], other.Points[k]); ok {
				out = append(out, crossing{
					point:   pt,
					along:   walked + a1.Distance(pt),
					segment: i - 1,
				})
			}
		}
		walked += segLen
	}
	return out
}

func truncateAfter(r *world.Road, c crossing) {
	pts := append([]geo.Point{}, r.Points[:c.segment+1]...)
	pts = append(pts, c.point)
	if len(pts) >= 2 {
		r.Points = pts
	}
}

func truncateBefore(r *world.Road, c crossing) {
	pts := []geo.Point{c.point}
	pts = append(pts, r.Points[c.segment+1:]...)
	if len(pts) >= 2 {
		r.Points = pts
	}
}

// FindIntersections detects every pairwise road crossing plus
// endpoint-on-segment joins, dedupes them on a half-meter grid, and
// classifies each junction from its arm directions.
func FindIntersections(roads []world.Road) []world.Intersection {
	type acc struct {
		position geo.Point
		roadIDs  []int
		index    int
	}
	var order []*acc
	seen := make(map[[2]int64]*acc)

	record := func(p geo.Point, idA, idB int) {
		key := [2]int64{int64(math.Round(p.X / intersectionSnap)), int64(math.Round(p.Z / intersectionSnap))}
		a, ok := seen[key]
		if !ok {
			a = &acc{position: p, index: len(order)}
			seen[key] = a
			order = append(order, a)
		}
		a.roadIDs = addID(a.roadIDs, idA)
		a.roadIDs = addID(a.roadIDs, idB)
	}

	for i := 0; i < len(roads); i++ {
		for j := i + 1; j < len(roads); j++ {
			for _, c := range crossingParams(roads[i], roads[j]) {
				record(c.point, roads[i].ID, roads[j].ID)
			}
			// Endpoint joins that do not geometrically cross.
			recordEndpointJoin(record, roads[i], roads[j])
			recordEndpointJoin(record, roads[j], roads[i])
		}
	}

	out := make([]world.Intersection, 0, len(order))
	for n, a := range order {
		out = append(out, world.Intersection{
			ID:       n + 1,
			Position: a.position,
			RoadIDs:  a.roadIDs,
			Kind:     classifyIntersection(a.position, a.roadIDs, roads),
		})
	}
	return out
}

func addID(ids []int, id int) []int {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// recordEndpointJoin registers the meeting point when an endpoint of a
// lands on b without the polylines formally crossing.
func recordEndpointJoin(record func(geo.Point, int, int), a, b world.Road) {
	for _, end := range [2]geo.Point{a.Points[0], a.Points[len(a.Points)-1]} {
		hit, d := b.Polyline().NearestPoint(end)
		if d <= (a.Width+b.Width)/2 {
			record(hit, a.ID, b.ID)
		}
	}
}

// classifyIntersection counts road arms at the junction: an endpoint
// within reach contributes one arm, a through road two. Three arms make
// a T or Y depending on whether two of them line up; four or more make
// a cross; two arms are a merge.
func classifyIntersection(p geo.Point, roadIDs []int, roads []world.Road) world.IntersectionKind {
	var arms []geo.Point
	for _, id := range roadIDs {
		r := findRoad(roads, id)
		if r == nil {
			continue
		}
		arms = append(arms, roadArms(*r, p)...)
	}

	switch {
	case len(arms) >= 4:
		return world.IntersectionCross
	case len(arms) == 3:
		if hasOpposedPair(arms) {
			return world.IntersectionT
		}
		return world.IntersectionY
	default:
		return world.IntersectionMerge
	}
}

func findRoad(roads []world.Road, id int) *world.Road {
	for i := range roads {
		if roads[i].ID == id {
			return &roads[i]
		}
	}
	return nil
}

// roadArms returns the unit directions leaving the junction along a
// road: one arm if the junction sits at the road's end, two if the road
// runs through it.
func roadArms(r world.Road, p geo.Point) []geo.Point {
	line := r.Polyline()
	_, idx, _ := line.NearestPointIndex(p)
	dir := line.DirectionAt(idx)

	start := r.Points[0]
	end := r.Points[len(r.Points)-1]
	if start.Distance(p) <= endpointArmDist {
		return []geo.Point{dir}
	}
	if end.Distance(p) <= endpointArmDist {
		return []geo.Point{dir.Scale(-1)}
	}
	return []geo.Point{dir, dir.Scale(-1)}
}

// hasOpposedPair reports whether two arms point in nearly opposite
// directions, which marks the through-road of a T junction.
func hasOpposedPair(arms []geo.Point) bool {
	for i := 0; i < len(arms); i++ {
		for j := i + 1; j < len(arms); j++ {
			if arms[i].Dot(arms[j]) < -0.7 {
				return true
			}
		}
	}
	return false
}
