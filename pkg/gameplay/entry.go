package gameplay

import (
	"math"
	"sort"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	entryEdgeBand  = 40.0
	entryEdgeInset = 10.0
	entryScanStep  = 80.0
	entrySpacing   = 180.0
	probeDepth     = 60.0
	maxEntryPoints = 8
	resupplyInset  = 80.0
	resupplyNudge  = 30.0
)

type entryCandidate struct {
	pos   geo.Point
	kind  string
	score float64
}

// findEntryPoints builds the scored approach list: major roads first,
// then forest-gap paths along the edges, then open-field fallbacks.
// Candidates are kept best-first subject to a minimum spacing.
func findEntryPoints(grid *world.Grid, p Params) []world.EntryPoint {
	cands := roadEntries(p)
	cands = append(cands, pathEntries(grid, p.Extent)...)
	cands = append(cands, fieldEntries(p.Extent)...)

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].pos.X != cands[j].pos.X {
			return cands[i].pos.X < cands[j].pos.X
		}
		return cands[i].pos.Z < cands[j].pos.Z
	})

	var points []world.EntryPoint
	for _, c := range cands {
		if len(points) >= maxEntryPoints {
			break
		}
		tooClose := false
		for _, e := range points {
			if e.Position.Distance(c.pos) < entrySpacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		points = append(points, world.EntryPoint{
			ID:       len(points) + 1,
			Position: c.pos,
			Kind:     c.kind,
			Score:    c.score,
		})
	}
	return points
}

// roadEntries scores road endpoints that reach the map edge.
func roadEntries(p Params) []entryCandidate {
	var cands []entryCandidate
	for _, r := range p.Roads {
		score := roadScore(r.Type)
		if score == 0 || len(r.Points) == 0 {
			continue
		}
		for _, end := range [2]geo.Point{r.Points[0], r.Points[len(r.Points)-1]} {
			if nearEdge(end, p.Extent) {
				cands = append(cands, entryCandidate{pos: end, kind: "road", score: score})
			}
		}
	}
	return cands
}

func roadScore(rt world.RoadType) float64 {
	switch rt {
	case world.RoadInterstate:
		return 1.0
	case world.RoadHighway:
		return 0.9
	case world.RoadTown:
		return 0.7
	}
	return 0
}

func nearEdge(p geo.Point, extent world.Extent) bool {
	return math.Abs(p.X) >= extent.Width/2-entryEdgeBand ||
		math.Abs(p.Z) >= extent.Height/2-entryEdgeBand
}

// pathEntries scans the four edges for gaps in forest and water where
// infantry could slip in off-road.
func pathEntries(grid *world.Grid, extent world.Extent) []entryCandidate {
	halfW, halfH := extent.Width/2, extent.Height/2
	var cands []entryCandidate

	edges := []struct {
		start  geo.Point
		along  geo.Point
		inward geo.Point
		span   float64
	}{
		{geo.Pt(-halfW+entryEdgeInset, -halfH), geo.Pt(0, 1), geo.Pt(1, 0), extent.Height},
		{geo.Pt(halfW-entryEdgeInset, -halfH), geo.Pt(0, 1), geo.Pt(-1, 0), extent.Height},
		{geo.Pt(-halfW, -halfH+entryEdgeInset), geo.Pt(1, 0), geo.Pt(0, 1), extent.Width},
		{geo.Pt(-halfW, halfH-entryEdgeInset), geo.Pt(1, 0), geo.Pt(0, -1), extent.Width},
	}
	for _, e := range edges {
		for s := entryScanStep / 2; s < e.span; s += entryScanStep {
			pos := e.start.Add(e.along.Scale(s))
			if clearApproach(grid, pos, e.inward) {
				cands = append(cands, entryCandidate{pos: pos, kind: "path", score: 0.6})
			}
		}
	}
	return cands
}

func clearApproach(grid *world.Grid, pos, inward geo.Point) bool {
	for k := 1; k <= 4; k++ {
		s := pos.Add(inward.Scale(probeDepth * float64(k) / 4))
		cell := grid.AtWorld(s.X, s.Z)
		if cell == nil {
			return false
		}
		if cell.Type == world.CellForest || cell.Type.IsWater() {
			return false
		}
	}
	return true
}

// fieldEntries are the guaranteed fallbacks: one per edge midpoint.
func fieldEntries(extent world.Extent) []entryCandidate {
	halfW, halfH := extent.Width/2, extent.Height/2
	mids := []geo.Point{
		geo.Pt(-halfW+entryEdgeInset, 0),
		geo.Pt(halfW-entryEdgeInset, 0),
		geo.Pt(0, -halfH+entryEdgeInset),
		geo.Pt(0, halfH-entryEdgeInset),
	}
	cands := make([]entryCandidate, 0, len(mids))
	for _, m := range mids {
		cands = append(cands, entryCandidate{pos: m, kind: "field", score: 0.3})
	}
	return cands
}

// placeResupply puts one or two points per team just inside the map
// from that team's deployment sections, nudged off water.
func placeResupply(grid *world.Grid, extent world.Extent, deployments []world.DeploymentZone) []world.ResupplyPoint {
	var pts []world.ResupplyPoint
	id := 1
	for _, team := range [2]world.Team{world.TeamWest, world.TeamEast} {
		var sections []geo.AABB
		for _, d := range deployments {
			if d.Team == team {
				sections = append(sections, d.Bounds)
			}
		}
		if len(sections) == 0 {
			continue
		}
		sort.Slice(sections, func(i, j int) bool {
			return sections[i].Center().Z < sections[j].Center().Z
		})

		chosen := []geo.AABB{sections[0]}
		if len(sections) > 1 {
			chosen = append(chosen, sections[len(sections)-1])
		}
		inward := 1.0
		if team == world.TeamEast {
			inward = -1
		}
		for _, box := range chosen {
			pos := box.Center().Add(geo.Pt(inward*resupplyInset, 0))
			for n := 0; n < 3 && grid.WaterAt(pos.X, pos.Z); n++ {
				pos = pos.Add(geo.Pt(inward*resupplyNudge, 0))
			}
			pts = append(pts, world.ResupplyPoint{ID: id, Team: team, Position: pos})
			id++
		}
	}
	return pts
}
