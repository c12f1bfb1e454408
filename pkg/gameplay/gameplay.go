// Package gameplay derives the battle metadata from the finished
// terrain, roads, and settlements: deployment zones, capture zones, and
// entry/resupply points. Every placement search is attempt-bounded and
// degrades to fewer results with a warning, never an error.
package gameplay

import (
	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	stripWidthFrac  = 0.12
	sectionInset    = 6.0
	sectionMinFrac  = 0.10
	sectionMaxFrac  = 0.22
	sectionMinDepth = 30.0
	sectionGap      = 30.0
	sectionAttempts = 12
)

// sectionCountWeights picks how many deployment sections a team gets,
// for counts 1 through 5.
var sectionCountWeights = []float64{0.25, 0.3, 0.25, 0.12, 0.08}

// Params carries the stage inputs.
type Params struct {
	Extent      world.Extent
	Biome       biome.Config
	Settlements []world.Settlement
	Roads       []world.Road
}

// Metadata is the finished gameplay stage output.
type Metadata struct {
	DeploymentZones []world.DeploymentZone
	CaptureZones    []world.CaptureZone
	EntryPoints     []world.EntryPoint
	ResupplyPoints  []world.ResupplyPoint
}

// DeploymentStrips returns the west and east edge bands reserved for
// team deployment. Earlier stages keep terrain features, lakes, and
// settlements out of these bands, so they stay traversable.
func DeploymentStrips(extent world.Extent) [2]geo.AABB {
	w := extent.Width * stripWidthFrac
	halfW, halfH := extent.Width/2, extent.Height/2
	return [2]geo.AABB{
		{Min: geo.Pt(-halfW, -halfH), Max: geo.Pt(-halfW+w, halfH)},
		{Min: geo.Pt(halfW-w, -halfH), Max: geo.Pt(halfW, halfH)},
	}
}

// Generate computes all gameplay metadata for an assembled map.
func Generate(stream *rng.Stream, grid *world.Grid, p Params, report *validation.Report, log zerolog.Logger) Metadata {
	deployments := buildDeploymentZones(stream, p.Extent, report, log)
	captures := buildCaptureZones(stream, grid, p, deployments, report, log)
	entries := findEntryPoints(grid, p)
	resupply := placeResupply(grid, p.Extent, deployments)

	log.Info().
		Int("deployment_zones", len(deployments)).
		Int("capture_zones", len(captures)).
		Int("entry_points", len(entries)).
		Int("resupply_points", len(resupply)).
		Msg("gameplay metadata derived")

	return Metadata{
		DeploymentZones: deployments,
		CaptureZones:    captures,
		EntryPoints:     entries,
		ResupplyPoints:  resupply,
	}
}

// buildDeploymentZones carves 1-5 sections per team out of that team's
// edge strip. Sections are placed with collision-avoiding retries, then
// a slot fallback; a section that fits nowhere is dropped.
func buildDeploymentZones(stream *rng.Stream, extent world.Extent, report *validation.Report, log zerolog.Logger) []world.DeploymentZone {
	strips := DeploymentStrips(extent)
	teams := [2]world.Team{world.TeamWest, world.TeamEast}

	var zones []world.DeploymentZone
	id := 1
	for t, team := range teams {
		strip := strips[t]
		want := 1 + stream.Pick(sectionCountWeights)

		var placed []geo.AABB
		for k := 0; k < want; k++ {
			depth := stream.FloatBetween(sectionMinFrac, sectionMaxFrac) * extent.Height
			box, ok := placeSection(stream, strip, depth, placed)
			if !ok {
				box, ok = slotSection(strip, depth, k, want, placed)
			}
			if !ok {
				report.Warnf(validation.StageGameplay, "deployment section dropped for team %s", team)
				log.Debug().Str("team", string(team)).Msg("no room for deployment section")
				continue
			}
			placed = append(placed, box)
			zones = append(zones, world.DeploymentZone{ID: id, Team: team, Bounds: box})
			id++
		}
	}
	return zones
}

func placeSection(stream *rng.Stream, strip geo.AABB, depth float64, placed []geo.AABB) (geo.AABB, bool) {
	lo := strip.Min.Z + depth/2
	hi := strip.Max.Z - depth/2
	if hi <= lo {
		return geo.AABB{}, false
	}
	for i := 0; i < sectionAttempts; i++ {
		zc := stream.FloatBetween(lo, hi)
		box := sectionBox(strip, zc, depth)
		if !overlapsAny(box.Expand(sectionGap), placed) {
			return box, true
		}
	}
	return geo.AABB{}, false
}

// slotSection divides the strip into one slot per wanted section and
// puts the section in the first free slot from its own index on.
func slotSection(strip geo.AABB, depth float64, k, want int, placed []geo.AABB) (geo.AABB, bool) {
	slotDepth := (strip.Max.Z - strip.Min.Z) / float64(want)
	if depth > slotDepth-sectionGap {
		depth = slotDepth - sectionGap
	}
	if depth < sectionMinDepth {
		depth = sectionMinDepth
	}
	for j := 0; j < want; j++ {
		slot := (k + j) % want
		zc := strip.Min.Z + (float64(slot)+0.5)*slotDepth
		box := sectionBox(strip, zc, depth)
		if !overlapsAny(box.Expand(sectionGap), placed) {
			return box, true
		}
	}
	return geo.AABB{}, false
}

func sectionBox(strip geo.AABB, zc, depth float64) geo.AABB {
	return geo.AABB{
		Min: geo.Pt(strip.Min.X+sectionInset, zc-depth/2),
		Max: geo.Pt(strip.Max.X-sectionInset, zc+depth/2),
	}
}

func overlapsAny(box geo.AABB, others []geo.AABB) bool {
	for _, o := range others {
		if box.Intersects(o) {
			return true
		}
	}
	return false
}
