// Package terrain places discrete elevation features and synthesizes the
// heightmap from them, then grows forest cover on top of the finished
// hydrology. Placement searches are attempt-bounded and degrade by
// omission; they never fail the run.
package terrain

import (
	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	maxPlaceAttempts = 20
	edgeMargin       = 40.0
	avoidBuffer      = 30.0

	clusterSatelliteMin = 4
	clusterSatelliteMax = 7

	mountainAnchorMin = 5
	mountainAnchorMax = 8
)

// Template bounds the random parameters for one feature kind.
type Template struct {
	Kind          world.FeatureKind
	RadiusMin     float64
	RadiusMax     float64
	ElevationMin  float64
	ElevationMax  float64
	Falloff       float64
	Weight        float64
	SpacingFactor float64
	ScaleWithMap  bool
	Clusters      bool
}

// templates is the fixed kind table. Weights are pre-biome defaults.
var templates = []Template{
	{Kind: world.FeatureHill, RadiusMin: 60, RadiusMax: 140, ElevationMin: 8, ElevationMax: 25, Falloff: 2.0, Weight: 1.0, SpacingFactor: 0.4, ScaleWithMap: true},
	{Kind: world.FeatureRidge, RadiusMin: 50, RadiusMax: 90, ElevationMin: 15, ElevationMax: 35, Falloff: 1.8, Weight: 0.5, SpacingFactor: 0.4, ScaleWithMap: true},
	{Kind: world.FeatureMountain, RadiusMin: 90, RadiusMax: 180, ElevationMin: 40, ElevationMax: 90, Falloff: 2.2, Weight: 0.35, SpacingFactor: 0.5, Clusters: true},
	{Kind: world.FeatureValley, RadiusMin: 70, RadiusMax: 130, ElevationMin: -25, ElevationMax: -10, Falloff: 1.6, Weight: 0.4, SpacingFactor: 0.35, ScaleWithMap: true},
	{Kind: world.FeaturePlateau, RadiusMin: 100, RadiusMax: 200, ElevationMin: 20, ElevationMax: 40, Falloff: 3.0, Weight: 0.3, SpacingFactor: 0.45, Clusters: true},
	{Kind: world.FeaturePlains, RadiusMin: 150, RadiusMax: 300, ElevationMin: 0.5, ElevationMax: 0.85, Falloff: 1.5, Weight: 0.6, SpacingFactor: 0.3, ScaleWithMap: true},
}

// PlacementConfig carries the inputs of the feature placement stage.
type PlacementConfig struct {
	Extent world.Extent
	Biome  biome.Config
	Avoid  []geo.AABB
}

// PlaceFeatures builds the committed feature list for a run. Mountains
// and plateaus grow satellite clusters; the mountains biome scatters its
// own anchor set away from map center first.
func PlaceFeatures(stream *rng.Stream, cfg PlacementConfig, report *validation.Report, log zerolog.Logger) []world.Feature {
	p := &placer{
		stream: stream,
		cfg:    cfg,
		report: report,
		log:    log,
		nextID: 1,
	}

	if cfg.Biome.Name == "mountains" {
		p.placeMountainRange()
	}
	p.placeBudget()

	log.Debug().Int("features", len(p.placed)).Msg("terrain features committed")
	return p.placed
}

type placer struct {
	stream *rng.Stream
	cfg    PlacementConfig
	report *validation.Report
	log    zerolog.Logger
	placed []world.Feature
	nextID int
}

// featureBudget scales the target feature count with the map footprint.
func (p *placer) featureBudget() int {
	switch {
	case p.cfg.Extent.Width <= 1100:
		return 10
	case p.cfg.Extent.Width <= 1800:
		return 16
	default:
		return 24
	}
}

// placeBudget runs the regular weighted placement loop. In the mountains
// biome the mountain kind is zero-weighted here because the range pass
// has already placed its anchors.
func (p *placer) placeBudget() {
	weights := make([]float64, len(templates))
	for i, tpl := range templates {
		weights[i] = tpl.Weight * p.cfg.Biome.FeatureWeight(string(tpl.Kind), 1)
		if p.cfg.Biome.Name == "mountains" && tpl.Kind == world.FeatureMountain {
			weights[i] = 0
		}
	}

	budget := p.featureBudget()
	dropped := 0
	for i := 0; i < budget; i++ {
		tpl := templates[p.stream.Pick(weights)]
		f, ok := p.tryPlace(tpl)
		if !ok {
			dropped++
			continue
		}
		p.commit(f)
		if tpl.Clusters {
			p.placeCluster(f)
		}
	}

	if dropped > 0 {
		p.report.AddWarning(validation.Result{
			Stage:   validation.StageTerrain,
			Message: "features dropped after exhausting placement attempts",
			Count:   dropped,
		})
		p.log.Warn().Int("dropped", dropped).Msg("feature placement degraded")
	}
}

// placeMountainRange scatters independent cluster anchors biased away
// from map center, then a standalone pool without satellites.
func (p *placer) placeMountainRange() {
	tpl := p.template(world.FeatureMountain)
	anchors := p.stream.IntBetween(mountainAnchorMin, mountainAnchorMax)
	maxDist := p.cfg.Extent.Width / 2

	for i := 0; i < anchors; i++ {
		placed := false
		for attempt := 0; attempt < maxPlaceAttempts; attempt++ {
			f := p.roll(tpl)
			// Bias toward the rim: accept proportionally to the
			// normalized distance from center.
			bias := f.Position.Length() / maxDist
			if !p.stream.Chance(bias * bias) {
				continue
			}
			if !p.admissible(f, tpl.SpacingFactor) {
				continue
			}
			p.commit(f)
			p.placeCluster(f)
			placed = true
			break
		}
		if !placed {
			p.report.AddWarning(validation.Result{
				Stage:   validation.StageTerrain,
				Message: "mountain range anchor dropped",
				Count:   1,
			})
		}
	}

	standalone := p.stream.IntBetween(3, 6)
	for i := 0; i < standalone; i++ {
		if f, ok := p.tryPlace(tpl); ok {
			p.commit(f)
		}
	}
}

// placeCluster scatters satellites around an anchor to build a range or
// mesa group. Satellites skip the spacing rule but still honor bounds
// and the avoidance strips.
func (p *placer) placeCluster(anchor world.Feature) {
	count := p.stream.IntBetween(clusterSatelliteMin, clusterSatelliteMax)
	for i := 0; i < count; i++ {
		angle := p.stream.Angle()
		dist := anchor.Radius * p.stream.FloatBetween(0.8, 2.2)
		pos := geo.Polar(anchor.Position, angle, dist)

		sat := anchor
		sat.ID = 0
		sat.Position = pos
		sat.Radius = anchor.Radius * p.stream.FloatBetween(0.35, 0.7)
		sat.Elevation = anchor.Elevation * p.stream.FloatBetween(0.5, 0.9)
		if anchor.Kind == world.FeaturePlateau {
			sat.FlatTopRadius = sat.Radius * p.stream.FloatBetween(0.45, 0.65)
		}
		if anchor.Kind == world.FeatureMountain {
			sat.PeakSharpness = p.stream.FloatBetween(0.2, 0.7)
		}

		if !p.inBounds(pos) || p.inAvoidStrip(pos) {
			continue
		}
		p.commit(sat)
	}
}

// tryPlace rolls random parameters and searches for an admissible spot.
func (p *placer) tryPlace(tpl Template) (world.Feature, bool) {
	for attempt := 0; attempt < maxPlaceAttempts; attempt++ {
		f := p.roll(tpl)
		if p.admissible(f, tpl.SpacingFactor) {
			return f, true
		}
	}
	return world.Feature{}, false
}

// roll draws a candidate feature with randomized parameters. The draw
// order is fixed; changing it changes every map.
func (p *placer) roll(tpl Template) world.Feature {
	half := p.cfg.Extent.Width/2 - edgeMargin
	halfH := p.cfg.Extent.Height/2 - edgeMargin
	pos := geo.Pt(
		p.stream.FloatBetween(-half, half),
		p.stream.FloatBetween(-halfH, halfH),
	)

	radius := p.stream.FloatBetween(tpl.RadiusMin, tpl.RadiusMax)
	if tpl.ScaleWithMap {
		radius *= p.cfg.Extent.Width / 1600
	}
	f := world.Feature{
		Kind:      tpl.Kind,
		Position:  pos,
		Radius:    radius,
		Elevation: p.stream.FloatBetween(tpl.ElevationMin, tpl.ElevationMax),
		Falloff:   tpl.Falloff,
	}

	switch tpl.Kind {
	case world.FeatureRidge, world.FeatureValley:
		f.Angle = p.stream.Angle()
		f.Length = radius * p.stream.FloatBetween(1.5, 3.0)
	case world.FeaturePlateau:
		f.FlatTopRadius = radius * p.stream.FloatBetween(0.45, 0.65)
	case world.FeatureMountain:
		f.PeakSharpness = p.stream.FloatBetween(0.2, 0.7)
	}
	return f
}

func (p *placer) admissible(f world.Feature, spacing float64) bool {
	if !p.inBounds(f.Position) || p.inAvoidStrip(f.Position) {
		return false
	}
	for _, o := range p.placed {
		if f.Position.Distance(o.Position) < spacing*(f.Radius+o.Radius) {
			return false
		}
	}
	return true
}

func (p *placer) inBounds(pos geo.Point) bool {
	return pos.X >= -p.cfg.Extent.Width/2+edgeMargin &&
		pos.X <= p.cfg.Extent.Width/2-edgeMargin &&
		pos.Z >= -p.cfg.Extent.Height/2+edgeMargin &&
		pos.Z <= p.cfg.Extent.Height/2-edgeMargin
}

func (p *placer) inAvoidStrip(pos geo.Point) bool {
	for _, zone := range p.cfg.Avoid {
		if zone.Expand(avoidBuffer).Contains(pos) {
			return true
		}
	}
	return false
}

func (p *placer) commit(f world.Feature) {
	f.ID = p.nextID
	p.nextID++
	p.placed = append(p.placed, f)
}

func (p *placer) template(kind world.FeatureKind) Template {
	for _, tpl := range templates {
		if tpl.Kind == kind {
			return tpl
		}
	}
	return templates[0]
}
