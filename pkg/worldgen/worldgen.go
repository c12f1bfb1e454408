// Package worldgen runs the generation pipeline end to end: terrain
// features, elevation, hydrology, forest, settlements, roads with
// bridges and grading, and the gameplay metadata, assembled into one
// immutable map snapshot.
//
// A run owns all of its state. Two concurrent runs share nothing, and
// the RNG draw order across stages is fixed: the same seed, size class,
// and biome always produce the same map.
package worldgen

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/gameplay"
	"github.com/graywick/mapforge/pkg/hydrology"
	"github.com/graywick/mapforge/pkg/noise"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/road"
	"github.com/graywick/mapforge/pkg/settlement"
	"github.com/graywick/mapforge/pkg/terrain"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

// Params selects one generation run.
type Params struct {
	Seed   int64
	Size   world.SizeClass
	Biome  string // empty picks a biome from the seed
	Logger zerolog.Logger
}

// Generate runs the full pipeline and returns the finished map with its
// generation report. Degraded placement searches downgrade to report
// warnings; the only errors are bad inputs caught before any stage runs.
func Generate(p Params) (*world.Map, *validation.Report, error) {
	extent, err := world.ExtentOf(p.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving size class: %w", err)
	}
	cfg, err := resolveBiome(p)
	if err != nil {
		return nil, nil, err
	}
	grid, err := world.NewGrid(extent.Width, extent.Height, extent.CellSize)
	if err != nil {
		return nil, nil, fmt.Errorf("allocating terrain grid: %w", err)
	}

	log := p.Logger.With().
		Int64("seed", p.Seed).
		Str("size", string(p.Size)).
		Str("biome", cfg.Name).
		Logger()
	stream := rng.New(p.Seed)
	field := noise.NewField(p.Seed)
	report := validation.NewReport()

	strips := gameplay.DeploymentStrips(extent)
	avoid := strips[:]

	start := time.Now()
	log.Info().Msg("generation started")

	features := terrain.PlaceFeatures(stream, terrain.PlacementConfig{
		Extent: extent,
		Biome:  cfg,
		Avoid:  avoid,
	}, report, log)
	terrain.SynthesizeElevation(grid, features, field)

	water := hydrology.Run(stream, grid, hydrology.Params{
		Extent: extent,
		Avoid:  avoid,
	}, report, log)

	terrain.GrowForest(stream, grid, cfg, avoid, log)

	settlements := settlement.Generate(stream, grid, settlement.Params{
		Extent: extent,
		Biome:  cfg,
		Avoid:  avoid,
	}, report, log)

	net := road.Build(stream, grid, road.Params{
		Extent:      extent,
		Settlements: settlements,
		Water:       water,
	}, report, log)

	// Grading cuts ground next to rivers. Smooth the banks once more so
	// road cuts do not leave steps at the waterline.
	hydrology.SmoothBanks(grid)

	settlement.FilterBuildings(settlements, grid, net.Roads, report, log)

	md := gameplay.Generate(stream, grid, gameplay.Params{
		Extent:      extent,
		Biome:       cfg,
		Settlements: settlements,
		Roads:       net.Roads,
	}, report, log)

	m := assemble(p, extent, cfg, grid, water, settlements, net, md)

	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("settlements", len(m.Settlements)).
		Int("roads", len(m.Roads)).
		Int("buildings", len(m.Buildings)).
		Int("bridges", len(m.Bridges)).
		Str("report", report.Summary).
		Msg("generation finished")

	return m, report, nil
}

func resolveBiome(p Params) (biome.Config, error) {
	if p.Biome == "" {
		return biome.ForSeed(p.Seed), nil
	}
	cfg, ok := biome.Get(p.Biome)
	if !ok {
		return biome.Config{}, fmt.Errorf("unknown biome %q", p.Biome)
	}
	return cfg, nil
}
