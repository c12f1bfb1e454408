package gameplay

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

func flatGrid(t *testing.T, size float64) *world.Grid {
	t.Helper()
	grid, err := world.NewGrid(size, size, 4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			grid.At(col, row).Elevation = 5
		}
	}
	return grid
}

func testExtent() world.Extent {
	return world.Extent{Width: 1600, Height: 1600, CellSize: 4}
}

// --- deployment tests ---

func TestDeploymentStripsGeometry(t *testing.T) {
	strips := DeploymentStrips(testExtent())

	west, east := strips[0], strips[1]
	if west.Min.X != -800 || west.Max.X != -800+0.12*1600 {
		t.Errorf("west strip spans x %v..%v", west.Min.X, west.Max.X)
	}
	if east.Max.X != 800 {
		t.Errorf("east strip ends at x %v, want the map edge", east.Max.X)
	}
	if west.Min.Z != -800 || west.Max.Z != 800 {
		t.Error("strips should run the full map height")
	}
}

func TestDeploymentZonesWithinStrips(t *testing.T) {
	extent := testExtent()
	strips := DeploymentStrips(extent)

	for seed := int64(1); seed <= 5; seed++ {
		zones := buildDeploymentZones(rng.New(seed), extent, validation.NewReport(), zerolog.Nop())

		counts := map[world.Team]int{}
		for _, z := range zones {
			counts[z.Team]++
			strip := strips[0]
			if z.Team == world.TeamEast {
				strip = strips[1]
			}
			b := z.Bounds
			if b.Min.X < strip.Min.X || b.Max.X > strip.Max.X ||
				b.Min.Z < strip.Min.Z || b.Max.Z > strip.Max.Z {
				t.Errorf("seed %d: zone %d leaves its strip: %+v", seed, z.ID, b)
			}
		}
		for _, team := range [2]world.Team{world.TeamWest, world.TeamEast} {
			if n := counts[team]; n < 1 || n > 5 {
				t.Errorf("seed %d: team %s has %d sections, want 1..5", seed, team, n)
			}
		}
	}
}

func TestDeploymentZonesDisjoint(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		zones := buildDeploymentZones(rng.New(seed), testExtent(), validation.NewReport(), zerolog.Nop())
		for i := range zones {
			for j := i + 1; j < len(zones); j++ {
				if zones[i].Team != zones[j].Team {
					continue
				}
				if zones[i].Bounds.Intersects(zones[j].Bounds) {
					t.Errorf("seed %d: sections %d and %d overlap", seed, zones[i].ID, zones[j].ID)
				}
			}
		}
	}
}

func TestDeploymentZonesDeterministic(t *testing.T) {
	a := buildDeploymentZones(rng.New(77), testExtent(), validation.NewReport(), zerolog.Nop())
	b := buildDeploymentZones(rng.New(77), testExtent(), validation.NewReport(), zerolog.Nop())

	if len(a) != len(b) {
		t.Fatalf("zone counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("zone %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// --- capture zone tests ---

func TestCentralZoneSeeksHighGround(t *testing.T) {
	grid := flatGrid(t, 1600)
	// Gentle eastward rise; the search should favor the east side.
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			p := grid.CellCenter(col, row)
			grid.At(col, row).Elevation = 5 + 0.01*(p.X+800)
		}
	}
	p := Params{Extent: testExtent(), Biome: biome.ForSeed(1)}
	z, ok := centralZone(rng.New(3), grid, p)

	if !ok {
		t.Fatal("no central zone on suitable terrain")
	}
	if z.Position.X < -50 {
		t.Errorf("central zone at x=%0.1f despite higher ground east", z.Position.X)
	}
	if z.Radius < 65 || z.Radius > 85 {
		t.Errorf("central radius = %0.1f, want 65..85", z.Radius)
	}
	if z.Value != 1 {
		t.Errorf("central value = %d, want the low value 1", z.Value)
	}
	if z.Objective.Distance(z.Position) > z.Radius {
		t.Errorf("objective %v outside its zone", z.Objective)
	}
}

func TestCaptureZonesDisjointAndBounded(t *testing.T) {
	p := Params{Extent: testExtent(), Biome: biome.ForSeed(1)}
	for _, seed := range []int64{2, 9, 41} {
		grid := flatGrid(t, 1600)
		zones := buildCaptureZones(rng.New(seed), grid, p, nil, validation.NewReport(), zerolog.Nop())

		if len(zones) < 2 {
			t.Fatalf("seed %d: only %d zones on ideal terrain", seed, len(zones))
		}
		for i := range zones {
			zi := zones[i]
			if zi.Position.X-zi.Radius < -800 || zi.Position.X+zi.Radius > 800 ||
				zi.Position.Z-zi.Radius < -800 || zi.Position.Z+zi.Radius > 800 {
				t.Errorf("seed %d: zone %d leaves the map", seed, zi.ID)
			}
			for j := i + 1; j < len(zones); j++ {
				if zoneBox(zi.Position, zi.Radius).Intersects(zoneBox(zones[j].Position, zones[j].Radius)) {
					t.Errorf("seed %d: zones %d and %d overlap", seed, zi.ID, zones[j].ID)
				}
			}
		}
	}
}

func TestCaptureZonesDegradeOnWater(t *testing.T) {
	grid := flatGrid(t, 1600)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			grid.At(col, row).Type = world.CellWater
		}
	}
	report := validation.NewReport()
	p := Params{Extent: testExtent(), Biome: biome.ForSeed(1)}
	zones := buildCaptureZones(rng.New(5), grid, p, nil, report, zerolog.Nop())

	if len(zones) != 0 {
		t.Fatalf("placed %d zones on open water", len(zones))
	}
	if len(report.Warnings) < 4 {
		t.Errorf("warnings = %d, want the central miss plus every ring reported", len(report.Warnings))
	}
}

func TestFlatFootprint(t *testing.T) {
	grid := flatGrid(t, 400)
	if !flatFootprint(grid, geo.Origin) {
		t.Error("flat ground rejected")
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if (row+col)%2 == 0 {
				grid.At(col, row).Elevation = 15
			}
		}
	}
	if flatFootprint(grid, geo.Origin) {
		t.Error("checkerboard terrain accepted as flat")
	}
}

func TestLinkZone(t *testing.T) {
	settlements := []world.Settlement{
		{ID: 4, Name: "Ashford", Position: geo.Pt(100, 0), Radius: 180},
	}

	near := world.CaptureZone{ID: 1, Position: geo.Pt(300, 0), ObjectiveType: "crossroads"}
	linkZone(&near, settlements)
	if near.SettlementID != 4 || near.Name != "Ashford" {
		t.Errorf("near zone link = %q/%d, want Ashford/4", near.Name, near.SettlementID)
	}

	far := world.CaptureZone{ID: 2, Position: geo.Pt(700, 700), ObjectiveType: "overlook"}
	linkZone(&far, settlements)
	if far.SettlementID != 0 {
		t.Errorf("far zone linked to settlement %d", far.SettlementID)
	}
	if far.Name != "overlook 2" {
		t.Errorf("far zone name = %q, want its objective type", far.Name)
	}
}

func TestRollObjectiveType(t *testing.T) {
	stream := rng.New(1)
	pool := biome.Config{Objectives: []string{"alpha", "beta"}}
	for i := 0; i < 10; i++ {
		got := rollObjectiveType(stream, pool)
		if got != "alpha" && got != "beta" {
			t.Fatalf("objective %q not from the biome pool", got)
		}
	}

	got := rollObjectiveType(stream, biome.Config{})
	ok := false
	for _, d := range defaultObjectives {
		if got == d {
			ok = true
		}
	}
	if !ok {
		t.Errorf("fallback objective %q not in the default pool", got)
	}
}

// --- entry and resupply tests ---

func TestRoadEntriesScoreHierarchy(t *testing.T) {
	p := Params{
		Extent: testExtent(),
		Roads: []world.Road{
			{ID: 1, Type: world.RoadInterstate, Points: []geo.Point{geo.Pt(0, -795), geo.Pt(0, 795)}},
			{ID: 2, Type: world.RoadDirt, Points: []geo.Point{geo.Pt(-795, 100), geo.Pt(795, 100)}},
		},
	}
	cands := roadEntries(p)

	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want both interstate ends and no dirt tracks", len(cands))
	}
	for _, c := range cands {
		if c.score != 1.0 || c.kind != "road" {
			t.Errorf("candidate %+v, want a full-score road entry", c)
		}
	}
}

func TestFindEntryPointsSpacingAndOrder(t *testing.T) {
	grid := flatGrid(t, 1600)
	p := Params{
		Extent: testExtent(),
		Roads: []world.Road{
			{ID: 1, Type: world.RoadInterstate, Points: []geo.Point{geo.Pt(0, -795), geo.Pt(0, 795)}},
			{ID: 2, Type: world.RoadHighway, Points: []geo.Point{geo.Pt(-795, 200), geo.Pt(795, 240)}},
		},
	}
	points := findEntryPoints(grid, p)

	if len(points) == 0 || len(points) > maxEntryPoints {
		t.Fatalf("points = %d, want 1..%d", len(points), maxEntryPoints)
	}
	for i := range points {
		if i > 0 && points[i].Score > points[i-1].Score {
			t.Error("entry points not in score order")
		}
		for j := i + 1; j < len(points); j++ {
			if points[i].Position.Distance(points[j].Position) < entrySpacing {
				t.Errorf("points %d and %d closer than the spacing limit", points[i].ID, points[j].ID)
			}
		}
	}
	if points[0].Kind != "road" || points[0].Score != 1.0 {
		t.Errorf("best point = %+v, want the interstate end", points[0])
	}
}

func TestEntryPointsFindForestGap(t *testing.T) {
	grid := flatGrid(t, 1600)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			p := grid.CellCenter(col, row)
			inGap := p.X <= -700 && p.Z >= -62 && p.Z <= 62
			if !inGap {
				grid.At(col, row).Type = world.CellForest
			}
		}
	}
	points := findEntryPoints(grid, Params{Extent: testExtent()})

	found := false
	for _, e := range points {
		if e.Kind == "path" && e.Position.X < -700 {
			found = true
		}
	}
	if !found {
		t.Error("no path entry through the west forest gap")
	}
}

func TestEntryPointsFallBackToFields(t *testing.T) {
	grid := flatGrid(t, 1600)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			grid.At(col, row).Type = world.CellForest
		}
	}
	points := findEntryPoints(grid, Params{Extent: testExtent()})

	if len(points) == 0 {
		t.Fatal("no entry points at all on a forested map")
	}
	for _, e := range points {
		if e.Kind != "field" {
			t.Errorf("point %d kind = %q, want only field fallbacks", e.ID, e.Kind)
		}
	}
}

func TestPlaceResupply(t *testing.T) {
	grid := flatGrid(t, 1600)
	// A wet band east of the west sections forces the nudge.
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			p := grid.CellCenter(col, row)
			if p.X >= -640 && p.X <= -616 {
				grid.At(col, row).Type = world.CellWater
			}
		}
	}
	deployments := []world.DeploymentZone{
		{ID: 1, Team: world.TeamWest, Bounds: geo.AABB{Min: geo.Pt(-780, -400), Max: geo.Pt(-640, -100)}},
		{ID: 2, Team: world.TeamWest, Bounds: geo.AABB{Min: geo.Pt(-780, 100), Max: geo.Pt(-640, 300)}},
		{ID: 3, Team: world.TeamEast, Bounds: geo.AABB{Min: geo.Pt(640, -200), Max: geo.Pt(780, 200)}},
	}
	pts := placeResupply(grid, testExtent(), deployments)

	if len(pts) != 3 {
		t.Fatalf("points = %d, want 2 west + 1 east", len(pts))
	}
	for _, pt := range pts {
		if pt.Team == world.TeamWest && pt.Position.X >= 0 {
			t.Errorf("west point at x=%0.1f", pt.Position.X)
		}
		if pt.Team == world.TeamEast && pt.Position.X <= 0 {
			t.Errorf("east point at x=%0.1f", pt.Position.X)
		}
		if grid.WaterAt(pt.Position.X, pt.Position.Z) {
			t.Errorf("point %d sits in water at %v", pt.ID, pt.Position)
		}
	}
}

// --- stage tests ---

func stageParams() Params {
	return Params{
		Extent: testExtent(),
		Biome:  biome.ForSeed(1),
		Settlements: []world.Settlement{
			{ID: 1, Name: "Thornbury", Position: geo.Pt(300, -200), Radius: 180},
		},
		Roads: []world.Road{
			{ID: 1, Type: world.RoadInterstate, Points: []geo.Point{geo.Pt(-120, -795), geo.Pt(-120, 795)}},
		},
	}
}

func TestGenerateProducesMetadata(t *testing.T) {
	grid := flatGrid(t, 1600)
	md := Generate(rng.New(11), grid, stageParams(), validation.NewReport(), zerolog.Nop())

	if len(md.DeploymentZones) < 2 {
		t.Errorf("deployment zones = %d, want at least one per team", len(md.DeploymentZones))
	}
	if len(md.CaptureZones) == 0 {
		t.Error("no capture zones")
	}
	if len(md.EntryPoints) == 0 {
		t.Error("no entry points")
	}
	if len(md.ResupplyPoints) == 0 {
		t.Error("no resupply points")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	grid := flatGrid(t, 1600)
	a := Generate(rng.New(99), grid, stageParams(), validation.NewReport(), zerolog.Nop())
	b := Generate(rng.New(99), grid, stageParams(), validation.NewReport(), zerolog.Nop())

	if len(a.DeploymentZones) != len(b.DeploymentZones) ||
		len(a.CaptureZones) != len(b.CaptureZones) ||
		len(a.EntryPoints) != len(b.EntryPoints) ||
		len(a.ResupplyPoints) != len(b.ResupplyPoints) {
		t.Fatal("metadata counts differ between identical runs")
	}
	for i := range a.CaptureZones {
		if a.CaptureZones[i] != b.CaptureZones[i] {
			t.Fatalf("capture zone %d differs", i)
		}
	}
	for i := range a.EntryPoints {
		if a.EntryPoints[i] != b.EntryPoints[i] {
			t.Fatalf("entry point %d differs", i)
		}
	}
}
