package worldgen

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

func generate(t *testing.T, seed int64, size world.SizeClass, biomeName string) (*world.Map, *validation.Report) {
	t.Helper()
	m, report, err := Generate(Params{Seed: seed, Size: size, Biome: biomeName, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m, report
}

func TestGenerateRejectsBadInputs(t *testing.T) {
	if _, _, err := Generate(Params{Seed: 1, Size: "huge", Logger: zerolog.Nop()}); err == nil {
		t.Error("unknown size class accepted")
	}
	if _, _, err := Generate(Params{Seed: 1, Size: world.SizeSmall, Biome: "desert", Logger: zerolog.Nop()}); err == nil {
		t.Error("unknown biome accepted")
	}
}

func TestResolveBiomeFromSeed(t *testing.T) {
	a, err := resolveBiome(Params{Seed: 9})
	if err != nil {
		t.Fatalf("resolveBiome: %v", err)
	}
	b, _ := resolveBiome(Params{Seed: 9})
	if a.Name == "" || a.Name != b.Name {
		t.Errorf("seed biome pick unstable: %q vs %q", a.Name, b.Name)
	}

	named, err := resolveBiome(Params{Seed: 9, Biome: "wetlands"})
	if err != nil || named.Name != "wetlands" {
		t.Errorf("named biome = %q, %v", named.Name, err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := generate(t, 42, world.SizeSmall, "grassland")
	b, _ := generate(t, 42, world.SizeSmall, "grassland")

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(aj, bj) {
		t.Fatal("identical runs produced different maps")
	}
}

func TestGenerateSmallScenario(t *testing.T) {
	m, report := generate(t, 42, world.SizeSmall, "grassland")

	if len(report.Errors) != 0 {
		t.Errorf("generation reported %d errors: %+v", len(report.Errors), report.Errors)
	}
	if m.Width != 1000 || m.Height != 1000 {
		t.Errorf("map extent %gx%g, want 1000x1000", m.Width, m.Height)
	}
	if len(m.Settlements) == 0 {
		t.Error("no settlements placed")
	}

	major := 0
	spanning := 0
	for _, r := range m.Roads {
		if r.Type == world.RoadInterstate || r.Type == world.RoadHighway {
			major++
		}
		b := geo.BoundsOf(r.Points)
		if b.Width() >= 0.6*m.Width || b.Depth() >= 0.6*m.Height {
			spanning++
		}
	}
	if major == 0 {
		t.Error("no highway or interstate on the map")
	}
	if spanning < 5 {
		t.Errorf("cross-map routes = %d, want at least 5", spanning)
	}

	river := false
	for _, w := range m.WaterBodies {
		if w.Kind == world.WaterRiver {
			river = true
		}
	}
	if !river {
		t.Error("no river generated")
	}
	if m.MinElevation > m.MaxElevation {
		t.Errorf("elevation range inverted: %g..%g", m.MinElevation, m.MaxElevation)
	}
}

func TestGenerateLargeCitiesScenario(t *testing.T) {
	m, _ := generate(t, 7, world.SizeLarge, "cities")

	counts := map[world.SettlementSize]int{}
	for _, s := range m.Settlements {
		counts[s.Size]++
	}
	// The cities table rolls 3/8/5/0; siting may drop a settlement that
	// finds no room, so the later sizes get a one-drop allowance.
	if counts[world.SettlementCity] != 3 {
		t.Errorf("city count = %d, want 3", counts[world.SettlementCity])
	}
	if n := counts[world.SettlementTown]; n < 7 || n > 8 {
		t.Errorf("town count = %d, want 7..8", n)
	}
	if n := counts[world.SettlementVillage]; n < 4 || n > 5 {
		t.Errorf("village count = %d, want 4..5", n)
	}
	if counts[world.SettlementHamlet] != 0 {
		t.Errorf("hamlet count = %d, want none in the cities biome", counts[world.SettlementHamlet])
	}
}

func TestGenerateGridPainting(t *testing.T) {
	m, _ := generate(t, 5, world.SizeMedium, "grassland")

	roadCells, buildingCells, waterCells := 0, 0, 0
	for row := 0; row < m.Grid.Rows; row++ {
		for col := 0; col < m.Grid.Cols; col++ {
			switch m.Grid.Cells[row][col].Type {
			case world.CellRoad:
				roadCells++
			case world.CellBuilding:
				buildingCells++
			case world.CellWater, world.CellRiver:
				waterCells++
			}
		}
	}
	if roadCells == 0 {
		t.Error("no road cells painted")
	}
	if waterCells == 0 {
		t.Error("river footprint missing from the grid")
	}
	if len(m.Buildings) > 0 && buildingCells == 0 {
		t.Errorf("%d buildings but no building cells painted", len(m.Buildings))
	}
}

func TestGenerateMapLevelIDsUnique(t *testing.T) {
	m, _ := generate(t, 12, world.SizeMedium, "grassland")

	roadIDs := make(map[int]bool)
	for _, r := range m.Roads {
		if roadIDs[r.ID] {
			t.Errorf("duplicate road id %d", r.ID)
		}
		roadIDs[r.ID] = true
	}
	buildingIDs := make(map[int]bool)
	for _, b := range m.Buildings {
		if buildingIDs[b.ID] {
			t.Errorf("duplicate building id %d", b.ID)
		}
		buildingIDs[b.ID] = true
	}

	streets := 0
	for _, r := range m.Roads {
		if r.SettlementID != 0 {
			streets++
		}
	}
	if len(m.Settlements) > 0 && streets == 0 {
		t.Error("settlement streets missing from the map road list")
	}
}

func TestGenerateMetadataPresent(t *testing.T) {
	m, _ := generate(t, 99, world.SizeMedium, "grassland")

	if len(m.DeploymentZones) < 2 {
		t.Errorf("deployment zones = %d, want at least one per team", len(m.DeploymentZones))
	}
	if len(m.CaptureZones) == 0 {
		t.Error("no capture zones")
	}
	if len(m.EntryPoints) == 0 {
		t.Error("no entry points")
	}
	if len(m.ResupplyPoints) < 2 {
		t.Errorf("resupply points = %d, want at least one per team", len(m.ResupplyPoints))
	}
}

func TestPaintSegmentSkipsWater(t *testing.T) {
	grid, err := world.NewGrid(100, 100, 4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	// Wet column across the segment's middle.
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if p := grid.CellCenter(col, row); p.X >= 0 && p.X <= 8 {
				grid.At(col, row).Type = world.CellRiver
			}
		}
	}
	paintSegment(grid, geo.Pt(-40, 0), geo.Pt(40, 0), 3)

	if grid.AtWorld(-20, 0).Type != world.CellRoad {
		t.Error("dry cell on the segment not painted")
	}
	if got := grid.AtWorld(4, 0).Type; got != world.CellRiver {
		t.Errorf("river cell repainted to %q", got)
	}
	if grid.AtWorld(-20, 30).Type == world.CellRoad {
		t.Error("cell far from the segment painted")
	}
}
