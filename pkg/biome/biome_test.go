package biome

import (
	"os"
	"path/filepath"
	"testing"
)

// --- table tests ---

func TestBuiltinNames(t *testing.T) {
	table := Builtin()
	want := []string{"cities", "forest", "grassland", "mountains", "wetlands"}
	got := table.Names()
	if len(got) != len(want) {
		t.Fatalf("names count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGet(t *testing.T) {
	c, ok := Get("mountains")
	if !ok {
		t.Fatal("mountains biome missing from builtin table")
	}
	if c.SettlementDensity != 0.5 {
		t.Errorf("settlement_density = %v, want 0.5", c.SettlementDensity)
	}
	if c.FeatureWeight("mountain", 1) != 2.5 {
		t.Errorf("mountain weight = %v, want 2.5", c.FeatureWeight("mountain", 1))
	}

	if _, ok := Get("tundra"); ok {
		t.Error("expected lookup miss for unknown biome")
	}
}

func TestAllowsSize(t *testing.T) {
	c, _ := Get("mountains")
	if c.AllowsSize("city") {
		t.Error("mountains should not allow city settlements")
	}
	if !c.AllowsSize("hamlet") {
		t.Error("mountains should allow hamlets")
	}

	grass, _ := Get("grassland")
	if !grass.AllowsSize("city") {
		t.Error("empty allowed list should allow every size")
	}
}

func TestFeatureWeightFallback(t *testing.T) {
	c, _ := Get("grassland")
	if w := c.FeatureWeight("ridge", 0.7); w != 0.7 {
		t.Errorf("fallback weight = %v, want 0.7", w)
	}
}

func TestForestScaleRanges(t *testing.T) {
	for _, c := range Builtin().All() {
		if c.ForestDensity < 0 || c.ForestDensity > 1 {
			t.Errorf("%s forest_density = %v, want within [0,1]", c.Name, c.ForestDensity)
		}
		if c.ForestScaleMin <= 0 || c.ForestScaleMax < c.ForestScaleMin {
			t.Errorf("%s forest scale range %v-%v is degenerate", c.Name, c.ForestScaleMin, c.ForestScaleMax)
		}
		if len(c.Objectives) == 0 {
			t.Errorf("%s has no objective pool", c.Name)
		}
	}
}

// --- selection tests ---

func TestForSeedDeterministic(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		a := ForSeed(seed)
		b := ForSeed(seed)
		if a.Name != b.Name {
			t.Fatalf("seed %d selected %q then %q", seed, a.Name, b.Name)
		}
	}
}

func TestForSeedCoversTable(t *testing.T) {
	seen := make(map[string]bool)
	for seed := int64(0); seed < 500; seed++ {
		seen[ForSeed(seed).Name] = true
	}
	for _, name := range Builtin().Names() {
		if !seen[name] {
			t.Errorf("biome %q never selected across 500 seeds", name)
		}
	}
}

// --- merge and load tests ---

func TestMergeReplacesAndAppends(t *testing.T) {
	table := Builtin()
	table.Merge(
		Config{Name: "grassland", Weight: 99, SettlementDensity: 3},
		Config{Name: "tundra", Weight: 5},
	)

	c, ok := table.Get("grassland")
	if !ok || c.SettlementDensity != 3 {
		t.Errorf("merged grassland density = %v, want 3", c.SettlementDensity)
	}
	if _, ok := table.Get("tundra"); !ok {
		t.Error("appended biome missing after merge")
	}
	if len(table.Names()) != 6 {
		t.Errorf("table size = %d, want 6", len(table.Names()))
	}
}

func TestNormalizeDefaults(t *testing.T) {
	table := NewTable(Config{Name: "bare"})
	c, _ := table.Get("bare")
	if c.Weight != 1 {
		t.Errorf("default weight = %v, want 1", c.Weight)
	}
	if c.SettlementDensity != 1 {
		t.Errorf("default settlement_density = %v, want 1", c.SettlementDensity)
	}
	if c.ForestScaleMin != 0.8 || c.ForestScaleMax != 0.8 {
		t.Errorf("default forest scale = %v-%v, want 0.8-0.8", c.ForestScaleMin, c.ForestScaleMax)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "biomes.yaml")
	content := `biomes:
  - name: steppe
    weight: 12
    ground_color: "#8a8a50"
    settlement_density: 0.6
    allowed_sizes: [hamlet, village]
    feature_weights:
      plains: 2.2
      hill: 0.4
    forest_density: 0.15
    objectives: [well, caravan-stop]
  - name: grassland
    forest_density: 0.4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}

	steppe, ok := table.Get("steppe")
	if !ok {
		t.Fatal("loaded biome missing")
	}
	if steppe.FeatureWeight("plains", 1) != 2.2 {
		t.Errorf("plains weight = %v, want 2.2", steppe.FeatureWeight("plains", 1))
	}
	if steppe.AllowsSize("town") {
		t.Error("steppe should not allow towns")
	}

	grass, _ := table.Get("grassland")
	if grass.ForestDensity != 0.4 {
		t.Errorf("overridden forest_density = %v, want 0.4", grass.ForestDensity)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/biomes.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("biomes: []\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for empty biome list")
	}
}
