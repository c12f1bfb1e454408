// Package biome defines the biome configuration tables the generator
// consumes: display colors, settlement density, allowed settlement sizes,
// terrain feature weighting, forest parameters, and the objective pool for
// capture zones. The generator never defines biomes, it only reads them.
package biome

import (
	"sort"

	"github.com/graywick/mapforge/pkg/rng"
)

// Config describes one biome.
type Config struct {
	Name              string             `yaml:"name" json:"name"`
	Weight            float64            `yaml:"weight" json:"weight"`
	GroundColor       string             `yaml:"ground_color" json:"ground_color"`
	ForestColor       string             `yaml:"forest_color" json:"forest_color"`
	WaterColor        string             `yaml:"water_color" json:"water_color"`
	SettlementDensity float64            `yaml:"settlement_density" json:"settlement_density"`
	AllowedSizes      []string           `yaml:"allowed_sizes" json:"allowed_sizes"`
	FeatureWeights    map[string]float64 `yaml:"feature_weights" json:"feature_weights"`
	ForestDensity     float64            `yaml:"forest_density" json:"forest_density"`
	ForestScaleMin    float64            `yaml:"forest_scale_min" json:"forest_scale_min"`
	ForestScaleMax    float64            `yaml:"forest_scale_max" json:"forest_scale_max"`
	Objectives        []string           `yaml:"objectives" json:"objectives"`
}

// AllowsSize reports whether settlements of the given size may spawn.
// An empty list allows every size.
func (c Config) AllowsSize(size string) bool {
	if len(c.AllowedSizes) == 0 {
		return true
	}
	for _, s := range c.AllowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// FeatureWeight returns the weight override for a terrain feature kind,
// or the fallback when the biome does not override it.
func (c Config) FeatureWeight(kind string, fallback float64) float64 {
	if w, ok := c.FeatureWeights[kind]; ok {
		return w
	}
	return fallback
}

// normalize fills defaults so hand-written YAML overrides can stay sparse.
func (c *Config) normalize() {
	if c.Weight <= 0 {
		c.Weight = 1
	}
	if c.SettlementDensity <= 0 {
		c.SettlementDensity = 1
	}
	if c.ForestScaleMin <= 0 {
		c.ForestScaleMin = 0.8
	}
	if c.ForestScaleMax < c.ForestScaleMin {
		c.ForestScaleMax = c.ForestScaleMin
	}
}

// Table is an ordered set of biome configs with weighted seeded selection.
type Table struct {
	configs []Config
}

// NewTable builds a table from the given configs, normalizing defaults.
func NewTable(configs ...Config) *Table {
	t := &Table{configs: make([]Config, len(configs))}
	copy(t.configs, configs)
	for i := range t.configs {
		t.configs[i].normalize()
	}
	return t
}

// Get looks a biome up by name.
func (t *Table) Get(name string) (Config, bool) {
	for _, c := range t.configs {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// Names returns all biome names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, len(t.configs))
	for i, c := range t.configs {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// All returns the configs in table order.
func (t *Table) All() []Config {
	out := make([]Config, len(t.configs))
	copy(out, t.configs)
	return out
}

// Merge replaces configs with matching names and appends new ones.
func (t *Table) Merge(configs ...Config) {
	for _, c := range configs {
		c.normalize()
		replaced := false
		for i := range t.configs {
			if t.configs[i].Name == c.Name {
				t.configs[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			t.configs = append(t.configs, c)
		}
	}
}

// ForSeed deterministically selects a biome by weight. The draw uses its
// own stream so it never disturbs the generation stream built from the
// same seed.
func (t *Table) ForSeed(seed int64) Config {
	weights := make([]float64, len(t.configs))
	for i, c := range t.configs {
		weights[i] = c.Weight
	}
	s := rng.New(seed)
	return t.configs[s.Pick(weights)]
}

// Get looks a name up in the built-in table.
func Get(name string) (Config, bool) {
	return Builtin().Get(name)
}

// ForSeed selects from the built-in table.
func ForSeed(seed int64) Config {
	return Builtin().ForSeed(seed)
}
