package biome

// Builtin returns the standard biome table.
func Builtin() *Table {
	return NewTable(
		Config{
			Name:              "grassland",
			Weight:            30,
			GroundColor:       "#6b8f47",
			ForestColor:       "#3d6b2e",
			WaterColor:        "#3a6ea5",
			SettlementDensity: 1.0,
			FeatureWeights: map[string]float64{
				"hill":     1.2,
				"plains":   1.5,
				"mountain": 0.3,
			},
			ForestDensity:  0.25,
			ForestScaleMin: 0.8,
			ForestScaleMax: 1.2,
			Objectives:     []string{"farmstead", "crossroads", "depot", "water-tower", "church"},
		},
		Config{
			Name:              "forest",
			Weight:            25,
			GroundColor:       "#56713c",
			ForestColor:       "#2e5226",
			WaterColor:        "#356391",
			SettlementDensity: 0.7,
			AllowedSizes:      []string{"hamlet", "village", "town"},
			FeatureWeights: map[string]float64{
				"ridge":    1.3,
				"valley":   1.2,
				"mountain": 0.4,
			},
			ForestDensity:  0.8,
			ForestScaleMin: 1.2,
			ForestScaleMax: 2.0,
			Objectives:     []string{"lumber-camp", "ranger-station", "fire-tower", "hunting-lodge", "clearing"},
		},
		Config{
			Name:              "mountains",
			Weight:            15,
			GroundColor:       "#7a7d6e",
			ForestColor:       "#45603a",
			WaterColor:        "#4a7ba6",
			SettlementDensity: 0.5,
			AllowedSizes:      []string{"hamlet", "village"},
			FeatureWeights: map[string]float64{
				"mountain": 2.5,
				"ridge":    1.8,
				"plateau":  1.5,
				"valley":   1.2,
				"plains":   0.2,
			},
			ForestDensity:  0.35,
			ForestScaleMin: 0.6,
			ForestScaleMax: 1.0,
			Objectives:     []string{"mine", "quarry", "mountain-pass", "radio-mast", "weather-station"},
		},
		Config{
			Name:              "wetlands",
			Weight:            15,
			GroundColor:       "#5e7a4a",
			ForestColor:       "#39573a",
			WaterColor:        "#2f5d85",
			SettlementDensity: 0.8,
			AllowedSizes:      []string{"hamlet", "village", "town"},
			FeatureWeights: map[string]float64{
				"valley":   1.6,
				"plains":   1.8,
				"hill":     0.6,
				"mountain": 0.1,
			},
			ForestDensity:  0.45,
			ForestScaleMin: 0.7,
			ForestScaleMax: 1.3,
			Objectives:     []string{"ferry-landing", "pumping-station", "causeway", "fishery", "observation-post"},
		},
		Config{
			Name:              "cities",
			Weight:            15,
			GroundColor:       "#7d8263",
			ForestColor:       "#4a6138",
			WaterColor:        "#3a6ea5",
			SettlementDensity: 2.5,
			FeatureWeights: map[string]float64{
				"plains":   2.0,
				"hill":     0.5,
				"mountain": 0.05,
			},
			ForestDensity:  0.1,
			ForestScaleMin: 0.5,
			ForestScaleMax: 0.8,
			Objectives:     []string{"rail-yard", "factory", "power-station", "warehouse", "plaza"},
		},
	)
}
