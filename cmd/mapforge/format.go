package main

import (
	"fmt"
	"strings"

	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

func printMapSummary(m *world.Map) {
	fmt.Printf("Map seed %d (%s %s, %.0fx%.0f m)\n", m.Seed, m.Size, m.Biome, m.Width, m.Height)
	fmt.Printf("Elevation %.1f to %.1f m, %.0f m cells\n", m.MinElevation, m.MaxElevation, m.CellSize)
	fmt.Println()

	if len(m.Settlements) > 0 {
		fmt.Printf("%-20s %-8s %-10s %10s %10s\n", "Settlement", "Size", "Layout", "Buildings", "Streets")
		for _, s := range m.Settlements {
			fmt.Printf("%-20s %-8s %-10s %10d %10d\n",
				s.Name, s.Size, s.Layout, len(s.Buildings), len(s.Streets))
		}
		fmt.Println()
	}

	if len(m.Roads) > 0 {
		fmt.Printf("%-20s %10s %12s\n", "Road class", "Count", "Length")
		for _, class := range []world.RoadType{
			world.RoadInterstate, world.RoadHighway, world.RoadTown, world.RoadDirt,
		} {
			count, length := roadStats(m.Roads, class)
			if count == 0 {
				continue
			}
			fmt.Printf("%-20s %10d %11.1fk\n", string(class), count, length/1000)
		}
		fmt.Println()
	}

	fmt.Printf("Water bodies:     %d (%d bridges)\n", len(m.WaterBodies), len(m.Bridges))
	fmt.Printf("Buildings:        %d\n", len(m.Buildings))
	fmt.Printf("Capture zones:    %d\n", len(m.CaptureZones))
	fmt.Printf("Deployment zones: %d\n", len(m.DeploymentZones))
	fmt.Printf("Entry points:     %d\n", len(m.EntryPoints))
	fmt.Printf("Resupply points:  %d\n", len(m.ResupplyPoints))
}

func roadStats(roads []world.Road, class world.RoadType) (int, float64) {
	count := 0
	length := 0.0
	for _, r := range roads {
		if r.Type != class {
			continue
		}
		count++
		length += r.Length()
	}
	return count, length
}

func printReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, res := range r.Errors {
			printResult(res)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, res := range r.Warnings {
			printResult(res)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, res := range r.Info {
			printResult(res)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Stage, res.Message)
	if res.Position != nil {
		fmt.Printf("    at (%.0f, %.0f)\n", res.Position.X, res.Position.Z)
	}
	if res.Count > 1 {
		fmt.Printf("    count: %d\n", res.Count)
	}
}

func printBiomeTable(t *biome.Table) {
	fmt.Printf("%-12s %8s %12s %10s  %s\n", "Biome", "Weight", "Settlement", "Forest", "Sizes")
	for _, c := range t.All() {
		sizes := "all"
		if len(c.AllowedSizes) > 0 {
			sizes = strings.Join(c.AllowedSizes, ",")
		}
		fmt.Printf("%-12s %8.0f %12.1f %10.2f  %s\n",
			c.Name, c.Weight, c.SettlementDensity, c.ForestDensity, sizes)
	}
}
