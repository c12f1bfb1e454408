package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mapforge",
		Short: "Deterministic battle map generator",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(biomesCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a battle map and write it as JSON",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGenerate(opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "generation seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&opts.size, "size", "medium", "map size class: small, medium or large")
	cmd.Flags().StringVar(&opts.biome, "biome", "", "biome name (empty lets the seed pick one)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "map.json", "output file path")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the catalog database")
	return cmd
}

func validateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Generate a map and check its structural guarantees",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "generation seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&opts.size, "size", "medium", "map size class: small, medium or large")
	cmd.Flags().StringVar(&opts.biome, "biome", "", "biome name (empty lets the seed pick one)")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [map.json]",
		Short: "Print the summary tables for a generated map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func biomesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "biomes",
		Short: "List the biome tables the generator will draw from",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBiomes(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML biome file merged over the built-in table")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr      string
		configDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP generation service",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr, configDir)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.listen from config)")
	cmd.Flags().StringVar(&configDir, "config", ".", "directory holding mapforge.yaml")
	return cmd
}
