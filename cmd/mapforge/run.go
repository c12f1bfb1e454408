package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/internal/config"
	"github.com/graywick/mapforge/internal/logging"
	"github.com/graywick/mapforge/internal/metrics"
	"github.com/graywick/mapforge/internal/server"
	"github.com/graywick/mapforge/internal/storage"
	"github.com/graywick/mapforge/pkg/biome"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
	"github.com/graywick/mapforge/pkg/worldgen"
)

type generateOptions struct {
	seed   int64
	size   string
	biome  string
	output string
	save   bool
}

// consoleLogger keeps pipeline progress on stderr so stdout stays free
// for the summary tables.
func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

func generateMap(opts generateOptions) (*world.Map, *validation.Report, time.Duration, error) {
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	class, err := world.ParseSizeClass(opts.size)
	if err != nil {
		return nil, nil, 0, err
	}

	start := time.Now()
	m, report, err := worldgen.Generate(worldgen.Params{
		Seed:   opts.seed,
		Size:   class,
		Biome:  opts.biome,
		Logger: consoleLogger(),
	})
	if err != nil {
		return nil, nil, 0, err
	}
	return m, report, time.Since(start), nil
}

func runGenerate(opts generateOptions) error {
	m, report, elapsed, err := generateMap(opts)
	if err != nil {
		return err
	}

	printMapSummary(m)
	if len(report.Errors) > 0 || len(report.Warnings) > 0 {
		fmt.Println()
		printReport(report)
	}

	if err := writeMapFile(m, opts.output); err != nil {
		return err
	}
	fmt.Printf("\nMap written to %s\n", opts.output)

	if opts.save {
		return saveToCatalog(m, elapsed)
	}
	return nil
}

func runValidate(opts generateOptions) error {
	m, report, _, err := generateMap(opts)
	if err != nil {
		return err
	}

	report.Merge(validation.CheckMap(m))
	printReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runInspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var m world.Map
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	printMapSummary(&m)
	return nil
}

func runBiomes(file string) error {
	table := biome.Builtin()
	if file != "" {
		loaded, err := biome.LoadTable(file)
		if err != nil {
			return err
		}
		table = loaded
	}
	printBiomeTable(table)
	return nil
}

func runServe(addr, configDir string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	log, err := logging.Setup()
	if err != nil {
		return err
	}

	store, err := storage.FromConfig()
	if err != nil {
		return err
	}
	defer store.Close()

	rec := metrics.FromConfig(log)
	defer rec.Close()

	if addr == "" {
		addr = config.GetString("server.listen")
	}
	return server.New(log, store, rec).Start(addr)
}

func writeMapFile(m *world.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func saveToCatalog(m *world.Map, elapsed time.Duration) error {
	if err := config.Load("."); err != nil {
		return err
	}
	store, err := storage.OpenSqlite(config.GetString("db.path"))
	if err != nil {
		return err
	}
	defer store.Close()

	rec := storage.NewRecord(m, elapsed)
	if err := store.SaveMap(rec); err != nil {
		return err
	}
	fmt.Printf("Recorded as catalog entry %d in %s\n", rec.ID, config.GetString("db.path"))
	return nil
}
