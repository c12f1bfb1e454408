package biome

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type biomeFile struct {
	Biomes []Config `yaml:"biomes"`
}

// LoadFile reads biome configs from a YAML file with a top-level
// `biomes:` list.
func LoadFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading biome file: %w", err)
	}

	var f biomeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing biome YAML: %w", err)
	}
	if len(f.Biomes) == 0 {
		return nil, fmt.Errorf("biome file %s defines no biomes", path)
	}
	for _, c := range f.Biomes {
		if c.Name == "" {
			return nil, fmt.Errorf("biome file %s contains an unnamed biome", path)
		}
	}
	return f.Biomes, nil
}

// LoadTable returns the built-in table with the file's configs merged over
// it. Configs sharing a built-in name replace it; new names are appended.
func LoadTable(path string) (*Table, error) {
	configs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	t := Builtin()
	t.Merge(configs...)
	return t, nil
}
