package metrics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/graywick/mapforge/pkg/world"
)

func TestFromConfigDisabled(t *testing.T) {
	viper.Reset()
	viper.Set("influx.enabled", false)

	rec := FromConfig(zerolog.Nop())
	if _, ok := rec.(Nop); !ok {
		t.Fatalf("FromConfig with influx disabled = %T, want Nop", rec)
	}

	// Nop must tolerate use without setup.
	rec.RecordGeneration(&world.Map{}, time.Second)
	rec.Close()
}

func TestGenerationPoint(t *testing.T) {
	m := &world.Map{
		Seed:        42,
		Size:        world.SizeSmall,
		Biome:       "grassland",
		Settlements: make([]world.Settlement, 3),
		Roads:       make([]world.Road, 7),
		Buildings:   make([]world.Building, 25),
	}
	p := generationPoint(m, 1500*time.Millisecond)

	if p.Name() != "generation" {
		t.Errorf("measurement = %q, want %q", p.Name(), "generation")
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["size"] != "small" || tags["biome"] != "grassland" {
		t.Errorf("tags = %v, want size=small biome=grassland", tags)
	}

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["duration_ms"] != int64(1500) {
		t.Errorf("duration_ms = %v, want 1500", fields["duration_ms"])
	}
	if fields["settlements"] != int64(3) {
		t.Errorf("settlements = %v, want 3", fields["settlements"])
	}
	if fields["roads"] != int64(7) {
		t.Errorf("roads = %v, want 7", fields["roads"])
	}
}
