// Package metrics sinks per-generation measurements to InfluxDB.
package metrics

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/graywick/mapforge/pkg/world"
)

// Recorder accepts generation measurements. Implementations must be safe
// to call from request handlers.
type Recorder interface {
	RecordGeneration(m *world.Map, elapsed time.Duration)
	Close()
}

// Nop discards every measurement.
type Nop struct{}

// RecordGeneration discards the measurement.
func (Nop) RecordGeneration(*world.Map, time.Duration) {}

// Close does nothing.
func (Nop) Close() {}

// FromConfig returns an InfluxDB recorder when influx.enabled is set,
// otherwise a Nop.
func FromConfig(log zerolog.Logger) Recorder {
	if !viper.GetBool("influx.enabled") {
		return Nop{}
	}
	return newInflux(log)
}

type influx struct {
	client influxdb2.Client
	write  influxdb2_api.WriteAPI
	log    zerolog.Logger
}

func newInflux(log zerolog.Logger) *influx {
	client := influxdb2.NewClientWithOptions(
		viper.GetString("influx.url"),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(uint(viper.GetInt("influx.batchSize"))).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if running, err := client.Ping(ctx); err != nil || !running {
		log.Warn().Err(err).Str("url", viper.GetString("influx.url")).
			Msg("InfluxDB unreachable, measurements may be dropped")
	}

	m := &influx{
		client: client,
		write:  client.WriteAPI(viper.GetString("influx.org"), viper.GetString("influx.bucket")),
		log:    log,
	}

	// The async write API reports failures on a channel that must be
	// drained or writes eventually block.
	errorsCh := m.write.Errors()
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.log.Error().Err(writeErr).Msg("error sending data to InfluxDB")
		}
	}(errorsCh)

	return m
}

// RecordGeneration queues one point describing a finished generation run.
func (m *influx) RecordGeneration(mp *world.Map, elapsed time.Duration) {
	m.write.WritePoint(generationPoint(mp, elapsed))
}

// Close flushes queued points and shuts the client down.
func (m *influx) Close() {
	m.write.Flush()
	m.client.Close()
}

func generationPoint(m *world.Map, elapsed time.Duration) *influxdb2_write.Point {
	return influxdb2.NewPointWithMeasurement("generation").
		AddTag("size", string(m.Size)).
		AddTag("biome", m.Biome).
		AddField("seed", m.Seed).
		AddField("duration_ms", elapsed.Milliseconds()).
		AddField("settlements", len(m.Settlements)).
		AddField("roads", len(m.Roads)).
		AddField("buildings", len(m.Buildings)).
		AddField("bridges", len(m.Bridges)).
		AddField("water_bodies", len(m.WaterBodies)).
		AddField("capture_zones", len(m.CaptureZones)).
		SetTime(time.Now())
}
