// Package storage keeps a catalog of generated maps: one summary row per
// run plus the road and water geometry packed as WKB.
package storage

import (
	"errors"
	"time"

	"github.com/graywick/mapforge/pkg/world"
)

// ErrNotFound reports a catalog id with no record behind it.
var ErrNotFound = errors.New("map record not found")

// Backend persists map records. SaveMap fills in the record id.
type Backend interface {
	SaveMap(rec *MapRecord) error
	ListMaps() ([]MapRecord, error)
	GetMap(id uint) (*MapRecord, error)
	Close() error
}

// MapRecord is one catalog row. The WKB blobs hold a MultiLineString of
// road centerlines and water paths; SQLite has no spatial column type, so
// the geometry rides along as bytes.
type MapRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Seed         int64     `gorm:"index" json:"seed"`
	Size         string    `json:"size"`
	Biome        string    `json:"biome"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Settlements  int       `json:"settlements"`
	Roads        int       `json:"roads"`
	Buildings    int       `json:"buildings"`
	Bridges      int       `json:"bridges"`
	CaptureZones int       `json:"capture_zones"`
	MinElevation float64   `json:"min_elevation"`
	MaxElevation float64   `json:"max_elevation"`
	DurationMS   int64     `json:"duration_ms"`
	RoadWKB      []byte    `json:"-"`
	WaterWKB     []byte    `json:"-"`
}

// NewRecord summarizes a generated map for the catalog.
func NewRecord(m *world.Map, elapsed time.Duration) *MapRecord {
	return &MapRecord{
		Seed:         m.Seed,
		Size:         string(m.Size),
		Biome:        m.Biome,
		Width:        m.Width,
		Height:       m.Height,
		Settlements:  len(m.Settlements),
		Roads:        len(m.Roads),
		Buildings:    len(m.Buildings),
		Bridges:      len(m.Bridges),
		CaptureZones: len(m.CaptureZones),
		MinElevation: m.MinElevation,
		MaxElevation: m.MaxElevation,
		DurationMS:   elapsed.Milliseconds(),
		RoadWKB:      linesWKB(roadLines(m.Roads)),
		WaterWKB:     linesWKB(waterLines(m.WaterBodies)),
	}
}
