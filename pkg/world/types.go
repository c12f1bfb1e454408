package world

import "github.com/graywick/mapforge/pkg/geo"

// FeatureKind names a terrain elevation feature shape.
type FeatureKind string

const (
	FeatureHill     FeatureKind = "hill"
	FeatureRidge    FeatureKind = "ridge"
	FeatureMountain FeatureKind = "mountain"
	FeatureValley   FeatureKind = "valley"
	FeaturePlateau  FeatureKind = "plateau"
	FeaturePlains   FeatureKind = "plains"
)

// Feature is one discrete elevation perturbation. The list is committed
// before elevation synthesis and read-only afterward.
type Feature struct {
	ID            int         `json:"id"`
	Kind          FeatureKind `json:"kind"`
	Position      geo.Point   `json:"position"`
	Radius        float64     `json:"radius"`
	Elevation     float64     `json:"elevation"`
	Falloff       float64     `json:"falloff"`
	Angle         float64     `json:"angle,omitempty"`
	Length        float64     `json:"length,omitempty"`
	FlatTopRadius float64     `json:"flat_top_radius,omitempty"`
	PeakSharpness float64     `json:"peak_sharpness,omitempty"`
}

// WaterKind classifies a water body.
type WaterKind string

const (
	WaterLake  WaterKind = "lake"
	WaterRiver WaterKind = "river"
	WaterPond  WaterKind = "pond"
)

// WaterBody is a lake/pond polygon or a river polyline.
type WaterBody struct {
	ID     int         `json:"id"`
	Kind   WaterKind   `json:"kind"`
	Points []geo.Point `json:"points"`
	Width  float64     `json:"width,omitempty"`
	Radius float64     `json:"radius,omitempty"`
}

// RoadType orders the road hierarchy.
type RoadType string

const (
	RoadInterstate RoadType = "interstate"
	RoadHighway    RoadType = "highway"
	RoadTown       RoadType = "town"
	RoadDirt       RoadType = "dirt"
	RoadBridge     RoadType = "bridge"
)

// Width returns the paved width in meters for a road type.
func (t RoadType) Width() float64 {
	switch t {
	case RoadInterstate:
		return 14
	case RoadHighway, RoadBridge:
		return 10
	case RoadTown:
		return 7
	case RoadDirt:
		return 4
	}
	return 6
}

// Priority ranks road types for de-duplication and trimming. Higher wins.
func (t RoadType) Priority() int {
	switch t {
	case RoadInterstate:
		return 3
	case RoadHighway, RoadBridge:
		return 2
	case RoadTown:
		return 1
	}
	return 0
}

// Road is a polyline with a fixed per-type width. Streets inside a
// settlement carry its id.
type Road struct {
	ID           int         `json:"id"`
	Type         RoadType    `json:"type"`
	Points       []geo.Point `json:"points"`
	Width        float64     `json:"width"`
	SettlementID int         `json:"settlement_id,omitempty"`
}

// Polyline view of the road points.
func (r Road) Polyline() geo.Polyline { return geo.Polyline{Points: r.Points} }

// Length is the total road length in meters.
func (r Road) Length() float64 { return r.Polyline().Length() }

// Bridge spans water or another road. Elevation and length only grow once
// the bridge exists.
type Bridge struct {
	ID        int       `json:"id"`
	Position  geo.Point `json:"position"`
	Length    float64   `json:"length"`
	Width     float64   `json:"width"`
	Angle     float64   `json:"angle"`
	Elevation float64   `json:"elevation"`
	RoadID    int       `json:"road_id"`
}

// IntersectionKind classifies how two roads meet.
type IntersectionKind string

const (
	IntersectionT     IntersectionKind = "t"
	IntersectionCross IntersectionKind = "cross"
	IntersectionY     IntersectionKind = "y"
	IntersectionMerge IntersectionKind = "merge"
)

// Intersection is a deduplicated road crossing.
type Intersection struct {
	ID       int              `json:"id"`
	Position geo.Point        `json:"position"`
	RoadIDs  []int            `json:"road_ids"`
	Kind     IntersectionKind `json:"kind"`
}

// SettlementSize orders settlements from hamlet to city.
type SettlementSize string

const (
	SettlementHamlet  SettlementSize = "hamlet"
	SettlementVillage SettlementSize = "village"
	SettlementTown    SettlementSize = "town"
	SettlementCity    SettlementSize = "city"
)

// LayoutKind selects a settlement street pattern.
type LayoutKind string

const (
	LayoutOrganic LayoutKind = "organic"
	LayoutGrid    LayoutKind = "grid"
	LayoutMixed   LayoutKind = "mixed"
)

// Settlement owns its streets and buildings; copies of both are rolled
// into the map-level lists at assembly.
type Settlement struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Position    geo.Point      `json:"position"`
	Size        SettlementSize `json:"size"`
	Layout      LayoutKind     `json:"layout"`
	Radius      float64        `json:"radius"`
	Bounds      geo.AABB       `json:"bounds"`
	MainAxis    float64        `json:"main_axis"`
	EntryPoints []geo.Point    `json:"entry_points"`
	Streets     []Road         `json:"streets"`
	Buildings   []Building     `json:"buildings"`
}

// BuildingCategory groups building uses for quota allocation.
type BuildingCategory string

const (
	CategoryResidential    BuildingCategory = "residential"
	CategoryCommercial     BuildingCategory = "commercial"
	CategoryIndustrial     BuildingCategory = "industrial"
	CategoryCivic          BuildingCategory = "civic"
	CategoryAgricultural   BuildingCategory = "agricultural"
	CategoryInfrastructure BuildingCategory = "infrastructure"
)

// Building is a placed structure with gameplay scalars.
type Building struct {
	ID           int              `json:"id"`
	Position     geo.Point        `json:"position"`
	Width        float64          `json:"width"`
	Depth        float64          `json:"depth"`
	Height       float64          `json:"height"`
	Rotation     float64          `json:"rotation"`
	Category     BuildingCategory `json:"category"`
	Subtype      string           `json:"subtype"`
	Floors       int              `json:"floors"`
	Garrison     int              `json:"garrison"`
	Defense      float64          `json:"defense"`
	Stealth      float64          `json:"stealth"`
	SettlementID int              `json:"settlement_id,omitempty"`
}

// Footprint returns the building's oriented ground rectangle.
func (b Building) Footprint() geo.Rect {
	return geo.NewRect(b.Position, b.Width, b.Depth, b.Rotation)
}

// Team labels the two deployment sides.
type Team string

const (
	TeamWest Team = "west"
	TeamEast Team = "east"
)

// DeploymentZone is one rectangular section of a team's deployment strip.
type DeploymentZone struct {
	ID     int      `json:"id"`
	Team   Team     `json:"team"`
	Bounds geo.AABB `json:"bounds"`
}

// CaptureZone is a circular objective area.
type CaptureZone struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Position      geo.Point `json:"position"`
	Radius        float64   `json:"radius"`
	Value         int       `json:"value"`
	Objective     geo.Point `json:"objective"`
	ObjectiveType string    `json:"objective_type"`
	SettlementID  int       `json:"settlement_id,omitempty"`
}

// EntryPoint is a scored map-edge approach.
type EntryPoint struct {
	ID       int       `json:"id"`
	Position geo.Point `json:"position"`
	Kind     string    `json:"kind"`
	Score    float64   `json:"score"`
}

// ResupplyPoint sits in a team's half near its deployment zones.
type ResupplyPoint struct {
	ID       int       `json:"id"`
	Team     Team      `json:"team"`
	Position geo.Point `json:"position"`
}

// Map is the immutable generation result. It is the sole hand-off to
// rendering and gameplay consumers.
type Map struct {
	Seed            int64            `json:"seed"`
	Size            SizeClass        `json:"size"`
	Biome           string           `json:"biome"`
	Width           float64          `json:"width"`
	Height          float64          `json:"height"`
	CellSize        float64          `json:"cell_size"`
	Grid            *Grid            `json:"grid"`
	Roads           []Road           `json:"roads"`
	Intersections   []Intersection   `json:"intersections"`
	Buildings       []Building       `json:"buildings"`
	Settlements     []Settlement     `json:"settlements"`
	CaptureZones    []CaptureZone    `json:"capture_zones"`
	DeploymentZones []DeploymentZone `json:"deployment_zones"`
	EntryPoints     []EntryPoint     `json:"entry_points"`
	ResupplyPoints  []ResupplyPoint  `json:"resupply_points"`
	WaterBodies     []WaterBody      `json:"water_bodies"`
	Bridges         []Bridge         `json:"bridges"`
	MinElevation    float64          `json:"min_elevation"`
	MaxElevation    float64          `json:"max_elevation"`
}
