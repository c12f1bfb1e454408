// Package world defines the generated map data model: the terrain grid,
// the entity types every pipeline stage reads and writes, and the final
// immutable Map snapshot handed to rendering and gameplay consumers.
package world

// CellType classifies one terrain grid cell.
type CellType string

const (
	CellField    CellType = "field"
	CellForest   CellType = "forest"
	CellHill     CellType = "hill"
	CellWater    CellType = "water"
	CellRiver    CellType = "river"
	CellRoad     CellType = "road"
	CellBuilding CellType = "building"
)

// IsWater reports whether the cell type is lake or river water.
func (t CellType) IsWater() bool {
	return t == CellWater || t == CellRiver
}

// Cover grades how much concealment a cell offers.
type Cover string

const (
	CoverNone  Cover = "none"
	CoverLight Cover = "light"
	CoverHeavy Cover = "heavy"
	CoverFull  Cover = "full"
)

// Cell is one grid sample. Elevation is meters above the water table and
// stays ≥ 0 through initial generation; road grading may rewrite it later.
type Cell struct {
	Type      CellType `json:"type"`
	Elevation float64  `json:"elevation"`
	Cover     Cover    `json:"cover"`
	Variant   string   `json:"variant,omitempty"`
}
