package world

import (
	"fmt"
	"math"

	"github.com/graywick/mapforge/pkg/geo"
)

// Grid is the terrain raster. Cells are indexed [row][col]; world
// coordinates are meters centered on the map origin, with col 0 at
// x = -Width/2 and row 0 at z = -Height/2.
type Grid struct {
	Cols     int      `json:"cols"`
	Rows     int      `json:"rows"`
	CellSize float64  `json:"cell_size"`
	Cells    [][]Cell `json:"cells"`
}

// NewGrid allocates a field-filled grid covering width x height meters.
// The cell size grows as needed so neither axis exceeds MaxGridCells.
func NewGrid(width, height, cellSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("degenerate grid extent %gx%g at cell size %g", width, height, cellSize)
	}
	if min := math.Max(width, height) / MaxGridCells; cellSize < min {
		cellSize = min
	}

	cols := int(math.Round(width / cellSize))
	rows := int(math.Round(height / cellSize))
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("grid extent %gx%g smaller than one %g m cell", width, height, cellSize)
	}

	cells := make([][]Cell, rows)
	for r := range cells {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = Cell{Type: CellField, Cover: CoverNone}
		}
		cells[r] = row
	}
	return &Grid{Cols: cols, Rows: rows, CellSize: cellSize, Cells: cells}, nil
}

// Width returns the grid extent in meters along x.
func (g *Grid) Width() float64 { return float64(g.Cols) * g.CellSize }

// Height returns the grid extent in meters along z.
func (g *Grid) Height() float64 { return float64(g.Rows) * g.CellSize }

// Index converts world coordinates to cell indices.
func (g *Grid) Index(x, z float64) (col, row int, ok bool) {
	col = int(math.Floor((x + g.Width()/2) / g.CellSize))
	row = int(math.Floor((z + g.Height()/2) / g.CellSize))
	return col, row, col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// ClampIndex converts world coordinates to the nearest valid cell indices.
func (g *Grid) ClampIndex(x, z float64) (col, row int) {
	col, row, _ = g.Index(x, z)
	if col < 0 {
		col = 0
	} else if col >= g.Cols {
		col = g.Cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.Rows {
		row = g.Rows - 1
	}
	return col, row
}

// At returns the cell at the given indices, or nil when out of bounds.
func (g *Grid) At(col, row int) *Cell {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return nil
	}
	return &g.Cells[row][col]
}

// AtWorld returns the cell containing a world position, or nil when the
// position is off the map.
func (g *Grid) AtWorld(x, z float64) *Cell {
	col, row, ok := g.Index(x, z)
	if !ok {
		return nil
	}
	return &g.Cells[row][col]
}

// CellCenter returns the world position of a cell's center.
func (g *Grid) CellCenter(col, row int) geo.Point {
	return geo.Pt(
		(float64(col)+0.5)*g.CellSize-g.Width()/2,
		(float64(row)+0.5)*g.CellSize-g.Height()/2,
	)
}

// ElevationAt bilinearly interpolates elevation between cell centers.
// Positions off the map clamp to the border cells.
func (g *Grid) ElevationAt(x, z float64) float64 {
	fx := (x+g.Width()/2)/g.CellSize - 0.5
	fz := (z+g.Height()/2)/g.CellSize - 0.5
	fx = geo.Clamp(fx, 0, float64(g.Cols-1))
	fz = geo.Clamp(fz, 0, float64(g.Rows-1))

	c0 := int(math.Floor(fx))
	r0 := int(math.Floor(fz))
	c1 := c0
	if c1 < g.Cols-1 {
		c1++
	}
	r1 := r0
	if r1 < g.Rows-1 {
		r1++
	}
	tx := fx - float64(c0)
	tz := fz - float64(r0)

	top := geo.LerpF(g.Cells[r0][c0].Elevation, g.Cells[r0][c1].Elevation, tx)
	bottom := geo.LerpF(g.Cells[r1][c0].Elevation, g.Cells[r1][c1].Elevation, tx)
	return geo.LerpF(top, bottom, tz)
}

// WaterAt reports whether the cell containing a world position is water.
// Off-map positions count as dry.
func (g *Grid) WaterAt(x, z float64) bool {
	cell := g.AtWorld(x, z)
	return cell != nil && cell.Type.IsWater()
}

// ElevationRange scans the grid for its minimum and maximum elevation.
func (g *Grid) ElevationRange() (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			e := g.Cells[r][c].Elevation
			if e < min {
				min = e
			}
			if e > max {
				max = e
			}
		}
	}
	return min, max
}
