package hydrology

import "github.com/graywick/mapforge/pkg/world"

const bankSmoothRadius = 18.0

// SmoothBanks runs the multi-pass bank smoothing: water cells are pulled
// to the average of their water neighbors, then land cells within the
// bank radius of water get a Gaussian pass. Water never leaves
// elevation 0. The road-grading stage calls this once more after
// stamping.
func SmoothBanks(grid *world.Grid) {
	levelWaterBed(grid)
	smoothNearWater(grid)
}

// levelWaterBed averages each water cell with its water neighbors,
// removing any terrain noise that bled into the bed.
func levelWaterBed(grid *world.Grid) {
	levels := make([][]float64, grid.Rows)
	for row := 0; row < grid.Rows; row++ {
		levels[row] = make([]float64, grid.Cols)
		for col := 0; col < grid.Cols; col++ {
			cell := grid.Cells[row][col]
			if !cell.Type.IsWater() {
				continue
			}
			sum := cell.Elevation
			n := 1
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					neighbor := grid.At(col+dc, row+dr)
					if neighbor != nil && neighbor.Type.IsWater() {
						sum += neighbor.Elevation
						n++
					}
				}
			}
			levels[row][col] = sum / float64(n)
		}
	}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if grid.Cells[row][col].Type.IsWater() {
				grid.Cells[row][col].Elevation = levels[row][col]
			}
		}
	}
}

// smoothNearWater Gaussian-smooths land cells within the bank radius of
// any water cell, letting the zero-elevation water pull banks down.
func smoothNearWater(grid *world.Grid) {
	reach := int(bankSmoothRadius/grid.CellSize) + 1
	nearWater := make([][]bool, grid.Rows)
	for row := 0; row < grid.Rows; row++ {
		nearWater[row] = make([]bool, grid.Cols)
		for col := 0; col < grid.Cols; col++ {
			if grid.Cells[row][col].Type.IsWater() {
				continue
			}
		scan:
			for dr := -reach; dr <= reach; dr++ {
				for dc := -reach; dc <= reach; dc++ {
					cell := grid.At(col+dc, row+dr)
					if cell != nil && cell.Type.IsWater() {
						nearWater[row][col] = true
						break scan
					}
				}
			}
		}
	}

	var kernel = [3][3]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	smoothed := make([][]float64, grid.Rows)
	for row := 0; row < grid.Rows; row++ {
		smoothed[row] = make([]float64, grid.Cols)
		for col := 0; col < grid.Cols; col++ {
			if !nearWater[row][col] {
				continue
			}
			sum := 0.0
			weight := 0.0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					cell := grid.At(col+dc, row+dr)
					if cell == nil {
						continue
					}
					k := kernel[dr+1][dc+1]
					sum += cell.Elevation * k
					weight += k
				}
			}
			smoothed[row][col] = sum / weight
		}
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if nearWater[row][col] {
				grid.Cells[row][col].Elevation = smoothed[row][col]
			}
		}
	}
}
