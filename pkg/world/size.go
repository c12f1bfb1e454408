package world

import "fmt"

// SizeClass selects the overall map dimensions.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// MaxGridCells caps either grid axis; cell size grows to stay under it.
const MaxGridCells = 250

// Extent is the world footprint for a size class.
type Extent struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	CellSize float64 `json:"cell_size"`
}

// ExtentOf maps a size class to its dimensions. Unknown classes are a
// configuration error and the one hard precondition of a generation run.
func ExtentOf(class SizeClass) (Extent, error) {
	switch class {
	case SizeSmall:
		return Extent{Width: 1000, Height: 1000, CellSize: 4}, nil
	case SizeMedium:
		return Extent{Width: 1600, Height: 1600, CellSize: 8}, nil
	case SizeLarge:
		return Extent{Width: 2400, Height: 2400, CellSize: 10}, nil
	}
	return Extent{}, fmt.Errorf("unknown size class %q", class)
}

// ParseSizeClass validates a size class name.
func ParseSizeClass(s string) (SizeClass, error) {
	class := SizeClass(s)
	if _, err := ExtentOf(class); err != nil {
		return "", err
	}
	return class, nil
}
