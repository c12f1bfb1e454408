package terrain

import (
	"math"
	"sort"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/noise"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	baseElevation  = 4.0
	baseNoiseScale = 260.0
	baseNoiseAmp   = 6.0
	rollingScale   = 750.0
	rollingAmp     = 9.0

	plateauEdgeNoise = 0.15
	plateauEdgeScale = 35.0

	hillThreshold  = 30.0
	fieldThreshold = 2.0

	smoothBlend = 0.7
)

// stackKinds lists the kinds whose contributions stack additively, in the
// fixed order they are summed. Plains are handled as noise dampening.
var stackKinds = [...]world.FeatureKind{
	world.FeatureHill,
	world.FeatureRidge,
	world.FeatureMountain,
	world.FeatureValley,
	world.FeaturePlateau,
}

// SynthesizeElevation fills every cell from layered noise plus the
// committed features, clamps to ≥ 0, relabels hill and field cells, and
// runs the 3x3 smoothing blend.
func SynthesizeElevation(grid *world.Grid, features []world.Feature, field *noise.Field) {
	buckets := make([][]float64, len(stackKinds))
	for i := range buckets {
		buckets[i] = make([]float64, 0, 8)
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			pos := grid.CellCenter(col, row)

			base := field.Octave(pos.X/baseNoiseScale, pos.Z/baseNoiseScale, 4, 0.5) * baseNoiseAmp
			rolling := field.At(pos.X/rollingScale, pos.Z/rollingScale) * rollingAmp

			for i := range buckets {
				buckets[i] = buckets[i][:0]
			}
			damp := 1.0
			for _, f := range features {
				if f.Kind == world.FeaturePlains {
					// Plains reuse the elevation parameter as the
					// fraction of noise they flatten away.
					damp *= 1 - f.Elevation*featureWeight(f, pos, field)
					continue
				}
				w := featureWeight(f, pos, field)
				if w <= 0 {
					continue
				}
				for i, kind := range stackKinds {
					if f.Kind == kind {
						buckets[i] = append(buckets[i], w*f.Elevation)
						break
					}
				}
			}

			elevation := baseElevation + (base+rolling)*damp
			for i := range buckets {
				elevation += diminishedSum(buckets[i])
			}

			cell := &grid.Cells[row][col]
			cell.Elevation = math.Max(0, elevation)
			if cell.Elevation > hillThreshold {
				cell.Type = world.CellHill
			} else if cell.Elevation < fieldThreshold && !cell.Type.IsWater() {
				cell.Type = world.CellField
			}
		}
	}

	smoothGrid(grid)
}

// diminishedSum rank-orders same-kind contributions by magnitude and
// scales them 100%, 50%, 25%, then 10% each, so cluster regions cannot
// stack without bound.
func diminishedSum(contributions []float64) float64 {
	if len(contributions) == 0 {
		return 0
	}
	sort.Slice(contributions, func(i, j int) bool {
		return math.Abs(contributions[i]) > math.Abs(contributions[j])
	})
	sum := 0.0
	for i, c := range contributions {
		scale := 0.1
		switch i {
		case 0:
			scale = 1.0
		case 1:
			scale = 0.5
		case 2:
			scale = 0.25
		}
		sum += c * scale
	}
	return sum
}

// featureWeight maps a cell position to the feature's falloff weight in
// [0, 1].
func featureWeight(f world.Feature, pos geo.Point, field *noise.Field) float64 {
	switch f.Kind {
	case world.FeatureRidge, world.FeatureValley:
		return capsuleWeight(f, pos)
	case world.FeaturePlateau:
		return plateauWeight(f, pos, field)
	case world.FeatureMountain:
		t := radialT(f, pos)
		if t <= 0 {
			return 0
		}
		soft := math.Pow(t, f.Falloff)
		sharp := math.Pow(t, f.Falloff*2.5)
		return geo.LerpF(soft, sharp, f.PeakSharpness)
	default:
		t := radialT(f, pos)
		if t <= 0 {
			return 0
		}
		return math.Pow(t, f.Falloff)
	}
}

func radialT(f world.Feature, pos geo.Point) float64 {
	return geo.Clamp(1-pos.Distance(f.Position)/f.Radius, 0, 1)
}

// capsuleWeight measures falloff from a line segment of the feature's
// length along its axis, giving ridges and valleys their elongation.
func capsuleWeight(f world.Feature, pos geo.Point) float64 {
	d := pos.Sub(f.Position)
	cos := math.Cos(f.Angle)
	sin := math.Sin(f.Angle)
	along := d.X*cos + d.Z*sin
	across := -d.X*sin + d.Z*cos

	overhang := math.Max(0, math.Abs(along)-f.Length/2)
	r := math.Hypot(overhang, across)
	t := geo.Clamp(1-r/f.Radius, 0, 1)
	if t <= 0 {
		return 0
	}
	return math.Pow(t, f.Falloff)
}

// plateauWeight holds 1 inside the flat top and drops across a cliff
// edge whose radius is roughened by noise.
func plateauWeight(f world.Feature, pos geo.Point, field *noise.Field) float64 {
	d := pos.Distance(f.Position)
	rough := 1 + plateauEdgeNoise*field.At(pos.X/plateauEdgeScale, pos.Z/plateauEdgeScale)
	dn := d * rough

	if dn <= f.FlatTopRadius {
		return 1
	}
	if dn >= f.Radius {
		return 0
	}
	t := 1 - (dn-f.FlatTopRadius)/(f.Radius-f.FlatTopRadius)
	return math.Pow(t, f.Falloff)
}

// smoothGrid blends each cell 70/30 with its 3x3 Gaussian-weighted
// neighborhood to remove noise-grid aliasing.
func smoothGrid(grid *world.Grid) {
	var kernel = [3][3]float64{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	smoothed := make([][]float64, grid.Rows)
	for row := 0; row < grid.Rows; row++ {
		smoothed[row] = make([]float64, grid.Cols)
		for col := 0; col < grid.Cols; col++ {
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
			cell := &grid.Cells[row][col]
			cell.Elevation = smoothBlend*smoothed[row][col] + (1-smoothBlend)*cell.Elevation
		}
	}
}
