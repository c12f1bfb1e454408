package storage

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/world"
)

// roadLines converts road centerlines to simple-feature linestrings.
func roadLines(roads []world.Road) []geom.LineString {
	lines := make([]geom.LineString, 0, len(roads))
	for _, r := range roads {
		if ls, ok := lineString(r.Points); ok {
			lines = append(lines, ls)
		}
	}
	return lines
}

// waterLines converts river centerlines and lake outlines the same way.
func waterLines(bodies []world.WaterBody) []geom.LineString {
	lines := make([]geom.LineString, 0, len(bodies))
	for _, b := range bodies {
		if ls, ok := lineString(b.Points); ok {
			lines = append(lines, ls)
		}
	}
	return lines
}

// lineString flattens map points into an XY coordinate sequence. Paths
// with fewer than two points carry no geometry and are skipped.
func lineString(points []geo.Point) (geom.LineString, bool) {
	if len(points) < 2 {
		return geom.LineString{}, false
	}
	coords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		coords = append(coords, p.X, p.Z)
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq), true
}

// linesWKB packs the linestrings into a single MultiLineString blob.
func linesWKB(lines []geom.LineString) []byte {
	if len(lines) == 0 {
		return nil
	}
	return geom.NewMultiLineString(lines).AsBinary()
}
