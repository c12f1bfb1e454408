package road

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	maxGrade         = 0.15
	shoulderWidth    = 1.5
	gradeMargin      = 10.0
	bandFree         = 8.0
	riverBankBuffer  = 12.0
	minVertexSpacing = 6.0
	maxSampleRing    = 16
	maxClampPasses   = 64
)

// Grade fits the terrain to the road network: every road gets an
// elevation profile clamped to a 15% grade and stamped under its width,
// with a clamp band easing the shoulders into the surrounding ground.
//
// The pass is a fixed point: profiles are sampled only from cells the
// pass can never write, so running it again against the already-graded
// grid changes nothing.
func Grade(grid *world.Grid, roads []world.Road, bridges []world.Bridge, log zerolog.Logger) {
	if len(roads) == 0 {
		return
	}
	g := &grader{grid: grid, roads: roads, bridges: bridges}
	g.buildMask()

	profiles := make([]roadProfile, len(roads))
	for i, r := range roads {
		profiles[i] = g.profile(r)
	}

	for i, r := range roads {
		g.stampCore(r, profiles[i])
	}
	g.applyBands(profiles)

	log.Debug().Int("roads", len(roads)).Msg("terrain graded under roads")
}

// roadProfile is a road's decimated vertex list with graded elevations.
type roadProfile struct {
	verts []geo.Point
	elevs []float64
	width float64
}

// elevationAt evaluates the profile at a point's projection onto the
// road.
func (p roadProfile) elevationAt(pt geo.Point) float64 {
	if len(p.verts) == 0 {
		return 0
	}
	if len(p.verts) == 1 {
		return p.elevs[0]
	}
	line := geo.Polyline{Points: p.verts}
	_, i, _ := line.NearestPointIndex(pt)
	a, b := p.verts[i], p.verts[i+1]
	hit, _ := geo.NearestOnSegment(pt, a, b)
	segLen := a.Distance(b)
	if segLen < 1e-9 {
		return p.elevs[i]
	}
	t := hit.Distance(a) / segLen
	return geo.LerpF(p.elevs[i], p.elevs[i+1], t)
}

// computeProfiles grades every road's profile against the current
// bridge set without stamping anything. The bridge passes use it to
// compare road elevations at crossings.
func computeProfiles(grid *world.Grid, roads []world.Road, bridges []world.Bridge) []roadProfile {
	g := &grader{grid: grid, roads: roads, bridges: bridges}
	g.buildMask()
	profiles := make([]roadProfile, len(roads))
	for i, r := range roads {
		profiles[i] = g.profile(r)
	}
	return profiles
}

// reprofile regrades a single road, picking up bridges added since the
// last profile pass.
func reprofile(grid *world.Grid, roads []world.Road, bridges []world.Bridge, i int) roadProfile {
	g := &grader{grid: grid, roads: roads, bridges: bridges}
	g.buildMask()
	return g.profile(roads[i])
}

type grader struct {
	grid    *world.Grid
	roads   []world.Road
	bridges []world.Bridge
	// mutable marks cells this pass may write. Cells outside it,
	// including water, bridge footprints, and river banks, are the
	// stable sampling ground for profiles.
	mutable []bool
}

func (g *grader) cellIndex(col, row int) int { return row*g.grid.Cols + col }

// buildMask marks every cell within stamping reach of a road, then
// carves out the protected cells: water, river-bank buffer, and bridge
// footprints.
func (g *grader) buildMask() {
	g.mutable = make([]bool, g.grid.Cols*g.grid.Rows)

	for _, r := range g.roads {
		reach := r.Width/2 + shoulderWidth + gradeMargin + 8
		g.markCorridor(r.Points, reach)
	}

	// Water cells and their bank buffer stay untouched.
	bankCells := int(riverBankBuffer/g.grid.CellSize) + 1
	for row := 0; row < g.grid.Rows; row++ {
		for col := 0; col < g.grid.Cols; col++ {
			if !g.grid.At(col, row).Type.IsWater() {
				continue
			}
			for dr := -bankCells; dr <= bankCells; dr++ {
				for dc := -bankCells; dc <= bankCells; dc++ {
					c, rw := col+dc, row+dr
					if c < 0 || rw < 0 || c >= g.grid.Cols || rw >= g.grid.Rows {
						continue
					}
					g.mutable[g.cellIndex(c, rw)] = false
				}
			}
		}
	}

	for _, br := range g.bridges {
		g.markBridgeFootprint(br, false)
	}
}

func (g *grader) markCorridor(pts []geo.Point, reach float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		box := geo.BoundsOf([]geo.Point{a, b}).Expand(reach)
		minCol, minRow := g.grid.ClampIndex(box.Min.X, box.Min.Z)
		maxCol, maxRow := g.grid.ClampIndex(box.Max.X, box.Max.Z)
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				center := g.grid.CellCenter(col, row)
				if _, d := geo.NearestOnSegment(center, a, b); d <= reach {
					if !g.grid.At(col, row).Type.IsWater() {
						g.mutable[g.cellIndex(col, row)] = true
					}
				}
			}
		}
	}
}

func (g *grader) markBridgeFootprint(br world.Bridge, value bool) {
	dir := geo.Pt(math.Cos(br.Angle), math.Sin(br.Angle))
	a := br.Position.Add(dir.Scale(-br.Length / 2))
	b := br.Position.Add(dir.Scale(br.Length / 2))
	reach := br.Width/2 + 2
	box := geo.BoundsOf([]geo.Point{a, b}).Expand(reach)
	minCol, minRow := g.grid.ClampIndex(box.Min.X, box.Min.Z)
	maxCol, maxRow := g.grid.ClampIndex(box.Max.X, box.Max.Z)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			center := g.grid.CellCenter(col, row)
			if _, d := geo.NearestOnSegment(center, a, b); d <= reach {
				g.mutable[g.cellIndex(col, row)] = value
			}
		}
	}
}

// profile samples ground targets for a road's decimated vertices and
// clamps successive deltas to the grade limit. Vertices on the road's
// own bridge are pinned to the deck; vertices under another road's
// bridge carry the previous elevation forward.
func (g *grader) profile(r world.Road) roadProfile {
	verts := decimate(r.Points, minVertexSpacing)
	elevs := make([]float64, len(verts))
	fixed := make([]bool, len(verts))

	for i, v := range verts {
		if deck, on := g.ownBridgeDeck(r.ID, v); on {
			elevs[i] = deck
			fixed[i] = true
			continue
		}
		if g.underOtherBridge(r.ID, v) && i > 0 {
			elevs[i] = elevs[i-1]
			continue
		}
		elevs[i] = g.sampleGround(v)
	}

	clampToGrade(verts, elevs, fixed)
	return roadProfile{verts: verts, elevs: elevs, width: r.Width}
}

func (g *grader) ownBridgeDeck(roadID int, p geo.Point) (float64, bool) {
	for _, br := range g.bridges {
		if br.RoadID == roadID && br.Position.Distance(p) <= br.Length/2 {
			return br.Elevation, true
		}
	}
	return 0, false
}

func (g *grader) underOtherBridge(roadID int, p geo.Point) bool {
	for _, br := range g.bridges {
		if br.RoadID != roadID && br.Position.Distance(p) <= br.Length/2 {
			return true
		}
	}
	return false
}

// sampleGround reads the natural terrain near a vertex from the closest
// cells the grading pass will never modify, searching outward ring by
// ring and averaging the first ring with any stable cell.
func (g *grader) sampleGround(p geo.Point) float64 {
	col, row := g.grid.ClampIndex(p.X, p.Z)
	if !g.mutable[g.cellIndex(col, row)] {
		return g.grid.At(col, row).Elevation
	}
	for ring := 1; ring <= maxSampleRing; ring++ {
		sum, n := 0.0, 0
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if dr > -ring && dr < ring && dc > -ring && dc < ring {
					continue
				}
				c, rw := col+dc, row+dr
				if c < 0 || rw < 0 || c >= g.grid.Cols || rw >= g.grid.Rows {
					continue
				}
				if g.mutable[g.cellIndex(c, rw)] {
					continue
				}
				sum += g.grid.At(c, rw).Elevation
				n++
			}
		}
		if n > 0 {
			return sum / float64(n)
		}
	}
	return g.grid.ElevationAt(p.X, p.Z)
}

// clampToGrade runs alternating forward and backward passes until the
// profile settles inside the grade limit everywhere.
func clampToGrade(verts []geo.Point, elevs []float64, fixed []bool) {
	n := len(verts)
	for pass := 0; pass < maxClampPasses; pass++ {
		changed := false
		for i := 1; i < n; i++ {
			if fixed[i] {
				continue
			}
			limit := maxGrade * verts[i-1].Distance(verts[i])
			v := geo.Clamp(elevs[i], elevs[i-1]-limit, elevs[i-1]+limit)
			if v != elevs[i] {
				elevs[i] = v
				changed = true
			}
		}
		for i := n - 2; i >= 0; i-- {
			if fixed[i] {
				continue
			}
			limit := maxGrade * verts[i].Distance(verts[i+1])
			v := geo.Clamp(elevs[i], elevs[i+1]-limit, elevs[i+1]+limit)
			if v != elevs[i] {
				elevs[i] = v
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// stampCore writes the profile across the road's own width plus
// shoulder.
func (g *grader) stampCore(r world.Road, p roadProfile) {
	reach := p.width/2 + shoulderWidth
	for i := 1; i < len(p.verts); i++ {
		a, b := p.verts[i-1], p.verts[i]
		ea, eb := p.elevs[i-1], p.elevs[i]
		box := geo.BoundsOf([]geo.Point{a, b}).Expand(reach)
		minCol, minRow := g.grid.ClampIndex(box.Min.X, box.Min.Z)
		maxCol, maxRow := g.grid.ClampIndex(box.Max.X, box.Max.Z)
		segLen := a.Distance(b)
		if segLen < 1e-9 {
			continue
		}
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				if !g.mutable[g.cellIndex(col, row)] {
					continue
				}
				center := g.grid.CellCenter(col, row)
				hit, d := geo.NearestOnSegment(center, a, b)
				if d > reach {
					continue
				}
				t := hit.Distance(a) / segLen
				g.grid.At(col, row).Elevation = math.Max(0, geo.LerpF(ea, eb, t))
			}
		}
	}
}

// bandBound is one cell's accumulated clamp interval from every road
// band that touches it.
type bandBound struct {
	lo, hi         float64
	lastLo, lastHi float64
}

// applyBands eases the shoulders: cells in the margin band outside the
// core are clamped toward the road profile, with the allowed deviation
// growing smoothly to bandFree at the outer edge. Overlapping bands
// intersect their intervals; if the intersection is empty the
// last-touching road wins.
func (g *grader) applyBands(profiles []roadProfile) {
	bounds := make(map[int]*bandBound)

	for _, p := range profiles {
		core := p.width/2 + shoulderWidth
		outer := core + gradeMargin
		for i := 1; i < len(p.verts); i++ {
			a, b := p.verts[i-1], p.verts[i]
			ea, eb := p.elevs[i-1], p.elevs[i]
			segLen := a.Distance(b)
			if segLen < 1e-9 {
				continue
			}
			box := geo.BoundsOf([]geo.Point{a, b}).Expand(outer)
			minCol, minRow := g.grid.ClampIndex(box.Min.X, box.Min.Z)
			maxCol, maxRow := g.grid.ClampIndex(box.Max.X, box.Max.Z)
			for row := minRow; row <= maxRow; row++ {
				for col := minCol; col <= maxCol; col++ {
					idx := g.cellIndex(col, row)
					if !g.mutable[idx] {
						continue
					}
					center := g.grid.CellCenter(col, row)
					hit, d := geo.NearestOnSegment(center, a, b)
					if d <= core || d > outer {
						continue
					}
					t := hit.Distance(a) / segLen
					target := geo.LerpF(ea, eb, t)
					allow := bandFree * geo.Smoothstep01((d-core)/gradeMargin)
					lo, hi := math.Max(0, target-allow), target+allow

					bb, ok := bounds[idx]
					if !ok {
						bb = &bandBound{lo: lo, hi: hi}
						bounds[idx] = bb
					} else {
						bb.lo = math.Max(bb.lo, lo)
						bb.hi = math.Min(bb.hi, hi)
					}
					bb.lastLo, bb.lastHi = lo, hi
				}
			}
		}
	}

	// Each cell's write depends only on its own bounds, so map order
	// does not matter.
	for idx, bb := range bounds {
		lo, hi := bb.lo, bb.hi
		if lo > hi {
			lo, hi = bb.lastLo, bb.lastHi
		}
		cell := g.grid.At(idx%g.grid.Cols, idx/g.grid.Cols)
		cell.Elevation = geo.Clamp(cell.Elevation, lo, hi)
	}
}

// decimate thins a polyline to a minimum vertex spacing, always keeping
// both endpoints.
func decimate(pts []geo.Point, minSpacing float64) []geo.Point {
	if len(pts) < 3 {
		return pts
	}
	out := []geo.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if pts[i].Distance(out[len(out)-1]) >= minSpacing {
			out = append(out, pts[i])
		}
	}
	return append(out, pts[len(pts)-1])
}
