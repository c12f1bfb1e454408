package hydrology

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/validation"
	"github.com/graywick/mapforge/pkg/world"
)

func testParams() Params {
	return Params{Extent: world.Extent{Width: 1000, Height: 1000, CellSize: 10}}
}

func rollingGrid(t *testing.T) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(1000, 1000, 10)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			// Gentle deterministic undulation to give banks something to do.
			g.Cells[row][col].Elevation = 8 + 4*math.Sin(float64(col)*0.3)*math.Cos(float64(row)*0.2)
		}
	}
	return g
}

func runHydrology(t *testing.T, seed int64) (*world.Grid, []world.WaterBody) {
	t.Helper()
	g := rollingGrid(t)
	bodies := Run(rng.New(seed), g, testParams(), validation.NewReport(), zerolog.Nop())
	return g, bodies
}

// --- stage tests ---

func TestRunDeterministic(t *testing.T) {
	ga, bodiesA := runHydrology(t, 42)
	gb, bodiesB := runHydrology(t, 42)

	if len(bodiesA) != len(bodiesB) {
		t.Fatalf("body counts differ: %d vs %d", len(bodiesA), len(bodiesB))
	}
	for i := range bodiesA {
		if bodiesA[i].Kind != bodiesB[i].Kind || len(bodiesA[i].Points) != len(bodiesB[i].Points) {
			t.Fatalf("body %d differs", i)
		}
		for j := range bodiesA[i].Points {
			if bodiesA[i].Points[j] != bodiesB[i].Points[j] {
				t.Fatalf("body %d point %d differs", i, j)
			}
		}
	}
	for row := 0; row < ga.Rows; row++ {
		for col := 0; col < ga.Cols; col++ {
			if ga.Cells[row][col].Elevation != gb.Cells[row][col].Elevation {
				t.Fatalf("cell (%d,%d) elevation diverged", col, row)
			}
		}
	}
}

func TestWaterCellsAtZero(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		g, _ := runHydrology(t, seed)
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				cell := g.Cells[row][col]
				if cell.Type.IsWater() && cell.Elevation != 0 {
					t.Fatalf("seed %d: water cell (%d,%d) at %f", seed, col, row, cell.Elevation)
				}
			}
		}
	}
}

func TestLakeDecisionStable(t *testing.T) {
	hasLake := func(bodies []world.WaterBody) bool {
		for _, b := range bodies {
			if b.Kind == world.WaterLake {
				return true
			}
		}
		return false
	}

	_, first := runHydrology(t, 42)
	for i := 0; i < 3; i++ {
		_, again := runHydrology(t, 42)
		if hasLake(first) != hasLake(again) {
			t.Fatal("lake decision flipped between runs of the same seed")
		}
	}
}

func TestLakeSpawnRate(t *testing.T) {
	lakes := 0
	for seed := int64(1); seed <= 30; seed++ {
		_, bodies := runHydrology(t, seed)
		for _, b := range bodies {
			if b.Kind == world.WaterLake {
				lakes++
				break
			}
		}
	}
	// 70% chance: all-or-nothing across 30 seeds would mean a broken draw.
	if lakes == 0 || lakes == 30 {
		t.Errorf("lake spawned in %d of 30 seeds, expected a probabilistic split", lakes)
	}
}

func TestRiverAlwaysPresent(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		_, bodies := runHydrology(t, seed)
		rivers := 0
		for _, b := range bodies {
			if b.Kind == world.WaterRiver {
				rivers++
			}
		}
		if rivers == 0 {
			t.Fatalf("seed %d produced no river", seed)
		}
	}
}

func TestLakePolygonSize(t *testing.T) {
	found := false
	for seed := int64(1); seed <= 20 && !found; seed++ {
		_, bodies := runHydrology(t, seed)
		for _, b := range bodies {
			if b.Kind != world.WaterLake {
				continue
			}
			found = true
			if len(b.Points) < lakePointMin || len(b.Points) > lakePointMax {
				t.Errorf("lake polygon has %d points, want %d-%d", len(b.Points), lakePointMin, lakePointMax)
			}
			if b.Radius <= 0 {
				t.Errorf("lake radius = %f, want > 0", b.Radius)
			}
		}
	}
	if !found {
		t.Skip("no lake across the sampled seeds")
	}
}

// --- river shape tests ---

func TestMeanderEndpointsExact(t *testing.T) {
	s := rng.New(7)
	start := geo.Pt(-500, -100)
	end := geo.Pt(500, 150)
	points := meander(s, start, end, 3, true)

	if points[0] != start {
		t.Errorf("path starts at %v, want %v", points[0], start)
	}
	if points[len(points)-1] != end {
		t.Errorf("path ends at %v, want %v", points[len(points)-1], end)
	}
}

func TestMeanderDeviatesFromChord(t *testing.T) {
	s := rng.New(7)
	start := geo.Pt(-500, 0)
	end := geo.Pt(500, 0)
	points := meander(s, start, end, 3, false)

	maxOffset := 0.0
	for _, p := range points {
		maxOffset = math.Max(maxOffset, math.Abs(p.Z))
	}
	if maxOffset < 10 {
		t.Errorf("max chord deviation %f, want a visible meander", maxOffset)
	}
}

func TestTaper(t *testing.T) {
	if taper(0) != 0 || taper(1) != 0 {
		t.Error("taper should vanish at both endpoints")
	}
	if math.Abs(taper(0.5)-1) > 1e-9 {
		t.Errorf("taper(0.5) = %f, want 1", taper(0.5))
	}
}

func TestRiverStartsOnEdge(t *testing.T) {
	onEdge := func(p geo.Point) bool {
		return math.Abs(math.Abs(p.X)-500) < 1e-9 || math.Abs(math.Abs(p.Z)-500) < 1e-9
	}
	for seed := int64(1); seed <= 10; seed++ {
		_, bodies := runHydrology(t, seed)
		for _, b := range bodies {
			if b.Kind == world.WaterRiver {
				if !onEdge(b.Points[0]) {
					t.Errorf("seed %d: river source %v not on a map edge", seed, b.Points[0])
				}
				break // main river only; tributaries join mid-map
			}
		}
	}
}

// --- painting and slope tests ---

func TestPaintRiverCreatesBed(t *testing.T) {
	g := rollingGrid(t)
	river := world.WaterBody{
		Kind:   world.WaterRiver,
		Points: []geo.Point{geo.Pt(-500, 0), geo.Pt(0, 0), geo.Pt(500, 0)},
		Width:  12,
	}
	paintRiver(g, river)

	col, row, _ := g.Index(0, 0)
	if g.Cells[row][col].Type != world.CellRiver {
		t.Errorf("bed cell type = %s, want river", g.Cells[row][col].Type)
	}
	if g.Cells[row][col].Elevation != 0 {
		t.Errorf("bed elevation = %f, want 0", g.Cells[row][col].Elevation)
	}

	// Bank cells step down toward the bed.
	bank := g.ElevationAt(0, 10)
	far := g.ElevationAt(0, 100)
	if bank >= far {
		t.Errorf("bank elevation %f not below open terrain %f", bank, far)
	}
}

func TestApplySlopeTilts(t *testing.T) {
	g, err := world.NewGrid(1000, 1000, 10)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			g.Cells[row][col].Elevation = 20
		}
	}

	river := world.WaterBody{
		Kind:   world.WaterRiver,
		Points: []geo.Point{geo.Pt(-500, 0), geo.Pt(500, 0)},
	}
	applySlope(rng.New(3), g, river)

	west := g.ElevationAt(-450, 200)
	east := g.ElevationAt(450, 200)
	if west <= east {
		t.Errorf("source side %f not above sink side %f", west, east)
	}
	if _, max := g.ElevationRange(); max <= 20 {
		t.Errorf("max elevation %f should rise above the flat baseline", max)
	}
}

func TestSmoothBanksKeepsWaterAtZero(t *testing.T) {
	g := rollingGrid(t)
	for col := 30; col < 70; col++ {
		g.Cells[50][col].Type = world.CellRiver
		g.Cells[50][col].Elevation = 0
	}

	SmoothBanks(g)

	for col := 30; col < 70; col++ {
		if g.Cells[50][col].Elevation != 0 {
			t.Fatalf("water cell (%d,50) moved to %f", col, g.Cells[50][col].Elevation)
		}
	}
}

func TestSmoothBanksPullsLandDown(t *testing.T) {
	g, err := world.NewGrid(1000, 1000, 10)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			g.Cells[row][col].Elevation = 30
		}
	}
	for col := 0; col < g.Cols; col++ {
		g.Cells[50][col].Type = world.CellRiver
		g.Cells[50][col].Elevation = 0
	}

	SmoothBanks(g)

	adjacent := g.Cells[51][40].Elevation
	if adjacent >= 30 {
		t.Errorf("bank cell stayed at %f next to a zero-elevation river", adjacent)
	}
	far := g.Cells[80][40].Elevation
	if far != 30 {
		t.Errorf("cell outside the bank radius moved to %f", far)
	}
}
