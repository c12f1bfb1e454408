// Package road builds the hierarchical road network: a cross-map
// corridor, inter-settlement highways, connector roads, intersection
// resolution, bridges at water and grade-separated crossings, and the
// terrain grading that fits the grid to the finished network.
package road

import (
	"math"

	"github.com/graywick/mapforge/pkg/geo"
	"github.com/graywick/mapforge/pkg/rng"
	"github.com/graywick/mapforge/pkg/world"
)

const (
	controlSpacing  = 90.0
	maxAvoidPush    = 120.0
	avoidClearance  = 35.0
	splineSamples   = 6
	splineTension   = 0.5
	lakeDetourScale = 1.4
	edgeInset       = 5.0
)

// typeCurvature is the wiggle budget per road class, in deviation per
// meter of chord. Interstates run nearly straight, dirt tracks wander.
func typeCurvature(t world.RoadType) float64 {
	switch t {
	case world.RoadInterstate, world.RoadBridge:
		return 0.02
	case world.RoadHighway:
		return 0.06
	case world.RoadTown:
		return 0.10
	default:
		return 0.15
	}
}

// avoidZone is a circular region paths steer around: a settlement disc,
// a lake, or an already-placed bridge.
type avoidZone struct {
	center geo.Point
	radius float64
}

// pathBuilder carries the shared state for smooth path construction.
type pathBuilder struct {
	stream *rng.Stream
	grid   *world.Grid
	lakes  []avoidZone
	avoid  []avoidZone
}

// route builds a smooth path between two points, detouring around a
// lake with a single perpendicular waypoint when the straight chord
// crosses one.
func (pb *pathBuilder) route(a, b geo.Point, rt world.RoadType) []geo.Point {
	if lake, hit := pb.lakeBetween(a, b); hit {
		w := detourWaypoint(a, b, lake)
		first := pb.smoothPath(a, w, rt)
		second := pb.smoothPath(w, b, rt)
		return append(first, second[1:]...)
	}
	return pb.smoothPath(a, b, rt)
}

// smoothPath lays control points along the chord, displaces them with a
// tapered noise-shaped perpendicular deviation, pushes them out of
// avoidance zones, repairs backtracking, and samples the result through
// a Catmull-Rom spline.
func (pb *pathBuilder) smoothPath(a, b geo.Point, rt world.RoadType) []geo.Point {
	length := a.Distance(b)
	if length < 2 {
		return []geo.Point{a, b}
	}
	dir := b.Sub(a).Normalize()
	normal := dir.Perp()
	curv := typeCurvature(rt)

	amp := curv * length * pb.stream.FloatBetween(0.5, 1.0)
	if limit := 0.22 * length; amp > limit {
		amp = limit
	}
	freq := pb.stream.FloatBetween(1, 2.5)
	phase := pb.stream.Angle()

	segments := int(length/controlSpacing) + 1
	controls := make([]geo.Point, 0, segments+1)
	controls = append(controls, a)
	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		taper := geo.Smoothstep(0, 0.2, t) * geo.Smoothstep(1, 0.8, t)
		dev := amp * math.Sin(freq*math.Pi*t+phase) * taper
		dev += curv * 40 * pb.stream.FloatBetween(-1, 1) * taper
		controls = append(controls, a.Lerp(b, t).Add(normal.Scale(dev)))
	}
	controls = append(controls, b)

	pb.pushFromZones(controls, a, b)
	controls = repairPath(controls, dir)

	line := geo.CatmullRom(controls, splineSamples, splineTension)
	return pb.clampToBounds(line.Points)
}

// pushFromZones moves interior control points radially out of avoidance
// zones. The push distance is capped so routes bend around obstacles
// instead of teleporting. Zones holding either endpoint are exempt, or
// a road could never reach its own settlement.
func (pb *pathBuilder) pushFromZones(controls []geo.Point, a, b geo.Point) {
	for i := 1; i < len(controls)-1; i++ {
		for _, zone := range pb.avoid {
			if zone.center.Distance(a) < zone.radius || zone.center.Distance(b) < zone.radius {
				continue
			}
			d := controls[i].Distance(zone.center)
			clear := zone.radius + avoidClearance
			if d >= clear {
				continue
			}
			away := controls[i].Sub(zone.center)
			if away.Length() < 1e-9 {
				away = geo.Pt(1, 0)
			}
			push := clear - d
			if push > maxAvoidPush {
				push = maxAvoidPush
			}
			controls[i] = controls[i].Add(away.Normalize().Scale(push))
		}
	}
}

// repairPath drops control points that step backward along the overall
// direction or bend the path by more than 90 degrees.
func repairPath(pts []geo.Point, dir geo.Point) []geo.Point {
	if len(pts) < 3 {
		return pts
	}

	out := make([]geo.Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		if i < len(pts)-1 && pts[i].Sub(out[len(out)-1]).Dot(dir) <= 0 {
			continue
		}
		out = append(out, pts[i])
	}

	for {
		removed := false
		for i := 1; i+1 < len(out); i++ {
			v1 := out[i].Sub(out[i-1])
			v2 := out[i+1].Sub(out[i])
			if v1.Dot(v2) < 0 {
				out = append(out[:i], out[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			return out
		}
	}
}

// clampToBounds keeps every sampled point on the map.
func (pb *pathBuilder) clampToBounds(pts []geo.Point) []geo.Point {
	halfW := pb.grid.Width()/2 - edgeInset
	halfH := pb.grid.Height()/2 - edgeInset
	for i, p := range pts {
		pts[i] = geo.Pt(geo.Clamp(p.X, -halfW, halfW), geo.Clamp(p.Z, -halfH, halfH))
	}
	return pts
}

// lakeBetween samples the chord and reports the first lake it crosses.
func (pb *pathBuilder) lakeBetween(a, b geo.Point) (avoidZone, bool) {
	for i := 0; i <= 24; i++ {
		p := a.Lerp(b, float64(i)/24)
		for _, lake := range pb.lakes {
			if p.Distance(lake.center) < lake.radius {
				return lake, true
			}
		}
	}
	return avoidZone{}, false
}

// detourWaypoint picks the single waypoint beside a lake that deviates
// least from the straight chord: perpendicular from the chord on the
// side the lake center is not.
func detourWaypoint(a, b geo.Point, lake avoidZone) geo.Point {
	closest, _ := geo.NearestOnSegment(lake.center, a, b)
	away := closest.Sub(lake.center)
	if away.Length() < 1e-9 {
		away = b.Sub(a).Perp()
	}
	return lake.center.Add(away.Normalize().Scale(lake.radius*lakeDetourScale + 40))
}
