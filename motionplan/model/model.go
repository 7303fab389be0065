// Package model holds the planner's data model (spec.md §3): poses, static obstacles,
// pedestrian snapshots, the per-tick View, and the waypoint list the planner emits. It sits
// below every algorithmic package so none of them need to import the façade.
package model

import (
	"github.com/golang/geo/r2"

	"go.artnav.dev/art/motionplan/geomkernel"
)

// Point is a 2D point/vector, aliased to r2.Point so the geometry kernel's vector algebra
// (Add, Sub, Mul, Dot, Norm) is usable directly wherever a Point is.
type Point = r2.Point

// Pose is a position plus a heading angle in radians.
type Pose struct {
	Position Point
	Angle    float64
}

// Obstacle is a static line segment.
type Obstacle struct {
	P1, P2 Point
}

// Pedestrian is a moving disc, extrapolated linearly: pos(t) = Position + Velocity*t.
type Pedestrian struct {
	Position Point
	Velocity Point
	Radius   float64
}

// PositionAt linearly extrapolates the pedestrian's position to time t.
func (p Pedestrian) PositionAt(t float64) Point {
	return p.Position.Add(p.Velocity.Mul(t))
}

// Bounds is the world's axis-aligned rectangle.
type Bounds = geomkernel.Rect

// View is the immutable per-tick snapshot the planner consumes.
type View struct {
	Obstacles   []Obstacle
	Pedestrians []Pedestrian
	Bounds      Bounds
}

// Waypoints is an ordered sequence of positions; consumers drive the agent to these in
// order. A nil/empty Waypoints means "no safe plan this tick".
type Waypoints []Point

// DebugSink receives the planner's optional debug-draw primitives. Routed to a no-op by
// default; consumers own rendering (spec.md §6).
type DebugSink interface {
	DrawLine(a, b Point)
	DrawCircle(center Point, radius float64)
}

// NopDebugSink discards every draw call.
type NopDebugSink struct{}

// DrawLine implements DebugSink.
func (NopDebugSink) DrawLine(Point, Point) {}

// DrawCircle implements DebugSink.
func (NopDebugSink) DrawCircle(Point, float64) {}
