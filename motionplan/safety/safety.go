// Package safety implements the safety evaluator (C3): collision-free probability against
// static obstacles and linearly-extrapolated pedestrians for turn-in-place and straight
// moves, composed into the end-to-end safeness used by the roadmap and local tree search.
//
// Every test is a hard veto: the evaluator returns Infeasible as soon as any single check
// fails, otherwise a scalar safeness of 1 for that test. The product of a path's per-move
// outcomes is its cumulative safeness (spec.md §4.3).
package safety

import (
	"math"

	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/model"
)

// Outcome is the tagged result of a safety test: either Infeasible (some check failed) or
// a scalar safeness in (0,1]. A sum type is cleaner than overloading 0.0 as a sentinel
// (spec.md §9) and lets callers short-circuit without losing information.
type Outcome struct {
	feasible bool
	value    float64
}

// Infeasible reports that some collision test failed.
func Infeasible() Outcome { return Outcome{} }

// Safe wraps a safeness value in (0,1].
func Safe(value float64) Outcome { return Outcome{feasible: true, value: value} }

// Feasible reports whether this outcome admits a plan at all.
func (o Outcome) Feasible() bool { return o.feasible }

// Value returns the safeness scalar, or 0 if infeasible.
func (o Outcome) Value() float64 {
	if !o.feasible {
		return 0
	}
	return o.value
}

// Times composes two outcomes by multiplying their safeness, per the product-of-binary-
// tests discipline of spec.md §4.3. Infeasible propagates.
func (o Outcome) Times(other Outcome) Outcome {
	if !o.feasible || !other.feasible {
		return Infeasible()
	}
	return Safe(o.value * other.value)
}

// Evaluator holds the agent parameters the safety tests are computed against: footprint
// radius, free margin, and max angular speed (needed for turn-in-place duration).
type Evaluator struct {
	Radius       float64
	FreeMargin   float64
	TurningSpeed float64
}

func (e Evaluator) pedClearance2(pedRadius float64) float64 {
	c := e.Radius + pedRadius + e.FreeMargin
	return c * c
}

// StaticSafeness fails if any pedestrian, extrapolated to time t, lies within
// radius+ped.radius+m of p.
func (e Evaluator) StaticSafeness(p model.Point, t float64, pedestrians []model.Pedestrian) Outcome {
	for _, ped := range pedestrians {
		pp := ped.PositionAt(t)
		d := p.Sub(pp)
		if d.Dot(d) < e.pedClearance2(ped.Radius) {
			return Infeasible()
		}
	}
	return Safe(1)
}

// TurnSafeness evaluates turning in place at point p from heading a1 to a2, starting at
// time t0. Turn duration is |angle_diff(a1,a2)| / omega; for each pedestrian, the swept
// segment between its position at t0 and at t0+duration is tested against the turn point.
func (e Evaluator) TurnSafeness(p model.Point, a1, a2, t0 float64, pedestrians []model.Pedestrian) Outcome {
	duration := math.Abs(geomkernel.AngleDiff(a1, a2)) / e.TurningSpeed
	for _, ped := range pedestrians {
		p0 := ped.PositionAt(t0)
		p1 := ped.PositionAt(t0 + duration)
		if geomkernel.PointSegDist2(p, p0, p1) < e.pedClearance2(ped.Radius) {
			return Infeasible()
		}
	}
	return Safe(1)
}

// StraightMoveSafeness evaluates a straight move from p1 to p2 at speed v, starting at
// time t0, against static obstacles and pedestrians. A zero-length move reduces to
// StaticSafeness at p1,t0 (spec.md §4.3, §7 DegenerateGeometry).
func (e Evaluator) StraightMoveSafeness(
	p1, p2 model.Point,
	v, t0 float64,
	obstacles []model.Obstacle,
	pedestrians []model.Pedestrian,
) Outcome {
	if p1 == p2 {
		return e.StaticSafeness(p1, t0, pedestrians)
	}

	clearance := e.Radius + e.FreeMargin
	clearance2 := clearance * clearance
	for _, obs := range obstacles {
		if geomkernel.SegSegDist2(obs.P1, obs.P2, p1, p2) < clearance2 {
			return Infeasible()
		}
	}

	delta := p2.Sub(p1)
	dt := delta.Norm() / v
	agentVelocity := delta.Mul(1 / dt)

	for _, ped := range pedestrians {
		pd := p1.Sub(ped.PositionAt(t0))
		vd := agentVelocity.Sub(ped.Velocity)

		var tStar float64
		vd2 := vd.Dot(vd)
		if vd2 > 1e-12 {
			tStar = -pd.Dot(vd) / vd2
		}
		switch {
		case tStar < 0:
			tStar = 0
		case tStar > dt:
			tStar = dt
		}

		closest := pd.Add(vd.Mul(tStar))
		if closest.Dot(closest) < e.pedClearance2(ped.Radius) {
			return Infeasible()
		}
	}
	return Safe(1)
}

// CombinedMoveSafeness evaluates a turn from a1 to a2 at p1 followed by a straight move
// from p1 to p2 at speed v, the two factors multiplied together with the straight move's
// start time offset by the turn duration.
func (e Evaluator) CombinedMoveSafeness(
	p1, p2 model.Point,
	a1, a2, v, t0 float64,
	obstacles []model.Obstacle,
	pedestrians []model.Pedestrian,
) Outcome {
	turn := e.TurnSafeness(p1, a1, a2, t0, pedestrians)
	if !turn.Feasible() {
		return Infeasible()
	}
	duration := math.Abs(geomkernel.AngleDiff(a1, a2)) / e.TurningSpeed
	move := e.StraightMoveSafeness(p1, p2, v, t0+duration, obstacles, pedestrians)
	return turn.Times(move)
}
