// Package motionplan is the planner façade (C6): it owns the global roadmap, is built
// once per goal via Init, and answers Plan once per simulation tick.
package motionplan

import (
	"math/rand"

	"go.artnav.dev/art/config"
	"go.artnav.dev/art/logging"
	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/localtree"
	"go.artnav.dev/art/motionplan/model"
	"go.artnav.dev/art/motionplan/roadmap"
)

// Planner is the public entry point: Init(view) once, then Plan(dt, pose, view) every
// tick (spec.md §4.6).
type Planner struct {
	cfg    config.Config
	goal   model.Point
	logger logging.Logger
	rng    *rand.Rand
	debug  model.DebugSink

	globalNodes   []roadmap.Node
	searcher      *localtree.Searcher
	prevWaypoints model.Waypoints
}

// New constructs a Planner. rng must be supplied by the caller; Planner never reaches for
// a process-wide random source (spec.md §5).
func New(cfg config.Config, goal model.Point, logger logging.Logger, rng *rand.Rand, debug model.DebugSink) *Planner {
	if debug == nil {
		debug = model.NopDebugSink{}
	}
	return &Planner{
		cfg:    cfg,
		goal:   goal,
		logger: logger.Named("motionplan"),
		rng:    rng,
		debug:  debug,
		searcher: localtree.NewSearcher(localtree.Params{
			Radius:                cfg.Radius,
			FreeMargin:            cfg.FreeMargin,
			Speed:                 cfg.Speed,
			TurningSpeed:          cfg.TurningSpeed,
			SafetyThreshold:       cfg.SafetyThreshold,
			MaxEdgeLocal:          cfg.MaxEdgeLocal(),
			LocalMaxSize:          cfg.LocalMaxSize,
			LocalWindowHalfExtent: cfg.LocalWindowHalfExtent,
			SampleGrowthSteps:     cfg.SampleGrowthSteps,
		}),
	}
}

// Init builds the global roadmap once. Must be called before the first Plan.
func (p *Planner) Init(view model.View) {
	builder := roadmap.NewBuilder(roadmap.Params{
		Radius:         p.cfg.Radius,
		FreeMargin:     p.cfg.FreeMargin,
		Speed:          p.cfg.Speed,
		TurningSpeed:   p.cfg.TurningSpeed,
		GlobalNodes:    p.cfg.GlobalNodes,
		MaxEdgeGlobal:  p.cfg.MaxEdgeGlobal(),
		RejectionDist2: p.cfg.RejectionDist2,
	})
	p.globalNodes = builder.Build(p.goal, view.Obstacles, view.Bounds, p.rng, p.logger)
}

// Plan runs one planning tick: direct hand-off, then local tree growth, then assembly of
// the best waypoint list, or an empty list if nothing safe was found (spec.md §7:
// NoFeasiblePlan and GoalOccupied are both signalled this way, not as Go errors). dt is
// accepted for symmetry with the host's simulation loop; the algorithm itself treats pose
// and view as an instantaneous snapshot and does not consume it.
func (p *Planner) Plan(dt float64, pose model.Pose, view model.View) model.Waypoints {
	_ = dt

	if p.GoalOccupied(view) {
		p.logger.Debugw("plan: goal occupied", "goal", p.goal)
		p.prevWaypoints = nil
		return nil
	}

	result, ok := p.searcher.Search(pose, view, p.globalNodes, p.prevWaypoints, p.rng)
	if !ok {
		p.logger.Debugw("plan: no feasible plan this tick", "pose", pose)
		p.prevWaypoints = nil
		return nil
	}

	p.drawDebug(pose, result.Waypoints)
	p.prevWaypoints = result.Waypoints
	return result.Waypoints
}

// GoalOccupied reports whether the goal is blocked by a static obstacle within radius, or
// covered by a stationary pedestrian within its own radius (spec.md §4.6).
func (p *Planner) GoalOccupied(view model.View) bool {
	r2c := p.cfg.Radius * p.cfg.Radius
	for _, obs := range view.Obstacles {
		if geomkernel.PointSegDist2(p.goal, obs.P1, obs.P2) < r2c {
			return true
		}
	}
	for _, ped := range view.Pedestrians {
		if ped.Velocity.X != 0 || ped.Velocity.Y != 0 {
			continue
		}
		d := p.goal.Sub(ped.Position)
		if d.Dot(d) < ped.Radius*ped.Radius {
			return true
		}
	}
	return false
}

func (p *Planner) drawDebug(pose model.Pose, waypoints model.Waypoints) {
	p.debug.DrawCircle(pose.Position, p.cfg.Radius)
	prev := pose.Position
	for _, wp := range waypoints {
		p.debug.DrawLine(prev, wp)
		prev = wp
	}
	p.debug.DrawCircle(p.goal, p.cfg.Radius)
}
