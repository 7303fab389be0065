// Command artdemo drives the planner against a small fixed scenario for a handful of
// ticks and prints the waypoint list it produces each tick, advancing pedestrians between
// calls the way a host simulation loop would.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap/zapcore"

	"go.artnav.dev/art/config"
	"go.artnav.dev/art/logging"
	"go.artnav.dev/art/motionplan"
	"go.artnav.dev/art/motionplan/model"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file (defaults to the built-in reference config)")
	ticks := flag.Int("ticks", 5, "number of simulation ticks to run")
	flag.Parse()

	logger := logging.New("artdemo", zapcore.InfoLevel)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Read(*configPath, logger)
		if err != nil {
			logger.Errorf("loading config: %v", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	goal := model.Point{X: 600, Y: 400}
	pose := model.Pose{Position: model.Point{X: 40, Y: 40}, Angle: 0}

	view := model.View{
		Obstacles: []model.Obstacle{
			{P1: model.Point{X: 300, Y: 0}, P2: model.Point{X: 300, Y: 300}},
		},
		Pedestrians: []model.Pedestrian{
			{Position: model.Point{X: 320, Y: 240}, Velocity: model.Point{X: 0, Y: -30}, Radius: 5},
		},
		Bounds: model.Bounds{XMin: 0, XMax: 640, YMin: 0, YMax: 480},
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	planner := motionplan.New(cfg, goal, logger, rng, &loggingDebugSink{logger: logger.Named("debug")})
	planner.Init(view)

	if planner.GoalOccupied(view) {
		logger.Warnw("goal occupied at startup", "goal", goal)
	}

	const dt = 1.0 / 30.0
	for t := 0; t < *ticks; t++ {
		waypoints := planner.Plan(dt, pose, view)
		if len(waypoints) == 0 {
			fmt.Printf("tick %d: no feasible plan\n", t)
		} else {
			fmt.Printf("tick %d: %v\n", t, waypoints)
			pose = model.Pose{Position: waypoints[0], Angle: pose.Angle}
		}
		view = advance(view, dt)
	}
}

func advance(view model.View, dt float64) model.View {
	next := model.View{Obstacles: view.Obstacles, Bounds: view.Bounds}
	next.Pedestrians = make([]model.Pedestrian, len(view.Pedestrians))
	for i, ped := range view.Pedestrians {
		next.Pedestrians[i] = model.Pedestrian{
			Position: ped.PositionAt(dt),
			Velocity: ped.Velocity,
			Radius:   ped.Radius,
		}
	}
	return next
}

// loggingDebugSink implements model.DebugSink by logging each draw call, standing in for
// a real renderer.
type loggingDebugSink struct {
	logger logging.Logger
}

func (s *loggingDebugSink) DrawLine(a, b model.Point) {
	s.logger.Debugw("draw_line", "a", a, "b", b)
}

func (s *loggingDebugSink) DrawCircle(center model.Point, radius float64) {
	s.logger.Debugw("draw_circle", "center", center, "radius", radius)
}
