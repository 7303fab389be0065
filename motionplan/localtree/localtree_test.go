package localtree

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.artnav.dev/art/logging"
	"go.artnav.dev/art/motionplan/model"
	"go.artnav.dev/art/motionplan/roadmap"
)

func testParams() Params {
	return Params{
		Radius:                5,
		FreeMargin:            2,
		Speed:                 30,
		TurningSpeed:          2 * math.Pi / 3,
		SafetyThreshold:       0.9,
		MaxEdgeLocal:          10,
		LocalMaxSize:          10,
		LocalWindowHalfExtent: 50,
		SampleGrowthSteps:     10,
	}
}

func buildGlobalNodes(t *testing.T, goal model.Point, obstacles []model.Obstacle, bounds model.Bounds, seed int64) []roadmap.Node {
	t.Helper()
	logger := logging.NewTestLogger(t)
	b := roadmap.NewBuilder(roadmap.Params{
		Radius: 5, FreeMargin: 2, Speed: 30, TurningSpeed: 2 * math.Pi / 3,
		GlobalNodes: 40, MaxEdgeGlobal: 10, RejectionDist2: 1000,
	})
	return b.Build(goal, obstacles, bounds, rand.New(rand.NewSource(seed)), logger)
}

func TestSearchDirectHandoffEmptyWorld(t *testing.T) {
	bounds := model.Bounds{XMin: 0, XMax: 640, YMin: 0, YMax: 480}
	goal := model.Point{X: 600, Y: 400}
	nodes := buildGlobalNodes(t, goal, nil, bounds, 1)

	searcher := NewSearcher(testParams())
	pose := model.Pose{Position: model.Point{X: 40, Y: 40}, Angle: 0}
	view := model.View{Bounds: bounds}

	result, ok := searcher.Search(pose, view, nodes, nil, rand.New(rand.NewSource(1)))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(result.Waypoints), test.ShouldBeGreaterThan, 0)
	test.That(t, result.Waypoints[len(result.Waypoints)-1], test.ShouldResemble, goal)
}

func TestSearchNarrowCorridorStationaryPedestrianFails(t *testing.T) {
	bounds := model.Bounds{XMin: 0, XMax: 640, YMin: 0, YMax: 480}
	goal := model.Point{X: 600, Y: 240}
	// Corridor walls 2*(radius+m)+1 = 2*7+1 = 15 units apart, just wide enough for the
	// agent alone but blocked by a stationary pedestrian parked in the middle.
	obstacles := []model.Obstacle{
		{P1: model.Point{X: 300, Y: 0}, P2: model.Point{X: 300, Y: 232.5}},
		{P1: model.Point{X: 315, Y: 0}, P2: model.Point{X: 315, Y: 232.5}},
		{P1: model.Point{X: 300, Y: 247.5}, P2: model.Point{X: 300, Y: 480}},
		{P1: model.Point{X: 315, Y: 247.5}, P2: model.Point{X: 315, Y: 480}},
	}
	nodes := buildGlobalNodes(t, goal, obstacles, bounds, 2)

	searcher := NewSearcher(testParams())
	pose := model.Pose{Position: model.Point{X: 40, Y: 240}, Angle: 0}
	view := model.View{
		Obstacles:   obstacles,
		Pedestrians: []model.Pedestrian{{Position: model.Point{X: 307, Y: 240}, Velocity: model.Point{}, Radius: 5}},
		Bounds:      bounds,
	}

	_, ok := searcher.Search(pose, view, nodes, nil, rand.New(rand.NewSource(2)))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFindGlobalTreeRejectsWhenGoalSideBlocked(t *testing.T) {
	bounds := model.Bounds{XMin: 0, XMax: 640, YMin: 0, YMax: 480}
	goal := model.Point{X: 600, Y: 400}
	nodes := buildGlobalNodes(t, goal, nil, bounds, 3)

	eval := NewSearcher(testParams()).eval
	// A pedestrian planted directly on the straight line from the agent toward the
	// first global node should make every candidate g infeasible at time 0, unless its
	// position happens not to intersect any of them; use an obstacle instead for a
	// guaranteed block along every line back to the goal.
	obstacles := []model.Obstacle{{P1: model.Point{X: -1000, Y: 39}, P2: model.Point{X: 1000, Y: 41}}}
	_, _, ok := FindGlobalTree(model.Point{X: 40, Y: 40}, 0, 0, 1, nodes, obstacles, nil, eval, 30, 0.9)
	test.That(t, ok, test.ShouldBeFalse)
}
