// Package localtree implements the local tree search (C5): per tick, try a direct
// connection into the global roadmap; on failure, grow a disposable tree around the
// agent's current pose, extending only where cumulative collision-free probability stays
// above the safety threshold, and attempt a hand-off into the global roadmap from every
// newly added leaf.
package localtree

import (
	"math"
	"math/rand"

	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/model"
	"go.artnav.dev/art/motionplan/roadmap"
	"go.artnav.dev/art/motionplan/safety"
	"go.artnav.dev/art/motionplan/sampling"
)

// Node is a local-tree arena element (spec.md §3, §9).
type Node struct {
	Position model.Point
	// Angle is the heading of travel the agent arrives at this node with.
	Angle  float64
	Parent int
	// Time is the cumulative elapsed time from the agent's current pose to this node.
	Time float64
	// Safeness is the cumulative free-probability from the agent's current pose to this
	// node; monotonically non-increasing along parent chains (spec.md §3).
	Safeness float64
}

// Params configures the searcher.
type Params struct {
	Radius                float64
	FreeMargin            float64
	Speed                 float64
	TurningSpeed          float64
	SafetyThreshold       float64
	MaxEdgeLocal          float64
	LocalMaxSize          int
	LocalWindowHalfExtent float64
	SampleGrowthSteps     int
}

// Searcher drives the per-tick plan() operation.
type Searcher struct {
	params Params
	eval   safety.Evaluator
}

// NewSearcher constructs a Searcher from Params.
func NewSearcher(p Params) *Searcher {
	return &Searcher{
		params: p,
		eval: safety.Evaluator{
			Radius:       p.Radius,
			FreeMargin:   p.FreeMargin,
			TurningSpeed: p.TurningSpeed,
		},
	}
}

// Result is the outcome of a successful plan() call: the full waypoint list (local-tree
// chain, if any, followed by the global-node positions from the hand-off point to the
// goal) and the total elapsed time from the current pose to the goal.
type Result struct {
	Waypoints   model.Waypoints
	ArrivalTime float64
}

// Search implements spec.md §4.5: direct hand-off first, then local tree growth seeded
// with the previous tick's waypoints.
func (s *Searcher) Search(
	pose model.Pose,
	view model.View,
	globalNodes []roadmap.Node,
	previousWaypoints model.Waypoints,
	rng *rand.Rand,
) (Result, bool) {
	// Step 1: direct hand-off.
	if wp, arrival, ok := FindGlobalTree(
		pose.Position, pose.Angle, 0, 1,
		globalNodes, view.Obstacles, view.Pedestrians, s.eval, s.params.Speed, s.params.SafetyThreshold,
	); ok {
		return Result{Waypoints: wp, ArrivalTime: arrival}, true
	}

	// Step 2: local tree growth.
	nodes := []Node{{Position: pose.Position, Angle: pose.Angle, Parent: -1, Time: 0, Safeness: 1}}

	half := s.params.LocalWindowHalfExtent
	local := geomkernel.Rect{
		XMin: pose.Position.X - half, XMax: pose.Position.X + half,
		YMin: pose.Position.Y - half, YMax: pose.Position.Y + half,
	}
	sampler := sampling.NewPrependThenLocal(rng, previousWaypoints, local, view.Bounds, s.params.SampleGrowthSteps)

	var best Result
	haveBest := false

	maxEdge := s.params.MaxEdgeLocal
	if maxEdge <= 0 {
		maxEdge = 2 * s.params.Radius
	}

	for i := 0; i < s.params.LocalMaxSize && len(nodes)-1 < s.params.LocalMaxSize; i++ {
		c := sampler.Next()

		nIdx := s.bestExtensionTarget(nodes, c, view)
		if nIdx < 0 {
			continue
		}

		added := s.extend(&nodes, nIdx, c, maxEdge, view)
		for _, li := range added {
			leaf := nodes[li]
			wp, arrival, ok := FindGlobalTree(
				leaf.Position, leaf.Angle, leaf.Time, leaf.Safeness,
				globalNodes, view.Obstacles, view.Pedestrians, s.eval, s.params.Speed, s.params.SafetyThreshold,
			)
			if !ok {
				continue
			}
			if !haveBest || arrival < best.ArrivalTime {
				haveBest = true
				best = Result{Waypoints: append(chainPositions(nodes, li), wp...), ArrivalTime: arrival}
			}
		}
	}

	return best, haveBest
}

// bestExtensionTarget finds the local-tree node n* whose cumulative safeness to c stays
// at or above the safety threshold and whose arrival time at c is minimal.
func (s *Searcher) bestExtensionTarget(nodes []Node, c model.Point, view model.View) int {
	best := -1
	bestCost := math.Inf(1)
	for idx, n := range nodes {
		d := c.Sub(n.Position)
		dist := d.Norm()
		var heading float64
		if dist < 1e-9 {
			heading = n.Angle
		} else {
			heading = math.Atan2(d.Y, d.X)
		}
		combined := s.eval.CombinedMoveSafeness(n.Position, c, n.Angle, heading, s.params.Speed, n.Time, view.Obstacles, view.Pedestrians)
		if !combined.Feasible() {
			continue
		}
		if n.Safeness*combined.Value() < s.params.SafetyThreshold {
			continue
		}
		turnDur := math.Abs(geomkernel.AngleDiff(n.Angle, heading)) / s.params.TurningSpeed
		travelDur := dist / s.params.Speed
		cost := n.Time + turnDur + travelDur
		if cost < bestCost {
			bestCost = cost
			best = idx
		}
	}
	return best
}

// extend subdivides the edge from nodes[nIdx] to c into pieces no longer than maxEdge,
// appending one node per piece with the previous subdivision node as parent (unlike the
// global roadmap builder's §9 quirk, this chains correctly by construction). It stops as
// soon as any piece fails safety or drops cumulative safeness below threshold, or once the
// tree already holds LocalMaxSize nodes besides its root, returning the indices of
// whatever nodes were successfully appended.
func (s *Searcher) extend(nodes *[]Node, nIdx int, c model.Point, maxEdge float64, view model.View) []int {
	n := (*nodes)[nIdx]
	total := c.Sub(n.Position).Norm()
	if total < 1e-9 {
		return nil
	}
	numPieces := int(math.Ceil(total / maxEdge))
	if numPieces < 1 {
		numPieces = 1
	}
	unit := c.Sub(n.Position).Mul(1 / total)
	heading := math.Atan2(unit.Y, unit.X)

	var added []int
	prevIdx := nIdx
	for i := 1; i <= numPieces; i++ {
		if len(*nodes)-1 >= s.params.LocalMaxSize {
			break
		}
		pos := n.Position.Add(unit.Mul(total * float64(i) / float64(numPieces)))
		if i == numPieces {
			pos = c
		}
		prev := (*nodes)[prevIdx]

		var combined safety.Outcome
		var turnDur float64
		if i == 1 {
			combined = s.eval.CombinedMoveSafeness(prev.Position, pos, prev.Angle, heading, s.params.Speed, prev.Time, view.Obstacles, view.Pedestrians)
			turnDur = math.Abs(geomkernel.AngleDiff(prev.Angle, heading)) / s.params.TurningSpeed
		} else {
			combined = s.eval.StraightMoveSafeness(prev.Position, pos, s.params.Speed, prev.Time, view.Obstacles, view.Pedestrians)
		}
		if !combined.Feasible() {
			break
		}
		newSafeness := prev.Safeness * combined.Value()
		if newSafeness < s.params.SafetyThreshold {
			break
		}

		dist := pos.Sub(prev.Position).Norm()
		travelDur := dist / s.params.Speed
		*nodes = append(*nodes, Node{
			Position: pos,
			Angle:    heading,
			Parent:   prevIdx,
			Time:     prev.Time + turnDur + travelDur,
			Safeness: newSafeness,
		})
		newIdx := len(*nodes) - 1
		added = append(added, newIdx)
		prevIdx = newIdx
	}
	return added
}

// chainPositions walks from the root to node idx, returning the positions in root-to-leaf
// order.
func chainPositions(nodes []Node, idx int) model.Waypoints {
	var rev model.Waypoints
	for cur := idx; cur != -1; cur = nodes[cur].Parent {
		rev = append(rev, nodes[cur].Position)
	}
	out := make(model.Waypoints, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}

// FindGlobalTree walks the pre-sorted global node list in ascending time-to-goal order
// and returns the first node g such that the composite plan (fromPos/fromAngle -> g ->
// parent chain to goal) has end-to-end safeness at or above the safety threshold, testing
// every edge along the way against the given obstacles and pedestrians (spec.md §4.5).
func FindGlobalTree(
	fromPos model.Point,
	fromAngle float64,
	startTime, startSafeness float64,
	globalNodes []roadmap.Node,
	obstacles []model.Obstacle,
	pedestrians []model.Pedestrian,
	eval safety.Evaluator,
	speed, tau float64,
) (model.Waypoints, float64, bool) {
	for gi, g := range globalNodes {
		d := g.Position.Sub(fromPos)
		dist := d.Norm()
		heading := fromAngle
		if dist >= 1e-9 {
			heading = math.Atan2(d.Y, d.X)
		}

		combined := eval.CombinedMoveSafeness(fromPos, g.Position, fromAngle, heading, speed, startTime, obstacles, pedestrians)
		if !combined.Feasible() {
			continue
		}
		cum := startSafeness * combined.Value()
		if cum < tau {
			continue
		}

		turnDur := math.Abs(geomkernel.AngleDiff(fromAngle, heading)) / eval.TurningSpeed
		elapsed := startTime + turnDur + dist/speed
		arrivalHeading := heading

		feasible := true
		cur := gi
		for globalNodes[cur].Parent != -1 {
			node := globalNodes[cur]
			turnSaf := eval.TurnSafeness(node.Position, arrivalHeading, node.Angle, elapsed, pedestrians)
			if !turnSaf.Feasible() {
				feasible = false
				break
			}
			cum *= turnSaf.Value()
			if cum < tau {
				feasible = false
				break
			}
			elapsed += math.Abs(geomkernel.AngleDiff(arrivalHeading, node.Angle)) / eval.TurningSpeed

			parent := globalNodes[node.Parent]
			moveSaf := eval.StraightMoveSafeness(node.Position, parent.Position, speed, elapsed, obstacles, pedestrians)
			if !moveSaf.Feasible() {
				feasible = false
				break
			}
			cum *= moveSaf.Value()
			if cum < tau {
				feasible = false
				break
			}
			elapsed += node.Position.Sub(parent.Position).Norm() / speed
			arrivalHeading = node.Angle
			cur = node.Parent
		}
		if !feasible {
			continue
		}
		return buildWaypoints(gi, globalNodes), elapsed, true
	}
	return nil, 0, false
}

func buildWaypoints(gi int, nodes []roadmap.Node) model.Waypoints {
	var wp model.Waypoints
	for cur := gi; ; cur = nodes[cur].Parent {
		wp = append(wp, nodes[cur].Position)
		if nodes[cur].Parent == -1 {
			break
		}
	}
	return wp
}
