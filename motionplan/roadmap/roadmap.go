// Package roadmap implements the global roadmap builder (C4): a goal-rooted RRT, aware of
// the agent's kinodynamics (forward speed plus turning cost), grown once at
// initialization. Every node carries a precomputed time-to-goal, giving the tree the
// semantics of a time-to-goal potential field over the static obstacle space.
package roadmap

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"go.artnav.dev/art/logging"
	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/model"
	"go.artnav.dev/art/motionplan/sampling"
)

// Node is a global roadmap arena element (spec.md §3, §9: a flat slice addressed by
// integer handle rather than pointers).
type Node struct {
	Position model.Point
	// Angle is the heading of the edge leaving this node toward its parent -- the
	// direction the agent faces when departing this node en route to the goal.
	// Undefined at the root.
	Angle float64
	// Parent is an index into the same slice, or -1 at the root.
	Parent int
	// TimeToGoal is the cumulative kinodynamic cost from this node to the root.
	TimeToGoal float64
}

// Params are the agent/roadmap parameters the builder needs.
type Params struct {
	Radius         float64
	FreeMargin     float64
	Speed          float64
	TurningSpeed   float64
	GlobalNodes    int
	MaxEdgeGlobal  float64
	RejectionDist2 float64
}

// Builder grows the global roadmap.
type Builder struct {
	Params Params
}

// NewBuilder constructs a Builder with the given parameters.
func NewBuilder(p Params) *Builder {
	return &Builder{Params: p}
}

// Build grows a goal-rooted RRT until it holds at least Params.GlobalNodes nodes (the
// final extension's subdivision can overshoot that count) and returns it sorted by
// ascending TimeToGoal (spec.md §4.4). If the goal lies within clearance of an obstacle,
// the returned roadmap is the root alone.
func (b *Builder) Build(
	goal model.Point,
	obstacles []model.Obstacle,
	bounds model.Bounds,
	rng *rand.Rand,
	logger logging.Logger,
) []Node {
	start := time.Now()
	nodes := []Node{{Position: goal, Parent: -1}}
	sampler := sampling.NewUniform(rng)

	clearance := b.Params.Radius + b.Params.FreeMargin
	clearance2 := clearance * clearance

	// An edge ending at the goal is never traversable when the goal itself lies within
	// clearance of an obstacle, so the tree cannot grow past its root.
	for _, obs := range obstacles {
		if geomkernel.PointSegDist2(goal, obs.P1, obs.P2) < clearance2 {
			logger.Debugw("goal within obstacle clearance; global roadmap is the root only", "goal", goal)
			return nodes
		}
	}

	traversable := func(a, c model.Point) bool {
		for _, obs := range obstacles {
			if geomkernel.SegSegDist2(obs.P1, obs.P2, a, c) < clearance2 {
				return false
			}
		}
		return true
	}

	edgeCost := func(c model.Point, n Node) float64 {
		d := c.Sub(n.Position)
		linear := d.Norm() / b.Params.Speed
		if n.Parent == -1 {
			return linear
		}
		headingToN := math.Atan2(-d.Y, -d.X)
		turning := math.Abs(geomkernel.AngleDiff(headingToN, n.Angle)) / b.Params.TurningSpeed
		return linear + turning
	}

	discarded := 0
	maxEdge := b.Params.MaxEdgeGlobal
	if maxEdge <= 0 {
		maxEdge = 2 * b.Params.Radius
	}

	for len(nodes) < b.Params.GlobalNodes {
		c := sampler.Sample(bounds)

		bestNearest2 := math.Inf(1)
		haveTraversable := false
		for _, n := range nodes {
			if !traversable(c, n.Position) {
				continue
			}
			haveTraversable = true
			d2 := c.Sub(n.Position).Dot(c.Sub(n.Position))
			if d2 < bestNearest2 {
				bestNearest2 = d2
			}
		}
		if !haveTraversable {
			discarded++
			continue
		}
		if bestNearest2 < b.Params.RejectionDist2 {
			discarded++
			continue
		}

		bestIdx := -1
		bestCost := math.Inf(1)
		for i, n := range nodes {
			if !traversable(c, n.Position) {
				continue
			}
			cost := n.TimeToGoal + edgeCost(c, n)
			if cost < bestCost {
				bestCost = cost
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			discarded++
			continue
		}

		nodes = subdivide(nodes, bestIdx, c, maxEdge, b.Params.Speed, b.Params.TurningSpeed)
	}

	sorted := sortByTimeToGoal(nodes)
	logger.Debugw("built global roadmap",
		"nodes", len(sorted), "discarded_samples", discarded, "elapsed", time.Since(start))
	return sorted
}

// subdivide extends the tree from node nIdx toward c, adding one node per piece no longer
// than maxEdge, each node's parent the immediately preceding subdivision node (the §9
// quirk fix: the reference implementation kept every subdivision node's parent equal to
// the original nIdx, which left intermediate time_to_goal values inconsistent with their
// immediate predecessor).
func subdivide(nodes []Node, nIdx int, c model.Point, maxEdge, speed, turningSpeed float64) []Node {
	n := nodes[nIdx]
	total := c.Sub(n.Position).Norm()
	if total < 1e-9 {
		return nodes
	}
	numPieces := int(math.Ceil(total / maxEdge))
	if numPieces < 1 {
		numPieces = 1
	}
	unit := c.Sub(n.Position).Mul(1 / total)

	headingToN := math.Atan2(-unit.Y, -unit.X)
	turningAtN := 0.0
	if n.Parent != -1 {
		turningAtN = math.Abs(geomkernel.AngleDiff(headingToN, n.Angle)) / turningSpeed
	}

	prevIdx := nIdx
	for i := 1; i <= numPieces; i++ {
		pos := n.Position.Add(unit.Mul(total * float64(i) / float64(numPieces)))
		if i == numPieces {
			pos = c
		}
		prev := nodes[prevIdx]
		dist := pos.Sub(prev.Position).Norm()
		linear := dist / speed
		turning := 0.0
		if i == 1 {
			turning = turningAtN
		}
		toParent := prev.Position.Sub(pos)
		angle := math.Atan2(toParent.Y, toParent.X)
		nodes = append(nodes, Node{
			Position:   pos,
			Angle:      angle,
			Parent:     prevIdx,
			TimeToGoal: prev.TimeToGoal + linear + turning,
		})
		prevIdx = len(nodes) - 1
	}
	return nodes
}

// sortByTimeToGoal returns nodes sorted ascending by TimeToGoal, remapping every Parent
// index through the same permutation (spec.md §9: "the sort step is a pure index
// permutation").
func sortByTimeToGoal(nodes []Node) []Node {
	perm := make([]int, len(nodes))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(i, j int) bool {
		return nodes[perm[i]].TimeToGoal < nodes[perm[j]].TimeToGoal
	})
	oldToNew := make([]int, len(nodes))
	for newIdx, oldIdx := range perm {
		oldToNew[oldIdx] = newIdx
	}
	sorted := make([]Node, len(nodes))
	for newIdx, oldIdx := range perm {
		node := nodes[oldIdx]
		if node.Parent != -1 {
			node.Parent = oldToNew[node.Parent]
		}
		sorted[newIdx] = node
	}
	return sorted
}
