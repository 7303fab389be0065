// Package sampling implements the sample generator (C2): a uniform rectangle sampler used
// by the global roadmap builder, and a "prepend-then-extend" sampler used by the local
// tree search that first replays seeded points (the previous tick's waypoints) and then
// draws from a window that grows from the agent's local view out to the world bounds.
package sampling

import (
	"math/rand"

	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/model"
)

// Uniform draws points uniformly from a rectangle.
type Uniform struct {
	rng *rand.Rand
}

// NewUniform constructs a Uniform sampler against the given RNG. The RNG is always
// injected; nothing in this package reaches for a process-wide default (spec.md §5).
func NewUniform(rng *rand.Rand) *Uniform {
	return &Uniform{rng: rng}
}

// Sample draws one point uniformly from rect.
func (u *Uniform) Sample(rect geomkernel.Rect) model.Point {
	x := rect.XMin + u.rng.Float64()*(rect.XMax-rect.XMin)
	y := rect.YMin + u.rng.Float64()*(rect.YMax-rect.YMin)
	return model.Point{X: x, Y: y}
}

// PrependThenLocal is the lazy "prepend-then-extend" sequence of spec.md §4.2: a FIFO of
// seed positions, followed by an unbounded stream of local-window samples drawn from a
// rectangle that grows in `steps` increments from the local window to the world bounds.
type PrependThenLocal struct {
	rng   *rand.Rand
	seeds []model.Point
	local geomkernel.Rect
	world geomkernel.Rect
	steps int
	drawn int
}

// NewPrependThenLocal constructs a sampler seeded with `seeds` (consumed in order, FIFO),
// falling back once exhausted to samples drawn from a rectangle interpolated between
// `local` and `world` over `steps` increments.
func NewPrependThenLocal(rng *rand.Rand, seeds []model.Point, local, world geomkernel.Rect, steps int) *PrependThenLocal {
	cp := make([]model.Point, len(seeds))
	copy(cp, seeds)
	return &PrependThenLocal{rng: rng, seeds: cp, local: local, world: world, steps: steps}
}

// Prepend pushes a point to the front of the seed queue, so it is the very next sample
// returned by Next.
func (s *PrependThenLocal) Prepend(p model.Point) {
	s.seeds = append([]model.Point{p}, s.seeds...)
}

// Next returns the next sample: a remaining seed if any, else a draw from the
// progressively widening local-to-world window.
func (s *PrependThenLocal) Next() model.Point {
	if len(s.seeds) > 0 {
		p := s.seeds[0]
		s.seeds = s.seeds[1:]
		return p
	}

	frac := 1.0
	if s.steps > 0 {
		frac = float64(s.drawn) / float64(s.steps)
		if frac > 1 {
			frac = 1
		}
	}
	s.drawn++

	rect := geomkernel.Rect{
		XMin: lerp(s.local.XMin, s.world.XMin, frac),
		XMax: lerp(s.local.XMax, s.world.XMax, frac),
		YMin: lerp(s.local.YMin, s.world.YMin, frac),
		YMax: lerp(s.local.YMax, s.world.YMax, frac),
	}
	x := rect.XMin + s.rng.Float64()*(rect.XMax-rect.XMin)
	y := rect.YMin + s.rng.Float64()*(rect.YMax-rect.YMin)
	return model.Point{X: x, Y: y}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
