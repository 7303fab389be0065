package sampling

import (
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.artnav.dev/art/motionplan/geomkernel"
	"go.artnav.dev/art/motionplan/model"
)

func TestUniformWithinRect(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	u := NewUniform(rng)
	rect := geomkernel.Rect{XMin: -10, XMax: 10, YMin: 0, YMax: 5}
	for i := 0; i < 200; i++ {
		p := u.Sample(rect)
		test.That(t, p.X, test.ShouldBeBetweenOrEqual, rect.XMin, rect.XMax)
		test.That(t, p.Y, test.ShouldBeBetweenOrEqual, rect.YMin, rect.YMax)
	}
}

func TestPrependThenLocalSeedsFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seeds := []model.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	local := geomkernel.Rect{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	world := geomkernel.Rect{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	s := NewPrependThenLocal(rng, seeds, local, world, 10)

	test.That(t, s.Next(), test.ShouldResemble, model.Point{X: 1, Y: 1})
	test.That(t, s.Next(), test.ShouldResemble, model.Point{X: 2, Y: 2})

	// Seeds exhausted; subsequent draws come from the widening window, not the seed list.
	p := s.Next()
	test.That(t, p.X, test.ShouldBeBetweenOrEqual, local.XMin, world.XMax)
}

func TestPrependThenLocalPrependJumpsQueue(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	local := geomkernel.Rect{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	world := geomkernel.Rect{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	s := NewPrependThenLocal(rng, []model.Point{{X: 9, Y: 9}}, local, world, 10)

	s.Prepend(model.Point{X: 5, Y: 5})
	test.That(t, s.Next(), test.ShouldResemble, model.Point{X: 5, Y: 5})
	test.That(t, s.Next(), test.ShouldResemble, model.Point{X: 9, Y: 9})
}

func TestPrependThenLocalWindowGrowsToWorldBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	local := geomkernel.Rect{XMin: 40, XMax: 60, YMin: 40, YMax: 60}
	world := geomkernel.Rect{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	s := NewPrependThenLocal(rng, nil, local, world, 1)

	// First window sample uses frac=0 (pure local window).
	p0 := s.Next()
	test.That(t, p0.X, test.ShouldBeBetweenOrEqual, local.XMin, local.XMax)

	// Second sample: frac clamps to 1, so the window has fully widened to world bounds.
	for i := 0; i < 50; i++ {
		p := s.Next()
		test.That(t, p.X, test.ShouldBeBetweenOrEqual, world.XMin, world.XMax)
	}
}
