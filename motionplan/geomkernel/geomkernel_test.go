package geomkernel

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestPointSegDist2(t *testing.T) {
	a := r2.Point{X: 0, Y: 0}
	b := r2.Point{X: 10, Y: 0}

	test.That(t, PointSegDist2(r2.Point{X: 5, Y: 3}, a, b), test.ShouldAlmostEqual, 9.0)
	test.That(t, PointSegDist2(r2.Point{X: -2, Y: 0}, a, b), test.ShouldAlmostEqual, 4.0)
	test.That(t, PointSegDist2(r2.Point{X: 12, Y: 0}, a, b), test.ShouldAlmostEqual, 4.0)
	test.That(t, PointSegDist2(a, a, a), test.ShouldAlmostEqual, 0.0)
}

func TestSegSegDist2Intersecting(t *testing.T) {
	a1, a2 := r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10}
	b1, b2 := r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 0}
	test.That(t, SegSegDist2(a1, a2, b1, b2), test.ShouldAlmostEqual, 0.0)
}

func TestSegSegDist2Parallel(t *testing.T) {
	a1, a2 := r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}
	b1, b2 := r2.Point{X: 0, Y: 5}, r2.Point{X: 10, Y: 5}
	test.That(t, SegSegDist2(a1, a2, b1, b2), test.ShouldAlmostEqual, 25.0)
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(0, math.Pi/2), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, AngleDiff(math.Pi/2, 0), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, math.Abs(AngleDiff(0, math.Pi)), test.ShouldAlmostEqual, math.Pi)

	// Wraps through the short way around the circle.
	test.That(t, AngleDiff(-3*math.Pi/4, 3*math.Pi/4), test.ShouldAlmostEqual, -math.Pi/2)
}

func TestClampSeg(t *testing.T) {
	a, b := r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}
	closest, tParam := ClampSeg(r2.Point{X: -5, Y: 3}, a, b)
	test.That(t, closest, test.ShouldResemble, a)
	test.That(t, tParam, test.ShouldAlmostEqual, 0.0)

	closest, tParam = ClampSeg(r2.Point{X: 5, Y: 3}, a, b)
	test.That(t, closest, test.ShouldResemble, r2.Point{X: 5, Y: 0})
	test.That(t, tParam, test.ShouldAlmostEqual, 0.5)
}
