// Package geomkernel is the pure, allocation-free 2D geometry kernel (C1): point/segment
// distance tests and signed angle differences, used by every other planner package.
package geomkernel

import (
	"math"

	"github.com/golang/geo/r2"
)

const eps = 1e-9

// Rect is an axis-aligned rectangle, used for world bounds and sampling windows.
type Rect struct {
	XMin, XMax, YMin, YMax float64
}

// ClampSeg returns the closest point on segment a-b to p, along with the interpolation
// parameter t in [0,1] used to reach it from a. Degenerate (zero-length) segments clamp
// to a.
func ClampSeg(p, a, b r2.Point) (r2.Point, float64) {
	ab := b.Sub(a)
	ab2 := ab.Dot(ab)
	if ab2 < eps {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / ab2
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return a.Add(ab.Mul(t)), t
}

// PointSegDist2 is the squared distance from p to segment a-b.
func PointSegDist2(p, a, b r2.Point) float64 {
	closest, _ := ClampSeg(p, a, b)
	d := p.Sub(closest)
	return d.Dot(d)
}

// SegSegDist2 is the squared distance between segments a1-a2 and b1-b2, clamped to
// endpoints. Returns 0 if the segments intersect or touch.
func SegSegDist2(a1, a2, b1, b2 r2.Point) float64 {
	if segmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	return math.Min(
		math.Min(PointSegDist2(a1, b1, b2), PointSegDist2(a2, b1, b2)),
		math.Min(PointSegDist2(b1, a1, a2), PointSegDist2(b2, a1, a2)),
	)
}

// AngleDiff is the signed minimal angular difference beta-alpha, in (-pi, pi].
func AngleDiff(alpha, beta float64) float64 {
	return math.Atan2(math.Sin(beta-alpha), math.Cos(beta-alpha))
}

func orientation(a, b, c r2.Point) float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	return ab.X*ac.Y - ab.Y*ac.X
}

func onSegment(a, b, c r2.Point) bool {
	return math.Min(a.X, b.X)-eps <= c.X && c.X <= math.Max(a.X, b.X)+eps &&
		math.Min(a.Y, b.Y)-eps <= c.Y && c.Y <= math.Max(a.Y, b.Y)+eps
}

func segmentsIntersect(a1, a2, b1, b2 r2.Point) bool {
	d1 := orientation(b1, b2, a1)
	d2 := orientation(b1, b2, a2)
	d3 := orientation(a1, a2, b1)
	d4 := orientation(a1, a2, b2)

	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	if math.Abs(d1) <= eps && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) <= eps && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) <= eps && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) <= eps && onSegment(a1, a2, b2) {
		return true
	}
	return false
}
