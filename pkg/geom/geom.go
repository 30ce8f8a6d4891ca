// Package geom provides the 2D geometry helpers shared by the trajectory
// tracker, collision detection and spawn shaping. All functions are pure and
// allocation free.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SegmentCircleIntersect reports whether the segment p0-p1 intersects the
// circle at center with the given radius. A degenerate segment (p0 == p1)
// falls back to a point-in-circle test.
func SegmentCircleIntersect(p0, p1, center mgl64.Vec2, radius float64) bool {
	closest := ClosestPointOnSegment(p0, p1, center)
	d := closest.Sub(center)
	return d.Dot(d) <= radius*radius
}

// ClosestPointOnSegment returns the point on segment p0-p1 nearest to p.
func ClosestPointOnSegment(p0, p1, p mgl64.Vec2) mgl64.Vec2 {
	seg := p1.Sub(p0)
	lenSq := seg.Dot(seg)
	if lenSq == 0 {
		// 线段退化为点
		return p0
	}
	t := mgl64.Clamp(p.Sub(p0).Dot(seg)/lenSq, 0, 1)
	return p0.Add(seg.Mul(t))
}

// PointInCircle reports whether p lies inside or on the circle.
func PointInCircle(p, center mgl64.Vec2, radius float64) bool {
	d := p.Sub(center)
	return d.Dot(d) <= radius*radius
}

// Normalize returns the unit vector of v, or the zero vector when v has
// zero length.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

// AngleOf returns the direction of v in degrees, in (-180, 180].
// Screen coordinates: y grows downward, so positive angles point down.
func AngleOf(v mgl64.Vec2) float64 {
	deg := mgl64.RadToDeg(math.Atan2(v.Y(), v.X()))
	if deg == -180 {
		deg = 180
	}
	return deg
}

// TurnAngle returns the absolute angle in degrees between the directions
// prev->cur and cur->next. Degenerate (zero length) legs yield 0.
func TurnAngle(prev, cur, next mgl64.Vec2) float64 {
	in := Normalize(cur.Sub(prev))
	out := Normalize(cur.Sub(next)) // 注意方向：两个向量都从顶点指出
	if in.Len() == 0 || out.Len() == 0 {
		return 0
	}
	dot := mgl64.Clamp(in.Dot(out), -1, 1)
	// 180° 表示直线，0° 表示折返；转折角 = 180° - 夹角
	return 180 - mgl64.RadToDeg(math.Acos(dot))
}

// QuadraticBezier evaluates a quadratic Bezier curve at t in [0,1].
func QuadraticBezier(p0, ctrl, p1 mgl64.Vec2, t float64) mgl64.Vec2 {
	u := 1 - t
	return p0.Mul(u * u).Add(ctrl.Mul(2 * u * t)).Add(p1.Mul(t * t))
}
