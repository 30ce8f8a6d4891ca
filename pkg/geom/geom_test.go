package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestSegmentCircleIntersect_ThroughCircle 线段穿过圆心附近应判定相交
func TestSegmentCircleIntersect_ThroughCircle(t *testing.T) {
	p0 := mgl64.Vec2{0, 0}
	p1 := mgl64.Vec2{100, 0}
	center := mgl64.Vec2{50, 0}

	if !SegmentCircleIntersect(p0, p1, center, 40) {
		t.Errorf("Expected segment through circle to intersect")
	}
}

func TestSegmentCircleIntersect_Miss(t *testing.T) {
	p0 := mgl64.Vec2{0, 0}
	p1 := mgl64.Vec2{100, 0}
	center := mgl64.Vec2{50, 50}

	if SegmentCircleIntersect(p0, p1, center, 40) {
		t.Errorf("Expected segment far from circle to miss")
	}
}

// TestSegmentCircleIntersect_Degenerate 退化线段等价于点在圆内测试
func TestSegmentCircleIntersect_Degenerate(t *testing.T) {
	cases := []struct {
		name   string
		p      mgl64.Vec2
		center mgl64.Vec2
		radius float64
		want   bool
	}{
		{"point inside", mgl64.Vec2{3, 4}, mgl64.Vec2{0, 0}, 6, true},
		{"point on boundary", mgl64.Vec2{3, 4}, mgl64.Vec2{0, 0}, 5, true},
		{"point outside", mgl64.Vec2{3, 4}, mgl64.Vec2{0, 0}, 4, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SegmentCircleIntersect(tc.p, tc.p, tc.center, tc.radius)
			if got != tc.want {
				t.Errorf("SegmentCircleIntersect(p,p) = %v, want %v", got, tc.want)
			}
			if got != PointInCircle(tc.p, tc.center, tc.radius) {
				t.Errorf("degenerate segment must equal point-in-circle test")
			}
		})
	}
}

func TestClosestPointOnSegment_Clamped(t *testing.T) {
	p0 := mgl64.Vec2{0, 0}
	p1 := mgl64.Vec2{10, 0}

	// 投影落在线段之外时应被钳制到端点
	got := ClosestPointOnSegment(p0, p1, mgl64.Vec2{-5, 3})
	if got != p0 {
		t.Errorf("Expected clamp to p0, got %v", got)
	}

	got = ClosestPointOnSegment(p0, p1, mgl64.Vec2{15, 3})
	if got != p1 {
		t.Errorf("Expected clamp to p1, got %v", got)
	}

	got = ClosestPointOnSegment(p0, p1, mgl64.Vec2{4, 3})
	if got != (mgl64.Vec2{4, 0}) {
		t.Errorf("Expected projection (4,0), got %v", got)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	if Normalize(mgl64.Vec2{}) != (mgl64.Vec2{}) {
		t.Errorf("Normalize of zero vector must return zero vector")
	}

	n := Normalize(mgl64.Vec2{3, 4})
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", n.Len())
	}
}

func TestAngleOf(t *testing.T) {
	cases := []struct {
		v    mgl64.Vec2
		want float64
	}{
		{mgl64.Vec2{1, 0}, 0},
		{mgl64.Vec2{0, 1}, 90},   // y 向下为正，90° 指向屏幕下方
		{mgl64.Vec2{-1, 0}, 180}, // 区间为 (-180, 180]
		{mgl64.Vec2{0, -1}, -90},
	}
	for _, tc := range cases {
		got := AngleOf(tc.v)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("AngleOf(%v) = %f, want %f", tc.v, got, tc.want)
		}
	}
}

func TestTurnAngle(t *testing.T) {
	// 直线：转折角为 0
	straight := TurnAngle(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{2, 0})
	if math.Abs(straight) > 1e-9 {
		t.Errorf("Expected 0 turn for straight line, got %f", straight)
	}

	// 直角拐弯：转折角为 90
	right := TurnAngle(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{1, 1})
	if math.Abs(right-90) > 1e-9 {
		t.Errorf("Expected 90 turn, got %f", right)
	}
}

func TestQuadraticBezier_Endpoints(t *testing.T) {
	p0 := mgl64.Vec2{0, 0}
	ctrl := mgl64.Vec2{5, 10}
	p1 := mgl64.Vec2{10, 0}

	if QuadraticBezier(p0, ctrl, p1, 0) != p0 {
		t.Errorf("Bezier at t=0 must be p0")
	}
	if QuadraticBezier(p0, ctrl, p1, 1) != p1 {
		t.Errorf("Bezier at t=1 must be p1")
	}

	mid := QuadraticBezier(p0, ctrl, p1, 0.5)
	if math.Abs(mid.X()-5) > 1e-9 || math.Abs(mid.Y()-5) > 1e-9 {
		t.Errorf("Bezier midpoint = %v, want (5,5)", mid)
	}
}
