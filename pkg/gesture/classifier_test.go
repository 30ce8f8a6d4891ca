package gesture

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// swipeAlong 构造一条指定位移的食指轨迹（3 个点以上）
func swipeAlong(t *testing.T, from, to mgl64.Vec2) *Classifier {
	t.Helper()
	tr := NewTracker(testConfig())
	mid := from.Add(to).Mul(0.5)
	tr.Update(hand(from, mgl64.Vec2{}), 0)
	tr.Update(hand(mid, mgl64.Vec2{}), 0.05)
	tr.Update(hand(to, mgl64.Vec2{}), 0.1)
	return NewClassifier(tr, 30)
}

func TestClassifier_TooFewPoints(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Update(hand(mgl64.Vec2{0, 0}, mgl64.Vec2{}), 0)
	c := NewClassifier(tr, 30)

	if c.IsSwipe() {
		t.Errorf("Fewer than 3 points must never classify as swipe")
	}
	if c.Direction() != SwipeNone {
		t.Errorf("Expected SwipeNone, got %v", c.Direction())
	}
}

func TestClassifier_BelowThreshold(t *testing.T) {
	c := swipeAlong(t, mgl64.Vec2{100, 100}, mgl64.Vec2{120, 100})
	if c.IsSwipe() {
		t.Errorf("Displacement of 20 is under the 30px threshold")
	}
}

func TestClassifier_Directions(t *testing.T) {
	cases := []struct {
		name string
		from mgl64.Vec2
		to   mgl64.Vec2
		want SwipeDirection
	}{
		{"right", mgl64.Vec2{0, 100}, mgl64.Vec2{200, 100}, SwipeRight},
		{"left", mgl64.Vec2{400, 100}, mgl64.Vec2{200, 100}, SwipeLeft},
		{"down", mgl64.Vec2{100, 0}, mgl64.Vec2{100, 300}, SwipeDown},
		{"up", mgl64.Vec2{100, 400}, mgl64.Vec2{100, 100}, SwipeUp},
		{"diagonal down-right", mgl64.Vec2{0, 0}, mgl64.Vec2{100, 200}, SwipeDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := swipeAlong(t, tc.from, tc.to)
			if got := c.Direction(); got != tc.want {
				t.Errorf("Direction() = %v, want %v", got, tc.want)
			}
			if !c.IsSwipe() {
				t.Errorf("Expected IsSwipe() = true")
			}
		})
	}
}

func TestClassifier_VectorMatchesDisplacement(t *testing.T) {
	c := swipeAlong(t, mgl64.Vec2{0, 0}, mgl64.Vec2{200, 0})
	v := c.Vector()
	if v.X() <= 0 {
		t.Errorf("Expected positive x displacement, got %v", v)
	}
}
