package gesture

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// testConfig 模拟相机与游戏同分辨率，轴向缩放为 1，方便断言坐标
func testConfig() TrackerConfig {
	return DefaultTrackerConfig(800, 600, 800, 600)
}

// hand 构造一帧关键点：食指指尖 (8) 与中指指尖 (12) 放在指定位置
func hand(index, middle mgl64.Vec2) []mgl64.Vec2 {
	lm := make([]mgl64.Vec2, 21)
	lm[landmarkIndexTip] = index
	lm[landmarkMiddleTip] = middle
	return lm
}

func TestTracker_EmptyInputClearsBothChannels(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Update(hand(mgl64.Vec2{10, 10}, mgl64.Vec2{20, 20}), 0)
	tr.Update(hand(mgl64.Vec2{60, 10}, mgl64.Vec2{70, 20}), 0.1)

	if tr.Len(ChannelIndex) == 0 || tr.Len(ChannelMiddle) == 0 {
		t.Fatalf("Expected both channels populated before loss")
	}

	// 检测丢失：空输入清空两条轨迹
	tr.Update(nil, 0.2)

	if tr.Len(ChannelIndex) != 0 {
		t.Errorf("Expected index channel cleared, got %d points", tr.Len(ChannelIndex))
	}
	if tr.Len(ChannelMiddle) != 0 {
		t.Errorf("Expected middle channel cleared, got %d points", tr.Len(ChannelMiddle))
	}
}

func TestTracker_ShortLandmarkListSkipsChannel(t *testing.T) {
	tr := NewTracker(testConfig())

	// 9 个点够食指（索引 8）不够中指（索引 12）
	short := make([]mgl64.Vec2, 9)
	short[landmarkIndexTip] = mgl64.Vec2{10, 10}
	tr.Update(short, 0)

	if tr.Len(ChannelIndex) != 1 {
		t.Errorf("Expected 1 index point, got %d", tr.Len(ChannelIndex))
	}
	if tr.Len(ChannelMiddle) != 0 {
		t.Errorf("Expected middle channel untouched, got %d", tr.Len(ChannelMiddle))
	}
}

func TestTracker_DistanceGateRejectsSlowJitter(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Update(hand(mgl64.Vec2{100, 100}, mgl64.Vec2{}), 0)
	// 移动 1 像素，低于最小门控距离，应被拒绝
	tr.Update(hand(mgl64.Vec2{101, 100}, mgl64.Vec2{}), 0.1)

	if tr.Len(ChannelIndex) != 1 {
		t.Errorf("Expected jitter sample rejected, got %d points", tr.Len(ChannelIndex))
	}
}

func TestTracker_GapFillInterpolates(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Update(hand(mgl64.Vec2{0, 0}, mgl64.Vec2{}), 0)
	// 大跨度移动：距离远超 3×minDistance，应插入中间点
	tr.Update(hand(mgl64.Vec2{200, 0}, mgl64.Vec2{}), 0.1)

	n := tr.Len(ChannelIndex)
	if n <= 2 {
		t.Fatalf("Expected interpolated gap points, got %d total", n)
	}

	// 中间点应落在两端之间且时间戳单调
	pts := tr.Points(ChannelIndex)
	for i := 1; i < len(pts); i++ {
		if pts[i].Timestamp < pts[i-1].Timestamp {
			t.Errorf("Timestamps must be non-decreasing: %f then %f", pts[i-1].Timestamp, pts[i].Timestamp)
		}
		if pts[i].Pos.X() <= pts[i-1].Pos.X() {
			t.Errorf("Interpolated x must increase: %f then %f", pts[i-1].Pos.X(), pts[i].Pos.X())
		}
	}
}

func TestTracker_FIFOCap(t *testing.T) {
	cfg := testConfig()
	tr := NewTracker(cfg)

	for i := 0; i < 200; i++ {
		x := float64(i%30) * 25 // 来回扫，保证每次都超过门控距离
		y := float64(i/30) * 25
		tr.Update(hand(mgl64.Vec2{x, y}, mgl64.Vec2{}), float64(i)*0.05)
	}

	if n := tr.Len(ChannelIndex); n > cfg.MaxPoints {
		t.Errorf("Expected at most %d points, got %d", cfg.MaxPoints, n)
	}
}

func TestTracker_AlphaDecay(t *testing.T) {
	cfg := testConfig()
	tr := NewTracker(cfg)
	tr.Update(hand(mgl64.Vec2{100, 100}, mgl64.Vec2{}), 0)

	// age == 0: alpha 保持 1
	tr.UpdateAlpha(0)
	pts := tr.Points(ChannelIndex)
	if len(pts) != 1 || pts[0].Alpha != 1 {
		t.Fatalf("Expected fresh point with alpha 1, got %+v", pts)
	}

	// 衰减单调不增
	prev := 1.0
	for _, age := range []float64{0.3, 0.6, 0.9, 1.2} {
		tr = NewTracker(cfg)
		tr.Update(hand(mgl64.Vec2{100, 100}, mgl64.Vec2{}), 0)
		tr.UpdateAlpha(age)
		p := tr.Points(ChannelIndex)
		if len(p) != 1 {
			t.Fatalf("Point unexpectedly purged at age %f", age)
		}
		if p[0].Alpha > prev {
			t.Errorf("Alpha must be non-increasing in age: %f then %f", prev, p[0].Alpha)
		}
		want := math.Pow(1-age/cfg.MaxAge, 1.2)
		if math.Abs(p[0].Alpha-want) > 1e-12 {
			t.Errorf("Alpha at age %f = %f, want %f", age, p[0].Alpha, want)
		}
		prev = p[0].Alpha
	}

	// age == MaxAge: alpha 为 0，点被清除
	tr = NewTracker(cfg)
	tr.Update(hand(mgl64.Vec2{100, 100}, mgl64.Vec2{}), 0)
	tr.UpdateAlpha(cfg.MaxAge)
	if tr.Len(ChannelIndex) != 0 {
		t.Errorf("Expected expired point purged at age == MaxAge")
	}
}

func TestTracker_SmoothedPassthroughWhenStraight(t *testing.T) {
	tr := NewTracker(testConfig())
	for i := 0; i < 5; i++ {
		tr.Update(hand(mgl64.Vec2{float64(i) * 50, 100}, mgl64.Vec2{}), float64(i)*0.1)
	}

	raw := tr.Len(ChannelIndex)
	smooth := tr.Smoothed(ChannelIndex)
	if len(smooth) != raw {
		t.Errorf("Straight trajectory must pass through unchanged: raw %d, smooth %d", raw, len(smooth))
	}
}

func TestTracker_SmoothedInsertsArcAtSharpTurn(t *testing.T) {
	tr := NewTracker(testConfig())
	// 直角拐弯：0,0 -> 100,0 -> 100,100
	tr.Update(hand(mgl64.Vec2{0, 0}, mgl64.Vec2{}), 0)
	tr.Update(hand(mgl64.Vec2{100, 0}, mgl64.Vec2{}), 0.1)
	tr.Update(hand(mgl64.Vec2{100, 100}, mgl64.Vec2{}), 0.2)

	raw := tr.Len(ChannelIndex)
	smooth := tr.Smoothed(ChannelIndex)
	if len(smooth) <= raw {
		t.Errorf("Sharp turn must insert bezier arc points: raw %d, smooth %d", raw, len(smooth))
	}
}

func TestTracker_PointsReturnsSnapshot(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Update(hand(mgl64.Vec2{10, 10}, mgl64.Vec2{}), 0)

	snap := tr.Points(ChannelIndex)
	snap[0].Pos = mgl64.Vec2{999, 999}

	if tr.Points(ChannelIndex)[0].Pos == (mgl64.Vec2{999, 999}) {
		t.Errorf("Mutating the snapshot must not affect tracker state")
	}
}
