package gesture

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/geom"
)

// SwipeDirection 挥砍方向
type SwipeDirection int

const (
	// SwipeNone 无挥砍动作
	SwipeNone SwipeDirection = iota
	// SwipeLeft 向左挥砍
	SwipeLeft
	// SwipeRight 向右挥砍
	SwipeRight
	// SwipeUp 向上挥砍
	SwipeUp
	// SwipeDown 向下挥砍
	SwipeDown
)

// String 返回方向名称
func (d SwipeDirection) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return "none"
	}
}

// Classifier 基于轨迹位移判断是否发生了挥砍及其方向
type Classifier struct {
	tracker   *Tracker
	threshold float64 // 位移阈值（像素）
}

// NewClassifier 创建手势分类器
func NewClassifier(tracker *Tracker, threshold float64) *Classifier {
	return &Classifier{tracker: tracker, threshold: threshold}
}

// IsSwipe 判断食指轨迹是否构成挥砍
func (c *Classifier) IsSwipe() bool {
	return c.Direction() != SwipeNone
}

// Direction 返回当前挥砍方向
// 至少需要 3 个轨迹点；首尾位移超过阈值时按角度象限分类
// （屏幕坐标 y 向下：-45°..45° 右，45°..135° 下，依此类推）。
func (c *Classifier) Direction() SwipeDirection {
	v, ok := c.displacement()
	if !ok || v.Len() <= c.threshold {
		return SwipeNone
	}

	angle := geom.AngleOf(v)
	switch {
	case angle >= -45 && angle < 45:
		return SwipeRight
	case angle >= 45 && angle < 135:
		return SwipeDown
	case angle >= -135 && angle < -45:
		return SwipeUp
	default:
		return SwipeLeft
	}
}

// Vector 返回挥砍位移向量，供切割特效确定方向
func (c *Classifier) Vector() mgl64.Vec2 {
	v, ok := c.displacement()
	if !ok {
		return mgl64.Vec2{}
	}
	return v
}

func (c *Classifier) displacement() (mgl64.Vec2, bool) {
	pts := c.tracker.channels[ChannelIndex]
	if len(pts) < 3 {
		return mgl64.Vec2{}, false
	}
	return pts[len(pts)-1].Pos.Sub(pts[0].Pos), true
}
