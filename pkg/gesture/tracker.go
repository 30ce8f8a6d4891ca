// Package gesture 将感知端输出的手部关键点转换为游戏空间内的指尖轨迹，
// 并在轨迹之上做挥砍手势分类。
package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/geom"
)

// Channel 标识一条独立跟踪的指尖轨迹
type Channel int

const (
	// ChannelIndex 食指指尖轨迹
	ChannelIndex Channel = iota
	// ChannelMiddle 中指指尖轨迹
	ChannelMiddle
)

// 关键点索引，遵循 MediaPipe 21 点手部关键点约定
const (
	landmarkIndexTip  = 8
	landmarkMiddleTip = 12
)

// TrajectoryPoint 轨迹上的一个采样点
// 由 Tracker 独占所有权，消费方只拿到快照。
type TrajectoryPoint struct {
	Pos       mgl64.Vec2
	Timestamp float64 // 采样时刻（秒）
	Alpha     float64 // 不透明度 [0,1]，随时间衰减
	Speed     float64 // 采样瞬时速度（像素/秒）
}

// TrackerConfig 轨迹跟踪参数
type TrackerConfig struct {
	// ScaleX/ScaleY 相机像素空间到游戏空间的轴向缩放。
	// 坐标映射约定：镜像翻转在采集端完成（自拍视角），这里只做
	// 各轴独立缩放，不做旋转或轴交换。
	ScaleX float64
	ScaleY float64

	MaxPoints    int     // 单通道轨迹点数上限（FIFO 淘汰）
	RenderPoints int     // 衰减后用于渲染/检测的点数上限（均匀抽稀）
	MaxAge       float64 // 点的最大存活时间（秒）

	// 距离门控：minDistance = BaseMinDistance + SpeedGain·min(speed/SpeedScale, SpeedCap)
	BaseMinDistance float64
	SpeedGain       float64
	SpeedScale      float64
	SpeedCap        float64

	// 平滑：转折角超过该阈值（度）时用二次贝塞尔圆角替换顶点
	SmoothTurnThreshold float64
}

// DefaultTrackerConfig 返回按 640×480 相机、800×600 游戏画面标定的默认参数
func DefaultTrackerConfig(cameraW, cameraH, gameW, gameH float64) TrackerConfig {
	return TrackerConfig{
		ScaleX:              gameW / cameraW,
		ScaleY:              gameH / cameraH,
		MaxPoints:           50,
		RenderPoints:        30,
		MaxAge:              1.5,
		BaseMinDistance:     4,
		SpeedGain:           2,
		SpeedScale:          100,
		SpeedCap:            6,
		SmoothTurnThreshold: 30,
	}
}

// Tracker 跟踪两条独立的指尖轨迹（食指、中指）
type Tracker struct {
	cfg      TrackerConfig
	channels [2][]TrajectoryPoint
}

// NewTracker 创建轨迹跟踪器
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{cfg: cfg}
}

// Update 接收一帧手部关键点（相机像素空间）
// 空输入表示检测丢失，清空两条轨迹。关键点不足以取到目标索引时，
// 对应通道本帧不更新，不视为错误。
func (t *Tracker) Update(landmarks []mgl64.Vec2, now float64) {
	if len(landmarks) == 0 {
		t.Clear()
		return
	}

	if len(landmarks) > landmarkIndexTip {
		t.ingest(ChannelIndex, t.toGameSpace(landmarks[landmarkIndexTip]), now)
	}
	if len(landmarks) > landmarkMiddleTip {
		t.ingest(ChannelMiddle, t.toGameSpace(landmarks[landmarkMiddleTip]), now)
	}
}

// Clear 清空两条轨迹
func (t *Tracker) Clear() {
	t.channels[ChannelIndex] = t.channels[ChannelIndex][:0]
	t.channels[ChannelMiddle] = t.channels[ChannelMiddle][:0]
}

func (t *Tracker) toGameSpace(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{p.X() * t.cfg.ScaleX, p.Y() * t.cfg.ScaleY}
}

// ingest 距离门控采样：慢速移动避免过采样，快速移动插值补洞
func (t *Tracker) ingest(ch Channel, pos mgl64.Vec2, now float64) {
	pts := t.channels[ch]

	if len(pts) == 0 {
		t.channels[ch] = append(pts, TrajectoryPoint{Pos: pos, Timestamp: now, Alpha: 1, Speed: 0})
		return
	}

	last := pts[len(pts)-1]
	delta := pos.Sub(last.Pos)
	dist := delta.Len()

	speed := 0.0
	if dt := now - last.Timestamp; dt > 0 {
		speed = dist / dt
	}

	minDist := t.cfg.BaseMinDistance + t.cfg.SpeedGain*math.Min(speed/t.cfg.SpeedScale, t.cfg.SpeedCap)
	if dist*dist <= minDist*minDist {
		return
	}

	// 间隙填充：距离过大时线性插值中间点，避免轨迹断裂
	if dist > 3*minDist {
		n := int(dist / (2 * minDist))
		for i := 1; i <= n; i++ {
			f := float64(i) / float64(n+1)
			pts = append(pts, TrajectoryPoint{
				Pos:       last.Pos.Add(delta.Mul(f)),
				Timestamp: last.Timestamp + f*(now-last.Timestamp),
				Alpha:     last.Alpha + f*(1-last.Alpha),
				Speed:     last.Speed + f*(speed-last.Speed),
			})
		}
	}

	pts = append(pts, TrajectoryPoint{Pos: pos, Timestamp: now, Alpha: 1, Speed: speed})

	// FIFO 淘汰最旧的点
	if over := len(pts) - t.cfg.MaxPoints; over > 0 {
		pts = append(pts[:0], pts[over:]...)
	}
	t.channels[ch] = pts
}

// UpdateAlpha 按点龄衰减不透明度并清理失效点
// alpha = max(0, (1 - age/MaxAge))^1.2；alpha ≤ 0.01 的点被清除；
// 剩余点数超过渲染上限时均匀抽稀。
func (t *Tracker) UpdateAlpha(now float64) {
	for ch := range t.channels {
		pts := t.channels[ch]
		kept := pts[:0]
		for _, p := range pts {
			age := now - p.Timestamp
			base := 1 - age/t.cfg.MaxAge
			if base <= 0 {
				continue
			}
			p.Alpha = math.Pow(base, 1.2)
			if p.Alpha <= 0.01 {
				continue
			}
			kept = append(kept, p)
		}

		if len(kept) > t.cfg.RenderPoints {
			step := len(kept) / t.cfg.RenderPoints
			sub := kept[:0]
			for i := 0; i < len(kept); i += step {
				sub = append(sub, kept[i])
			}
			kept = sub
		}
		t.channels[ch] = kept
	}
}

// Points 返回指定通道的原始轨迹快照
func (t *Tracker) Points(ch Channel) []TrajectoryPoint {
	return append([]TrajectoryPoint(nil), t.channels[ch]...)
}

// Len 返回指定通道当前的轨迹点数
func (t *Tracker) Len(ch Channel) int {
	return len(t.channels[ch])
}

// Smoothed 返回转折圆角化之后的轨迹
// 逐三点判断转折角，超过阈值的顶点替换为 5 点二次贝塞尔弧，控制点
// 按转折锐度与局部速度从顶点外推。每次调用重新计算（轨迹 ≤ 50 点，
// 代价可以接受；若迁移到更大规模需加脏标记缓存）。
func (t *Tracker) Smoothed(ch Channel) []TrajectoryPoint {
	pts := t.channels[ch]
	if len(pts) < 3 {
		return append([]TrajectoryPoint(nil), pts...)
	}

	out := make([]TrajectoryPoint, 0, len(pts)+8)
	out = append(out, pts[0])

	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		turn := geom.TurnAngle(prev.Pos, cur.Pos, next.Pos)
		if turn <= t.cfg.SmoothTurnThreshold {
			out = append(out, cur)
			continue
		}

		// 贝塞尔弧连接相邻两段的中点，顶点外推为控制点
		entry := prev.Pos.Add(cur.Pos).Mul(0.5)
		exit := cur.Pos.Add(next.Pos).Mul(0.5)
		sharpness := (turn - t.cfg.SmoothTurnThreshold) / (180 - t.cfg.SmoothTurnThreshold)
		push := geom.Normalize(cur.Pos.Sub(entry.Add(exit).Mul(0.5)))
		ctrl := cur.Pos.Add(push.Mul(sharpness * math.Min(cur.Speed/t.cfg.SpeedScale, 4)))

		for k := 1; k <= 5; k++ {
			f := float64(k) / 6
			out = append(out, TrajectoryPoint{
				Pos:       geom.QuadraticBezier(entry, ctrl, exit, f),
				Timestamp: cur.Timestamp,
				Alpha:     cur.Alpha,
				Speed:     cur.Speed,
			})
		}
	}

	out = append(out, pts[len(pts)-1])
	return out
}
