// Package entities 定义游戏中的活动对象及其工厂。
package entities

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/config"
)

// FruitKind 水果类型（Bomb 为惩罚目标）
type FruitKind int

const (
	FruitApple FruitKind = iota
	FruitBanana
	FruitPeach
	FruitWatermelon
	FruitStrawberry
	FruitBomb
)

// OrdinaryKinds 普通（计分）水果类型列表
var OrdinaryKinds = []FruitKind{FruitApple, FruitBanana, FruitPeach, FruitWatermelon, FruitStrawberry}

// String 返回类型名称
func (k FruitKind) String() string {
	switch k {
	case FruitApple:
		return "apple"
	case FruitBanana:
		return "banana"
	case FruitPeach:
		return "peach"
	case FruitWatermelon:
		return "watermelon"
	case FruitStrawberry:
		return "strawberry"
	case FruitBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Color 返回该类型的展示颜色（也用作粒子特效颜色）
func (k FruitKind) Color() color.RGBA {
	switch k {
	case FruitApple, FruitStrawberry:
		return color.RGBA{R: 255, A: 255}
	case FruitBanana:
		return color.RGBA{R: 255, G: 255, A: 255}
	case FruitPeach:
		return color.RGBA{R: 255, G: 192, B: 203, A: 255}
	case FruitWatermelon:
		return color.RGBA{G: 255, A: 255}
	case FruitBomb:
		return color.RGBA{R: 60, G: 60, B: 60, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

// IsBomb 是否为惩罚目标
func (k FruitKind) IsBomb() bool { return k == FruitBomb }

// RequiresDualSlice 是否需要双指同时切割（大目标规则，西瓜专属）
func (k FruitKind) RequiresDualSlice() bool { return k == FruitWatermelon }

// Fruit 一个下落的圆形目标
// 生成时速度向量经过运动学求解，保证轨迹经过屏幕中央区域且最高点
// 落在配置的高度带内。切割后位置冻结，等待延迟移除。
type Fruit struct {
	Pos        mgl64.Vec2
	Vel        mgl64.Vec2
	Radius     float64
	Kind       FruitKind
	AngularVel float64 // 角速度（度/秒）
	Rotation   float64 // 当前旋转角（度）
	Sliced     bool
	SlicedAt   float64 // 被切割的时刻（秒），未切割时无意义
}

// NewFruit 在 (x, y) 生成指定类型的水果并求解其发射速度
// rng 由调用方注入，测试可传入固定种子。
func NewFruit(x, y float64, kind FruitKind, cfg *config.TuningConfig, rng *rand.Rand) *Fruit {
	dir := launchDirection(x, y, cfg, rng)
	return &Fruit{
		Pos:        mgl64.Vec2{x, y},
		Vel:        dir.Mul(cfg.LaunchSpeed),
		Radius:     cfg.FruitRadius,
		Kind:       kind,
		AngularVel: (rng.Float64()*2 - 1) * cfg.AngularVelocity,
	}
}

// Slice 标记水果为已切割并记录时刻；重复调用无效果
func (f *Fruit) Slice(now float64) {
	if f.Sliced {
		return
	}
	f.Sliced = true
	f.SlicedAt = now
}

// IsOffScreen 判断是否已离开可见区域
// 只有左、右、底边算出界；从顶部飞出是正常的抛物线上升段。
func (f *Fruit) IsOffScreen() bool {
	return f.Pos.X() < -f.Radius ||
		f.Pos.X() > config.GameWindowWidth+f.Radius ||
		f.Pos.Y() > config.GameWindowHeight+f.Radius
}

// horizontalRange 根据生成点横坐标选择水平分量的取值范围
// 左侧生成偏向右飞，右侧偏向左飞，中部可左可右。
func horizontalRange(x float64) (float64, float64) {
	center := float64(config.GameWindowWidth) / 2
	switch {
	case x < center-100:
		return 0.3, 0.7
	case x > center+100:
		return -0.7, -0.3
	default:
		return -0.5, 0.5
	}
}

// launchDirection 求解单位发射方向
//
// 先在允许的水平分量区间内采样并按单位向量约束导出垂直分量，加入
// 小幅随机扰动后，用 h = v²/(2g) 反解出最高点高度带对应的垂直速度
// 区间；越界时从最近的边界重推垂直分量、再按单位约束回推水平分量
// 并重新夹回区间，最后整体归一化。闭式计算，不需要迭代求解器。
func launchDirection(x, y float64, cfg *config.TuningConfig, rng *rand.Rand) mgl64.Vec2 {
	hmin, hmax := horizontalRange(x)

	hx := hmin + rng.Float64()*(hmax-hmin)
	vy := -math.Sqrt(1 - hx*hx)

	// 小幅随机偏移保持轨迹多样性，随后拉回单位长度再做高度带校验，
	// 保证校验针对的就是最终生效的垂直分量
	hx += rng.Float64()*0.2 - 0.1
	vy += rng.Float64()*0.2 - 0.1
	if l := math.Hypot(hx, vy); l > 0 {
		hx /= l
		vy /= l
	}

	// 目标最高点高度带换算为垂直初速区间
	// rise 为从生成高度算起的上升量；生成点在底边时即为配置值本身。
	spawnHeight := float64(config.GameWindowHeight) - y
	minRise := math.Max(cfg.PeakHeightMin-spawnHeight, 100)
	maxRise := math.Max(cfg.PeakHeightMax-spawnHeight, 100)

	minV := math.Sqrt(2 * config.Gravity * minRise)
	maxV := math.Sqrt(2 * config.Gravity * maxRise)

	vertical := math.Abs(vy) * cfg.LaunchSpeed
	if vertical > maxV {
		hx, vy = clampToVertical(maxV/cfg.LaunchSpeed, hmin, hmax)
	} else if vertical < minV {
		hx, vy = clampToVertical(minV/cfg.LaunchSpeed, hmin, hmax)
	}

	dir := mgl64.Vec2{hx, vy}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return dir
}

// clampToVertical 以给定的垂直分量（单位向量意义下）重建方向：
// 按单位长度约束回推水平分量，恢复区间符号并夹回范围，再重推垂直分量。
func clampToVertical(v float64, hmin, hmax float64) (float64, float64) {
	vy := -v
	hx := math.Sqrt(math.Max(1-vy*vy, 0))
	if hmin < 0 && hmax < 0 {
		hx = -hx
	}
	hx = math.Max(hmin, math.Min(hmax, hx))
	vy = -math.Sqrt(1 - hx*hx)
	return hx, vy
}
