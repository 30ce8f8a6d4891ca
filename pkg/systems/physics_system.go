// Package systems 承载每帧推进的游戏逻辑：物理、碰撞、生成与粒子特效。
// 所有系统都是单线程的，按固定顺序在主循环中逐个 Update。
package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/entities"
)

// PhysicsSystem 水果的抛体运动
// 统一重力 + 直线速度积分，目标之间无碰撞响应，也不在屏幕边缘反弹。
type PhysicsSystem struct {
	gravity float64
}

// NewPhysicsSystem 创建物理系统
func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{gravity: config.Gravity}
}

// Apply 对单个水果做一步积分；已切割的水果位置冻结
func (ps *PhysicsSystem) Apply(f *entities.Fruit, dt float64) {
	if f.Sliced {
		return
	}
	f.Vel = mgl64.Vec2{f.Vel.X(), f.Vel.Y() + ps.gravity*dt}
	f.Pos = f.Pos.Add(f.Vel.Mul(dt))
	f.Rotation += f.AngularVel * dt
}

// PredictTrajectory 计算给定初始条件下的运动轨迹采样点
// 按 60 步/秒采样，生成时用于校验，也可用于轨迹提示特效。
func (ps *PhysicsSystem) PredictTrajectory(start, vel mgl64.Vec2, duration float64) []mgl64.Vec2 {
	steps := int(duration * 60)
	points := make([]mgl64.Vec2, 0, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / 60
		points = append(points, mgl64.Vec2{
			start.X() + vel.X()*t,
			start.Y() + vel.Y()*t + 0.5*ps.gravity*t*t,
		})
	}
	return points
}

// Reflect 计算速度向量沿法线的反弹
// 游戏主逻辑不反弹，保留给粒子特效撞击地面时使用。
func (ps *PhysicsSystem) Reflect(vel, normal mgl64.Vec2, restitution float64) mgl64.Vec2 {
	dot := vel.Dot(normal)
	return vel.Sub(normal.Mul(2 * dot * restitution))
}
