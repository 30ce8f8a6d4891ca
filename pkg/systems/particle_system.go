package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/geom"
)

// Particle 一个短命的特效粒子
type Particle struct {
	Pos     mgl64.Vec2
	Vel     mgl64.Vec2
	Color   color.RGBA
	Size    float64
	Age     float64
	MaxLife float64
}

// Alpha 粒子当前不透明度，随寿命线性衰减
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return math.Max(0, 1-p.Age/p.MaxLife)
}

// ParticleSystem 切割飞溅与炸弹爆炸粒子
// 粒子受半重力下坠，触底时沿法线反弹衰减，寿命耗尽后回收。
type ParticleSystem struct {
	physics   *PhysicsSystem
	rng       *rand.Rand
	particles []Particle
}

// NewParticleSystem 创建粒子系统
func NewParticleSystem(physics *PhysicsSystem, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{physics: physics, rng: rng}
}

// SpawnSliceBurst 在切割点沿挥砍方向喷出一簇果汁粒子
func (ps *ParticleSystem) SpawnSliceBurst(pos, dir mgl64.Vec2, col color.RGBA) {
	base := geom.Normalize(dir)
	if base == (mgl64.Vec2{}) {
		base = mgl64.Vec2{0, -1}
	}
	for i := 0; i < 14; i++ {
		spread := (ps.rng.Float64() - 0.5) * math.Pi / 2
		speed := 120 + ps.rng.Float64()*220
		cos, sin := math.Cos(spread), math.Sin(spread)
		v := mgl64.Vec2{
			base.X()*cos - base.Y()*sin,
			base.X()*sin + base.Y()*cos,
		}.Mul(speed)
		ps.particles = append(ps.particles, Particle{
			Pos:     pos,
			Vel:     v,
			Color:   col,
			Size:    2 + ps.rng.Float64()*3,
			MaxLife: 0.5 + ps.rng.Float64()*0.4,
		})
	}
}

// SpawnExplosion 在爆炸点喷出全方向的火花粒子（炸弹被切中时）
func (ps *ParticleSystem) SpawnExplosion(pos mgl64.Vec2) {
	for i := 0; i < 36; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := 180 + ps.rng.Float64()*320
		col := color.RGBA{R: 255, G: uint8(120 + ps.rng.Intn(120)), A: 255}
		ps.particles = append(ps.particles, Particle{
			Pos:     pos,
			Vel:     mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(speed),
			Color:   col,
			Size:    2 + ps.rng.Float64()*4,
			MaxLife: 0.6 + ps.rng.Float64()*0.5,
		})
	}
}

// Update 推进所有粒子并回收过期的
func (ps *ParticleSystem) Update(dt float64) {
	kept := ps.particles[:0]
	for _, p := range ps.particles {
		p.Age += dt
		if p.Age >= p.MaxLife {
			continue
		}

		p.Vel = mgl64.Vec2{p.Vel.X(), p.Vel.Y() + config.Gravity*0.5*dt}
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))

		// 触底反弹，保留部分动能
		if p.Pos.Y() > config.GameWindowHeight && p.Vel.Y() > 0 {
			p.Vel = ps.physics.Reflect(p.Vel, mgl64.Vec2{0, -1}, 0.5)
			p.Pos = mgl64.Vec2{p.Pos.X(), config.GameWindowHeight}
		}

		kept = append(kept, p)
	}
	ps.particles = kept
}

// Particles 返回当前粒子切片（仅供渲染读取）
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Clear 清空所有粒子（局结束时调用）
func (ps *ParticleSystem) Clear() {
	ps.particles = ps.particles[:0]
}

// Count 当前粒子数
func (ps *ParticleSystem) Count() int {
	return len(ps.particles)
}
