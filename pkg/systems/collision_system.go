package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/entities"
	"github.com/gonewx/fruitslash/pkg/geom"
	"github.com/gonewx/fruitslash/pkg/gesture"
)

// CollisionSystem 手势轨迹与水果的相交检测
// 普通水果命中单条轨迹即可；西瓜（大目标）要求食指与中指两条轨迹
// 同时独立命中。检测只读取轨迹快照，对已切割的水果恒为 false。
type CollisionSystem struct{}

// NewCollisionSystem 创建碰撞检测系统
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

// Detect 检测单条轨迹与水果的碰撞
// 轨迹不足 2 点或水果已被切割时返回 false。
func (cs *CollisionSystem) Detect(trajectory []gesture.TrajectoryPoint, f *entities.Fruit) bool {
	if f.Sliced || len(trajectory) < 2 {
		return false
	}
	for i := 0; i < len(trajectory)-1; i++ {
		if geom.SegmentCircleIntersect(trajectory[i].Pos, trajectory[i+1].Pos, f.Pos, f.Radius) {
			return true
		}
	}
	return false
}

// DetectDual 双指切割检测：两条轨迹都至少 2 点且各自独立命中
func (cs *CollisionSystem) DetectDual(indexTraj, middleTraj []gesture.TrajectoryPoint, f *entities.Fruit) bool {
	if f.Sliced || len(indexTraj) < 2 || len(middleTraj) < 2 {
		return false
	}
	return cs.Detect(indexTraj, f) && cs.Detect(middleTraj, f)
}

// DetectAll 按类型分派检测规则，返回命中的水果集合
// 每个水果的判定彼此独立，评估顺序不影响结果；已切割的水果不会再
// 出现在返回值里（切割幂等由此保证）。
func (cs *CollisionSystem) DetectAll(indexTraj, middleTraj []gesture.TrajectoryPoint, fruits []*entities.Fruit) []*entities.Fruit {
	var hit []*entities.Fruit
	for _, f := range fruits {
		if f.Kind.RequiresDualSlice() {
			if cs.DetectDual(indexTraj, middleTraj, f) {
				hit = append(hit, f)
			}
		} else if cs.Detect(indexTraj, f) {
			hit = append(hit, f)
		}
	}
	return hit
}

// ContactPoint 返回轨迹与水果的首个接触点，用于定位切割特效
// 没有接触时第二个返回值为 false。
func (cs *CollisionSystem) ContactPoint(trajectory []gesture.TrajectoryPoint, f *entities.Fruit) (mgl64.Vec2, bool) {
	for i := 0; i < len(trajectory)-1; i++ {
		if geom.SegmentCircleIntersect(trajectory[i].Pos, trajectory[i+1].Pos, f.Pos, f.Radius) {
			return geom.ClosestPointOnSegment(trajectory[i].Pos, trajectory[i+1].Pos, f.Pos), true
		}
	}
	return mgl64.Vec2{}, false
}
