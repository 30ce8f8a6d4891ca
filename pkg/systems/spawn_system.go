package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/entities"
)

// guideSequence 引导阶段的固定生成顺序（新手引导，每局一次）
var guideSequence = []entities.FruitKind{
	entities.FruitApple, entities.FruitApple,
	entities.FruitStrawberry, entities.FruitStrawberry,
	entities.FruitBanana, entities.FruitBanana,
	entities.FruitWatermelon, entities.FruitWatermelon,
	entities.FruitBomb,
}

// SpawnSystem 管理存活水果集合与生成节奏
//
// 开局先按固定顺序播放引导序列（约 5 秒），之后转入加权随机生成
// （80% 普通水果均匀选取，20% 炸弹）。生成位置排除屏幕中线两侧
// ±10% 的水平区带，避免无趣的垂直直上直下轨迹。
type SpawnSystem struct {
	cfg     *config.TuningConfig
	rng     *rand.Rand
	physics *PhysicsSystem

	fruits        []*entities.Fruit
	lastSpawnTime float64

	guidePhase bool
	guideStart float64
	guideIndex int
}

// NewSpawnSystem 创建生成系统；rng 由调用方注入（正式运行用时间种子）
func NewSpawnSystem(cfg *config.TuningConfig, physics *PhysicsSystem, rng *rand.Rand) *SpawnSystem {
	s := &SpawnSystem{cfg: cfg, physics: physics, rng: rng}
	s.Reset()
	return s
}

// Reset 清空水果并重新进入引导阶段（新一局开始时调用）
func (s *SpawnSystem) Reset() {
	s.fruits = s.fruits[:0]
	s.lastSpawnTime = 0
	s.guidePhase = true
	s.guideStart = 0
	s.guideIndex = 0
}

// Fruits 返回存活水果集合
// 集合由本系统独占管理；调用方只应通过 Slice 标记命中，不得增删。
func (s *SpawnSystem) Fruits() []*entities.Fruit {
	return s.fruits
}

// Update 推进一帧：生成新水果、物理积分、延迟移除已切割的水果
func (s *SpawnSystem) Update(dt, now float64) {
	if s.guidePhase {
		if s.guideStart == 0 {
			s.guideStart = now
		}
		if now-s.guideStart >= s.cfg.GuideDuration {
			s.guidePhase = false
			log.Printf("[SpawnSystem] guide phase finished, switching to random spawning")
		}
	}

	if now-s.lastSpawnTime > s.cfg.SpawnInterval {
		s.spawn(now)
		s.lastSpawnTime = now
	}

	kept := s.fruits[:0]
	for _, f := range s.fruits {
		s.physics.Apply(f, dt)

		// 已切割的水果延迟移除，给切割特效留出显示时间
		if f.Sliced && now-f.SlicedAt > s.cfg.SlicedLinger {
			continue
		}
		kept = append(kept, f)
	}
	s.fruits = kept
}

// ReapMissed 移除未切割就出界的水果，返回错过的数量
func (s *SpawnSystem) ReapMissed() int {
	missed := 0
	kept := s.fruits[:0]
	for _, f := range s.fruits {
		if !f.Sliced && f.IsOffScreen() {
			missed++
			continue
		}
		kept = append(kept, f)
	}
	s.fruits = kept
	return missed
}

// spawn 在底边生成一个水果
func (s *SpawnSystem) spawn(now float64) {
	x := s.pickSpawnX()
	kind := s.pickKind()

	f := entities.NewFruit(x, config.GameWindowHeight, kind, s.cfg, s.rng)
	s.fruits = append(s.fruits, f)

	if s.guidePhase {
		log.Printf("[SpawnSystem] guide spawn %d/%d: %s", s.guideIndex, len(guideSequence), kind)
	}
}

// pickSpawnX 随机选择生成横坐标，排除中线两侧 ±10% 宽度的区带
func (s *SpawnSystem) pickSpawnX() float64 {
	limitLeft := float64(config.GameWindowWidth)/2 - float64(config.GameWindowWidth)/10
	limitRight := float64(config.GameWindowWidth)/2 + float64(config.GameWindowWidth)/10

	for {
		x := s.cfg.FruitRadius + s.rng.Float64()*(config.GameWindowWidth-2*s.cfg.FruitRadius)
		if x < limitLeft || x > limitRight {
			return x
		}
	}
}

// pickKind 引导阶段按序列取，之后 80/20 加权随机
func (s *SpawnSystem) pickKind() entities.FruitKind {
	if s.guidePhase && s.guideIndex < len(guideSequence) {
		kind := guideSequence[s.guideIndex]
		s.guideIndex++
		return kind
	}
	if s.rng.Float64() < s.cfg.BombProbability {
		return entities.FruitBomb
	}
	return entities.OrdinaryKinds[s.rng.Intn(len(entities.OrdinaryKinds))]
}
