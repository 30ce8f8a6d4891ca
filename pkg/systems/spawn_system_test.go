package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/entities"
)

func newTestSpawner(seed int64) *SpawnSystem {
	return NewSpawnSystem(config.DefaultTuning(), NewPhysicsSystem(), rand.New(rand.NewSource(seed)))
}

func TestSpawn_GuideSequenceOrder(t *testing.T) {
	s := newTestSpawner(1)

	for i, want := range guideSequence {
		if got := s.pickKind(); got != want {
			t.Errorf("guide spawn %d = %v, want %v", i, got, want)
		}
	}
}

func TestSpawn_GuidePhaseEndsAfterDuration(t *testing.T) {
	s := newTestSpawner(2)
	cfg := s.cfg

	s.Update(0.016, 0.1)
	if !s.guidePhase {
		t.Fatalf("Guide phase must be active at session start")
	}

	s.Update(0.016, cfg.GuideDuration+0.2)
	if s.guidePhase {
		t.Errorf("Guide phase must end after %f seconds", cfg.GuideDuration)
	}
}

func TestSpawn_ExclusionBand(t *testing.T) {
	s := newTestSpawner(3)
	limitLeft := float64(config.GameWindowWidth)/2 - float64(config.GameWindowWidth)/10
	limitRight := float64(config.GameWindowWidth)/2 + float64(config.GameWindowWidth)/10

	for i := 0; i < 1000; i++ {
		x := s.pickSpawnX()
		if x >= limitLeft && x <= limitRight {
			t.Fatalf("sample %d: spawn x=%f inside the central exclusion band", i, x)
		}
		if x < s.cfg.FruitRadius || x > config.GameWindowWidth-s.cfg.FruitRadius {
			t.Fatalf("sample %d: spawn x=%f outside the playable strip", i, x)
		}
	}
}

func TestSpawn_WeightedRandomAfterGuide(t *testing.T) {
	s := newTestSpawner(4)
	s.guidePhase = false

	bombs := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if s.pickKind().IsBomb() {
			bombs++
		}
	}

	ratio := float64(bombs) / n
	if ratio < 0.15 || ratio > 0.25 {
		t.Errorf("bomb ratio = %f, want about %f", ratio, s.cfg.BombProbability)
	}
}

func TestSpawn_DeferredRemovalOfSliced(t *testing.T) {
	s := newTestSpawner(5)
	s.guidePhase = false

	// 手动放入一个已切割的水果
	f := entities.NewFruit(200, config.GameWindowHeight, entities.FruitApple, s.cfg, s.rng)
	f.Slice(10.0)
	s.fruits = append(s.fruits, f)
	s.lastSpawnTime = 10.0

	// 切割后 1 秒内保留（特效显示窗口）
	s.Update(0.016, 10.5)
	if len(s.fruits) != 1 {
		t.Fatalf("Sliced fruit must linger for %f seconds, got %d fruits", s.cfg.SlicedLinger, len(s.fruits))
	}

	// 超过保留时长后移除
	s.Update(0.016, 10.0+s.cfg.SlicedLinger+0.1)
	if len(s.fruits) != 0 {
		t.Errorf("Sliced fruit must be removed after linger, got %d fruits", len(s.fruits))
	}
}

func TestSpawn_ReapMissed(t *testing.T) {
	s := newTestSpawner(6)

	offscreen := entities.NewFruit(200, config.GameWindowHeight, entities.FruitApple, s.cfg, s.rng)
	offscreen.Pos[1] = config.GameWindowHeight + offscreen.Radius + 10

	slicedOffscreen := entities.NewFruit(300, config.GameWindowHeight, entities.FruitPeach, s.cfg, s.rng)
	slicedOffscreen.Pos[1] = config.GameWindowHeight + slicedOffscreen.Radius + 10
	slicedOffscreen.Slice(1.0)

	alive := entities.NewFruit(400, config.GameWindowHeight, entities.FruitBanana, s.cfg, s.rng)
	alive.Pos = mgl64.Vec2{400, 300}

	s.fruits = []*entities.Fruit{offscreen, slicedOffscreen, alive}

	if missed := s.ReapMissed(); missed != 1 {
		t.Errorf("ReapMissed() = %d, want 1 (sliced fruit never counts as missed)", missed)
	}
	if len(s.fruits) != 2 {
		t.Errorf("Expected sliced and alive fruits kept, got %d", len(s.fruits))
	}
}

func TestSpawn_ResetRestartsGuide(t *testing.T) {
	s := newTestSpawner(7)
	s.guidePhase = false
	s.guideIndex = len(guideSequence)
	s.fruits = append(s.fruits, entities.NewFruit(200, config.GameWindowHeight, entities.FruitApple, s.cfg, s.rng))

	s.Reset()

	if !s.guidePhase || s.guideIndex != 0 {
		t.Errorf("Reset must restart the guide sequence")
	}
	if len(s.fruits) != 0 {
		t.Errorf("Reset must clear live fruits")
	}
}
