package scenes

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
	"github.com/gonewx/fruitslash/pkg/gesture"
	"github.com/gonewx/fruitslash/pkg/systems"
)

// gamePhase 对局内部状态
type gamePhase int

const (
	phaseCountdown gamePhase = iota
	phasePlaying
	phasePaused
	phaseGameOver
)

// GameScene 游戏主场景
// 串联感知、轨迹、碰撞、计分与渲染：每帧读取最新的手部关键点，
// 更新指尖轨迹，检测轨迹与水果的碰撞，并推进水果和粒子的物理模拟
type GameScene struct {
	deps *Deps

	tracker    *gesture.Tracker
	classifier *gesture.Classifier
	score      *game.ScoreManager
	physics    *systems.PhysicsSystem
	spawner    *systems.SpawnSystem
	collision  *systems.CollisionSystem
	particles  *systems.ParticleSystem

	phase         gamePhase
	clock         float64 // 对局时钟（秒），暂停时冻结
	countdown     float64
	countdownTick int
	newBest       bool // 本局是否刷新了最高分

	hudFont   *text.GoTextFace
	bigFont   *text.GoTextFace
	smallFont *text.GoTextFace
}

// NewGameScene creates the gameplay scene and enters the countdown phase.
func NewGameScene(deps *Deps) *GameScene {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	physics := systems.NewPhysicsSystem()

	trackerCfg := gesture.DefaultTrackerConfig(
		config.CameraFrameWidth, config.CameraFrameHeight,
		config.GameWindowWidth, config.GameWindowHeight,
	)
	tracker := gesture.NewTracker(trackerCfg)

	s := &GameScene{
		deps:       deps,
		tracker:    tracker,
		classifier: gesture.NewClassifier(tracker, deps.Tuning.SwipeThreshold),
		score:      game.NewScoreManager(deps.Tuning),
		physics:    physics,
		spawner:    systems.NewSpawnSystem(deps.Tuning, physics, rng),
		collision:  systems.NewCollisionSystem(),
		particles:  systems.NewParticleSystem(physics, rng),
		hudFont:    deps.Resources.DefaultFont(24),
		bigFont:    deps.Resources.DefaultFont(72),
		smallFont:  deps.Resources.DefaultFont(16),
	}
	s.enterCountdown()
	return s
}

// enterCountdown resets all per-round state and starts the countdown.
func (s *GameScene) enterCountdown() {
	s.phase = phaseCountdown
	s.countdown = config.CountdownSeconds
	s.countdownTick = 0
	s.newBest = false
	s.score.Reset()
	s.spawner.Reset()
	s.particles.Clear()
	s.tracker.Clear()
}

// Update advances the scene by deltaTime seconds.
func (s *GameScene) Update(deltaTime float64) {
	switch s.phase {
	case phaseCountdown:
		s.updateCountdown(deltaTime)
	case phasePlaying:
		s.updatePlaying(deltaTime)
	case phasePaused:
		s.updatePaused()
	case phaseGameOver:
		s.updateGameOver(deltaTime)
	}
}

func (s *GameScene) updateCountdown(deltaTime float64) {
	s.clock += deltaTime
	s.updateBlade()

	s.countdown -= deltaTime
	tick := int(math.Ceil(s.countdown))
	if tick != s.countdownTick && s.countdown > 0 {
		s.countdownTick = tick
		s.deps.Audio.PlaySound(game.SoundCountdown)
	}

	if s.countdown <= 0 {
		s.phase = phasePlaying
		s.deps.Audio.PlayMusic(game.MusicGameplay)
	}
}

func (s *GameScene) updatePlaying(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.pause()
		return
	}

	s.clock += deltaTime
	s.updateBlade()
	s.handleSlices()

	s.spawner.Update(deltaTime, s.clock)
	missed := s.spawner.ReapMissed()
	for i := 0; i < missed; i++ {
		s.score.AddMiss()
		s.deps.Audio.PlaySound(game.SoundMiss)
	}

	s.particles.Update(deltaTime)
	s.score.UpdateTime(deltaTime)

	if s.score.IsGameOver() {
		s.enterGameOver()
	}
}

func (s *GameScene) updatePaused() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.resume()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.deps.Audio.StopMusic()
		s.deps.SceneManager.LoadScene(game.SceneTitle)
	}
}

func (s *GameScene) updateGameOver(deltaTime float64) {
	// 让残余的粒子在结算面板后面落完
	s.particles.Update(deltaTime)

	// 重开必须经过标题画面，不允许直接回到对局
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.deps.SceneManager.LoadScene(game.SceneTitle)
	}
}

// pause freezes the round clock and the background music.
func (s *GameScene) pause() {
	s.phase = phasePaused
	s.deps.Audio.PauseMusic()
}

// resume continues a paused round.
func (s *GameScene) resume() {
	s.phase = phasePlaying
	s.deps.Audio.ResumeMusic()
}

// enterGameOver stops the round and records the end state.
func (s *GameScene) enterGameOver() {
	s.phase = phaseGameOver
	s.newBest = s.deps.Settings.RecordHighScore(s.score.Snapshot().Score)
	s.deps.Audio.StopMusic()
	s.deps.Audio.PlaySound(game.SoundGameOver)
}

// SaveOnExit 退出时把本局分数并入最高分记录
// 设置本身由 App 在关闭阶段统一持久化。
func (s *GameScene) SaveOnExit() bool {
	s.deps.Settings.RecordHighScore(s.score.Snapshot().Score)
	return true
}

// updateBlade feeds the freshest perception result into the tracker.
// Without a camera the mouse drives the blade instead.
func (s *GameScene) updateBlade() {
	result := s.deps.Perception.Latest()
	switch {
	case result.HasHand:
		s.tracker.Update(result.Landmarks, s.clock)
	case s.deps.Perception.Degraded() && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		s.tracker.Update(mouseLandmarks(float64(x), float64(y)), s.clock)
	default:
		s.tracker.Update(nil, s.clock)
	}
	s.tracker.UpdateAlpha(s.clock)
}

// handleSlices tests both fingertip trajectories against all airborne
// fruits and applies the consequences of every hit.
func (s *GameScene) handleSlices() {
	// 静止悬停的指尖不构成刀：只有判定为挥砍时轨迹才参与碰撞
	if !s.classifier.IsSwipe() {
		return
	}

	indexTraj := s.tracker.Smoothed(gesture.ChannelIndex)
	middleTraj := s.tracker.Smoothed(gesture.ChannelMiddle)

	hits := s.collision.DetectAll(indexTraj, middleTraj, s.spawner.Fruits())
	for _, f := range hits {
		f.Slice(s.clock)

		if f.Kind.IsBomb() {
			s.score.AddBombHit()
			s.particles.SpawnExplosion(f.Pos)
			s.deps.Audio.PlaySound(game.SoundBomb)
			continue
		}

		s.score.AddSlice()

		contact, ok := s.collision.ContactPoint(indexTraj, f)
		if !ok {
			contact, ok = s.collision.ContactPoint(middleTraj, f)
		}
		if !ok {
			contact = f.Pos
		}
		s.particles.SpawnSliceBurst(contact, s.classifier.Vector(), f.Kind.Color())
		s.deps.Audio.PlaySound(game.SoundSlice)
	}
}

// mouseLandmarks builds a minimal landmark list with the index and
// middle fingertips at the cursor, converted to camera coordinates so
// the tracker's camera-to-game mapping applies uniformly.
func mouseLandmarks(x, y float64) []mgl64.Vec2 {
	cx := x * config.CameraFrameWidth / config.GameWindowWidth
	cy := y * config.CameraFrameHeight / config.GameWindowHeight

	points := make([]mgl64.Vec2, 13)
	for i := range points {
		points[i] = mgl64.Vec2{cx, cy}
	}
	return points
}
