package scenes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/fruitslash/internal/vision"
	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
)

// fakePerception is a controllable PerceptionSource for tests.
type fakePerception struct {
	result   vision.Result
	progress vision.Progress
	ready    bool
	degraded bool
}

func (f *fakePerception) Latest() vision.Result     { return f.result }
func (f *fakePerception) Progress() vision.Progress { return f.progress }
func (f *fakePerception) Ready() bool               { return f.ready }
func (f *fakePerception) Degraded() bool            { return f.degraded }

// newTestDeps builds scene dependencies with no audio device and a
// silent perception source.
func newTestDeps(tuning *config.TuningConfig) *Deps {
	resources := game.NewResourceManager(nil)
	settings, _ := game.NewSettingsManager(nil)
	return &Deps{
		Tuning:       tuning,
		SceneManager: game.NewSceneManager(),
		Resources:    resources,
		Audio:        game.NewAudioManager(resources, settings),
		Settings:     settings,
		Perception:   &fakePerception{ready: true},
	}
}

// advance runs scene updates in small steps.
func advance(s Scene, total, step float64) {
	for t := 0.0; t < total; t += step {
		s.Update(step)
	}
}

// fingertipAt builds a landmark list whose index and middle fingertips
// sit at the given game-space position, converted to camera space.
func fingertipAt(x, y float64) []mgl64.Vec2 {
	cx := x * config.CameraFrameWidth / config.GameWindowWidth
	cy := y * config.CameraFrameHeight / config.GameWindowHeight
	points := make([]mgl64.Vec2, 13)
	for i := range points {
		points[i] = mgl64.Vec2{cx, cy}
	}
	return points
}

func TestGameScene_CountdownToPlaying(t *testing.T) {
	s := NewGameScene(newTestDeps(config.DefaultTuning()))

	if s.phase != phaseCountdown {
		t.Fatalf("Initial phase = %d, want countdown", s.phase)
	}

	advance(s, config.CountdownSeconds-0.5, 0.1)
	if s.phase != phaseCountdown {
		t.Error("Phase should still be countdown before the timer elapses")
	}

	advance(s, 1.0, 0.1)
	if s.phase != phasePlaying {
		t.Errorf("Phase after countdown = %d, want playing", s.phase)
	}
}

func TestGameScene_SliceScoresAndMarksFruit(t *testing.T) {
	s := NewGameScene(newTestDeps(config.DefaultTuning()))
	advance(s, config.CountdownSeconds+0.2, 0.1)

	// 倒计时期间 spawner 不更新，进入对局后立即产出第一个水果
	s.Update(0.1)
	fruits := s.spawner.Fruits()
	if len(fruits) == 0 {
		t.Fatal("No fruit spawned after entering the playing phase")
	}
	f := fruits[0]

	// 用一条横穿水果圆心的轨迹切割
	s.tracker.Update(fingertipAt(f.Pos.X()-80, f.Pos.Y()), s.clock)
	s.clock += 0.03
	s.tracker.Update(fingertipAt(f.Pos.X()+80, f.Pos.Y()), s.clock)
	s.handleSlices()

	if !f.Sliced {
		t.Error("Fruit crossed by the blade trajectory should be sliced")
	}
	snap := s.score.Snapshot()
	if snap.Score <= 0 || snap.Combo != 1 {
		t.Errorf("Score = %d, Combo = %d after slicing, want positive score and combo 1", snap.Score, snap.Combo)
	}
	if s.particles.Count() == 0 {
		t.Error("A slice should spawn juice particles")
	}
}

func TestGameScene_HoverDoesNotSlice(t *testing.T) {
	s := NewGameScene(newTestDeps(config.DefaultTuning()))
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.Update(0.1)
	fruits := s.spawner.Fruits()
	if len(fruits) == 0 {
		t.Fatal("No fruit spawned after entering the playing phase")
	}
	f := fruits[0]

	// 指尖缓慢飘过水果圆心：总位移低于挥砍阈值，不构成刀
	s.tracker.Update(fingertipAt(f.Pos.X()-10, f.Pos.Y()), s.clock)
	s.clock += 0.5
	s.tracker.Update(fingertipAt(f.Pos.X(), f.Pos.Y()), s.clock)
	s.clock += 0.5
	s.tracker.Update(fingertipAt(f.Pos.X()+10, f.Pos.Y()), s.clock)
	s.handleSlices()

	if f.Sliced {
		t.Error("A sub-threshold drift across the fruit should not slice it")
	}
	if snap := s.score.Snapshot(); snap.Score != 0 {
		t.Errorf("Score = %d, want 0 without a swipe", snap.Score)
	}
}

func TestGameScene_BombSliceCostsLife(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GuideDuration = 0
	tuning.BombProbability = 1.0

	s := NewGameScene(newTestDeps(tuning))
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.Update(0.1)
	fruits := s.spawner.Fruits()
	if len(fruits) == 0 {
		t.Fatal("No object spawned after entering the playing phase")
	}
	bomb := fruits[0]
	if !bomb.Kind.IsBomb() {
		t.Fatalf("Spawned kind = %v, want bomb with probability 1.0", bomb.Kind)
	}

	s.tracker.Update(fingertipAt(bomb.Pos.X()-80, bomb.Pos.Y()), s.clock)
	s.clock += 0.03
	s.tracker.Update(fingertipAt(bomb.Pos.X()+80, bomb.Pos.Y()), s.clock)
	s.handleSlices()

	snap := s.score.Snapshot()
	if snap.BombsHit != 1 {
		t.Errorf("BombsHit = %d, want 1", snap.BombsHit)
	}
	if snap.Missed != 1 {
		t.Errorf("Missed = %d, want 1 (a bomb costs a life)", snap.Missed)
	}
	if snap.Score != 0 {
		t.Errorf("Score = %d, want 0 (bombs never award points)", snap.Score)
	}
	if s.particles.Count() == 0 {
		t.Error("A bomb hit should spawn an explosion")
	}
}

func TestGameScene_MissedFruitCostsLife(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GuideDuration = 0
	tuning.BombProbability = 0

	s := NewGameScene(newTestDeps(tuning))
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.Update(0.1)
	fruits := s.spawner.Fruits()
	if len(fruits) == 0 {
		t.Fatal("No fruit spawned after entering the playing phase")
	}

	// 把水果挪出屏幕底部，下一帧应被判为漏接
	fruits[0].Pos = mgl64.Vec2{400, config.GameWindowHeight + fruits[0].Radius + 10}
	s.Update(0.016)

	snap := s.score.Snapshot()
	if snap.Missed != 1 {
		t.Errorf("Missed = %d, want 1", snap.Missed)
	}
}

func TestGameScene_GameOverOnTimeLimit(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GameDuration = 0.5

	s := NewGameScene(newTestDeps(tuning))
	advance(s, config.CountdownSeconds+0.2, 0.1)
	advance(s, 0.8, 0.1)

	if s.phase != phaseGameOver {
		t.Errorf("Phase = %d, want game over after the time limit", s.phase)
	}
	if s.score.Snapshot().EndReason != game.EndReasonTimeOver {
		t.Errorf("EndReason = %v, want time over", s.score.Snapshot().EndReason)
	}
}

func TestGameScene_PauseFreezesClock(t *testing.T) {
	s := NewGameScene(newTestDeps(config.DefaultTuning()))
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.pause()
	if s.phase != phasePaused {
		t.Fatalf("Phase = %d, want paused", s.phase)
	}

	before := s.clock
	advance(s, 1.0, 0.1)
	if s.clock != before {
		t.Errorf("Clock advanced from %v to %v while paused", before, s.clock)
	}

	s.resume()
	if s.phase != phasePlaying {
		t.Errorf("Phase = %d, want playing after resume", s.phase)
	}
}

func TestGameScene_RestartResetsRound(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GameDuration = 0.5

	s := NewGameScene(newTestDeps(tuning))
	advance(s, config.CountdownSeconds+1.0, 0.1)
	if s.phase != phaseGameOver {
		t.Fatalf("Phase = %d, want game over", s.phase)
	}

	s.enterCountdown()

	if s.phase != phaseCountdown {
		t.Errorf("Phase = %d, want countdown after restart", s.phase)
	}
	snap := s.score.Snapshot()
	if snap.Score != 0 || snap.Missed != 0 || snap.GameOver {
		t.Errorf("Score state not reset: %+v", snap)
	}
	if len(s.spawner.Fruits()) != 0 {
		t.Error("Fruits should be cleared on restart")
	}
}

func TestGameScene_GameOverRecordsHighScore(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GameDuration = 0.5

	deps := newTestDeps(tuning)
	s := NewGameScene(deps)
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.score.AddSlice()
	advance(s, 0.8, 0.1)

	if s.phase != phaseGameOver {
		t.Fatalf("Phase = %d, want game over", s.phase)
	}
	if !s.newBest {
		t.Error("First finished round should set a new best score")
	}
	if got := deps.Settings.GetSettings().HighScore; got != s.score.Snapshot().Score {
		t.Errorf("HighScore = %d, want %d", got, s.score.Snapshot().Score)
	}

	// 第二局没有得分，不应覆盖纪录
	s.enterCountdown()
	advance(s, config.CountdownSeconds+1.0, 0.1)
	if s.phase != phaseGameOver {
		t.Fatalf("Phase = %d, want game over after second round", s.phase)
	}
	if s.newBest {
		t.Error("A zero-score round should not beat the record")
	}
}

func TestGameScene_SaveOnExitKeepsBestScore(t *testing.T) {
	deps := newTestDeps(config.DefaultTuning())
	s := NewGameScene(deps)
	advance(s, config.CountdownSeconds+0.2, 0.1)

	s.score.AddSlice()
	if !s.SaveOnExit() {
		t.Error("SaveOnExit should report success")
	}
	if deps.Settings.GetSettings().HighScore == 0 {
		t.Error("Quitting mid-round should still record the score")
	}
}

func TestLoadingScene_SwitchesToTitleWhenReady(t *testing.T) {
	deps := newTestDeps(config.DefaultTuning())

	var loaded game.SceneID
	deps.SceneManager.SetSceneFactory(func(id game.SceneID) game.Scene {
		loaded = id
		return &stubScene{}
	})

	s := NewLoadingScene(deps)
	advance(s, minLoadingTime+0.2, 0.1)

	if loaded != game.SceneTitle {
		t.Errorf("Loaded scene = %q, want title", loaded)
	}
}

func TestLoadingScene_WaitsWhileInitializing(t *testing.T) {
	deps := newTestDeps(config.DefaultTuning())
	deps.Perception = &fakePerception{} // neither ready nor degraded

	switched := false
	deps.SceneManager.SetSceneFactory(func(id game.SceneID) game.Scene {
		switched = true
		return &stubScene{}
	})

	s := NewLoadingScene(deps)
	advance(s, 2.0, 0.1)

	if switched {
		t.Error("Loading scene switched away before the pipeline was ready")
	}
}

// stubScene is an empty Scene used as a factory product in tests.
type stubScene struct{}

func (s *stubScene) Update(deltaTime float64) {}
func (s *stubScene) Draw(screen *ebiten.Image) {}
