// Package app wires the managers, the perception pipeline and the
// scene stack into an ebiten.Game.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/fruitslash/internal/vision"
	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
	"github.com/gonewx/fruitslash/pkg/scenes"
)

// Options 启动参数
type Options struct {
	// CameraDevice 摄像头设备编号；负数表示使用设置中保存的编号
	CameraDevice int
	// DisableCamera 跳过摄像头初始化，直接进入降级模式（鼠标操作）
	DisableCamera bool
	// TuningPath 可选的玩法参数 YAML 文件路径
	TuningPath string
}

// App 游戏顶层对象，实现 ebiten.Game 接口
// 负责墙钟 deltaTime 的计算、全局快捷键和退出时的收尾工作
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	pipeline     *vision.Pipeline

	lastUpdate time.Time
}

// New constructs the full game: settings, audio, perception pipeline
// and the scene factory. The returned App is ready for ebiten.RunGame.
func New(opts Options) (*App, error) {
	tuning, err := loadTuning(opts.TuningPath)
	if err != nil {
		return nil, err
	}

	// gdata 打不开只影响设置持久化，不阻止游戏启动
	gdataManager, err := gdata.Open(gdata.Config{AppName: "fruitslash"})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}

	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	audioContext := audio.NewContext(48000)
	resources := game.NewResourceManager(audioContext)
	audioManager := game.NewAudioManager(resources, settings)

	pipeline := buildPipeline(opts, settings)
	pipeline.Start()

	sceneManager := game.NewSceneManager()
	deps := &scenes.Deps{
		Tuning:       tuning,
		SceneManager: sceneManager,
		Resources:    resources,
		Audio:        audioManager,
		Settings:     settings,
		Perception:   pipeline,
	}

	sceneManager.SetSceneFactory(func(id game.SceneID) game.Scene {
		switch id {
		case game.SceneLoading:
			return scenes.NewLoadingScene(deps)
		case game.SceneTitle:
			return scenes.NewTitleScene(deps)
		case game.SceneGame:
			return scenes.NewGameScene(deps)
		}
		return nil
	})
	sceneManager.LoadScene(game.SceneLoading)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		pipeline:     pipeline,
	}, nil
}

// buildPipeline assembles the perception pipeline. Any failure yields
// a degraded pipeline rather than an error: the game is playable with
// the mouse alone.
func buildPipeline(opts Options, settings *game.SettingsManager) *vision.Pipeline {
	if opts.DisableCamera {
		return vision.NewPipeline(nil, nil)
	}

	deviceID := opts.CameraDevice
	if deviceID < 0 {
		deviceID = settings.GetSettings().CameraDeviceID
	}

	detector, err := vision.NewMediaPipeDetector()
	if err != nil {
		log.Printf("[App] Hand tracker unavailable: %v", err)
		return vision.NewPipeline(nil, nil)
	}

	camera := vision.NewCamera(deviceID, settings.GetSettings().CameraMirror)
	return vision.NewPipeline(camera, detector)
}

// loadTuning reads gameplay tuning from the given path, or returns
// defaults when no path is set.
func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.DefaultTuning(), nil
	}
	tuning, err := config.LoadTuning(path)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	return tuning, nil
}

// Update advances the active scene by the wall-clock delta, clamped so
// that a long hitch (window drag, debugger pause) never teleports
// fruits across the screen.
func (a *App) Update() error {
	now := time.Now()
	deltaTime := 1.0 / 60.0
	if !a.lastUpdate.IsZero() {
		deltaTime = now.Sub(a.lastUpdate).Seconds()
		if deltaTime > config.MaxDeltaTime {
			deltaTime = config.MaxDeltaTime
		}
	}
	a.lastUpdate = now

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		full := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(full)
		a.settings.SetFullscreen(full)
	}

	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw renders the active scene.
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout returns the game's logical screen size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Fullscreen reports whether the game should start fullscreen.
func (a *App) Fullscreen() bool {
	return a.settings.GetSettings().Fullscreen
}

// Shutdown releases the camera and persists settings. Call it after
// ebiten.RunGame returns.
func (a *App) Shutdown() {
	if scene, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !scene.SaveOnExit() {
			log.Printf("[App] Warning: scene state was not saved on exit")
		}
	}

	a.pipeline.Stop()

	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}
