package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
)

// minLoadingTime 加载画面的最短停留时间（秒）
// 即使初始化瞬间完成，进度条也会展示一小段时间，避免闪屏
const minLoadingTime = 0.5

// LoadingScene represents the loading screen shown when the game starts.
// It polls the perception pipeline's initialization progress and
// switches to the title scene once the pipeline is ready or has
// degraded.
type LoadingScene struct {
	deps *Deps

	elapsedTime float64
	titleFont   *text.GoTextFace
	msgFont     *text.GoTextFace
}

// NewLoadingScene creates a new loading scene.
func NewLoadingScene(deps *Deps) *LoadingScene {
	return &LoadingScene{
		deps:      deps,
		titleFont: deps.Resources.DefaultFont(48),
		msgFont:   deps.Resources.DefaultFont(18),
	}
}

// Update polls pipeline progress and advances to the title scene.
func (s *LoadingScene) Update(deltaTime float64) {
	s.elapsedTime += deltaTime

	if s.elapsedTime < minLoadingTime {
		return
	}
	if s.deps.Perception.Ready() || s.deps.Perception.Degraded() {
		s.deps.SceneManager.LoadScene(game.SceneTitle)
	}
}

// Draw renders the loading progress bar and status message.
func (s *LoadingScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 18, B: 28, A: 255})

	centerX := float64(config.GameWindowWidth) / 2

	drawTextCentered(screen, config.GameWindowTitle, s.titleFont, centerX, 200, color.RGBA{R: 255, G: 120, B: 60, A: 255})

	progress := s.deps.Perception.Progress()

	// 进度条
	barW := float32(400)
	barH := float32(16)
	barX := float32(centerX) - barW/2
	barY := float32(360)
	vector.DrawFilledRect(screen, barX, barY, barW, barH, color.RGBA{R: 50, G: 50, B: 60, A: 255}, true)
	vector.DrawFilledRect(screen, barX, barY, barW*float32(progress.Percent), barH, color.RGBA{R: 120, G: 220, B: 100, A: 255}, true)

	drawTextCentered(screen, progress.Message, s.msgFont, centerX, 400, color.RGBA{R: 200, G: 200, B: 200, A: 255})
}
