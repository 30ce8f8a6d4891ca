package scenes

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
)

// TitleScene 标题画面
// 展示游戏名和操作说明，等待玩家开始游戏
type TitleScene struct {
	deps *Deps

	elapsedTime float64
	titleFont   *text.GoTextFace
	hintFont    *text.GoTextFace
	smallFont   *text.GoTextFace
}

// NewTitleScene creates a new title scene.
func NewTitleScene(deps *Deps) *TitleScene {
	return &TitleScene{
		deps:      deps,
		titleFont: deps.Resources.DefaultFont(56),
		hintFont:  deps.Resources.DefaultFont(24),
		smallFont: deps.Resources.DefaultFont(16),
	}
}

// Update waits for the start key.
func (s *TitleScene) Update(deltaTime float64) {
	s.elapsedTime += deltaTime

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.deps.Audio.PlaySound(game.SoundCountdown)
		s.deps.SceneManager.LoadScene(game.SceneGame)
	}
}

// Draw renders the title and input hints.
func (s *TitleScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 18, B: 28, A: 255})

	centerX := float64(config.GameWindowWidth) / 2

	drawTextCentered(screen, config.GameWindowTitle, s.titleFont, centerX, 180, color.RGBA{R: 255, G: 120, B: 60, A: 255})

	// 提示文字呼吸闪烁
	pulse := uint8(160 + 80*math.Sin(s.elapsedTime*3))
	drawTextCentered(screen, "Press SPACE to start", s.hintFont, centerX, 340, color.RGBA{R: pulse, G: pulse, B: pulse, A: 255})

	if s.deps.Perception.Degraded() {
		drawTextCentered(screen, "Camera unavailable: slice with the mouse instead",
			s.smallFont, centerX, 400, color.RGBA{R: 240, G: 200, B: 80, A: 255})
	} else {
		drawTextCentered(screen, "Wave your index finger in front of the camera to slice",
			s.smallFont, centerX, 400, color.RGBA{R: 160, G: 200, B: 160, A: 255})
		drawTextCentered(screen, "Use index and middle finger together to split watermelons",
			s.smallFont, centerX, 424, color.RGBA{R: 160, G: 200, B: 160, A: 255})
	}

	drawTextCentered(screen, "SPACE pause / F11 fullscreen", s.smallFont, centerX, 520,
		color.RGBA{R: 120, G: 120, B: 130, A: 255})
}
