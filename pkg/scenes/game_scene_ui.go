package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/entities"
	"github.com/gonewx/fruitslash/pkg/game"
	"github.com/gonewx/fruitslash/pkg/gesture"
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 38, A: 255}
	indexTrailColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	midTrailColor   = color.RGBA{R: 110, G: 220, B: 255, A: 255}
	overlayColor    = color.RGBA{R: 0, G: 0, B: 0, A: 160}
)

// Draw renders the whole scene: fruits, blade trails, particles, the
// HUD and any phase overlay.
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, f := range s.spawner.Fruits() {
		s.drawFruit(screen, f)
	}
	s.drawTrail(screen, gesture.ChannelMiddle, midTrailColor, 2.5)
	s.drawTrail(screen, gesture.ChannelIndex, indexTrailColor, 3.5)
	s.drawParticles(screen)
	s.drawHUD(screen)

	switch s.phase {
	case phaseCountdown:
		s.drawCountdown(screen)
	case phasePaused:
		s.drawPaused(screen)
	case phaseGameOver:
		s.drawGameOver(screen)
	}
}

func (s *GameScene) drawFruit(screen *ebiten.Image, f *entities.Fruit) {
	x := float32(f.Pos.X())
	y := float32(f.Pos.Y())
	r := float32(f.Radius)

	if f.Kind.IsBomb() {
		vector.DrawFilledCircle(screen, x, y, r, color.RGBA{R: 35, G: 35, B: 40, A: 255}, true)
		vector.StrokeCircle(screen, x, y, r, 3, color.RGBA{R: 220, G: 60, B: 50, A: 255}, true)
		// 引信
		rot := f.Rotation * math.Pi / 180
		fx := x + float32(math.Cos(rot))*r
		fy := y + float32(math.Sin(rot))*r
		vector.StrokeLine(screen, x, y, fx, fy, 2, color.RGBA{R: 240, G: 180, B: 60, A: 255}, true)
		return
	}

	if f.Sliced {
		// 切开后分成两半淡出
		fade := 1 - (s.clock-f.SlicedAt)/s.deps.Tuning.SlicedLinger
		if fade < 0 {
			fade = 0
		}
		col := scaleColor(f.Kind.Color(), fade)

		rot := f.Rotation * math.Pi / 180
		offX := float32(math.Cos(rot)) * r * 0.55
		offY := float32(math.Sin(rot)) * r * 0.55
		vector.DrawFilledCircle(screen, x-offX, y-offY, r*0.6, col, true)
		vector.DrawFilledCircle(screen, x+offX, y+offY, r*0.6, col, true)
		return
	}

	vector.DrawFilledCircle(screen, x, y, r, f.Kind.Color(), true)
	// 高光
	vector.DrawFilledCircle(screen, x-r*0.3, y-r*0.3, r*0.2, color.RGBA{R: 255, G: 255, B: 255, A: 120}, true)
}

// drawTrail renders a fingertip trajectory as a fading polyline.
func (s *GameScene) drawTrail(screen *ebiten.Image, ch gesture.Channel, col color.RGBA, width float32) {
	points := s.tracker.Smoothed(ch)
	for i := 1; i < len(points); i++ {
		alpha := (points[i-1].Alpha + points[i].Alpha) / 2
		segColor := scaleColor(col, alpha)
		vector.StrokeLine(screen,
			float32(points[i-1].Pos.X()), float32(points[i-1].Pos.Y()),
			float32(points[i].Pos.X()), float32(points[i].Pos.Y()),
			width, segColor, true)
	}
}

func (s *GameScene) drawParticles(screen *ebiten.Image) {
	for _, p := range s.particles.Particles() {
		col := scaleColor(p.Color, p.Alpha())
		vector.DrawFilledCircle(screen, float32(p.Pos.X()), float32(p.Pos.Y()), float32(p.Size), col, true)
	}
}

func (s *GameScene) drawHUD(screen *ebiten.Image) {
	snap := s.score.Snapshot()

	// 左上：得分与连击
	op := &text.DrawOptions{}
	op.GeoM.Translate(20, 16)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, fmt.Sprintf("Score: %d", snap.Score), s.hudFont, op)

	if snap.Combo > 1 {
		comboOp := &text.DrawOptions{}
		comboOp.GeoM.Translate(20, 48)
		comboOp.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 200, B: 80, A: 255})
		text.Draw(screen, fmt.Sprintf("Combo x%d", snap.Combo), s.hudFont, comboOp)
	}

	// 中上：剩余时间
	drawTextCentered(screen, fmt.Sprintf("%.0f", math.Ceil(snap.TimeLeft)), s.hudFont,
		float64(config.GameWindowWidth)/2, 16, color.RGBA{R: 200, G: 220, B: 255, A: 255})

	// 右上：剩余生命
	lives := s.deps.Tuning.MaxMissed - snap.Missed
	if lives < 0 {
		lives = 0
	}
	livesOp := &text.DrawOptions{}
	livesOp.GeoM.Translate(float64(config.GameWindowWidth)-140, 16)
	livesColor := color.RGBA{R: 120, G: 220, B: 120, A: 255}
	if lives <= 1 {
		livesColor = color.RGBA{R: 240, G: 90, B: 80, A: 255}
	}
	livesOp.ColorScale.ScaleWithColor(livesColor)
	text.Draw(screen, fmt.Sprintf("Lives: %d", lives), s.hudFont, livesOp)
}

func (s *GameScene) drawCountdown(screen *ebiten.Image) {
	centerX := float64(config.GameWindowWidth) / 2
	drawTextCentered(screen, "Get Ready!", s.hudFont, centerX, 180, color.RGBA{R: 200, G: 200, B: 210, A: 255})

	count := int(math.Ceil(s.countdown))
	if count > 0 {
		drawTextCentered(screen, fmt.Sprintf("%d", count), s.bigFont, centerX, 240,
			color.RGBA{R: 255, G: 160, B: 60, A: 255})
	}
}

func (s *GameScene) drawPaused(screen *ebiten.Image) {
	dimScreen(screen)
	centerX := float64(config.GameWindowWidth) / 2
	drawTextCentered(screen, "PAUSED", s.bigFont, centerX, 220, color.White)
	drawTextCentered(screen, "SPACE resume / ESC quit", s.smallFont, centerX, 340,
		color.RGBA{R: 200, G: 200, B: 200, A: 255})
}

func (s *GameScene) drawGameOver(screen *ebiten.Image) {
	dimScreen(screen)
	centerX := float64(config.GameWindowWidth) / 2
	snap := s.score.Snapshot()

	headline := "TIME'S UP!"
	if snap.EndReason == game.EndReasonTooManyMissed {
		headline = "TOO MANY DROPPED!"
	}
	drawTextCentered(screen, headline, s.bigFont, centerX, 160, color.RGBA{R: 255, G: 120, B: 60, A: 255})

	drawTextCentered(screen, fmt.Sprintf("Final score: %d", snap.Score), s.hudFont, centerX, 300, color.White)
	drawTextCentered(screen, fmt.Sprintf("Best combo: x%d", snap.MaxCombo), s.hudFont, centerX, 340,
		color.RGBA{R: 255, G: 200, B: 80, A: 255})
	if s.newBest {
		drawTextCentered(screen, "NEW BEST!", s.hudFont, centerX, 380,
			color.RGBA{R: 120, G: 230, B: 120, A: 255})
	} else {
		drawTextCentered(screen, fmt.Sprintf("Best: %d", s.deps.Settings.GetSettings().HighScore),
			s.hudFont, centerX, 380, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	}

	drawTextCentered(screen, "SPACE back to title", s.smallFont, centerX, 440,
		color.RGBA{R: 200, G: 200, B: 200, A: 255})
}

// dimScreen darkens the playfield behind an overlay panel.
func dimScreen(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0,
		float32(config.GameWindowWidth), float32(config.GameWindowHeight), overlayColor, true)
}

// drawTextCentered draws text horizontally centered at (centerX, y).
func drawTextCentered(screen *ebiten.Image, str string, face *text.GoTextFace, centerX, y float64, col color.Color) {
	if face == nil {
		return
	}
	w, _ := text.Measure(str, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(centerX-w/2, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, str, face, op)
}

// scaleColor multiplies all channels by a, keeping the premultiplied
// alpha representation the vector renderer expects.
func scaleColor(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
