package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/fruitslash/pkg/app"
	"github.com/gonewx/fruitslash/pkg/config"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	camera  = flag.Int("camera", -1, "摄像头设备编号（默认使用设置中保存的编号）")
	nocam   = flag.Bool("nocam", false, "不使用摄像头，改用鼠标切水果")
	tuning  = flag.String("tuning", "", "玩法参数 YAML 文件路径")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	game, err := app.New(app.Options{
		CameraDevice:  *camera,
		DisableCamera: *nocam,
		TuningPath:    *tuning,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to start: %v", err)
	}
	defer game.Shutdown()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.GameWindowTitle)
	if game.Fullscreen() {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
