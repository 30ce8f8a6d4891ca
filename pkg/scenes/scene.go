package scenes

import (
	"github.com/gonewx/fruitslash/internal/vision"
	"github.com/gonewx/fruitslash/pkg/config"
	"github.com/gonewx/fruitslash/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// PerceptionSource provides hand landmarks for the blade. It is the
// read side of the vision pipeline; tests substitute their own.
type PerceptionSource interface {
	Latest() vision.Result
	Progress() vision.Progress
	Ready() bool
	Degraded() bool
}

// Deps bundles the shared managers every scene needs. Scenes keep a
// pointer to the same Deps instance, so they all observe the same
// settings and perception state.
type Deps struct {
	Tuning       *config.TuningConfig
	SceneManager *game.SceneManager
	Resources    *game.ResourceManager
	Audio        *game.AudioManager
	Settings     *game.SettingsManager
	Perception   PerceptionSource
}
