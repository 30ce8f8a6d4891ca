package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TuningConfig 玩法调参配置
// 所有影响难度和手感的数值集中在这里，可通过 YAML 文件覆盖默认值。
type TuningConfig struct {
	// 水果配置
	FruitRadius      float64 `yaml:"fruitRadius"`      // 水果碰撞半径（像素）
	SpawnInterval    float64 `yaml:"spawnInterval"`    // 生成间隔（秒）
	LaunchSpeed      float64 `yaml:"launchSpeed"`      // 发射速度标量（像素/秒）
	AngularVelocity  float64 `yaml:"angularVelocity"`  // 最大角速度（度/秒）
	BombProbability  float64 `yaml:"bombProbability"`  // 炸弹出现概率
	SlicedLinger     float64 `yaml:"slicedLinger"`     // 切割后保留时长（秒），给特效留显示时间
	GuideDuration    float64 `yaml:"guideDuration"`    // 引导阶段时长（秒）

	// 最高点高度带（距屏幕底部的像素高度，换算后用 h = v²/2g 反解垂直初速）
	PeakHeightMin float64 `yaml:"peakHeightMin"` // 轨迹最高点的最低可接受高度
	PeakHeightMax float64 `yaml:"peakHeightMax"` // 轨迹最高点的最高可接受高度

	// 计分配置
	BaseScore       int     `yaml:"baseScore"`       // 单个水果基础分
	ComboMultiplier float64 `yaml:"comboMultiplier"` // 连击倍率增量
	MaxMissed       int     `yaml:"maxMissed"`       // 允许错过的水果数上限
	GameDuration    float64 `yaml:"gameDuration"`    // 一局时长（秒）

	// 手势配置
	SwipeThreshold float64 `yaml:"swipeThreshold"` // 挥砍位移阈值（像素）
}

// DefaultTuning 返回默认调参值
func DefaultTuning() *TuningConfig {
	return &TuningConfig{
		FruitRadius:     40,
		SpawnInterval:   1.5,
		LaunchSpeed:     900, // 基础速度 500 + 400，沿用原始手感
		AngularVelocity: 180,
		BombProbability: 0.2,
		SlicedLinger:    1.0,
		GuideDuration:   5.0,

		// 屏幕高 600：最高点允许落在离顶 1/5 到 1/3 之间，
		// 换算成离底高度即 [400, 480]
		PeakHeightMin: 400,
		PeakHeightMax: 480,

		BaseScore:       10,
		ComboMultiplier: 1.5,
		MaxMissed:       5,
		GameDuration:    60,

		SwipeThreshold: 30,
	}
}

// LoadTuning 从 YAML 文件加载调参配置
// 文件中省略的字段保留默认值。
func LoadTuning(filePath string) (*TuningConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := DefaultTuning()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}

	if err := validateTuning(cfg); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}

	return cfg, nil
}

// validateTuning 验证配置的有效性
func validateTuning(cfg *TuningConfig) error {
	if cfg.FruitRadius <= 0 {
		return fmt.Errorf("fruitRadius must be > 0, got %f", cfg.FruitRadius)
	}
	if cfg.SpawnInterval <= 0 {
		return fmt.Errorf("spawnInterval must be > 0, got %f", cfg.SpawnInterval)
	}
	if cfg.LaunchSpeed <= 0 {
		return fmt.Errorf("launchSpeed must be > 0, got %f", cfg.LaunchSpeed)
	}
	if cfg.BombProbability < 0 || cfg.BombProbability > 1 {
		return fmt.Errorf("bombProbability must be in [0,1], got %f", cfg.BombProbability)
	}
	if cfg.PeakHeightMin <= 0 || cfg.PeakHeightMax < cfg.PeakHeightMin {
		return fmt.Errorf("peak height band invalid: [%f, %f]", cfg.PeakHeightMin, cfg.PeakHeightMax)
	}
	if cfg.BaseScore <= 0 {
		return fmt.Errorf("baseScore must be > 0, got %d", cfg.BaseScore)
	}
	if cfg.MaxMissed <= 0 {
		return fmt.Errorf("maxMissed must be > 0, got %d", cfg.MaxMissed)
	}
	if cfg.GameDuration <= 0 {
		return fmt.Errorf("gameDuration must be > 0, got %f", cfg.GameDuration)
	}
	if cfg.SwipeThreshold <= 0 {
		return fmt.Errorf("swipeThreshold must be > 0, got %f", cfg.SwipeThreshold)
	}
	return nil
}
