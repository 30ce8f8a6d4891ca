package game

import (
	"log"

	"github.com/gonewx/fruitslash/pkg/config"
)

// EndReason 表示一局游戏结束的原因
type EndReason int

const (
	// EndReasonNone 游戏尚未结束
	EndReasonNone EndReason = iota
	// EndReasonTimeOver 时间耗尽
	EndReasonTimeOver
	// EndReasonTooManyMissed 漏接水果过多
	EndReasonTooManyMissed
)

// String 返回结束原因的可读名称
func (r EndReason) String() string {
	switch r {
	case EndReasonTimeOver:
		return "time_over"
	case EndReasonTooManyMissed:
		return "too_many_missed"
	default:
		return "none"
	}
}

// ScoreSnapshot 当前计分状态的只读快照，供 HUD 和结算界面使用
type ScoreSnapshot struct {
	Score     int
	Combo     int
	MaxCombo  int
	Missed    int
	BombsHit  int
	TimeLeft  float64
	GameOver  bool
	EndReason EndReason
}

// ScoreManager 计分管理器
// 负责得分累计、连击倍率、漏接计数和结束条件判定
type ScoreManager struct {
	cfg *config.TuningConfig

	score    int
	combo    int
	maxCombo int
	missed   int
	bombsHit int
	elapsed  float64

	gameOver  bool
	endReason EndReason
}

// NewScoreManager 创建计分管理器
func NewScoreManager(cfg *config.TuningConfig) *ScoreManager {
	return &ScoreManager{cfg: cfg}
}

// AddSlice 记录一次成功切割
//
// 连击数加一，本次得分 = BaseScore * (1 + (combo-1) * ComboMultiplier)，
// 即连击越长，单刀得分越高
func (sm *ScoreManager) AddSlice() int {
	if sm.gameOver {
		return 0
	}
	sm.combo++
	if sm.combo > sm.maxCombo {
		sm.maxCombo = sm.combo
	}
	gained := int(float64(sm.cfg.BaseScore) * (1 + float64(sm.combo-1)*sm.cfg.ComboMultiplier))
	sm.score += gained
	return gained
}

// AddMiss 记录一次漏接（未切割的水果落出屏幕）
//
// 连击清零，得分保留；漏接数达到上限时结束本局
func (sm *ScoreManager) AddMiss() {
	if sm.gameOver {
		return
	}
	sm.combo = 0
	sm.missed++
	if sm.missed >= sm.cfg.MaxMissed {
		sm.endGame(EndReasonTooManyMissed)
	}
}

// AddBombHit 记录一次误切炸弹
//
// 炸弹计入漏接额度（等价于丢一条命），同时连击清零
func (sm *ScoreManager) AddBombHit() {
	if sm.gameOver {
		return
	}
	sm.bombsHit++
	sm.combo = 0
	sm.missed++
	if sm.missed >= sm.cfg.MaxMissed {
		sm.endGame(EndReasonTooManyMissed)
	}
}

// UpdateTime 累计游戏时间，时间耗尽时结束本局
func (sm *ScoreManager) UpdateTime(deltaTime float64) {
	if sm.gameOver {
		return
	}
	sm.elapsed += deltaTime
	if sm.elapsed >= sm.cfg.GameDuration {
		sm.elapsed = sm.cfg.GameDuration
		sm.endGame(EndReasonTimeOver)
	}
}

// TimeLeft 返回本局剩余时间（秒），不会为负
func (sm *ScoreManager) TimeLeft() float64 {
	left := sm.cfg.GameDuration - sm.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// IsGameOver 返回本局是否已结束
func (sm *ScoreManager) IsGameOver() bool {
	return sm.gameOver
}

// Snapshot 返回当前计分状态的快照
func (sm *ScoreManager) Snapshot() ScoreSnapshot {
	return ScoreSnapshot{
		Score:     sm.score,
		Combo:     sm.combo,
		MaxCombo:  sm.maxCombo,
		Missed:    sm.missed,
		BombsHit:  sm.bombsHit,
		TimeLeft:  sm.TimeLeft(),
		GameOver:  sm.gameOver,
		EndReason: sm.endReason,
	}
}

// Reset 重置计分状态，开始新的一局
func (sm *ScoreManager) Reset() {
	sm.score = 0
	sm.combo = 0
	sm.maxCombo = 0
	sm.missed = 0
	sm.bombsHit = 0
	sm.elapsed = 0
	sm.gameOver = false
	sm.endReason = EndReasonNone
}

// endGame 标记本局结束，只有第一个触发的条件生效
func (sm *ScoreManager) endGame(reason EndReason) {
	if sm.gameOver {
		return
	}
	sm.gameOver = true
	sm.endReason = reason
	log.Printf("[ScoreManager] Game over: reason=%s score=%d maxCombo=%d missed=%d",
		reason, sm.score, sm.maxCombo, sm.missed)
}
