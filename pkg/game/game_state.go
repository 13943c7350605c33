package game

import (
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/google/uuid"
)

// GameState 一局游戏的全局状态
// 每个 Shop 持有一个实例，各系统通过它累计计数、读取胜负状态
type GameState struct {
	RunID      string           // 本局唯一ID（日志、状态接口使用）
	Difficulty types.Difficulty // 本局难度

	CurrentWave int // 当前波次（从 1 开始，0 表示尚未开始）
	TotalWaves  int // 本局总波次

	Spawned int // 已生成的顾客数
	Served  int // 成功取货离开的顾客数
	Angered int // 进入 Angry 状态的次数

	Victory  bool // 所有波次完成
	GameOver bool // 玩家被打倒
}

// NewGameState 创建新一局的状态
func NewGameState(difficulty types.Difficulty) *GameState {
	return &GameState{
		RunID:      uuid.NewString(),
		Difficulty: difficulty,
	}
}

// IsFinished 本局是否已结束（胜利或失败）
func (gs *GameState) IsFinished() bool {
	return gs.Victory || gs.GameOver
}
