package components

import (
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// MovementComponent 简单移动组件
// 由 MovementSystem 驱动：朝目标点平面移动，进入停止距离后视为到达
type MovementComponent struct {
	// Target 目标点
	Target utils.Vec3
	// TargetBox 目标的碰撞盒（可选）
	// 设置后以盒子上距离自身最近的点作为瞄准点（柜台、取货架）
	TargetBox *utils.Box
	// TargetEntity 跟随的实体（可选，用于追击玩家）
	// 设置后每帧以该实体的位置作为目标，且不使用 TargetBox
	TargetEntity ecs.EntityID

	Speed            float64 // 移动速度（米/秒）
	StoppingDistance float64 // 停止距离
	Radius           float64 // 自身碰撞半径（用于推出障碍物）

	HasTarget bool // 是否有目标
	IsMoving  bool // 是否在移动（到达后置为 false）
}
