package components

import "github.com/gonewx/zombiewash/pkg/utils"

// ObstacleComponent 静态障碍物（柜台、墙、货架）
// MovementSystem 会把移动体推出障碍物
type ObstacleComponent struct {
	Box utils.Box
}
