package components

import "github.com/gonewx/zombiewash/pkg/utils"

// PositionComponent 实体在商店中的世界坐标
type PositionComponent struct {
	utils.Vec3
}
