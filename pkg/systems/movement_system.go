package systems

import (
	"math"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/utils"
)

const (
	// arrivalEpsilon 到达判定容差，避免推出修正导致永远到不了
	arrivalEpsilon = 0.05
	// pushOutSkin 推出障碍物时额外留出的间隙
	pushOutSkin = 0.02
)

// ArrivalHandler 接收到达通知
type ArrivalHandler interface {
	OnArrived(id ecs.EntityID)
}

// MovementSystem 平面移动与到达判定
//
// 每帧对每个移动体依次执行：
//  1. 朝目标（或目标盒上最近的点）移动，不越过停止距离
//  2. 把自身推出静态障碍物
//  3. 用修正后的位置判定是否到达（dist <= stop + epsilon）
//
// 到达后 IsMoving 置为 false，此后不再移动和推出，到达不会被推出修正撤销。
// 追击实体（TargetEntity）的移动体每帧重新瞄准，永远不会"到达"。
type MovementSystem struct {
	entityManager *ecs.EntityManager
	handler       ArrivalHandler
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, handler ArrivalHandler) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		handler:       handler,
	}
}

// Update 更新所有移动体
func (s *MovementSystem) Update(deltaTime float64) {
	obstacles := s.obstacles()
	var arrived []ecs.EntityID

	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.MovementComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		move, _ := ecs.GetComponent[*components.MovementComponent](s.entityManager, id)
		if !move.HasTarget || !move.IsMoving {
			continue
		}

		target, pursuit, ok := s.aimPoint(pos.Vec3, move)
		if !ok {
			move.HasTarget = false
			move.IsMoving = false
			continue
		}

		// 1. 移动
		dist := utils.PlanarDistance(pos.Vec3, target)
		if dist > move.StoppingDistance && move.Speed > 0 {
			step := math.Min(move.Speed*deltaTime, dist-move.StoppingDistance)
			dir := target.Sub(pos.Vec3).PlanarDirection()
			pos.Vec3 = pos.Add(dir.Scale(step))
		}

		// 2. 推出障碍物
		for _, box := range obstacles {
			pos.Vec3, _ = box.PushOut(pos.Vec3, move.Radius, pushOutSkin)
		}

		if pursuit {
			continue
		}

		// 3. 到达判定
		if move.TargetBox != nil {
			target = move.TargetBox.ClosestPoint(pos.Vec3)
		}
		if utils.PlanarDistance(pos.Vec3, target) <= move.StoppingDistance+arrivalEpsilon {
			move.IsMoving = false
			arrived = append(arrived, id)
		}
	}

	// 到达回调可能修改其他实体的移动目标，统一在遍历后分派
	if s.handler != nil {
		for _, id := range arrived {
			s.handler.OnArrived(id)
		}
	}
}

// aimPoint 本帧的瞄准点
// 返回 pursuit=true 表示追击实体
func (s *MovementSystem) aimPoint(from utils.Vec3, move *components.MovementComponent) (utils.Vec3, bool, bool) {
	if move.TargetEntity != ecs.InvalidEntity {
		targetPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, move.TargetEntity)
		if !ok {
			return utils.Vec3{}, false, false
		}
		return targetPos.Vec3, true, true
	}
	if move.TargetBox != nil {
		return move.TargetBox.ClosestPoint(from), false, true
	}
	return move.Target, false, true
}

func (s *MovementSystem) obstacles() []utils.Box {
	ids := ecs.GetEntitiesWith1[*components.ObstacleComponent](s.entityManager)
	boxes := make([]utils.Box, 0, len(ids))
	for _, id := range ids {
		obs, _ := ecs.GetComponent[*components.ObstacleComponent](s.entityManager, id)
		boxes = append(boxes, obs.Box)
	}
	return boxes
}
