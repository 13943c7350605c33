package systems

import (
	"math"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// DeliverySelection 玩家当前可以使用的取货点
type DeliverySelection struct {
	Point  *game.DeliveryPoint
	ByZone bool // true 表示玩家站在该点的交互区域内，false 表示按距离选择
}

// PlayerInteractionSystem 玩家交互层
//
// 把玩家的意图（拾取、装机、交付）翻译成对背包、洗衣机、取货点的调用。
// 所有选择结果通过返回值传递，不保存"当前选中的洗衣机/顾客"。
type PlayerInteractionSystem struct {
	entityManager     *ecs.EntityManager
	queue             *game.QueueManager
	points            []*game.DeliveryPoint
	inventory         *game.Inventory
	player            ecs.EntityID
	requireCleanItems bool
}

// NewPlayerInteractionSystem 创建玩家交互层
func NewPlayerInteractionSystem(em *ecs.EntityManager, queue *game.QueueManager, points []*game.DeliveryPoint,
	inventory *game.Inventory, player ecs.EntityID, requireCleanItems bool) *PlayerInteractionSystem {
	return &PlayerInteractionSystem{
		entityManager:     em,
		queue:             queue,
		points:            points,
		inventory:         inventory,
		player:            player,
		requireCleanItems: requireCleanItems,
	}
}

// PlayerPosition 玩家位置
func (s *PlayerInteractionSystem) PlayerPosition() utils.Vec3 {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player); ok {
		return pos.Vec3
	}
	return utils.Vec3{}
}

func (s *PlayerInteractionSystem) interactionRange() float64 {
	if p, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player); ok && p.DeliveryInteractionRange > 0 {
		return p.DeliveryInteractionRange
	}
	return math.Inf(1)
}

// SelectDeliveryPoint 选择玩家可用的取货点
// 优先选择玩家所在交互区域的点，否则选择范围内最近的点
func (s *PlayerInteractionSystem) SelectDeliveryPoint(playerPos utils.Vec3) (DeliverySelection, bool) {
	for _, p := range s.points {
		if p.IsPlayerInInteractionZone(playerPos) {
			return DeliverySelection{Point: p, ByZone: true}, true
		}
	}

	var best *game.DeliveryPoint
	bestDist := s.interactionRange()
	for _, p := range s.points {
		if d := utils.PlanarDistance(playerPos, p.Position); d <= bestDist {
			best, bestDist = p, d
		}
	}
	if best == nil {
		return DeliverySelection{}, false
	}
	return DeliverySelection{Point: best}, true
}

// FindTargetCustomer 选择交付对象
//
// 优先级：队首可服务顾客 → 最近的 Waiting/GettingAngry 顾客 → 最近的仍有请求物品的愤怒顾客
func (s *PlayerInteractionSystem) FindTargetCustomer(playerPos utils.Vec3) (ecs.EntityID, bool) {
	if id, ok := s.queue.FirstServableCustomer(); ok {
		return id, true
	}

	var waiting, angry ecs.EntityID
	waitingDist, angryDist := math.Inf(1), math.Inf(1)
	for _, id := range ecs.GetEntitiesWith2[*components.CustomerComponent, *components.PositionComponent](s.entityManager) {
		cust, _ := ecs.GetComponent[*components.CustomerComponent](s.entityManager, id)
		if cust.Destroyed {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		d := utils.PlanarDistance(playerPos, pos.Vec3)

		switch {
		case cust.State.IsAwaitingItem():
			if d < waitingDist {
				waiting, waitingDist = id, d
			}
		case cust.State == types.CustomerAngry && cust.ItemSpawned && !cust.ItemDelivered:
			if d < angryDist {
				angry, angryDist = id, d
			}
		}
	}
	if waiting != ecs.InvalidEntity {
		return waiting, true
	}
	if angry != ecs.InvalidEntity {
		return angry, true
	}
	return ecs.InvalidEntity, false
}

// TryPlaceOnDeliveryPoint 把手上的物品放到取货点，交给目标顾客
// 只有放置成功才会清空手
func (s *PlayerInteractionSystem) TryPlaceOnDeliveryPoint() bool {
	if !s.inventory.HasItemInHand() {
		return false
	}
	item := s.inventory.GetHeldItem()
	if s.requireCleanItems {
		comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
		if !ok || !comp.Clean {
			log.Debugf("[PlayerInteraction] Item %d is not clean, cannot deliver", item)
			return false
		}
	}

	playerPos := s.PlayerPosition()
	sel, ok := s.SelectDeliveryPoint(playerPos)
	if !ok || !sel.Point.IsAvailable() {
		return false
	}
	customer, ok := s.FindTargetCustomer(playerPos)
	if !ok {
		return false
	}
	if !sel.Point.PlaceItem(item, customer) {
		return false
	}
	s.inventory.ClearHand()
	return true
}

// PickUpItem 拾取场景或柜台上的物品放进背包
func (s *PlayerInteractionSystem) PickUpItem(item ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok || s.entityManager.IsMarkedForDestroy(item) {
		return false
	}
	if comp.Holder != types.HolderWorld && comp.Holder != types.HolderTable {
		return false
	}
	return s.inventory.AddItem(item)
}

// LoadSlotIntoMachine 把背包槽位中的物品装进洗衣机
// 洗衣机拒绝时物品留在原槽位
func (s *PlayerInteractionSystem) LoadSlotIntoMachine(slot int, machine *game.WashingMachine) bool {
	item := s.inventory.ItemAt(slot)
	if item == ecs.InvalidEntity || machine == nil {
		return false
	}
	if !machine.LoadItem(item) {
		return false
	}
	s.inventory.RemoveItemFromSlot(slot)
	return true
}

// HoldSlot 把槽位中的物品拿到手上
func (s *PlayerInteractionSystem) HoldSlot(slot int) bool {
	return s.inventory.TakeItemFromSlot(slot)
}

// StashHand 把手上的物品放回第一个空槽位
func (s *PlayerInteractionSystem) StashHand() bool {
	slot := s.inventory.FindEmptySlot()
	if slot < 0 {
		return false
	}
	return s.inventory.PlaceItemToSlot(slot)
}

// Inventory 玩家背包
func (s *PlayerInteractionSystem) Inventory() *game.Inventory {
	return s.inventory
}
