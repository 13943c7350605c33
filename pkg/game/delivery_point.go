package game

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// DeliveryListener 接收取货通知
// 由顾客状态机实现，返回 false 表示顾客当前不能前往取货点
type DeliveryListener interface {
	GoToDeliveryPoint(customer ecs.EntityID, point *DeliveryPoint) bool
}

// DeliveryPoint 取货点：玩家与顾客之间的单物品信箱
//
// 同一时刻最多保存一件物品和一位等待取货的顾客，两者总是一起设置、一起清空。
type DeliveryPoint struct {
	ID           int
	Position     utils.Vec3
	DropPosition utils.Vec3 // 物品摆放位置
	PickupRadius float64
	Zone         *utils.Box // 玩家交互区域，nil 表示不限位置

	em       *ecs.EntityManager
	listener DeliveryListener

	item     ecs.EntityID
	customer ecs.EntityID
}

// NewDeliveryPoint 根据配置创建取货点
func NewDeliveryPoint(id int, em *ecs.EntityManager, cfg config.DeliveryPointConfig) *DeliveryPoint {
	drop := cfg.Position.Add(utils.Vec3{Y: 0.5})
	if cfg.DropPosition != nil {
		drop = *cfg.DropPosition
	}
	var zone *utils.Box
	if cfg.Zone != nil {
		z := *cfg.Zone
		zone = &z
	}
	return &DeliveryPoint{
		ID:           id,
		Position:     cfg.Position,
		DropPosition: drop,
		PickupRadius: cfg.PickupRadius,
		Zone:         zone,
		em:           em,
	}
}

// SetListener 设置取货通知的接收者
func (p *DeliveryPoint) SetListener(l DeliveryListener) {
	p.listener = l
}

// IsAvailable 信箱是否为空
func (p *DeliveryPoint) IsAvailable() bool {
	return p.item == ecs.InvalidEntity
}

// HeldItem 当前放置的物品
func (p *DeliveryPoint) HeldItem() ecs.EntityID { return p.item }

// AwaitingCustomer 等待取货的顾客
func (p *DeliveryPoint) AwaitingCustomer() ecs.EntityID { return p.customer }

// IsPlayerInInteractionZone 玩家是否站在交互区域内
func (p *DeliveryPoint) IsPlayerInInteractionZone(playerPos utils.Vec3) bool {
	if p.Zone == nil {
		return true
	}
	return p.Zone.Contains(playerPos)
}

// PlaceItem 放置物品并通知顾客前来取货
//
// 信箱已有物品时返回 false，调用方不应消耗该物品。
// 顾客拒绝（状态不允许）时回滚，物品恢复到原持有者。
func (p *DeliveryPoint) PlaceItem(item, customer ecs.EntityID) bool {
	if !p.IsAvailable() {
		log.Warnf("[DeliveryPoint %d] Already holding item %d, rejecting item %d", p.ID, p.item, item)
		return false
	}
	if item == ecs.InvalidEntity || customer == ecs.InvalidEntity {
		return false
	}
	itemComp, ok := ecs.GetComponent[*components.ItemComponent](p.em, item)
	if !ok {
		log.Warnf("[DeliveryPoint %d] Entity %d is not an item", p.ID, item)
		return false
	}

	prevHolder, prevKinematic := itemComp.Holder, itemComp.Kinematic
	var prevPos utils.Vec3
	pos, hasPos := ecs.GetComponent[*components.PositionComponent](p.em, item)
	if hasPos {
		prevPos = pos.Vec3
		pos.Vec3 = p.DropPosition
	}
	itemComp.Holder = types.HolderDeliveryPoint
	itemComp.Kinematic = true
	p.item = item
	p.customer = customer

	if p.listener == nil || !p.listener.GoToDeliveryPoint(customer, p) {
		itemComp.Holder = prevHolder
		itemComp.Kinematic = prevKinematic
		if hasPos {
			pos.Vec3 = prevPos
		}
		p.item = ecs.InvalidEntity
		p.customer = ecs.InvalidEntity
		log.Debugf("[DeliveryPoint %d] Customer %d refused delivery, item %d returned", p.ID, customer, item)
		return false
	}

	log.Printf("[DeliveryPoint %d] Item %d placed for customer %d", p.ID, item, customer)
	return true
}

// ReadyForPickup 等待的顾客是否已走到取货半径内
func (p *DeliveryPoint) ReadyForPickup() (ecs.EntityID, bool) {
	if p.item == ecs.InvalidEntity || p.customer == ecs.InvalidEntity {
		return ecs.InvalidEntity, false
	}
	cust, ok := ecs.GetComponent[*components.CustomerComponent](p.em, p.customer)
	if !ok || cust.State != types.CustomerGoingToDelivery {
		return ecs.InvalidEntity, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](p.em, p.customer)
	if !ok || utils.PlanarDistance(pos.Vec3, p.Position) > p.PickupRadius {
		return ecs.InvalidEntity, false
	}
	return p.customer, true
}

// CompleteDelivery 顾客取走物品，清空信箱
// 只有等待中的顾客可以取货；重复调用返回 false
func (p *DeliveryPoint) CompleteDelivery(customer ecs.EntityID) (ecs.EntityID, bool) {
	if p.item == ecs.InvalidEntity || customer == ecs.InvalidEntity || p.customer != customer {
		return ecs.InvalidEntity, false
	}
	item := p.item
	p.item = ecs.InvalidEntity
	p.customer = ecs.InvalidEntity
	if itemComp, ok := ecs.GetComponent[*components.ItemComponent](p.em, item); ok {
		itemComp.Holder = types.HolderCustomer
	}
	log.Printf("[DeliveryPoint %d] Customer %d collected item %d", p.ID, customer, item)
	return item, true
}

// ReleaseFor 取消顾客的取货（顾客被销毁），物品回到场景中
func (p *DeliveryPoint) ReleaseFor(customer ecs.EntityID) bool {
	if customer == ecs.InvalidEntity || p.customer != customer {
		return false
	}
	p.dropItem()
	log.Printf("[DeliveryPoint %d] Claim of customer %d released", p.ID, customer)
	return true
}

// Clear 清空信箱（场景销毁）
func (p *DeliveryPoint) Clear() {
	p.dropItem()
}

func (p *DeliveryPoint) dropItem() {
	if itemComp, ok := ecs.GetComponent[*components.ItemComponent](p.em, p.item); ok {
		itemComp.Holder = types.HolderWorld
		itemComp.Kinematic = false
	}
	p.item = ecs.InvalidEntity
	p.customer = ecs.InvalidEntity
}
