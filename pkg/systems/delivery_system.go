package systems

import (
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	log "github.com/sirupsen/logrus"
)

// PickupHandler 顾客取货动作（由 CustomerSystem 实现）
type PickupHandler interface {
	PickupItemFromPoint(customer ecs.EntityID)
}

// DeliverySystem 每帧检查取货点
//
// 等待的顾客走进取货半径后触发取货，然后清空信箱。
// 信箱清空是幂等的：顾客已经在取货时清空过，这里的第二次清空为空操作。
type DeliverySystem struct {
	entityManager *ecs.EntityManager
	points        []*game.DeliveryPoint
	handler       PickupHandler
}

// NewDeliverySystem 创建取货检查系统
func NewDeliverySystem(em *ecs.EntityManager, points []*game.DeliveryPoint, handler PickupHandler) *DeliverySystem {
	return &DeliverySystem{
		entityManager: em,
		points:        points,
		handler:       handler,
	}
}

// Update 检查所有取货点
func (s *DeliverySystem) Update() {
	for _, p := range s.points {
		// 等待的顾客已经不存在，释放信箱
		if c := p.AwaitingCustomer(); c != ecs.InvalidEntity && !s.entityManager.EntityExists(c) {
			log.Warnf("[DeliverySystem] Delivery point %d held a claim for missing customer %d", p.ID, c)
			p.ReleaseFor(c)
			continue
		}

		customer, ready := p.ReadyForPickup()
		if !ready {
			continue
		}
		s.handler.PickupItemFromPoint(customer)
		p.CompleteDelivery(customer)
	}
}
