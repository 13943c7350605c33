package game

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// QueueListener 接收服务位分配通知
// 由顾客状态机实现：收到通知后走向服务位（出场延迟期间只记录目标）
type QueueListener interface {
	OnSlotAssigned(customer ecs.EntityID, slot int, point utils.Vec3)
}

// QueueManager 排队管理器
//
// 管理一排固定的服务位（下标 0 为队首）和一个等待空位的 FIFO。
// 不变式：
//   - 每个顾客最多占用一个服务位，且不会同时在 FIFO 中
//   - 空位只出现在已占用服务位之后（释放时会整体前移）
//   - QueuedCount() + SlottedCount() == TrackedCount()
//
// 服务位数量为 0 时退化为只排队模式：顾客一直在 FIFO 中等待，永远不会被服务
type QueueManager struct {
	em       *ecs.EntityManager
	points   []utils.Vec3
	slots    []ecs.EntityID // 0 表示空位
	waiting  []ecs.EntityID // FIFO
	listener QueueListener

	warnedNoSlots bool
}

// NewQueueManager 创建排队管理器
//
// 参数：
//   - em: 实体管理器（用于读取顾客状态）
//   - servicePoints: 服务位坐标，按队首到队尾排列
func NewQueueManager(em *ecs.EntityManager, servicePoints []utils.Vec3) *QueueManager {
	points := make([]utils.Vec3, len(servicePoints))
	copy(points, servicePoints)
	return &QueueManager{
		em:     em,
		points: points,
		slots:  make([]ecs.EntityID, len(points)),
	}
}

// SetListener 设置服务位分配的接收者
func (q *QueueManager) SetListener(l QueueListener) {
	q.listener = l
}

// Enqueue 顾客加入队伍
// 已在队伍中的顾客重复加入是空操作
func (q *QueueManager) Enqueue(customer ecs.EntityID) {
	if customer == ecs.InvalidEntity || q.Tracked(customer) {
		return
	}
	q.waiting = append(q.waiting, customer)

	if len(q.slots) == 0 && !q.warnedNoSlots {
		q.warnedNoSlots = true
		log.Warnf("[QueueManager] No service points configured, customers will queue without being served")
	}

	q.fill()
}

// ReleaseSlot 释放顾客的服务位
// 后面的顾客整体前移一位，然后从 FIFO 补位；顾客不在服务位上时为空操作
func (q *QueueManager) ReleaseSlot(customer ecs.EntityID) {
	slot := q.SlotOf(customer)
	if slot < 0 {
		return
	}
	q.shiftForward(slot)
	q.fill()
}

// LeaveQueue 顾客彻底离开队伍（服务位或 FIFO）
// 未被跟踪的顾客为空操作，可重复调用
func (q *QueueManager) LeaveQueue(customer ecs.EntityID) {
	if q.SlotOf(customer) >= 0 {
		q.ReleaseSlot(customer)
		return
	}
	for i, id := range q.waiting {
		if id == customer {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

// AdvanceFrontSlotVacated 队首顾客离开服务位 0（例如去取货点）
// 所有后续顾客前移一位并重新走位，然后从 FIFO 补充最后的空位
// customer 不是队首时为空操作
func (q *QueueManager) AdvanceFrontSlotVacated(customer ecs.EntityID) {
	if !q.IsFrontOccupant(customer) {
		return
	}
	q.shiftForward(0)
	q.fill()
}

// IsFrontOccupant 顾客是否占用服务位 0
func (q *QueueManager) IsFrontOccupant(customer ecs.EntityID) bool {
	return customer != ecs.InvalidEntity && len(q.slots) > 0 && q.slots[0] == customer
}

// FirstServableCustomer 返回处于 Waiting/GettingAngry 的队首顾客
func (q *QueueManager) FirstServableCustomer() (ecs.EntityID, bool) {
	if len(q.slots) == 0 || q.slots[0] == ecs.InvalidEntity {
		return ecs.InvalidEntity, false
	}
	front := q.slots[0]
	cust, ok := ecs.GetComponent[*components.CustomerComponent](q.em, front)
	if !ok || !cust.State.IsAwaitingItem() {
		return ecs.InvalidEntity, false
	}
	return front, true
}

// SlotOf 顾客占用的服务位，-1 表示没有
func (q *QueueManager) SlotOf(customer ecs.EntityID) int {
	if customer == ecs.InvalidEntity {
		return -1
	}
	for i, id := range q.slots {
		if id == customer {
			return i
		}
	}
	return -1
}

// QueuePosition 顾客在整条队伍中的位置（展示用）
// 服务位上的顾客返回服务位下标，FIFO 中的顾客排在所有服务位之后，未跟踪返回 -1
func (q *QueueManager) QueuePosition(customer ecs.EntityID) int {
	if slot := q.SlotOf(customer); slot >= 0 {
		return slot
	}
	for i, id := range q.waiting {
		if id == customer {
			return len(q.slots) + i
		}
	}
	return -1
}

// Occupant 服务位上的顾客
func (q *QueueManager) Occupant(slot int) ecs.EntityID {
	if slot < 0 || slot >= len(q.slots) {
		return ecs.InvalidEntity
	}
	return q.slots[slot]
}

// SlotPosition 服务位坐标
func (q *QueueManager) SlotPosition(slot int) (utils.Vec3, bool) {
	if slot < 0 || slot >= len(q.points) {
		return utils.Vec3{}, false
	}
	return q.points[slot], true
}

// Len 配置的服务位数量
func (q *QueueManager) Len() int { return len(q.slots) }

// QueuedCount FIFO 中等待空位的顾客数
func (q *QueueManager) QueuedCount() int { return len(q.waiting) }

// SlottedCount 占用服务位的顾客数
func (q *QueueManager) SlottedCount() int {
	n := 0
	for _, id := range q.slots {
		if id != ecs.InvalidEntity {
			n++
		}
	}
	return n
}

// TrackedCount 队伍中的顾客总数
func (q *QueueManager) TrackedCount() int {
	return q.QueuedCount() + q.SlottedCount()
}

// Tracked 顾客是否在队伍中
func (q *QueueManager) Tracked(customer ecs.EntityID) bool {
	return q.QueuePosition(customer) >= 0
}

// Clear 清空队伍（场景销毁），不发送通知
func (q *QueueManager) Clear() {
	for i := range q.slots {
		q.slots[i] = ecs.InvalidEntity
	}
	q.waiting = q.waiting[:0]
}

// shiftForward 移除 from 位置的顾客，其后的顾客各前移一位
func (q *QueueManager) shiftForward(from int) {
	last := len(q.slots) - 1
	for i := from; i < last; i++ {
		q.slots[i] = q.slots[i+1]
		if q.slots[i] != ecs.InvalidEntity {
			q.notify(q.slots[i], i)
		}
	}
	q.slots[last] = ecs.InvalidEntity
}

// fill 把 FIFO 队头依次放进空位
func (q *QueueManager) fill() {
	for i := range q.slots {
		if len(q.waiting) == 0 {
			return
		}
		if q.slots[i] != ecs.InvalidEntity {
			continue
		}
		next := q.waiting[0]
		q.waiting = q.waiting[1:]
		q.slots[i] = next
		log.Debugf("[QueueManager] Customer %d assigned to slot %d", next, i)
		q.notify(next, i)
	}
}

func (q *QueueManager) notify(customer ecs.EntityID, slot int) {
	if q.listener != nil {
		q.listener.OnSlotAssigned(customer, slot, q.points[slot])
	}
}
