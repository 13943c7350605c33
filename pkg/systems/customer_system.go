package systems

import (
	"math"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/entities"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/scheduler"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

const (
	// leaveStoppingDistance 离开时到达生成点的判定距离
	leaveStoppingDistance = 0.3
	// deliveryStopFactor 走向取货点时停在取货半径内的比例
	deliveryStopFactor = 0.8
)

// CustomerRemovalListener 接收顾客被移除的通知（波次计数使用）
type CustomerRemovalListener interface {
	OnCustomerRemoved(customer ecs.EntityID)
}

// CustomerSystem 顾客状态机
//
// 职责：
//   - 创建顾客并处理出场延迟
//   - 响应队列的服务位分配、取货点的取货通知
//   - 递减队首顾客的耐心，驱动 Waiting → GettingAngry → Angry
//   - 处理到达事件（排队、取货、离开）
//   - 同步、幂等地销毁顾客
//
// 架构说明：
//   - 实现 game.QueueListener、game.DeliveryListener 和 ArrivalHandler，
//     由 Shop 在构造时注入到 QueueManager、DeliveryPoint 和 MovementSystem
//   - 所有延迟通过 scheduler 表达，销毁时取消
type CustomerSystem struct {
	entityManager *ecs.EntityManager
	scheduler     *scheduler.Scheduler
	queue         *game.QueueManager
	gameState     *game.GameState

	points     []*game.DeliveryPoint
	items      []config.ItemConfig
	itemSpawns []utils.Vec3
	params     config.CustomerConfig
	player     ecs.EntityID
	removal    CustomerRemovalListener

	nextItem      int
	nextItemSpawn int
}

// NewCustomerSystem 创建顾客状态机
//
// 参数：
//
//	em - 实体管理器
//	sched - 任务调度器
//	queue - 排队管理器
//	gs - 游戏状态（计数）
//	cfg - 商店配置（物品目录、摆放点、顾客参数）
func NewCustomerSystem(em *ecs.EntityManager, sched *scheduler.Scheduler, queue *game.QueueManager, gs *game.GameState, cfg *config.ShopConfig) *CustomerSystem {
	return &CustomerSystem{
		entityManager: em,
		scheduler:     sched,
		queue:         queue,
		gameState:     gs,
		items:         cfg.Items,
		itemSpawns:    cfg.ItemSpawnPoints,
		params:        cfg.Customer,
	}
}

// SetDeliveryPoints 设置取货点（下标即取货点ID）
func (s *CustomerSystem) SetDeliveryPoints(points []*game.DeliveryPoint) {
	s.points = points
}

// SetPlayer 设置愤怒顾客追击的玩家
func (s *CustomerSystem) SetPlayer(player ecs.EntityID) {
	s.player = player
}

// SetRemovalListener 设置顾客移除通知的接收者
func (s *CustomerSystem) SetRemovalListener(l CustomerRemovalListener) {
	s.removal = l
}

// SpawnCustomer 在 at 处创建一位顾客
// 顾客在出场延迟结束后才会走向分配到的服务位；失败返回 0
func (s *CustomerSystem) SpawnCustomer(at utils.Vec3, wave config.WaveConfig, waveIndex, indexInWave int) ecs.EntityID {
	id, err := entities.NewCustomerEntity(s.entityManager, entities.CustomerSpec{
		SpawnPoint:  at,
		Patience:    wave.ZombieWaitTime,
		Params:      s.params,
		WaveIndex:   waveIndex,
		IndexInWave: indexInWave,
	})
	if err != nil {
		log.Warnf("[CustomerSystem] Failed to spawn customer (wave %d #%d): %v", waveIndex+1, indexInWave, err)
		return ecs.InvalidEntity
	}

	s.gameState.Spawned++
	cust, _ := s.customer(id)
	s.schedule(id, cust, cust.SpawnDelay, func() { s.onSpawnDelayElapsed(id) })

	log.Printf("[CustomerSystem] Spawned customer %d (wave %d #%d, patience %.0fs)", id, waveIndex+1, indexInWave, wave.ZombieWaitTime)
	return id
}

// OnSlotAssigned 队列分配服务位（实现 game.QueueListener）
func (s *CustomerSystem) OnSlotAssigned(id ecs.EntityID, slot int, point utils.Vec3) {
	cust, ok := s.customer(id)
	if !ok {
		return
	}
	cust.QueueTarget = point
	cust.HasQueueTarget = true

	switch cust.State {
	case types.CustomerSpawning:
		// 出场延迟中只记录目标
		if cust.SpawnReady {
			s.goToServicePoint(id, cust)
		}
	case types.CustomerWalkingToQueue, types.CustomerInLine:
		s.goToServicePoint(id, cust)
	default:
		log.Debugf("[CustomerSystem] Customer %d ignores slot %d in state %s", id, slot, cust.State)
	}
}

func (s *CustomerSystem) onSpawnDelayElapsed(id ecs.EntityID) {
	cust, ok := s.customer(id)
	if !ok || cust.State != types.CustomerSpawning {
		return
	}
	cust.SpawnReady = true
	if cust.HasQueueTarget {
		s.goToServicePoint(id, cust)
	}
}

func (s *CustomerSystem) goToServicePoint(id ecs.EntityID, cust *components.CustomerComponent) {
	cust.State = types.CustomerWalkingToQueue
	s.moveTo(id, cust.QueueTarget, cust.WalkSpeed, cust.InteractionDistance)
}

// OnArrived 移动到达（实现 ArrivalHandler），按当前状态分派
func (s *CustomerSystem) OnArrived(id ecs.EntityID) {
	cust, ok := s.customer(id)
	if !ok {
		return
	}

	switch cust.State {
	case types.CustomerWalkingToQueue:
		if s.queue.IsFrontOccupant(id) {
			s.becomeFront(id, cust)
		} else if s.queue.SlotOf(id) >= 0 {
			cust.State = types.CustomerInLine
		}
	case types.CustomerGoingToDelivery:
		if p := s.point(cust.DeliveryPoint); p != nil {
			if waiting, ready := p.ReadyForPickup(); ready && waiting == id {
				s.PickupItemFromPoint(id)
			}
		}
	case types.CustomerLeaving:
		s.Destroy(id)
	}
}

// becomeFront 顾客到达服务位 0：生成请求物品并开始消耗耐心
func (s *CustomerSystem) becomeFront(id ecs.EntityID, cust *components.CustomerComponent) {
	cust.State = types.CustomerWaiting
	if cust.ItemSpawned {
		return
	}
	if !s.spawnRequestItem(id, cust) {
		log.Warnf("[CustomerSystem] Customer %d could not create a request item, turning angry", id)
		s.GetAngry(id)
		return
	}
	log.Printf("[CustomerSystem] Customer %d is waiting at the front (item %d)", id, cust.RequestedItem)
}

func (s *CustomerSystem) spawnRequestItem(id ecs.EntityID, cust *components.CustomerComponent) bool {
	if len(s.items) == 0 {
		return false
	}
	item := s.items[s.nextItem%len(s.items)]
	s.nextItem++

	var at utils.Vec3
	if len(s.itemSpawns) > 0 {
		at = s.itemSpawns[s.nextItemSpawn%len(s.itemSpawns)]
		s.nextItemSpawn++
	} else if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		at = pos.Add(utils.Vec3{Y: 1})
	}

	itemID, err := entities.NewRequestItemEntity(s.entityManager, item, at, id)
	if err != nil {
		log.Warnf("[CustomerSystem] %v", err)
		return false
	}
	cust.RequestedItem = itemID
	cust.RequestItems = append(cust.RequestItems, itemID)
	cust.ItemSpawned = true
	return true
}

// Update 递减队首顾客的耐心
//
// 耐心耗尽的顾客在同一次 Update 中转为 Angry
func (s *CustomerSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CustomerComponent](s.entityManager) {
		cust, ok := s.customer(id)
		if !ok || !cust.State.IsAwaitingItem() || !cust.ItemSpawned || cust.ItemDelivered {
			continue
		}

		cust.Patience -= cust.PatienceDecreaseRate * deltaTime
		if cust.Patience <= 0 {
			cust.Patience = 0
			s.GetAngry(id)
			continue
		}
		if cust.State == types.CustomerWaiting && cust.Patience <= cust.MaxPatience*cust.AngryThreshold {
			cust.State = types.CustomerGettingAngry
			log.Printf("[CustomerSystem] Customer %d is getting angry (%.1fs left)", id, cust.Patience)
		}
	}
}

// GetAngry 顾客转为愤怒：让出服务位并追击玩家
// 请求物品保留，仍可通过取货点安抚
func (s *CustomerSystem) GetAngry(id ecs.EntityID) {
	cust, ok := s.customer(id)
	if !ok || !cust.State.IsAwaitingItem() {
		return
	}
	cust.State = types.CustomerAngry
	cust.Patience = 0
	s.gameState.Angered++
	s.queue.ReleaseSlot(id)

	if move, ok := ecs.GetComponent[*components.MovementComponent](s.entityManager, id); ok {
		move.TargetBox = nil
		move.TargetEntity = s.player
		move.Speed = cust.AngrySpeed
		move.StoppingDistance = angryStoppingDistance(s.params.AttackRange)
		move.HasTarget = s.player != ecs.InvalidEntity
		move.IsMoving = move.HasTarget
	}
	log.Printf("[CustomerSystem] Customer %d is angry", id)
}

func angryStoppingDistance(attackRange float64) float64 {
	return utils.Clamp(attackRange-0.2, 0.8, 2.5)
}

// GoToDeliveryPoint 顾客前往取货点（实现 game.DeliveryListener）
// 只有 Waiting/GettingAngry/Angry 的顾客可以前往，否则返回 false
func (s *CustomerSystem) GoToDeliveryPoint(id ecs.EntityID, point *game.DeliveryPoint) bool {
	cust, ok := s.customer(id)
	if !ok || point == nil || !cust.State.CanReceiveDelivery() {
		return false
	}

	s.queue.AdvanceFrontSlotVacated(id)
	prev := cust.State
	cust.State = types.CustomerGoingToDelivery
	cust.DeliveryPoint = point.ID

	stop := math.Min(cust.InteractionDistance, point.PickupRadius*deliveryStopFactor)
	s.moveTo(id, point.Position, cust.WalkSpeed, stop)

	log.Printf("[CustomerSystem] Customer %d (%s) heading to delivery point %d", id, prev, point.ID)
	return true
}

// PickupItemFromPoint 顾客从取货点取走物品，短暂停留后离开
// 只在 GoingToDelivery 状态有效，重复调用为空操作
func (s *CustomerSystem) PickupItemFromPoint(id ecs.EntityID) {
	cust, ok := s.customer(id)
	if !ok || cust.State != types.CustomerGoingToDelivery {
		return
	}
	p := s.point(cust.DeliveryPoint)
	if p == nil {
		return
	}
	item, ok := p.CompleteDelivery(id)
	if !ok {
		return
	}

	cust.State = types.CustomerPickingUp
	cust.ItemDelivered = true
	cust.DeliveryPoint = -1
	s.stop(id)

	s.entityManager.DestroyEntity(item)
	s.cleanupRequestItems(cust)
	s.queue.LeaveQueue(id)

	if !cust.FinishNotified {
		cust.FinishNotified = true
		s.gameState.Served++
	}

	s.schedule(id, cust, s.params.PickupDelay, func() { s.Leave(id) })
	log.Printf("[CustomerSystem] Customer %d picked up item %d", id, item)
}

// Leave 顾客离开商店，走回生成点后销毁
func (s *CustomerSystem) Leave(id ecs.EntityID) {
	cust, ok := s.customer(id)
	if !ok || cust.State == types.CustomerLeaving {
		return
	}
	cust.State = types.CustomerLeaving
	s.queue.LeaveQueue(id)
	s.moveTo(id, cust.SpawnPoint, cust.WalkSpeed, leaveStoppingDistance)
}

// Destroy 同步销毁顾客
//
// 取消挂起任务、离开队伍、释放取货点、清理请求物品、通知波次系统，然后标记实体删除。
// 重复调用是安全的。
func (s *CustomerSystem) Destroy(id ecs.EntityID) {
	cust, ok := ecs.GetComponent[*components.CustomerComponent](s.entityManager, id)
	if !ok || cust.Destroyed {
		return
	}
	cust.Destroyed = true

	for _, h := range cust.PendingTasks {
		s.scheduler.Cancel(h)
	}
	cust.PendingTasks = nil

	s.queue.LeaveQueue(id)
	cust.RemovedFromQueue = true
	for _, p := range s.points {
		p.ReleaseFor(id)
	}
	cust.DeliveryPoint = -1
	s.cleanupRequestItems(cust)

	if s.removal != nil {
		s.removal.OnCustomerRemoved(id)
	}
	s.entityManager.DestroyEntity(id)
	log.Printf("[CustomerSystem] Customer %d removed (%s)", id, cust.State)
}

// DestroyAll 销毁所有顾客（场景销毁）
func (s *CustomerSystem) DestroyAll() {
	for _, id := range s.Customers() {
		s.Destroy(id)
	}
}

// Customers 所有未销毁的顾客，按创建顺序
func (s *CustomerSystem) Customers() []ecs.EntityID {
	ids := ecs.GetEntitiesWith1[*components.CustomerComponent](s.entityManager)
	out := ids[:0]
	for _, id := range ids {
		if _, ok := s.customer(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// cleanupRequestItems 删除仍在柜台/场景中的请求物品
// 已被玩家拿走（背包、手上、洗衣机、取货点）的物品只解除归属
func (s *CustomerSystem) cleanupRequestItems(cust *components.CustomerComponent) {
	for _, itemID := range cust.RequestItems {
		item, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, itemID)
		if !ok {
			continue
		}
		switch item.Holder {
		case types.HolderTable, types.HolderWorld, types.HolderCustomer:
			s.entityManager.DestroyEntity(itemID)
		default:
			item.Owner = ecs.InvalidEntity
		}
	}
	cust.RequestItems = nil
	cust.RequestedItem = ecs.InvalidEntity
}

func (s *CustomerSystem) customer(id ecs.EntityID) (*components.CustomerComponent, bool) {
	cust, ok := ecs.GetComponent[*components.CustomerComponent](s.entityManager, id)
	if !ok || cust.Destroyed {
		return nil, false
	}
	return cust, true
}

func (s *CustomerSystem) point(id int) *game.DeliveryPoint {
	if id < 0 || id >= len(s.points) {
		return nil
	}
	return s.points[id]
}

func (s *CustomerSystem) schedule(id ecs.EntityID, cust *components.CustomerComponent, delay float64, fn func()) {
	h := s.scheduler.After(delay, fn)
	cust.PendingTasks = append(cust.PendingTasks, h)
}

func (s *CustomerSystem) moveTo(id ecs.EntityID, target utils.Vec3, speed, stop float64) {
	move, ok := ecs.GetComponent[*components.MovementComponent](s.entityManager, id)
	if !ok {
		return
	}
	move.Target = target
	move.TargetBox = nil
	move.TargetEntity = ecs.InvalidEntity
	move.Speed = speed
	move.StoppingDistance = stop
	move.HasTarget = true
	move.IsMoving = true
}

func (s *CustomerSystem) stop(id ecs.EntityID) {
	if move, ok := ecs.GetComponent[*components.MovementComponent](s.entityManager, id); ok {
		move.HasTarget = false
		move.IsMoving = false
		move.TargetEntity = ecs.InvalidEntity
	}
}
