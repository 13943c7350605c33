// Package simulation 组装商店模拟：拥有实体、管理器和所有系统，提供单步推进和只读快照
//
// Shop 与引擎无关：ebiten 场景、无界面运行、HTTP 状态接口都只通过 Update / Snapshot / Close 使用它。
package simulation

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/entities"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/scheduler"
	"github.com/gonewx/zombiewash/pkg/systems"
	"github.com/gonewx/zombiewash/pkg/types"
	log "github.com/sirupsen/logrus"
)

// Options 创建 Shop 的选项
type Options struct {
	Difficulty        types.Difficulty
	Autopilot         bool
	AutopilotInterval float64
}

// Shop 一局商店模拟
type Shop struct {
	config *config.ShopConfig

	entityManager *ecs.EntityManager
	scheduler     *scheduler.Scheduler
	gameState     *game.GameState

	queue     *game.QueueManager
	points    []*game.DeliveryPoint
	inventory *game.Inventory
	machines  []*game.WashingMachine
	player    ecs.EntityID

	customerSystem    *systems.CustomerSystem
	movementSystem    *systems.MovementSystem
	deliverySystem    *systems.DeliverySystem
	attackSystem      *systems.AttackSystem
	waveSystem        *systems.WaveSpawnSystem
	interactionSystem *systems.PlayerInteractionSystem
	autopilotSystem   *systems.AutopilotSystem

	started bool
	closed  bool
}

// NewShop 根据配置组装一局模拟
// 配置必须已经过 config.ParseShopConfig 的默认值与校验
func NewShop(cfg *config.ShopConfig, opts Options) (*Shop, error) {
	if cfg == nil {
		return nil, fmt.Errorf("shop config cannot be nil")
	}
	if !opts.Difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", opts.Difficulty)
	}

	em := ecs.NewEntityManager()
	sched := scheduler.New()
	gs := game.NewGameState(opts.Difficulty)

	s := &Shop{
		config:        cfg,
		entityManager: em,
		scheduler:     sched,
		gameState:     gs,
	}

	// 场景
	s.player = entities.NewPlayerEntity(em, cfg.Player)
	for _, box := range cfg.Obstacles {
		entities.NewObstacleEntity(em, box)
	}

	// 管理器
	s.queue = game.NewQueueManager(em, cfg.ServicePoints)
	for i, pc := range cfg.DeliveryPoints {
		s.points = append(s.points, game.NewDeliveryPoint(i, em, pc))
	}
	s.inventory = game.NewInventory(em, cfg.InventorySlots)
	for i, mc := range cfg.WashingMachines {
		s.machines = append(s.machines, game.NewWashingMachine(i, em, mc, cfg.WashModes))
	}

	// 系统
	s.customerSystem = systems.NewCustomerSystem(em, sched, s.queue, gs, cfg)
	s.customerSystem.SetDeliveryPoints(s.points)
	s.customerSystem.SetPlayer(s.player)
	s.queue.SetListener(s.customerSystem)
	for _, p := range s.points {
		p.SetListener(s.customerSystem)
	}

	s.movementSystem = systems.NewMovementSystem(em, s.customerSystem)
	s.deliverySystem = systems.NewDeliverySystem(em, s.points, s.customerSystem)
	s.attackSystem = systems.NewAttackSystem(em, gs, s.player)

	waves := cfg.WavesFor(opts.Difficulty)
	s.waveSystem = systems.NewWaveSpawnSystem(sched, gs, s.customerSystem, s.queue,
		waves, cfg.SpawnPoints, cfg.LoopWaves, cfg.MaxWaves)
	s.customerSystem.SetRemovalListener(s.waveSystem)

	s.interactionSystem = systems.NewPlayerInteractionSystem(em, s.queue, s.points, s.inventory, s.player, cfg.CleanItemsRequired())
	s.autopilotSystem = systems.NewAutopilotSystem(em, s.interactionSystem, s.machines, opts.AutopilotInterval)
	s.autopilotSystem.SetEnabled(opts.Autopilot)

	if len(cfg.ServicePoints) == 0 {
		log.Warnf("[Shop] %s: no service points, customers will never be served", cfg.ID)
	}
	if len(cfg.DeliveryPoints) == 0 {
		log.Warnf("[Shop] %s: no delivery points, items cannot be delivered", cfg.ID)
	}
	if len(cfg.Items) == 0 {
		log.Warnf("[Shop] %s: empty item catalog, every customer will turn angry", cfg.ID)
	}

	log.Printf("[Shop] Run %s: shop %q, difficulty %s, %d waves", gs.RunID, cfg.ID, opts.Difficulty, s.waveSystem.TotalWaves())
	return s, nil
}

// Start 开始波次，重复调用为空操作
func (s *Shop) Start() {
	if s.started || s.closed {
		return
	}
	s.started = true
	s.waveSystem.Start()
}

// Update 推进一帧
//
// 顺序：调度器 → 顾客耐心 → 移动 → 取货检查 → 攻击 → 洗衣机 → 自动玩家 → 清理删除的实体。
// 玩家被打倒或已关闭后为空操作。
func (s *Shop) Update(deltaTime float64) {
	if s.closed || s.gameState.GameOver {
		return
	}
	s.scheduler.Update(deltaTime)
	s.customerSystem.Update(deltaTime)
	s.movementSystem.Update(deltaTime)
	s.deliverySystem.Update()
	s.attackSystem.Update(deltaTime)
	for _, m := range s.machines {
		m.Update(deltaTime)
	}
	s.autopilotSystem.Update(deltaTime)
	s.removeMarked()
}

// removeMarked 清理删除的实体，并移除背包对已删除物品的引用
func (s *Shop) removeMarked() {
	for _, item := range s.inventory.Items() {
		if item != ecs.InvalidEntity && s.entityManager.IsMarkedForDestroy(item) {
			s.inventory.Forget(item)
		}
	}
	if held := s.inventory.GetHeldItem(); held != ecs.InvalidEntity && s.entityManager.IsMarkedForDestroy(held) {
		s.inventory.Forget(held)
	}
	s.entityManager.RemoveMarkedEntities()
}

// Close 销毁场景：停止波次，同步销毁所有顾客，取消所有任务
// 重复调用是安全的
func (s *Shop) Close() {
	if s.closed {
		return
	}
	s.waveSystem.Stop()
	s.customerSystem.DestroyAll()
	for _, p := range s.points {
		p.Clear()
	}
	s.scheduler.Clear()
	s.queue.Clear()
	s.entityManager.RemoveMarkedEntities()
	s.closed = true
	log.Printf("[Shop] Run %s closed (served %d, angered %d)", s.gameState.RunID, s.gameState.Served, s.gameState.Angered)
}

// Closed 是否已关闭
func (s *Shop) Closed() bool { return s.closed }

// Now 模拟时间（秒）
func (s *Shop) Now() float64 { return s.scheduler.Now() }

// Config 商店配置
func (s *Shop) Config() *config.ShopConfig { return s.config }

// State 本局状态
func (s *Shop) State() *game.GameState { return s.gameState }

// EntityManager 实体管理器
func (s *Shop) EntityManager() *ecs.EntityManager { return s.entityManager }

// Scheduler 任务调度器
func (s *Shop) Scheduler() *scheduler.Scheduler { return s.scheduler }

// Queue 排队管理器
func (s *Shop) Queue() *game.QueueManager { return s.queue }

// DeliveryPoints 取货点
func (s *Shop) DeliveryPoints() []*game.DeliveryPoint { return s.points }

// Machines 洗衣机
func (s *Shop) Machines() []*game.WashingMachine { return s.machines }

// Inventory 玩家背包
func (s *Shop) Inventory() *game.Inventory { return s.inventory }

// Player 玩家实体
func (s *Shop) Player() ecs.EntityID { return s.player }

// Customers 顾客状态机
func (s *Shop) Customers() *systems.CustomerSystem { return s.customerSystem }

// Waves 波次系统
func (s *Shop) Waves() *systems.WaveSpawnSystem { return s.waveSystem }

// Interaction 玩家交互层
func (s *Shop) Interaction() *systems.PlayerInteractionSystem { return s.interactionSystem }

// Autopilot 自动玩家
func (s *Shop) Autopilot() *systems.AutopilotSystem { return s.autopilotSystem }
