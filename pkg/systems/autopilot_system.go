package systems

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/types"
)

// DefaultAutopilotInterval 自动玩家两次动作之间的间隔（秒）
const DefaultAutopilotInterval = 0.25

// AutopilotSystem 脚本化的玩家，用于无界面运行
//
// 每个动作间隔执行一步洗衣-交付循环，优先级从高到低：
//  1. 手上有干净物品：交付
//  2. 背包里有干净物品：拿到手上
//  3. 场景中有干净物品：拾取
//  4. 柜台上有请求物品：拾取
//  5. 背包里有脏物品：装进空闲的洗衣机
//  6. 洗衣机有物品且没有可装的脏物品：开始洗涤
type AutopilotSystem struct {
	entityManager *ecs.EntityManager
	interaction   *PlayerInteractionSystem
	machines      []*game.WashingMachine
	interval      float64
	elapsed       float64
	enabled       bool
}

// NewAutopilotSystem 创建自动玩家
func NewAutopilotSystem(em *ecs.EntityManager, interaction *PlayerInteractionSystem, machines []*game.WashingMachine, interval float64) *AutopilotSystem {
	if interval <= 0 {
		interval = DefaultAutopilotInterval
	}
	return &AutopilotSystem{
		entityManager: em,
		interaction:   interaction,
		machines:      machines,
		interval:      interval,
	}
}

// SetEnabled 开关自动玩家
func (s *AutopilotSystem) SetEnabled(enabled bool) {
	s.enabled = enabled
	s.elapsed = 0
}

// Enabled 是否启用
func (s *AutopilotSystem) Enabled() bool { return s.enabled }

// Update 到达动作间隔时执行一步
func (s *AutopilotSystem) Update(deltaTime float64) {
	if !s.enabled {
		return
	}
	s.elapsed += deltaTime
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.Step()
}

// Step 执行一步，返回是否做了动作
func (s *AutopilotSystem) Step() bool {
	inv := s.interaction.Inventory()

	if inv.HasItemInHand() {
		if s.isClean(inv.GetHeldItem()) {
			if s.interaction.TryPlaceOnDeliveryPoint() {
				return true
			}
		} else if s.interaction.StashHand() {
			return true
		}
	}

	if !inv.HasItemInHand() {
		for slot, item := range inv.Items() {
			if item != ecs.InvalidEntity && s.isClean(item) {
				return s.interaction.HoldSlot(slot)
			}
		}
	}

	if item, ok := s.findLoose(true); ok && s.interaction.PickUpItem(item) {
		return true
	}
	if item, ok := s.findLoose(false); ok && s.interaction.PickUpItem(item) {
		return true
	}

	dirty := false
	for slot, item := range inv.Items() {
		if item == ecs.InvalidEntity || s.isClean(item) {
			continue
		}
		dirty = true
		if m := s.idleMachine(); m != nil && s.interaction.LoadSlotIntoMachine(slot, m) {
			return true
		}
	}

	for _, m := range s.machines {
		if m.IsWashing() || m.LoadedCount() == 0 {
			continue
		}
		if !dirty || m.LoadedCount() >= m.Capacity {
			return m.StartWashing()
		}
	}
	return false
}

// findLoose 找一件可拾取的物品：clean=true 找场景中的干净物品，否则找柜台上的请求物品
func (s *AutopilotSystem) findLoose(clean bool) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.ItemComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		item, _ := ecs.GetComponent[*components.ItemComponent](s.entityManager, id)
		if clean && item.Clean && item.Holder == types.HolderWorld {
			return id, true
		}
		if !clean && !item.Clean && item.Holder == types.HolderTable {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

func (s *AutopilotSystem) idleMachine() *game.WashingMachine {
	for _, m := range s.machines {
		if !m.IsWashing() && m.LoadedCount() < m.Capacity {
			return m
		}
	}
	return nil
}

func (s *AutopilotSystem) isClean(item ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	return ok && comp.Clean
}
