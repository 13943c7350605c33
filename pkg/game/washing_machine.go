package game

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// outputSpacing 洗净物品在出口处的排列间距
const outputSpacing = 0.3

// WashingMachine 洗衣机：把装入的物品在一段时间后变为干净物品
type WashingMachine struct {
	ID             int
	Position       utils.Vec3
	OutputPosition utils.Vec3
	Capacity       int

	// OnFinish 洗涤完成回调，参数为本次洗净的物品
	OnFinish func(m *WashingMachine, items []ecs.EntityID)

	em        *ecs.EntityManager
	modes     []config.WashModeConfig
	mode      string
	items     []ecs.EntityID
	washing   bool
	duration  float64
	remaining float64
}

// NewWashingMachine 根据配置创建洗衣机
func NewWashingMachine(id int, em *ecs.EntityManager, cfg config.MachineConfig, modes []config.WashModeConfig) *WashingMachine {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = config.DefaultMachineCapacity
	}
	if len(modes) == 0 {
		modes = config.DefaultWashModes()
	}
	m := &WashingMachine{
		ID:             id,
		Position:       cfg.Position,
		OutputPosition: cfg.OutputPosition,
		Capacity:       capacity,
		em:             em,
		modes:          modes,
		mode:           modes[0].Mode,
	}
	if cfg.Mode != "" && !m.SetMode(cfg.Mode) {
		log.Warnf("[WashingMachine %d] Unknown mode %q, using %q", id, cfg.Mode, m.mode)
	}
	return m
}

// LoadItem 装入一件物品
// 洗涤中、已满或不是物品时返回 false
func (m *WashingMachine) LoadItem(item ecs.EntityID) bool {
	if m.washing || len(m.items) >= m.Capacity {
		return false
	}
	for _, id := range m.items {
		if id == item {
			return false
		}
	}
	comp, ok := ecs.GetComponent[*components.ItemComponent](m.em, item)
	if !ok {
		return false
	}
	comp.Holder = types.HolderMachine
	comp.Kinematic = true
	m.items = append(m.items, item)
	return true
}

// SetMode 切换洗涤模式，洗涤中或未知模式返回 false
func (m *WashingMachine) SetMode(mode string) bool {
	if m.washing {
		return false
	}
	for _, wm := range m.modes {
		if wm.Mode == mode {
			m.mode = mode
			return true
		}
	}
	return false
}

// CurrentMode 当前洗涤模式
func (m *WashingMachine) CurrentMode() string { return m.mode }

// StartWashing 开始洗涤
func (m *WashingMachine) StartWashing() bool {
	if m.washing || len(m.items) == 0 {
		return false
	}
	m.duration = m.modeDuration()
	m.remaining = m.duration
	m.washing = true
	log.Printf("[WashingMachine %d] Washing %d items (%s, %.0fs)", m.ID, len(m.items), m.mode, m.duration)
	return true
}

// Update 推进洗涤计时
func (m *WashingMachine) Update(deltaTime float64) {
	if !m.washing {
		return
	}
	m.remaining -= deltaTime
	if m.remaining <= 0 {
		m.finish()
	}
}

// GetRemainingTime 剩余时间（秒），未洗涤时为 0
func (m *WashingMachine) GetRemainingTime() float64 {
	if !m.washing {
		return 0
	}
	return m.remaining
}

// GetProgressPercentage 洗涤进度（0-100），未洗涤时为 0
func (m *WashingMachine) GetProgressPercentage() float64 {
	if !m.washing || m.duration <= 0 {
		return 0
	}
	return utils.Clamp((1-m.remaining/m.duration)*100, 0, 100)
}

// IsWashing 是否在洗涤中
func (m *WashingMachine) IsWashing() bool { return m.washing }

// LoadedCount 已装入的物品数
func (m *WashingMachine) LoadedCount() int { return len(m.items) }

// LoadedItems 已装入物品的副本
func (m *WashingMachine) LoadedItems() []ecs.EntityID {
	out := make([]ecs.EntityID, len(m.items))
	copy(out, m.items)
	return out
}

func (m *WashingMachine) modeDuration() float64 {
	for _, wm := range m.modes {
		if wm.Mode == m.mode {
			return wm.Duration
		}
	}
	return 0
}

func (m *WashingMachine) finish() {
	finished := m.items
	m.items = nil
	m.washing = false
	m.remaining = 0

	for i, item := range finished {
		if comp, ok := ecs.GetComponent[*components.ItemComponent](m.em, item); ok {
			comp.Clean = true
			comp.Holder = types.HolderWorld
			comp.Kinematic = false
		}
		if pos, ok := ecs.GetComponent[*components.PositionComponent](m.em, item); ok {
			pos.Vec3 = m.OutputPosition.Add(utils.Vec3{X: float64(i) * outputSpacing})
		}
	}

	log.Printf("[WashingMachine %d] Finished, %d clean items", m.ID, len(finished))
	if m.OnFinish != nil {
		m.OnFinish(m, finished)
	}
}
