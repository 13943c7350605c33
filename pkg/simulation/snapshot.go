package simulation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// Snapshot 模拟的只读视图，供展示层使用（调试文字、HTTP 状态接口）
type Snapshot struct {
	RunID      string  `json:"runId"`
	ShopID     string  `json:"shopId"`
	Difficulty string  `json:"difficulty"`
	Time       float64 `json:"time"`

	Wave       int `json:"wave"`
	TotalWaves int `json:"totalWaves"`
	Active     int `json:"active"`

	Spawned int `json:"spawned"`
	Served  int `json:"served"`
	Angered int `json:"angered"`

	Victory  bool `json:"victory"`
	GameOver bool `json:"gameOver"`

	PlayerHealth    float64 `json:"playerHealth"`
	PlayerMaxHealth float64 `json:"playerMaxHealth"`
	HeldItem        string  `json:"heldItem,omitempty"`
	InventoryUsed   int     `json:"inventoryUsed"`
	InventorySlots  int     `json:"inventorySlots"`

	Customers      []CustomerView      `json:"customers"`
	DeliveryPoints []DeliveryPointView `json:"deliveryPoints"`
	Machines       []MachineView       `json:"machines"`
}

// CustomerView 顾客的展示数据
type CustomerView struct {
	ID            uint64     `json:"id"`
	State         string     `json:"state"`
	Patience      float64    `json:"patience"`
	MaxPatience   float64    `json:"maxPatience"`
	QueuePosition int        `json:"queuePosition"`
	Position      utils.Vec3 `json:"position"`
	Wave          int        `json:"wave"`
}

// DeliveryPointView 取货点的展示数据
type DeliveryPointView struct {
	ID       int        `json:"id"`
	Position utils.Vec3 `json:"position"`
	Item     uint64     `json:"item,omitempty"`
	Customer uint64     `json:"customer,omitempty"`
}

// MachineView 洗衣机的展示数据
type MachineView struct {
	ID        int        `json:"id"`
	Position  utils.Vec3 `json:"position"`
	Mode      string     `json:"mode"`
	Washing   bool       `json:"washing"`
	Loaded    int        `json:"loaded"`
	Capacity  int        `json:"capacity"`
	Remaining float64    `json:"remaining"`
	Progress  float64    `json:"progress"`
}

// Snapshot 生成当前状态的只读快照
func (s *Shop) Snapshot() Snapshot {
	gs := s.gameState
	snap := Snapshot{
		RunID:          gs.RunID,
		ShopID:         s.config.ID,
		Difficulty:     gs.Difficulty.String(),
		Time:           s.scheduler.Now(),
		Wave:           gs.CurrentWave,
		TotalWaves:     gs.TotalWaves,
		Active:         s.waveSystem.ActiveCount(),
		Spawned:        gs.Spawned,
		Served:         gs.Served,
		Angered:        gs.Angered,
		Victory:        gs.Victory,
		GameOver:       gs.GameOver,
		InventorySlots: s.inventory.SlotCount(),
	}

	if hp, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, s.player); ok {
		snap.PlayerHealth = hp.CurrentHealth
		snap.PlayerMaxHealth = hp.MaxHealth
	}
	if held := s.inventory.GetHeldItem(); held != ecs.InvalidEntity {
		if item, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, held); ok {
			snap.HeldItem = describeItem(item)
		}
	}
	for _, id := range s.inventory.Items() {
		if id != ecs.InvalidEntity {
			snap.InventoryUsed++
		}
	}

	for _, id := range s.customerSystem.Customers() {
		cust, _ := ecs.GetComponent[*components.CustomerComponent](s.entityManager, id)
		view := CustomerView{
			ID:            uint64(id),
			State:         cust.State.String(),
			Patience:      cust.Patience,
			MaxPatience:   cust.MaxPatience,
			QueuePosition: s.queue.QueuePosition(id),
		}
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			view.Position = pos.Vec3
		}
		if ws, ok := ecs.GetComponent[*components.CustomerWaveStateComponent](s.entityManager, id); ok {
			view.Wave = ws.WaveIndex + 1
		}
		snap.Customers = append(snap.Customers, view)
	}

	for _, p := range s.points {
		snap.DeliveryPoints = append(snap.DeliveryPoints, DeliveryPointView{
			ID:       p.ID,
			Position: p.Position,
			Item:     uint64(p.HeldItem()),
			Customer: uint64(p.AwaitingCustomer()),
		})
	}

	for _, m := range s.machines {
		snap.Machines = append(snap.Machines, MachineView{
			ID:        m.ID,
			Position:  m.Position,
			Mode:      m.CurrentMode(),
			Washing:   m.IsWashing(),
			Loaded:    m.LoadedCount(),
			Capacity:  m.Capacity,
			Remaining: m.GetRemainingTime(),
			Progress:  m.GetProgressPercentage(),
		})
	}

	return snap
}

func describeItem(item *components.ItemComponent) string {
	name := item.Name
	if name == "" {
		name = string(item.Kind)
	}
	if item.Clean {
		return name + " (clean)"
	}
	return name
}

// FormatStatus 把快照格式化为多行状态文字
func FormatStatus(snap Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]  t=%.1fs  wave %d/%d  active %d\n",
		snap.ShopID, snap.Difficulty, snap.Time, snap.Wave, snap.TotalWaves, snap.Active)
	fmt.Fprintf(&b, "HP %.0f/%.0f  served %d  angered %d  spawned %d\n",
		snap.PlayerHealth, snap.PlayerMaxHealth, snap.Served, snap.Angered, snap.Spawned)

	hand := snap.HeldItem
	if hand == "" {
		hand = "-"
	}
	fmt.Fprintf(&b, "hand: %s  bag %d/%d\n", hand, snap.InventoryUsed, snap.InventorySlots)

	for _, m := range snap.Machines {
		if m.Washing {
			fmt.Fprintf(&b, "machine %d [%s] washing %d  %.0f%%  %.1fs left\n", m.ID, m.Mode, m.Loaded, m.Progress, m.Remaining)
		} else {
			fmt.Fprintf(&b, "machine %d [%s] idle %d/%d\n", m.ID, m.Mode, m.Loaded, m.Capacity)
		}
	}
	for _, c := range snap.Customers {
		fmt.Fprintf(&b, "  #%d %-15s patience %4.1f/%-4.0f queue %d\n", c.ID, c.State, c.Patience, c.MaxPatience, c.QueuePosition)
	}

	switch {
	case snap.GameOver:
		b.WriteString("GAME OVER\n")
	case snap.Victory:
		b.WriteString("VICTORY\n")
	}
	return b.String()
}

// SnapshotHolder 在模拟循环与 HTTP 处理之间共享最新快照
type SnapshotHolder struct {
	mu   sync.RWMutex
	snap Snapshot
	set  bool
}

// Store 保存最新快照
func (h *SnapshotHolder) Store(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.set = true
}

// Load 读取最新快照，尚未保存过时返回 false
func (h *SnapshotHolder) Load() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.set
}
