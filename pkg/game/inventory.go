package game

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
)

// Inventory 玩家背包：固定数量的槽位和一只手
//
// 物品只有在"手"里时才能放到取货点上
type Inventory struct {
	em    *ecs.EntityManager
	slots []ecs.EntityID
	hand  ecs.EntityID
}

// NewInventory 创建背包
func NewInventory(em *ecs.EntityManager, slotCount int) *Inventory {
	if slotCount < 0 {
		slotCount = 0
	}
	return &Inventory{
		em:    em,
		slots: make([]ecs.EntityID, slotCount),
	}
}

// SlotCount 槽位数量
func (inv *Inventory) SlotCount() int { return len(inv.slots) }

// FindEmptySlot 第一个空槽位，背包满时返回 -1
func (inv *Inventory) FindEmptySlot() int {
	for i, id := range inv.slots {
		if id == ecs.InvalidEntity {
			return i
		}
	}
	return -1
}

// AddItem 把物品放进第一个空槽位
func (inv *Inventory) AddItem(item ecs.EntityID) bool {
	if item == ecs.InvalidEntity || inv.Contains(item) {
		return false
	}
	slot := inv.FindEmptySlot()
	if slot < 0 {
		return false
	}
	if !inv.setHolder(item, types.HolderInventory) {
		return false
	}
	inv.slots[slot] = item
	return true
}

// ItemAt 槽位中的物品
func (inv *Inventory) ItemAt(slot int) ecs.EntityID {
	if slot < 0 || slot >= len(inv.slots) {
		return ecs.InvalidEntity
	}
	return inv.slots[slot]
}

// TakeItemFromSlot 把槽位中的物品拿到手上
// 手上已有物品时与槽位交换
func (inv *Inventory) TakeItemFromSlot(slot int) bool {
	item := inv.ItemAt(slot)
	if item == ecs.InvalidEntity {
		return false
	}
	prev := inv.hand
	inv.slots[slot] = prev
	if prev != ecs.InvalidEntity {
		inv.setHolder(prev, types.HolderInventory)
	}
	inv.hand = item
	inv.setHolder(item, types.HolderHand)
	return true
}

// PlaceItemToSlot 把手上的物品放回空槽位
func (inv *Inventory) PlaceItemToSlot(slot int) bool {
	if inv.hand == ecs.InvalidEntity || slot < 0 || slot >= len(inv.slots) || inv.slots[slot] != ecs.InvalidEntity {
		return false
	}
	inv.slots[slot] = inv.hand
	inv.setHolder(inv.hand, types.HolderInventory)
	inv.hand = ecs.InvalidEntity
	return true
}

// RemoveItemFromSlot 取出槽位中的物品（不修改物品的持有者，由调用方设置）
func (inv *Inventory) RemoveItemFromSlot(slot int) ecs.EntityID {
	item := inv.ItemAt(slot)
	if item != ecs.InvalidEntity {
		inv.slots[slot] = ecs.InvalidEntity
	}
	return item
}

// HasItemInHand 手上是否有物品
func (inv *Inventory) HasItemInHand() bool {
	return inv.hand != ecs.InvalidEntity
}

// GetHeldItem 手上的物品
func (inv *Inventory) GetHeldItem() ecs.EntityID {
	return inv.hand
}

// ClearHand 清空手（物品已交给别处），返回原来手上的物品
func (inv *Inventory) ClearHand() ecs.EntityID {
	item := inv.hand
	inv.hand = ecs.InvalidEntity
	return item
}

// Items 所有槽位的副本（空槽位为 0）
func (inv *Inventory) Items() []ecs.EntityID {
	out := make([]ecs.EntityID, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// Contains 物品是否在背包或手上
func (inv *Inventory) Contains(item ecs.EntityID) bool {
	if item == ecs.InvalidEntity {
		return false
	}
	if inv.hand == item {
		return true
	}
	for _, id := range inv.slots {
		if id == item {
			return true
		}
	}
	return false
}

// Forget 移除对已销毁物品的引用
func (inv *Inventory) Forget(item ecs.EntityID) {
	if item == ecs.InvalidEntity {
		return
	}
	if inv.hand == item {
		inv.hand = ecs.InvalidEntity
	}
	for i, id := range inv.slots {
		if id == item {
			inv.slots[i] = ecs.InvalidEntity
		}
	}
}

func (inv *Inventory) setHolder(item ecs.EntityID, holder types.ItemHolder) bool {
	comp, ok := ecs.GetComponent[*components.ItemComponent](inv.em, item)
	if !ok {
		return false
	}
	comp.Holder = holder
	comp.Kinematic = true
	return true
}
