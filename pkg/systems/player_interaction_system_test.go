package systems

import (
	"testing"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/entities"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptAll 总是接受交付的顾客
type acceptAll struct{}

func (acceptAll) GoToDeliveryPoint(ecs.EntityID, *game.DeliveryPoint) bool { return true }

type interactionFixture struct {
	em     *ecs.EntityManager
	queue  *game.QueueManager
	near   *game.DeliveryPoint
	far    *game.DeliveryPoint
	inv    *game.Inventory
	player ecs.EntityID
	system *PlayerInteractionSystem
}

func newInteractionFixture(requireClean bool) *interactionFixture {
	em := ecs.NewEntityManager()
	f := &interactionFixture{
		em:     em,
		queue:  game.NewQueueManager(em, []utils.Vec3{{}}),
		inv:    game.NewInventory(em, 4),
		player: newTestPlayer(em, 100),
	}
	f.near = game.NewDeliveryPoint(0, em, config.DeliveryPointConfig{
		Position:     utils.Vec3{X: 1},
		PickupRadius: 1.5,
		Zone:         &utils.Box{Min: utils.Vec3{X: 0.5, Y: -1, Z: -0.5}, Max: utils.Vec3{X: 1.5, Y: 2, Z: 0.5}},
	})
	f.far = game.NewDeliveryPoint(1, em, config.DeliveryPointConfig{
		Position:     utils.Vec3{X: 10, Z: 10},
		PickupRadius: 1.5,
		Zone:         &utils.Box{Min: utils.Vec3{X: 9, Y: -1, Z: 9}, Max: utils.Vec3{X: 11, Y: 2, Z: 11}},
	})
	f.near.SetListener(acceptAll{})
	f.far.SetListener(acceptAll{})
	f.system = NewPlayerInteractionSystem(em, f.queue, []*game.DeliveryPoint{f.far, f.near}, f.inv, f.player, requireClean)
	return f
}

func (f *interactionFixture) addCustomer(state types.CustomerState, at utils.Vec3) ecs.EntityID {
	id := f.em.CreateEntity()
	f.em.AddComponent(id, &components.PositionComponent{Vec3: at})
	f.em.AddComponent(id, &components.CustomerComponent{State: state, DeliveryPoint: -1})
	return id
}

func (f *interactionFixture) hold(clean bool) ecs.EntityID {
	item := entities.NewLooseItemEntity(f.em, "socks", "Socks", utils.Vec3{}, clean)
	f.inv.AddItem(item)
	f.inv.TakeItemFromSlot(0)
	return item
}

func TestSelectDeliveryPoint(t *testing.T) {
	f := newInteractionFixture(true)

	// 不在任何区域内：范围内最近的点
	sel, ok := f.system.SelectDeliveryPoint(utils.Vec3{})
	require.True(t, ok)
	assert.Same(t, f.near, sel.Point)
	assert.False(t, sel.ByZone)

	// 站在远处取货点的区域内：区域优先
	sel, ok = f.system.SelectDeliveryPoint(utils.Vec3{X: 10, Z: 10})
	require.True(t, ok)
	assert.Same(t, f.far, sel.Point)
	assert.True(t, sel.ByZone)

	// 超出交互范围
	player, _ := ecs.GetComponent[*components.PlayerComponent](f.em, f.player)
	player.DeliveryInteractionRange = 0.5
	_, ok = f.system.SelectDeliveryPoint(utils.Vec3{X: -3})
	assert.False(t, ok)
}

func TestFindTargetCustomerPriority(t *testing.T) {
	f := newInteractionFixture(true)
	pos := utils.Vec3{}

	angry := f.addCustomer(types.CustomerAngry, utils.Vec3{X: 0.5})
	angryComp, _ := ecs.GetComponent[*components.CustomerComponent](f.em, angry)

	_, ok := f.system.FindTargetCustomer(pos)
	assert.False(t, ok, "angry customer without a request item is not a target")

	angryComp.ItemSpawned = true
	id, ok := f.system.FindTargetCustomer(pos)
	require.True(t, ok)
	assert.Equal(t, angry, id)

	farWaiting := f.addCustomer(types.CustomerWaiting, utils.Vec3{X: 3})
	nearWaiting := f.addCustomer(types.CustomerGettingAngry, utils.Vec3{X: 2})
	id, _ = f.system.FindTargetCustomer(pos)
	assert.Equal(t, nearWaiting, id)

	// 队首的可服务顾客优先于距离
	f.queue.Enqueue(farWaiting)
	id, _ = f.system.FindTargetCustomer(pos)
	assert.Equal(t, farWaiting, id)
}

func TestTryPlaceRequiresCleanItem(t *testing.T) {
	f := newInteractionFixture(true)
	customer := f.addCustomer(types.CustomerWaiting, utils.Vec3{Z: 1})
	f.queue.Enqueue(customer)

	dirty := f.hold(false)
	assert.False(t, f.system.TryPlaceOnDeliveryPoint())
	assert.Equal(t, dirty, f.inv.GetHeldItem())
	assert.True(t, f.near.IsAvailable())

	item, _ := ecs.GetComponent[*components.ItemComponent](f.em, dirty)
	item.Clean = true
	require.True(t, f.system.TryPlaceOnDeliveryPoint())
	assert.False(t, f.inv.HasItemInHand())
	assert.Equal(t, dirty, f.near.HeldItem())
	assert.Equal(t, customer, f.near.AwaitingCustomer())

	// 取货点被占用
	f.hold(true)
	assert.False(t, f.system.TryPlaceOnDeliveryPoint())
	assert.True(t, f.inv.HasItemInHand())
}

func TestTryPlaceAllowsDirtyItemsWhenNotRequired(t *testing.T) {
	f := newInteractionFixture(false)
	customer := f.addCustomer(types.CustomerWaiting, utils.Vec3{Z: 1})
	f.queue.Enqueue(customer)

	f.hold(false)
	assert.True(t, f.system.TryPlaceOnDeliveryPoint())
}

func TestPickUpAndLoadMachine(t *testing.T) {
	f := newInteractionFixture(true)
	machine := game.NewWashingMachine(0, f.em, config.MachineConfig{Capacity: 1, Mode: config.WashModeQuick}, config.DefaultWashModes())

	first := entities.NewLooseItemEntity(f.em, "shirt", "Shirt", utils.Vec3{}, false)
	second := entities.NewLooseItemEntity(f.em, "pants", "Pants", utils.Vec3{}, false)
	require.True(t, f.system.PickUpItem(first))
	require.True(t, f.system.PickUpItem(second))
	assert.False(t, f.system.PickUpItem(first), "already carried")

	require.True(t, f.system.LoadSlotIntoMachine(0, machine))
	assert.Equal(t, ecs.InvalidEntity, f.inv.ItemAt(0))

	// 洗衣机已满，物品留在槽位
	assert.False(t, f.system.LoadSlotIntoMachine(1, machine))
	assert.Equal(t, second, f.inv.ItemAt(1))

	require.True(t, f.system.HoldSlot(1))
	assert.Equal(t, second, f.inv.GetHeldItem())
	require.True(t, f.system.StashHand())
	assert.False(t, f.inv.HasItemInHand())
	assert.True(t, f.inv.Contains(second))
}
