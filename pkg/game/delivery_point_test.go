package game

import (
	"testing"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptingListener 模拟顾客状态机：接受时把顾客切到 GoingToDelivery
type acceptingListener struct {
	em     *ecs.EntityManager
	accept bool
	calls  int
}

func (l *acceptingListener) GoToDeliveryPoint(customer ecs.EntityID, _ *DeliveryPoint) bool {
	l.calls++
	if !l.accept {
		return false
	}
	cust, _ := ecs.GetComponent[*components.CustomerComponent](l.em, customer)
	cust.State = types.CustomerGoingToDelivery
	return true
}

func newItem(em *ecs.EntityManager, holder types.ItemHolder, clean bool) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{})
	em.AddComponent(id, &components.ItemComponent{Kind: "shirt", Holder: holder, Clean: clean, Amount: 1})
	return id
}

func newTestPoint(em *ecs.EntityManager, accept bool) (*DeliveryPoint, *acceptingListener) {
	p := NewDeliveryPoint(0, em, config.DeliveryPointConfig{
		Position:     utils.Vec3{X: 2},
		PickupRadius: 1.5,
		Zone:         &utils.Box{Min: utils.Vec3{X: 1, Y: -1, Z: -1}, Max: utils.Vec3{X: 3, Y: 2, Z: 1}},
	})
	l := &acceptingListener{em: em, accept: accept}
	p.SetListener(l)
	return p, l
}

func TestPlaceItemTwice(t *testing.T) {
	em := ecs.NewEntityManager()
	p, _ := newTestPoint(em, true)
	c1 := newCustomer(em, types.CustomerWaiting)
	c2 := newCustomer(em, types.CustomerWaiting)
	first := newItem(em, types.HolderHand, true)
	second := newItem(em, types.HolderHand, true)

	assert.True(t, p.PlaceItem(first, c1))
	assert.False(t, p.PlaceItem(second, c2))
	assert.Equal(t, first, p.HeldItem())
	assert.Equal(t, c1, p.AwaitingCustomer())

	comp, _ := ecs.GetComponent[*components.ItemComponent](em, second)
	assert.Equal(t, types.HolderHand, comp.Holder, "rejected item must stay with its holder")

	placed, _ := ecs.GetComponent[*components.ItemComponent](em, first)
	assert.Equal(t, types.HolderDeliveryPoint, placed.Holder)
	assert.True(t, placed.Kinematic)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, first)
	assert.Equal(t, p.DropPosition, pos.Vec3)
}

func TestPlaceItemRollbackWhenCustomerRefuses(t *testing.T) {
	em := ecs.NewEntityManager()
	p, l := newTestPoint(em, false)
	c := newCustomer(em, types.CustomerLeaving)
	item := newItem(em, types.HolderHand, true)

	assert.False(t, p.PlaceItem(item, c))
	assert.Equal(t, 1, l.calls)
	assert.True(t, p.IsAvailable())
	assert.Equal(t, ecs.InvalidEntity, p.AwaitingCustomer())
	comp, _ := ecs.GetComponent[*components.ItemComponent](em, item)
	assert.Equal(t, types.HolderHand, comp.Holder)
}

func TestDeliveryRoundTrip(t *testing.T) {
	em := ecs.NewEntityManager()
	p, _ := newTestPoint(em, true)
	c := newCustomer(em, types.CustomerWaiting)
	em.AddComponent(c, &components.PositionComponent{Vec3: utils.Vec3{X: 10}})
	item := newItem(em, types.HolderHand, true)

	require.True(t, p.PlaceItem(item, c))
	_, ready := p.ReadyForPickup()
	assert.False(t, ready, "customer still far away")

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, c)
	pos.X = 3
	got, ready := p.ReadyForPickup()
	require.True(t, ready)
	assert.Equal(t, c, got)

	delivered, ok := p.CompleteDelivery(c)
	assert.True(t, ok)
	assert.Equal(t, item, delivered)
	assert.True(t, p.IsAvailable())

	// 第二次触发为空操作
	_, ok = p.CompleteDelivery(c)
	assert.False(t, ok)
	_, ready = p.ReadyForPickup()
	assert.False(t, ready)
}

func TestCompleteDeliveryWrongCustomer(t *testing.T) {
	em := ecs.NewEntityManager()
	p, _ := newTestPoint(em, true)
	c := newCustomer(em, types.CustomerWaiting)
	other := newCustomer(em, types.CustomerWaiting)
	require.True(t, p.PlaceItem(newItem(em, types.HolderHand, true), c))

	_, ok := p.CompleteDelivery(other)
	assert.False(t, ok)
	assert.False(t, p.IsAvailable())
}

func TestReleaseForReturnsItemToWorld(t *testing.T) {
	em := ecs.NewEntityManager()
	p, _ := newTestPoint(em, true)
	c := newCustomer(em, types.CustomerWaiting)
	item := newItem(em, types.HolderHand, true)
	require.True(t, p.PlaceItem(item, c))

	assert.False(t, p.ReleaseFor(c+100))
	assert.True(t, p.ReleaseFor(c))
	assert.True(t, p.IsAvailable())
	comp, _ := ecs.GetComponent[*components.ItemComponent](em, item)
	assert.Equal(t, types.HolderWorld, comp.Holder)
	assert.False(t, comp.Kinematic)
	assert.False(t, p.ReleaseFor(c))
}

func TestInteractionZone(t *testing.T) {
	em := ecs.NewEntityManager()
	p, _ := newTestPoint(em, true)
	assert.True(t, p.IsPlayerInInteractionZone(utils.Vec3{X: 2}))
	assert.False(t, p.IsPlayerInInteractionZone(utils.Vec3{X: 5}))

	open := NewDeliveryPoint(1, em, config.DeliveryPointConfig{Position: utils.Vec3{}})
	assert.True(t, open.IsPlayerInInteractionZone(utils.Vec3{X: 50}))
	assert.Equal(t, utils.Vec3{Y: 0.5}, open.DropPosition)
}
