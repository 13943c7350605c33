package simulation

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/entities"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 0.5

// testShopYAML 最小商店：一个服务位，一个取货点，没有障碍物
const testShopYAML = `
id: test-shop
waves:
  - name: single
    zombiesCount: %d
    timeBetweenZombies: 0.5
    zombieWaitTime: 10
    waveStartDelay: 0.5
servicePoints:
  - { x: 0, y: 0, z: 0 }
spawnPoints:
  - { x: 0, y: 0, z: 2 }
itemSpawnPoints:
  - { x: 1, y: 1, z: 0 }
deliveryPoints:
  - position: { x: 2, y: 0, z: 0 }
    pickupRadius: 1.5
customer:
  spawnDelay: 0.5
  walkSpeed: 2
  interactionDistance: 0.5
  pickupDelay: 0.5
  attackDamage: 1
  attackCooldown: 1
player:
  position: { x: 0, y: 0, z: -3 }
  maxHealth: 100
items:
  - { kind: shirt, name: Shirt }
`

func newTestShop(t *testing.T, customers int) *Shop {
	t.Helper()
	cfg, err := config.ParseShopConfig([]byte(fmt.Sprintf(testShopYAML, customers)))
	require.NoError(t, err)

	shop, err := NewShop(cfg, Options{Difficulty: types.DifficultyNormal})
	require.NoError(t, err)
	t.Cleanup(shop.Close)
	shop.Start()
	return shop
}

// runUntil 以固定步长推进，直到 cond 成立，超过 maxSeconds 则失败
func runUntil(t *testing.T, shop *Shop, maxSeconds float64, cond func() bool) {
	t.Helper()
	for elapsed := 0.0; elapsed <= maxSeconds; elapsed += step {
		if cond() {
			return
		}
		shop.Update(step)
	}
	require.FailNow(t, "condition not reached", "after %.1fs of simulation", maxSeconds)
}

func advance(shop *Shop, seconds float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += step {
		shop.Update(step)
	}
}

func customerState(shop *Shop, id ecs.EntityID) types.CustomerState {
	cust, ok := ecs.GetComponent[*components.CustomerComponent](shop.EntityManager(), id)
	if !ok {
		return types.CustomerState(-1)
	}
	return cust.State
}

func firstCustomer(t *testing.T, shop *Shop) ecs.EntityID {
	t.Helper()
	runUntil(t, shop, 5, func() bool { return len(shop.Customers().Customers()) > 0 })
	return shop.Customers().Customers()[0]
}

func cleanItem(shop *Shop) ecs.EntityID {
	return entities.NewLooseItemEntity(shop.EntityManager(), types.ItemKind("shirt"), "Shirt", shop.Config().Player.Position, true)
}

func TestPatienceTimeline(t *testing.T) {
	shop := newTestShop(t, 1)
	id := firstCustomer(t, shop)

	runUntil(t, shop, 10, func() bool { return customerState(shop, id) == types.CustomerWaiting })
	cust, _ := ecs.GetComponent[*components.CustomerComponent](shop.EntityManager(), id)
	assert.Equal(t, 10.0, cust.Patience)
	assert.True(t, cust.ItemSpawned)

	advance(shop, 4.5)
	assert.Equal(t, types.CustomerWaiting, cust.State)

	// 5s：耐心降到一半
	shop.Update(step)
	assert.Equal(t, types.CustomerGettingAngry, cust.State)
	assert.Equal(t, 5.0, cust.Patience)

	// 10s：耐心耗尽，同一帧转为 Angry
	advance(shop, 5)
	assert.Equal(t, types.CustomerAngry, cust.State)
	assert.Equal(t, 0.0, cust.Patience)
	assert.Equal(t, 1, shop.State().Angered)
	assert.Equal(t, -1, shop.Queue().SlotOf(id))

	// 12s：愤怒的顾客仍然可以接收交付
	advance(shop, 2)
	point := shop.DeliveryPoints()[0]
	require.True(t, point.PlaceItem(cleanItem(shop), id))
	assert.Equal(t, types.CustomerGoingToDelivery, cust.State)

	runUntil(t, shop, 20, func() bool { return shop.State().Served == 1 })
	assert.True(t, point.IsAvailable())

	runUntil(t, shop, 20, func() bool { return shop.State().Victory })
	assert.Empty(t, shop.Customers().Customers())
	assert.Equal(t, 0, shop.Waves().ActiveCount())
}

func TestSingleSlotServesSecondCustomerAfterFirstLeavesSlot(t *testing.T) {
	shop := newTestShop(t, 2)

	runUntil(t, shop, 10, func() bool {
		ids := shop.Customers().Customers()
		return len(ids) == 2 && customerState(shop, ids[0]) == types.CustomerWaiting
	})
	ids := shop.Customers().Customers()
	first, second := ids[0], ids[1]

	assert.True(t, shop.Queue().IsFrontOccupant(first))
	assert.Equal(t, 1, shop.Queue().QueuePosition(second))
	assert.Equal(t, -1, shop.Queue().SlotOf(second))

	require.True(t, shop.DeliveryPoints()[0].PlaceItem(cleanItem(shop), first))
	assert.Equal(t, types.CustomerGoingToDelivery, customerState(shop, first))
	assert.Equal(t, 0, shop.Queue().SlotOf(second))

	runUntil(t, shop, 10, func() bool { return customerState(shop, second) == types.CustomerWaiting })
	runUntil(t, shop, 10, func() bool { return shop.State().Served == 1 })
	advance(shop, 1)

	// 第二位顾客不受打扰，耐心继续减少
	cust, _ := ecs.GetComponent[*components.CustomerComponent](shop.EntityManager(), second)
	assert.Less(t, cust.Patience, cust.MaxPatience)
	assert.True(t, shop.Queue().IsFrontOccupant(second))
}

func TestDeliveryRoundTripThroughInteraction(t *testing.T) {
	shop := newTestShop(t, 1)
	id := firstCustomer(t, shop)
	runUntil(t, shop, 10, func() bool { return customerState(shop, id) == types.CustomerWaiting })

	item := cleanItem(shop)
	inv := shop.Inventory()
	require.True(t, shop.Interaction().PickUpItem(item))
	require.True(t, shop.Interaction().HoldSlot(0))
	require.True(t, shop.Interaction().TryPlaceOnDeliveryPoint())
	assert.False(t, inv.HasItemInHand())

	point := shop.DeliveryPoints()[0]
	assert.Equal(t, item, point.HeldItem())
	assert.Equal(t, id, point.AwaitingCustomer())

	runUntil(t, shop, 10, func() bool { return shop.State().Served == 1 })
	assert.True(t, point.IsAvailable())
	assert.False(t, entityExists(shop, item), "delivered item should be consumed")
}

func entityExists(shop *Shop, id ecs.EntityID) bool {
	_, ok := ecs.GetComponent[*components.ItemComponent](shop.EntityManager(), id)
	return ok
}

func TestDestroyRemovesCustomerFromActiveSet(t *testing.T) {
	shop := newTestShop(t, 1)
	id := firstCustomer(t, shop)
	require.Equal(t, 1, shop.Waves().ActiveCount())

	shop.Customers().Destroy(id)
	shop.Customers().Destroy(id)
	assert.Equal(t, 0, shop.Waves().ActiveCount())
	assert.False(t, shop.Queue().Tracked(id))

	runUntil(t, shop, 5, func() bool { return shop.State().Victory })
	assert.Equal(t, 0, shop.State().Served)
}

func TestCloseIsIdempotent(t *testing.T) {
	shop := newTestShop(t, 2)
	runUntil(t, shop, 10, func() bool { return len(shop.Customers().Customers()) == 2 })

	shop.Close()
	shop.Close()
	assert.True(t, shop.Closed())
	assert.Empty(t, shop.Customers().Customers())
	assert.Equal(t, 0, shop.Scheduler().Pending())
	assert.Equal(t, 0, shop.Queue().TrackedCount())

	now := shop.Now()
	shop.Update(step)
	assert.Equal(t, now, shop.Now())
}

func TestAutopilotClearsDefaultShop(t *testing.T) {
	cfg, err := config.LoadDefaultShopConfig()
	require.NoError(t, err)
	shop, err := NewShop(cfg, Options{Difficulty: types.DifficultyEasy, Autopilot: true})
	require.NoError(t, err)
	defer shop.Close()
	shop.Start()

	const dt = 0.1
	for i := 0; i < 6000 && !shop.State().IsFinished(); i++ {
		shop.Update(dt)
	}

	gs := shop.State()
	require.True(t, gs.Victory, "run did not finish: %s", FormatStatus(shop.Snapshot()))
	assert.False(t, gs.GameOver)
	assert.Equal(t, 5, gs.Spawned)
	assert.Equal(t, gs.Spawned, gs.Served)
	assert.Equal(t, 0, gs.Angered)
}

func TestSnapshot(t *testing.T) {
	shop := newTestShop(t, 1)
	id := firstCustomer(t, shop)
	runUntil(t, shop, 10, func() bool { return customerState(shop, id) == types.CustomerWaiting })

	snap := shop.Snapshot()
	assert.Equal(t, "test-shop", snap.ShopID)
	assert.Equal(t, shop.State().RunID, snap.RunID)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, 1, snap.TotalWaves)
	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 100.0, snap.PlayerHealth)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, uint64(id), snap.Customers[0].ID)
	assert.Equal(t, types.CustomerWaiting.String(), snap.Customers[0].State)
	assert.Equal(t, 0, snap.Customers[0].QueuePosition)
	require.Len(t, snap.DeliveryPoints, 1)
	assert.Empty(t, snap.Machines)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shopId":"test-shop"`)

	status := FormatStatus(snap)
	assert.Contains(t, status, "wave 1/1")
	assert.Contains(t, status, types.CustomerWaiting.String())
}

func TestSnapshotHolder(t *testing.T) {
	var h SnapshotHolder
	_, ok := h.Load()
	assert.False(t, ok)

	h.Store(Snapshot{ShopID: "a", Served: 3})
	snap, ok := h.Load()
	assert.True(t, ok)
	assert.Equal(t, 3, snap.Served)
}

func TestNewShopRejectsInvalidInput(t *testing.T) {
	_, err := NewShop(nil, Options{})
	assert.Error(t, err)

	cfg, err := config.LoadDefaultShopConfig()
	require.NoError(t, err)
	_, err = NewShop(cfg, Options{Difficulty: types.Difficulty(7)})
	assert.Error(t, err)
}
