package entities

import (
	"testing"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
)

func testCustomerParams() config.CustomerConfig {
	return config.CustomerConfig{
		SpawnDelay:           1,
		PatienceDecreaseRate: 1,
		AngryThreshold:       0.5,
		WalkSpeed:            2,
		AngrySpeed:           3,
		InteractionDistance:  1,
		Radius:               0.4,
		AttackDamage:         10,
		AttackCooldown:       1.5,
		AttackRange:          1.6,
	}
}

func TestNewCustomerEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	spawn := utils.Vec3{X: -6, Z: 10}

	id, err := NewCustomerEntity(em, CustomerSpec{
		SpawnPoint:  spawn,
		Patience:    30,
		Params:      testCustomerParams(),
		WaveIndex:   2,
		IndexInWave: 1,
	})
	if err != nil {
		t.Fatalf("NewCustomerEntity() failed: %v", err)
	}

	cust, ok := ecs.GetComponent[*components.CustomerComponent](em, id)
	if !ok {
		t.Fatal("customer component missing")
	}
	if cust.State != types.CustomerSpawning {
		t.Errorf("State = %v, want Spawning", cust.State)
	}
	if cust.Patience != 30 || cust.MaxPatience != 30 {
		t.Errorf("Patience = %v/%v, want 30/30", cust.Patience, cust.MaxPatience)
	}
	if cust.DeliveryPoint != -1 {
		t.Errorf("DeliveryPoint = %d, want -1", cust.DeliveryPoint)
	}
	if cust.SpawnPoint != spawn {
		t.Errorf("SpawnPoint = %+v", cust.SpawnPoint)
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.Vec3 != spawn {
		t.Errorf("Position = %+v, want spawn point", pos.Vec3)
	}

	wave, _ := ecs.GetComponent[*components.CustomerWaveStateComponent](em, id)
	if wave.WaveIndex != 2 || wave.IndexInWave != 1 {
		t.Errorf("wave state = %+v", wave)
	}

	atk, _ := ecs.GetComponent[*components.AttackComponent](em, id)
	if atk.SinceLastAttack < atk.Cooldown {
		t.Error("first attack should not wait for cooldown")
	}
}

func TestNewCustomerEntityInvalid(t *testing.T) {
	if _, err := NewCustomerEntity(nil, CustomerSpec{Patience: 1}); err == nil {
		t.Error("expected error for nil entity manager")
	}
	em := ecs.NewEntityManager()
	if _, err := NewCustomerEntity(em, CustomerSpec{Patience: 0}); err == nil {
		t.Error("expected error for zero patience")
	}
	if em.EntityCount() != 0 {
		t.Errorf("failed creation left %d entities", em.EntityCount())
	}
}

func TestNewRequestItemEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	owner := em.CreateEntity()
	id, err := NewRequestItemEntity(em, config.ItemConfig{Kind: "socks", Name: "Muddy Socks"}, utils.Vec3{Y: 1}, owner)
	if err != nil {
		t.Fatalf("NewRequestItemEntity() failed: %v", err)
	}
	item, _ := ecs.GetComponent[*components.ItemComponent](em, id)
	if item.Kind != "socks" || item.Clean || item.Holder != types.HolderTable || item.Owner != owner {
		t.Errorf("unexpected item %+v", item)
	}

	if _, err := NewRequestItemEntity(em, config.ItemConfig{}, utils.Vec3{}, owner); err == nil {
		t.Error("expected error for empty kind")
	}
}

func TestNewPlayerAndObstacle(t *testing.T) {
	em := ecs.NewEntityManager()
	player := NewPlayerEntity(em, config.PlayerConfig{MaxHealth: 80, DeliveryInteractionRange: 10})
	hp, _ := ecs.GetComponent[*components.HealthComponent](em, player)
	if hp.CurrentHealth != 80 || hp.IsDead() {
		t.Errorf("player health = %+v", hp)
	}
	if !ecs.HasComponent[*components.PlayerComponent](em, player) {
		t.Error("player component missing")
	}

	box := utils.Box{Min: utils.Vec3{X: -1}, Max: utils.Vec3{X: 1, Y: 1, Z: 1}}
	obstacle := NewObstacleEntity(em, box)
	obs, _ := ecs.GetComponent[*components.ObstacleComponent](em, obstacle)
	if obs.Box != box {
		t.Errorf("obstacle box = %+v", obs.Box)
	}
}
