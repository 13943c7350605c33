package entities

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// CustomerSpec 创建顾客所需的参数
type CustomerSpec struct {
	SpawnPoint  utils.Vec3            // 生成位置，离开时也回到这里
	Patience    float64               // 耐心总量（秒），来自波次的 zombieWaitTime
	Params      config.CustomerConfig // 顾客通用参数（已应用默认值）
	WaveIndex   int
	IndexInWave int
}

// NewCustomerEntity 创建僵尸顾客实体
// 顾客以 Spawning 状态出现在生成点，尚未加入队伍
//
// 参数:
//   - em: 实体管理器
//   - spec: 顾客参数
//
// 返回:
//   - ecs.EntityID: 创建的顾客实体ID，如果失败返回 0
//   - error: 如果参数非法返回错误信息
func NewCustomerEntity(em *ecs.EntityManager, spec CustomerSpec) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if spec.Patience <= 0 {
		return 0, fmt.Errorf("customer patience must be positive, got %v", spec.Patience)
	}
	p := spec.Params

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PositionComponent{Vec3: spec.SpawnPoint})

	em.AddComponent(entityID, &components.MovementComponent{
		Speed:            p.WalkSpeed,
		StoppingDistance: p.InteractionDistance,
		Radius:           p.Radius,
	})

	em.AddComponent(entityID, &components.CustomerComponent{
		State:                types.CustomerSpawning,
		MaxPatience:          spec.Patience,
		Patience:             spec.Patience,
		PatienceDecreaseRate: p.PatienceDecreaseRate,
		AngryThreshold:       p.AngryThreshold,
		WalkSpeed:            p.WalkSpeed,
		AngrySpeed:           p.AngrySpeed,
		InteractionDistance:  p.InteractionDistance,
		SpawnPoint:           spec.SpawnPoint,
		SpawnDelay:           p.SpawnDelay,
		DeliveryPoint:        -1,
	})

	em.AddComponent(entityID, &components.CustomerWaveStateComponent{
		WaveIndex:   spec.WaveIndex,
		IndexInWave: spec.IndexInWave,
	})

	// 第一次攻击不需要等待冷却
	em.AddComponent(entityID, &components.AttackComponent{
		Damage:          p.AttackDamage,
		Cooldown:        p.AttackCooldown,
		Range:           p.AttackRange,
		SinceLastAttack: p.AttackCooldown,
	})

	return entityID, nil
}
