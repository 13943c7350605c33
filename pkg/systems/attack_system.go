package systems

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// attackReach 攻击距离之外的额外判定余量（顾客碰撞半径 + 玩家半径）
const attackReach = 0.9

// AttackSystem 愤怒顾客的近战攻击
//
// 愤怒的顾客在冷却结束且与玩家的平面距离 <= Range + attackReach 时攻击一次。
// 玩家生命值归零后设置 GameOver，此后不再处理攻击。
type AttackSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	player        ecs.EntityID
}

// NewAttackSystem 创建攻击系统
func NewAttackSystem(em *ecs.EntityManager, gs *game.GameState, player ecs.EntityID) *AttackSystem {
	return &AttackSystem{
		entityManager: em,
		gameState:     gs,
		player:        player,
	}
}

// Update 推进冷却并执行攻击
func (s *AttackSystem) Update(deltaTime float64) {
	if s.gameState.GameOver {
		return
	}
	playerPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player)
	if !ok {
		return
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, s.player)
	if !ok {
		return
	}

	for _, id := range ecs.GetEntitiesWith3[*components.CustomerComponent, *components.AttackComponent, *components.PositionComponent](s.entityManager) {
		cust, _ := ecs.GetComponent[*components.CustomerComponent](s.entityManager, id)
		if cust.Destroyed || cust.State != types.CustomerAngry {
			continue
		}
		atk, _ := ecs.GetComponent[*components.AttackComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		atk.SinceLastAttack += deltaTime
		if atk.SinceLastAttack < atk.Cooldown {
			continue
		}
		if utils.PlanarDistance(pos.Vec3, playerPos.Vec3) > atk.Range+attackReach {
			continue
		}

		atk.SinceLastAttack = 0
		atk.AttackCount++
		health.CurrentHealth -= atk.Damage
		if health.CurrentHealth < 0 {
			health.CurrentHealth = 0
		}
		log.Printf("[AttackSystem] Customer %d hit the player for %.0f (health %.0f/%.0f)",
			id, atk.Damage, health.CurrentHealth, health.MaxHealth)

		if health.IsDead() {
			s.gameState.GameOver = true
			log.Printf("[AttackSystem] Player defeated, game over")
			return
		}
	}
}
