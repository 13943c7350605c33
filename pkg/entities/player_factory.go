package entities

import (
	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// NewPlayerEntity 创建玩家实体
// 玩家拥有位置和生命值，被愤怒的顾客追击
func NewPlayerEntity(em *ecs.EntityManager, cfg config.PlayerConfig) ecs.EntityID {
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{Vec3: cfg.Position})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: cfg.MaxHealth,
		MaxHealth:     cfg.MaxHealth,
	})
	em.AddComponent(entityID, &components.PlayerComponent{
		Name:                     "player",
		DeliveryInteractionRange: cfg.DeliveryInteractionRange,
	})
	return entityID
}

// NewObstacleEntity 创建静态障碍物
func NewObstacleEntity(em *ecs.EntityManager, box utils.Box) ecs.EntityID {
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{Vec3: box.Center()})
	em.AddComponent(entityID, &components.ObstacleComponent{Box: box})
	return entityID
}
