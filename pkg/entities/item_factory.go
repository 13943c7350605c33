package entities

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// NewRequestItemEntity 创建顾客请求的物品（脏衣物），放在柜台上
//
// 参数:
//   - em: 实体管理器
//   - item: 物品目录项
//   - at: 柜台上的摆放位置
//   - owner: 请求该物品的顾客
func NewRequestItemEntity(em *ecs.EntityManager, item config.ItemConfig, at utils.Vec3, owner ecs.EntityID) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if item.Kind == "" {
		return 0, fmt.Errorf("request item kind is empty")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{Vec3: at})
	em.AddComponent(entityID, &components.ItemComponent{
		Kind:      types.ItemKind(item.Kind),
		Name:      item.Name,
		Amount:    1,
		Clean:     false,
		Holder:    types.HolderTable,
		Kinematic: true,
		Owner:     owner,
	})
	return entityID, nil
}

// NewLooseItemEntity 创建散落在场景中的物品
func NewLooseItemEntity(em *ecs.EntityManager, kind types.ItemKind, name string, at utils.Vec3, clean bool) ecs.EntityID {
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{Vec3: at})
	em.AddComponent(entityID, &components.ItemComponent{
		Kind:   kind,
		Name:   name,
		Amount: 1,
		Clean:  clean,
		Holder: types.HolderWorld,
	})
	return entityID
}
