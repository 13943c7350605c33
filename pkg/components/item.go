package components

import (
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/types"
)

// ItemComponent 物品（衣物）数据
//
// 物品以标签方式描述：Kind 决定是什么，Holder 决定在哪里，
// 各个持有者通过修改 Holder 完成交接，不需要按类型查找组件
type ItemComponent struct {
	Kind   types.ItemKind
	Name   string
	Amount int
	Clean  bool

	Holder types.ItemHolder
	// Kinematic 为 true 时物品被固定（放在取货点上、在手里），不参与物理
	Kinematic bool

	// Owner 请求这件物品的顾客（可为 0）
	Owner ecs.EntityID
}
