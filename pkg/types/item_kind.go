package types

// ItemKind 物品种类（由配置中的物品目录决定）
type ItemKind string

// ItemHolder 物品当前的持有者
// 物品同一时刻只属于一个持有者
type ItemHolder int

const (
	HolderWorld         ItemHolder = iota // 散落在场景中（可被拾取）
	HolderTable                           // 顾客请求物品，放在柜台上
	HolderInventory                       // 玩家背包槽位
	HolderHand                            // 玩家手中
	HolderMachine                         // 洗衣机内
	HolderDeliveryPoint                   // 取货点上
	HolderCustomer                        // 已被顾客取走
)

var itemHolderNames = [...]string{
	"World",
	"Table",
	"Inventory",
	"Hand",
	"Machine",
	"DeliveryPoint",
	"Customer",
}

func (h ItemHolder) String() string {
	if h < 0 || int(h) >= len(itemHolderNames) {
		return "Unknown"
	}
	return itemHolderNames[h]
}
