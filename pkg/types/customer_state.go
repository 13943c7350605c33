// Package types 定义共享的基础类型
package types

// CustomerState 顾客状态机的状态
type CustomerState int

const (
	CustomerSpawning        CustomerState = iota // 刚生成，等待出场延迟
	CustomerWalkingToQueue                       // 走向分配到的服务位
	CustomerInLine                               // 在队伍中排队（非队首，不消耗耐心）
	CustomerWaiting                              // 队首，等待物品（耐心递减）
	CustomerGettingAngry                         // 耐心低于阈值，仍在等待
	CustomerAngry                                // 耐心耗尽，攻击玩家
	CustomerGoingToDelivery                      // 走向取货点
	CustomerPickingUp                            // 正在取货
	CustomerLeaving                              // 离开商店
)

var customerStateNames = [...]string{
	"Spawning",
	"WalkingToQueue",
	"InLine",
	"Waiting",
	"GettingAngry",
	"Angry",
	"GoingToDelivery",
	"PickingUp",
	"Leaving",
}

// String 返回状态名称（日志和快照使用）
func (s CustomerState) String() string {
	if s < 0 || int(s) >= len(customerStateNames) {
		return "Unknown"
	}
	return customerStateNames[s]
}

// IsAwaitingItem 顾客是否处于可被服务的等待状态（Waiting / GettingAngry）
func (s CustomerState) IsAwaitingItem() bool {
	return s == CustomerWaiting || s == CustomerGettingAngry
}

// CanReceiveDelivery 顾客是否可以转入 GoingToDelivery
// 愤怒的顾客仍可被安抚
func (s CustomerState) CanReceiveDelivery() bool {
	return s.IsAwaitingItem() || s == CustomerAngry
}
