package components

import (
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/scheduler"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
)

// CustomerComponent 僵尸顾客数据
// 状态转换只由 CustomerSystem 执行，其他模块只读或通过 CustomerSystem 的方法驱动
type CustomerComponent struct {
	State types.CustomerState

	// 耐心
	MaxPatience          float64 // 总耐心（秒），由波次的 zombieWaitTime 决定
	Patience             float64 // 剩余耐心
	PatienceDecreaseRate float64 // 每秒递减量
	AngryThreshold       float64 // 进入 GettingAngry 的比例（0.5 = 一半）

	// 移动参数
	WalkSpeed           float64
	AngrySpeed          float64
	InteractionDistance float64 // 排队时的停止距离
	SpawnPoint          utils.Vec3

	// 出场
	SpawnDelay float64 // 生成后等待多久才走向队伍
	SpawnReady bool    // 出场延迟是否已结束

	// 队列分配到的服务位（出场延迟期间分配的会被记住）
	QueueTarget    utils.Vec3
	HasQueueTarget bool

	// 请求物品
	RequestedItem ecs.EntityID   // 当前请求的物品
	RequestItems  []ecs.EntityID // 本顾客生成过的所有请求物品
	ItemSpawned   bool           // 请求物品是否创建成功
	ItemDelivered bool           // 是否已拿到物品

	// 取货
	DeliveryPoint int // 正在前往的取货点ID，-1 表示无

	// 幂等标记
	RemovedFromQueue bool // 已从队列移除
	FinishNotified   bool // 已计入"服务完成"
	Destroyed        bool // 已销毁（防止重复清理）

	// 挂起的定时任务（销毁时取消）
	PendingTasks []scheduler.Handle
}
