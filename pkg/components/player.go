package components

// PlayerComponent 标记玩家实体
type PlayerComponent struct {
	Name string
	// DeliveryInteractionRange 不在任何交互区域时，允许使用取货点的最大距离
	DeliveryInteractionRange float64
}
