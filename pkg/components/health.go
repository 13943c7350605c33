package components

// HealthComponent 存储实体的生命值信息
// 目前只有玩家拥有
type HealthComponent struct {
	CurrentHealth float64 // 当前生命值
	MaxHealth     float64 // 最大生命值
}

// IsDead 生命值是否耗尽
func (h *HealthComponent) IsDead() bool {
	return h.CurrentHealth <= 0
}
