package components

// AttackComponent 近战攻击参数
// 只有愤怒的顾客会使用
type AttackComponent struct {
	Damage   float64 // 每次攻击伤害
	Cooldown float64 // 攻击冷却（秒）
	Range    float64 // 攻击距离

	// SinceLastAttack 距上次攻击的时间，初始为一个很大的值保证第一次攻击立即可用
	SinceLastAttack float64
	AttackCount     int // 已攻击次数（调试用）
}
