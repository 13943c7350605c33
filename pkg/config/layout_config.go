package config

// 布局配置常量
// 本文件定义了商店俯视图的绘制参数：窗口尺寸、世界坐标到屏幕坐标的换算

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度（像素）
	GameWindowHeight = 600

	// TicksPerSecond 模拟步进频率，每个 tick 推进 1/TicksPerSecond 秒
	TicksPerSecond = 60
)

// Top-down View Configuration (俯视图配置)
// 世界坐标 X 向右、Z 向下映射到屏幕，Y（高度）不参与绘制
const (
	// PixelsPerMeter 每米对应的像素数
	PixelsPerMeter = 40.0

	// ViewOriginX 世界原点在屏幕上的X坐标
	ViewOriginX = GameWindowWidth / 2

	// ViewOriginY 世界原点在屏幕上的Y坐标
	// 原点略偏上，给顾客生成点（Z 为正）留出空间
	ViewOriginY = 200.0

	// StatusPanelX 状态文字的左上角
	StatusPanelX = 8
	StatusPanelY = 8

	// HelpLineY 按键帮助所在行
	HelpLineY = GameWindowHeight - 20
)

// Player Control (玩家操作)
const (
	// PlayerMoveSpeed 键盘移动玩家的速度（米/秒）
	PlayerMoveSpeed = 4.0
)

// WorldToScreen 把世界坐标 (x, z) 换算为屏幕坐标
func WorldToScreen(x, z float64) (float64, float64) {
	return ViewOriginX + x*PixelsPerMeter, ViewOriginY + z*PixelsPerMeter
}

// ScreenToWorld 把屏幕坐标换算回世界坐标 (x, z)
func ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - ViewOriginX) / PixelsPerMeter, (sy - ViewOriginY) / PixelsPerMeter
}
