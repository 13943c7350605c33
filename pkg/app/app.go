// Package app 提供游戏应用的核心包装器
//
// 该包将窗口、场景管理器与商店模拟的组装从命令行入口中提取出来。
// 命令 `zombiewash run` 通过 NewApp() + Run() 启动窗口。
package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/scenes"
	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
)

// WindowTitle 窗口标题
const WindowTitle = "Zombie Laundromat"

// Config 定义应用启动配置
type Config struct {
	// Shop 商店配置（必填）
	Shop *config.ShopConfig
	// Options 模拟选项，Difficulty 为首局难度
	Options simulation.Options
	// Settings 持久化设置（可为 nil）
	Settings *game.SettingsManager
	// Holder 每帧写入的快照，供状态接口读取（可为 nil）
	Holder *simulation.SnapshotHolder
	// Verbose 启用详细日志输出
	Verbose bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 场景工厂按难度创建新的 Shop 和 ShopScene，重开和切换难度都走这条路径。
func NewApp(cfg Config) (*App, error) {
	if cfg.Shop == nil {
		return nil, fmt.Errorf("shop config cannot be nil")
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(d types.Difficulty) (game.Scene, error) {
		opts := cfg.Options
		opts.Difficulty = d
		shop, err := simulation.NewShop(cfg.Shop, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create shop: %w", err)
		}
		log.Printf("[App] New shop %s (run %s, difficulty %s)", cfg.Shop.ID, shop.State().RunID, d)
		return scenes.NewShopScene(shop, sceneManager, cfg.Settings, cfg.Holder), nil
	})

	if err := sceneManager.Restart(cfg.Options.Difficulty); err != nil {
		return nil, err
	}

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（config.TicksPerSecond 次/秒）
func (a *App) Update() error {
	// 窗口关闭：保存设置后退出
	if ebiten.IsWindowBeingClosed() {
		a.saveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / config.TicksPerSecond)
	return nil
}

// saveOnExit 通知当前场景保存
func (a *App) saveOnExit() {
	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !s.SaveOnExit() {
			log.Warnf("[App] Scene failed to save on exit")
		}
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Run 打开窗口并运行游戏循环，直到窗口关闭
func Run(a *App) error {
	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TicksPerSecond)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}
