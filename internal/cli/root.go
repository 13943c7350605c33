// Package cli 实现 zombiewash 命令行
//
// 命令：
//   - run：打开 ebiten 窗口
//   - headless：无界面运行一局并打印结果
//   - serve：无界面实时运行，并通过 HTTP 暴露状态
//   - difficulty get|set：读写持久化难度
//   - validate：校验商店配置文件
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// defaultAppName gdata 存储目录名
const defaultAppName = "zombiewash"

// globalOptions 所有命令共享的参数
type globalOptions struct {
	configPath string
	logLevel   string
	appName    string
}

// Execute 解析命令行并运行，收到 SIGINT/SIGTERM 时取消 context
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand 创建根命令
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "zombiewash",
		Short:         "Zombie laundromat: serve the undead before they lose their patience",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return errors.Wrap(err, "invalid --log-level")
			}
			log.SetLevel(level)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "shop config YAML (default: embedded laundromat)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.appName, "app-name", defaultAppName, "settings storage name")

	root.AddCommand(
		newRunCommand(opts),
		newHeadlessCommand(opts),
		newServeCommand(opts),
		newDifficultyCommand(opts),
		newValidateCommand(),
	)
	return root
}

// loadShopConfig 读取 --config，未指定时使用内嵌默认配置
func (o *globalOptions) loadShopConfig() (*config.ShopConfig, error) {
	if o.configPath == "" {
		cfg, err := config.LoadDefaultShopConfig()
		return cfg, errors.Wrap(err, "load embedded shop config")
	}
	cfg, err := config.LoadShopConfig(o.configPath)
	return cfg, errors.Wrapf(err, "load shop config %s", o.configPath)
}

// openSettings 打开持久化设置，存储不可用时降级为内存设置
func (o *globalOptions) openSettings() *game.SettingsManager {
	storage, err := game.OpenSettingsStorage(o.appName)
	if err != nil {
		log.Warnf("[CLI] %v (settings will not persist)", err)
		return game.NewSettingsManager(nil)
	}
	return game.NewSettingsManager(storage)
}

// resolveDifficulty 命令行参数优先，否则使用持久化设置
func resolveDifficulty(flag string, settings *game.SettingsManager) (types.Difficulty, error) {
	if flag == "" {
		return settings.Difficulty(), nil
	}
	d, err := game.ParseDifficulty(flag)
	return d, errors.Wrap(err, "invalid --difficulty")
}
