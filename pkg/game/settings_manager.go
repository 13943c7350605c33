package game

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/quasilyte/gdata/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// GameSettings 持久化的全局设置
// 目前只有难度：0=Easy, 1=Normal, 2=Hard
type GameSettings struct {
	Difficulty types.Difficulty `yaml:"difficulty"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Difficulty: types.DefaultDifficulty,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "difficulty"
)

// OpenSettingsStorage 打开 gdata 存储
// 失败时返回 nil manager 和错误，调用方可以继续以降级模式运行
func OpenSettingsStorage(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings storage %q: %w", appName, err)
	}
	return m, nil
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，会记录警告并使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Warnf("[SettingsManager] Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded GameSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if !loaded.Difficulty.Valid() {
		sm.settings = DefaultSettings()
		return fmt.Errorf("stored difficulty %d out of range", loaded.Difficulty)
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded (difficulty=%s)", loaded.Difficulty)
	return nil
}

// Save 保存设置到 gdata
// 降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved (difficulty=%s)", sm.settings.Difficulty)
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// Difficulty 当前难度
func (sm *SettingsManager) Difficulty() types.Difficulty {
	return sm.settings.Difficulty
}

// SetDifficulty 设置难度并立即持久化
func (sm *SettingsManager) SetDifficulty(d types.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("invalid difficulty %d", d)
	}
	sm.settings.Difficulty = d
	return sm.Save()
}

// ParseDifficulty 解析难度名称或数字（"easy"/"0" 等）
func ParseDifficulty(s string) (types.Difficulty, error) {
	switch s {
	case "easy", "0":
		return types.DifficultyEasy, nil
	case "normal", "1":
		return types.DifficultyNormal, nil
	case "hard", "2":
		return types.DifficultyHard, nil
	}
	return types.DefaultDifficulty, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
}
