package config

import (
	"fmt"
	"os"

	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ShopConfig 商店配置数据结构
// 定义了场景布局（服务位、生成点、取货点、洗衣机）、顾客参数和各难度的波次
type ShopConfig struct {
	ID          string `yaml:"id"`          // 配置ID，如 "laundromat-1"
	Name        string `yaml:"name"`        // 显示名称
	Description string `yaml:"description"` // 描述（可选）

	// 波次
	Difficulties DifficultyWaves `yaml:"difficulties"` // 各难度的波次列表
	Waves        []WaveConfig    `yaml:"waves"`        // 兼容旧配置：难度列表为空时使用
	LoopWaves    bool            `yaml:"loopWaves"`    // 最后一波结束后是否从头循环（否则判定胜利）
	MaxWaves     int             `yaml:"maxWaves"`     // 最多执行的波次数，默认 10

	// 场景布局
	ServicePoints   []utils.Vec3          `yaml:"servicePoints"`   // 排队服务位，下标 0 为队首
	SpawnPoints     []utils.Vec3          `yaml:"spawnPoints"`     // 顾客生成点
	ItemSpawnPoints []utils.Vec3          `yaml:"itemSpawnPoints"` // 请求物品在柜台上的摆放点
	DeliveryPoints  []DeliveryPointConfig `yaml:"deliveryPoints"`  // 取货点
	Obstacles       []utils.Box           `yaml:"obstacles"`       // 静态障碍物
	WashingMachines []MachineConfig       `yaml:"washingMachines"` // 洗衣机

	Customer CustomerConfig `yaml:"customer"` // 顾客参数
	Player   PlayerConfig   `yaml:"player"`   // 玩家参数

	Items             []ItemConfig     `yaml:"items"`             // 可被请求的物品目录
	WashModes         []WashModeConfig `yaml:"washModes"`         // 洗涤模式
	InventorySlots    int              `yaml:"inventorySlots"`    // 背包槽位数，默认 8
	RequireCleanItems *bool            `yaml:"requireCleanItems"` // 只允许交付洗净的物品，默认 true
}

// DifficultyWaves 按难度分组的波次
type DifficultyWaves struct {
	Easy   []WaveConfig `yaml:"easy"`
	Normal []WaveConfig `yaml:"normal"`
	Hard   []WaveConfig `yaml:"hard"`
}

// WaveConfig 单个顾客波次配置
type WaveConfig struct {
	Name               string  `yaml:"name"`               // 波次名称
	ZombiesCount       int     `yaml:"zombiesCount"`       // 本波生成的顾客数
	TimeBetweenZombies float64 `yaml:"timeBetweenZombies"` // 相邻两次生成的间隔（秒）
	ZombieWaitTime     float64 `yaml:"zombieWaitTime"`     // 每位顾客的耐心（秒）
	WaveStartDelay     float64 `yaml:"waveStartDelay"`     // 波次开始前的延迟（秒）
}

// DeliveryPointConfig 取货点配置
type DeliveryPointConfig struct {
	Position     utils.Vec3  `yaml:"position"`
	DropPosition *utils.Vec3 `yaml:"dropPosition"` // 物品摆放位置，缺省为 position 上方 0.5
	PickupRadius float64     `yaml:"pickupRadius"` // 顾客取货半径，默认 1.5
	Zone         *utils.Box  `yaml:"zone"`         // 玩家交互区域，缺省表示任何位置都可交互
}

// MachineConfig 洗衣机配置
type MachineConfig struct {
	Position       utils.Vec3 `yaml:"position"`
	OutputPosition utils.Vec3 `yaml:"outputPosition"` // 洗净物品的出口位置
	Capacity       int        `yaml:"capacity"`       // 容量，默认 4
	Mode           string     `yaml:"mode"`           // 初始模式，默认 colored
}

// CustomerConfig 顾客参数
type CustomerConfig struct {
	SpawnDelay           float64 `yaml:"spawnDelay"`           // 生成后出场延迟，默认 1
	PatienceDecreaseRate float64 `yaml:"patienceDecreaseRate"` // 耐心递减速率，默认 1
	AngryThreshold       float64 `yaml:"angryThreshold"`       // GettingAngry 阈值比例，默认 0.5
	WalkSpeed            float64 `yaml:"walkSpeed"`            // 默认 2
	AngrySpeed           float64 `yaml:"angrySpeed"`           // 默认 walkSpeed*1.5
	InteractionDistance  float64 `yaml:"interactionDistance"`  // 排队停止距离，默认 1
	PickupDelay          float64 `yaml:"pickupDelay"`          // 取货后停顿，默认 0.5
	Radius               float64 `yaml:"radius"`               // 碰撞半径，默认 0.4
	AttackDamage         float64 `yaml:"attackDamage"`         // 默认 25
	AttackCooldown       float64 `yaml:"attackCooldown"`       // 默认 1
	AttackRange          float64 `yaml:"attackRange"`          // 默认 1.6
}

// PlayerConfig 玩家参数
type PlayerConfig struct {
	Position                 utils.Vec3 `yaml:"position"`
	MaxHealth                float64    `yaml:"maxHealth"`                // 默认 100
	DeliveryInteractionRange float64    `yaml:"deliveryInteractionRange"` // 默认 10
}

// ItemConfig 物品目录项
type ItemConfig struct {
	Kind string `yaml:"kind"` // 物品种类ID，如 "shirt"
	Name string `yaml:"name"` // 显示名称
}

// WashModeConfig 洗涤模式
type WashModeConfig struct {
	Mode        string  `yaml:"mode"`        // colored / delicate / quick
	DisplayName string  `yaml:"displayName"` // 显示名称
	Duration    float64 `yaml:"duration"`    // 洗涤时长（秒）
}

// LoadShopConfig 从YAML文件加载商店配置
// 参数：
//
//	filepath - 配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*ShopConfig - 解析后的配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadShopConfig(filepath string) (*ShopConfig, error) {
	// 读取文件内容
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read shop config file %s: %w", filepath, err)
	}

	cfg, err := ParseShopConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseShopConfig 解析 YAML 数据，应用默认值并校验
func ParseShopConfig(data []byte) (*ShopConfig, error) {
	var shopConfig ShopConfig
	if err := yaml.Unmarshal(data, &shopConfig); err != nil {
		return nil, fmt.Errorf("failed to parse shop config YAML: %w", err)
	}

	// 应用默认值（向后兼容性）
	applyDefaults(&shopConfig)

	// 验证必填字段
	if err := validateShopConfig(&shopConfig); err != nil {
		return nil, fmt.Errorf("invalid shop config: %w", err)
	}

	return &shopConfig, nil
}

// WavesFor 返回指定难度使用的波次列表
// 难度列表为空时回退到旧的 waves 字段
func (c *ShopConfig) WavesFor(d types.Difficulty) []WaveConfig {
	var selected []WaveConfig
	switch d {
	case types.DifficultyEasy:
		selected = c.Difficulties.Easy
	case types.DifficultyHard:
		selected = c.Difficulties.Hard
	default:
		selected = c.Difficulties.Normal
	}
	if len(selected) == 0 {
		selected = c.Waves
	}
	return selected
}

// CleanItemsRequired 是否只允许交付洗净的物品
func (c *ShopConfig) CleanItemsRequired() bool {
	return c.RequireCleanItems == nil || *c.RequireCleanItems
}

// WashDuration 返回洗涤模式的时长，未知模式返回 false
func (c *ShopConfig) WashDuration(mode string) (float64, bool) {
	for _, m := range c.WashModes {
		if m.Mode == mode {
			return m.Duration, true
		}
	}
	return 0, false
}

// applyDefaults 为 ShopConfig 中缺失的可选字段设置默认值
func applyDefaults(config *ShopConfig) {
	if config.MaxWaves <= 0 {
		config.MaxWaves = DefaultMaxWaves
	}
	if config.InventorySlots <= 0 {
		config.InventorySlots = DefaultInventorySlots
	}

	c := &config.Customer
	setDefault(&c.SpawnDelay, DefaultSpawnDelay)
	setDefault(&c.PatienceDecreaseRate, DefaultPatienceDecreaseRate)
	setDefault(&c.AngryThreshold, DefaultAngryThreshold)
	setDefault(&c.WalkSpeed, DefaultWalkSpeed)
	setDefault(&c.AngrySpeed, c.WalkSpeed*AngrySpeedMultiplier)
	setDefault(&c.InteractionDistance, DefaultInteractionDistance)
	setDefault(&c.PickupDelay, DefaultPickupDelay)
	setDefault(&c.Radius, DefaultCustomerRadius)
	setDefault(&c.AttackDamage, DefaultAttackDamage)
	setDefault(&c.AttackCooldown, DefaultAttackCooldown)
	setDefault(&c.AttackRange, DefaultAttackRange)

	setDefault(&config.Player.MaxHealth, DefaultPlayerMaxHealth)
	setDefault(&config.Player.DeliveryInteractionRange, DefaultDeliveryInteractionRange)

	for i := range config.DeliveryPoints {
		setDefault(&config.DeliveryPoints[i].PickupRadius, DefaultPickupRadius)
	}

	if len(config.WashModes) == 0 {
		config.WashModes = DefaultWashModes()
	}
	for i := range config.WashingMachines {
		m := &config.WashingMachines[i]
		if m.Capacity <= 0 {
			m.Capacity = DefaultMachineCapacity
		}
		if m.Mode == "" {
			m.Mode = WashModeColored
		}
	}

	// 旧配置没有 waveStartDelay 等字段时零值即可，无需处理
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// validateShopConfig 验证商店配置的完整性和合法性
//
// 注意：缺少服务位、生成点、物品目录不算错误，
// 运行时会记录警告并降级（只排队不服务、跳过生成、顾客直接愤怒）
func validateShopConfig(config *ShopConfig) error {
	if config.ID == "" {
		return fmt.Errorf("shop ID is required")
	}

	if len(config.Waves) == 0 && len(config.Difficulties.Easy) == 0 &&
		len(config.Difficulties.Normal) == 0 && len(config.Difficulties.Hard) == 0 {
		return fmt.Errorf("at least one wave is required")
	}

	groups := map[string][]WaveConfig{
		"waves":  config.Waves,
		"easy":   config.Difficulties.Easy,
		"normal": config.Difficulties.Normal,
		"hard":   config.Difficulties.Hard,
	}
	for group, waves := range groups {
		for i, wave := range waves {
			if err := validateWave(wave); err != nil {
				return fmt.Errorf("%s wave %d: %w", group, i, err)
			}
		}
	}

	if config.Customer.AngryThreshold < 0 || config.Customer.AngryThreshold > 1 {
		return fmt.Errorf("customer.angryThreshold must be between 0 and 1, got %v", config.Customer.AngryThreshold)
	}

	for i, p := range config.DeliveryPoints {
		if p.PickupRadius < 0 {
			return fmt.Errorf("deliveryPoints[%d]: pickupRadius cannot be negative", i)
		}
	}

	seen := make(map[string]bool)
	for i, item := range config.Items {
		if item.Kind == "" {
			return fmt.Errorf("items[%d]: kind is required", i)
		}
		if seen[item.Kind] {
			return fmt.Errorf("items[%d]: duplicate kind %q", i, item.Kind)
		}
		seen[item.Kind] = true
	}

	for i, m := range config.WashModes {
		if m.Duration <= 0 {
			return fmt.Errorf("washModes[%d]: duration must be positive, got %v", i, m.Duration)
		}
	}
	for i, m := range config.WashingMachines {
		if _, ok := config.WashDuration(m.Mode); !ok {
			return fmt.Errorf("washingMachines[%d]: unknown wash mode %q", i, m.Mode)
		}
	}

	return nil
}

func validateWave(wave WaveConfig) error {
	if wave.ZombiesCount < 0 {
		return fmt.Errorf("zombiesCount cannot be negative, got %d", wave.ZombiesCount)
	}
	if wave.TimeBetweenZombies < 0 {
		return fmt.Errorf("timeBetweenZombies cannot be negative")
	}
	if wave.ZombieWaitTime <= 0 {
		return fmt.Errorf("zombieWaitTime must be positive, got %v", wave.ZombieWaitTime)
	}
	if wave.WaveStartDelay < 0 {
		return fmt.Errorf("waveStartDelay cannot be negative")
	}
	return nil
}
