package config

import (
	_ "embed"
	"fmt"
)

// 顾客默认参数
const (
	DefaultSpawnDelay           = 1.0
	DefaultPatienceDecreaseRate = 1.0
	DefaultAngryThreshold       = 0.5
	DefaultWalkSpeed            = 2.0
	AngrySpeedMultiplier        = 1.5 // 未配置 angrySpeed 时为 walkSpeed 的倍数
	DefaultInteractionDistance  = 1.0
	DefaultPickupDelay          = 0.5
	DefaultCustomerRadius       = 0.4
	DefaultAttackDamage         = 25.0
	DefaultAttackCooldown       = 1.0
	DefaultAttackRange          = 1.6
)

// 场景默认参数
const (
	DefaultMaxWaves                 = 10
	DefaultInventorySlots           = 8
	DefaultPickupRadius             = 1.5
	DefaultMachineCapacity          = 4
	DefaultPlayerMaxHealth          = 100.0
	DefaultDeliveryInteractionRange = 10.0
)

// 洗涤模式
const (
	WashModeColored  = "colored"
	WashModeDelicate = "delicate"
	WashModeQuick    = "quick"
)

// DefaultWashModes 返回默认洗涤模式表
func DefaultWashModes() []WashModeConfig {
	return []WashModeConfig{
		{Mode: WashModeColored, DisplayName: "Colored", Duration: 12},
		{Mode: WashModeDelicate, DisplayName: "Delicate", Duration: 15},
		{Mode: WashModeQuick, DisplayName: "Quick", Duration: 5},
	}
}

//go:embed default_shop.yaml
var defaultShopYAML []byte

// DefaultShopYAML 内置默认商店配置的原始内容
func DefaultShopYAML() []byte {
	return defaultShopYAML
}

// LoadDefaultShopConfig 解析内置的默认商店配置
func LoadDefaultShopConfig() (*ShopConfig, error) {
	cfg, err := ParseShopConfig(defaultShopYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded default shop: %w", err)
	}
	return cfg, nil
}
