// Package scenes 提供商店模拟的 ebiten 场景
//
// 场景只负责输入和绘制，所有玩法逻辑都在 simulation.Shop 中。
package scenes

import (
	"fmt"
	"math"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
)

const (
	// reachDistance 玩家拾取物品、操作洗衣机的最大距离（米）
	reachDistance = 2.0
	// messageDuration 提示文字的显示时长（秒）
	messageDuration = 2.0
)

// ShopScene 商店俯视图场景
//
// 职责：
//   - 把键盘输入翻译成玩家动作（移动、拾取、装机、交付）
//   - 按固定步长推进 simulation.Shop
//   - 绘制商店平面图和状态文字
//
// 架构说明：
//   - 实现 game.Scene、game.Closer 和 game.Saveable
//   - 切换难度或重开时通过 SceneManager.Restart 创建新场景，旧场景被 Close
type ShopScene struct {
	shop         *simulation.Shop
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	holder       *simulation.SnapshotHolder

	paused       bool
	message      string
	messageTimer float64
}

// NewShopScene 创建商店场景并开始第一波
//
// 参数：
//
//	shop - 已组装的模拟
//	sceneManager - 用于重开和切换难度
//	settings - 持久化的设置（可为 nil）
//	holder - 每帧写入最新快照（可为 nil，供状态接口读取）
func NewShopScene(shop *simulation.Shop, sceneManager *game.SceneManager, settings *game.SettingsManager, holder *simulation.SnapshotHolder) *ShopScene {
	shop.Start()
	return &ShopScene{
		shop:         shop,
		sceneManager: sceneManager,
		settings:     settings,
		holder:       holder,
	}
}

// Shop 场景驱动的模拟
func (s *ShopScene) Shop() *simulation.Shop { return s.shop }

// Paused 是否暂停
func (s *ShopScene) Paused() bool { return s.paused }

// Update 处理输入并推进模拟
func (s *ShopScene) Update(deltaTime float64) {
	if s.messageTimer > 0 {
		s.messageTimer -= deltaTime
	}

	if s.handleSceneKeys() {
		return
	}
	if !s.paused {
		s.handlePlayerKeys(deltaTime)
		s.shop.Update(deltaTime)
	}
	if s.holder != nil {
		s.holder.Store(s.shop.Snapshot())
	}
}

// Close 销毁模拟（场景被替换时调用）
func (s *ShopScene) Close() {
	s.shop.Close()
}

// SaveOnExit 退出时保存设置
func (s *ShopScene) SaveOnExit() bool {
	s.shop.Close()
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Warnf("[ShopScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

// handleSceneKeys 处理暂停、重开、难度切换
// 返回 true 表示场景已被替换，本帧不再处理
func (s *ShopScene) handleSceneKeys() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.paused = !s.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ap := s.shop.Autopilot()
		ap.SetEnabled(!ap.Enabled())
		s.notify(fmt.Sprintf("autopilot %v", ap.Enabled()))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return s.restart(s.shop.State().Difficulty)
	}
	for key, d := range map[ebiten.Key]types.Difficulty{
		ebiten.KeyF1: types.DifficultyEasy,
		ebiten.KeyF2: types.DifficultyNormal,
		ebiten.KeyF3: types.DifficultyHard,
	} {
		if inpututil.IsKeyJustPressed(key) {
			if s.settings != nil {
				if err := s.settings.SetDifficulty(d); err != nil {
					log.Warnf("[ShopScene] Failed to persist difficulty: %v", err)
				}
			}
			return s.restart(d)
		}
	}
	return false
}

func (s *ShopScene) restart(d types.Difficulty) bool {
	if s.sceneManager == nil {
		return false
	}
	if err := s.sceneManager.Restart(d); err != nil {
		s.notify("restart failed: " + err.Error())
		return false
	}
	return true
}

// handlePlayerKeys 处理玩家移动和交互
func (s *ShopScene) handlePlayerKeys(deltaTime float64) {
	var dx, dz float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		dz--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		dz++
	}
	if dx != 0 || dz != 0 {
		s.MovePlayer(dx, dz, deltaTime)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		s.PickUpNearest()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		s.LoadNearestMachine()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		s.StartNearestMachine()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		s.CycleNearestMachineMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		s.Deliver()
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		s.shop.Interaction().StashHand()
	}

	for i := 0; i < s.shop.Inventory().SlotCount() && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			s.shop.Interaction().HoldSlot(i)
		}
	}
}

// MovePlayer 按方向移动玩家，并推出障碍物
func (s *ShopScene) MovePlayer(dx, dz, deltaTime float64) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.shop.EntityManager(), s.shop.Player())
	if !ok {
		return
	}
	dir := utils.Vec3{X: dx, Z: dz}.PlanarDirection()
	pos.Vec3 = pos.Add(dir.Scale(config.PlayerMoveSpeed * deltaTime))
	for _, box := range s.shop.Config().Obstacles {
		pos.Vec3, _ = box.PushOut(pos.Vec3, 0.3, 0.01)
	}
}

// PickUpNearest 拾取触手可及的最近物品
func (s *ShopScene) PickUpNearest() bool {
	em := s.shop.EntityManager()
	playerPos := s.shop.Interaction().PlayerPosition()

	best, bestDist := ecs.InvalidEntity, math.Inf(1)
	for _, id := range ecs.GetEntitiesWith2[*components.ItemComponent, *components.PositionComponent](em) {
		item, _ := ecs.GetComponent[*components.ItemComponent](em, id)
		if item.Holder != types.HolderWorld && item.Holder != types.HolderTable {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		if d := utils.PlanarDistance(playerPos, pos.Vec3); d <= reachDistance && d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == ecs.InvalidEntity {
		s.notify("nothing to pick up")
		return false
	}
	if !s.shop.Interaction().PickUpItem(best) {
		s.notify("inventory full")
		return false
	}
	return true
}

// nearestMachine 触手可及的最近洗衣机
func (s *ShopScene) nearestMachine() *game.WashingMachine {
	playerPos := s.shop.Interaction().PlayerPosition()
	var best *game.WashingMachine
	bestDist := reachDistance
	for _, m := range s.shop.Machines() {
		if d := utils.PlanarDistance(playerPos, m.Position); d <= bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// LoadNearestMachine 把背包里第一件脏物品装进最近的洗衣机
func (s *ShopScene) LoadNearestMachine() bool {
	m := s.nearestMachine()
	if m == nil {
		s.notify("no washing machine in reach")
		return false
	}
	em := s.shop.EntityManager()
	for slot, id := range s.shop.Inventory().Items() {
		item, ok := ecs.GetComponent[*components.ItemComponent](em, id)
		if !ok || item.Clean {
			continue
		}
		if s.shop.Interaction().LoadSlotIntoMachine(slot, m) {
			return true
		}
		s.notify("machine is busy or full")
		return false
	}
	s.notify("no dirty laundry in the bag")
	return false
}

// StartNearestMachine 启动最近的洗衣机
func (s *ShopScene) StartNearestMachine() bool {
	m := s.nearestMachine()
	if m == nil || !m.StartWashing() {
		s.notify("cannot start a machine here")
		return false
	}
	return true
}

// CycleNearestMachineMode 切换最近洗衣机的洗涤模式
func (s *ShopScene) CycleNearestMachineMode() bool {
	m := s.nearestMachine()
	if m == nil {
		return false
	}
	modes := s.shop.Config().WashModes
	for i, wm := range modes {
		if wm.Mode == m.CurrentMode() {
			next := modes[(i+1)%len(modes)]
			if m.SetMode(next.Mode) {
				s.notify("mode: " + next.DisplayName)
				return true
			}
			break
		}
	}
	return false
}

// Deliver 把手上的物品放到取货点
func (s *ShopScene) Deliver() bool {
	if s.shop.Interaction().TryPlaceOnDeliveryPoint() {
		return true
	}
	s.notify("cannot deliver now")
	return false
}

func (s *ShopScene) notify(msg string) {
	s.message = msg
	s.messageTimer = messageDuration
}
