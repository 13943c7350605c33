package game

import (
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
)

// SceneFactory 场景工厂函数类型
// 用指定难度创建新一局的商店场景，避免 game 包依赖 scenes 包
type SceneFactory func(difficulty types.Difficulty) (Scene, error)

// SceneManager 管理当前活动的场景
// 任意时刻只有一个场景的 Update 和 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器
// 初始没有活动场景，使用 SwitchTo 设置
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
// 旧场景实现了 Closer 时会先被关闭
func (sm *SceneManager) SwitchTo(scene Scene) {
	if closer, ok := sm.currentScene.(Closer); ok && sm.currentScene != scene {
		closer.Close()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Restart 用指定难度重新开始一局
// 创建失败时保留当前场景并返回错误
func (sm *SceneManager) Restart(difficulty types.Difficulty) error {
	log.Printf("[SceneManager] Restarting shop (difficulty %s)", difficulty)

	if sm.sceneFactory == nil {
		log.Errorf("[SceneManager] SceneFactory not set")
		return errNoSceneFactory
	}

	newScene, err := sm.sceneFactory(difficulty)
	if err != nil {
		log.Errorf("[SceneManager] Failed to create scene: %v", err)
		return err
	}
	sm.SwitchTo(newScene)
	return nil
}

// Update 更新活动场景，没有活动场景时为空操作
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制活动场景，没有活动场景时为空操作
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
