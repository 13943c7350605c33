package game

import (
	"errors"
	"testing"

	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	closed       int
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Close() {
	m.closed++
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no active scene initially")
	}

	// 没有场景时 Update / Draw 是空操作
	sm.Update(0.016)
	sm.Draw(nil)
}

func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	sm.Update(0.016)
	if !scene.updateCalled || scene.deltaTime != 0.016 {
		t.Errorf("Expected Update(0.016), got called=%v dt=%f", scene.updateCalled, scene.deltaTime)
	}

	sm.Draw(nil)
	if !scene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

func TestSceneManagerSwitchClosesPreviousScene(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{}
	second := &MockScene{}

	sm.SwitchTo(first)
	sm.SwitchTo(first)
	if first.closed != 0 {
		t.Error("Switching to the same scene must not close it")
	}

	sm.SwitchTo(second)
	if first.closed != 1 {
		t.Errorf("Expected previous scene closed once, got %d", first.closed)
	}
	if sm.GetCurrentScene() != second {
		t.Error("SwitchTo did not set the current scene")
	}
}

func TestSceneManagerRestart(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Restart(types.DifficultyEasy); err == nil {
		t.Error("Restart without a factory should fail")
	}

	var requested []types.Difficulty
	sm.SetSceneFactory(func(d types.Difficulty) (Scene, error) {
		requested = append(requested, d)
		if d == types.DifficultyHard {
			return nil, errors.New("boom")
		}
		return &MockScene{}, nil
	})

	if err := sm.Restart(types.DifficultyNormal); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	current := sm.GetCurrentScene()

	if err := sm.Restart(types.DifficultyHard); err == nil {
		t.Error("Expected factory error")
	}
	if sm.GetCurrentScene() != current {
		t.Error("Failed restart must keep the current scene")
	}
	if len(requested) != 2 || requested[0] != types.DifficultyNormal {
		t.Errorf("Unexpected factory calls: %v", requested)
	}
}
