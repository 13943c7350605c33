package app

import (
	"testing"

	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/scenes"
	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/types"
)

func TestNewAppRequiresShopConfig(t *testing.T) {
	if _, err := NewApp(Config{}); err == nil {
		t.Error("Expected error for missing shop config")
	}
}

func TestNewAppStartsShopScene(t *testing.T) {
	cfg, err := config.LoadDefaultShopConfig()
	if err != nil {
		t.Fatalf("LoadDefaultShopConfig: %v", err)
	}

	a, err := NewApp(Config{
		Shop:    cfg,
		Options: simulation.Options{Difficulty: types.DifficultyHard},
		Verbose: true,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	scene, ok := a.GetSceneManager().GetCurrentScene().(*scenes.ShopScene)
	if !ok {
		t.Fatalf("Expected *scenes.ShopScene, got %T", a.GetSceneManager().GetCurrentScene())
	}
	defer scene.Close()

	if d := scene.Shop().State().Difficulty; d != types.DifficultyHard {
		t.Errorf("Expected hard difficulty, got %s", d)
	}
	if !a.IsVerbose() {
		t.Error("Expected verbose app")
	}

	w, h := a.Layout(1920, 1080)
	if w != config.GameWindowWidth || h != config.GameWindowHeight {
		t.Errorf("Layout = (%d, %d), want (%d, %d)", w, h, config.GameWindowWidth, config.GameWindowHeight)
	}
}

func TestRestartReplacesAndClosesScene(t *testing.T) {
	cfg, err := config.LoadDefaultShopConfig()
	if err != nil {
		t.Fatalf("LoadDefaultShopConfig: %v", err)
	}
	a, err := NewApp(Config{Shop: cfg, Options: simulation.Options{Difficulty: types.DifficultyEasy}})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	first := a.GetSceneManager().GetCurrentScene().(*scenes.ShopScene)
	if err := a.GetSceneManager().Restart(types.DifficultyNormal); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	second := a.GetSceneManager().GetCurrentScene().(*scenes.ShopScene)
	defer second.Close()

	if first == second {
		t.Fatal("Restart must create a new scene")
	}
	if !first.Shop().Closed() {
		t.Error("Previous shop should be closed after restart")
	}
	if first.Shop().State().RunID == second.Shop().State().RunID {
		t.Error("Each restart starts a new run")
	}
}
