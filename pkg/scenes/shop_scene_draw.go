package scenes

import (
	"image/color"

	"github.com/gonewx/zombiewash/pkg/components"
	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/ecs"
	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/gonewx/zombiewash/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const helpText = "WASD move  E pick  Q load  F wash  M mode  1-9 hold  X stash  Enter deliver  Tab auto  Space pause  R/F1-F3 restart"

var (
	floorColor        = color.RGBA{R: 46, G: 52, B: 64, A: 255}
	obstacleColor     = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	zoneColor         = color.RGBA{R: 235, G: 203, B: 139, A: 160}
	servicePointColor = color.RGBA{R: 129, G: 161, B: 193, A: 255}
	deliveryColor     = color.RGBA{R: 235, G: 203, B: 139, A: 255}
	machineColor      = color.RGBA{R: 94, G: 129, B: 172, A: 255}
	progressColor     = color.RGBA{R: 163, G: 190, B: 140, A: 255}
	playerColor       = color.RGBA{R: 163, G: 190, B: 140, A: 255}
	cleanItemColor    = color.RGBA{R: 236, G: 239, B: 244, A: 255}
	dirtyItemColor    = color.RGBA{R: 140, G: 110, B: 80, A: 255}
)

// customerColor 按状态着色
func customerColor(state types.CustomerState) color.RGBA {
	switch state {
	case types.CustomerWaiting:
		return color.RGBA{R: 143, G: 188, B: 187, A: 255}
	case types.CustomerGettingAngry:
		return color.RGBA{R: 208, G: 135, B: 112, A: 255}
	case types.CustomerAngry:
		return color.RGBA{R: 191, G: 97, B: 106, A: 255}
	case types.CustomerGoingToDelivery, types.CustomerPickingUp:
		return color.RGBA{R: 235, G: 203, B: 139, A: 255}
	case types.CustomerLeaving:
		return color.RGBA{R: 110, G: 120, B: 130, A: 255}
	default:
		return color.RGBA{R: 180, G: 142, B: 173, A: 255}
	}
}

// Draw 绘制商店俯视图和状态文字
func (s *ShopScene) Draw(screen *ebiten.Image) {
	screen.Fill(floorColor)

	cfg := s.shop.Config()
	for _, box := range cfg.Obstacles {
		fillBox(screen, box, obstacleColor)
	}
	for _, p := range s.shop.DeliveryPoints() {
		if p.Zone != nil {
			strokeBox(screen, *p.Zone, zoneColor)
		}
		fillSquare(screen, p.Position, 0.6, deliveryColor)
	}
	for _, p := range cfg.ServicePoints {
		strokeSquare(screen, p, 0.5, servicePointColor)
	}

	for _, m := range s.shop.Machines() {
		fillSquare(screen, m.Position, 0.9, machineColor)
		if m.IsWashing() {
			x, y := config.WorldToScreen(m.Position.X-0.45, m.Position.Z+0.55)
			w := 0.9 * config.PixelsPerMeter * m.GetProgressPercentage() / 100
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 4, progressColor, false)
		}
	}

	s.drawItems(screen)
	s.drawCustomers(screen)

	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.shop.EntityManager(), s.shop.Player()); ok {
		fillSquare(screen, pos.Vec3, 0.6, playerColor)
	}

	s.drawStatus(screen)
}

func (s *ShopScene) drawItems(screen *ebiten.Image) {
	em := s.shop.EntityManager()
	for _, id := range ecs.GetEntitiesWith2[*components.ItemComponent, *components.PositionComponent](em) {
		item, _ := ecs.GetComponent[*components.ItemComponent](em, id)
		switch item.Holder {
		case types.HolderWorld, types.HolderTable, types.HolderDeliveryPoint:
		default:
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		clr := dirtyItemColor
		if item.Clean {
			clr = cleanItemColor
		}
		fillSquare(screen, pos.Vec3, 0.3, clr)
	}
}

func (s *ShopScene) drawCustomers(screen *ebiten.Image) {
	em := s.shop.EntityManager()
	for _, id := range s.shop.Customers().Customers() {
		cust, _ := ecs.GetComponent[*components.CustomerComponent](em, id)
		pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
		if !ok {
			continue
		}
		fillSquare(screen, pos.Vec3, 0.7, customerColor(cust.State))

		// 耐心条
		if cust.MaxPatience > 0 && cust.State.IsAwaitingItem() {
			x, y := config.WorldToScreen(pos.X-0.35, pos.Z-0.55)
			w := 0.7 * config.PixelsPerMeter * cust.Patience / cust.MaxPatience
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 3, progressColor, false)
		}
	}
}

func (s *ShopScene) drawStatus(screen *ebiten.Image) {
	status := simulation.FormatStatus(s.shop.Snapshot())
	if s.paused {
		status += "PAUSED\n"
	}
	if s.shop.Autopilot().Enabled() {
		status += "autopilot\n"
	}
	if s.messageTimer > 0 && s.message != "" {
		status += "> " + s.message + "\n"
	}
	ebitenutil.DebugPrintAt(screen, status, config.StatusPanelX, config.StatusPanelY)
	ebitenutil.DebugPrintAt(screen, helpText, config.StatusPanelX, config.HelpLineY)
}

func fillBox(screen *ebiten.Image, box utils.Box, clr color.Color) {
	x, y := config.WorldToScreen(box.Min.X, box.Min.Z)
	w := (box.Max.X - box.Min.X) * config.PixelsPerMeter
	h := (box.Max.Z - box.Min.Z) * config.PixelsPerMeter
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func strokeBox(screen *ebiten.Image, box utils.Box, clr color.Color) {
	x, y := config.WorldToScreen(box.Min.X, box.Min.Z)
	w := (box.Max.X - box.Min.X) * config.PixelsPerMeter
	h := (box.Max.Z - box.Min.Z) * config.PixelsPerMeter
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, clr, false)
}

func fillSquare(screen *ebiten.Image, center utils.Vec3, size float64, clr color.Color) {
	half := size / 2
	fillBox(screen, utils.Box{
		Min: utils.Vec3{X: center.X - half, Z: center.Z - half},
		Max: utils.Vec3{X: center.X + half, Z: center.Z + half},
	}, clr)
}

func strokeSquare(screen *ebiten.Image, center utils.Vec3, size float64, clr color.Color) {
	half := size / 2
	strokeBox(screen, utils.Box{
		Min: utils.Vec3{X: center.X - half, Z: center.Z - half},
		Max: utils.Vec3{X: center.X + half, Z: center.Z + half},
	}, clr)
}
