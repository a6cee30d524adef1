package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/entstore/ecs/debugui"
	debugui_ebiten "github.com/plus3/entstore/ecs/debugui/ebiten"
	"github.com/plus3/entstore/engine"
	"github.com/plus3/entstore/render"
	"github.com/plus3/entstore/render/ebitenrender"
)

const (
	ScreenWidth  = 1024
	ScreenHeight = 1024
)

var background = color.RGBA{10, 10, 20, 255}

// windowGame implements ebiten.Game. Every tick runs one engine frame, which
// fills the draw queue that Draw then flushes to the screen.
type windowGame struct {
	engine *engine.Engine[*render.DrawQueue]
	queue  *render.DrawQueue
	imgui  *debugui_ebiten.ImguiBackend
	input  *debugui.ImguiSystem
	dt     float64
}

func runWindow(eng *engine.Engine[*render.DrawQueue], queue *render.DrawQueue, tickRate float64, debug bool) error {
	game := &windowGame{
		engine: eng,
		queue:  queue,
		dt:     1 / tickRate,
	}

	if debug {
		game.imgui = debugui_ebiten.New("Asteroids", ScreenWidth, ScreenHeight)
		game.input = &debugui.ImguiSystem{}
		if err := eng.AddSystem(game.input); err != nil {
			return err
		}
		if _, err := debugui.SpawnDebugUI(eng.Store(), eng.Stats); err != nil {
			return err
		}
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("Asteroids")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(tickRate))

	return ebiten.RunGame(game)
}

func (g *windowGame) Update() error {
	if g.quitPressed() {
		return ebiten.Termination
	}

	g.queue.Reset()
	if g.imgui == nil {
		return g.engine.Update(g.dt)
	}
	return g.imgui.Frame(func() error {
		return g.engine.Update(g.dt)
	})
}

func (g *windowGame) quitPressed() bool {
	if g.input != nil && g.input.InputState(g.engine.Store()).WantCaptureKeyboard {
		return false
	}
	return ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape)
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	ebitenrender.Draw(screen, g.queue)
	if g.imgui != nil {
		g.imgui.Overlay(screen)
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
