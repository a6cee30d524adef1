// Package ebitenrender flushes a render.DrawQueue onto an ebiten image.
package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/entstore/render"
)

// Draw renders every queued command onto screen. The queue is not reset.
func Draw(screen *ebiten.Image, q *render.DrawQueue) {
	bounds := screen.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	for _, cmd := range q.Commands() {
		x, y := render.ToScreen(cmd.X, cmd.Y, width, height)

		switch cmd.Kind {
		case render.KindRect:
			w, h := render.ScaleToScreen(cmd.W, cmd.H, width, height)
			if w < 1 {
				w = 1
			}
			if h < 1 {
				h = 1
			}
			vector.DrawFilledRect(screen, x-w/2, y-h/2, w, h, cmd.Color, false)
		case render.KindCircle:
			r, _ := render.ScaleToScreen(cmd.W, 0, min(width, height), 0)
			vector.DrawFilledCircle(screen, x, y, max(r, 1), cmd.Color, true)
		case render.KindLine:
			x2, y2 := render.ToScreen(cmd.X2, cmd.Y2, width, height)
			vector.StrokeLine(screen, x, y, x2, y2, 1, cmd.Color, true)
		case render.KindText:
			ebitenutil.DebugPrintAt(screen, cmd.Text, int(x), int(y))
		}
	}
}
