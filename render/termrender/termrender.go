// Package termrender flushes a render.DrawQueue onto a tcell screen. Every
// terminal cell is treated as one pixel.
package termrender

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/plus3/entstore/render"
)

const (
	fillRune = '█'
	lineRune = '·'
)

// Draw renders every queued command onto screen. It neither clears nor
// shows the screen.
func Draw(screen tcell.Screen, q *render.DrawQueue) {
	width, height := screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	for _, cmd := range q.Commands() {
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(cmd.Color.R), int32(cmd.Color.G), int32(cmd.Color.B)))

		switch cmd.Kind {
		case render.KindRect:
			drawRect(screen, cmd, width, height, style)
		case render.KindCircle:
			drawCircle(screen, cmd, width, height, style)
		case render.KindLine:
			drawLine(screen, cmd, width, height, style)
		case render.KindText:
			x, y := cell(cmd.X, cmd.Y, width, height)
			PutText(screen, x, y, cmd.Text, style)
		}
	}
}

// PutText writes s starting at column x, clipped to the screen width. Wide
// runes take two columns.
func PutText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	width, height := screen.Size()
	if y < 0 || y >= height || x >= width {
		return
	}
	s = runewidth.Truncate(s, width-x, "")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x >= 0 {
			screen.SetContent(x, y, r, nil, style)
		}
		x += max(w, 1)
	}
}

func drawRect(screen tcell.Screen, cmd render.Command, width, height int, style tcell.Style) {
	x0, y0 := cell(cmd.X-cmd.W/2, cmd.Y+cmd.H/2, width, height)
	x1, y1 := cell(cmd.X+cmd.W/2, cmd.Y-cmd.H/2, width, height)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			set(screen, x, y, fillRune, width, height, style)
		}
	}
}

func drawCircle(screen tcell.Screen, cmd render.Command, width, height int, style tcell.Style) {
	cx, cy := render.ToScreen(cmd.X, cmd.Y, width, height)
	rx, ry := render.ScaleToScreen(cmd.W, cmd.W, width, height)
	rx, ry = max(rx, 0.5), max(ry, 0.5)

	for y := int(math.Floor(float64(cy - ry))); y <= int(math.Ceil(float64(cy+ry))); y++ {
		for x := int(math.Floor(float64(cx - rx))); x <= int(math.Ceil(float64(cx+rx))); x++ {
			dx := (float32(x) + 0.5 - cx) / rx
			dy := (float32(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				set(screen, x, y, fillRune, width, height, style)
			}
		}
	}
}

func drawLine(screen tcell.Screen, cmd render.Command, width, height int, style tcell.Style) {
	x0, y0 := cell(cmd.X, cmd.Y, width, height)
	x1, y1 := cell(cmd.X2, cmd.Y2, width, height)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		set(screen, x0, y0, lineRune, width, height, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func cell(x, y float32, width, height int) (int, int) {
	sx, sy := render.ToScreen(x, y, width, height)
	cx := int(math.Floor(float64(sx)))
	cy := int(math.Floor(float64(sy)))
	// The far edge of the field maps one past the last cell.
	if cx == width {
		cx--
	}
	if cy == height {
		cy--
	}
	return cx, cy
}

func set(screen tcell.Screen, x, y int, r rune, width, height int, style tcell.Style) {
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}
	screen.SetContent(x, y, r, nil, style)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
