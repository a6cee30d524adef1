// Package render holds the backend-neutral draw queue that render services
// fill during a frame. Backends flush it onto their surface afterwards.
//
// Positions are world coordinates: the visible field spans [-1, 1] on both
// axes with +Y pointing up. Sizes are in the same units.
package render

import (
	"image/color"
	"slices"
)

// Kind identifies the primitive a Command draws.
type Kind uint8

const (
	KindRect Kind = iota
	KindCircle
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Command is one queued primitive. Fields not used by a kind are zero.
//
//   - Rect: X, Y is the center, W, H the size.
//   - Circle: X, Y is the center, W the radius.
//   - Line: from X, Y to X2, Y2.
//   - Text: X, Y is the top-left corner of the first character.
type Command struct {
	Kind  Kind
	Layer int
	X, Y  float32
	X2    float32
	Y2    float32
	W, H  float32
	Text  string
	Color color.RGBA
}

// DrawQueue collects draw commands for one frame.
type DrawQueue struct {
	commands []Command
	layer    int
}

// NewDrawQueue creates an empty queue.
func NewDrawQueue() *DrawQueue {
	return &DrawQueue{}
}

// SetLayer sets the layer for subsequently queued commands. Higher layers
// are drawn on top; within a layer, queue order is kept.
func (q *DrawQueue) SetLayer(layer int) {
	q.layer = layer
}

// Rect queues a filled rectangle centered on (x, y).
func (q *DrawQueue) Rect(x, y, w, h float32, c color.RGBA) {
	q.push(Command{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: c})
}

// Circle queues a filled circle.
func (q *DrawQueue) Circle(x, y, radius float32, c color.RGBA) {
	q.push(Command{Kind: KindCircle, X: x, Y: y, W: radius, Color: c})
}

// Line queues a one pixel line.
func (q *DrawQueue) Line(x1, y1, x2, y2 float32, c color.RGBA) {
	q.push(Command{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: c})
}

// Text queues a HUD string.
func (q *DrawQueue) Text(x, y float32, s string, c color.RGBA) {
	q.push(Command{Kind: KindText, X: x, Y: y, Text: s, Color: c})
}

func (q *DrawQueue) push(cmd Command) {
	cmd.Layer = q.layer
	q.commands = append(q.commands, cmd)
}

// Len returns the number of queued commands.
func (q *DrawQueue) Len() int {
	return len(q.commands)
}

// Commands returns the queued commands sorted by layer. The slice is owned
// by the queue and valid until the next Reset.
func (q *DrawQueue) Commands() []Command {
	slices.SortStableFunc(q.commands, func(a, b Command) int {
		return a.Layer - b.Layer
	})
	return q.commands
}

// Reset empties the queue for the next frame, keeping its capacity.
func (q *DrawQueue) Reset() {
	clear(q.commands)
	q.commands = q.commands[:0]
	q.layer = 0
}

// ToScreen maps a world position onto a width x height surface.
func ToScreen(x, y float32, width, height int) (float32, float32) {
	sx := (x + 1) / 2 * float32(width)
	sy := (1 - y) / 2 * float32(height)
	return sx, sy
}

// ScaleToScreen maps a world length along each axis onto the surface.
func ScaleToScreen(w, h float32, width, height int) (float32, float32) {
	return w / 2 * float32(width), h / 2 * float32(height)
}
