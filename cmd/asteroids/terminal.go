package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
	"github.com/plus3/entstore/render"
	"github.com/plus3/entstore/render/termrender"
	"github.com/rotisserie/eris"
)

// TerminalPresenter flushes the frame's draw queue to a tcell screen. It is
// registered after every other render service so the queue is complete.
type TerminalPresenter struct {
	Screen tcell.Screen
}

func (p *TerminalPresenter) Initialize(store *ecs.Store, queue *render.DrawQueue) error {
	if p.Screen == nil {
		return eris.New("terminal presenter has no screen")
	}
	return nil
}

func (p *TerminalPresenter) Update(dt float64, store *ecs.Store, queue *render.DrawQueue) error {
	p.Screen.Clear()
	termrender.Draw(p.Screen, queue)
	p.Screen.Show()
	queue.Reset()
	return nil
}

func runTerminal(ctx context.Context, eng *engine.Engine[*render.DrawQueue], interval time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return eris.Wrap(err, "init screen")
	}
	defer screen.Fini()

	if err := eng.AddRenderService(&TerminalPresenter{Screen: screen}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if quitKey(ev) {
					return
				}
			}
		}
	}()

	return eng.Run(ctx, interval)
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
