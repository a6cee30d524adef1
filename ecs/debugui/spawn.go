package debugui

import (
	"errors"

	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
)

// SpawnDebugUI creates the debug overlay entity: the store browser, the
// component inspector, the type viewer, the query debugger and the
// performance window, all drawn by a single ImguiItem. engineStats may be nil.
func SpawnDebugUI(store *ecs.Store, engineStats func() *engine.Stats) (ecs.Entity, error) {
	if err := RegisterDebugUIComponents(store); err != nil {
		return 0, err
	}

	e := store.CreateEntity()
	timer := NewFrameTimer()

	err := errors.Join(
		ecs.Attach(store, e, NewEntityBrowserComponent(100)),
		ecs.Attach(store, e, NewComponentInspectorComponent()),
		ecs.Attach(store, e, NewTypeViewerComponent()),
		ecs.Attach(store, e, NewPerformanceStatsComponent(120, engineStats)),
		ecs.Attach(store, e, NewQueryDebuggerComponent()),
	)
	if err != nil {
		return e, err
	}

	err = ecs.Attach(store, e, ImguiItem{
		Render: func() {
			renderOverlay(store, e, timer.GetDeltaTime())
		},
	})
	return e, err
}

func renderOverlay(store *ecs.Store, e ecs.Entity, dt float32) {
	browser, err := ecs.GetMut[EntityBrowserComponent](store, e)
	if err != nil {
		return
	}

	if types, err := ecs.GetMut[TypeViewerComponent](store, e); err == nil {
		if clicked := types.Render(store); clicked != nil {
			browser.SetTypeFilter(clicked)
		}
	}

	browser.Render(store)

	if inspector, err := ecs.GetMut[ComponentInspectorComponent](store, e); err == nil {
		selected, ok := browser.SelectedEntity()
		inspector.Render(store, selected, ok)
	}
	if query, err := ecs.GetMut[QueryDebuggerComponent](store, e); err == nil {
		query.Render(store)
	}
	if perf, err := ecs.GetMut[PerformanceStatsComponent](store, e); err == nil {
		perf.Render(store, dt)
	}
}

// RegisterDebugUIComponents prepares storage for the overlay's component
// types so they show up in the type viewer before the overlay is spawned.
func RegisterDebugUIComponents(store *ecs.Store) error {
	for _, register := range []func(*ecs.Store) error{
		ecs.RegisterComponent[ImguiItem],
		ecs.RegisterComponent[ImguiInputState],
		ecs.RegisterComponent[EntityBrowserComponent],
		ecs.RegisterComponent[ComponentInspectorComponent],
		ecs.RegisterComponent[TypeViewerComponent],
		ecs.RegisterComponent[PerformanceStatsComponent],
		ecs.RegisterComponent[QueryDebuggerComponent],
	} {
		if err := register(store); err != nil {
			return err
		}
	}
	return nil
}
