// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state. ImguiSystem keeps
// it attached to a single entity of its own.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem runs the render function of every ImguiItem once per frame
// and refreshes the ImguiInputState component.
type ImguiSystem struct {
	// ReadInput reports the current capture state. Nil reads it from the
	// current ImGui context.
	ReadInput func() ImguiInputState

	commands    *ecs.Commands
	stateEntity ecs.Entity
}

func readImguiInput() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// Initialize creates the entity that carries the input state.
func (i *ImguiSystem) Initialize(store *ecs.Store) error {
	if i.ReadInput == nil {
		i.ReadInput = readImguiInput
	}
	i.commands = ecs.NewCommands()
	i.stateEntity = store.CreateEntity()
	return ecs.Attach(store, i.stateEntity, ImguiInputState{})
}

// Update refreshes the input state and runs every ImGui render function.
// Render functions run after the frame's queued structural changes are
// applied, so they may safely modify the store.
func (i *ImguiSystem) Update(dt float64, store *ecs.Store) error {
	state, err := ecs.GetMut[ImguiInputState](store, i.stateEntity)
	if err != nil {
		return err
	}
	*state = i.ReadInput()

	items, err := ecs.All[ImguiItem](store)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Value.Render != nil {
			i.commands.Defer(item.Value.Render)
		}
	}
	return i.commands.Flush(store)
}

// InputState returns the capture state recorded by the last Update.
func (i *ImguiSystem) InputState(store *ecs.Store) ImguiInputState {
	state, err := ecs.Get[ImguiInputState](store, i.stateEntity)
	if err != nil {
		return ImguiInputState{}
	}
	return state
}
