// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sigecs/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem tracks every entity with an ImguiItem and defers their render
// functions to the end of the tick. It also refreshes its ImguiInputState.
type ImguiSystem struct {
	ecs.BaseSystem
	InputState ImguiInputState
}

// NewImguiSystem creates the system. ImguiItem is registered with the
// registry if it is not already.
func NewImguiSystem(registry *ecs.Registry, priority int) *ImguiSystem {
	item := ecs.RegisterComponent[ImguiItem](registry)
	return &ImguiSystem{
		BaseSystem: ecs.NewBaseSystem(ecs.Spec(item), priority, 1),
	}
}

// Update updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Update(elapsed float64) {
	io := imgui.CurrentIO()
	i.InputState.WantCaptureMouse = io.WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = io.WantCaptureKeyboard()

	i.queueRenders()
}

func (i *ImguiSystem) queueRenders() {
	commands := i.World().Commands()
	for _, e := range i.Entities().Dense() {
		item := ecs.ReadComponent[ImguiItem](e)
		if item == nil || item.Render == nil {
			continue
		}
		commands.Defer(item.Render)
	}
}
