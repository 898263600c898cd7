// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparsecs/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// It is stored as a World singleton.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Install creates an Ebiten window with a Dear ImGui backend and stores the
// backend as w's ImguiBackend singleton.
func Install(w *ecs.World, title string, width, height int) *ecs.Singleton[ImguiBackend] {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ecs.NewSingleton(w, ImguiBackend{EbitenBackend: backend})
}

// Step runs one scheduler step inside an ImGui frame.
func Step(backend *ecs.Singleton[ImguiBackend], scheduler *ecs.Scheduler, dt float64) error {
	b := backend.Get()
	b.BeginFrame()
	defer b.EndFrame()
	return scheduler.Once(dt)
}
