package debugui

import (
	"github.com/plus3/sparsecs/ecs"
	"github.com/rotisserie/eris"
)

// RegisterDebugUIComponents registers every component type the debug windows
// and ImguiSystem query for.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) error {
	for _, register := range []func(*ecs.ComponentRegistry) (ecs.ComponentTypeID, error){
		ecs.RegisterComponent[ImguiItem],
		ecs.RegisterComponent[EntityBrowserComponent],
		ecs.RegisterComponent[ComponentInspectorComponent],
		ecs.RegisterComponent[GroupViewerComponent],
		ecs.RegisterComponent[PerformanceStatsComponent],
		ecs.RegisterComponent[QueryDebuggerComponent],
	} {
		if _, err := register(registry); err != nil {
			return eris.Wrap(err, "register debug ui components")
		}
	}
	return nil
}

// SpawnDebugUI creates one entity carrying every debug window and registers
// the systems that draw them. scheduler may be nil, in which case the
// performance window shows world stats only.
func SpawnDebugUI(w *ecs.World, scheduler *ecs.Scheduler) (ecs.Entity, error) {
	if err := RegisterDebugUIComponents(w.Components()); err != nil {
		return 0, err
	}
	ecs.NewSingleton[ImguiInputState](w)

	view, err := ecs.GetOrRegisterView[debugWindows](w)
	if err != nil {
		return 0, err
	}
	e, err := view.Spawn(debugWindows{
		Browser:   ptr(NewEntityBrowserComponent(100)),
		Inspector: ptr(NewComponentInspectorComponent()),
		Groups:    ptr(NewGroupViewerComponent()),
		Perf:      ptr(NewPerformanceStatsComponent(120, scheduler)),
		Query:     ptr(NewQueryDebuggerComponent()),
	})
	if err != nil {
		return 0, eris.Wrap(err, "spawn debug ui")
	}

	if _, err := ecs.GetOrRegisterSystem(w, &ImguiSystem{}, ecs.Require[ImguiItem]()); err != nil {
		return 0, err
	}
	if _, err := ecs.GetOrRegisterSystem(w, &DebugWindowSystem{}); err != nil {
		return 0, err
	}
	return e, nil
}

func ptr[T any](v T) *T { return &v }
