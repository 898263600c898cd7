package debugui

import (
	"github.com/plus3/sparsecs/ecs"
)

type debugWindows struct {
	Browser   *EntityBrowserComponent
	Inspector *ComponentInspectorComponent
	Groups    *GroupViewerComponent
	Perf      *PerformanceStatsComponent
	Query     *QueryDebuggerComponent
}

// DebugWindowSystem draws the debug windows spawned by SpawnDebugUI. Drawing
// is deferred to the end of the frame so it happens inside the ImGui frame
// the host opened around Scheduler.Once.
type DebugWindowSystem struct {
	ecs.SystemBase
	Windows ecs.Query[debugWindows]
}

func (s *DebugWindowSystem) Execute(frame *ecs.UpdateFrame) {
	w := frame.World
	dt := float32(frame.DeltaTime)
	for windows := range s.Windows.Values() {
		frame.Commands.Defer(func() {
			windows.Browser.Render(w)
			if e, ok := windows.Browser.GetSelectedEntity(); ok {
				windows.Inspector.Select(e)
			}
			windows.Inspector.Render(w)
			if name := windows.Groups.Render(w); name != "" {
				w.Logger().Debug().Str("group", name).Msg("group selected")
			}
			windows.Perf.Render(w, dt)
			windows.Query.Render(w)
		})
	}
}
