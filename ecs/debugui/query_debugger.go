package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/kamstrup/intmap"
	"github.com/plus3/sparsecs/ecs"
)

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selected: intmap.NewSet[ecs.ComponentTypeID](16),
	}
}

// Signature is the requirement built from the ticked component types.
func (qd *QueryDebuggerComponent) Signature() ecs.Signature {
	var sig ecs.Signature
	for id := range qd.selected.All() {
		sig.Set(id)
	}
	return sig
}

// Toggle flips whether component type id is part of the ad-hoc query.
func (qd *QueryDebuggerComponent) Toggle(id ecs.ComponentTypeID) {
	if !qd.selected.Del(id) {
		qd.selected.Add(id)
	}
}

func (qd *QueryDebuggerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected.Clear()
	}

	for _, info := range w.Components().Types() {
		selected := qd.selected.Has(info.ID)
		if imgui.Checkbox(info.Name, &selected) {
			qd.Toggle(info.ID)
		}
	}

	imgui.Separator()

	sig := qd.Signature()
	if sig.IsEmpty() {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Signature: %s", sig))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", countMatching(w, sig)))

	if imgui.TreeNodeStr("Covering Groups") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryGroupTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Group")
			imgui.TableSetupColumn("Signature")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for _, g := range coveringGroups(w, sig) {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%s (%s)", g.Name, g.Kind))

				imgui.TableSetColumnIndex(1)
				imgui.Text(g.Signature.String())

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", g.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// countMatching counts live entities whose signature contains sig.
func countMatching(w *ecs.World, sig ecs.Signature) int {
	n := 0
	for e := range w.Entities() {
		if have, err := w.Signature(e); err == nil && have.Contains(sig) {
			n++
		}
	}
	return n
}

// coveringGroups returns the groups whose members all match sig, i.e. groups
// whose requirement is a superset of sig.
func coveringGroups(w *ecs.World, sig ecs.Signature) []ecs.GroupInfo {
	var out []ecs.GroupInfo
	for _, g := range w.Groups() {
		if g.Signature.Contains(sig) {
			out = append(out, g)
		}
	}
	return out
}
