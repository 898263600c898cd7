package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparsecs/ecs"
)

// GroupRow is one system or view as shown in the group table.
type GroupRow struct {
	Name       string
	Kind       string
	Signature  string
	Components []string
	Count      int
}

func NewGroupViewerComponent() GroupViewerComponent {
	return GroupViewerComponent{
		sortColumn:    4,
		sortAscending: false,
	}
}

// Render draws the group table and returns the name of the row clicked this
// frame, or "".
func (gv *GroupViewerComponent) Render(w *ecs.World) string {
	if !imgui.BeginV("Groups", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ""
	}

	gv.rows = collectGroups(w)
	sortGroups(gv.rows, gv.sortColumn, gv.sortAscending)

	maxCount := 0
	for _, row := range gv.rows {
		maxCount = max(maxCount, row.Count)
	}

	var clicked string
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("GroupTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Signature")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			gv.sortColumn = int(spec.ColumnIndex())
			gv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortGroups(gv.rows, gv.sortColumn, gv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range gv.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.Name, gv.selected == row.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				gv.selected = row.Name
				clicked = row.Name
			}

			imgui.TableNextColumn()
			imgui.Text(row.Kind)

			imgui.TableNextColumn()
			imgui.Text(row.Signature)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Count))

			if maxCount > 0 {
				barWidth := float32(row.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

func collectGroups(w *ecs.World) []GroupRow {
	groups := w.Groups()
	rows := make([]GroupRow, 0, len(groups))
	for _, g := range groups {
		row := GroupRow{
			Name:      g.Name,
			Kind:      g.Kind.String(),
			Signature: g.Signature.String(),
			Count:     g.Count,
		}
		for id := range g.Signature.IDs() {
			if info, ok := w.Components().Info(id); ok {
				row.Components = append(row.Components, info.Name)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func sortGroups(rows []GroupRow, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b GroupRow) int {
		var c int
		switch column {
		case 0:
			c = strings.Compare(a.Name, b.Name)
		case 1:
			c = strings.Compare(a.Kind, b.Kind)
		case 2:
			c = strings.Compare(a.Signature, b.Signature)
		case 3:
			c = len(a.Components) - len(b.Components)
		default:
			c = a.Count - b.Count
		}
		if !ascending {
			return -c
		}
		return c
	})
}
