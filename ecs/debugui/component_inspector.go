package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sparsecs/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Select makes e the inspected entity.
func (ci *ComponentInspectorComponent) Select(e ecs.Entity) {
	ci.selected = e
	ci.hasSelection = true
}

func (ci *ComponentInspectorComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !ci.hasSelection {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	values, err := w.ComponentsOf(ci.selected)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found: %v", ci.selected, err))
		imgui.End()
		return
	}
	sig, _ := w.Signature(ci.selected)

	imgui.Text(fmt.Sprintf("Entity: %d", ci.selected))
	imgui.Text(fmt.Sprintf("Signature: %s", sig))
	if ref, err := w.Ref(ci.selected); err == nil {
		imgui.Text(fmt.Sprintf("Generation: %d", ref.Generation))
	}
	imgui.Separator()

	for _, component := range values {
		if imgui.TreeNodeStr(component.Name) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(component ecs.ComponentValue) {
	val := reflect.ValueOf(component.Value).Elem()
	if val.Kind() != reflect.Struct {
		ci.renderValue(component.Name, val)
		return
	}

	for _, field := range globalReflectionCache.GetFields(component.Type) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderValue(field.Name, fieldVal)
	}
}

// renderValue draws an editor for val. Edits write straight through val,
// which addresses the stored component.
func (ci *ComponentInspectorComponent) renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setField(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			setField(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			setField(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			setField(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			setField(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderValue(nf.Name, nestedVal)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}

// setField assigns value to field, converting between kinds of the same
// family. It reports whether the field was written.
func setField(field reflect.Value, value any) bool {
	if !field.CanSet() {
		return false
	}
	switch v := value.(type) {
	case int64:
		if field.OverflowInt(v) {
			return false
		}
		field.SetInt(v)
	case uint64:
		if field.OverflowUint(v) {
			return false
		}
		field.SetUint(v)
	case float64:
		field.SetFloat(v)
	case bool:
		field.SetBool(v)
	case string:
		field.SetString(v)
	default:
		return false
	}
	return true
}
