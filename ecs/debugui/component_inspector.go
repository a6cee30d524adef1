package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(store *ecs.Store, selected ecs.Entity, ok bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntity, ci.hasSelection = selected, ok

	if !ci.hasSelection {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	types, err := store.ComponentTypes(ci.selectedEntity)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", ci.selectedEntity))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d", ci.selectedEntity))
	imgui.Text(fmt.Sprintf("Components: %d", len(types)))
	imgui.Separator()

	for _, compType := range types {
		component, err := store.Component(ci.selectedEntity, compType)
		if err != nil {
			imgui.Text(fmt.Sprintf("%s: %v", compType, err))
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent shows the value behind a component pointer. Edits write
// straight through the pointer into the store.
func (ci *ComponentInspectorComponent) renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		ci.renderField("value", val, editKindOf(val.Type()))
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		ci.renderField(field.Name, val.Field(field.Index), field.Edit)
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, kind editKind) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	label := fmt.Sprintf("##%s", name)

	switch kind {
	case editInt:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			setInt(val, int64(v))
		}

	case editUint:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			setUint(val, uint64(v))
		}

	case editFloat:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			setFloat(val, float64(v))
		}

	case editBool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			setBool(val, v)
		}

	case editString:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			setString(val, v)
		}

	case editNested:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				ci.renderField(nf.Name, val.Field(nf.Index), nf.Edit)
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(describe(name, val))
	}
}

func describe(name string, val reflect.Value) string {
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("%s: [%d items]", name, val.Len())
	case reflect.Map:
		return fmt.Sprintf("%s: map[%d items]", name, val.Len())
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return fmt.Sprintf("%s: nil", name)
		}
	case reflect.Func, reflect.Chan:
		return fmt.Sprintf("%s: %s", name, val.Type())
	}
	if val.CanInterface() {
		return fmt.Sprintf("%s: %v", name, val.Interface())
	}
	return fmt.Sprintf("%s: %s", name, val.Type())
}

func setInt(field reflect.Value, value int64) bool {
	if !field.CanSet() || field.OverflowInt(value) {
		return false
	}
	field.SetInt(value)
	return true
}

func setUint(field reflect.Value, value uint64) bool {
	if !field.CanSet() || field.OverflowUint(value) {
		return false
	}
	field.SetUint(value)
	return true
}

func setFloat(field reflect.Value, value float64) bool {
	if !field.CanSet() {
		return false
	}
	field.SetFloat(value)
	return true
}

func setBool(field reflect.Value, value bool) bool {
	if !field.CanSet() {
		return false
	}
	field.SetBool(value)
	return true
}

func setString(field reflect.Value, value string) bool {
	if !field.CanSet() {
		return false
	}
	field.SetString(value)
	return true
}
