package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sigecs/ecs"
)

// ComponentInspector shows and edits the components of the entity selected in
// an EntityBrowser.
type ComponentInspector struct {
	browser *EntityBrowser
}

func NewComponentInspector(browser *EntityBrowser) *ComponentInspector {
	return &ComponentInspector{browser: browser}
}

func (ci *ComponentInspector) Render(world *ecs.World) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	id, ok := ci.browser.Selected()
	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	e, ok := world.Entity(id)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d not found", id))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: %d %s", e.Archetype().ID(), e.Signature()))
	imgui.Separator()

	for _, c := range e.Archetype().Components() {
		if c.IsTag() {
			imgui.BulletText(c.Name())
			continue
		}

		component := e.GetComponent(c.Type())
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(c.Name()) {
			ci.renderComponent(component, c.Type())
			imgui.TreePop()
		}
	}

	if systems := e.Systems(); len(systems) > 0 && imgui.TreeNodeStr("Systems") {
		for _, s := range systems {
			imgui.BulletText(fmt.Sprintf("%T #%d", s, s.ID()))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component any, compType reflect.Type) {
	val := reflect.ValueOf(component).Elem()

	if compType.Kind() != reflect.Struct {
		ci.renderField(compType.Name(), val)
		return
	}

	for _, field := range globalReflectionCache.GetFields(compType) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field.Name, fieldVal)
	}
}

// renderField draws an editor for one addressable value and writes edits back
// into the component storage through it.
func (ci *ComponentInspector) renderField(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		labelled(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setValue(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		labelled(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			setValue(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		labelled(name, 150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			setValue(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			setValue(val, v)
		}

	case reflect.String:
		v := val.String()
		labelled(name, 200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			setValue(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal)
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
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Kind()))
		}
	}
}

func labelled(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

// setValue stores v into the settable value val, converting between the
// editor's wide types and the field's own kind. It reports whether val changed.
func setValue(val reflect.Value, v any) bool {
	if !val.CanSet() {
		return false
	}

	switch x := v.(type) {
	case int64:
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if val.OverflowInt(x) {
				return false
			}
			val.SetInt(x)
			return true
		}
	case uint64:
		switch val.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if val.OverflowUint(x) {
				return false
			}
			val.SetUint(x)
			return true
		}
	case float64:
		switch val.Kind() {
		case reflect.Float32, reflect.Float64:
			val.SetFloat(x)
			return true
		}
	case bool:
		if val.Kind() == reflect.Bool {
			val.SetBool(x)
			return true
		}
	case string:
		if val.Kind() == reflect.String {
			val.SetString(x)
			return true
		}
	}
	return false
}
