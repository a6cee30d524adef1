package debugui

import (
	"fmt"
	"slices"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
)

type QueryDebuggerCache struct {
	componentTypes []ecs.ComponentType
	matches        []ecs.Entity
	version        uint64
	valid          bool
	dirty          bool
}

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
		cache:                  &QueryDebuggerCache{},
	}
}

func (qd *QueryDebuggerComponent) Render(store *ecs.Store) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(store)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
		qd.cache.dirty = true
	}

	for _, compType := range qd.cache.componentTypes {
		name := compType.String()
		selected := qd.selectedComponentTypes[name]
		if imgui.Checkbox(name, &selected) {
			qd.toggle(name, selected)
		}
	}

	imgui.Separator()

	if len(qd.selectedComponentTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matches := qd.matchingEntities(store)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Entities") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity")
			imgui.TableSetupColumn("Component Count")
			imgui.TableHeadersRow()

			for _, e := range matches {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e))

				imgui.TableSetColumnIndex(1)
				types, _ := store.ComponentTypes(e)
				imgui.Text(fmt.Sprintf("%d", len(types)))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) toggle(name string, selected bool) {
	if selected {
		qd.selectedComponentTypes[name] = true
	} else {
		delete(qd.selectedComponentTypes, name)
	}
	qd.cache.dirty = true
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(store *ecs.Store) {
	if !qd.cache.valid || qd.cache.version != store.Version() {
		qd.rebuildCache(store)
	}
}

func (qd *QueryDebuggerComponent) rebuildCache(store *ecs.Store) {
	stats := store.CollectStats()

	qd.cache.componentTypes = make([]ecs.ComponentType, 0, len(stats.Types))
	for _, ts := range stats.Types {
		qd.cache.componentTypes = append(qd.cache.componentTypes, ts.Type)
	}
	sort.Slice(qd.cache.componentTypes, func(i, j int) bool {
		return qd.cache.componentTypes[i].String() < qd.cache.componentTypes[j].String()
	})

	qd.cache.version = store.Version()
	qd.cache.valid = true
	qd.cache.dirty = true
}

// matchingEntities returns the entities holding every selected type, sorted.
func (qd *QueryDebuggerComponent) matchingEntities(store *ecs.Store) []ecs.Entity {
	if !qd.cache.dirty {
		return qd.cache.matches
	}

	required := make([]ecs.ComponentType, 0, len(qd.selectedComponentTypes))
	for _, t := range qd.cache.componentTypes {
		if qd.selectedComponentTypes[t.String()] {
			required = append(required, t)
		}
	}

	qd.cache.matches = qd.cache.matches[:0]
	if len(required) > 0 {
		for e := range store.EachEntity() {
			if qd.entityHasAllTypes(store, e, required) {
				qd.cache.matches = append(qd.cache.matches, e)
			}
		}
		slices.Sort(qd.cache.matches)
	}

	qd.cache.dirty = false
	return qd.cache.matches
}

func (qd *QueryDebuggerComponent) entityHasAllTypes(store *ecs.Store, e ecs.Entity, requiredTypes []ecs.ComponentType) bool {
	types, err := store.ComponentTypes(e)
	if err != nil {
		return false
	}

	for _, required := range requiredTypes {
		if !slices.Contains(types, required) {
			return false
		}
	}

	return true
}
