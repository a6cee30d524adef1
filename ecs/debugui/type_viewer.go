package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
)

type TypeViewerCache struct {
	types         []ecs.TypeStats
	version       uint64
	valid         bool
	sortColumn    int
	sortAscending bool
}

func NewTypeViewerComponent() TypeViewerComponent {
	return TypeViewerComponent{
		cache: &TypeViewerCache{
			sortColumn:    1,
			sortAscending: false,
		},
		sortColumn:    1,
		sortAscending: false,
	}
}

// Render draws the component type table and returns the type the user
// clicked this frame, or nil.
func (tv *TypeViewerComponent) Render(store *ecs.Store) ecs.ComponentType {
	if !imgui.BeginV("Component Types", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	tv.rebuildCacheIfNeeded(store)

	maxHolders := 0
	for _, ts := range tv.cache.types {
		maxHolders = max(maxHolders, ts.Holders)
	}

	var clicked ecs.ComponentType

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("TypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Holders")
		imgui.TableSetupColumn("+ Listeners")
		imgui.TableSetupColumn("- Listeners")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			tv.cache.sortColumn = int(spec.ColumnIndex())
			tv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			tv.sortColumn = tv.cache.sortColumn
			tv.sortAscending = tv.cache.sortAscending
			tv.sortTypes()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, ts := range tv.cache.types {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := tv.selectedType == ts.Type
			if imgui.SelectableBoolV(ts.Name, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				clicked = ts.Type
				tv.selectedType = ts.Type
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", ts.Holders))

			if maxHolders > 0 {
				barWidth := float32(ts.Holders) / float32(maxHolders) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", ts.AddListeners))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", ts.RemoveListeners))
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

func (tv *TypeViewerComponent) rebuildCacheIfNeeded(store *ecs.Store) {
	if !tv.cache.valid || tv.cache.version != store.Version() {
		tv.rebuildCache(store)
	}
}

func (tv *TypeViewerComponent) rebuildCache(store *ecs.Store) {
	tv.cache.types = store.CollectStats().Types
	tv.cache.version = store.Version()
	tv.cache.valid = true
	tv.sortTypes()
}

func (tv *TypeViewerComponent) sortTypes() {
	slices.SortStableFunc(tv.cache.types, func(a, b ecs.TypeStats) int {
		var c int
		switch tv.cache.sortColumn {
		case 0:
			c = strings.Compare(a.Name, b.Name)
		case 2:
			c = cmp.Compare(a.AddListeners, b.AddListeners)
		case 3:
			c = cmp.Compare(a.RemoveListeners, b.RemoveListeners)
		default:
			c = cmp.Compare(a.Holders, b.Holders)
		}
		if !tv.cache.sortAscending {
			return -c
		}
		return c
	})
}
