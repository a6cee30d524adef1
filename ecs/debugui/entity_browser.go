package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/entstore/ecs"
)

type EntityInfo struct {
	ID             ecs.Entity
	ComponentTypes []string
	ComponentCount int
	types          []ecs.ComponentType
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	version       uint64
	valid         bool
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	if maxEntitiesPerPage <= 0 {
		maxEntitiesPerPage = 100
	}
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(store *ecs.Store) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(store)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterType = nil
	}
	if eb.filterType != nil {
		imgui.Text(fmt.Sprintf("Holding: %s", eb.filterType))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.getFilteredEntities()
		startIdx, endIdx := eb.pageBounds(len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selectedEntity == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(entity.ID)
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.getFilteredEntities()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := eb.totalPages(len(filteredEntities))
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(store *ecs.Store) {
	if !eb.cache.valid || eb.cache.version != store.Version() {
		eb.rebuildCache(store)
	}
}

func (eb *EntityBrowserComponent) rebuildCache(store *ecs.Store) {
	eb.cache.entities = make([]EntityInfo, 0, store.EntityCount())

	for e := range store.EachEntity() {
		types, err := store.ComponentTypes(e)
		if err != nil {
			continue
		}
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:             e,
			ComponentTypes: names,
			ComponentCount: len(names),
			types:          types,
		})
	}

	eb.cache.version = store.Version()
	eb.cache.valid = true
	eb.sortEntities()

	if eb.hasSelection && !store.Contains(eb.selectedEntity) {
		eb.hasSelection = false
	}
}

func (eb *EntityBrowserComponent) sortEntities() {
	slices.SortStableFunc(eb.cache.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.cache.sortColumn {
		case 1:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 2:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !eb.cache.sortAscending {
			return -c
		}
		return c
	})
}

func (eb *EntityBrowserComponent) getFilteredEntities() []EntityInfo {
	if eb.filterText == "" && eb.filterType == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterType != nil && !slices.Contains(entity.types, eb.filterType) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserComponent) totalPages(n int) int {
	return (n + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
}

func (eb *EntityBrowserComponent) pageBounds(n int) (int, int) {
	if pages := eb.totalPages(n); eb.currentPage >= pages {
		eb.currentPage = max(pages-1, 0)
	}
	start := eb.currentPage * eb.maxEntitiesPerPage
	end := min(start+eb.maxEntitiesPerPage, n)
	return start, end
}

// Select marks an entity as the browser's selection.
func (eb *EntityBrowserComponent) Select(e ecs.Entity) {
	eb.selectedEntity = e
	eb.hasSelection = true
}

// SetTypeFilter restricts the listing to entities holding t. Nil clears it.
func (eb *EntityBrowserComponent) SetTypeFilter(t ecs.ComponentType) {
	eb.filterType = t
	eb.currentPage = 0
}

// SelectedEntity returns the selected entity. Entity 0 is a valid handle, so
// the second result reports whether anything is selected.
func (eb *EntityBrowserComponent) SelectedEntity() (ecs.Entity, bool) {
	return eb.selectedEntity, eb.hasSelection
}

