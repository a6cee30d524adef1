package debugui

import (
	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntity     ecs.Entity
	hasSelection       bool
	filterText         string
	filterType         ecs.ComponentType
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntity ecs.Entity
	hasSelection   bool
}

type TypeViewerComponent struct {
	cache         *TypeViewerCache
	selectedType  ecs.ComponentType
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	engineStats   func() *engine.Stats
}

type QueryDebuggerComponent struct {
	selectedComponentTypes map[string]bool
	cache                  *QueryDebuggerCache
}
