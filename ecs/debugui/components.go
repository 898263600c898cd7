package debugui

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/sparsecs/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selected           ecs.Entity
	hasSelection       bool
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selected     ecs.Entity
	hasSelection bool
}

type GroupViewerComponent struct {
	rows          []GroupRow
	selected      string
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	scheduler     *ecs.Scheduler
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebuggerComponent struct {
	selected *intmap.Set[ecs.ComponentTypeID]
}
