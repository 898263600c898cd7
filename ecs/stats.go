package ecs

// WorldStats is a point-in-time summary of a World.
type WorldStats struct {
	LiveEntities   int
	MaxEntities    int
	Components     []ComponentStats
	Groups         []GroupInfo
	SingletonCount int
	SingletonTypes []string
}

// ComponentStats is the instance count of one registered component type.
type ComponentStats struct {
	ComponentInfo
	Count int
}

// CollectStats gathers entity, component, group and singleton counts.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		LiveEntities: w.entities.Len(),
		MaxEntities:  w.entities.Cap(),
		Groups:       w.Groups(),
	}
	for _, info := range w.components.Types() {
		stats.Components = append(stats.Components, ComponentStats{
			ComponentInfo: info,
			Count:         w.components.Count(info.ID),
		})
	}
	for _, t := range w.SingletonTypes() {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	stats.SingletonCount = len(stats.SingletonTypes)
	return stats
}
