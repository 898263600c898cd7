// Package ecslog writes structured snapshots of a World to a zerolog logger.
package ecslog

import (
	"github.com/plus3/sparsecs/ecs"
	"github.com/rs/zerolog"
)

// Loggable is the part of a World the helpers read from.
type Loggable interface {
	Components() *ecs.ComponentRegistry
	Groups() []ecs.GroupInfo
}

var _ Loggable = (*ecs.World)(nil)

func componentDict(info ecs.ComponentInfo) *zerolog.Event {
	return zerolog.Dict().
		Int("component_id", int(info.ID)).
		Str("component_name", info.Name)
}

func componentArray(infos []ecs.ComponentInfo) *zerolog.Array {
	arr := zerolog.Arr()
	for _, info := range infos {
		arr = arr.Dict(componentDict(info))
	}
	return arr
}

func loadComponents(event *zerolog.Event, target Loggable) *zerolog.Event {
	infos := target.Components().Types()
	event.Int("total_components", len(infos))
	return event.Array("components", componentArray(infos))
}

func loadGroups(event *zerolog.Event, target Loggable, kind ecs.GroupKind, key string) *zerolog.Event {
	arr := zerolog.Arr()
	total := 0
	for _, g := range target.Groups() {
		if g.Kind != kind {
			continue
		}
		total++
		arr = arr.Dict(zerolog.Dict().
			Str("name", g.Name).
			Str("signature", g.Signature.String()).
			Int("entities", g.Count))
	}
	event.Int("total_"+key, total)
	return event.Array(key, arr)
}

// Components logs every registered component type ordered by id.
func Components(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	loadComponents(logger.WithLevel(level), target).Send()
}

// Systems logs every registered system with its signature and member count.
func Systems(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	loadGroups(logger.WithLevel(level), target, ecs.GroupSystem, "systems").Send()
}

// Views logs every registered view.
func Views(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	loadGroups(logger.WithLevel(level), target, ecs.GroupView, "views").Send()
}

// Entity logs e's id, signature and attached component types.
func Entity(logger *zerolog.Logger, w *ecs.World, e ecs.Entity, level zerolog.Level) {
	event := logger.WithLevel(level).Uint32("entity_id", uint32(e))
	values, err := w.ComponentsOf(e)
	if err != nil {
		event.Err(err).Send()
		return
	}
	sig, _ := w.Signature(e)
	infos := make([]ecs.ComponentInfo, len(values))
	for i, v := range values {
		infos[i] = v.ComponentInfo
	}
	event.Str("signature", sig.String()).
		Array("components", componentArray(infos)).
		Send()
}

// World logs components, systems and views in a single event.
func World(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	event := logger.WithLevel(level)
	event = loadComponents(event, target)
	event = loadGroups(event, target, ecs.GroupSystem, "systems")
	loadGroups(event, target, ecs.GroupView, "views").Send()
}

// Stats logs a WorldStats summary.
func Stats(logger *zerolog.Logger, stats ecs.WorldStats, level zerolog.Level) {
	counts := zerolog.Dict()
	for _, c := range stats.Components {
		counts = counts.Int(c.Name, c.Count)
	}
	logger.WithLevel(level).
		Int("live_entities", stats.LiveEntities).
		Int("max_entities", stats.MaxEntities).
		Int("groups", len(stats.Groups)).
		Int("singletons", stats.SingletonCount).
		Dict("component_counts", counts).
		Send()
}

// CreateSystemLogger creates a sub logger with the entry {"system": systemName}.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) *zerolog.Logger {
	l := logger.With().Str("system", systemName).Logger()
	return &l
}
