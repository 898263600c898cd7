package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World ties an EntityAllocator, a ComponentRegistry and the system and view
// groups together, and keeps every group in sync with each entity's
// Signature. Every structural change goes through the World.
//
// A World is not safe for concurrent use.
type World struct {
	cfg    Config
	logger zerolog.Logger

	entities   *EntityAllocator
	components *ComponentRegistry
	systems    *groupSet
	views      *groupSet

	systemList  []System
	systemByKey map[reflect.Type]System
	viewByKey   map[reflect.Type]any
	singletons  map[reflect.Type]*singletonEntry
}

// ComponentValue is a type-erased component attached to an entity. Value
// holds a pointer to the stored instance.
type ComponentValue struct {
	ComponentInfo
	Value any
}

// NewWorld creates an empty World. Without options it holds up to
// DefaultMaxEntities entities, registers component types lazily and logs
// nothing.
func NewWorld(opts ...Option) *World {
	w := &World{
		cfg:         DefaultConfig(),
		logger:      zerolog.Nop(),
		systemByKey: make(map[reflect.Type]System),
		viewByKey:   make(map[reflect.Type]any),
		singletons:  make(map[reflect.Type]*singletonEntry),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.cfg.MaxEntities == 0 {
		w.cfg.MaxEntities = DefaultMaxEntities
	}

	w.entities = NewEntityAllocator(w.cfg.MaxEntities)
	w.components = NewComponentRegistry(w.cfg.MaxEntities, w.cfg.StrictRegistration)
	w.components.logger = w.logger
	w.systems = newGroupSet(GroupSystem, w.cfg.MaxEntities)
	w.views = newGroupSet(GroupView, w.cfg.MaxEntities)
	return w
}

// Components returns the World's component registry.
func (w *World) Components() *ComponentRegistry {
	return w.components
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// CreateEntity allocates an entity with an empty signature. Groups whose
// requirement is empty pick it up immediately.
func (w *World) CreateEntity() (Entity, error) {
	e, err := w.entities.Create()
	if err != nil {
		return 0, err
	}
	w.signatureChanged(e, Signature{})
	return e, nil
}

// DestroyEntity releases e, drops all of its components and removes it from
// every system and view.
func (w *World) DestroyEntity(e Entity) error {
	if err := w.entities.Destroy(e); err != nil {
		return err
	}
	w.components.OnEntityDestroyed(e)
	w.systems.onEntityDestroyed(e)
	w.views.onEntityDestroyed(e)
	return nil
}

// IsAlive reports whether e is a live entity.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.IsValid(e)
}

// Signature returns the set of component type ids e currently owns.
func (w *World) Signature(e Entity) (Signature, error) {
	return w.entities.Signature(e)
}

// Entities yields live entities in ascending id order.
func (w *World) Entities() iter.Seq[Entity] {
	return w.entities.All()
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.Len()
}

func (w *World) MaxEntities() int {
	return w.entities.Cap()
}

// Ref returns a handle to e that stops resolving once e is destroyed, even if
// the id is later reissued.
func (w *World) Ref(e Entity) (EntityRef, error) {
	if err := w.entities.check(e); err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Entity: e, Generation: w.entities.Generation(e)}, nil
}

// Resolve returns the entity behind ref if it is still the same live entity.
func (w *World) Resolve(ref EntityRef) (Entity, bool) {
	if !w.entities.IsValid(ref.Entity) || w.entities.Generation(ref.Entity) != ref.Generation {
		return 0, false
	}
	return ref.Entity, true
}

// ComponentsOf lists e's components in id order.
func (w *World) ComponentsOf(e Entity) ([]ComponentValue, error) {
	sig, err := w.entities.Signature(e)
	if err != nil {
		return nil, err
	}
	values := make([]ComponentValue, 0, sig.Len())
	for id := range sig.IDs() {
		info, _ := w.components.Info(id)
		value, ok := w.components.store(id).getAny(e)
		if !ok {
			return nil, eris.Wrapf(ErrComponentMissing, "%s on entity %d", info.Name, e)
		}
		values = append(values, ComponentValue{ComponentInfo: info, Value: value})
	}
	return values, nil
}

// RefreshGroups recomputes the membership of every system and view from the
// current signatures of all live entities.
func (w *World) RefreshGroups() {
	for _, set := range []*groupSet{w.systems, w.views} {
		for _, g := range set.groups {
			g.rescan(w.entities)
		}
	}
	w.logger.Debug().
		Int("systems", len(w.systems.groups)).
		Int("views", len(w.views.groups)).
		Int("entities", w.entities.Len()).
		Msg("groups refreshed")
}

// Systems returns registered systems in registration order.
func (w *World) Systems() []System {
	return w.systemList
}

// Groups describes every registered system and view, systems first.
func (w *World) Groups() []GroupInfo {
	infos := make([]GroupInfo, 0, len(w.systems.groups)+len(w.views.groups))
	for _, set := range []*groupSet{w.systems, w.views} {
		for _, g := range set.groups {
			infos = append(infos, GroupInfo{
				Name:      g.name,
				Kind:      g.kind,
				Signature: g.required,
				Count:     g.len(),
			})
		}
	}
	return infos
}

// GroupInfo describes one system or view.
type GroupInfo struct {
	Name      string
	Kind      GroupKind
	Signature Signature
	Count     int
}

// signatureChanged broadcasts e's new signature to systems, then views.
func (w *World) signatureChanged(e Entity, sig Signature) {
	w.systems.onEntitySignatureChanged(e, sig)
	w.views.onEntitySignatureChanged(e, sig)
}
