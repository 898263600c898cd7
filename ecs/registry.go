package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	ID   ComponentTypeID
	Name string
	Type reflect.Type
}

// ComponentRegistry assigns ids to component types and owns one
// ComponentStore per type. Every World has its own registry, so independent
// worlds never share ids or storage.
type ComponentRegistry struct {
	ids         map[reflect.Type]ComponentTypeID
	stores      []iComponentStore
	maxEntities uint32
	strict      bool
	logger      zerolog.Logger
}

// NewComponentRegistry creates a registry whose stores hold up to maxEntities
// instances each. A strict registry refuses to register types implicitly.
func NewComponentRegistry(maxEntities uint32, strict bool) *ComponentRegistry {
	return &ComponentRegistry{
		ids:         make(map[reflect.Type]ComponentTypeID),
		maxEntities: maxEntities,
		strict:      strict,
		logger:      zerolog.Nop(),
	}
}

// RegisterComponent registers T and returns its id. Registering a type twice
// returns the id it was first given.
func RegisterComponent[T any](r *ComponentRegistry) (ComponentTypeID, error) {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if len(r.stores) >= MaxComponentTypes {
		return 0, eris.Wrapf(ErrTooManyComponentTypes, "registering %s", t)
	}
	id := ComponentTypeID(len(r.stores))
	r.ids[t] = id
	r.stores = append(r.stores, newComponentStore[T](id, r.maxEntities))
	r.logger.Debug().
		Int("component_id", int(id)).
		Str("component_name", t.String()).
		Msg("component registered")
	return id, nil
}

// ComponentID returns T's id, registering T on first use unless the registry
// is strict.
func ComponentID[T any](r *ComponentRegistry) (ComponentTypeID, error) {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if r.strict {
		return 0, eris.Wrapf(ErrComponentNotRegistered, "%s", t)
	}
	return RegisterComponent[T](r)
}

// StoreOf returns the store holding T, with the same registration rules as
// ComponentID.
func StoreOf[T any](r *ComponentRegistry) (*ComponentStore[T], error) {
	id, err := ComponentID[T](r)
	if err != nil {
		return nil, err
	}
	return r.stores[id].(*ComponentStore[T]), nil
}

// existingStore returns T's store if T is already registered. It never
// registers, whatever the registration mode.
func existingStore[T any](r *ComponentRegistry) (*ComponentStore[T], bool) {
	id, ok := r.ids[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.stores[id].(*ComponentStore[T]), true
}

// Lookup returns the id of an already registered runtime type. It never
// registers.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentTypeID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// IsRegistered reports whether T has an id.
func IsRegistered[T any](r *ComponentRegistry) bool {
	_, ok := r.ids[reflect.TypeFor[T]()]
	return ok
}

// Len returns the number of registered types.
func (r *ComponentRegistry) Len() int {
	return len(r.stores)
}

// Types lists registered types in id order.
func (r *ComponentRegistry) Types() []ComponentInfo {
	infos := make([]ComponentInfo, len(r.stores))
	for i, s := range r.stores {
		infos[i] = ComponentInfo{ID: s.TypeID(), Name: s.Type().String(), Type: s.Type()}
	}
	return infos
}

// Info returns the description of a registered id.
func (r *ComponentRegistry) Info(id ComponentTypeID) (ComponentInfo, bool) {
	if int(id) >= len(r.stores) {
		return ComponentInfo{}, false
	}
	s := r.stores[id]
	return ComponentInfo{ID: id, Name: s.Type().String(), Type: s.Type()}, true
}

// Count returns how many instances of the type with the given id are stored.
func (r *ComponentRegistry) Count(id ComponentTypeID) int {
	if int(id) >= len(r.stores) {
		return 0
	}
	return r.stores[id].Len()
}

// OnEntityDestroyed removes e's instance from every store that has one.
func (r *ComponentRegistry) OnEntityDestroyed(e Entity) {
	for _, s := range r.stores {
		s.OnEntityDestroyed(e)
	}
}

func (r *ComponentRegistry) store(id ComponentTypeID) iComponentStore {
	return r.stores[id]
}
