package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// View is an interest group over a combination of component types, described
// by a struct T whose fields point at components. Embedded fields are always
// required. Named fields can be marked as optional using the `ecs:"optional"`
// struct tag; optional components do not take part in membership and are nil
// when absent. A field of type Entity receives the entity id.
//
// Membership is maintained incrementally by the World, so iterating a View only
// visits matching entities.
type View[T any] struct {
	world       *World
	group       *group
	stores      []iComponentStore
	optional    []bool
	fieldOffset []uintptr

	entityOffset uintptr
	hasEntity    bool
}

var entityType = reflect.TypeFor[Entity]()

// newView resolves T's fields against the registry. Component types used by a
// view must already be registered.
func newView[T any](w *World) (*View[T], Signature, error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		world:       w,
		stores:      make([]iComponentStore, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}
	var required, seen Signature

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityType {
			v.entityOffset = field.Offset
			v.hasEntity = true
			continue
		}
		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				isOptional = true
			}
		}

		id, ok := w.components.Lookup(fieldType.Elem())
		if !ok {
			return nil, Signature{}, eris.Wrapf(ErrComponentNotRegistered, "%s in view %s", fieldType.Elem(), structType)
		}
		if seen.Has(id) {
			panic("duplicate component type " + fieldType.Elem().String() + " in View struct " + structType.String())
		}
		seen.Set(id)
		if !isOptional {
			required.Set(id)
		}

		v.stores = append(v.stores, w.components.store(id))
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v, required, nil
}

// RegisterView registers the view described by T and fills it from the live
// entities. Each view type can be registered once per World.
//
// Views never register component types, even in a lazy World: every
// component a field points at must already be registered, otherwise
// ErrComponentNotRegistered is returned. A struct naming the same component
// type twice panics.
func RegisterView[T any](w *World) (*View[T], error) {
	key := reflect.TypeFor[T]()
	if w.views.has(key) {
		return nil, eris.Wrapf(ErrGroupExists, "view %s", key)
	}
	v, required, err := newView[T](w)
	if err != nil {
		return nil, err
	}
	g, err := w.views.register(key, key.String(), required)
	if err != nil {
		return nil, err
	}
	v.group = g
	g.rescan(w.entities)
	w.viewByKey[key] = v

	w.logger.Debug().
		Str("view", g.name).
		Stringer("signature", required).
		Int("members", g.len()).
		Msg("view registered")
	return v, nil
}

// GetView returns the registered view described by T.
func GetView[T any](w *World) (*View[T], error) {
	key := reflect.TypeFor[T]()
	v, ok := w.viewByKey[key]
	if !ok {
		return nil, eris.Wrapf(ErrGroupNotRegistered, "view %s", key)
	}
	return v.(*View[T]), nil
}

// GetOrRegisterView returns the view described by T, registering it first if
// needed.
func GetOrRegisterView[T any](w *World) (*View[T], error) {
	if v, err := GetView[T](w); err == nil {
		return v, nil
	}
	return RegisterView[T](w)
}

// IsViewRegistered reports whether the view described by T is registered.
func IsViewRegistered[T any](w *World) bool {
	return w.views.has(reflect.TypeFor[T]())
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	if !v.world.entities.IsValid(e) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), e)
}

func (v *View[T]) populate(structPtr unsafe.Pointer, e Entity) bool {
	for i, store := range v.stores {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])
		componentPtr := store.pointer(e)
		if componentPtr == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}
	if v.hasEntity {
		*(*Entity)(unsafe.Add(structPtr, v.entityOffset)) = e
	}
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(e Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// GetRef is Get for an EntityRef; it returns nil once the referenced entity is
// gone.
func (v *View[T]) GetRef(ref EntityRef) *T {
	e, ok := v.world.Resolve(ref)
	if !ok {
		return nil
	}
	return v.Get(e)
}

// Iter yields every member entity with its populated view struct. Structural
// changes during iteration must be deferred through Commands.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		resultPtr := unsafe.Pointer(&result)
		for e := range v.group.entities() {
			if !v.populate(resultPtr, e) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Entities yields member entities.
func (v *View[T]) Entities() iter.Seq[Entity] {
	return v.group.entities()
}

func (v *View[T]) Len() int {
	return v.group.len()
}

func (v *View[T]) Contains(e Entity) bool {
	return v.group.contains(e)
}

// Signature returns the view's required signature.
func (v *View[T]) Signature() Signature {
	return v.group.required
}

// Spawn creates an entity carrying a copy of every non-nil component in data.
// The entity joins interest groups once, with its final signature. If a
// component cannot be stored the entity is released and no group sees it.
func (v *View[T]) Spawn(data T) (Entity, error) {
	structPtr := unsafe.Pointer(&data)
	for i := range v.stores {
		if *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i])) == nil && !v.optional[i] {
			panic("required component is nil in View.Spawn")
		}
	}

	e, err := v.world.entities.Create()
	if err != nil {
		return 0, err
	}
	var sig Signature
	for i, store := range v.stores {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			continue
		}
		if err := store.addFrom(e, componentPtr); err != nil {
			// No group has seen e yet, so undoing the stores and the
			// allocation leaves the World as it was.
			v.world.components.OnEntityDestroyed(e)
			_ = v.world.entities.Destroy(e)
			return 0, err
		}
		sig.Set(store.TypeID())
	}
	v.world.commitSignature(e, sig)
	return e, nil
}
