package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
)

// System represents a behavior that operates on entities with specific components.
// User-defined systems embed SystemBase, which tracks the entities matching the
// signature the system was registered with, and may include Query and Singleton
// fields that are initialized at registration.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemBase is embedded in every system. It gives access to the entities whose
// signature contains the system's requirement.
type SystemBase struct {
	world *World
	group *group
}

func (b *SystemBase) systemBase() *SystemBase { return b }

// World returns the World the system is registered with.
func (b *SystemBase) World() *World {
	return b.world
}

// Entities yields the system's member entities. Structural changes made while
// iterating must go through UpdateFrame.Commands.
func (b *SystemBase) Entities() iter.Seq[Entity] {
	if b.group == nil {
		return func(func(Entity) bool) {}
	}
	return b.group.entities()
}

func (b *SystemBase) Len() int {
	if b.group == nil {
		return 0
	}
	return b.group.len()
}

func (b *SystemBase) Contains(e Entity) bool {
	return b.group != nil && b.group.contains(e)
}

// Signature returns the system's current requirement.
func (b *SystemBase) Signature() Signature {
	if b.group == nil {
		return Signature{}
	}
	return b.group.required
}

// RegistrableSystem is a System that embeds SystemBase.
type RegistrableSystem interface {
	System
	systemBase() *SystemBase
}

// Requirement names a component type a system or view needs.
type Requirement func(r *ComponentRegistry) (ComponentTypeID, error)

// Require returns the Requirement for component type T.
func Require[T any]() Requirement {
	return func(r *ComponentRegistry) (ComponentTypeID, error) {
		return ComponentID[T](r)
	}
}

func resolveSignature(r *ComponentRegistry, required []Requirement) (Signature, error) {
	var sig Signature
	for _, req := range required {
		id, err := req(r)
		if err != nil {
			return Signature{}, err
		}
		sig.Set(id)
	}
	return sig, nil
}

// RegisterSystem registers sys under its type, initializes its Query and
// Singleton fields and fills its member set from the live entities. A type can
// be registered once per World.
func RegisterSystem[S RegistrableSystem](w *World, sys S, required ...Requirement) (S, error) {
	key := reflect.TypeFor[S]()
	if w.systems.has(key) {
		var zero S
		return zero, eris.Wrapf(ErrGroupExists, "system %s", systemName(key))
	}
	sig, err := resolveSignature(w.components, required)
	if err != nil {
		var zero S
		return zero, err
	}
	if err := initializeFields(w, sys); err != nil {
		var zero S
		return zero, eris.Wrapf(err, "initializing system %s", systemName(key))
	}

	g, err := w.systems.register(key, systemName(key), sig)
	if err != nil {
		var zero S
		return zero, err
	}
	base := sys.systemBase()
	base.world = w
	base.group = g
	g.rescan(w.entities)

	w.systemList = append(w.systemList, sys)
	w.systemByKey[key] = sys
	w.logger.Debug().
		Str("system", g.name).
		Stringer("signature", sig).
		Int("members", g.len()).
		Msg("system registered")
	return sys, nil
}

// GetSystem returns the registered system of type S.
func GetSystem[S RegistrableSystem](w *World) (S, error) {
	sys, ok := w.systemByKey[reflect.TypeFor[S]()]
	if !ok {
		var zero S
		return zero, eris.Wrapf(ErrGroupNotRegistered, "system %s", systemName(reflect.TypeFor[S]()))
	}
	return sys.(S), nil
}

// GetOrRegisterSystem returns the registered system of type S, registering sys
// with the given requirements if there is none.
func GetOrRegisterSystem[S RegistrableSystem](w *World, sys S, required ...Requirement) (S, error) {
	if existing, err := GetSystem[S](w); err == nil {
		return existing, nil
	}
	return RegisterSystem(w, sys, required...)
}

// IsSystemRegistered reports whether a system of type S is registered.
func IsSystemRegistered[S RegistrableSystem](w *World) bool {
	return w.systems.has(reflect.TypeFor[S]())
}

// SetSystemSignature replaces the requirement of system S and recomputes its
// member set from the live entities.
func SetSystemSignature[S RegistrableSystem](w *World, required ...Requirement) error {
	sig, err := resolveSignature(w.components, required)
	if err != nil {
		return err
	}
	g, err := w.systems.setSignature(reflect.TypeFor[S](), sig)
	if err != nil {
		return err
	}
	g.rescan(w.entities)
	w.logger.Debug().
		Str("system", g.name).
		Stringer("signature", sig).
		Int("members", g.len()).
		Msg("system signature changed")
	return nil
}

// fieldInitializer is implemented by the Query and Singleton field types.
type fieldInitializer interface {
	Init(w *World) error
}

// initializeFields calls Init on every exported Query or Singleton field of a
// struct system.
func initializeFields(w *World, system System) error {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		initializer, ok := field.Addr().Interface().(fieldInitializer)
		if !ok {
			continue
		}
		if err := initializer.Init(w); err != nil {
			return eris.Wrapf(err, "field %s", systemType.Field(i).Name)
		}
	}
	return nil
}

func systemName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
