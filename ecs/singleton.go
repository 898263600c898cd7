package ecs

import (
	"reflect"
	"slices"
	"strings"
	"unsafe"
)

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// Singleton provides efficient access to a single value that is not
// associated with any entity. Use this for global game state, configuration,
// or other singleton data.
type Singleton[T any] struct {
	world        *World
	componentPtr unsafe.Pointer
}

// NewSingleton returns the accessor for the World's T singleton, creating the
// value from initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	entry, ok := w.singletons[t]
	if !ok {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		entry = &singletonEntry{typ: t, dataPtr: unsafe.Pointer(value)}
		w.singletons[t] = entry
	}
	return &Singleton[T]{world: w, componentPtr: entry.dataPtr}
}

// Init binds the Singleton to w. This is called automatically during system
// registration; the value itself may be created later.
func (s *Singleton[T]) Init(w *World) error {
	s.world = w
	s.componentPtr = nil
	s.updateCache()
	return nil
}

// Get returns a pointer to the singleton value, or nil if it has not been
// created.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton value has been created.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.world == nil {
		return
	}
	if entry, ok := s.world.singletons[reflect.TypeFor[T]()]; ok {
		s.componentPtr = entry.dataPtr
	}
}

// SingletonTypes lists the types of the World's singleton values, sorted by
// name.
func (w *World) SingletonTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(w.singletons))
	for t := range w.singletons {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}
