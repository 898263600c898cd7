package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// ComponentStore holds every instance of one component type in a dense slice,
// indexed by entity through a SparseSet. values[i] belongs to index.KeyAt(i).
// The backing array is sized for MaxEntities up front and never reallocates,
// so pointers returned by Add and Get stay valid until the next Remove on the
// same store.
type ComponentStore[T any] struct {
	id     ComponentTypeID
	typ    reflect.Type
	index  *SparseSet[Entity]
	values []T
}

func newComponentStore[T any](id ComponentTypeID, maxEntities uint32) *ComponentStore[T] {
	return &ComponentStore[T]{
		id:     id,
		typ:    reflect.TypeFor[T](),
		index:  NewSparseSet(Entity(maxEntities-1), int(maxEntities)),
		values: make([]T, 0, maxEntities),
	}
}

// Add stores value for e and returns a pointer to the stored copy.
func (s *ComponentStore[T]) Add(e Entity, value T) (*T, error) {
	if e > s.index.MaxValue() {
		return nil, eris.Wrapf(ErrEntityOutOfRange, "entity %d", e)
	}
	if s.index.Contains(e) {
		return nil, eris.Wrapf(ErrComponentExists, "%s on entity %d", s.typ, e)
	}
	s.index.Insert(e)
	s.values = append(s.values, value)
	return &s.values[len(s.values)-1], nil
}

// Remove deletes e's instance, moving the last instance into its slot.
func (s *ComponentStore[T]) Remove(e Entity) error {
	slot, ok := s.index.Search(e)
	if !ok {
		return eris.Wrapf(ErrComponentMissing, "%s on entity %d", s.typ, e)
	}
	s.removeSlot(slot)
	return nil
}

func (s *ComponentStore[T]) removeSlot(slot int) {
	last := len(s.values) - 1
	s.index.Erase(s.index.KeyAt(slot))
	s.values[slot] = s.values[last]
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
}

// Get returns a pointer to e's instance.
func (s *ComponentStore[T]) Get(e Entity) (*T, error) {
	slot, ok := s.index.Search(e)
	if !ok {
		return nil, eris.Wrapf(ErrComponentMissing, "%s on entity %d", s.typ, e)
	}
	return &s.values[slot], nil
}

// Copy duplicates from's instance onto to, which must not already have one.
func (s *ComponentStore[T]) Copy(from, to Entity) (*T, error) {
	src, err := s.Get(from)
	if err != nil {
		return nil, err
	}
	return s.Add(to, *src)
}

func (s *ComponentStore[T]) Has(e Entity) bool {
	return s.index.Contains(e)
}

func (s *ComponentStore[T]) Len() int {
	return len(s.values)
}

// OnEntityDestroyed drops e's instance if there is one.
func (s *ComponentStore[T]) OnEntityDestroyed(e Entity) {
	if slot, ok := s.index.Search(e); ok {
		s.removeSlot(slot)
	}
}

// All yields every (entity, instance) pair in storage order. The store must
// not be modified while the sequence is being consumed.
func (s *ComponentStore[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := range s.values {
			if !yield(s.index.KeyAt(i), &s.values[i]) {
				return
			}
		}
	}
}

func (s *ComponentStore[T]) TypeID() ComponentTypeID {
	return s.id
}

func (s *ComponentStore[T]) Type() reflect.Type {
	return s.typ
}

func (s *ComponentStore[T]) getAny(e Entity) (any, bool) {
	ptr, err := s.Get(e)
	if err != nil {
		return nil, false
	}
	return ptr, true
}

func (s *ComponentStore[T]) pointer(e Entity) unsafe.Pointer {
	slot, ok := s.index.Search(e)
	if !ok {
		return nil
	}
	return unsafe.Pointer(&s.values[slot])
}

func (s *ComponentStore[T]) addFrom(e Entity, src unsafe.Pointer) error {
	_, err := s.Add(e, *(*T)(src))
	return err
}
