package ecs

import (
	"iter"

	"github.com/rotisserie/eris"
)

// EntityAllocator hands out entity ids from a fixed pool and stores each live
// entity's Signature.
//
// Free ids sit in a FIFO ring that starts out as 0..max-1, so new ids are
// issued in ascending order and a destroyed id is reissued only after every id
// freed before it.
type EntityAllocator struct {
	free       []Entity
	head       int
	freeCount  int
	live       *SparseSet[Entity]
	signatures []Signature
	generation []uint32
}

// NewEntityAllocator creates an allocator for ids in [0, max).
func NewEntityAllocator(max uint32) *EntityAllocator {
	if max == 0 {
		panic("ecs: entity allocator needs a non-zero capacity")
	}
	a := &EntityAllocator{
		free:       make([]Entity, max),
		freeCount:  int(max),
		live:       NewSparseSet(Entity(max-1), int(max)),
		signatures: make([]Signature, max),
		generation: make([]uint32, max),
	}
	for i := range a.free {
		a.free[i] = Entity(i)
	}
	return a
}

// Create takes the next free id.
func (a *EntityAllocator) Create() (Entity, error) {
	if a.freeCount == 0 {
		return 0, eris.Wrapf(ErrEntityCapacityExhausted, "%d entities alive", a.live.Size())
	}
	e := a.free[a.head]
	a.head = (a.head + 1) % len(a.free)
	a.freeCount--
	a.live.Insert(e)
	return e, nil
}

// Destroy clears e's signature and returns its id to the back of the pool.
func (a *EntityAllocator) Destroy(e Entity) error {
	if err := a.check(e); err != nil {
		return err
	}
	a.signatures[e] = Signature{}
	a.generation[e]++
	a.live.Erase(e)
	tail := (a.head + a.freeCount) % len(a.free)
	a.free[tail] = e
	a.freeCount++
	return nil
}

// Signature returns the component signature of a live entity.
func (a *EntityAllocator) Signature(e Entity) (Signature, error) {
	if err := a.check(e); err != nil {
		return Signature{}, err
	}
	return a.signatures[e], nil
}

// SetSignature overwrites the signature of a live entity.
func (a *EntityAllocator) SetSignature(e Entity, sig Signature) error {
	if err := a.check(e); err != nil {
		return err
	}
	a.setSignature(e, sig)
	return nil
}

// setSignature overwrites e's signature without validating e.
func (a *EntityAllocator) setSignature(e Entity, sig Signature) {
	a.signatures[e] = sig
}

// IsValid reports whether e is in range and currently alive.
func (a *EntityAllocator) IsValid(e Entity) bool {
	return a.live.Contains(e)
}

// Generation returns how many times the id e has been destroyed.
func (a *EntityAllocator) Generation(e Entity) uint32 {
	if uint32(e) >= uint32(len(a.generation)) {
		return 0
	}
	return a.generation[e]
}

// Len returns the number of live entities.
func (a *EntityAllocator) Len() int {
	return a.live.Size()
}

// Cap returns the maximum number of simultaneously live entities.
func (a *EntityAllocator) Cap() int {
	return len(a.free)
}

// All yields live entities in ascending id order. Entities destroyed during
// the traversal are skipped once they are reached.
func (a *EntityAllocator) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := range a.signatures {
			e := Entity(i)
			if !a.live.Contains(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (a *EntityAllocator) check(e Entity) error {
	if uint32(e) >= uint32(len(a.signatures)) {
		return eris.Wrapf(ErrEntityOutOfRange, "entity %d, max %d", e, len(a.signatures))
	}
	if !a.live.Contains(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d", e)
	}
	return nil
}
