package ecs

import "iter"

// Key is the set of unsigned integer types a SparseSet can index.
type Key interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// SparseSet is a bounded set of small unsigned integers with O(1) insert, erase
// and lookup. Present keys are packed in dense[0:size]; sparse maps a key back
// to its slot in dense. Keys above maxValue are never stored, and the set never
// holds more than capacity keys.
//
// The sparse array may contain stale entries for absent keys, so membership is
// only trusted when dense[sparse[key]] == key and the slot is below size.
type SparseSet[K Key] struct {
	dense    []K
	sparse   []K
	size     int
	maxValue K
}

// NewSparseSet allocates a set accepting keys in [0, maxValue] and holding at
// most capacity keys at once.
func NewSparseSet[K Key](maxValue K, capacity int) *SparseSet[K] {
	return &SparseSet[K]{
		dense:    make([]K, capacity),
		sparse:   make([]K, uint64(maxValue)+1),
		maxValue: maxValue,
	}
}

// Search returns the dense slot of key.
func (s *SparseSet[K]) Search(key K) (int, bool) {
	if key > s.maxValue {
		return 0, false
	}
	slot := int(s.sparse[key])
	if slot < s.size && s.dense[slot] == key {
		return slot, true
	}
	return 0, false
}

// Contains reports whether key is in the set.
func (s *SparseSet[K]) Contains(key K) bool {
	_, ok := s.Search(key)
	return ok
}

// Insert adds key at the end of the dense array. It returns false without
// changing the set when key is already present, exceeds maxValue, or the set is
// at capacity.
func (s *SparseSet[K]) Insert(key K) bool {
	if key > s.maxValue || s.size >= len(s.dense) || s.Contains(key) {
		return false
	}
	s.dense[s.size] = key
	s.sparse[key] = K(s.size)
	s.size++
	return true
}

// Erase removes key by moving the last dense key into its slot.
func (s *SparseSet[K]) Erase(key K) bool {
	slot, ok := s.Search(key)
	if !ok {
		return false
	}
	last := s.dense[s.size-1]
	s.dense[slot] = last
	s.sparse[last] = K(slot)
	s.size--
	return true
}

// KeyAt returns the key stored at a dense slot. slot must be below Size.
func (s *SparseSet[K]) KeyAt(slot int) K {
	return s.dense[slot]
}

// Size returns the number of keys in the set.
func (s *SparseSet[K]) Size() int {
	return s.size
}

// Cap returns the maximum number of keys the set can hold.
func (s *SparseSet[K]) Cap() int {
	return len(s.dense)
}

// MaxValue returns the largest key the set accepts.
func (s *SparseSet[K]) MaxValue() K {
	return s.maxValue
}

// Clear empties the set. Stale sparse entries are left in place.
func (s *SparseSet[K]) Clear() {
	s.size = 0
}

// All yields the keys in dense order. The set must not be modified while the
// sequence is being consumed.
func (s *SparseSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := 0; i < s.size; i++ {
			if !yield(s.dense[i]) {
				return
			}
		}
	}
}
