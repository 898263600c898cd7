package ecs

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// MaxComponentTypes is the number of distinct component types a World can
// register. It is the bit width of Signature.
const MaxComponentTypes = 256

// signatureChunks is the number of masks needed to cover MaxComponentTypes
// at whatever width the mask package was built with (64 bits by default, or
// wider under the m256/m512/m1024 build tags).
const signatureChunks = (MaxComponentTypes + mask.MaxBits - 1) / mask.MaxBits

// ComponentTypeID is the dense id a registry assigns to a component type.
type ComponentTypeID uint32

// Signature is a fixed-width bitmask with bit i set when an entity owns the
// component type with id i. The zero value is the empty signature.
type Signature [signatureChunks]mask.Mask

// NewSignature returns a signature with the given bits set.
func NewSignature(ids ...ComponentTypeID) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

func (s *Signature) Set(id ComponentTypeID) {
	s[id/mask.MaxBits].Mark(uint32(id % mask.MaxBits))
}

func (s *Signature) Clear(id ComponentTypeID) {
	s[id/mask.MaxBits].Unmark(uint32(id % mask.MaxBits))
}

func (s Signature) Has(id ComponentTypeID) bool {
	return s[id/mask.MaxBits].Contains(uint32(id % mask.MaxBits))
}

// Contains reports whether every bit of required is also set in s, i.e.
// (s & required) == required.
func (s Signature) Contains(required Signature) bool {
	for i := range s {
		if !s[i].ContainsAll(required[i]) {
			return false
		}
	}
	return true
}

func (s Signature) IsEmpty() bool {
	for i := range s {
		if !s[i].IsEmpty() {
			return false
		}
	}
	return true
}

// Len returns the number of set bits.
func (s Signature) Len() int {
	n := 0
	for _, chunk := range s {
		for _, w := range chunk {
			n += bits.OnesCount64(w)
		}
	}
	return n
}

// IDs yields the set component type ids in ascending order.
func (s Signature) IDs() iter.Seq[ComponentTypeID] {
	return func(yield func(ComponentTypeID) bool) {
		for i, chunk := range s {
			for j, w := range chunk {
				base := i*mask.MaxBits + j*64
				for w != 0 {
					bit := bits.TrailingZeros64(w)
					if !yield(ComponentTypeID(base + bit)) {
						return
					}
					w &= w - 1
				}
			}
		}
	}
}

// String renders the signature as the list of its set ids, e.g. "{0,3}".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for id := range s.IDs() {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	b.WriteByte('}')
	return b.String()
}
