package ecs

import (
	"reflect"
	"unsafe"
)

// iComponentStore is the type-erased view of a ComponentStore[T] that the
// registry keeps for every registered type.
type iComponentStore interface {
	OnEntityDestroyed(e Entity)
	Has(e Entity) bool
	Len() int
	TypeID() ComponentTypeID
	Type() reflect.Type

	// getAny returns a *T boxed in an interface.
	getAny(e Entity) (any, bool)
	// pointer returns the address of e's instance, or nil.
	pointer(e Entity) unsafe.Pointer
	// addFrom copies the T at src into the store for e.
	addFrom(e Entity, src unsafe.Pointer) error
}
