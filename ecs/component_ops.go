package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// AddComponent attaches value to e as its T component and returns a pointer to
// the stored copy. On error nothing has changed.
func AddComponent[T any](w *World, e Entity, value T) (*T, error) {
	sig, err := w.entities.Signature(e)
	if err != nil {
		return nil, err
	}
	store, err := StoreOf[T](w.components)
	if err != nil {
		return nil, err
	}
	ptr, err := store.Add(e, value)
	if err != nil {
		return nil, err
	}
	sig.Set(store.TypeID())
	w.commitSignature(e, sig)
	return ptr, nil
}

// RemoveComponent detaches e's T component. It never registers T: removing a
// type no entity has ever had fails with ErrComponentMissing.
func RemoveComponent[T any](w *World, e Entity) error {
	sig, err := w.entities.Signature(e)
	if err != nil {
		return err
	}
	store, err := storeFor[T](w, e)
	if err != nil {
		return err
	}
	if err := store.Remove(e); err != nil {
		return err
	}
	sig.Clear(store.TypeID())
	w.commitSignature(e, sig)
	return nil
}

// CopyComponent gives to a copy of from's T component. to must not already
// have one. Like RemoveComponent it never registers T.
func CopyComponent[T any](w *World, from, to Entity) (*T, error) {
	if _, err := w.entities.Signature(from); err != nil {
		return nil, err
	}
	sig, err := w.entities.Signature(to)
	if err != nil {
		return nil, err
	}
	store, err := storeFor[T](w, from)
	if err != nil {
		return nil, err
	}
	ptr, err := store.Copy(from, to)
	if err != nil {
		return nil, err
	}
	sig.Set(store.TypeID())
	w.commitSignature(to, sig)
	return ptr, nil
}

// GetComponent returns a pointer to e's T component. The pointer is valid
// until the next removal of any T component. It never registers T.
func GetComponent[T any](w *World, e Entity) (*T, error) {
	if err := w.entities.check(e); err != nil {
		return nil, err
	}
	store, err := storeFor[T](w, e)
	if err != nil {
		return nil, err
	}
	return store.Get(e)
}

// storeFor returns T's store for an operation that reads an existing T on e.
// An unregistered T means e cannot own one.
func storeFor[T any](w *World, e Entity) (*ComponentStore[T], error) {
	store, ok := existingStore[T](w.components)
	if !ok {
		return nil, eris.Wrapf(ErrComponentMissing, "%s on entity %d", reflect.TypeFor[T](), e)
	}
	return store, nil
}

// HasComponent reports whether e is alive and owns a T component. It never
// registers T.
func HasComponent[T any](w *World, e Entity) bool {
	sig, err := w.entities.Signature(e)
	if err != nil {
		return false
	}
	id, ok := w.components.Lookup(reflect.TypeFor[T]())
	return ok && sig.Has(id)
}

// GetOrAddComponent returns e's T component, attaching value first if e does
// not have one.
func GetOrAddComponent[T any](w *World, e Entity, value T) (*T, error) {
	if HasComponent[T](w, e) {
		return GetComponent[T](w, e)
	}
	return AddComponent(w, e, value)
}

// commitSignature persists sig in the allocator and broadcasts it. e has
// already been validated by the caller.
func (w *World) commitSignature(e Entity, sig Signature) {
	w.entities.setSignature(e, sig)
	w.signatureChanged(e, sig)
}
