package ecs

// Entity is an opaque identifier in [0, MaxEntities). It carries no data of its
// own; ids are recycled after DestroyEntity.
type Entity uint32

// EntityRef is a handle that stays comparable across id recycling. It resolves
// only while the entity it was taken from is still alive.
type EntityRef struct {
	Entity     Entity
	Generation uint32
}
