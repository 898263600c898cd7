package ecs

import "errors"

// Errors returned by the World and its building blocks. They are wrapped with
// call-site context, so compare with errors.Is.
var (
	ErrEntityCapacityExhausted = errors.New("entity capacity exhausted")
	ErrEntityOutOfRange        = errors.New("entity id out of range")
	ErrEntityNotAlive          = errors.New("entity is not alive")

	ErrComponentExists        = errors.New("entity already has component")
	ErrComponentMissing       = errors.New("entity does not have component")
	ErrComponentNotRegistered = errors.New("component type not registered")
	ErrTooManyComponentTypes  = errors.New("too many component types")

	ErrGroupExists        = errors.New("group already registered")
	ErrGroupNotRegistered = errors.New("group not registered")
)
