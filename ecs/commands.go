package ecs

import (
	"errors"

	"github.com/kamstrup/intmap"
)

// Commands provides a buffer for deferred World operations that are executed at
// the end of a frame. This keeps group membership stable while systems iterate.
type Commands struct {
	spawns   []spawnCommand
	destroys []Entity
	adds     []entityCommand
	removes  []entityCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	build func(w *World, e Entity) error
}

type entityCommand struct {
	entity Entity
	apply  func(w *World, e Entity) error
}

// Defer queues a function to run after every other queued operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues the creation of an entity; build is called with the new entity
// to attach its components.
func (c *Commands) Spawn(build func(w *World, e Entity) error) {
	c.spawns = append(c.spawns, spawnCommand{build: build})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(e Entity) {
	c.destroys = append(c.destroys, e)
}

// QueueAddComponent queues attaching value to e.
func QueueAddComponent[T any](c *Commands, e Entity, value T) {
	c.adds = append(c.adds, entityCommand{
		entity: e,
		apply: func(w *World, e Entity) error {
			_, err := AddComponent(w, e, value)
			return err
		},
	})
}

// QueueRemoveComponent queues detaching e's T component.
func QueueRemoveComponent[T any](c *Commands, e Entity) {
	c.removes = append(c.removes, entityCommand{
		entity: e,
		apply: func(w *World, e Entity) error {
			return RemoveComponent[T](w, e)
		},
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued operations to w in the order destroy, remove, add,
// spawn, defer, and resets the buffer. Removes and adds aimed at an entity
// destroyed in the same flush are dropped. An entity whose spawn builder fails
// is destroyed along with whatever the builder attached. Failing operations do
// not stop the flush; their errors are joined.
func (c *Commands) Flush(w *World) error {
	var errs []error
	destroyed := intmap.NewSet[Entity](len(c.destroys))

	for _, e := range c.destroys {
		if destroyed.Has(e) {
			continue
		}
		if err := w.DestroyEntity(e); err != nil {
			errs = append(errs, err)
		}
		destroyed.Add(e)
	}

	for _, cmd := range c.removes {
		if !destroyed.Has(cmd.entity) {
			if err := cmd.apply(w, cmd.entity); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, cmd := range c.adds {
		if !destroyed.Has(cmd.entity) {
			if err := cmd.apply(w, cmd.entity); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, cmd := range c.spawns {
		e, err := w.CreateEntity()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := cmd.build(w, e); err != nil {
			errs = append(errs, err)
			if w.IsAlive(e) {
				if err := w.DestroyEntity(e); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.destroys = c.destroys[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
	return errors.Join(errs...)
}
