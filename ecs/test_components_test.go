package ecs_test

import (
	"testing"

	"github.com/plus3/sparsecs/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string
type Temperature float64

type Inventory struct {
	Items []string
}

// newTestWorld returns a small world with the common component types
// registered in a fixed order: Position=0, Velocity=1, Name=2, Health=3,
// PlayerController=4, AI=5, Score=6, Tag=7, Temperature=8, Inventory=9.
func newTestWorld(t testing.TB, opts ...ecs.Option) *ecs.World {
	t.Helper()
	opts = append([]ecs.Option{ecs.WithMaxEntities(64)}, opts...)
	w := ecs.NewWorld(opts...)
	r := w.Components()
	for _, register := range []func(*ecs.ComponentRegistry) (ecs.ComponentTypeID, error){
		ecs.RegisterComponent[Position],
		ecs.RegisterComponent[Velocity],
		ecs.RegisterComponent[Name],
		ecs.RegisterComponent[Health],
		ecs.RegisterComponent[PlayerController],
		ecs.RegisterComponent[AI],
		ecs.RegisterComponent[Score],
		ecs.RegisterComponent[Tag],
		ecs.RegisterComponent[Temperature],
		ecs.RegisterComponent[Inventory],
	} {
		_, err := register(r)
		require.NoError(t, err)
	}
	return w
}

// spawn creates an entity and attaches each component in order.
func spawn(t testing.TB, w *ecs.World, components ...func(*ecs.World, ecs.Entity) error) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity()
	require.NoError(t, err)
	for _, add := range components {
		require.NoError(t, add(w, e))
	}
	return e
}

// with adapts AddComponent for spawn.
func with[T any](value T) func(*ecs.World, ecs.Entity) error {
	return func(w *ecs.World, e ecs.Entity) error {
		_, err := ecs.AddComponent(w, e, value)
		return err
	}
}
