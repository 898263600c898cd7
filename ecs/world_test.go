package ecs_test

import (
	"bytes"
	"slices"
	"testing"

	"github.com/plus3/sparsecs/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MoveSystem struct {
	ecs.SystemBase
	Executed int
}

func (s *MoveSystem) Execute(frame *ecs.UpdateFrame) {
	s.Executed++
	for e := range s.Entities() {
		pos, _ := ecs.GetComponent[Position](frame.World, e)
		vel, _ := ecs.GetComponent[Velocity](frame.World, e)
		pos.X += vel.DX * float32(frame.DeltaTime)
		pos.Y += vel.DY * float32(frame.DeltaTime)
	}
}

type RenderSystem struct {
	ecs.SystemBase
}

func (s *RenderSystem) Execute(*ecs.UpdateFrame) {}

type PositionVelocity struct {
	*Position
	*Velocity
}

type PositionOnly struct {
	*Position
}

// TestWorldScenario walks the Position/Velocity lifecycle end to end.
func TestWorldScenario(t *testing.T) {
	w := ecs.NewWorld(ecs.WithMaxEntities(16))
	posID, err := ecs.RegisterComponent[Position](w.Components())
	require.NoError(t, err)
	velID, err := ecs.RegisterComponent[Velocity](w.Components())
	require.NoError(t, err)
	assert.Equal(t, ecs.ComponentTypeID(0), posID)
	assert.Equal(t, ecs.ComponentTypeID(1), velID)

	a, err := w.CreateEntity()
	require.NoError(t, err)
	b, err := w.CreateEntity()
	require.NoError(t, err)
	assert.Equal(t, ecs.Entity(0), a)
	assert.Equal(t, ecs.Entity(1), b)

	_, err = ecs.AddComponent(w, a, Position{1, 2})
	require.NoError(t, err)
	_, err = ecs.AddComponent(w, a, Velocity{1, 0})
	require.NoError(t, err)
	_, err = ecs.AddComponent(w, b, Position{5, 5})
	require.NoError(t, err)

	sig, _ := w.Signature(a)
	assert.Equal(t, ecs.NewSignature(0, 1), sig)
	sig, _ = w.Signature(b)
	assert.Equal(t, ecs.NewSignature(0), sig)

	both, err := ecs.RegisterView[PositionVelocity](w)
	require.NoError(t, err)
	positions, err := ecs.RegisterView[PositionOnly](w)
	require.NoError(t, err)
	assert.Equal(t, []ecs.Entity{a}, slices.Collect(both.Entities()))
	assert.ElementsMatch(t, []ecs.Entity{a, b}, slices.Collect(positions.Entities()))

	require.NoError(t, ecs.RemoveComponent[Velocity](w, a))
	sig, _ = w.Signature(a)
	assert.Equal(t, ecs.NewSignature(0), sig)
	assert.Equal(t, 0, both.Len())
	assert.Equal(t, 2, positions.Len())

	require.NoError(t, w.DestroyEntity(b))
	assert.Equal(t, []ecs.Entity{a}, slices.Collect(positions.Entities()))
	store, _ := ecs.StoreOf[Position](w.Components())
	assert.Equal(t, 1, store.Len())
	pos, err := ecs.GetComponent[Position](w, a)
	require.NoError(t, err)
	assert.Equal(t, Position{1, 2}, *pos)

	c, err := w.CreateEntity()
	require.NoError(t, err)
	assert.Equal(t, ecs.Entity(2), c)
}

func TestWorldAddRemove(t *testing.T) {
	t.Run("duplicate add leaves state untouched", func(t *testing.T) {
		w := newTestWorld(t)
		e := spawn(t, w, with(Position{X: 1}))

		_, err := ecs.AddComponent(w, e, Position{X: 2})
		assert.ErrorIs(t, err, ecs.ErrComponentExists)
		pos, _ := ecs.GetComponent[Position](w, e)
		assert.Equal(t, float32(1), pos.X)
	})

	t.Run("remove missing", func(t *testing.T) {
		w := newTestWorld(t)
		e := spawn(t, w)
		err := ecs.RemoveComponent[Position](w, e)
		assert.ErrorIs(t, err, ecs.ErrComponentMissing)
		sig, _ := w.Signature(e)
		assert.True(t, sig.IsEmpty())
	})

	t.Run("dead and out of range entities", func(t *testing.T) {
		w := newTestWorld(t)
		e := spawn(t, w)
		require.NoError(t, w.DestroyEntity(e))

		_, err := ecs.AddComponent(w, e, Position{})
		assert.ErrorIs(t, err, ecs.ErrEntityNotAlive)
		_, err = ecs.GetComponent[Position](w, e)
		assert.ErrorIs(t, err, ecs.ErrEntityNotAlive)
		assert.ErrorIs(t, w.DestroyEntity(e), ecs.ErrEntityNotAlive)
		_, err = ecs.AddComponent(w, ecs.Entity(1000), Position{})
		assert.ErrorIs(t, err, ecs.ErrEntityOutOfRange)
		assert.False(t, ecs.HasComponent[Position](w, e))
	})

	t.Run("has component follows signature", func(t *testing.T) {
		w := newTestWorld(t)
		e := spawn(t, w, with(Health{Current: 1}))
		assert.True(t, ecs.HasComponent[Health](w, e))
		assert.False(t, ecs.HasComponent[Position](w, e))
		assert.False(t, ecs.HasComponent[struct{ Unregistered bool }](w, e))
	})

	t.Run("get or add", func(t *testing.T) {
		w := newTestWorld(t)
		e := spawn(t, w)

		hp, err := ecs.GetOrAddComponent(w, e, Health{Current: 10, Max: 10})
		require.NoError(t, err)
		hp.Current = 4

		again, err := ecs.GetOrAddComponent(w, e, Health{Current: 99})
		require.NoError(t, err)
		assert.Equal(t, 4, again.Current)
	})

	t.Run("copy component", func(t *testing.T) {
		w := newTestWorld(t)
		named, err := ecs.RegisterSystem(w, &RenderSystem{}, ecs.Require[Name]())
		require.NoError(t, err)
		src := spawn(t, w, with(Name{Value: "orc"}))
		dst := spawn(t, w)
		assert.Equal(t, []ecs.Entity{src}, slices.Collect(named.Entities()))

		copied, err := ecs.CopyComponent[Name](w, src, dst)
		require.NoError(t, err)
		assert.Equal(t, "orc", copied.Value)
		assert.True(t, ecs.HasComponent[Name](w, dst))
		assert.ElementsMatch(t, []ecs.Entity{src, dst}, slices.Collect(named.Entities()))

		_, err = ecs.CopyComponent[Name](w, src, dst)
		assert.ErrorIs(t, err, ecs.ErrComponentExists)
		_, err = ecs.CopyComponent[Health](w, src, dst)
		assert.ErrorIs(t, err, ecs.ErrComponentMissing)
	})

	t.Run("strict world refuses unregistered types", func(t *testing.T) {
		w := newTestWorld(t, ecs.WithStrictRegistration())
		e := spawn(t, w)
		_, err := ecs.AddComponent(w, e, struct{ Late int }{})
		assert.ErrorIs(t, err, ecs.ErrComponentNotRegistered)
		sig, _ := w.Signature(e)
		assert.True(t, sig.IsEmpty())
	})

	t.Run("lazy world registers on first add", func(t *testing.T) {
		w := ecs.NewWorld(ecs.WithMaxEntities(4))
		e := spawn(t, w, with(Tag("late")))
		assert.True(t, ecs.IsRegistered[Tag](w.Components()))
		assert.True(t, ecs.HasComponent[Tag](w, e))
	})

	t.Run("lazy world does not register on failed reads", func(t *testing.T) {
		type neverAdded struct{ N int }
		w := ecs.NewWorld(ecs.WithMaxEntities(4))
		src := spawn(t, w, with(Tag("src")))
		dst := spawn(t, w)
		before := w.Components().Len()

		assert.ErrorIs(t, ecs.RemoveComponent[neverAdded](w, src), ecs.ErrComponentMissing)
		_, err := ecs.GetComponent[neverAdded](w, src)
		assert.ErrorIs(t, err, ecs.ErrComponentMissing)
		_, err = ecs.CopyComponent[neverAdded](w, src, dst)
		assert.ErrorIs(t, err, ecs.ErrComponentMissing)

		assert.Equal(t, before, w.Components().Len())
		assert.False(t, ecs.IsRegistered[neverAdded](w.Components()))
		sig, _ := w.Signature(dst)
		assert.True(t, sig.IsEmpty())
	})

	t.Run("strict world reads of unregistered types report missing", func(t *testing.T) {
		w := newTestWorld(t, ecs.WithStrictRegistration())
		e := spawn(t, w)
		_, err := ecs.GetComponent[struct{ Late int }](w, e)
		assert.ErrorIs(t, err, ecs.ErrComponentMissing)
		assert.ErrorIs(t, ecs.RemoveComponent[struct{ Late int }](w, e), ecs.ErrComponentMissing)
	})

	t.Run("entity capacity", func(t *testing.T) {
		w := ecs.NewWorld(ecs.WithMaxEntities(2))
		_, _ = w.CreateEntity()
		_, _ = w.CreateEntity()
		_, err := w.CreateEntity()
		assert.ErrorIs(t, err, ecs.ErrEntityCapacityExhausted)
		assert.Equal(t, 2, w.Len())
		assert.Equal(t, 2, w.MaxEntities())
	})
}

func TestWorldDestroyCascade(t *testing.T) {
	w := newTestWorld(t)
	_, err := ecs.RegisterSystem(w, &MoveSystem{}, ecs.Require[Position](), ecs.Require[Velocity]())
	require.NoError(t, err)
	view, err := ecs.RegisterView[PositionOnly](w)
	require.NoError(t, err)

	e := spawn(t, w, with(Position{}), with(Velocity{}), with(Name{Value: "x"}))
	other := spawn(t, w, with(Position{X: 3}), with(Velocity{}))
	move, _ := ecs.GetSystem[*MoveSystem](w)
	assert.True(t, move.Contains(e))

	require.NoError(t, w.DestroyEntity(e))
	assert.False(t, w.IsAlive(e))
	assert.False(t, move.Contains(e))
	assert.False(t, view.Contains(e))
	for _, info := range w.Components().Types() {
		if info.Name == "ecs_test.Position" || info.Name == "ecs_test.Velocity" {
			assert.Equal(t, 1, w.Components().Count(info.ID), info.Name)
		} else {
			assert.Equal(t, 0, w.Components().Count(info.ID), info.Name)
		}
	}

	pos, err := ecs.GetComponent[Position](w, other)
	require.NoError(t, err)
	assert.Equal(t, float32(3), pos.X)

	// the recycled id starts with a clean signature and no group membership
	var recycled ecs.Entity
	for {
		recycled, err = w.CreateEntity()
		require.NoError(t, err)
		if recycled == e {
			break
		}
	}
	sig, _ := w.Signature(recycled)
	assert.True(t, sig.IsEmpty())
	assert.False(t, move.Contains(recycled))
	assert.False(t, ecs.HasComponent[Name](w, recycled))
}

// TestWorldGroupInvariant checks after every mutation that each group holds
// exactly the live entities whose signature contains its requirement.
func TestWorldGroupInvariant(t *testing.T) {
	w := newTestWorld(t)
	_, err := ecs.RegisterSystem(w, &MoveSystem{}, ecs.Require[Position](), ecs.Require[Velocity]())
	require.NoError(t, err)
	_, err = ecs.RegisterSystem(w, &RenderSystem{})
	require.NoError(t, err)
	both, err := ecs.RegisterView[PositionVelocity](w)
	require.NoError(t, err)
	positions, err := ecs.RegisterView[PositionOnly](w)
	require.NoError(t, err)

	move, _ := ecs.GetSystem[*MoveSystem](w)
	render, _ := ecs.GetSystem[*RenderSystem](w)
	posID, _ := ecs.ComponentID[Position](w.Components())
	velID, _ := ecs.ComponentID[Velocity](w.Components())

	check := func() {
		t.Helper()
		var wantMove, wantPos, wantAll []ecs.Entity
		for e := range w.Entities() {
			sig, err := w.Signature(e)
			require.NoError(t, err)
			wantAll = append(wantAll, e)
			if sig.Has(posID) {
				wantPos = append(wantPos, e)
				if sig.Has(velID) {
					wantMove = append(wantMove, e)
				}
			}
		}
		assert.ElementsMatch(t, wantMove, slices.Collect(move.Entities()))
		assert.ElementsMatch(t, wantMove, slices.Collect(both.Entities()))
		assert.ElementsMatch(t, wantPos, slices.Collect(positions.Entities()))
		assert.ElementsMatch(t, wantAll, slices.Collect(render.Entities()))
	}

	var live []ecs.Entity
	for step := 0; step < 300; step++ {
		switch step % 9 {
		case 0, 3:
			e, err := w.CreateEntity()
			if err == nil {
				live = append(live, e)
			}
		case 1, 5:
			if len(live) > 0 {
				_, _ = ecs.AddComponent(w, live[step%len(live)], Position{})
			}
		case 2:
			if len(live) > 0 {
				_, _ = ecs.AddComponent(w, live[(step/2)%len(live)], Velocity{})
			}
		case 4:
			if len(live) > 0 {
				_ = ecs.RemoveComponent[Position](w, live[(step/3)%len(live)])
			}
		case 6:
			if len(live) > 2 {
				i := (step / 5) % len(live)
				require.NoError(t, w.DestroyEntity(live[i]))
				live = slices.Delete(live, i, i+1)
			}
		case 7:
			if len(live) > 1 {
				from, to := live[step%len(live)], live[(step/7)%len(live)]
				_, _ = ecs.CopyComponent[Position](w, from, to)
			}
		case 8:
			e, err := both.Spawn(PositionVelocity{&Position{X: float32(step)}, &Velocity{}})
			if err == nil {
				live = append(live, e)
			}
		}
		check()
	}
}

func TestWorldRefs(t *testing.T) {
	w := ecs.NewWorld(ecs.WithMaxEntities(1))
	e, _ := w.CreateEntity()
	ref, err := w.Ref(e)
	require.NoError(t, err)

	got, ok := w.Resolve(ref)
	assert.True(t, ok)
	assert.Equal(t, e, got)

	require.NoError(t, w.DestroyEntity(e))
	_, ok = w.Resolve(ref)
	assert.False(t, ok)

	// same id, new generation
	again, _ := w.CreateEntity()
	assert.Equal(t, e, again)
	_, ok = w.Resolve(ref)
	assert.False(t, ok)

	_, err = w.Ref(ecs.Entity(5))
	assert.ErrorIs(t, err, ecs.ErrEntityOutOfRange)
}

func TestWorldComponentsOf(t *testing.T) {
	w := newTestWorld(t)
	e := spawn(t, w, with(Health{Current: 3}), with(Position{X: 1}))

	values, err := w.ComponentsOf(e)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "ecs_test.Position", values[0].Name)
	assert.Equal(t, &Position{X: 1}, values[0].Value)
	assert.Equal(t, "ecs_test.Health", values[1].Name)

	values[1].Value.(*Health).Current = 9
	hp, _ := ecs.GetComponent[Health](w, e)
	assert.Equal(t, 9, hp.Current)
}

func TestWorldRefreshGroups(t *testing.T) {
	w := newTestWorld(t)
	e := spawn(t, w, with(Position{}))
	view, err := ecs.RegisterView[PositionOnly](w)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Len())

	w.RefreshGroups()
	assert.Equal(t, []ecs.Entity{e}, slices.Collect(view.Entities()))
}

func TestWorldLogger(t *testing.T) {
	var buf bytes.Buffer
	w := ecs.NewWorld(ecs.WithMaxEntities(4), ecs.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	_, err := ecs.RegisterComponent[Position](w.Components())
	require.NoError(t, err)
	_, err = ecs.RegisterSystem(w, &RenderSystem{}, ecs.Require[Position]())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"message":"component registered"`)
	assert.Contains(t, buf.String(), `"component_name":"ecs_test.Position"`)
	assert.Contains(t, buf.String(), `"system":"RenderSystem"`)
}
