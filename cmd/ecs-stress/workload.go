package main

import (
	"math/rand"

	"github.com/plus3/sparsecs/ecs"
)

type Position struct{ X, Y float64 }

type Velocity struct{ DX, DY float64 }

type Lifetime struct{ Remaining float64 }

type Energy struct{ Value float64 }

type Mass struct{ Value float64 }

type Faction struct{ ID int }

type Target struct{ Ref ecs.EntityRef }

type Bounds struct{ W, H float64 }

type movers struct {
	*Position
	*Velocity
}

type hunters struct {
	*Position
	*Target
}

// MovementSystem integrates velocity and wraps positions inside Bounds.
type MovementSystem struct {
	ecs.SystemBase
	Movers ecs.Query[movers]
	Bounds ecs.Singleton[Bounds]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	b := s.Bounds.Get()
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.DX * frame.DeltaTime
		m.Position.Y += m.Velocity.DY * frame.DeltaTime
		if b != nil {
			m.Position.X = wrap(m.Position.X, b.W)
			m.Position.Y = wrap(m.Position.Y, b.H)
		}
	}
}

func wrap(v, limit float64) float64 {
	for v < 0 {
		v += limit
	}
	for v >= limit {
		v -= limit
	}
	return v
}

// LifetimeSystem destroys entities whose lifetime ran out.
type LifetimeSystem struct {
	ecs.SystemBase
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities() {
		life, _ := ecs.GetComponent[Lifetime](frame.World, e)
		life.Remaining -= frame.DeltaTime
		if life.Remaining <= 0 {
			frame.Commands.Destroy(e)
		}
	}
}

// EnergySystem drains energy and strips the Velocity of exhausted entities.
type EnergySystem struct {
	ecs.SystemBase
}

func (s *EnergySystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities() {
		energy, _ := ecs.GetComponent[Energy](frame.World, e)
		energy.Value -= frame.DeltaTime
		if energy.Value <= 0 && ecs.HasComponent[Velocity](frame.World, e) {
			ecs.QueueRemoveComponent[Velocity](frame.Commands, e)
		}
	}
}

// HunterSystem steers hunters towards their target and retargets when the
// target is gone.
type HunterSystem struct {
	ecs.SystemBase
	Hunters ecs.Query[hunters]
	rng     *rand.Rand
}

func (s *HunterSystem) Execute(frame *ecs.UpdateFrame) {
	w := frame.World
	for e, h := range s.Hunters.Iter() {
		target, ok := w.Resolve(h.Target.Ref)
		if !ok {
			if ref, err := w.Ref(randomLive(w, s.rng)); err == nil {
				h.Target.Ref = ref
			}
			continue
		}
		pos, err := ecs.GetComponent[Position](w, target)
		if err != nil {
			continue
		}
		if !ecs.HasComponent[Velocity](w, e) {
			ecs.QueueAddComponent(frame.Commands, e, Velocity{})
			continue
		}
		vel, _ := ecs.GetComponent[Velocity](w, e)
		vel.DX = (pos.X - h.Position.X) * 0.1
		vel.DY = (pos.Y - h.Position.Y) * 0.1
	}
}

// randomLive picks a live entity by walking a random distance into the live
// set. It returns 0 for an empty world.
func randomLive(w *ecs.World, rng *rand.Rand) ecs.Entity {
	if w.Len() == 0 {
		return 0
	}
	skip := rng.Intn(w.Len())
	for e := range w.Entities() {
		if skip == 0 {
			return e
		}
		skip--
	}
	return 0
}

// SpawnerSystem tops the population back up to target through Commands.
type SpawnerSystem struct {
	ecs.SystemBase
	target int
	rng    *rand.Rand
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	missing := s.target - frame.World.Len()
	for range missing {
		seed := s.rng.Int63()
		frame.Commands.Spawn(func(w *ecs.World, e ecs.Entity) error {
			return populate(w, e, rand.New(rand.NewSource(seed)))
		})
	}
}

// populate attaches a random mix of components to e.
func populate(w *ecs.World, e ecs.Entity, rng *rand.Rand) error {
	if _, err := ecs.AddComponent(w, e, Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}); err != nil {
		return err
	}
	if rng.Intn(2) == 0 {
		if _, err := ecs.AddComponent(w, e, Velocity{DX: rng.NormFloat64(), DY: rng.NormFloat64()}); err != nil {
			return err
		}
	}
	if rng.Intn(3) == 0 {
		if _, err := ecs.AddComponent(w, e, Lifetime{Remaining: rng.Float64() * 2}); err != nil {
			return err
		}
	}
	if rng.Intn(3) == 0 {
		if _, err := ecs.AddComponent(w, e, Energy{Value: rng.Float64()}); err != nil {
			return err
		}
	}
	if rng.Intn(4) == 0 {
		if _, err := ecs.AddComponent(w, e, Mass{Value: 1 + rng.Float64()}); err != nil {
			return err
		}
	}
	if rng.Intn(8) == 0 {
		if _, err := ecs.AddComponent(w, e, Faction{ID: rng.Intn(4)}); err != nil {
			return err
		}
	}
	if rng.Intn(10) == 0 {
		if _, err := ecs.AddComponent(w, e, Target{Ref: ecs.EntityRef{Entity: e}}); err != nil {
			return err
		}
	}
	return nil
}

// Workload wires the stress components and systems into a World.
type Workload struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
}

// RegisterComponents registers every stress component type up front.
func RegisterComponents(r *ecs.ComponentRegistry) error {
	for _, register := range []func(*ecs.ComponentRegistry) (ecs.ComponentTypeID, error){
		ecs.RegisterComponent[Position],
		ecs.RegisterComponent[Velocity],
		ecs.RegisterComponent[Lifetime],
		ecs.RegisterComponent[Energy],
		ecs.RegisterComponent[Mass],
		ecs.RegisterComponent[Faction],
		ecs.RegisterComponent[Target],
	} {
		if _, err := register(r); err != nil {
			return err
		}
	}
	return nil
}

// NewWorkload builds a World holding entities live entities and the systems
// that keep churning them.
func NewWorkload(w *ecs.World, entities int, seed int64) (*Workload, error) {
	rng := rand.New(rand.NewSource(seed))
	if err := RegisterComponents(w.Components()); err != nil {
		return nil, err
	}
	ecs.NewSingleton(w, Bounds{W: 1000, H: 1000})

	if _, err := ecs.RegisterSystem(w, &MovementSystem{}); err != nil {
		return nil, err
	}
	if _, err := ecs.RegisterSystem(w, &LifetimeSystem{}, ecs.Require[Lifetime]()); err != nil {
		return nil, err
	}
	if _, err := ecs.RegisterSystem(w, &EnergySystem{}, ecs.Require[Energy]()); err != nil {
		return nil, err
	}
	if _, err := ecs.RegisterSystem(w, &HunterSystem{rng: rng}); err != nil {
		return nil, err
	}
	if _, err := ecs.RegisterSystem(w, &SpawnerSystem{target: entities, rng: rng}); err != nil {
		return nil, err
	}

	for range entities {
		e, err := w.CreateEntity()
		if err != nil {
			return nil, err
		}
		if err := populate(w, e, rng); err != nil {
			return nil, err
		}
	}
	return &Workload{World: w, Scheduler: ecs.NewScheduler(w)}, nil
}
