package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/sparsecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	ecs.SystemBase
	Movers ecs.Query[PositionVelocity]

	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Movers.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type HealthSystem struct {
	ecs.SystemBase
	ExecuteCount int
	TotalHealth  float64
	order        *[]string
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for e := range s.Entities() {
		hp, _ := ecs.GetComponent[Health](frame.World, e)
		s.TotalHealth += float64(hp.Current)
	}
	if s.order != nil {
		*s.order = append(*s.order, "health")
	}
}

type orderSystem struct {
	ecs.SystemBase
	name  string
	order *[]string
}

func (s *orderSystem) Execute(*ecs.UpdateFrame) {
	*s.order = append(*s.order, s.name)
}

func TestScheduler(t *testing.T) {
	t.Run("system execution and query initialization", func(t *testing.T) {
		w := newTestWorld(t)
		scheduler := ecs.NewScheduler(w)

		movement, err := ecs.RegisterSystem(w, &MovementSystem{})
		require.NoError(t, err)
		health, err := ecs.RegisterSystem(w, &HealthSystem{}, ecs.Require[Health]())
		require.NoError(t, err)

		mover := spawn(t, w, with(Position{X: 0, Y: 0}), with(Velocity{DX: 1, DY: 2}))
		spawn(t, w, with(Health{Current: 100, Max: 100}))

		require.NoError(t, scheduler.Once(0.5))
		require.NoError(t, scheduler.Once(0.5))

		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
		assert.Equal(t, float64(100), health.TotalHealth)

		pos, _ := ecs.GetComponent[Position](w, mover)
		assert.Equal(t, Position{X: 1, Y: 2}, *pos)
	})

	t.Run("systems run in registration order", func(t *testing.T) {
		w := newTestWorld(t)
		var order []string
		_, _ = ecs.RegisterSystem(w, &orderSystem{name: "first", order: &order})
		_, _ = ecs.RegisterSystem(w, &HealthSystem{order: &order})

		require.NoError(t, ecs.NewScheduler(w).Once(0))
		assert.Equal(t, []string{"first", "health"}, order)
	})

	t.Run("run until cancelled", func(t *testing.T) {
		w := newTestWorld(t)
		scheduler := ecs.NewScheduler(w)
		movement, _ := ecs.RegisterSystem(w, &MovementSystem{})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		scheduler.Run(ctx, 5*time.Millisecond)

		assert.Greater(t, movement.ExecuteCount, 0)
	})
}

func TestSchedulerStats(t *testing.T) {
	w := newTestWorld(t)
	scheduler := ecs.NewScheduler(w)

	stats := scheduler.GetStats()
	assert.Equal(t, 0, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)

	_, _ = ecs.RegisterSystem(w, &MovementSystem{})
	_, _ = ecs.RegisterSystem(w, &HealthSystem{})
	for i := 0; i < 3; i++ {
		require.NoError(t, scheduler.Once(0.016))
	}

	stats = scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "HealthSystem", stats.Systems[1].Name)
	for _, sys := range stats.Systems {
		assert.Equal(t, int64(3), sys.ExecutionCount)
		assert.LessOrEqual(t, sys.MinDuration, sys.MaxDuration)
		assert.Equal(t, sys.TotalDuration/3, sys.AvgDuration)
	}
}
