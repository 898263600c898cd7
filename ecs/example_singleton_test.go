package ecs_test

import (
	"fmt"

	"github.com/plus3/sparsecs/ecs"
)

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

type GameScore struct {
	Points int
	Level  int
}

// ExampleNewSingleton demonstrates creating and accessing singleton values.
// Singletons are global values not associated with any entity, useful for
// game state, configuration, or other application-wide data.
func ExampleNewSingleton() {
	w := ecs.NewWorld()

	// Create singleton with initializer
	config := ecs.NewSingleton(w, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})

	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	// Modify the singleton
	config.Get().Difficulty = "Hard"

	// Create another reference to the same singleton
	sameConfig := ecs.NewSingleton[GameConfig](w)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Same config: Hard difficulty
}

type ScoreSystem struct {
	ecs.SystemBase
	Score ecs.Singleton[GameScore]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	if score := s.Score.Get(); score != nil {
		score.Points += 10 * s.Len()
	}
}

// ExampleSingleton_system shows a Singleton field being bound during system
// registration. The value may be created after the system is registered.
func ExampleSingleton_system() {
	w := ecs.NewWorld()
	scheduler := ecs.NewScheduler(w)

	system, _ := ecs.RegisterSystem(w, &ScoreSystem{}, ecs.Require[PlayerController]())
	fmt.Println("Score exists:", system.Score.Exists())

	ecs.NewSingleton(w, GameScore{Level: 1})
	for i := 0; i < 2; i++ {
		e, _ := w.CreateEntity()
		ecs.AddComponent(w, e, PlayerController{})
	}

	scheduler.Once(1.0)
	fmt.Printf("Score: %d points, Level %d\n", system.Score.Get().Points, system.Score.Get().Level)

	// Output:
	// Score exists: false
	// Score: 20 points, Level 1
}
