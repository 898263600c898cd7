package ecs_test

import (
	"fmt"

	"github.com/plus3/sparsecs/ecs"
)

type FollowerAI struct {
	Leader ecs.EntityRef
}

// ExampleEntityRef demonstrates holding on to an entity across id recycling.
// A plain Entity may be reissued to a different entity after DestroyEntity;
// an EntityRef stops resolving instead.
func ExampleEntityRef() {
	w := ecs.NewWorld(ecs.WithMaxEntities(1))

	target, _ := w.CreateEntity()
	ecs.AddComponent(w, target, Position{X: 100, Y: 100})
	targetRef, _ := w.Ref(target)

	if e, ok := w.Resolve(targetRef); ok {
		pos, _ := ecs.GetComponent[Position](w, e)
		fmt.Printf("Target at (%.0f, %.0f)\n", pos.X, pos.Y)
	}

	w.DestroyEntity(target)
	replacement, _ := w.CreateEntity()
	_, ok := w.Resolve(targetRef)
	fmt.Printf("Id reused: %v, ref valid: %v\n", replacement == target, ok)

	// Output:
	// Target at (100, 100)
	// Id reused: true, ref valid: false
}

// ExampleEntityRef_relationshipComponent shows EntityRefs inside components to
// link entities together.
func ExampleEntityRef_relationshipComponent() {
	w := ecs.NewWorld()

	leader, _ := w.CreateEntity()
	ecs.AddComponent(w, leader, Position{X: 50, Y: 50})
	leaderRef, _ := w.Ref(leader)

	follower, _ := w.CreateEntity()
	ecs.AddComponent(w, follower, Position{X: 0, Y: 0})
	ecs.AddComponent(w, follower, FollowerAI{Leader: leaderRef})

	follow := func() {
		ai, _ := ecs.GetComponent[FollowerAI](w, follower)
		e, ok := w.Resolve(ai.Leader)
		if !ok {
			fmt.Println("Leader is gone")
			return
		}
		target, _ := ecs.GetComponent[Position](w, e)
		fmt.Printf("Following leader to (%.0f, %.0f)\n", target.X, target.Y)
	}

	follow()
	w.DestroyEntity(leader)
	follow()

	// Output:
	// Following leader to (50, 50)
	// Leader is gone
}
