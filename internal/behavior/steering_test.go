package behavior

import (
	"math"
	"testing"
)

func TestReachedTargetIsStrict(t *testing.T) {
	actor := &Actor{Speed: 3}
	actor.Steering.Target = &Vec2{X: 3, Y: 0}
	if actor.reachedTarget() {
		t.Fatalf("exactly one step away must not count as reached")
	}

	actor.Steering.Target = &Vec2{X: 2.9, Y: 0}
	if !actor.reachedTarget() {
		t.Fatalf("closer than one step must count as reached")
	}
}

func TestReachedTargetNilTarget(t *testing.T) {
	actor := &Actor{Speed: 3}
	if !actor.reachedTarget() {
		t.Fatalf("no target means nothing left to reach")
	}
}

func TestMoveTowardTargetStepsAtSpeed(t *testing.T) {
	actor := &Actor{Speed: 3}
	actor.Steering.Target = &Vec2{X: 30, Y: 40}

	actor.moveTowardTarget()

	moved := math.Hypot(actor.Position.X, actor.Position.Y)
	if math.Abs(moved-3) > 1e-9 {
		t.Fatalf("expected step of 3 units, moved %f", moved)
	}
	// The step stays on the line toward the target.
	if math.Abs(actor.Position.Y/actor.Position.X-40.0/30.0) > 1e-9 {
		t.Fatalf("step left the pursuit line: %+v", actor.Position)
	}
}

func TestMoveTowardTargetNoTarget(t *testing.T) {
	actor := &Actor{Speed: 3, Position: Vec2{X: 5, Y: 5}}
	actor.moveTowardTarget()
	if actor.Position.X != 5 || actor.Position.Y != 5 {
		t.Fatalf("moved without a target: %+v", actor.Position)
	}
}

func TestArrivalWithinOneStep(t *testing.T) {
	actor := &Actor{Speed: 3}
	actor.Steering.Target = &Vec2{X: 4, Y: 0}

	actor.moveTowardTarget()
	if !actor.reachedTarget() {
		t.Fatalf("one unit short of the target should read as arrived")
	}
}
