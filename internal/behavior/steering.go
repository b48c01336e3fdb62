package behavior

import "math"

// moveTowardTarget advances one step of Speed along the unit vector toward
// the active target. No-op without a target.
func (a *Actor) moveTowardTarget() {
	target := a.Steering.Target
	if target == nil {
		return
	}
	dx := target.X - a.Position.X
	dy := target.Y - a.Position.Y
	dist := math.Hypot(dx, dy)
	if dist > 0 {
		a.Position.X += dx / dist * a.Speed
		a.Position.Y += dy / dist * a.Speed
	}
}

// reachedTarget reports approximate arrival: strictly less than one step of
// movement remaining. An agent exactly Speed units away has not arrived.
func (a *Actor) reachedTarget() bool {
	target := a.Steering.Target
	if target == nil {
		return true
	}
	return distance(a.Position, *target) < a.Speed
}
