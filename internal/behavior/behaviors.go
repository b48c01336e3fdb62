package behavior

import "math"

const (
	followDistance       = 50.0
	guardJitterChance    = 0.02
	guardJitterRange     = 10.0
	wanderRetargetChance = 0.02
	cropJitter           = 20.0
	inspectJitter        = 30.0
	sellJitter           = 50.0
	greetApproachRadius  = 100.0
	greetMinDistance     = 60.0
	inventoryMargin      = 100.0
)

func (a *Actor) execute(kind Kind, env Env) {
	switch kind {
	case KindPatrol:
		a.patrol(env)
	case KindFollowPlayer:
		a.followPlayer(env)
	case KindGuardPosition:
		a.guardPosition(env)
	case KindTendCrops:
		a.tendCrops(env)
	case KindRestAtHome:
		a.restAtHome(env)
	case KindTalkToOthers:
		a.talkToOthers(env)
	case KindInspectSurroundings:
		a.inspectSurroundings(env)
	case KindSellWares:
		a.sellWares(env)
	case KindManageInventory:
		a.manageInventory(env)
	case KindGreetNearby:
		a.greetNearby(env)
	case KindIdle:
		// stand in place
	default:
		a.wander(env)
	}
}

// patrol walks between random points, retargeting on arrival.
func (a *Actor) patrol(env Env) {
	if a.Steering.Target == nil || a.reachedTarget() {
		a.Steering.Target = a.randomPointInBounds(env)
	}
	a.moveTowardTarget()
}

// followPlayer keeps some distance from the player by steering toward an
// offset point at a fresh random angle every invocation.
func (a *Actor) followPlayer(env Env) {
	if env.Player == nil {
		a.wander(env)
		return
	}
	p := env.Player.Position()
	angle := env.randFloat() * 2 * math.Pi
	a.Steering.Target = &Vec2{
		X: p.X + followDistance*math.Cos(angle),
		Y: p.Y + followDistance*math.Sin(angle),
	}
	a.moveTowardTarget()
}

// guardPosition mostly stands still, occasionally shifting a few units.
func (a *Actor) guardPosition(env Env) {
	if env.randFloat() < guardJitterChance {
		a.Steering.Target = &Vec2{
			X: a.Position.X + env.randRange(-guardJitterRange, guardJitterRange),
			Y: a.Position.Y + env.randRange(-guardJitterRange, guardJitterRange),
		}
		a.moveTowardTarget()
	}
}

// wander roams to random points, changing direction occasionally.
func (a *Actor) wander(env Env) {
	if env.randFloat() < wanderRetargetChance || a.Steering.Target == nil || a.reachedTarget() {
		a.Steering.Target = a.randomPointInBounds(env)
	}
	a.moveTowardTarget()
}

// tendCrops heads to a spot near a randomly chosen tree.
func (a *Actor) tendCrops(env Env) {
	a.seek(env, a.objectPoints(env, ObjectKindTree, false), cropJitter)
}

// restAtHome heads inside a randomly chosen house.
func (a *Actor) restAtHome(env Env) {
	a.seek(env, a.objectPoints(env, ObjectKindHouse, true), 0)
}

// talkToOthers approaches another agent.
func (a *Actor) talkToOthers(env Env) {
	a.seek(env, a.agentPoints(env), 0)
}

// inspectSurroundings visits points of interest: scenery and other agents.
func (a *Actor) inspectSurroundings(env Env) {
	points := a.objectPoints(env, "", false)
	points = append(points, a.agentPoints(env)...)
	a.seek(env, points, inspectJitter)
}

// sellWares sets up near houses or other agents where customers gather.
func (a *Actor) sellWares(env Env) {
	points := a.objectPoints(env, ObjectKindHouse, false)
	points = append(points, a.agentPoints(env)...)
	a.seek(env, points, sellJitter)
}

// manageInventory picks one stationary spot, walks there, then stays put.
func (a *Actor) manageInventory(env Env) {
	if a.Steering.Target == nil {
		width, height := a.worldBounds(env)
		a.Steering.Target = &Vec2{
			X: env.randRange(inventoryMargin, width-inventoryMargin),
			Y: env.randRange(inventoryMargin, height-inventoryMargin),
		}
	}
	if !a.reachedTarget() {
		a.moveTowardTarget()
	}
}

// greetNearby turns toward the player when close, without crowding them;
// otherwise it defers to talking with other agents.
func (a *Actor) greetNearby(env Env) {
	if env.Player != nil {
		p := env.Player.Position()
		d := distance(a.Position, p)
		if d < greetApproachRadius {
			a.Steering.Target = &Vec2{X: p.X, Y: p.Y}
			if d > greetMinDistance {
				a.moveTowardTarget()
			}
			return
		}
	}
	a.talkToOthers(env)
}

// seek retargets toward a randomly chosen candidate point (with positional
// jitter) only when there is no target or the current one was reached, then
// steers toward whatever target is active.
func (a *Actor) seek(env Env, points []Vec2, jitter float64) {
	if len(points) > 0 && (a.Steering.Target == nil || a.reachedTarget()) {
		p := points[env.randIntn(len(points))]
		a.Steering.Target = &Vec2{
			X: p.X + env.randRange(-jitter, jitter),
			Y: p.Y + env.randRange(-jitter, jitter),
		}
	}
	a.moveTowardTarget()
}

func (a *Actor) randomPointInBounds(env Env) *Vec2 {
	width, height := a.worldBounds(env)
	return &Vec2{
		X: env.randFloat() * (width - a.Size),
		Y: env.randFloat() * (height - a.Size),
	}
}

func (a *Actor) worldBounds(env Env) (float64, float64) {
	if env.World == nil {
		return defaultWorldExtent, defaultWorldExtent
	}
	return env.World.Bounds()
}

// objectPoints collects candidate points for scenery of the given kind, or
// all scenery when kind is empty. Centered objects yield their midpoint.
func (a *Actor) objectPoints(env Env, kind string, centered bool) []Vec2 {
	if env.World == nil {
		return nil
	}
	width, height := env.World.Bounds()
	objects := env.World.ObjectsNear(a.Position, width+height)
	points := make([]Vec2, 0, len(objects))
	for _, obj := range objects {
		if kind != "" && obj.Kind != kind {
			continue
		}
		if centered {
			points = append(points, obj.Center())
		} else {
			points = append(points, obj.Position)
		}
	}
	return points
}

// agentPoints collects the positions of every other agent.
func (a *Actor) agentPoints(env Env) []Vec2 {
	if env.World == nil {
		return nil
	}
	width, height := env.World.Bounds()
	agents := env.World.AgentsNear(a.Position, width+height)
	points := make([]Vec2, 0, len(agents))
	for _, other := range agents {
		if other.ID == a.ID {
			continue
		}
		points = append(points, other.Position)
	}
	return points
}
