package behavior

import (
	"math"
	"time"

	"ai-village/server/internal/directive"
)

// Vec2 is a 2D position or offset in world units.
type Vec2 struct {
	X float64
	Y float64
}

// ObjectKind names the scenery categories behaviors care about.
const (
	ObjectKindTree  = "tree"
	ObjectKindRock  = "rock"
	ObjectKindHouse = "house"
)

// Object is a piece of world scenery visible to agents.
type Object struct {
	Kind     string
	Position Vec2
	Width    float64
	Height   float64
}

// Center returns the object's midpoint.
func (o Object) Center() Vec2 {
	return Vec2{X: o.Position.X + o.Width/2, Y: o.Position.Y + o.Height/2}
}

// AgentInfo is the read-only view of another agent used for environment
// summaries and interaction targets.
type AgentInfo struct {
	ID       string
	Type     string
	Position Vec2
}

// World exposes the spatial queries behaviors and query building need. The
// world implementation lives outside this package.
type World interface {
	ObjectsNear(pos Vec2, radius float64) []Object
	AgentsNear(pos Vec2, radius float64) []AgentInfo
	Bounds() (width, height float64)
}

// PlayerRef exposes the player's position. A nil PlayerRef means no player is
// present.
type PlayerRef interface {
	Position() Vec2
}

// DirectiveService is the dispatcher surface consumed on the per-tick hot
// path. None of these operations may block.
type DirectiveService interface {
	Submit(agentID string, query directive.Query, callback directive.Callback)
	TryGetCached(agentID string) (directive.Result, bool)
	ClearCached(agentID string)
}

// DirectiveState tracks the per-agent request lifecycle. Waiting is set true
// exactly when a request is submitted and cleared exactly when its result is
// consumed, so at most one request per agent is ever outstanding.
type DirectiveState struct {
	CurrentTask       string
	LastCompletedTask string
	Waiting           bool
	LastUpdate        time.Time
}

// SteeringState tracks movement toward the active target. A nil target means
// the agent has nowhere to go.
type SteeringState struct {
	Target *Vec2
}

func distance(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
