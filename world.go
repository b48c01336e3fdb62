package server

import (
	"fmt"
	"math"
	"math/rand"

	"ai-village/server/internal/behavior"
	"ai-village/server/internal/directive"
)

// Object is the wire form of a piece of world scenery.
type Object struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// World holds the immutable scenery generated for a config. Agents and
// players live on the hub; the world only answers spatial queries about
// scenery.
type World struct {
	config  WorldConfig
	objects []behavior.Object
}

// NewWorld generates scenery deterministically from the config seed.
func NewWorld(cfg WorldConfig) *World {
	cfg = cfg.Normalized()
	w := &World{config: cfg}

	rng := newDeterministicRNG(cfg.Seed, "scenery")
	w.placeObjects(rng, behavior.ObjectKindTree, cfg.TreeCount, treeSize, treeSize)
	w.placeObjects(rng, behavior.ObjectKindRock, cfg.RockCount, rockSize, rockSize)
	w.placeObjects(rng, behavior.ObjectKindHouse, cfg.HouseCount, houseSize, houseSize)
	return w
}

func (w *World) placeObjects(rng *rand.Rand, kind string, count int, width, height float64) {
	for i := 0; i < count; i++ {
		w.objects = append(w.objects, behavior.Object{
			Kind: kind,
			Position: behavior.Vec2{
				X: randomDistance(rng, objectSpawnMargin, w.config.Width-objectSpawnMargin-width),
				Y: randomDistance(rng, objectSpawnMargin, w.config.Height-objectSpawnMargin-height),
			},
			Width:  width,
			Height: height,
		})
	}
}

// Config returns the normalized config the world was generated from.
func (w *World) Config() WorldConfig {
	return w.config
}

// Bounds reports the world extent in units.
func (w *World) Bounds() (float64, float64) {
	return w.config.Width, w.config.Height
}

// Objects returns the scenery in wire form for join payloads.
func (w *World) Objects() []Object {
	objects := make([]Object, 0, len(w.objects))
	for _, obj := range w.objects {
		objects = append(objects, Object{
			Kind:   obj.Kind,
			X:      obj.Position.X,
			Y:      obj.Position.Y,
			Width:  obj.Width,
			Height: obj.Height,
		})
	}
	return objects
}

// ObjectsNear returns scenery within radius of pos.
func (w *World) ObjectsNear(pos behavior.Vec2, radius float64) []behavior.Object {
	nearby := make([]behavior.Object, 0, len(w.objects))
	for _, obj := range w.objects {
		if vecDistance(pos, obj.Center()) <= radius {
			nearby = append(nearby, obj)
		}
	}
	return nearby
}

func vecDistance(a, b behavior.Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// spawnAgents creates the configured agent population at deterministic
// positions away from the world edge.
func (w *World) spawnAgents() []*behavior.Actor {
	rng := newDeterministicRNG(w.config.Seed, "agents")
	agents := make([]*behavior.Actor, 0,
		w.config.VillagerCount+w.config.GuardCount+w.config.MerchantCount)
	agents = w.appendAgents(agents, rng, directive.AgentTypeVillager, w.config.VillagerCount)
	agents = w.appendAgents(agents, rng, directive.AgentTypeGuard, w.config.GuardCount)
	agents = w.appendAgents(agents, rng, directive.AgentTypeMerchant, w.config.MerchantCount)
	return agents
}

func (w *World) appendAgents(agents []*behavior.Actor, rng *rand.Rand, agentType string, count int) []*behavior.Actor {
	for i := 0; i < count; i++ {
		agents = append(agents, &behavior.Actor{
			ID:   fmt.Sprintf("%s-%d", agentType, i+1),
			Type: agentType,
			Position: behavior.Vec2{
				X: randomDistance(rng, agentSpawnMargin, w.config.Width-agentSpawnMargin),
				Y: randomDistance(rng, agentSpawnMargin, w.config.Height-agentSpawnMargin),
			},
			Size:  agentSize,
			Speed: agentSpeed,
		})
	}
	return agents
}
