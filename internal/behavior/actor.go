package behavior

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ai-village/server/internal/directive"
	"ai-village/server/logging"
	logsim "ai-village/server/logging/simulation"
)

const (
	// DefaultUpdateInterval is the cadence at which an agent requests a new
	// directive when none is configured.
	DefaultUpdateInterval = 10 * time.Second

	// environmentRadius bounds which objects and agents appear in the
	// environment summary sent with a directive query.
	environmentRadius = 100.0

	playerVeryCloseRadius = 50.0
	playerNearbyRadius    = 100.0
	playerVisibleRadius   = 200.0

	defaultWorldExtent = 2000.0
)

// Actor is a simulated agent: its identity, physical state, and the two
// state blocks the update loop mutates.
type Actor struct {
	ID       string
	Type     string
	Position Vec2
	Size     float64
	Speed    float64

	Directive DirectiveState
	Steering  SteeringState
}

// Env carries the per-tick surroundings an actor updates against. The
// simulation owner fills it once per tick and passes it to every actor.
type Env struct {
	Now            time.Time
	Tick           uint64
	World          World
	Player         PlayerRef
	Directives     DirectiveService
	RNG            *rand.Rand
	Publisher      logging.Publisher
	UpdateInterval time.Duration
}

func (e Env) randFloat() float64 {
	if e.RNG != nil {
		return e.RNG.Float64()
	}
	return rand.Float64()
}

func (e Env) randIntn(n int) int {
	if e.RNG != nil {
		return e.RNG.Intn(n)
	}
	return rand.Intn(n)
}

func (e Env) randRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + e.randFloat()*(max-min)
}

func (e Env) pub() logging.Publisher {
	if e.Publisher != nil {
		return e.Publisher
	}
	return logging.NopPublisher()
}

func (e Env) interval() time.Duration {
	if e.UpdateInterval > 0 {
		return e.UpdateInterval
	}
	return DefaultUpdateInterval
}

// Update advances the actor one tick: adopt a completed directive if one is
// cached, request a fresh one when due, then execute the current behavior.
func (a *Actor) Update(env Env) {
	if a.Directive.Waiting {
		a.adoptIfReady(env)
	} else if env.Now.Sub(a.Directive.LastUpdate) >= env.interval() {
		a.requestDirective(env)
	}
	kind, _ := Resolve(a.Directive.CurrentTask, a.Type)
	a.execute(kind, env)
}

// adoptIfReady consumes a cached directive result, if any. Adoption clears
// the cache entry so the result is observed exactly once, resets steering so
// the new behavior picks its own target, and restarts the update timer.
func (a *Actor) adoptIfReady(env Env) {
	if env.Directives == nil {
		a.Directive.Waiting = false
		return
	}
	res, ok := env.Directives.TryGetCached(a.ID)
	if !ok {
		return
	}
	env.Directives.ClearCached(a.ID)

	previous := a.Directive.CurrentTask
	a.Directive.LastCompletedTask = previous
	a.Directive.CurrentTask = res.Task
	a.Directive.Waiting = false
	a.Directive.LastUpdate = env.Now
	a.Steering.Target = nil

	logsim.TaskAdopted(context.Background(), env.pub(), env.Tick, a.ID, logsim.TaskAdoptedPayload{
		Task:         res.Task,
		PreviousTask: previous,
	})
	if _, matched := Resolve(res.Task, a.Type); !matched {
		logsim.BehaviorDefaulted(context.Background(), env.pub(), env.Tick, a.ID, logsim.BehaviorDefaultedPayload{
			Task: res.Task,
		})
	}
}

// requestDirective submits an asynchronous directive query and marks the
// actor waiting so no further request is issued until this one resolves.
func (a *Actor) requestDirective(env Env) {
	if env.Directives == nil {
		a.Directive.LastUpdate = env.Now
		return
	}
	env.Directives.Submit(a.ID, a.buildQuery(env), nil)
	a.Directive.Waiting = true
}

func (a *Actor) buildQuery(env Env) directive.Query {
	return directive.Query{
		AgentID:           a.ID,
		AgentType:         a.Type,
		CurrentTask:       a.Directive.CurrentTask,
		LastCompletedTask: a.Directive.LastCompletedTask,
		CurrentState:      a.stateTag(),
		Environment:       a.environmentSummary(env),
		PlayerInteraction: a.playerInteraction(env),
	}
}

// stateTag reports whether the actor is in transit or standing still.
func (a *Actor) stateTag() string {
	if a.Steering.Target != nil && !a.reachedTarget() {
		return "moving"
	}
	return "idle"
}

// environmentSummary describes the actor's position and nearby entities in
// the compact prose form directive prompts expect.
func (a *Actor) environmentSummary(env Env) string {
	var b strings.Builder
	fmt.Fprintf(&b, "position: (%.0f, %.0f)", a.Position.X, a.Position.Y)
	if env.World == nil {
		return b.String()
	}

	objects := env.World.ObjectsNear(a.Position, environmentRadius)
	if len(objects) > 0 {
		counts := make(map[string]int)
		order := make([]string, 0, len(objects))
		for _, obj := range objects {
			if counts[obj.Kind] == 0 {
				order = append(order, obj.Kind)
			}
			counts[obj.Kind]++
		}
		parts := make([]string, 0, len(order))
		for _, kind := range order {
			parts = append(parts, fmt.Sprintf("%d %s", counts[kind], kind))
		}
		fmt.Fprintf(&b, ", nearby objects: %s", strings.Join(parts, ", "))
	}

	names := make([]string, 0, 4)
	for _, other := range env.World.AgentsNear(a.Position, environmentRadius) {
		if other.ID == a.ID {
			continue
		}
		names = append(names, other.ID)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, ", nearby agents: %s", strings.Join(names, ", "))
	}
	return b.String()
}

// playerInteraction tags the player's proximity in the coarse bands the
// directive backend reasons about.
func (a *Actor) playerInteraction(env Env) string {
	if env.Player == nil {
		return "none"
	}
	d := distance(a.Position, env.Player.Position())
	switch {
	case d < playerVeryCloseRadius:
		return "player very close"
	case d < playerNearbyRadius:
		return "player nearby"
	case d < playerVisibleRadius:
		return "player visible"
	default:
		return "none"
	}
}
