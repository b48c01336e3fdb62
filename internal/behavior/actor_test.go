package behavior

import (
	"strings"
	"testing"
	"time"

	"ai-village/server/internal/directive"
)

// fakeDirectives records submissions and serves canned cached results.
type fakeDirectives struct {
	submitted []directive.Query
	cached    map[string]directive.Result
}

func newFakeDirectives() *fakeDirectives {
	return &fakeDirectives{cached: make(map[string]directive.Result)}
}

func (f *fakeDirectives) Submit(agentID string, query directive.Query, callback directive.Callback) {
	f.submitted = append(f.submitted, query)
}

func (f *fakeDirectives) TryGetCached(agentID string) (directive.Result, bool) {
	res, ok := f.cached[agentID]
	return res, ok
}

func (f *fakeDirectives) ClearCached(agentID string) {
	delete(f.cached, agentID)
}

func TestActorRequestsDirectiveWhenDue(t *testing.T) {
	actor := testActor()
	directives := newFakeDirectives()
	env := testEnv(1, &stubWorld{})
	env.Directives = directives

	actor.Update(env)

	if !actor.Directive.Waiting {
		t.Fatalf("actor should be waiting after submitting")
	}
	if len(directives.submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(directives.submitted))
	}
	query := directives.submitted[0]
	if query.AgentID != actor.ID || query.AgentType != actor.Type {
		t.Fatalf("query identity mismatch: %+v", query)
	}
	if query.PlayerInteraction != "none" {
		t.Fatalf("no player present, got interaction %q", query.PlayerInteraction)
	}
}

func TestActorDoesNotStackRequests(t *testing.T) {
	actor := testActor()
	directives := newFakeDirectives()
	env := testEnv(2, &stubWorld{})
	env.Directives = directives

	for i := 0; i < 5; i++ {
		actor.Update(env)
		env.Now = env.Now.Add(time.Minute)
	}

	if len(directives.submitted) != 1 {
		t.Fatalf("waiting actor submitted %d times", len(directives.submitted))
	}
}

func TestActorHonorsUpdateInterval(t *testing.T) {
	actor := testActor()
	actor.Directive.LastUpdate = time.Now()
	directives := newFakeDirectives()
	env := testEnv(3, &stubWorld{})
	env.Directives = directives
	env.Now = actor.Directive.LastUpdate.Add(time.Second)

	actor.Update(env)
	if len(directives.submitted) != 0 {
		t.Fatalf("request issued before the interval elapsed")
	}

	env.Now = actor.Directive.LastUpdate.Add(DefaultUpdateInterval)
	actor.Update(env)
	if len(directives.submitted) != 1 {
		t.Fatalf("request not issued once the interval elapsed")
	}
}

func TestActorAdoptsCachedResult(t *testing.T) {
	actor := testActor()
	actor.Directive.CurrentTask = "wander"
	actor.Directive.Waiting = true
	actor.Steering.Target = &Vec2{X: 1, Y: 1}

	directives := newFakeDirectives()
	directives.cached[actor.ID] = directive.Result{Task: "patrol"}
	env := testEnv(4, &stubWorld{})
	env.Directives = directives

	actor.Update(env)

	if actor.Directive.CurrentTask != "patrol" {
		t.Fatalf("expected patrol, got %q", actor.Directive.CurrentTask)
	}
	if actor.Directive.LastCompletedTask != "wander" {
		t.Fatalf("previous task not recorded: %q", actor.Directive.LastCompletedTask)
	}
	if actor.Directive.Waiting {
		t.Fatalf("adoption should clear the waiting flag")
	}
	if actor.Directive.LastUpdate != env.Now {
		t.Fatalf("adoption should restart the update timer")
	}
	if _, ok := directives.cached[actor.ID]; ok {
		t.Fatalf("cached result not consumed")
	}
}

func TestActorKeepsWaitingWithoutResult(t *testing.T) {
	actor := testActor()
	actor.Directive.Waiting = true
	directives := newFakeDirectives()
	env := testEnv(5, &stubWorld{})
	env.Directives = directives

	actor.Update(env)

	if !actor.Directive.Waiting {
		t.Fatalf("waiting flag dropped without a result")
	}
	if len(directives.submitted) != 0 {
		t.Fatalf("waiting actor must not resubmit")
	}
}

func TestActorProximityTags(t *testing.T) {
	cases := []struct {
		dx   float64
		want string
	}{
		{40, "player very close"},
		{80, "player nearby"},
		{150, "player visible"},
		{400, "none"},
	}
	for _, tc := range cases {
		actor := testActor()
		env := testEnv(6, &stubWorld{})
		env.Player = &stubPlayer{pos: Vec2{X: actor.Position.X + tc.dx, Y: actor.Position.Y}}
		if got := actor.playerInteraction(env); got != tc.want {
			t.Fatalf("distance %f: got %q, want %q", tc.dx, got, tc.want)
		}
	}
}

func TestActorEnvironmentSummary(t *testing.T) {
	actor := testActor()
	world := &stubWorld{
		objects: []Object{
			{Kind: ObjectKindTree, Position: Vec2{X: actor.Position.X + 20, Y: actor.Position.Y}, Width: 32, Height: 32},
			{Kind: ObjectKindTree, Position: Vec2{X: actor.Position.X - 40, Y: actor.Position.Y}, Width: 32, Height: 32},
			{Kind: ObjectKindRock, Position: Vec2{X: actor.Position.X, Y: actor.Position.Y + 900}, Width: 24, Height: 24},
		},
		agents: []AgentInfo{
			{ID: actor.ID, Position: actor.Position},
			{ID: "g-1", Position: Vec2{X: actor.Position.X + 50, Y: actor.Position.Y}},
		},
	}
	env := testEnv(7, world)

	summary := actor.environmentSummary(env)

	if !strings.Contains(summary, "position: (1000, 1000)") {
		t.Fatalf("missing position in %q", summary)
	}
	if !strings.Contains(summary, "2 tree") {
		t.Fatalf("missing tree count in %q", summary)
	}
	if strings.Contains(summary, "rock") {
		t.Fatalf("distant rock leaked into %q", summary)
	}
	if !strings.Contains(summary, "g-1") {
		t.Fatalf("missing nearby agent in %q", summary)
	}
	if strings.Contains(summary, actor.ID) {
		t.Fatalf("summary lists the actor itself: %q", summary)
	}
}

func TestActorStateTag(t *testing.T) {
	actor := testActor()
	if got := actor.stateTag(); got != "idle" {
		t.Fatalf("no target should read idle, got %q", got)
	}
	actor.Steering.Target = &Vec2{X: actor.Position.X + 100, Y: actor.Position.Y}
	if got := actor.stateTag(); got != "moving" {
		t.Fatalf("distant target should read moving, got %q", got)
	}
}
