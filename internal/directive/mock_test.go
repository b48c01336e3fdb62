package directive

import (
	"math/rand"
	"testing"
)

func newTestMock(seed int64) *MockGenerator {
	return NewMockGenerator(rand.New(rand.NewSource(seed))).WithLatency(0)
}

func containsString(pool []string, task string) bool {
	for _, candidate := range pool {
		if candidate == task {
			return true
		}
	}
	return false
}

func TestMockGeneratorNeverEmpty(t *testing.T) {
	gen := newTestMock(1)
	for _, agentType := range []string{AgentTypeVillager, AgentTypeGuard, AgentTypeMerchant, "unknown"} {
		for i := 0; i < 50; i++ {
			res := gen.Generate(Query{AgentID: "a-1", AgentType: agentType})
			if res.Task == "" {
				t.Fatalf("empty task for type %q", agentType)
			}
		}
	}
}

func TestMockGeneratorStaysInTypePool(t *testing.T) {
	gen := newTestMock(2)
	pool := TasksForType(AgentTypeGuard)
	for i := 0; i < 100; i++ {
		res := gen.Generate(Query{AgentID: "g-1", AgentType: AgentTypeGuard})
		if !containsString(pool, res.Task) {
			t.Fatalf("task %q not in guard pool", res.Task)
		}
	}
}

func TestMockGeneratorUnknownTypeUsesVillagerPool(t *testing.T) {
	gen := newTestMock(3)
	pool := TasksForType(AgentTypeVillager)
	for i := 0; i < 100; i++ {
		res := gen.Generate(Query{AgentID: "x-1", AgentType: "blacksmith"})
		if !containsString(pool, res.Task) {
			t.Fatalf("task %q not in villager pool", res.Task)
		}
	}
}

func TestMockGeneratorAvoidsRepeatingCurrentTask(t *testing.T) {
	gen := newTestMock(4)
	for i := 0; i < 100; i++ {
		res := gen.Generate(Query{AgentID: "v-1", AgentType: AgentTypeVillager, CurrentTask: "patrol"})
		if res.Task == "patrol" {
			t.Fatalf("repeated current task on iteration %d", i)
		}
	}
}

func TestMockGeneratorBoostsSocialTasksNearPlayer(t *testing.T) {
	gen := newTestMock(5)
	social := 0
	const draws = 200
	for i := 0; i < draws; i++ {
		res := gen.Generate(Query{AgentID: "v-1", AgentType: AgentTypeVillager, PlayerInteraction: "player very close"})
		if res.Task == "follow_player" || res.Task == "greet_nearby" {
			social++
		}
	}
	// With the proximity boost the two social tasks hold 8 of 15 slots; an
	// unboosted pool would give them 2 of 9.
	if social < draws/4 {
		t.Fatalf("expected boosted social picks, got %d of %d", social, draws)
	}
}
