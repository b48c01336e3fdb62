package directive

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	defaultMockLatency = 200 * time.Millisecond
	proximityBoost     = 3
)

// MockGenerator produces plausible directives offline. It is the universal
// fallback whenever the backend is unavailable or fails, and the sole source
// of directives for the mock-only client.
type MockGenerator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
}

// NewMockGenerator constructs a generator. A nil rng seeds one from the
// clock.
func NewMockGenerator(rng *rand.Rand) *MockGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockGenerator{rng: rng, latency: defaultMockLatency}
}

// WithLatency overrides the simulated backend delay. Zero disables it.
func (g *MockGenerator) WithLatency(d time.Duration) *MockGenerator {
	g.latency = d
	return g
}

// Generate picks a task for the queried agent. The result is never empty and
// never repeats the exact current task while at least two candidates remain.
func (g *MockGenerator) Generate(query Query) Result {
	if g.latency > 0 {
		time.Sleep(g.latency)
	}

	pool := TasksForType(query.AgentType)
	if playerIsClose(query.PlayerInteraction) {
		for i := 0; i < proximityBoost; i++ {
			pool = append(pool, "follow_player", "greet_nearby")
		}
	}

	pool = withoutCurrentFamily(pool, query.CurrentTask)
	if len(pool) == 0 {
		pool = UniversalTasks()
	}

	g.mu.Lock()
	pick := pool[g.rng.Intn(len(pool))]
	g.mu.Unlock()
	return Result{Task: pick}
}

func playerIsClose(tag string) bool {
	return strings.Contains(tag, "nearby") || strings.Contains(tag, "very close")
}

// withoutCurrentFamily removes the exact current task (while more than one
// candidate remains) and any candidate sharing the current task's first
// whitespace-delimited token.
func withoutCurrentFamily(pool []string, current string) []string {
	current = strings.TrimSpace(current)
	if current == "" {
		return pool
	}

	filtered := pool
	if len(pool) > 1 && containsTask(pool, current) {
		filtered = make([]string, 0, len(pool)-1)
		for _, task := range pool {
			if task != current {
				filtered = append(filtered, task)
			}
		}
	}

	family := firstToken(current)
	if family == "" {
		return filtered
	}
	out := make([]string, 0, len(filtered))
	for _, task := range filtered {
		if firstToken(task) == family {
			continue
		}
		out = append(out, task)
	}
	return out
}

func containsTask(pool []string, task string) bool {
	for _, candidate := range pool {
		if candidate == task {
			return true
		}
	}
	return false
}

func firstToken(task string) string {
	fields := strings.Fields(task)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
