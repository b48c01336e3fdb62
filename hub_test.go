package server

import (
	"math/rand"
	"testing"
	"time"

	"ai-village/server/internal/directive"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	mock := directive.NewMockGenerator(rand.New(rand.NewSource(42))).WithLatency(0)
	dispatcher := directive.NewDispatcher(directive.DispatcherConfig{
		Client:         directive.NewMockOnlyClient(mock),
		Mock:           mock,
		RequestSpacing: time.Millisecond,
	})
	t.Cleanup(func() {
		if err := dispatcher.Shutdown(2 * time.Second); err != nil {
			t.Errorf("dispatcher shutdown: %v", err)
		}
	})

	cfg := DefaultHubConfig()
	cfg.Directives = dispatcher
	return NewHub(cfg)
}

func TestHubJoinReturnsWorldSnapshot(t *testing.T) {
	hub := newTestHub(t)

	join := hub.Join()
	if join.Ver != ProtocolVersion {
		t.Fatalf("unexpected protocol version %d", join.Ver)
	}
	if join.ID != "player-1" {
		t.Fatalf("unexpected player id %q", join.ID)
	}
	if len(join.Players) != 1 {
		t.Fatalf("expected one player, got %d", len(join.Players))
	}
	if len(join.Agents) != defaultVillagerCount+defaultGuardCount+defaultMerchantCount {
		t.Fatalf("unexpected agent count %d", len(join.Agents))
	}
	if len(join.Objects) != defaultTreeCount+defaultRockCount+defaultHouseCount {
		t.Fatalf("unexpected object count %d", len(join.Objects))
	}

	second := hub.Join()
	if second.ID != "player-2" {
		t.Fatalf("ids should be sequential, got %q", second.ID)
	}
}

func TestHubUpdateIntentNormalizes(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	if !hub.UpdateIntent(join.ID, 3, 4) {
		t.Fatalf("intent rejected for joined player")
	}

	hub.mu.Lock()
	state := hub.players[join.ID]
	ix, iy := state.intentX, state.intentY
	hub.mu.Unlock()

	if ix != 0.6 || iy != 0.8 {
		t.Fatalf("intent not normalized: (%f, %f)", ix, iy)
	}

	if hub.UpdateIntent("player-99", 1, 0) {
		t.Fatalf("intent accepted for unknown player")
	}
}

func TestHubAdvanceMovesPlayerAndTicks(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()
	hub.UpdateIntent(join.ID, 1, 0)

	now := time.Now()
	players, agents, toClose := hub.advance(now, 1.0/float64(tickRate))
	if len(toClose) != 0 {
		t.Fatalf("unexpected disconnects")
	}
	if len(players) != 1 || len(agents) == 0 {
		t.Fatalf("snapshot missing entities")
	}

	var moved Player
	for _, p := range players {
		if p.ID == join.ID {
			moved = p
		}
	}
	wantX := defaultSpawnX + playerMoveSpeed/float64(tickRate)
	if moved.X <= defaultSpawnX || moved.X > wantX+1e-6 {
		t.Fatalf("player did not move as intended: %f", moved.X)
	}

	hub.mu.Lock()
	tick := hub.tick
	hub.mu.Unlock()
	if tick != 1 {
		t.Fatalf("tick counter is %d", tick)
	}
}

func TestHubAdvanceMarksAgentsWaiting(t *testing.T) {
	hub := newTestHub(t)

	_, agents, _ := hub.advance(time.Now(), 1.0/float64(tickRate))
	for _, agent := range agents {
		if !agent.Waiting {
			t.Fatalf("agent %s not waiting after its first due update", agent.ID)
		}
	}
}

func TestHubAgentAdoptsDispatcherResult(t *testing.T) {
	hub := newTestHub(t)

	now := time.Now()
	hub.advance(now, 1.0/float64(tickRate))

	// Give the worker time to process every queued request.
	deadline := time.Now().Add(2 * time.Second)
	for hub.directives.QueueDepth() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	_, agents, _ := hub.advance(now.Add(time.Second), 1.0/float64(tickRate))
	for _, agent := range agents {
		if agent.Waiting {
			t.Fatalf("agent %s still waiting after results were cached", agent.ID)
		}
		if agent.Task == "" {
			t.Fatalf("agent %s adopted empty task", agent.ID)
		}
	}
}

func TestHubHeartbeatTimeoutRemovesPlayer(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	hub.mu.Lock()
	hub.players[join.ID].lastHeartbeat = time.Now().Add(-2 * disconnectAfter)
	hub.mu.Unlock()

	players, _, _ := hub.advance(time.Now(), 1.0/float64(tickRate))
	if len(players) != 0 {
		t.Fatalf("timed-out player survived: %v", players)
	}
}

func TestHubDisconnectUnknownPlayer(t *testing.T) {
	hub := newTestHub(t)
	players, agents := hub.Disconnect("player-404")
	if players != nil || agents != nil {
		t.Fatalf("expected nil snapshots for unknown player")
	}
}

func TestHubDiagnosticsSnapshot(t *testing.T) {
	hub := newTestHub(t)
	hub.Join()

	report := hub.DiagnosticsSnapshot()
	if len(report.Players) != 1 {
		t.Fatalf("expected one player in report, got %d", len(report.Players))
	}
	if len(report.Agents) != defaultVillagerCount+defaultGuardCount+defaultMerchantCount {
		t.Fatalf("unexpected agent count %d", len(report.Agents))
	}
	if report.DirectiveMode != string(directive.ModeMockOnly) {
		t.Fatalf("unexpected directive mode %q", report.DirectiveMode)
	}
}

func TestHubHeartbeatUpdatesRTT(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	receivedAt := time.Now()
	rtt, ok := hub.UpdateHeartbeat(join.ID, receivedAt, receivedAt.Add(-30*time.Millisecond).UnixMilli())
	if !ok {
		t.Fatalf("heartbeat rejected for joined player")
	}
	if rtt <= 0 {
		t.Fatalf("expected positive rtt, got %v", rtt)
	}

	if _, ok := hub.UpdateHeartbeat("player-404", receivedAt, 0); ok {
		t.Fatalf("heartbeat accepted for unknown player")
	}
}
