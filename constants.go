package server

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	tickRate          = 60    // ticks per second
	playerMoveSpeed   = 300.0 // units per second
	worldWidth        = 2000.0
	worldHeight       = 2000.0
	playerHalf        = 14.0
	defaultSpawnX     = worldWidth / 2
	defaultSpawnY     = worldHeight / 2
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	defaultTreeCount  = 20
	defaultRockCount  = 10
	defaultHouseCount = 5
	treeSize          = 32.0
	rockSize          = 24.0
	houseSize         = 64.0
	objectSpawnMargin = 50.0

	defaultVillagerCount = 3
	defaultGuardCount    = 1
	defaultMerchantCount = 1
	agentSize            = 32.0
	agentSpeed           = 3.0 // units per tick
	agentSpawnMargin     = 200.0
)

// TickRate reports the simulation cadence in ticks per second.
func TickRate() int { return tickRate }

// HeartbeatInterval reports the cadence clients are expected to ping at.
func HeartbeatInterval() time.Duration { return heartbeatInterval }
