package behavior

import "strings"

// Kind enumerates the executable behaviors a directive can resolve to.
type Kind uint8

const (
	KindWander Kind = iota
	KindPatrol
	KindFollowPlayer
	KindGuardPosition
	KindTendCrops
	KindRestAtHome
	KindTalkToOthers
	KindInspectSurroundings
	KindSellWares
	KindManageInventory
	KindGreetNearby
	KindIdle
)

func (k Kind) String() string {
	switch k {
	case KindWander:
		return "wander"
	case KindPatrol:
		return "patrol"
	case KindFollowPlayer:
		return "follow_player"
	case KindGuardPosition:
		return "guard_position"
	case KindTendCrops:
		return "tend_crops"
	case KindRestAtHome:
		return "rest_at_home"
	case KindTalkToOthers:
		return "talk_to_others"
	case KindInspectSurroundings:
		return "inspect_surroundings"
	case KindSellWares:
		return "sell_wares"
	case KindManageInventory:
		return "manage_inventory"
	case KindGreetNearby:
		return "greet_nearby"
	case KindIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// rule pairs a predicate with the behavior it selects. The table is evaluated
// in order; the first matching rule wins.
type rule struct {
	name  string
	kind  Kind
	match func(label, agentType string) bool
}

func identifier(id string) func(string, string) bool {
	return func(label, _ string) bool {
		return strings.Contains(label, id)
	}
}

func anyWord(words ...string) func(string, string) bool {
	return func(label, _ string) bool {
		return containsAny(label, words)
	}
}

func typedAnyWord(agentType string, words ...string) func(string, string) bool {
	return func(label, actual string) bool {
		return actual == agentType && containsAny(label, words)
	}
}

func containsAny(label string, words []string) bool {
	for _, word := range words {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}

// dispatchTable resolves directive labels to behaviors. Function-style
// identifiers come first so canonical directives from the structured backend
// path win; keyword rules handle free natural language from the text-parsing
// and mock paths. Type-gated rules keep type-specific verbs from triggering
// on the wrong agent.
var dispatchTable = []rule{
	{name: "follow_player", kind: KindFollowPlayer, match: identifier("follow_player")},
	{name: "guard_position", kind: KindGuardPosition, match: identifier("guard_position")},
	{name: "tend_crops", kind: KindTendCrops, match: identifier("tend_crops")},
	{name: "rest_at_home", kind: KindRestAtHome, match: identifier("rest_at_home")},
	{name: "talk_to_others", kind: KindTalkToOthers, match: identifier("talk_to_others")},
	{name: "inspect_surroundings", kind: KindInspectSurroundings, match: identifier("inspect_surroundings")},
	{name: "sell_wares", kind: KindSellWares, match: identifier("sell_wares")},
	{name: "manage_inventory", kind: KindManageInventory, match: identifier("manage_inventory")},
	{name: "greet_nearby", kind: KindGreetNearby, match: identifier("greet_nearby")},
	{name: "patrol", kind: KindPatrol, match: anyWord("patrol")},
	{name: "follow player", kind: KindFollowPlayer, match: func(label, _ string) bool {
		return containsAny(label, []string{"follow", "approach", "chase"}) && strings.Contains(label, "player")
	}},
	{name: "guard", kind: KindGuardPosition, match: anyWord("guard", "protect", "watch", "stand")},
	{name: "wander", kind: KindWander, match: anyWord("wander", "explore", "roam", "walk")},
	{name: "tend crops", kind: KindTendCrops, match: typedAnyWord("villager", "farm", "crops", "tend", "harvest")},
	{name: "rest at home", kind: KindRestAtHome, match: typedAnyWord("villager", "rest", "sleep", "home")},
	{name: "talk to others", kind: KindTalkToOthers, match: typedAnyWord("villager", "talk", "chat", "gossip")},
	{name: "inspect", kind: KindInspectSurroundings, match: typedAnyWord("guard", "inspect", "investigate")},
	{name: "sell wares", kind: KindSellWares, match: typedAnyWord("merchant", "sell", "trade", "market")},
	{name: "manage inventory", kind: KindManageInventory, match: typedAnyWord("merchant", "restock", "inventory", "goods", "arrange")},
	{name: "greet", kind: KindGreetNearby, match: anyWord("greet", "wave", "welcome")},
	{name: "idle", kind: KindIdle, match: anyWord("idle", "wait")},
}

// Resolve interprets a directive string for an agent type. An optional
// "label: description" suffix is stripped before matching. The second return
// reports whether any rule matched; unmatched directives default to
// wandering.
func Resolve(task, agentType string) (Kind, bool) {
	label := strings.ToLower(strings.TrimSpace(task))
	if idx := strings.Index(label, ":"); idx >= 0 {
		label = strings.TrimSpace(label[:idx])
	}
	for _, r := range dispatchTable {
		if r.match(label, agentType) {
			return r.kind, true
		}
	}
	return KindWander, false
}
