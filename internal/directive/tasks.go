package directive

// TaskIdle is the universal do-nothing directive and the terminal fallback of
// every directive-producing path.
const TaskIdle = "idle"

// AgentTypeVillager is the default agent type when a queried type is not
// recognized.
const (
	AgentTypeVillager = "villager"
	AgentTypeGuard    = "guard"
	AgentTypeMerchant = "merchant"
)

// universalTasks are available to every agent type.
var universalTasks = []string{
	"patrol",
	"follow_player",
	"guard_position",
	"wander",
	TaskIdle,
	"greet_nearby",
}

// extensionTasks extends the universal set per agent type.
var extensionTasks = map[string][]string{
	AgentTypeVillager: {"tend_crops", "rest_at_home", "talk_to_others"},
	AgentTypeGuard:    {"inspect_surroundings"},
	AgentTypeMerchant: {"sell_wares", "manage_inventory"},
}

// UniversalTasks returns a copy of the task set shared by all agent types.
func UniversalTasks() []string {
	out := make([]string, len(universalTasks))
	copy(out, universalTasks)
	return out
}

// TasksForType returns the candidate task pool for an agent type: the
// universal set plus the type-specific extension. Unrecognized types fall
// back to the villager extension.
func TasksForType(agentType string) []string {
	extension, ok := extensionTasks[agentType]
	if !ok {
		extension = extensionTasks[AgentTypeVillager]
	}
	out := make([]string, 0, len(universalTasks)+len(extension))
	out = append(out, universalTasks...)
	out = append(out, extension...)
	return out
}
