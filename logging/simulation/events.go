package simulation

import (
	"context"

	"ai-village/server/logging"
)

const (
	// EventTaskAdopted is emitted when an agent consumes a cached directive
	// and makes it the current task.
	EventTaskAdopted logging.EventType = "simulation.task_adopted"
	// EventBehaviorDefaulted is emitted when a directive label matched no
	// dispatch rule and the agent fell back to wandering.
	EventBehaviorDefaulted logging.EventType = "simulation.behavior_defaulted"
)

// TaskAdoptedPayload records the task transition for an agent.
type TaskAdoptedPayload struct {
	Task         string `json:"task"`
	PreviousTask string `json:"previousTask,omitempty"`
}

// TaskAdopted publishes the adoption of a new directive by an agent.
func TaskAdopted(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload TaskAdoptedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTaskAdopted,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

// BehaviorDefaultedPayload names the unmatched directive label.
type BehaviorDefaultedPayload struct {
	Task string `json:"task"`
}

// BehaviorDefaulted publishes a debug event when task interpretation falls
// through to the wander default.
func BehaviorDefaulted(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload BehaviorDefaultedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBehaviorDefaulted,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}
