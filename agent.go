package server

import "ai-village/server/internal/behavior"

// Agent is the wire form of a simulated agent.
type Agent struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Task    string  `json:"task"`
	Waiting bool    `json:"waiting,omitempty"`
}

func agentSnapshot(actor *behavior.Actor) Agent {
	return Agent{
		ID:      actor.ID,
		Type:    actor.Type,
		X:       actor.Position.X,
		Y:       actor.Position.Y,
		Task:    actor.Directive.CurrentTask,
		Waiting: actor.Directive.Waiting,
	}
}
