package directive

import (
	"fmt"
	"strings"
)

// buildSystemPrompt describes the assignment rules and the task catalog for
// the queried agent type: one universal set plus the type-specific
// extensions.
func buildSystemPrompt(agentType string) string {
	extension, ok := extensionTasks[agentType]
	if !ok {
		agentType = AgentTypeVillager
		extension = extensionTasks[AgentTypeVillager]
	}

	var b strings.Builder
	b.WriteString("You are an AI controlling agents in a village simulation. ")
	b.WriteString("Your job is to give each agent an appropriate task based on its current state and environment.\n\n")
	b.WriteString("Universal tasks available to every agent: ")
	b.WriteString(strings.Join(universalTasks, ", "))
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Additional tasks available to %s agents: %s.\n\n", agentType, strings.Join(extension, ", "))
	b.WriteString("Prefer calling the set_agent_task function with one of the listed task identifiers. ")
	b.WriteString("If you respond with text instead, it MUST be a valid JSON object with ONLY a 'new_task' field, for example: {\"new_task\": \"patrol\"}. ")
	b.WriteString("Do not include explanations, markdown formatting, or backticks.")
	return b.String()
}

// buildUserMessage renders the per-request context from the query snapshot.
func buildUserMessage(query Query) string {
	lastCompleted := query.LastCompletedTask
	if lastCompleted == "" {
		lastCompleted = "none"
	}

	var b strings.Builder
	b.WriteString("Agent state:\n")
	fmt.Fprintf(&b, "- ID: %s\n", query.AgentID)
	fmt.Fprintf(&b, "- Type: %s\n", query.AgentType)
	fmt.Fprintf(&b, "- Current task: %s\n", query.CurrentTask)
	fmt.Fprintf(&b, "- Last completed task: %s\n", lastCompleted)
	fmt.Fprintf(&b, "- Current state: %s\n", query.CurrentState)
	fmt.Fprintf(&b, "- Environment: %s\n", query.Environment)
	fmt.Fprintf(&b, "- Player interaction: %s\n\n", query.PlayerInteraction)
	b.WriteString("Based on this information, what should the agent do next?")
	return b.String()
}
