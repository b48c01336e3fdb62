package directive

// Query is an immutable snapshot of an agent's situation, built fresh for
// every directive request and never mutated after submission.
type Query struct {
	AgentID           string
	AgentType         string
	CurrentTask       string
	LastCompletedTask string
	CurrentState      string
	Environment       string
	PlayerInteraction string
}

// Result carries the directive produced for an agent. Task is always
// non-empty; TaskIdle is the canonical empty/unknown directive.
type Result struct {
	Task string `json:"task"`
}

// Callback is invoked by the dispatcher's worker once a request completes.
// It runs on the worker goroutine.
type Callback func(Result)
