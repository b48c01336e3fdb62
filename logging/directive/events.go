package directive

import (
	"context"

	"ai-village/server/logging"
)

const (
	// EventRequestQueued is emitted when an agent submits a directive request.
	EventRequestQueued logging.EventType = "directive.request_queued"
	// EventRequestProcessed is emitted when the worker finishes a request and
	// caches its result.
	EventRequestProcessed logging.EventType = "directive.request_processed"
	// EventBackendFallback is emitted when the backend call failed and the
	// mock generator supplied the directive instead.
	EventBackendFallback logging.EventType = "directive.backend_fallback"
)

// RequestQueuedPayload captures queue state at submission time.
type RequestQueuedPayload struct {
	AgentType  string `json:"agentType"`
	QueueDepth int    `json:"queueDepth"`
}

// RequestQueued publishes a debug event for a newly submitted request.
func RequestQueued(ctx context.Context, pub logging.Publisher, agentID, traceID string, payload RequestQueuedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRequestQueued,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDirective,
		Payload:  payload,
		TraceID:  traceID,
	})
}

// RequestProcessedPayload records the directive produced for an agent.
type RequestProcessedPayload struct {
	Task           string `json:"task"`
	DurationMillis int64  `json:"durationMillis"`
	Fallback       bool   `json:"fallback"`
}

// RequestProcessed publishes the outcome of a completed directive request.
func RequestProcessed(ctx context.Context, pub logging.Publisher, agentID, traceID string, payload RequestProcessedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRequestProcessed,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDirective,
		Payload:  payload,
		TraceID:  traceID,
	})
}

// BackendFallbackPayload names the failure that forced the mock path.
type BackendFallbackPayload struct {
	Reason string `json:"reason"`
}

// BackendFallback publishes a warning when a backend call could not produce a
// directive and the mock generator was used instead.
func BackendFallback(ctx context.Context, pub logging.Publisher, agentID, traceID string, payload BackendFallbackPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBackendFallback,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindBackend},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryDirective,
		Payload:  payload,
		TraceID:  traceID,
	})
}
