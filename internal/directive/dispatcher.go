package directive

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-village/server/logging"
	logdirective "ai-village/server/logging/directive"
)

const (
	// workerPollInterval bounds how quickly the worker observes shutdown
	// while the queue is empty.
	workerPollInterval = 25 * time.Millisecond
	// defaultRequestSpacing rate-limits backend calls between processed
	// items.
	defaultRequestSpacing = 100 * time.Millisecond
)

// pendingRequest is owned by the queue from Submit until the worker has
// invoked its callback.
type pendingRequest struct {
	agentID  string
	query    Query
	callback Callback
	traceID  string
}

// Dispatcher decouples directive submission from completion. A single
// background worker processes requests in FIFO order, one at a time, bounding
// concurrent backend load to one in-flight call. Results are cached per agent
// until the owning agent consumes them.
type Dispatcher struct {
	client  Client
	mock    *MockGenerator
	pub     logging.Publisher
	spacing time.Duration

	mu    sync.Mutex
	queue []pendingRequest
	cache map[string]Result

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

type DispatcherConfig struct {
	Client         Client
	Mock           *MockGenerator
	Publisher      logging.Publisher
	RequestSpacing time.Duration
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	mock := cfg.Mock
	if mock == nil {
		mock = NewMockGenerator(nil)
	}
	client := cfg.Client
	if client == nil {
		client = NewMockOnlyClient(mock)
	}
	pub := cfg.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	spacing := cfg.RequestSpacing
	if spacing <= 0 {
		spacing = defaultRequestSpacing
	}
	return &Dispatcher{
		client:  client,
		mock:    mock,
		pub:     pub,
		spacing: spacing,
		cache:   make(map[string]Result),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Client exposes the configured client, letting callers report its mode.
func (d *Dispatcher) Client() Client {
	return d.client
}

// Submit enqueues a request. It never blocks and always succeeds; the
// background worker is started on first use.
func (d *Dispatcher) Submit(agentID string, query Query, callback Callback) {
	req := pendingRequest{
		agentID:  agentID,
		query:    query,
		callback: callback,
		traceID:  uuid.NewString(),
	}

	d.mu.Lock()
	d.queue = append(d.queue, req)
	depth := len(d.queue)
	d.mu.Unlock()

	logdirective.RequestQueued(context.Background(), d.pub, agentID, req.traceID, logdirective.RequestQueuedPayload{
		AgentType:  query.AgentType,
		QueueDepth: depth,
	})

	d.startOnce.Do(func() { go d.run() })
}

// TryGetCached performs a non-blocking read of the agent's cached result.
func (d *Dispatcher) TryGetCached(agentID string) (Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, ok := d.cache[agentID]
	return res, ok
}

// ClearCached removes the agent's cache entry; no-op when absent.
func (d *Dispatcher) ClearCached(agentID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.cache, agentID)
}

// QueueDepth reports how many requests are waiting for the worker.
func (d *Dispatcher) QueueDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Shutdown signals the worker to stop after finishing the item it is
// processing, then waits up to timeout for it to exit. Queued items that were
// never dequeued are discarded.
func (d *Dispatcher) Shutdown(timeout time.Duration) error {
	d.stopOnce.Do(func() { close(d.stop) })
	d.startOnce.Do(func() { close(d.done) })

	select {
	case <-d.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("directive dispatcher: worker did not stop within %s", timeout)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		default:
		}

		req, ok := d.next()
		if !ok {
			select {
			case <-d.stop:
				return
			case <-time.After(workerPollInterval):
			}
			continue
		}

		d.process(req)

		select {
		case <-d.stop:
			return
		case <-time.After(d.spacing):
		}
	}
}

func (d *Dispatcher) next() (pendingRequest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return pendingRequest{}, false
	}
	req := d.queue[0]
	d.queue = d.queue[1:]
	return req, true
}

// process resolves one request. A request never propagates a hard failure:
// any backend error or empty directive falls back to the mock generator.
func (d *Dispatcher) process(req pendingRequest) {
	ctx := context.Background()
	start := time.Now()

	res, err := d.client.RequestDirective(ctx, req.query)
	fallback := false
	if err != nil || strings.TrimSpace(res.Task) == "" {
		fallback = true
		reason := "empty directive"
		if err != nil {
			reason = err.Error()
		}
		logdirective.BackendFallback(ctx, d.pub, req.agentID, req.traceID, logdirective.BackendFallbackPayload{
			Reason: reason,
		})
		res = d.mock.Generate(req.query)
	}
	if strings.TrimSpace(res.Task) == "" {
		res.Task = TaskIdle
	}

	d.mu.Lock()
	d.cache[req.agentID] = res
	d.mu.Unlock()

	if req.callback != nil {
		req.callback(res)
	}

	logdirective.RequestProcessed(ctx, d.pub, req.agentID, req.traceID, logdirective.RequestProcessedPayload{
		Task:           res.Task,
		DurationMillis: time.Since(start).Milliseconds(),
		Fallback:       fallback,
	})
}
