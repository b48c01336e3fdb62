package directive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultModel       = openai.ChatModelGPT4oMini
	defaultMaxTokens   = 100
	defaultTemperature = 0.7
	defaultTimeout     = 10 * time.Second

	taskToolName = "set_agent_task"
)

// Mode identifies the capability a client was constructed with. The decision
// is made exactly once; there is no per-request credential retry.
type Mode string

const (
	ModeBackend  Mode = "backend"
	ModeMockOnly Mode = "mock-only"
)

// Client produces a directive for a query. Implementations surface transport
// failures as plain errors; the dispatcher owns the fallback path.
type Client interface {
	RequestDirective(ctx context.Context, query Query) (Result, error)
	Mode() Mode
}

// BackendConfig configures the real backend client.
type BackendConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
}

func (cfg BackendConfig) withDefaults() BackendConfig {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// NewClient selects the backend-capable client when an API key is configured
// and the mock-only client otherwise.
func NewClient(cfg BackendConfig, mock *MockGenerator) Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewMockOnlyClient(mock)
	}
	return NewBackendClient(cfg)
}

// BackendClient wraps the chat-completion transport: prompt construction,
// the request itself, and handoff of the response to the parser.
type BackendClient struct {
	client openai.Client
	cfg    BackendConfig
}

func NewBackendClient(cfg BackendConfig) *BackendClient {
	cfg = cfg.withDefaults()
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &BackendClient{client: openai.NewClient(opts...), cfg: cfg}
}

func (c *BackendClient) Mode() Mode { return ModeBackend }

// RequestDirective sends one bounded completion request and interprets the
// response. Both response protocols are handled: a set_agent_task tool call,
// and free-form text expected to contain a JSON object with new_task.
func (c *BackendClient) RequestDirective(ctx context.Context, query Query) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params, err := taskToolParameters(query.AgentType)
	if err != nil {
		return Result{}, fmt.Errorf("build tool schema: %w", err)
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(query.AgentType)),
			openai.UserMessage(buildUserMessage(query)),
		},
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
		Temperature: openai.Float(c.cfg.Temperature),
		Tools: []openai.ChatCompletionToolParam{{
			Function: openai.FunctionDefinitionParam{
				Name:        taskToolName,
				Description: openai.String("Assign the agent its next task."),
				Parameters:  openai.FunctionParameters(params),
			},
		}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("backend completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Result{}, errors.New("backend returned no choices")
	}

	message := completion.Choices[0].Message
	for _, call := range message.ToolCalls {
		if call.Function.Name != taskToolName {
			continue
		}
		if task, ok := decodeTaskCall(call.Function.Arguments); ok {
			return Result{Task: task}, nil
		}
	}
	return Parse(message.Content), nil
}

// decodeTaskCall interprets structured tool-call arguments. The task
// identifier has its underscores replaced with spaces and is joined with the
// optional description as "task: description".
func decodeTaskCall(arguments string) (string, bool) {
	var args taskToolArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", false
	}
	task := strings.TrimSpace(args.Task)
	if task == "" {
		return "", false
	}
	label := strings.ReplaceAll(task, "_", " ")
	if desc := strings.TrimSpace(args.TaskDescription); desc != "" {
		return label + ": " + desc, true
	}
	return label, true
}

// MockOnlyClient stands in for the backend when credentials are absent.
// Every request is served by the mock generator for the process lifetime.
type MockOnlyClient struct {
	generator *MockGenerator
}

func NewMockOnlyClient(gen *MockGenerator) *MockOnlyClient {
	return &MockOnlyClient{generator: gen}
}

func (c *MockOnlyClient) Mode() Mode { return ModeMockOnly }

func (c *MockOnlyClient) RequestDirective(_ context.Context, query Query) (Result, error) {
	if c.generator == nil {
		return Result{Task: TaskIdle}, nil
	}
	return c.generator.Generate(query), nil
}
