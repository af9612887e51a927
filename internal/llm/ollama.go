package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"
)

// OllamaChatModel adapts the Ollama /api/chat endpoint to an eino chat model.
type OllamaChatModel struct {
	client *api.Client
	model  string
}

var _ model.ChatModel = (*OllamaChatModel)(nil)

// NewOllamaChatModel creates a model bound to the runtime at baseURL.
// A zero timeout leaves the HTTP client without a deadline.
func NewOllamaChatModel(baseURL, modelName string, timeout time.Duration) (*OllamaChatModel, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse ollama url %q: missing scheme or host", baseURL)
	}

	return &OllamaChatModel{
		client: api.NewClient(u, &http.Client{Timeout: timeout}),
		model:  modelName,
	}, nil
}

func (m *OllamaChatModel) GetType() string {
	return "Ollama"
}

func (m *OllamaChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Model: &m.model}, opts...)

	stream := false
	req := &api.ChatRequest{
		Model:    *options.Model,
		Messages: toOllamaMessages(input),
		Stream:   &stream,
	}
	if options.Temperature != nil {
		req.Options = map[string]any{"temperature": *options.Temperature}
	}

	var (
		resp     api.ChatResponse
		received bool
	)
	err := m.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		received = true
		return nil
	})
	if err != nil {
		return nil, wrapOllamaError(req.Model, err)
	}
	if !received || strings.TrimSpace(resp.Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: resp.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: resp.DoneReason,
			Usage: &schema.TokenUsage{
				PromptTokens:     resp.PromptEvalCount,
				CompletionTokens: resp.EvalCount,
				TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
			},
		},
	}, nil
}

// Stream delivers the complete reply as a single chunk.
func (m *OllamaChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *OllamaChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) > 0 {
		return errors.New("ollama chat model: tool calling is not supported")
	}
	return nil
}

// Ping checks that the runtime answers and has the configured model.
func (m *OllamaChatModel) Ping(ctx context.Context) error {
	if err := m.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}

	list, err := m.client.List(ctx)
	if err != nil {
		return fmt.Errorf("list ollama models: %w", err)
	}
	for _, installed := range list.Models {
		if sameModel(installed.Name, m.model) || sameModel(installed.Model, m.model) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not installed, run: ollama pull %s", ErrModelNotFound, m.model, m.model)
}

func sameModel(installed, want string) bool {
	if installed == want {
		return true
	}
	// "mistral" and "mistral:latest" name the same model.
	return !strings.Contains(want, ":") && installed == want+":latest"
}

func toOllamaMessages(in []*schema.Message) []api.Message {
	out := make([]api.Message, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		out = append(out, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}

func wrapOllamaError(modelName string, err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("model %q not found", modelName)
		}
		return &missingModelError{msg: msg}
	}
	// The client reports a 404 carrying a JSON error body as a plain error.
	if err != nil && modelNotFoundPattern.MatchString(err.Error()) {
		return &missingModelError{msg: err.Error()}
	}
	return err
}

var modelNotFoundPattern = regexp.MustCompile(`model ["'][^"']+["'] not found`)

// missingModelError keeps the runtime's own wording while matching ErrModelNotFound.
type missingModelError struct {
	msg string
}

func (e *missingModelError) Error() string { return e.msg }

func (e *missingModelError) Is(target error) bool { return target == ErrModelNotFound }
