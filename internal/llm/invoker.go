package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/logger"
)

const (
	graphName = "crypto_sentiment"
	nodeName  = "sentiment_model"
)

// Invoker sends a prepared conversation to the chat model and returns the reply.
type Invoker struct {
	model     string
	chatModel model.ChatModel
	runnable  compose.Runnable[[]*schema.Message, *schema.Message]
}

type pinger interface {
	Ping(ctx context.Context) error
}

// NewInvoker creates the chat model named by cfg and compiles the analysis chain.
func NewInvoker(ctx context.Context, cfg *config.Config) (*Invoker, error) {
	cm, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewInvokerWithModel(ctx, cfg.Model, cm)
}

// NewInvokerWithModel compiles the analysis chain around an already built
// chat model.
func NewInvokerWithModel(ctx context.Context, modelName string, cm model.ChatModel) (*Invoker, error) {
	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(cm, compose.WithNodeName(nodeName))

	runnable, err := chain.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s chain: %w", graphName, err)
	}

	return &Invoker{
		model:     modelName,
		chatModel: cm,
		runnable:  runnable,
	}, nil
}

// Model returns the configured model name.
func (i *Invoker) Model() string {
	return i.model
}

// Invoke runs one blocking, non-retried model call. Failures are returned as
// *AnalysisError carrying the model's own error text.
func (i *Invoker) Invoke(ctx context.Context, messages []*schema.Message) (string, error) {
	cb := newModelCallback(i.model)

	out, err := i.runnable.Invoke(ctx, messages, compose.WithCallbacks(cb.handler()))
	if err != nil {
		if modelErr := cb.modelError(); modelErr != nil {
			err = modelErr
		}
		return "", &AnalysisError{Model: i.model, Err: err}
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", &AnalysisError{Model: i.model, Err: ErrEmptyResponse}
	}
	return out.Content, nil
}

// Ping reports whether the model runtime is reachable. Providers without a
// health endpoint are assumed reachable.
func (i *Invoker) Ping(ctx context.Context) error {
	if p, ok := i.chatModel.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// modelCallback logs the chat model node and remembers the first error it
// raised, before the graph wraps it with node context.
type modelCallback struct {
	model string
	start time.Time

	mu  sync.Mutex
	err error
}

func newModelCallback(modelName string) *modelCallback {
	return &modelCallback{model: modelName}
}

func (c *modelCallback) handler() callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(c.onStart).
		OnEndFn(c.onEnd).
		OnErrorFn(c.onError).
		Build()
}

func (c *modelCallback) onStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if info == nil || info.Component != components.ComponentOfChatModel {
		return ctx
	}
	c.start = time.Now()

	count := 0
	if in := model.ConvCallbackInput(input); in != nil {
		count = len(in.Messages)
	}
	logger.Get().Debugw("invoking model", "model", c.model, "node", info.Name, "messages", count)
	return ctx
}

func (c *modelCallback) onEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if info == nil || info.Component != components.ComponentOfChatModel {
		return ctx
	}

	fields := []any{"model", c.model, "elapsed", time.Since(c.start).Round(time.Millisecond)}
	if out := model.ConvCallbackOutput(output); out != nil && out.TokenUsage != nil {
		fields = append(fields,
			"prompt_tokens", out.TokenUsage.PromptTokens,
			"completion_tokens", out.TokenUsage.CompletionTokens)
	}
	logger.Get().Infow("model responded", fields...)
	return ctx
}

func (c *modelCallback) onError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	if info == nil || info.Component != components.ComponentOfChatModel {
		return ctx
	}
	logger.Get().Warnw("model call failed", "model", c.model, "error", err)

	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	return ctx
}

func (c *modelCallback) modelError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
