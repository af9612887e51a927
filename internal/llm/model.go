package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/CoinPulse/internal/config"
)

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.ChatModel, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama, "":
		return NewOllamaChatModel(cfg.LLMBaseURL, cfg.Model, cfg.LLMTimeout)

	case config.ProviderOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.Model,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return cm, nil

	case config.ProviderDeepSeek:
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:  cfg.DeepSeekAPIKey,
			Model:   cfg.Model,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return cm, nil

	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", config.ErrInvalidConfig, cfg.LLMProvider)
	}
}
