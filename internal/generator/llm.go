package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// NewModel builds the langchaingo client selected by configuration. Cohere
// is the hosted provider the datasets were originally produced with; ollama
// serves local experimentation.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "cohere":
		if cfg.CohereAPIKey == "" {
			return nil, domain.NewMissingCredentialError("COHERE_API_KEY")
		}
		model, err := cohere.New(cohere.WithToken(cfg.CohereAPIKey), cohere.WithModel(cfg.Model))
		if err != nil {
			return nil, fmt.Errorf("init cohere client: %w", err)
		}
		return model, nil
	case "ollama":
		if cfg.OllamaServer == "" {
			return nil, domain.NewMissingCredentialError("OLLAMA_SERVER")
		}
		model, err := ollama.New(ollama.WithServerURL(cfg.OllamaServer), ollama.WithModel(cfg.Model))
		if err != nil {
			return nil, fmt.Errorf("init ollama client: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// client wraps the model with the optional response cache and the request
// timeout shared by both generators.
type client struct {
	model    llms.Model
	cache    domain.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// chat sends a system+user exchange to the model and returns the raw
// completion text. When a cache is configured, the response is looked up and
// stored under cacheKey so reruns do not repay API cost.
func (c *client) chat(ctx context.Context, cacheKey, system, user string, opts ...llms.CallOption) (string, error) {
	if c.cache != nil && cacheKey != "" {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug("llm cache hit", zap.String("key", cacheKey))
			return cached, nil
		} else if err != domain.ErrCacheMiss {
			c.logger.Warn("llm cache lookup failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	timeout := c.timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.model.GenerateContent(callCtx, messages, opts...)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", domain.NewLLMServiceError(fmt.Errorf("request timed out: %w", err))
		}
		return "", domain.NewLLMServiceError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewLLMServiceError(fmt.Errorf("model returned no choices"))
	}
	content := resp.Choices[0].Content

	if c.cache != nil && cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, content, c.cacheTTL); err != nil {
			c.logger.Warn("llm cache store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return content, nil
}
