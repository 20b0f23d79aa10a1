package llm_client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInitialized = errors.New("llm client not initialized")
	ErrMissingAPIKey  = errors.New("GEMINI_API_KEY is not set")
)

type Config struct {
	Backend    string
	Model      string
	APIKey     string
	OllamaHost string
}

type Provider interface {
	Init(ctx context.Context, cfg Config) error
	AllowedModelOrDefault(model string) string
	GenerateJSON(ctx context.Context, prompt, model string, schema any) (string, error)
}

func NormalizeBackend(b string) string {
	backend := strings.ToLower(strings.TrimSpace(b))
	if backend == "" {
		return "gemini"
	}
	return backend
}

// New builds and initialises the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Provider, error) {
	var p Provider
	switch NormalizeBackend(cfg.Backend) {
	case "ollama":
		p = &ollamaProvider{}
	case "gemini":
		p = &geminiProvider{}
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", cfg.Backend)
	}
	if err := p.Init(ctx, cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// StripCodeFence removes a markdown ```json fence some models wrap around
// JSON output even when asked not to.
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```JSON")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
