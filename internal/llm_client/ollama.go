package llm_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	model  string
}

const ollamaDefault = "llama3.1:8b"

func (p *ollamaProvider) Init(_ context.Context, cfg Config) error {
	if host := strings.TrimSpace(cfg.OllamaHost); host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return fmt.Errorf("ollama: bad host %q: %w", host, err)
		}
		p.client = api.NewClient(u, nil)
	} else {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return fmt.Errorf("ollama client init: %w", err)
		}
		p.client = c
	}
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = ollamaDefault
	}
	return nil
}

func (p *ollamaProvider) AllowedModelOrDefault(model string) string {
	m := strings.TrimSpace(model)
	if m == "" {
		return p.model
	}
	return m
}

func (p *ollamaProvider) GenerateJSON(ctx context.Context, prompt, model string, schema any) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	// Structured output: a JSON schema when given, plain "json" otherwise.
	format := json.RawMessage(`"json"`)
	if schema != nil {
		b, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("ollama marshal schema: %w", err)
		}
		format = b
	}
	return p.generate(ctx, &api.GenerateRequest{
		Model:  p.AllowedModelOrDefault(model),
		Prompt: prompt + "\n\nReturn ONLY strict JSON. No extra text.",
		Format: format,
	})
}

func (p *ollamaProvider) generate(ctx context.Context, req *api.GenerateRequest) (string, error) {
	stream := false
	req.Stream = &stream
	var out strings.Builder
	if err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out.String(), nil
}
