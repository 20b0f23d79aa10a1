// Package interpreter turns a free-text imagery request into search
// parameters using an LLM backend. It never leaves a mission without
// parameters: every failure path returns mission.DefaultParameters.
package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"netra/internal/config"
	"netra/internal/llm_client"
	"netra/internal/logger"
	"netra/internal/mission"
)

var ErrMissingCredential = errors.New("missing API key (GEMINI_API_KEY)")

// Generator is the slice of llm_client.Provider the interpreter needs.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt, model string, schema any) (string, error)
}

type Interpreter struct {
	cfg config.LLMConfig
	gen Generator
}

// New resolves the backend lazily on each Interpret call, so the key is
// checked when the stage runs.
func New(cfg config.LLMConfig) *Interpreter {
	return &Interpreter{cfg: cfg}
}

// NewWithGenerator skips backend construction; the credential check still
// applies to the gemini backend.
func NewWithGenerator(cfg config.LLMConfig, gen Generator) *Interpreter {
	return &Interpreter{cfg: cfg, gen: gen}
}

func (in *Interpreter) needsAPIKey() bool {
	return llm_client.NormalizeBackend(in.cfg.Backend) == "gemini"
}

// Interpret always returns usable parameters; the error is a diagnostic.
func (in *Interpreter) Interpret(ctx context.Context, query string) (mission.Parameters, error) {
	if in.needsAPIKey() && strings.TrimSpace(in.cfg.APIKey) == "" {
		logger.Log.Warn().Msg("GEMINI_API_KEY is missing, using default parameters")
		return mission.DefaultParameters(), ErrMissingCredential
	}

	if in.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.cfg.Timeout)
		defer cancel()
	}

	gen, err := in.generator(ctx)
	if err != nil {
		return fallback(err)
	}

	logger.Log.Info().Str("query", query).Msg("asking LLM to extract search parameters")
	raw, err := gen.GenerateJSON(ctx, buildExtractionPrompt(query), in.cfg.Model, parametersSchema)
	if err != nil {
		return fallback(err)
	}

	params, err := parseParameters(raw)
	if err != nil {
		return fallback(fmt.Errorf("%w (raw response: %q)", err, truncate(raw, 200)))
	}

	logger.Log.Info().
		Floats64("bbox", params.BBox[:]).
		Str("start_date", params.StartDate).
		Str("end_date", params.EndDate).
		Msg("target acquired")
	return params, nil
}

// Run is the pipeline stage: it clears results, then always writes
// parameters.
func (in *Interpreter) Run(ctx context.Context, st *mission.State) error {
	st.ResetResults()
	params, err := in.Interpret(ctx, st.Query)
	st.Parameters = params
	return err
}

func (in *Interpreter) generator(ctx context.Context) (Generator, error) {
	if in.gen != nil {
		return in.gen, nil
	}
	p, err := llm_client.New(ctx, llm_client.Config{
		Backend:    in.cfg.Backend,
		Model:      in.cfg.Model,
		APIKey:     in.cfg.APIKey,
		OllamaHost: in.cfg.OllamaHost,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func fallback(err error) (mission.Parameters, error) {
	logger.Log.Error().Err(err).Msg("interpretation failed, using default parameters")
	return mission.DefaultParameters(), fmt.Errorf("interpretation failed: %w", err)
}

type extraction struct {
	BBox      []float64 `json:"bbox"`
	StartDate *string   `json:"start_date"`
	EndDate   *string   `json:"end_date"`
}

func parseParameters(raw string) (mission.Parameters, error) {
	var ex extraction
	if err := json.Unmarshal([]byte(llm_client.StripCodeFence(raw)), &ex); err != nil {
		return mission.Parameters{}, fmt.Errorf("error parsing parameters JSON: %w", err)
	}

	var missing []string
	if ex.BBox == nil {
		missing = append(missing, "bbox")
	}
	if ex.StartDate == nil {
		missing = append(missing, "start_date")
	}
	if ex.EndDate == nil {
		missing = append(missing, "end_date")
	}
	if len(missing) > 0 {
		return mission.Parameters{}, fmt.Errorf("response is missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(ex.BBox) != 4 {
		return mission.Parameters{}, fmt.Errorf("bbox must have 4 values, got %d", len(ex.BBox))
	}

	params := mission.Parameters{
		BBox:      mission.BBox{ex.BBox[0], ex.BBox[1], ex.BBox[2], ex.BBox[3]},
		StartDate: strings.TrimSpace(*ex.StartDate),
		EndDate:   strings.TrimSpace(*ex.EndDate),
	}
	if err := params.Validate(); err != nil {
		return mission.Parameters{}, fmt.Errorf("invalid parameters: %w", err)
	}
	return params, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
