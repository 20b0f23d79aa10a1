package bhoonidhi

import (
	"context"
	"fmt"
	"strings"

	"netra/internal/config"
	"netra/internal/logger"
	"netra/internal/mission"
	"netra/internal/providers"
)

const SourceName = "ISRO (Resourcesat-2)"

// Provider adapts a fresh Client per Search to providers.Searcher.
type Provider struct {
	opts Options
}

func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

func FromConfig(cfg config.BhoonidhiConfig) *Provider {
	mode := ModeReal
	if cfg.Simulation {
		mode = ModeSimulated
	}
	return NewProvider(Options{
		Username:       cfg.Username,
		Password:       cfg.Password,
		BaseURL:        cfg.BaseURL,
		Mode:           mode,
		SimulatedDelay: cfg.SimulatedDelay,
		LoginTimeout:   cfg.LoginTimeout,
		SearchTimeout:  cfg.SearchTimeout,
	})
}

func (p *Provider) Name() string { return "ISRO" }

func (p *Provider) Search(ctx context.Context, params mission.Parameters) ([]mission.Scene, error) {
	if strings.TrimSpace(p.opts.Username) == "" || strings.TrimSpace(p.opts.Password) == "" {
		logger.Log.Warn().Msg("ISRO credentials missing")
		return nil, providers.ErrMissingCredentials
	}

	client := NewClient(p.opts)
	if err := client.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	fc, err := client.SearchL3(ctx, params.BBox)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return nil, providers.ErrUnauthenticated
	}

	scenes := make([]mission.Scene, 0, len(fc.Features))
	for _, f := range fc.Features {
		date := f.Properties.Date
		if date == "" {
			date = "Unknown"
		}
		scenes = append(scenes, mission.Scene{
			Source:    SourceName,
			ID:        f.ID,
			Date:      date,
			Thumbnail: f.Thumbnail(),
		})
	}
	logger.Log.Info().Int("count", len(scenes)).Str("mode", client.Mode().String()).Msg("ISRO search finished")
	return scenes, nil
}
