package pipeline

import (
	"context"
	"fmt"

	"netra/internal/config"
	"netra/internal/interpreter"
	"netra/internal/mission"
	"netra/internal/providers"
	"netra/internal/providers/bhoonidhi"
	"netra/internal/providers/esa"
)

func InterpreterStage(in *interpreter.Interpreter) Stage {
	return Stage{Name: "Interpreter", Run: in.Run}
}

// ProviderStage appends at most limit scenes from s in the order s
// returned them. limit <= 0 keeps all of them.
func ProviderStage(s providers.Searcher, limit int) Stage {
	return Stage{
		Name: s.Name(),
		Run: func(ctx context.Context, st *mission.State) error {
			if err := st.Parameters.Validate(); err != nil {
				return fmt.Errorf("invalid search parameters: %w", err)
			}
			scenes, err := s.Search(ctx, st.Parameters)
			if err != nil {
				return err
			}
			if limit > 0 && len(scenes) > limit {
				scenes = scenes[:limit]
			}
			st.AddResults(scenes...)
			return nil
		},
	}
}

// Build wires the standard mission: interpreter first, then providers in
// cfg.ProviderPriority order.
func Build(cfg config.Config) *Pipeline {
	stages := []Stage{InterpreterStage(interpreter.New(cfg.LLM))}
	for _, name := range cfg.ProviderPriority {
		switch name {
		case config.ProviderESA:
			stages = append(stages, ProviderStage(esa.FromConfig(cfg.ESA), cfg.ESA.ResultLimit))
		case config.ProviderISRO:
			stages = append(stages, ProviderStage(bhoonidhi.FromConfig(cfg.Bhoonidhi), 0))
		}
	}
	return New(stages...)
}
