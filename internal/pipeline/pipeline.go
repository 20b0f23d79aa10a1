// Package pipeline runs a mission through an ordered list of stages.
// Stages run one at a time; a failing stage contributes a diagnostic to
// the mission and never stops the ones after it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"netra/internal/logger"
	"netra/internal/metrics"
	"netra/internal/mission"
)

// Stage is one step of a mission. A non-nil error from Run becomes a
// single "<Name> error: ..." entry in the mission's errors.
type Stage struct {
	Name string
	Run  func(ctx context.Context, st *mission.State) error
}

type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return names
}

// Run always returns a completed state.
func (p *Pipeline) Run(ctx context.Context, query string) (*mission.State, *metrics.MissionMetrics) {
	st := mission.New(query)
	mm := p.RunState(ctx, st)
	return st, mm
}

// RunState threads an existing state through every stage in order.
func (p *Pipeline) RunState(ctx context.Context, st *mission.State) *metrics.MissionMetrics {
	mm := &metrics.MissionMetrics{Start: time.Now()}

	for _, stage := range p.stages {
		sm := metrics.StageMetrics{Name: stage.Name, Start: time.Now()}
		before := len(st.Results)

		logger.Log.Info().Str("stage", stage.Name).Msg("stage started")
		err := runStage(ctx, stage, st)

		sm.End = time.Now()
		sm.Finalize()
		sm.Success = err == nil
		if n := len(st.Results) - before; n > 0 {
			sm.Results = n
		}
		if err != nil {
			diag := Diagnostic(stage.Name, err)
			sm.Err = diag
			st.AddError(diag)
			logger.Log.Error().Str("stage", stage.Name).Err(err).Msg("stage degraded")
		} else {
			logger.Log.Info().Str("stage", stage.Name).Int("results", sm.Results).Int64("duration_ms", sm.DurationMs).Msg("stage finished")
		}
		mm.Stages = append(mm.Stages, sm)
	}

	mm.End = time.Now()
	mm.Finalize()
	return mm
}

func Diagnostic(stage string, err error) string {
	return fmt.Sprintf("%s error: %v", stage, err)
}

// Panic safety: a panicking stage is reported like any other failure.
func runStage(ctx context.Context, stage Stage, st *mission.State) (rerr error) {
	defer func() {
		if rec := recover(); rec != nil {
			rerr = fmt.Errorf("panic: %v", rec)
		}
	}()
	return stage.Run(ctx, st)
}
