package supervisor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"netra/internal/config"
	"netra/internal/logger"
	"netra/internal/mission"
	"netra/internal/pipeline"
)

// ConfigLoader is called once per mission, when the mission starts.
type ConfigLoader func() (config.Config, error)

// Supervisor runs submitted missions one at a time on a single worker.
type Supervisor struct {
	load    ConfigLoader
	build   func(config.Config) *pipeline.Pipeline
	queue   chan *Mission
	results chan MissionResult

	startOnce sync.Once
	closeOnce sync.Once
}

func New(load ConfigLoader) *Supervisor {
	return &Supervisor{
		load:    load,
		build:   pipeline.Build,
		queue:   make(chan *Mission, 100),
		results: make(chan MissionResult, 100),
	}
}

func (s *Supervisor) Results() <-chan MissionResult { return s.results }

func (s *Supervisor) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go func() {
			defer close(s.results)
			for m := range s.queue {
				logger.Log.Info().Str("mission", m.ID).Str("query", m.Query).Msg("[Supervisor] starting mission")
				m.State = StatusRunning
				s.results <- s.runMission(ctx, m)
			}
		}()
	})
}

// Submit queues a mission and returns its short ID.
func (s *Supervisor) Submit(query string) string {
	id := uuid.New().String()[:8]
	s.queue <- &Mission{ID: id, Query: query, State: StatusPending}
	return id
}

// Stop lets queued missions finish, then closes Results.
func (s *Supervisor) Stop() {
	s.closeOnce.Do(func() { close(s.queue) })
}

func (s *Supervisor) runMission(ctx context.Context, m *Mission) MissionResult {
	result := MissionResult{MissionID: m.ID, Query: m.Query}

	st := mission.New(m.Query)
	cfg, err := s.load()
	if err != nil {
		logger.Log.Error().Err(err).Str("mission", m.ID).Msg("config load failed, using defaults")
		st.AddError(pipeline.Diagnostic("Config", err))
		cfg = config.Default()
	}

	mm := s.build(cfg).RunState(ctx, st)
	mm.MissionID = m.ID

	m.State = StatusSucceeded
	if st.HasErrors() {
		m.State = StatusDegraded
	}
	logger.Log.Info().Str("mission", m.ID).Str("status", m.State).
		Int("results", len(st.Results)).Int("errors", len(st.Errors)).Msg("[Supervisor] mission finished")

	result.Status = m.State
	result.State = st
	result.Metrics = mm
	return result
}
