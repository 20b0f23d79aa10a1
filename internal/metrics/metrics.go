package metrics

import "time"

type StageMetrics struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Results    int       `json:"results"`
	Err        string    `json:"err,omitempty"`
}

type MissionMetrics struct {
	MissionID  string         `json:"mission_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	DurationMs int64          `json:"duration_ms"`
	Degraded   bool           `json:"degraded"`
	Stages     []StageMetrics `json:"stages"`
}

// Compute derived fields for a stage.
func (s *StageMetrics) Finalize() {
	s.DurationMs = s.End.Sub(s.Start).Milliseconds()
}

func (m *MissionMetrics) Finalize() {
	m.DurationMs = m.End.Sub(m.Start).Milliseconds()
	m.Degraded = false
	for _, s := range m.Stages {
		if !s.Success {
			m.Degraded = true
		}
	}
}
