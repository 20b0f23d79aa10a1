package supervisor

import (
	"netra/internal/metrics"
	"netra/internal/mission"
)

const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusDegraded  = "DEGRADED"
)

type Mission struct {
	ID    string
	Query string
	State string
}

type MissionResult struct {
	MissionID string                  `json:"mission_id"`
	Query     string                  `json:"query"`
	Status    string                  `json:"status"`
	State     *mission.State          `json:"state"`
	Metrics   *metrics.MissionMetrics `json:"metrics,omitempty"`
}
