package display

import (
	"fmt"
	"strings"

	"netra/internal/metrics"
)

func FormatMissionMetrics(mm *metrics.MissionMetrics) string {
	if mm == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString("Execution metrics:\n")
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (degraded=%v)\n", mm.DurationMs, mm.Degraded))
	for _, s := range mm.Stages {
		status := "ok"
		if !s.Success {
			status = "err"
		}
		sb.WriteString(fmt.Sprintf("    • %-12s %5d ms  %3d result(s)  [%s]\n", s.Name, s.DurationMs, s.Results, status))
	}
	return sb.String()
}
