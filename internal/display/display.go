package display

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"netra/internal/mission"
)

const maxQueryDisplayLength = 80

func FormatMission(st *mission.State) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mission: %q\n", truncate(st.Query, maxQueryDisplayLength)))
	p := st.Parameters
	sb.WriteString(fmt.Sprintf("Target: bbox=[%g, %g, %g, %g]  window=%s..%s\n",
		p.BBox[0], p.BBox[1], p.BBox[2], p.BBox[3], p.StartDate, p.EndDate))
	sb.WriteString("--------------------------------------------------\n")

	switch {
	case len(st.Results) > 0:
		sb.WriteString(fmt.Sprintf("Found %d scene(s):\n", len(st.Results)))
		for _, s := range st.Results {
			sb.WriteString(fmt.Sprintf("  - %s - %s\n", s.Source, s.Date))
			sb.WriteString(fmt.Sprintf("      ID: %s\n", s.ID))
			if s.Thumbnail != "" {
				sb.WriteString(fmt.Sprintf("      Thumbnail: %s\n", s.Thumbnail))
			} else {
				sb.WriteString("      No thumbnail available for this provider.\n")
			}
		}
	case len(st.Errors) == 0:
		sb.WriteString("No images found for this query.\n")
	default:
		sb.WriteString("No images found (some stages degraded).\n")
	}

	if len(st.Errors) > 0 {
		sb.WriteString("Diagnostics:\n")
		for _, e := range st.Errors {
			sb.WriteString(fmt.Sprintf("  ! %s\n", e))
		}
	}
	sb.WriteString("--------------------------------------------------")
	return sb.String()
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if limit >= 0 && len(s) > limit {
		for limit > 0 && !utf8.RuneStart(s[limit]) {
			limit--
		}
		return s[:limit] + "..."
	}
	return s
}
