package interpreter

import (
	"fmt"
	"strings"
)

func buildExtractionPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant for a Satellite Data System.\n")
	sb.WriteString("Extract the following from the user's query:\n")
	sb.WriteString("1. A Bounding Box (bbox) [min_lon, min_lat, max_lon, max_lat] for the location mentioned.\n")
	sb.WriteString("2. A start_date and end_date (YYYY-MM-DD).\n\n")
	sb.WriteString(fmt.Sprintf("User Query: %q\n\n", query))
	sb.WriteString("Return ONLY a valid JSON object like this:\n")
	sb.WriteString("{\"bbox\": [85.0, 20.0, 86.0, 21.0], \"start_date\": \"2024-01-01\", \"end_date\": \"2024-01-30\"}\n")
	return sb.String()
}

// Structured-output schema handed to the backend alongside the prompt.
var parametersSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"bbox": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "number"},
			"minItems": 4,
			"maxItems": 4,
		},
		"start_date": map[string]any{"type": "string", "format": "date"},
		"end_date":   map[string]any{"type": "string", "format": "date"},
	},
	"required": []string{"bbox", "start_date", "end_date"},
}
