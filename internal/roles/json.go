package roles

import "strings"

// extractJSON pulls the JSON payload out of a model response, tolerating
// markdown code fences around it.
func extractJSON(response string) string {
	trimmed := strings.TrimSpace(response)
	if start := strings.Index(trimmed, "```json"); start >= 0 {
		rest := trimmed[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if start := strings.Index(trimmed, "```"); start >= 0 {
		rest := trimmed[start+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return trimmed
}
