// Package search provides the web search capability the researcher role
// uses to gather raw material before synthesis.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Provider is implemented by every search backend.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// FormatResults renders hits into the text block the synthesis prompt
// embeds. Hits are separated so the model can tell sources apart.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No search results were available."
	}
	formatted := make([]string, 0, len(results))
	for _, r := range results {
		formatted = append(formatted, fmt.Sprintf("Title: %s\nContent: %s\nURL: %s\n", r.Title, r.Content, r.URL))
	}
	return strings.Join(formatted, "\n---\n")
}

// Static serves a fixed result set. It backs the offline CLI mode and
// tests.
type Static struct {
	Results []Result
}

// Search returns the fixed results, truncated to maxResults.
func (s Static) Search(_ context.Context, _ string, maxResults int) ([]Result, error) {
	if maxResults <= 0 || maxResults >= len(s.Results) {
		return append([]Result{}, s.Results...), nil
	}
	return append([]Result{}, s.Results[:maxResults]...), nil
}
