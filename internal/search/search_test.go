package search

import (
	"context"
	"strings"
	"testing"
)

func TestFormatResultsSeparatesHits(t *testing.T) {
	block := FormatResults([]Result{
		{Title: "A", URL: "https://a", Content: "first"},
		{Title: "B", URL: "https://b", Content: "second"},
	})
	if !strings.Contains(block, "Title: A") || !strings.Contains(block, "Title: B") {
		t.Fatalf("block missing titles:\n%s", block)
	}
	if !strings.Contains(block, "\n---\n") {
		t.Fatalf("hits must be separated:\n%s", block)
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	if got := FormatResults(nil); got != "No search results were available." {
		t.Fatalf("unexpected empty rendering %q", got)
	}
}

func TestStaticTruncates(t *testing.T) {
	static := Static{Results: []Result{{Title: "1"}, {Title: "2"}, {Title: "3"}}}
	results, err := static.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	all, err := static.Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("non-positive cap must return everything, got %d", len(all))
	}
}
