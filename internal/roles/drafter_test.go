package roles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/llm"
	"github.com/slidesmith/slidesmith/internal/stylevault"
)

// failingClient errors on every completion.
type failingClient struct {
	err error
}

func (f failingClient) Complete(context.Context, llm.Prompt) (string, error) {
	return "", f.err
}

func testResearch() content.ResearchArtifact {
	return content.ResearchArtifact{
		Topic:     "Bloom Filters",
		Text:      "A Bloom filter is a probabilistic set membership structure.",
		WordCount: 9,
	}
}

func TestDraftParsesFencedJSON(t *testing.T) {
	client := llm.NewScripted("Here is the deck:\n```json\n" +
		`{"slides": [{"page_number": 1, "title": "Definition", "content": "Bits and hashes.", "layout": "title-bullets"}]}` +
		"\n```")
	drafter, err := NewDrafter(client, DrafterConfig{MaxSlides: 5}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !deck.Valid() {
		t.Fatalf("expected a valid deck, got %+v", deck)
	}
	if deck.Slides[0].Title != "Definition" {
		t.Fatalf("unexpected slide title %q", deck.Slides[0].Title)
	}
	if deck.Topic != "Bloom Filters" {
		t.Fatalf("deck must carry the research topic, got %q", deck.Topic)
	}
}

func TestDraftTruncatesOversizedDecks(t *testing.T) {
	var slides []string
	for i := 1; i <= 6; i++ {
		slides = append(slides, `{"page_number": `+string(rune('0'+i))+`, "title": "S", "content": "c"}`)
	}
	client := llm.NewScripted(`{"slides": [` + strings.Join(slides, ",") + `]}`)
	drafter, err := NewDrafter(client, DrafterConfig{MaxSlides: 3}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if deck.SlideCount != 3 || len(deck.Slides) != 3 {
		t.Fatalf("expected truncation to 3 slides, got %d", deck.SlideCount)
	}
}

func TestDraftFillsMissingSlideNumbers(t *testing.T) {
	client := llm.NewScripted(`{"slides": [{"title": "A", "content": "a"}, {"title": "B", "content": "b"}]}`)
	drafter, err := NewDrafter(client, DrafterConfig{}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if deck.Slides[0].Index != 1 || deck.Slides[1].Index != 2 {
		t.Fatalf("expected sequential indices, got %d and %d", deck.Slides[0].Index, deck.Slides[1].Index)
	}
}

func TestDraftModelFailureYieldsErrorDeck(t *testing.T) {
	drafter, err := NewDrafter(failingClient{err: errors.New("backend down")}, DrafterConfig{}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("drafting must absorb model failures, got %v", err)
	}
	if !deck.Failed() {
		t.Fatalf("expected an error-marked deck, got %+v", deck)
	}
	if len(deck.Slides) != 1 {
		t.Fatalf("error deck must still carry one placeholder slide, got %d", len(deck.Slides))
	}
}

func TestDraftUnparsableResponseYieldsErrorDeck(t *testing.T) {
	client := llm.NewScripted("I could not produce JSON, sorry.")
	drafter, err := NewDrafter(client, DrafterConfig{}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("drafting must absorb parse failures, got %v", err)
	}
	if !deck.Failed() {
		t.Fatalf("expected an error-marked deck, got %+v", deck)
	}
}

func TestDraftEmptySlideListYieldsErrorDeck(t *testing.T) {
	client := llm.NewScripted(`{"slides": []}`)
	drafter, err := NewDrafter(client, DrafterConfig{}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	deck, err := drafter.Draft(context.Background(), testResearch(), "")
	if err != nil {
		t.Fatalf("drafting must absorb empty decks, got %v", err)
	}
	if !deck.Failed() {
		t.Fatalf("expected an error-marked deck, got %+v", deck)
	}
}

func TestDraftPromptCarriesGuidanceAndExamples(t *testing.T) {
	client := llm.NewScripted(`{"slides": [{"page_number": 1, "title": "A", "content": "a"}]}`)
	examples := []stylevault.Post{{
		ID: "ex-1", Topic: "Hashing", SlideCount: 1,
		Slides: []content.Slide{{Index: 1, Title: "Buckets", Body: "Spread keys evenly."}},
	}}
	drafter, err := NewDrafter(client, DrafterConfig{Examples: examples}, nil)
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	if _, err := drafter.Draft(context.Background(), testResearch(), "Tighten slide two."); err != nil {
		t.Fatalf("draft: %v", err)
	}
	prompts := client.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	user := prompts[0].User
	if !strings.Contains(user, "Tighten slide two.") {
		t.Fatalf("prompt must carry the revision guidance:\n%s", user)
	}
	if !strings.Contains(user, "Buckets") {
		t.Fatalf("prompt must carry the style example:\n%s", user)
	}
}
