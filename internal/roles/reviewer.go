package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/llm"
	"github.com/slidesmith/slidesmith/internal/logbook"
)

// ReviewerConfig tunes the review role.
type ReviewerConfig struct {
	// Instructions is the role's system prompt.
	Instructions string
}

// Reviewer evaluates a drafted deck against its research and emits a
// decision record. The record's kind is passed through exactly as the
// model returned it; validating and coercing it is the workflow engine's
// job, so a misbehaving model stays observable there.
type Reviewer struct {
	llm llm.Client
	cfg ReviewerConfig
	log *logbook.Logbook
}

// NewReviewer wires the review role.
func NewReviewer(client llm.Client, cfg ReviewerConfig, log *logbook.Logbook) (*Reviewer, error) {
	if client == nil {
		return nil, fmt.Errorf("roles: reviewer needs an llm client")
	}
	return &Reviewer{llm: client, cfg: cfg, log: log}, nil
}

type reviewResponse struct {
	Decision    string   `json:"decision"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// Review asks the model for a verdict on the deck. An unreachable model or
// an unparsable response degrades to a revise-draft record rather than an
// error; the workflow must always receive a definite decision.
func (r *Reviewer) Review(ctx context.Context, deck content.DraftArtifact, research content.ResearchArtifact) (content.Decision, error) {
	r.log.Info("reviewer: reviewing deck for %q", deck.Topic)

	response, err := r.llm.Complete(ctx, r.buildPrompt(deck, research))
	if err != nil {
		r.log.Error("reviewer: model call failed: %v", err)
		return content.Decision{
			Kind:        content.DecisionReviseDraft,
			Feedback:    fmt.Sprintf("Review unavailable (%v); please improve the deck quality.", err),
			Suggestions: []string{"Ensure content meets quality standards"},
		}, nil
	}

	var parsed reviewResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		r.log.Error("reviewer: unparsable review response: %v", err)
		return content.Decision{
			Kind:        content.DecisionReviseDraft,
			Feedback:    "Failed to parse the review response; please improve the deck quality.",
			Suggestions: []string{"Ensure content meets quality standards"},
		}, nil
	}

	decision := content.Decision{
		Kind:        content.DecisionKind(strings.TrimSpace(parsed.Decision)),
		Feedback:    parsed.Feedback,
		Suggestions: parsed.Suggestions,
	}
	r.log.Info("reviewer: decision %q", decision.Kind)
	return decision, nil
}

func (r *Reviewer) buildPrompt(deck content.DraftArtifact, research content.ResearchArtifact) llm.Prompt {
	summary := research.Text
	if len(summary) > 500 {
		summary = summary[:500] + "..."
	}
	var sb strings.Builder
	sb.WriteString("Review the following educational deck draft for quality and coherence.\n\n")
	fmt.Fprintf(&sb, "Topic: %s\n\n", deck.Topic)
	sb.WriteString("Research Summary (first 500 chars):\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nDeck to Review:\n")
	sb.WriteString(FormatDeck(deck))
	sb.WriteString("\nEvaluate the deck based on:\n")
	sb.WriteString("1. Quality: Is the content genuinely valuable to practitioners?\n")
	sb.WriteString("2. Depth: Does it include intermediate or advanced elements?\n")
	sb.WriteString("3. Coherence: Do all slides communicate a unified message?\n")
	sb.WriteString("4. Value: Is there no filler content?\n")
	sb.WriteString("5. Structure: Does it start with a clear definition and build logically?\n\n")
	sb.WriteString("Provide your response in the following JSON format:\n")
	sb.WriteString(`{"decision": "approve" or "revise_research" or "revise_draft", "feedback": "Detailed feedback explaining your decision", "suggestions": ["Specific suggestions for improvement"]}`)
	sb.WriteString("\n\nIf you decide \"revise_research\", include what additional information is needed.\n")
	sb.WriteString("If you decide \"revise_draft\", include specific content improvements needed.\n")
	sb.WriteString("Only \"approve\" if the deck meets premium quality standards.")
	return llm.Prompt{
		System: r.cfg.Instructions,
		User:   sb.String(),
	}
}
