package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/llm"
	"github.com/slidesmith/slidesmith/internal/logbook"
	"github.com/slidesmith/slidesmith/internal/stylevault"
)

// DrafterConfig tunes the drafting role.
type DrafterConfig struct {
	// MaxSlides caps the deck length; longer responses are truncated.
	MaxSlides int
	// Instructions is the role's system prompt.
	Instructions string
	// Examples are style-vault decks injected into the prompt as few-shot
	// references. Optional.
	Examples []stylevault.Post
}

// Drafter turns research prose into a structured slide deck.
//
// The drafting contract is uniform: any failure (model error, unparsable
// response, empty deck) yields a well-formed error deck instead of an
// error, so the caller never needs a third state per phase.
type Drafter struct {
	llm llm.Client
	cfg DrafterConfig
	log *logbook.Logbook
}

// NewDrafter wires the drafting role.
func NewDrafter(client llm.Client, cfg DrafterConfig, log *logbook.Logbook) (*Drafter, error) {
	if client == nil {
		return nil, fmt.Errorf("roles: drafter needs an llm client")
	}
	if cfg.MaxSlides <= 0 {
		cfg.MaxSlides = 10
	}
	return &Drafter{llm: client, cfg: cfg, log: log}, nil
}

type deckResponse struct {
	Slides []content.Slide `json:"slides"`
}

// Draft produces a deck from research, optionally steered by revision
// guidance from a prior review.
func (d *Drafter) Draft(ctx context.Context, research content.ResearchArtifact, guidance string) (content.DraftArtifact, error) {
	d.log.Info("drafter: drafting deck for %q", research.Topic)

	response, err := d.llm.Complete(ctx, d.buildPrompt(research, guidance))
	if err != nil {
		d.log.Error("drafter: model call failed: %v", err)
		return content.ErrorDraft(research.Topic, err.Error()), nil
	}

	var parsed deckResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		d.log.Error("drafter: unparsable deck response: %v", err)
		return content.ErrorDraft(research.Topic, fmt.Sprintf("unparsable deck response: %v", err)), nil
	}
	if len(parsed.Slides) == 0 {
		d.log.Error("drafter: response contained no slides")
		return content.ErrorDraft(research.Topic, "response contained no slides"), nil
	}
	if len(parsed.Slides) > d.cfg.MaxSlides {
		d.log.Warn("drafter: deck has %d slides, truncating to %d", len(parsed.Slides), d.cfg.MaxSlides)
		parsed.Slides = parsed.Slides[:d.cfg.MaxSlides]
	}
	for i := range parsed.Slides {
		if parsed.Slides[i].Index == 0 {
			parsed.Slides[i].Index = i + 1
		}
	}

	deck := content.DraftArtifact{
		Topic:      research.Topic,
		Slides:     parsed.Slides,
		SlideCount: len(parsed.Slides),
	}
	d.log.Info("drafter: drafted deck with %d slides", deck.SlideCount)
	return deck, nil
}

func (d *Drafter) buildPrompt(research content.ResearchArtifact, guidance string) llm.Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create an engaging educational slide deck (maximum %d slides) based on the following research.\n\n", d.cfg.MaxSlides)
	fmt.Fprintf(&sb, "Topic: %s\n\n", research.Topic)
	sb.WriteString("Research Content:\n")
	sb.WriteString(research.Text)
	sb.WriteString("\n")
	if guidance != "" {
		sb.WriteString("\n**IMPORTANT REVISION FEEDBACK:**\n")
		sb.WriteString(guidance)
		sb.WriteString("\n\nPlease address this feedback in your revised draft.\n")
	}
	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "1. Maximum %d slides\n", d.cfg.MaxSlides)
	sb.WriteString("2. Start with a clear definition with key terms in **bold**\n")
	sb.WriteString("3. Include intermediate to advanced concepts, not just beginner content\n")
	sb.WriteString("4. Use practical examples and simple formulas where appropriate\n")
	sb.WriteString("5. Be concise and avoid filler content; each slide must have a clear purpose\n")
	sb.WriteString("6. End with an engaging call-to-action\n")
	if len(d.cfg.Examples) > 0 {
		sb.WriteString("\nStyle references (match their tone and slide structure):\n")
		for _, example := range d.cfg.Examples {
			fmt.Fprintf(&sb, "\nExample (%s, %d slides):\n", example.Topic, example.SlideCount)
			for _, slide := range example.Slides {
				fmt.Fprintf(&sb, "  Slide %d — %s: %s\n", slide.Index, slide.Title, firstLine(slide.Body))
			}
		}
	}
	sb.WriteString("\nFormat your response as a valid JSON object with this structure:\n")
	sb.WriteString(`{"slides": [{"page_number": 1, "title": "Title of the slide", "content": "Main content of the slide", "layout": "Description of visual layout"}]}`)
	sb.WriteString("\n\nEnsure the JSON is valid and complete.")
	return llm.Prompt{
		System: d.cfg.Instructions,
		User:   sb.String(),
	}
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
