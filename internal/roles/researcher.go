// Package roles implements the three content-generation capabilities the
// workflow engine drives: research synthesis, deck drafting, and quality
// review. Each role wraps a language model call behind the narrow
// interface the engine consumes; none of them talk to each other.
package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/llm"
	"github.com/slidesmith/slidesmith/internal/logbook"
	"github.com/slidesmith/slidesmith/internal/search"
)

// ResearcherConfig tunes the research role.
type ResearcherConfig struct {
	// WordLimit is the approximate synthesis length requested from the model.
	WordLimit int
	// MaxResults caps how many search hits feed the synthesis prompt.
	MaxResults int
	// Instructions is the role's system prompt.
	Instructions string
}

// Researcher gathers search results for a topic and synthesizes them into
// research prose.
type Researcher struct {
	llm      llm.Client
	provider search.Provider
	cfg      ResearcherConfig
	log      *logbook.Logbook
}

// NewResearcher wires the research role.
func NewResearcher(client llm.Client, provider search.Provider, cfg ResearcherConfig, log *logbook.Logbook) (*Researcher, error) {
	if client == nil {
		return nil, fmt.Errorf("roles: researcher needs an llm client")
	}
	if provider == nil {
		return nil, fmt.Errorf("roles: researcher needs a search provider")
	}
	if cfg.WordLimit <= 0 {
		cfg.WordLimit = 2500
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	return &Researcher{llm: client, provider: provider, cfg: cfg, log: log}, nil
}

// Research searches the topic and synthesizes the hits into a research
// artifact. A search failure is folded into the prompt rather than
// aborting the call; only a failed synthesis surfaces as an error.
func (r *Researcher) Research(ctx context.Context, topic, focus string) (content.ResearchArtifact, error) {
	query := topic
	if focus != "" {
		query = topic + " " + focus
	}
	r.log.Info("researcher: searching for %q", query)

	var resultsBlock string
	results, err := r.provider.Search(ctx, query, r.cfg.MaxResults)
	if err != nil {
		r.log.Warn("researcher: search failed: %v", err)
		resultsBlock = fmt.Sprintf("Search error: %v", err)
	} else {
		resultsBlock = search.FormatResults(results)
	}

	prompt := r.buildPrompt(topic, focus, resultsBlock)
	text, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return content.ResearchArtifact{}, fmt.Errorf("roles: research synthesis: %w", err)
	}
	artifact := content.ResearchArtifact{
		Topic:     topic,
		Text:      text,
		Focus:     focus,
		WordCount: len(strings.Fields(text)),
	}
	r.log.Info("researcher: synthesis complete (%d words)", artifact.WordCount)
	return artifact, nil
}

func (r *Researcher) buildPrompt(topic, focus, resultsBlock string) llm.Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following search results, create comprehensive research content about %q.\n\n", topic)
	fmt.Fprintf(&sb, "Your research should be approximately %d words and cover:\n", r.cfg.WordLimit)
	sb.WriteString("1. Core concepts and definitions\n")
	sb.WriteString("2. Technical details and mechanisms\n")
	sb.WriteString("3. Practical applications and use cases\n")
	sb.WriteString("4. Best practices and common pitfalls\n")
	sb.WriteString("5. Advanced considerations for intermediate readers\n")
	if focus != "" {
		fmt.Fprintf(&sb, "\nPlease pay special attention to: %s\n", focus)
	}
	sb.WriteString("\nSearch Results:\n")
	sb.WriteString(resultsBlock)
	sb.WriteString("\n\nProvide well-structured, informative content that will serve as the foundation for a short-form educational deck.")
	return llm.Prompt{
		System: r.cfg.Instructions,
		User:   sb.String(),
	}
}
