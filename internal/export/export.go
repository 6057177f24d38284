// Package export persists a completed run: the research document, the
// final deck as JSON, an HTML preview rendered from the deck's markdown,
// and the run journal assembled from the workflow trace.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/slidesmith/slidesmith/internal/artifact"
	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/logbook"
	"github.com/slidesmith/slidesmith/internal/workflow"
)

const producerID = "slidesmith"

// Paths lists where a run's outputs landed.
type Paths struct {
	ResearchDoc string
	DeckJSON    string
	DeckHTML    string
	Journal     string
}

// Exporter writes run outcomes through the artifact store.
type Exporter struct {
	run   *artifact.Run
	store *artifact.Store
	log   *logbook.Logbook
}

// NewExporter builds an exporter for one run.
func NewExporter(run *artifact.Run, store *artifact.Store, log *logbook.Logbook) (*Exporter, error) {
	if run == nil {
		return nil, fmt.Errorf("export: run is required")
	}
	if store == nil {
		return nil, fmt.Errorf("export: artifact store is required")
	}
	return &Exporter{run: run, store: store, log: log}, nil
}

// Export persists every artifact of the outcome and returns their paths.
func (e *Exporter) Export(outcome workflow.Outcome) (Paths, error) {
	meta := artifact.Metadata{Producer: producerID, RunID: e.run.ID()}

	researchMeta := meta
	researchMeta.Notes = map[string]string{"word_count": fmt.Sprintf("%d", outcome.Research.WordCount)}
	if err := e.store.Write(artifact.ResearchDoc, []byte(outcome.Research.Text), researchMeta); err != nil {
		return Paths{}, fmt.Errorf("export: research document: %w", err)
	}

	deckBody, err := json.Marshal(outcome.Final)
	if err != nil {
		return Paths{}, fmt.Errorf("export: encode deck: %w", err)
	}
	deckMeta := meta
	deckMeta.Inputs = []string{artifact.ResearchDoc.ID}
	deckMeta.Notes = map[string]string{
		"iterations": fmt.Sprintf("%d", outcome.Iterations),
		"reason":     string(outcome.Reason),
	}
	if err := e.store.Write(artifact.DeckJSON, deckBody, deckMeta); err != nil {
		return Paths{}, fmt.Errorf("export: deck json: %w", err)
	}

	html, err := RenderHTML(outcome.Final)
	if err != nil {
		return Paths{}, fmt.Errorf("export: render preview: %w", err)
	}
	if err := e.store.Write(artifact.DeckHTML, html, meta); err != nil {
		return Paths{}, fmt.Errorf("export: deck html: %w", err)
	}

	if err := e.store.Write(artifact.RunJournal, []byte(JournalMarkdown(outcome)), meta); err != nil {
		return Paths{}, fmt.Errorf("export: run journal: %w", err)
	}

	paths := Paths{
		ResearchDoc: artifact.ResearchDoc.Path(e.run),
		DeckJSON:    artifact.DeckJSON.Path(e.run),
		DeckHTML:    artifact.DeckHTML.Path(e.run),
		Journal:     artifact.RunJournal.Path(e.run),
	}
	e.log.Info("export: wrote run outputs to %s", e.run.Dir())
	return paths, nil
}

// DeckMarkdown renders the deck as a markdown document, one section per
// slide.
func DeckMarkdown(deck content.DraftArtifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", deck.Topic)
	for _, slide := range deck.Slides {
		fmt.Fprintf(&sb, "\n## Slide %d: %s\n\n", slide.Index, slide.Title)
		sb.WriteString(slide.Body)
		sb.WriteString("\n")
		if slide.Layout != "" {
			fmt.Fprintf(&sb, "\n*Layout: %s*\n", slide.Layout)
		}
	}
	return sb.String()
}

// RenderHTML converts the deck's markdown into a standalone HTML preview.
func RenderHTML(deck content.DraftArtifact) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(DeckMarkdown(deck)), &body); err != nil {
		return nil, fmt.Errorf("export: markdown conversion: %w", err)
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", deck.Topic)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// JournalMarkdown renders the workflow trace as a readable run journal.
func JournalMarkdown(outcome workflow.Outcome) string {
	var sb strings.Builder
	sb.WriteString("# Run journal\n\n")
	fmt.Fprintf(&sb, "- Topic: %s\n", outcome.Final.Topic)
	fmt.Fprintf(&sb, "- Iterations: %d\n", outcome.Iterations)
	fmt.Fprintf(&sb, "- Termination: %s\n\n", outcome.Reason)
	sb.WriteString("| Time | Phase | Iteration | Event |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, event := range outcome.Trace {
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n",
			event.At.UTC().Format("15:04:05"),
			event.Phase,
			event.Iteration,
			strings.ReplaceAll(event.Summary, "|", "\\|"),
		)
	}
	return sb.String()
}
