// Package artifact defines the filesystem contracts for a run's outputs:
// the research document, the final deck (JSON and HTML preview), and the
// run journal. Each artifact has a stable identifier, a kind, and a
// resolver mapping it into the run's output directory.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Kind captures the storage shape for an artifact.
type Kind string

const (
	// KindDocument is a markdown document with YAML frontmatter metadata.
	KindDocument Kind = "document"
	// KindJSON is a JSON document enriched with a _slidesmith metadata block.
	KindJSON Kind = "json"
	// KindRaw is an opaque file written verbatim (e.g. the HTML preview).
	KindRaw Kind = "raw"
)

// Run locates one workflow invocation's output tree.
type Run struct {
	dir string
	id  string
}

// NewRun roots a run at outputDir/runID.
func NewRun(outputDir, runID string) *Run {
	return &Run{dir: filepath.Join(outputDir, runID), id: runID}
}

// Dir returns the run's output directory.
func (r *Run) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// ID returns the run identifier.
func (r *Run) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// RunID derives a filesystem-friendly run identifier from the topic and
// start time.
func RunID(topic string, now time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "run"
	}
	return fmt.Sprintf("%s-%s", slug, now.UTC().Format("20060102-150405"))
}

// Ref declares a stable identifier and location for an artifact.
type Ref struct {
	ID       string
	Name     string
	Kind     Kind
	Filename string
}

// Path resolves the artifact path for the provided run.
func (r Ref) Path(run *Run) string {
	if run == nil || r.Filename == "" {
		return ""
	}
	return filepath.Join(run.Dir(), r.Filename)
}

// The artifacts every run produces.
var (
	ResearchDoc = Ref{ID: "research-doc", Name: "Research document", Kind: KindDocument, Filename: "research.md"}
	DeckJSON    = Ref{ID: "deck-json", Name: "Final deck", Kind: KindJSON, Filename: "deck.json"}
	DeckHTML    = Ref{ID: "deck-html", Name: "Deck HTML preview", Kind: KindRaw, Filename: "deck.html"}
	RunJournal  = Ref{ID: "run-journal", Name: "Run journal", Kind: KindDocument, Filename: "journal.md"}
)

// Metadata captures provenance stored in frontmatter or metadata blocks.
type Metadata struct {
	ArtifactID string
	Producer   string
	RunID      string
	Inputs     []string
	CreatedAt  time.Time
	Notes      map[string]string
}

// WithDefaults fills the artifact ID and timestamp when absent.
func (m Metadata) WithDefaults(ref Ref, now time.Time) Metadata {
	clone := m
	if clone.ArtifactID == "" {
		clone.ArtifactID = ref.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	return clone
}
