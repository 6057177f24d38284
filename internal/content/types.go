// Package content defines the artifacts exchanged between the content
// generation roles and the workflow engine: synthesized research, drafted
// slide decks, and reviewer decisions.
package content

import "strings"

// ResearchArtifact carries synthesized research for a topic.
type ResearchArtifact struct {
	Topic string `json:"topic"`
	// Text is the synthesized research prose the drafter works from.
	Text string `json:"text"`
	// Focus records the focus areas the synthesis was steered toward, if any.
	Focus     string `json:"focus,omitempty"`
	WordCount int    `json:"word_count"`
	// Err marks the artifact as the product of a failed research call. The
	// artifact is still well-formed; Text describes the failure.
	Err string `json:"error,omitempty"`
}

// Failed reports whether the artifact carries an error marker.
func (r ResearchArtifact) Failed() bool {
	return r.Err != ""
}

// Empty reports whether the artifact carries no usable text.
func (r ResearchArtifact) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Slide is one content unit of a drafted deck.
type Slide struct {
	Index  int    `json:"page_number"`
	Title  string `json:"title"`
	Body   string `json:"content"`
	Layout string `json:"layout"`
}

// DraftArtifact is an ordered slide deck produced by the drafting role.
type DraftArtifact struct {
	Topic      string  `json:"topic"`
	Slides     []Slide `json:"slides"`
	SlideCount int     `json:"slide_count"`
	// Err marks a deck assembled from a failed drafting call. Such a deck
	// still contains a single slide describing the failure so downstream
	// consumers never see a malformed artifact.
	Err string `json:"error,omitempty"`
}

// Valid reports whether the deck satisfies its own structural invariant:
// at least one slide and a matching count.
func (d DraftArtifact) Valid() bool {
	return len(d.Slides) > 0 && d.SlideCount == len(d.Slides)
}

// Failed reports whether the deck carries an error marker.
func (d DraftArtifact) Failed() bool {
	return d.Err != ""
}

// ErrorDraft builds the well-formed fallback deck for a failed drafting
// call: one slide describing what went wrong.
func ErrorDraft(topic, cause string) DraftArtifact {
	return DraftArtifact{
		Topic: topic,
		Slides: []Slide{{
			Index:  1,
			Title:  "Draft unavailable",
			Body:   "Failed to generate the deck: " + cause,
			Layout: "Error message",
		}},
		SlideCount: 1,
		Err:        cause,
	}
}

// DecisionKind enumerates the reviewer's possible verdicts.
type DecisionKind string

const (
	DecisionApprove        DecisionKind = "approve"
	DecisionReviseResearch DecisionKind = "revise_research"
	DecisionReviseDraft    DecisionKind = "revise_draft"
	// DecisionUndetermined is the zero-ish kind recorded before any review
	// has happened; it never survives a review step.
	DecisionUndetermined DecisionKind = "undetermined"
)

// Actionable reports whether the kind is one the workflow router accepts
// from a reviewer.
func (k DecisionKind) Actionable() bool {
	switch k {
	case DecisionApprove, DecisionReviseResearch, DecisionReviseDraft:
		return true
	}
	return false
}

// Decision is the reviewer's structured verdict on a deck.
type Decision struct {
	Kind        DecisionKind `json:"decision"`
	Feedback    string       `json:"feedback"`
	Suggestions []string     `json:"suggestions,omitempty"`
}
