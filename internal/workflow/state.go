package workflow

import (
	"time"

	"github.com/slidesmith/slidesmith/internal/content"
)

// Phase is one named state of the orchestration state machine.
type Phase string

const (
	PhaseResearch Phase = "research"
	PhaseDraft    Phase = "draft"
	PhaseReview   Phase = "review"
	PhaseRevise   Phase = "revise"
	PhaseFinalize Phase = "finalize"
)

// TerminationReason records why a run reached Finalize. Both non-canceled
// reasons produce a structurally identical outcome; callers that care can
// read the reason from the outcome or the trace.
type TerminationReason string

const (
	ReasonApproved        TerminationReason = "approved"
	ReasonBudgetExhausted TerminationReason = "budget-exhausted"
	ReasonCanceled        TerminationReason = "canceled"
)

// TraceEvent is one append-only observability record. Control logic never
// reads the trace.
type TraceEvent struct {
	Phase     Phase     `json:"phase"`
	Iteration int       `json:"iteration"`
	Summary   string    `json:"summary"`
	At        time.Time `json:"at"`
}

// RunState is the single mutable record threaded through every
// transition. It is owned exclusively by the engine for the lifetime of a
// run; capability calls only ever see fragments of it.
type RunState struct {
	Topic          string
	Research       content.ResearchArtifact
	Draft          content.DraftArtifact
	Decision       content.Decision
	Iteration      int
	IterationLimit int
	Final          content.DraftArtifact
	Trace          []TraceEvent

	finalized bool
}

// Outcome is what a completed run hands back to the caller.
type Outcome struct {
	Final      content.DraftArtifact
	Research   content.ResearchArtifact
	Iterations int
	Reason     TerminationReason
	Trace      []TraceEvent
}
