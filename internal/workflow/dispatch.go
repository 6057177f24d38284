package workflow

import (
	"context"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
)

// dispatchRevision routes a validated decision to the matching
// remediation path and replaces the affected artifacts in place.
//
//	revise_research — regenerate research steered by the reviewer's
//	  suggestions, then redraft against the fresh research.
//	revise_draft    — redraft against the unchanged research with the
//	  reviewer's feedback as guidance.
//	approve         — identity; the router never sends approve here but
//	  the dispatcher defines it for completeness.
//	anything else   — no-op, traced as an anomaly (cannot occur after
//	  normalization).
func (e *Engine) dispatchRevision(ctx context.Context, state *RunState) {
	decision := state.Decision
	switch decision.Kind {
	case content.DecisionReviseResearch:
		focus := revisionFocus(decision)
		e.trace(state, PhaseRevise, "revising research with focus from review")
		state.Research = e.runResearch(ctx, state, focus)
		state.Draft = e.runDraft(ctx, state, "")

	case content.DecisionReviseDraft:
		e.trace(state, PhaseRevise, "revising draft with review guidance")
		state.Draft = e.runDraft(ctx, state, revisionGuidance(decision))

	case content.DecisionApprove:
		// Identity by contract.

	default:
		e.log.Warn("workflow: unknown decision %q reached dispatch, no action taken", decision.Kind)
		e.trace(state, PhaseRevise, "anomaly: unknown decision reached dispatch, no action taken")
	}
}

// revisionFocus derives the research focus string: the suggestion list
// joined, falling back to the feedback text.
func revisionFocus(decision content.Decision) string {
	if len(decision.Suggestions) > 0 {
		return strings.Join(decision.Suggestions, " ")
	}
	return decision.Feedback
}

// revisionGuidance folds feedback and suggestions into the single
// guidance string the drafter consumes.
func revisionGuidance(decision content.Decision) string {
	var sb strings.Builder
	sb.WriteString(decision.Feedback)
	if len(decision.Suggestions) > 0 {
		sb.WriteString("\n\nSpecific suggestions:\n")
		for _, suggestion := range decision.Suggestions {
			sb.WriteString("- ")
			sb.WriteString(suggestion)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
