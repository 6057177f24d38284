package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/logbook"
)

// Researcher synthesizes research for a topic, optionally steered toward
// focus areas from a prior review.
type Researcher interface {
	Research(ctx context.Context, topic, focus string) (content.ResearchArtifact, error)
}

// Drafter turns research into a slide deck, optionally steered by
// revision guidance.
type Drafter interface {
	Draft(ctx context.Context, research content.ResearchArtifact, guidance string) (content.DraftArtifact, error)
}

// Reviewer evaluates a deck against its research and returns a decision
// record. The kind may be anything; the engine normalizes it.
type Reviewer interface {
	Review(ctx context.Context, deck content.DraftArtifact, research content.ResearchArtifact) (content.Decision, error)
}

// Observer receives trace events as they are appended. Used by the TUI to
// show live progress.
type Observer func(TraceEvent)

// Engine drives the Research → Draft → Review → {Finalize | Revise}
// state machine. It owns the run state, absorbs every capability failure
// into a well-formed artifact or a normalized decision, and guarantees
// termination within the iteration budget no matter how the capabilities
// behave.
type Engine struct {
	researcher Researcher
	drafter    Drafter
	reviewer   Reviewer
	limit      int
	clock      func() time.Time
	log        *logbook.Logbook
	observer   Observer
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogbook mirrors trace events into a logbook.
func WithLogbook(log *logbook.Logbook) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithObserver registers a live trace event callback.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// New wires an engine to its three capabilities. The iteration limit is
// fixed for the engine's lifetime; a limit of 0 finalizes the first draft
// without review.
func New(researcher Researcher, drafter Drafter, reviewer Reviewer, iterationLimit int, opts ...Option) (*Engine, error) {
	if researcher == nil {
		return nil, fmt.Errorf("workflow: researcher capability is required")
	}
	if drafter == nil {
		return nil, fmt.Errorf("workflow: drafter capability is required")
	}
	if reviewer == nil {
		return nil, fmt.Errorf("workflow: reviewer capability is required")
	}
	if iterationLimit < 0 {
		return nil, fmt.Errorf("workflow: iteration limit must be >= 0, got %d", iterationLimit)
	}
	engine := &Engine{
		researcher: researcher,
		drafter:    drafter,
		reviewer:   reviewer,
		limit:      iterationLimit,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Run executes the workflow for one topic and returns only after reaching
// Finalize. The returned error is non-nil only when the run could not
// start at all (empty topic, context already canceled); once underway the
// run always completes with the best available deck. Cancellation is
// polled at phase boundaries, never mid-call.
func (e *Engine) Run(ctx context.Context, topic string) (Outcome, error) {
	if strings.TrimSpace(topic) == "" {
		return Outcome{}, fmt.Errorf("workflow: topic is required")
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("workflow: canceled before start: %w", err)
	}

	state := &RunState{
		Topic:          topic,
		IterationLimit: e.limit,
	}
	var reason TerminationReason

	phase := PhaseResearch
	for {
		if phase != PhaseFinalize && ctx.Err() != nil {
			reason = ReasonCanceled
			e.trace(state, phase, "run canceled; finalizing with best available deck")
			phase = PhaseFinalize
		}
		switch phase {
		case PhaseResearch:
			state.Research = e.runResearch(ctx, state, "")
			phase = PhaseDraft

		case PhaseDraft:
			state.Draft = e.runDraft(ctx, state, "")
			phase = PhaseReview

		case PhaseReview:
			// Budget gate before the review is even attempted: with a
			// zero limit the reviewer is never invoked.
			if state.Iteration >= state.IterationLimit {
				reason = ReasonBudgetExhausted
				e.trace(state, PhaseReview, fmt.Sprintf("iteration limit (%d) reached before review", state.IterationLimit))
				phase = PhaseFinalize
				continue
			}
			state.Decision = e.runReview(ctx, state)
			state.Iteration++
			e.trace(state, PhaseReview, fmt.Sprintf("review complete, decision %q", state.Decision.Kind))

			// The budget check takes precedence over the decision so a
			// perpetually revising reviewer cannot loop forever.
			switch {
			case state.Iteration >= state.IterationLimit:
				reason = ReasonBudgetExhausted
				e.trace(state, PhaseReview, fmt.Sprintf("iteration limit (%d) reached, finalizing", state.IterationLimit))
				phase = PhaseFinalize
			case state.Decision.Kind == content.DecisionApprove:
				reason = ReasonApproved
				phase = PhaseFinalize
			default:
				phase = PhaseRevise
			}

		case PhaseRevise:
			e.dispatchRevision(ctx, state)
			phase = PhaseReview

		case PhaseFinalize:
			e.finalize(state, reason)
			return Outcome{
				Final:      state.Final,
				Research:   state.Research,
				Iterations: state.Iteration,
				Reason:     reason,
				Trace:      state.Trace,
			}, nil
		}
	}
}

// runResearch invokes the research capability and absorbs any failure
// into a populated, error-marked artifact so drafting always has input.
func (e *Engine) runResearch(ctx context.Context, state *RunState, focus string) content.ResearchArtifact {
	artifact, err := e.researcher.Research(ctx, state.Topic, focus)
	if err != nil {
		e.log.Warn("workflow: research failed: %v", err)
		artifact = content.ResearchArtifact{
			Topic: state.Topic,
			Text:  fmt.Sprintf("Research unavailable: %v", err),
			Focus: focus,
			Err:   err.Error(),
		}
	}
	if artifact.Empty() {
		artifact.Text = "No research content was produced."
		if artifact.Err == "" {
			artifact.Err = "empty research artifact"
		}
	}
	e.trace(state, PhaseResearch, fmt.Sprintf("research complete (%d words)", artifact.WordCount))
	return artifact
}

// runDraft invokes the drafting capability. The capability contract says
// failures come back as error decks; a non-nil error from a foreign
// implementation is translated here as a second line of defense.
func (e *Engine) runDraft(ctx context.Context, state *RunState, guidance string) content.DraftArtifact {
	deck, err := e.drafter.Draft(ctx, state.Research, guidance)
	if err != nil {
		e.log.Warn("workflow: draft failed: %v", err)
		deck = content.ErrorDraft(state.Topic, err.Error())
	}
	if deck.Topic == "" {
		deck.Topic = state.Topic
	}
	e.trace(state, PhaseDraft, fmt.Sprintf("draft complete with %d slides", deck.SlideCount))
	return deck
}

// runReview obtains a decision for the current deck and normalizes it to
// the closed decision set. A structurally invalid deck short-circuits to
// a synthetic revise-draft decision without consulting the reviewer.
func (e *Engine) runReview(ctx context.Context, state *RunState) content.Decision {
	if !state.Draft.Valid() && !state.Draft.Failed() {
		e.log.Error("workflow: deck failed structural invariants (%d slides), treating as revise_draft", state.Draft.SlideCount)
		e.trace(state, PhaseReview, "anomaly: structurally invalid deck, synthesizing revise_draft")
		return content.Decision{
			Kind:     content.DecisionReviseDraft,
			Feedback: "The drafted deck was structurally invalid and must be regenerated.",
		}
	}

	decision, err := e.reviewer.Review(ctx, state.Draft, state.Research)
	if err != nil {
		e.log.Warn("workflow: review failed: %v", err)
		decision = content.Decision{
			Kind:     content.DecisionReviseDraft,
			Feedback: fmt.Sprintf("Review unavailable (%v); please improve the deck quality.", err),
		}
	}
	return e.normalize(state, decision)
}

// normalize coerces any decision kind outside the valid set to
// revise_draft, the conservative default. The coercion is traced so a
// misbehaving reviewer stays debuggable.
func (e *Engine) normalize(state *RunState, decision content.Decision) content.Decision {
	if decision.Kind.Actionable() {
		return decision
	}
	e.log.Warn("workflow: invalid decision kind %q, defaulting to revise_draft", decision.Kind)
	e.trace(state, PhaseReview, fmt.Sprintf("normalized decision kind %q to %q", decision.Kind, content.DecisionReviseDraft))
	decision.Kind = content.DecisionReviseDraft
	return decision
}

// finalize materializes the final deck. Idempotent: a second call leaves
// the state untouched.
func (e *Engine) finalize(state *RunState, reason TerminationReason) {
	if state.finalized {
		return
	}
	state.Final = state.Draft
	state.finalized = true
	e.trace(state, PhaseFinalize, fmt.Sprintf("run finalized (%s) after %d iteration(s)", reason, state.Iteration))
}

func (e *Engine) trace(state *RunState, phase Phase, summary string) {
	event := TraceEvent{
		Phase:     phase,
		Iteration: state.Iteration,
		Summary:   summary,
		At:        e.clock(),
	}
	state.Trace = append(state.Trace, event)
	e.log.Info("workflow: [%s i=%d] %s", phase, state.Iteration, summary)
	if e.observer != nil {
		e.observer(event)
	}
}
