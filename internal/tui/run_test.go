package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidesmith/slidesmith/internal/content"
	"github.com/slidesmith/slidesmith/internal/workflow"
)

func testOutcome() workflow.Outcome {
	deck := content.DraftArtifact{
		Topic: "Graph Databases",
		Slides: []content.Slide{
			{Index: 1, Title: "Why Graphs", Body: "Relationships are first-class."},
			{Index: 2, Title: "Traversals", Body: "Queries walk edges."},
		},
		SlideCount: 2,
	}
	return workflow.Outcome{
		Final:      deck,
		Iterations: 1,
		Reason:     workflow.ReasonApproved,
	}
}

func TestModelFoldsTraceAndResult(t *testing.T) {
	model := NewModel("Graph Databases", func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error) {
		return testOutcome(), nil
	})

	event := workflow.TraceEvent{
		Phase:     workflow.PhaseResearch,
		Iteration: 0,
		Summary:   "research complete",
		At:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	updated, cmd := model.Update(traceMsg{event: event})
	model = updated.(*Model)
	if cmd == nil {
		t.Fatalf("trace message must re-arm the event listener")
	}
	if len(model.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(model.events))
	}

	updated, cmd = model.Update(runDoneMsg{outcome: testOutcome()})
	model = updated.(*Model)
	if !model.Done() {
		t.Fatalf("model must be done after run result")
	}
	if cmd == nil {
		t.Fatalf("run result must quit the program")
	}
	outcome, err := model.Outcome()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Reason != workflow.ReasonApproved {
		t.Fatalf("expected approved outcome, got %s", outcome.Reason)
	}
}

func TestViewShowsTraceAndSummary(t *testing.T) {
	model := NewModel("Graph Databases", func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error) {
		return testOutcome(), nil
	})
	event := workflow.TraceEvent{
		Phase:     workflow.PhaseReview,
		Iteration: 1,
		Summary:   "review complete, decision \"approve\"",
		At:        time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC),
	}
	updated, _ := model.Update(traceMsg{event: event})
	model = updated.(*Model)
	updated, _ = model.Update(runDoneMsg{outcome: testOutcome()})
	model = updated.(*Model)

	view := model.View()
	if !strings.Contains(view, "Graph Databases") {
		t.Fatalf("view must name the topic:\n%s", view)
	}
	if !strings.Contains(view, "review complete") {
		t.Fatalf("view must show the trace:\n%s", view)
	}
	if !strings.Contains(view, "Iterations: 1") {
		t.Fatalf("view must show the summary:\n%s", view)
	}
}

func TestObserverNeverBlocks(t *testing.T) {
	model := NewModel("Graph Databases", func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error) {
		return testOutcome(), nil
	})
	observe := model.Observer()
	// Push more events than the channel buffers; extras are dropped
	// rather than stalling the caller.
	for i := 0; i < 200; i++ {
		observe(workflow.TraceEvent{Phase: workflow.PhaseDraft, Iteration: 0, Summary: "draft complete"})
	}
}

func TestCancelKeyStopsTheRun(t *testing.T) {
	started := make(chan struct{})
	model := NewModel("Graph Databases", func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error) {
		close(started)
		<-ctx.Done()
		out := testOutcome()
		out.Reason = workflow.ReasonCanceled
		return out, nil
	})
	cmd := model.Init()
	if cmd == nil {
		t.Fatalf("init must return a command")
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not start")
	}

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(*Model)

	select {
	case done := <-model.result:
		if done.outcome.Reason != workflow.ReasonCanceled {
			t.Fatalf("expected canceled outcome, got %s", done.outcome.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not finish after cancellation")
	}
}
