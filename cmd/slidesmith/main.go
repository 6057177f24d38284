package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/slidesmith/slidesmith/internal/artifact"
	"github.com/slidesmith/slidesmith/internal/config"
	"github.com/slidesmith/slidesmith/internal/export"
	"github.com/slidesmith/slidesmith/internal/llm"
	"github.com/slidesmith/slidesmith/internal/logbook"
	"github.com/slidesmith/slidesmith/internal/roles"
	"github.com/slidesmith/slidesmith/internal/search"
	"github.com/slidesmith/slidesmith/internal/stylevault"
	"github.com/slidesmith/slidesmith/internal/tui"
	"github.com/slidesmith/slidesmith/internal/workflow"
)

func main() {
	topic := flag.String("topic", "", "topic to generate a deck for")
	configPath := flag.String("config", "", "path to a slidesmith.yaml config file")
	outDir := flag.String("out", "", "output directory override")
	iterations := flag.Int("iterations", -1, "review iteration limit override (0 skips review)")
	offline := flag.Bool("offline", false, "run with scripted model responses, no network")
	plain := flag.Bool("plain", false, "print progress lines instead of the interactive view")
	initConfig := flag.String("init", "", "write a default config file to the given path and exit")
	flag.Parse()

	if path := strings.TrimSpace(*initConfig); path != "" {
		if err := config.WriteDefault(path); err != nil {
			die("%v", err)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		die("%v", err)
	}
	if strings.TrimSpace(*outDir) != "" {
		cfg.General.OutputDir = *outDir
	}
	if *iterations >= 0 {
		cfg.General.IterationLimit = *iterations
	}
	runTopic := strings.TrimSpace(*topic)
	if runTopic == "" {
		runTopic = strings.TrimSpace(cfg.General.DefaultTopic)
	}
	if runTopic == "" {
		die("-topic is required (or set general.default_topic in the config)")
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: log file unavailable: %v\n", err)
	}
	lb.Info("run requested · topic %q · iteration limit %d", runTopic, cfg.General.IterationLimit)

	caps, err := buildCapabilities(cfg, runTopic, lb, *offline)
	if err != nil {
		die("%v", err)
	}
	newEngine := func(observe workflow.Observer) (*workflow.Engine, error) {
		opts := []workflow.Option{workflow.WithLogbook(lb)}
		if observe != nil {
			opts = append(opts, workflow.WithObserver(observe))
		}
		return workflow.New(caps.researcher, caps.drafter, caps.reviewer, cfg.General.IterationLimit, opts...)
	}

	run := artifact.NewRun(cfg.General.OutputDir, artifact.RunID(runTopic, time.Now()))
	exporter, err := export.NewExporter(run, artifact.NewStore(run), lb)
	if err != nil {
		die("%v", err)
	}

	var outcome workflow.Outcome
	if *plain {
		outcome, err = runPlain(newEngine, runTopic)
	} else {
		outcome, err = tui.Run(runTopic, func(ctx context.Context, observe workflow.Observer) (workflow.Outcome, error) {
			engine, buildErr := newEngine(observe)
			if buildErr != nil {
				return workflow.Outcome{}, buildErr
			}
			return engine.Run(ctx, runTopic)
		})
	}
	if err != nil {
		die("run failed: %v", err)
	}

	paths, err := exporter.Export(outcome)
	if err != nil {
		die("export failed: %v", err)
	}
	printSummary(outcome, paths)
}

// capabilities groups the three content roles the engine drives.
type capabilities struct {
	researcher *roles.Researcher
	drafter    *roles.Drafter
	reviewer   *roles.Reviewer
}

func buildCapabilities(cfg *config.Config, topic string, lb *logbook.Logbook, offline bool) (capabilities, error) {
	researchClient, draftClient, reviewClient, err := buildClients(cfg, offline)
	if err != nil {
		return capabilities{}, err
	}
	provider, err := buildSearchProvider(cfg, lb, offline)
	if err != nil {
		return capabilities{}, err
	}

	examples, err := loadStyleExamples(cfg, topic, lb)
	if err != nil {
		return capabilities{}, err
	}

	researcher, err := roles.NewResearcher(researchClient, provider, roles.ResearcherConfig{
		WordLimit:    cfg.Researcher.WordLimit,
		MaxResults:   cfg.Search.MaxResults,
		Instructions: cfg.Researcher.Instructions,
	}, lb)
	if err != nil {
		return capabilities{}, err
	}
	drafter, err := roles.NewDrafter(draftClient, roles.DrafterConfig{
		MaxSlides:    cfg.Drafter.MaxSlides,
		Instructions: cfg.Drafter.Instructions,
		Examples:     examples,
	}, lb)
	if err != nil {
		return capabilities{}, err
	}
	reviewer, err := roles.NewReviewer(reviewClient, roles.ReviewerConfig{
		Instructions: cfg.Reviewer.Instructions,
	}, lb)
	if err != nil {
		return capabilities{}, err
	}
	return capabilities{researcher: researcher, drafter: drafter, reviewer: reviewer}, nil
}

func buildClients(cfg *config.Config, offline bool) (research, draft, review llm.Client, err error) {
	if offline {
		return offlineResearchClient(), offlineDraftClient(), offlineReviewClient(), nil
	}
	apiKey := strings.TrimSpace(os.Getenv(cfg.LLM.APIKeyEnv))
	if apiKey == "" {
		return nil, nil, nil, fmt.Errorf("environment variable %s is not set (or pass -offline)", cfg.LLM.APIKeyEnv)
	}
	build := func(role config.Role) (llm.Client, error) {
		return llm.NewOpenAIClient(llm.Settings{
			Provider:    cfg.LLM.Provider,
			Model:       role.Model,
			APIKey:      apiKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: role.Temperature,
			MaxTokens:   role.MaxTokens,
		})
	}
	if research, err = build(cfg.Researcher); err != nil {
		return nil, nil, nil, err
	}
	if draft, err = build(cfg.Drafter); err != nil {
		return nil, nil, nil, err
	}
	if review, err = build(cfg.Reviewer); err != nil {
		return nil, nil, nil, err
	}
	return research, draft, review, nil
}

func buildSearchProvider(cfg *config.Config, lb *logbook.Logbook, offline bool) (search.Provider, error) {
	if offline || strings.EqualFold(cfg.Search.Provider, "static") {
		return search.Static{}, nil
	}
	apiKey := strings.TrimSpace(os.Getenv(cfg.Search.APIKeyEnv))
	if apiKey == "" {
		lb.Warn("search: %s is not set, research proceeds without web results", cfg.Search.APIKeyEnv)
		return search.Static{}, nil
	}
	return search.NewTavilyClient(apiKey, search.WithDepth(cfg.Search.Depth))
}

func loadStyleExamples(cfg *config.Config, topic string, lb *logbook.Logbook) ([]stylevault.Post, error) {
	posts, err := stylevault.Load(cfg.StyleVault)
	if err != nil {
		return nil, fmt.Errorf("style vault: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	matched := stylevault.ByTopic(posts, topic)
	if len(matched) == 0 {
		matched = posts
	}
	// A couple of reference decks keeps the drafting prompt bounded.
	if len(matched) > 2 {
		matched = matched[:2]
	}
	lb.Info("style vault: %d post(s) loaded, %d used as references", len(posts), len(matched))
	return matched, nil
}

// Offline clients replay fixed responses so the full pipeline can be
// exercised without network access or API keys.

func offlineResearchClient() llm.Client {
	client := llm.NewScripted()
	client.Fallback = "The topic rests on three pillars. First, the core mechanism and the " +
		"constraints it operates under. Second, the trade-offs practitioners weigh when " +
		"applying it. Third, the common failure modes and how mature teams mitigate them. " +
		"Together these frame a practical introduction for a technical audience."
	return client
}

func offlineDraftClient() llm.Client {
	client := llm.NewScripted()
	client.Fallback = `{"slides": [
  {"page_number": 1, "title": "The Core Idea", "content": "What the concept is and the constraint it answers.", "layout": "title-bullets"},
  {"page_number": 2, "title": "Trade-offs", "content": "What you gain, what you give up, and when the balance tips.", "layout": "two-column"},
  {"page_number": 3, "title": "Failure Modes", "content": "Where implementations go wrong and the mitigations that work.", "layout": "title-bullets"}
]}`
	return client
}

func offlineReviewClient() llm.Client {
	client := llm.NewScripted()
	client.Fallback = `{"decision": "approve", "feedback": "Clear structure and accurate framing.", "suggestions": []}`
	return client
}

// runPlain executes the workflow headless, printing one line per trace
// event. Ctrl-C cancels at the next phase boundary.
func runPlain(newEngine func(workflow.Observer) (*workflow.Engine, error), topic string) (workflow.Outcome, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	engine, err := newEngine(func(event workflow.TraceEvent) {
		fmt.Printf("%s  %-9s i%d  %s\n", event.At.Format("15:04:05"), event.Phase, event.Iteration, event.Summary)
	})
	if err != nil {
		return workflow.Outcome{}, err
	}
	return engine.Run(ctx, topic)
}

func printSummary(outcome workflow.Outcome, paths export.Paths) {
	fmt.Printf("\nRun finished: %s after %d iteration(s)\n", outcome.Reason, outcome.Iterations)
	fmt.Printf("Deck: %d slide(s)\n", len(outcome.Final.Slides))
	fmt.Printf("  research  %s\n", paths.ResearchDoc)
	fmt.Printf("  deck      %s\n", paths.DeckJSON)
	fmt.Printf("  preview   %s\n", paths.DeckHTML)
	fmt.Printf("  journal   %s\n", paths.Journal)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
