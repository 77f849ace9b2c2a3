// Package main provides the Scout application: a developer-facing agent
// that observes a web app's UI and network traffic in a real browser,
// gates risky operations behind human approval, and autonomously explores
// the app to discover and document its APIs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/entrhq/scout/pkg/agent"
	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
	appconfig "github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/explore"
	"github.com/entrhq/scout/pkg/flow"
	"github.com/entrhq/scout/pkg/llm"
	"github.com/entrhq/scout/pkg/tui"
	"github.com/entrhq/scout/pkg/types"
)

const version = "0.1.0"

// Config holds the application configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	StartURL    string
	Mode        string
	Headless    bool
	ShowVersion bool
}

func main() {
	// A local .env is optional; flags and real env take precedence.
	_ = godotenv.Load()

	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Scout v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags parses command line flags and environment variables
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&config.BaseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&config.Model, "model", "", "LLM model to use")
	flag.StringVar(&config.StartURL, "url", "", "URL to open on startup (optional)")
	flag.StringVar(&config.Mode, "mode", "observe_only", "Execution mode: execute, observe_only, or document_only")
	flag.BoolVar(&config.Headless, "headless", false, "Run the browser headless")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scout - observe, gate, and explore a web app's APIs\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scout [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key (optional; deterministic fallbacks without it)\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scout -url https://app.example.com\n")
		fmt.Fprintf(os.Stderr, "  scout -mode execute -model gpt-4o\n")
	}

	flag.Parse()
	return config
}

// run wires the collaborators together and starts the TUI.
func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(""); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	mode := types.ExecutionMode(config.Mode)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q (want execute, observe_only, or document_only)", config.Mode)
	}
	core := agent.New(mode)

	// The accumulator forwards every observed response through the agent's
	// risk gate, whether or not a capture session is active.
	acc := capture.NewAccumulator(func(method, url string, status int) {
		// Risk gating may block on a human decision; the browser driver
		// already runs response handling off the event loop.
		_, _ = core.HandleNetworkCall(context.Background(), method, url, status)
	})
	if c := appconfig.GetCapture(); c != nil {
		acc.SetBodyCap(c.GetBodyCap())
	}

	headless := config.Headless
	if b := appconfig.GetBrowser(); b != nil && !headless {
		headless = b.GetHeadless()
	}
	driver, err := browser.NewPlaywrightDriver(acc, browser.Options{Headless: headless})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer driver.Close()

	// A nil reasoner is fine; everything degrades to deterministic
	// fallbacks.
	var reasoner llm.Reasoner
	openaiReasoner, err := appconfig.BuildReasoner(config.Model, config.BaseURL, config.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create reasoning client: %w", err)
	}
	if openaiReasoner != nil {
		reasoner = openaiReasoner
	}

	flows := flow.NewTracker(core.Emit)
	orchestrator := explore.NewOrchestrator(core, driver, reasoner, acc)
	if e := appconfig.GetExploration(); e != nil {
		orchestrator.VisitBudget = e.GetVisitBudget()
		orchestrator.SettleDelay = e.GetSettleDelay()
		matcher, err := explore.CompileUnsafePatterns(e.GetUnsafePatterns())
		if err != nil {
			return fmt.Errorf("invalid exploration config: %w", err)
		}
		orchestrator.ExtraUnsafe = matcher
	}
	interpreter := agent.NewInterpreter(reasoner)

	app := tui.NewApp(core, driver, acc, flows, orchestrator, interpreter)

	if config.StartURL != "" {
		if err := driver.Navigate(ctx, config.StartURL, browser.WaitLoad); err != nil {
			return fmt.Errorf("failed to open %s: %w", config.StartURL, err)
		}
	}

	return tui.NewExecutor(app).Run(ctx)
}
