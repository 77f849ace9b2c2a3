// Package explore implements the bounded autonomous exploration loop:
// plan a visit order from the page's navigation candidates, visit each
// safe candidate while attributing captured API calls to it, and
// synthesize a run summary.
package explore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/entrhq/scout/pkg/agent"
	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/llm"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/types"
)

// DefaultVisitBudget is the maximum number of pages one exploration run
// will visit.
const DefaultVisitBudget = 8

// DefaultSettleDelay is how long the loop waits after a navigation for
// asynchronous API calls to land before attributing the capture delta.
const DefaultSettleDelay = 1500 * time.Millisecond

// Orchestrator runs the three-phase exploration loop. It consumes the
// agent core for events and human decisions, the browser driver for
// navigation, the capture accumulator for call attribution, and the
// reasoning service for prioritization and analysis. Every reasoning
// failure degrades to a deterministic fallback; the run never aborts on
// reduced intelligence.
type Orchestrator struct {
	agent    *agent.Agent
	driver   browser.Driver
	reasoner llm.Reasoner
	acc      *capture.Accumulator
	log      *logging.Logger

	// VisitBudget caps pages visited per run.
	VisitBudget int

	// SettleDelay is the post-navigation wait before reading the capture
	// delta.
	SettleDelay time.Duration

	// ExtraUnsafe holds user-configured label patterns skipped the same
	// way as the built-in unsafe set.
	ExtraUnsafe LabelMatcher
}

// NewOrchestrator creates an exploration orchestrator with the default
// budget and settle delay. The reasoner may be nil; planning and analysis
// then use the deterministic fallbacks throughout.
func NewOrchestrator(a *agent.Agent, driver browser.Driver, reasoner llm.Reasoner, acc *capture.Accumulator) *Orchestrator {
	log, _ := logging.NewLogger("explore")
	return &Orchestrator{
		agent:       a,
		driver:      driver,
		reasoner:    reasoner,
		acc:         acc,
		log:         log,
		VisitBudget: DefaultVisitBudget,
		SettleDelay: DefaultSettleDelay,
	}
}

// Run executes one exploration run rooted at baseURL. Cancellation is
// honored between candidates, never mid-visit: a navigation + settle +
// insight sequence that has started runs to completion or fails and moves
// on.
func (o *Orchestrator) Run(ctx context.Context, baseURL string) error {
	baseHost := hostnameOf(baseURL)

	candidates, err := o.driver.GetNavigationCandidates(ctx)
	if err != nil {
		return fmt.Errorf("collecting navigation candidates: %w", err)
	}
	candidates = browser.DedupeCandidates(candidates)
	if len(candidates) == 0 {
		o.agent.Emit(types.NewInfoEvent("Exploration finished: no navigation candidates on this page."))
		return nil
	}

	plan := o.plan(ctx, baseURL, candidates)
	order := buildOrder(plan, candidates)
	skips := skipReasons(plan)

	visited := 0
	visitedHrefs := make(map[string]struct{})
	pageAPIs := make(map[string][]string)

	for _, c := range order {
		if visited >= o.VisitBudget {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if UnsafeLabel(c.Label) || o.ExtraUnsafe.Match(c.Label) {
			o.log.Infof("skipping unsafe candidate %q", c.Label)
			continue
		}
		risky := RiskyNavigation(baseHost, c)
		if reason, skip := skips[normalizeLabel(c.Label)]; skip && !risky {
			o.agent.Emit(types.NewInfoEvent(fmt.Sprintf("Skipping %q: %s", c.Label, reason)))
			continue
		}
		if c.Href != "" {
			if _, dup := visitedHrefs[c.Href]; dup {
				continue
			}
		}
		if risky {
			d, err := o.agent.RequestActionDecision(ctx, fmt.Sprintf("Navigate to %q (%s)", c.Label, c.Href), "target is outside the app's host")
			if err != nil {
				return err
			}
			if !d.Granted() {
				o.agent.Emit(types.NewInfoEvent(fmt.Sprintf("Skipping %q: declined", c.Label)))
				continue
			}
		}

		calls, ok := o.visit(ctx, c)
		if !ok {
			continue
		}
		if c.Href != "" {
			visitedHrefs[c.Href] = struct{}{}
		}
		visited++

		insight := o.analyze(ctx, c.Label, calls)
		pageAPIs[c.Label] = apiList(calls)
		o.agent.Emit(types.NewExplorationInsightEvent(c.Label, len(calls), insight.Insight, insight.EntitiesDiscovered))

		o.returnToBase(ctx, baseURL)
	}

	if visited == 0 {
		o.agent.Emit(types.NewInfoEvent("Exploration finished: no pages visited."))
		return nil
	}
	o.summarize(ctx, baseURL, visited, pageAPIs)
	return nil
}

// plan runs phase 1, degrading to the uniform fallback plan on failure.
func (o *Orchestrator) plan(ctx context.Context, baseURL string, candidates []browser.Candidate) *llm.ExplorationPlan {
	o.agent.Emit(types.NewLLMStatusEvent("Planning exploration..."))
	pageCtx, err := o.driver.GetPageContext(ctx)
	if err != nil {
		pageCtx = nil
	}

	if o.reasoner != nil {
		plan, err := o.reasoner.PlanExploration(ctx, llm.PlanRequest{
			BaseURL:     baseURL,
			PageContext: pageCtx,
			Candidates:  candidates,
		})
		if err == nil && plan != nil {
			return plan
		}
		if err != nil {
			o.log.Errorf("exploration planning failed, using fallback order: %v", err)
		}
	}
	return llm.FallbackPlan(candidates)
}

// visit runs the navigate + settle + delta sequence for one candidate,
// returning the capture delta attributed to the page. A navigation
// failure is caught and reported; the candidate is skipped.
func (o *Orchestrator) visit(ctx context.Context, c browser.Candidate) ([]capture.CapturedCall, bool) {
	session := o.acc.Session()
	watermark := 0
	if session != nil {
		watermark = session.Len()
	}

	var err error
	if c.Href != "" {
		err = o.driver.Navigate(ctx, c.Href, browser.WaitDOMReady)
	} else {
		err = o.driver.ClickByText(ctx, c.Label)
	}
	if err != nil {
		o.agent.Emit(types.NewInfoEvent(fmt.Sprintf("Could not open %q: %v", c.Label, err)))
		o.log.Errorf("navigation to %q failed: %v", c.Label, err)
		return nil, false
	}

	time.Sleep(o.SettleDelay)

	if session == nil {
		return nil, true
	}
	return session.CallsSince(watermark), true
}

// analyze runs the per-page insight request, degrading to the templated
// fallback insight on failure.
func (o *Orchestrator) analyze(ctx context.Context, label string, calls []capture.CapturedCall) *llm.PageInsight {
	if o.reasoner == nil {
		return llm.FallbackInsight(label, calls)
	}

	o.agent.Emit(types.NewLLMStatusEvent(fmt.Sprintf("Analyzing %q...", label)))
	screenshot, err := o.driver.Screenshot(ctx)
	if err != nil {
		screenshot = nil
	}
	pageCtx, err := o.driver.GetPageContext(ctx)
	if err != nil {
		pageCtx = nil
	}

	insight, err := o.reasoner.AnalyzePage(ctx, llm.InsightRequest{
		PageLabel:   label,
		Screenshot:  screenshot,
		PageContext: pageCtx,
		Calls:       calls,
	})
	if err != nil || insight == nil {
		o.log.Errorf("page analysis for %q failed, using fallback insight: %v", label, err)
		return llm.FallbackInsight(label, calls)
	}
	return insight
}

// summarize runs phase 3 and emits the exploration_summary event.
func (o *Orchestrator) summarize(ctx context.Context, baseURL string, visited int, pageAPIs map[string][]string) {
	unique := make(map[string]struct{})
	for _, apis := range pageAPIs {
		for _, api := range apis {
			unique[api] = struct{}{}
		}
	}
	req := llm.SummaryRequest{
		BaseURL:         baseURL,
		PageAPIs:        pageAPIs,
		UniqueEndpoints: len(unique),
	}

	var summary *llm.ExplorationSummary
	if o.reasoner != nil {
		o.agent.Emit(types.NewLLMStatusEvent("Summarizing exploration..."))
		s, err := o.reasoner.SummarizeExploration(ctx, req)
		if err != nil || s == nil {
			o.log.Errorf("exploration summary failed, using fallback: %v", err)
		} else {
			summary = s
		}
	}
	if summary == nil {
		summary = llm.FallbackSummary(req)
	}

	o.agent.Emit(types.NewExplorationSummaryEvent(&types.ExplorationSummaryEvent{
		AppName:         summary.AppName,
		Summary:         summary.Summary,
		TopFindings:     summary.TopFindings,
		CoveragePercent: summary.CoveragePercent,
		UnexploredAreas: summary.UnexploredAreas,
		Recommendations: summary.Recommendations,
		PagesVisited:    visited,
		UniqueEndpoints: len(unique),
	}))
}

// returnToBase goes back in history, soft-navigating to the base URL when
// history navigation fails, then waits briefly before the next candidate.
func (o *Orchestrator) returnToBase(ctx context.Context, baseURL string) {
	if err := o.driver.GoBack(ctx); err != nil {
		if err := o.driver.Navigate(ctx, baseURL, browser.WaitDOMReady); err != nil {
			o.log.Errorf("returning to %s failed: %v", baseURL, err)
		}
	}
	time.Sleep(o.SettleDelay / 2)
}

// apiList computes the distinct endpoint identities in a page's call
// delta, in first-seen order.
func apiList(calls []capture.CapturedCall) []string {
	seen := make(map[string]struct{}, len(calls))
	out := make([]string, 0, len(calls))
	for _, call := range calls {
		key := capture.DedupKey(call.Method, call.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
