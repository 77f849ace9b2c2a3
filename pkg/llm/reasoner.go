// Package llm defines the reasoning-service collaborator consumed by the
// agent and the exploration orchestrator, together with the deterministic
// fallbacks used when a reasoning call fails.
package llm

import (
	"context"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
)

// PlanRequest asks the reasoning service to prioritize navigation
// candidates for exploration.
type PlanRequest struct {
	BaseURL     string
	PageContext *browser.PageContext
	Candidates  []browser.Candidate
}

// PlanEntry ranks one candidate in the exploration plan.
type PlanEntry struct {
	Label        string   `json:"label"`
	Priority     string   `json:"priority"` // high, medium, low
	Reason       string   `json:"reason"`
	ExpectedAPIs []string `json:"expectedApis"`
}

// SkipEntry names a candidate the plan recommends skipping.
type SkipEntry struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// ExplorationPlan is the prioritization returned for a plan request.
type ExplorationPlan struct {
	AppOverview      string      `json:"appOverview"`
	Domain           string      `json:"domain"`
	PrioritizedPages []PlanEntry `json:"prioritizedPages"`
	SkipReasons      []SkipEntry `json:"skipReasons"`
	ExpectedEntities []string    `json:"expectedEntities"`
}

// InsightRequest asks for the analysis of one visited page. Calls holds
// only the API delta attributed to the visit, not the full session list.
type InsightRequest struct {
	PageLabel   string
	Screenshot  []byte
	PageContext *browser.PageContext
	Calls       []capture.CapturedCall
}

// PageInsight is the per-page analysis returned for an insight request.
type PageInsight struct {
	PageType           string   `json:"pageType"`
	Insight            string   `json:"insight"`
	APIsAnalyzed       []string `json:"apisAnalyzed"`
	EntitiesDiscovered []string `json:"entitiesDiscovered"`
	ExplorationValue   string   `json:"explorationValue"`
	SuggestedDeepDive  string   `json:"suggestedDeepDive,omitempty"`
}

// SummaryRequest asks for a synthesis of a whole exploration run.
type SummaryRequest struct {
	BaseURL         string
	PageAPIs        map[string][]string
	UniqueEndpoints int
}

// ExplorationSummary is the synthesis returned for a summary request.
type ExplorationSummary struct {
	AppName         string   `json:"appName"`
	AppDomain       string   `json:"appDomain"`
	Summary         string   `json:"summary"`
	TopFindings     []string `json:"topFindings"`
	CoveragePercent int      `json:"coveragePercent"`
	UnexploredAreas []string `json:"unexploredAreas"`
	Recommendations []string `json:"recommendations"`
}

// Command is a structured browser instruction derived from a
// natural-language user instruction.
type Command struct {
	// Kind is one of: navigate, click, fill, press, back, capture_start,
	// capture_stop, explore, mode, flow_start, flow_end, unknown.
	Kind string `json:"kind"`

	// Target is the URL, element label, selector, key, flow name, or mode.
	Target string `json:"target,omitempty"`

	// Value is the input value for fill commands.
	Value string `json:"value,omitempty"`
}

// Reasoner is the black-box vision/language capability. Every call may
// fail; callers must degrade to the deterministic fallbacks in this
// package rather than propagate the failure.
type Reasoner interface {
	PlanExploration(ctx context.Context, req PlanRequest) (*ExplorationPlan, error)
	AnalyzePage(ctx context.Context, req InsightRequest) (*PageInsight, error)
	SummarizeExploration(ctx context.Context, req SummaryRequest) (*ExplorationSummary, error)
	InterpretInstruction(ctx context.Context, instruction string, pageContext *browser.PageContext) (*Command, error)
}
