package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
)

// FallbackPlan returns a uniform medium-priority plan in discovery order,
// used when the reasoning service cannot produce one. The session
// progresses with reduced intelligence rather than terminating.
func FallbackPlan(candidates []browser.Candidate) *ExplorationPlan {
	plan := &ExplorationPlan{
		AppOverview: "Plan unavailable; visiting candidates in discovery order.",
	}
	for _, c := range candidates {
		plan.PrioritizedPages = append(plan.PrioritizedPages, PlanEntry{
			Label:    c.Label,
			Priority: "medium",
			Reason:   "default ordering",
		})
	}
	return plan
}

// FallbackInsight returns a terse templated insight for a visited page.
func FallbackInsight(pageLabel string, calls []capture.CapturedCall) *PageInsight {
	apis := make([]string, 0, len(calls))
	for _, c := range calls {
		apis = append(apis, fmt.Sprintf("%s %s", c.Method, c.URL))
	}
	return &PageInsight{
		PageType:         "unknown",
		Insight:          fmt.Sprintf("Visited %q; %d API call(s) observed. Analysis unavailable.", pageLabel, len(calls)),
		APIsAnalyzed:     apis,
		ExplorationValue: "unknown",
	}
}

// FallbackSummary returns a terse templated synthesis of an exploration run.
func FallbackSummary(req SummaryRequest) *ExplorationSummary {
	return &ExplorationSummary{
		AppName:   req.BaseURL,
		AppDomain: "unknown",
		Summary: fmt.Sprintf("Explored %d page(s); %d unique endpoint(s) discovered. Synthesis unavailable.",
			len(req.PageAPIs), req.UniqueEndpoints),
		CoveragePercent: 0,
	}
}

// Heuristic instruction patterns, tried in order. They back up the
// reasoning service's natural-language interpretation.
var (
	navigatePattern     = regexp.MustCompile(`(?i)^(?:go to|open|visit|navigate to)\s+(\S+)`)
	clickPattern        = regexp.MustCompile(`(?i)^(?:click|press on|tap)\s+(?:on\s+)?(?:the\s+)?(.+)$`)
	fillPattern         = regexp.MustCompile(`(?i)^fill\s+(.+?)\s+with\s+(.+)$`)
	typePattern         = regexp.MustCompile(`(?i)^(?:type|enter)\s+(.+?)\s+(?:in|into)\s+(?:the\s+)?(.+)$`)
	pressKeyPattern     = regexp.MustCompile(`(?i)^press\s+(enter|tab|escape|space|backspace|arrowup|arrowdown|arrowleft|arrowright)$`)
	captureStartPattern = regexp.MustCompile(`(?i)^(?:start|begin)\s+captur\w*(?:\s+(\S+))?`)
	captureStopPattern  = regexp.MustCompile(`(?i)^(?:stop|end|finalize)\s+captur\w*`)
	explorePattern      = regexp.MustCompile(`(?i)^explore\b`)
	modePattern         = regexp.MustCompile(`(?i)^(?:set\s+)?mode\s+(\S+)`)
	flowStartPattern    = regexp.MustCompile(`(?i)^start\s+flow\s+(.+)$`)
	flowEndPattern      = regexp.MustCompile(`(?i)^end\s+flow\b`)
	backPattern         = regexp.MustCompile(`(?i)^(?:go\s+)?back$`)
)

// keyNames maps spoken key names to the driver's key identifiers.
var keyNames = map[string]string{
	"enter":      "Enter",
	"tab":        "Tab",
	"escape":     "Escape",
	"space":      "Space",
	"backspace":  "Backspace",
	"arrowup":    "ArrowUp",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
}

// HeuristicCommand interprets an instruction with regex heuristics. It is
// total and deterministic; unrecognized instructions map to an unknown
// command rather than an error.
func HeuristicCommand(instruction string) *Command {
	s := strings.TrimSpace(instruction)
	switch {
	case s == "":
		return &Command{Kind: "unknown"}
	case backPattern.MatchString(s):
		return &Command{Kind: "back"}
	case pressKeyPattern.MatchString(s):
		m := pressKeyPattern.FindStringSubmatch(s)
		return &Command{Kind: "press", Target: keyNames[strings.ToLower(m[1])]}
	case navigatePattern.MatchString(s):
		m := navigatePattern.FindStringSubmatch(s)
		return &Command{Kind: "navigate", Target: m[1]}
	case fillPattern.MatchString(s):
		m := fillPattern.FindStringSubmatch(s)
		return &Command{Kind: "fill", Target: strings.TrimSpace(m[1]), Value: strings.TrimSpace(m[2])}
	case typePattern.MatchString(s):
		m := typePattern.FindStringSubmatch(s)
		return &Command{Kind: "fill", Target: strings.TrimSpace(m[2]), Value: strings.TrimSpace(m[1])}
	case captureStartPattern.MatchString(s):
		m := captureStartPattern.FindStringSubmatch(s)
		return &Command{Kind: "capture_start", Target: m[1]}
	case captureStopPattern.MatchString(s):
		return &Command{Kind: "capture_stop"}
	case explorePattern.MatchString(s):
		return &Command{Kind: "explore"}
	case modePattern.MatchString(s):
		m := modePattern.FindStringSubmatch(s)
		return &Command{Kind: "mode", Target: strings.ToLower(m[1])}
	case flowStartPattern.MatchString(s):
		m := flowStartPattern.FindStringSubmatch(s)
		return &Command{Kind: "flow_start", Target: strings.TrimSpace(m[1])}
	case flowEndPattern.MatchString(s):
		return &Command{Kind: "flow_end"}
	case clickPattern.MatchString(s):
		m := clickPattern.FindStringSubmatch(s)
		return &Command{Kind: "click", Target: strings.TrimSpace(m[1])}
	}
	return &Command{Kind: "unknown", Target: s}
}
