package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/llm"
)

func labels(candidates []browser.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Label
	}
	return out
}

func TestBuildOrderFollowsPlanPriorities(t *testing.T) {
	candidates := []browser.Candidate{
		{Label: "About", Href: "/about"},
		{Label: "Products", Href: "/products"},
		{Label: "Pricing", Href: "/pricing"},
		{Label: "Blog", Href: "/blog"},
	}
	plan := &llm.ExplorationPlan{
		PrioritizedPages: []llm.PlanEntry{
			{Label: "Blog", Priority: "low"},
			{Label: "Products", Priority: "high"},
			{Label: "Pricing", Priority: "medium"},
		},
	}

	order := buildOrder(plan, candidates)

	assert.Equal(t, []string{"Products", "Pricing", "Blog", "About"}, labels(order))
}

func TestBuildOrderIgnoresUnmatchedPlanEntries(t *testing.T) {
	candidates := []browser.Candidate{
		{Label: "Home", Href: "/"},
		{Label: "Docs", Href: "/docs"},
	}
	plan := &llm.ExplorationPlan{
		PrioritizedPages: []llm.PlanEntry{
			{Label: "Admin Panel", Priority: "high"}, // not on the page
			{Label: "docs", Priority: "high"},        // case-insensitive match
		},
	}

	order := buildOrder(plan, candidates)

	assert.Equal(t, []string{"Docs", "Home"}, labels(order))
}

func TestBuildOrderAppendsUnplannedInDiscoveryOrder(t *testing.T) {
	candidates := []browser.Candidate{
		{Label: "A", Href: "/a"},
		{Label: "B", Href: "/b"},
		{Label: "C", Href: "/c"},
	}

	order := buildOrder(&llm.ExplorationPlan{}, candidates)

	assert.Equal(t, []string{"A", "B", "C"}, labels(order))
}

func TestBuildOrderDoesNotDuplicateRepeatedPlanMentions(t *testing.T) {
	candidates := []browser.Candidate{
		{Label: "Products", Href: "/products"},
		{Label: "About", Href: "/about"},
	}
	plan := &llm.ExplorationPlan{
		PrioritizedPages: []llm.PlanEntry{
			{Label: "Products", Priority: "high"},
			{Label: "Products", Priority: "low"},
		},
	}

	order := buildOrder(plan, candidates)

	assert.Equal(t, []string{"Products", "About"}, labels(order))
}

func TestSkipReasonsNormalizesLabels(t *testing.T) {
	plan := &llm.ExplorationPlan{
		SkipReasons: []llm.SkipEntry{{Label: "  Careers ", Reason: "static content"}},
	}

	skips := skipReasons(plan)

	reason, ok := skips["careers"]
	assert.True(t, ok)
	assert.Equal(t, "static content", reason)
}
