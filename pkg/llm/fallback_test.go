package llm

import (
	"testing"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicCommand(t *testing.T) {
	tests := []struct {
		instruction string
		want        Command
	}{
		{"go to https://x.com/login", Command{Kind: "navigate", Target: "https://x.com/login"}},
		{"Open https://x.com", Command{Kind: "navigate", Target: "https://x.com"}},
		{"click the Sign In button", Command{Kind: "click", Target: "Sign In button"}},
		{"click on Products", Command{Kind: "click", Target: "Products"}},
		{"fill email with bob@example.com", Command{Kind: "fill", Target: "email", Value: "bob@example.com"}},
		{"type hello into the search box", Command{Kind: "fill", Target: "search box", Value: "hello"}},
		{"press enter", Command{Kind: "press", Target: "Enter"}},
		{"press arrowdown", Command{Kind: "press", Target: "ArrowDown"}},
		{"go back", Command{Kind: "back"}},
		{"back", Command{Kind: "back"}},
		{"start capture https://x.com", Command{Kind: "capture_start", Target: "https://x.com"}},
		{"begin capturing", Command{Kind: "capture_start"}},
		{"stop capture", Command{Kind: "capture_stop"}},
		{"explore the site", Command{Kind: "explore"}},
		{"mode execute", Command{Kind: "mode", Target: "execute"}},
		{"set mode observe_only", Command{Kind: "mode", Target: "observe_only"}},
		{"start flow Checkout", Command{Kind: "flow_start", Target: "Checkout"}},
		{"end flow", Command{Kind: "flow_end"}},
		{"", Command{Kind: "unknown"}},
		{"do a barrel roll", Command{Kind: "unknown", Target: "do a barrel roll"}},
	}

	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			got := HeuristicCommand(tt.instruction)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestHeuristicCommandIsDeterministic(t *testing.T) {
	first := HeuristicCommand("click the Sign In button")
	second := HeuristicCommand("click the Sign In button")
	assert.Equal(t, first, second)
}

func TestFallbackPlanUniformMediumPriority(t *testing.T) {
	candidates := []browser.Candidate{
		{Label: "Products", Href: "https://x.com/products", Type: "link"},
		{Label: "About", Href: "https://x.com/about", Type: "link"},
	}
	plan := FallbackPlan(candidates)

	require.Len(t, plan.PrioritizedPages, 2)
	assert.Equal(t, "Products", plan.PrioritizedPages[0].Label)
	assert.Equal(t, "About", plan.PrioritizedPages[1].Label)
	for _, p := range plan.PrioritizedPages {
		assert.Equal(t, "medium", p.Priority)
	}
	assert.Empty(t, plan.SkipReasons)
}

func TestFallbackInsight(t *testing.T) {
	calls := []capture.CapturedCall{
		{Method: "GET", URL: "https://x.com/api/items", Status: 200},
	}
	insight := FallbackInsight("Products", calls)

	assert.Contains(t, insight.Insight, "Products")
	assert.Contains(t, insight.Insight, "1 API call")
	assert.Equal(t, []string{"GET https://x.com/api/items"}, insight.APIsAnalyzed)
}

func TestFallbackSummary(t *testing.T) {
	summary := FallbackSummary(SummaryRequest{
		BaseURL:         "https://x.com",
		PageAPIs:        map[string][]string{"Products": {"GET https://x.com/api/items"}},
		UniqueEndpoints: 1,
	})
	assert.Contains(t, summary.Summary, "1 page(s)")
	assert.Contains(t, summary.Summary, "1 unique endpoint(s)")
}
