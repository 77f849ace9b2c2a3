package explore

import (
	"strings"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/llm"
)

// buildOrder turns the reasoning service's prioritization into a concrete
// visit order: high-priority candidates in plan order, then medium, then
// low, then every candidate the plan did not name, in original discovery
// order. Matching is by label, case-insensitively; plan entries that match
// no discovered candidate are ignored.
func buildOrder(plan *llm.ExplorationPlan, candidates []browser.Candidate) []browser.Candidate {
	byLabel := make(map[string]int, len(candidates))
	for i, c := range candidates {
		key := normalizeLabel(c.Label)
		if _, dup := byLabel[key]; !dup {
			byLabel[key] = i
		}
	}

	ordered := make([]browser.Candidate, 0, len(candidates))
	taken := make(map[int]struct{}, len(candidates))
	appendMatch := func(label string) {
		i, ok := byLabel[normalizeLabel(label)]
		if !ok {
			return
		}
		if _, dup := taken[i]; dup {
			return
		}
		taken[i] = struct{}{}
		ordered = append(ordered, candidates[i])
	}

	for _, priority := range []string{"high", "medium", "low"} {
		for _, entry := range plan.PrioritizedPages {
			if strings.EqualFold(entry.Priority, priority) {
				appendMatch(entry.Label)
			}
		}
	}

	for i, c := range candidates {
		if _, dup := taken[i]; !dup {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// skipReasons indexes the plan's skip list by normalized label.
func skipReasons(plan *llm.ExplorationPlan) map[string]string {
	out := make(map[string]string, len(plan.SkipReasons))
	for _, s := range plan.SkipReasons {
		out[normalizeLabel(s.Label)] = s.Reason
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
