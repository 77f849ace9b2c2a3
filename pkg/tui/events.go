package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/scout/pkg/types"
)

// handleAgentEvent folds one agent event into the model: appends its
// rendering to the log and, for decision events, arms the decision prompt.
func (m *model) handleAgentEvent(event *types.AgentEvent) {
	switch event.Type {
	case types.EventTypeApprovalRequired:
		m.appendLine(renderEvent(event))
		m.setPending(decisionApproval, approvalPrompt(event.Network))
	case types.EventTypeActionSuggestion:
		m.appendLine(renderEvent(event))
		m.setPending(decisionAction, actionPrompt(event.Suggestion))
	case types.EventTypeNextSteps:
		m.appendLine(renderEvent(event))
		m.setPending(decisionNextSteps, nextStepsPrompt(event.NextSteps))
	default:
		m.appendLine(renderEvent(event))
	}
}

// renderEvent renders one agent event as a styled log line. Unknown event
// shapes render as nothing rather than crashing the UI.
func renderEvent(event *types.AgentEvent) string {
	switch event.Type {
	case types.EventTypeInfo:
		return infoStyle.Render("• " + event.Content)

	case types.EventTypeUIAction:
		if event.UIAction == nil {
			return ""
		}
		a := event.UIAction
		line := fmt.Sprintf("▸ %s %s", a.Kind, a.Target)
		if a.Value != "" {
			line += fmt.Sprintf(" = %q", a.Value)
		}
		return uiActionStyle.Render(line)

	case types.EventTypeNetwork:
		if event.Network == nil {
			return ""
		}
		n := event.Network
		line := fmt.Sprintf("  %s %s → %d", n.Method, n.URL, n.Status)
		return riskStyle(n.Risk).Render(line) + networkStyle.Render(fmt.Sprintf("  [%s]", n.Risk))

	case types.EventTypeApprovalRequired:
		if event.Network == nil {
			return ""
		}
		return highRiskStyle.Render(fmt.Sprintf("⚠ %s risk: %s %s", event.Network.Risk, event.Network.Method, event.Network.URL))

	case types.EventTypeActionSuggestion:
		if event.Suggestion == nil {
			return ""
		}
		return mediumRiskStyle.Render(fmt.Sprintf("? %s — %s", event.Suggestion.Action, event.Suggestion.Reason))

	case types.EventTypeNextSteps:
		if event.NextSteps == nil {
			return ""
		}
		var b strings.Builder
		b.WriteString(mediumRiskStyle.Render("? Next steps:"))
		for i, action := range event.NextSteps.Actions {
			b.WriteString("\n")
			b.WriteString(infoStyle.Render(fmt.Sprintf("    %d. %s", i+1, action)))
		}
		if event.NextSteps.NetworkSummary != "" {
			b.WriteString("\n")
			b.WriteString(networkStyle.Render("    " + event.NextSteps.NetworkSummary))
		}
		return b.String()

	case types.EventTypeFlow:
		if event.Flow == nil {
			return ""
		}
		f := event.Flow
		switch f.Phase {
		case "started":
			return insightStyle.Render(fmt.Sprintf("▶ Flow started: %s", f.FlowName))
		case "step":
			return infoStyle.Render(fmt.Sprintf("  ↳ %s", f.StepName))
		default:
			return insightStyle.Render(fmt.Sprintf("■ Flow ended: %s", f.FlowName))
		}

	case types.EventTypeModeChange:
		return tipsStyle.Render(fmt.Sprintf("mode → %s", event.Mode))

	case types.EventTypeExplorationInsight:
		if event.Insight == nil {
			return ""
		}
		in := event.Insight
		return insightStyle.Render(fmt.Sprintf("★ %s (%d API calls): %s", in.PageLabel, in.CallCount, in.Insight))

	case types.EventTypeExplorationSummary:
		if event.Summary == nil {
			return ""
		}
		return renderSummary(event.Summary)

	case types.EventTypeLLMStatus:
		return llmStatusStyle.Render("… " + event.Content)

	case types.EventTypeUserPrompt:
		return mediumRiskStyle.Render("? " + event.Content)
	}
	return ""
}

func renderSummary(s *types.ExplorationSummaryEvent) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("═══ Exploration summary: %s ═══", s.AppName)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(s.Summary))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Pages visited: %d • Unique endpoints: %d • Coverage: ~%d%%",
		s.PagesVisited, s.UniqueEndpoints, s.CoveragePercent)))
	for _, finding := range s.TopFindings {
		b.WriteString("\n")
		b.WriteString(insightStyle.Render("  ★ " + finding))
	}
	for _, rec := range s.Recommendations {
		b.WriteString("\n")
		b.WriteString(tipsStyle.Render("  → " + rec))
	}
	return b.String()
}

func riskStyle(risk string) lipgloss.Style {
	switch risk {
	case "high":
		return highRiskStyle
	case "medium":
		return mediumRiskStyle
	default:
		return lowRiskStyle
	}
}

func approvalPrompt(call *types.NetworkCall) string {
	if call == nil {
		return "Approve this call? [y]es / [n]o / [d]ocument only"
	}
	return fmt.Sprintf("Approve %s %s (%s risk)? [y]es / [n]o / [d]ocument only",
		call.Method, call.URL, call.Risk)
}

func actionPrompt(s *types.ActionSuggestion) string {
	if s == nil {
		return "Proceed? [y]es / [n]o"
	}
	return fmt.Sprintf("%s? [y]es / [n]o", s.Action)
}

func nextStepsPrompt(p *types.NextStepsPrompt) string {
	return "Continue with [a]ctions or review [n]etwork traffic?"
}
