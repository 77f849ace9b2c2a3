package openai

import (
	"fmt"
	"strings"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/llm"
)

const planSystemPrompt = `You are analyzing a web application to plan API discovery.
Given the current page and its navigation candidates, rank the candidates by
how likely visiting them is to reveal distinct backend APIs.
Respond with JSON only, no prose, matching:
{"appOverview": string, "domain": string,
 "prioritizedPages": [{"label": string, "priority": "high"|"medium"|"low", "reason": string, "expectedApis": [string]}],
 "skipReasons": [{"label": string, "reason": string}],
 "expectedEntities": [string]}`

const insightSystemPrompt = `You are analyzing one page of a web application for API documentation.
Use the screenshot, the page structure, and the API calls the visit triggered.
Respond with JSON only, no prose, matching:
{"pageType": string, "insight": string, "apisAnalyzed": [string],
 "entitiesDiscovered": [string], "explorationValue": string,
 "suggestedDeepDive": string|null}`

const summarySystemPrompt = `You are synthesizing the results of an automated exploration of a web application.
Respond with JSON only, no prose, matching:
{"appName": string, "appDomain": string, "summary": string,
 "topFindings": [string], "coveragePercent": number,
 "unexploredAreas": [string], "recommendations": [string]}`

const instructionSystemPrompt = `You translate a user's natural-language instruction for a browser agent
into one structured command. Respond with JSON only, matching:
{"kind": "navigate"|"click"|"fill"|"press"|"back"|"capture_start"|"capture_stop"|"explore"|"mode"|"flow_start"|"flow_end"|"unknown",
 "target": string, "value": string}`

func buildPlanPrompt(req llm.PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Application base URL: %s\n\n", req.BaseURL)
	writePageContext(&b, req.PageContext)

	b.WriteString("\nNavigation candidates:\n")
	for _, c := range req.Candidates {
		if c.Href != "" {
			fmt.Fprintf(&b, "- [%s] %s -> %s\n", c.Type, c.Label, c.Href)
		} else {
			fmt.Fprintf(&b, "- [%s] %s\n", c.Type, c.Label)
		}
	}
	return b.String()
}

func buildInsightPrompt(req llm.InsightRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Visited page: %s\n\n", req.PageLabel)
	writePageContext(&b, req.PageContext)

	fmt.Fprintf(&b, "\nAPI calls triggered by this visit (%d):\n", len(req.Calls))
	for _, c := range req.Calls {
		fmt.Fprintf(&b, "- %s %s -> %d\n", c.Method, c.URL, c.Status)
		if c.ResponseBody != "" {
			fmt.Fprintf(&b, "  response: %s\n", firstN(c.ResponseBody, 500))
		}
	}
	return b.String()
}

func buildSummaryPrompt(req llm.SummaryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Application base URL: %s\n", req.BaseURL)
	fmt.Fprintf(&b, "Unique endpoints discovered: %d\n\n", req.UniqueEndpoints)
	b.WriteString("APIs per visited page:\n")
	for page, apis := range req.PageAPIs {
		fmt.Fprintf(&b, "%s:\n", page)
		for _, api := range apis {
			fmt.Fprintf(&b, "  - %s\n", api)
		}
	}
	return b.String()
}

func buildInstructionPrompt(instruction string, pc *browser.PageContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instruction: %s\n\n", instruction)
	writePageContext(&b, pc)
	return b.String()
}

func writePageContext(b *strings.Builder, pc *browser.PageContext) {
	if pc == nil {
		return
	}
	fmt.Fprintf(b, "Current page: %s (%s)\n", pc.Title, pc.URL)
	if len(pc.Headings) > 0 {
		fmt.Fprintf(b, "Headings: %s\n", strings.Join(pc.Headings, "; "))
	}
	if len(pc.Buttons) > 0 {
		fmt.Fprintf(b, "Buttons: %s\n", strings.Join(pc.Buttons, "; "))
	}
	if len(pc.Links) > 0 {
		fmt.Fprintf(b, "Links: %s\n", strings.Join(pc.Links, "; "))
	}
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
