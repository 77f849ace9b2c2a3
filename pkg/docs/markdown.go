// Package docs renders a finalized capture session into developer-facing
// documentation: a Markdown session report and a minimal OpenAPI document
// built from the deduplicated endpoint set.
package docs

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/flow"
)

// WriteMarkdown renders the session report: one section per documented
// endpoint (the deduplicated set, not the raw event list) followed by the
// recorded flows.
func WriteMarkdown(w io.Writer, session *capture.Session, calls []capture.CapturedCall, flows []*flow.Flow) error {
	var b strings.Builder

	title := "API Capture Session"
	if session != nil {
		title = fmt.Sprintf("API Capture Session — %s", session.BaseURL)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if session != nil && !session.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Captured starting %s.\n\n", session.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Fprintf(&b, "## Endpoints (%d)\n\n", len(calls))
	for _, call := range calls {
		writeCall(&b, call)
	}

	if len(flows) > 0 {
		b.WriteString("## Flows\n\n")
		for _, f := range flows {
			writeFlow(&b, f)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCall(b *strings.Builder, call capture.CapturedCall) {
	fmt.Fprintf(b, "### %s %s\n\n", call.Method, endpointPath(call.URL))
	fmt.Fprintf(b, "- URL: `%s`\n", call.URL)
	fmt.Fprintf(b, "- Status: %d\n", call.Status)
	if ct := capture.HeaderValue(call.ResponseHeaders, "content-type"); ct != "" {
		fmt.Fprintf(b, "- Content-Type: %s\n", ct)
	}
	b.WriteString("\n")

	if call.RequestBody != "" {
		b.WriteString("Request body:\n\n")
		writeFenced(b, call.RequestBody)
	}
	if call.ResponseBody != "" {
		b.WriteString("Response body:\n\n")
		writeFenced(b, call.ResponseBody)
	}
}

func writeFlow(b *strings.Builder, f *flow.Flow) {
	status := "unfinished"
	if f.Ended() {
		status = "completed"
	}
	fmt.Fprintf(b, "### %s (%s)\n\n", f.Name, status)
	for i, step := range f.Steps {
		fmt.Fprintf(b, "%d. %s", i+1, step.Name)
		if len(step.Calls) > 0 {
			fmt.Fprintf(b, " — %d API call(s)", len(step.Calls))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeFenced(b *strings.Builder, body string) {
	b.WriteString("```json\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
}

// endpointPath extracts the path for section headings; malformed URLs fall
// back to the raw string.
func endpointPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return rawURL
	}
	return parsed.Path
}
