// Package browser is the browser-automation collaborator: a narrow Driver
// interface the core depends on, and a Playwright implementation that taps
// the page's network traffic for the capture accumulator.
package browser

import "context"

// WaitPolicy controls when a navigation is considered complete.
type WaitPolicy string

const (
	WaitLoad        WaitPolicy = "load"
	WaitDOMReady    WaitPolicy = "domcontentloaded"
	WaitNetworkIdle WaitPolicy = "networkidle"
)

// Candidate is a visible navigation target discovered on a page.
type Candidate struct {
	Label string
	Href  string

	// Type is "link" or "button".
	Type string
}

// PageContext is the structural summary of the current page handed to the
// reasoning service.
type PageContext struct {
	Title    string
	URL      string
	Headings []string
	Buttons  []string
	Links    []string
}

// Driver is the narrow surface the core uses to drive a browser. The
// orchestrator never sees Playwright types.
type Driver interface {
	// Navigate loads url and waits according to the policy.
	Navigate(ctx context.Context, url string, wait WaitPolicy) error

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// GetPageContext summarizes the current page.
	GetPageContext(ctx context.Context) (*PageContext, error)

	// GetNavigationCandidates lists visible navigation targets,
	// deduplicated and capped.
	GetNavigationCandidates(ctx context.Context) ([]Candidate, error)

	// ClickByText clicks the first element containing the visible text.
	ClickByText(ctx context.Context, text string) error

	// ClickByRole clicks the element with the ARIA role and accessible name.
	ClickByRole(ctx context.Context, role, name string) error

	// Fill fills the input matching selector with value.
	Fill(ctx context.Context, selector, value string) error

	// Press sends a key press to the focused element.
	Press(ctx context.Context, key string) error

	// GoBack navigates back in history.
	GoBack(ctx context.Context) error

	// CurrentURL returns the page's current URL.
	CurrentURL() string
}

// MaxCandidatesPerPage caps how many navigation candidates one page may
// contribute.
const MaxCandidatesPerPage = 25

// DedupeCandidates drops duplicate (type, label, href) triples, preserving
// discovery order, and caps the result at MaxCandidatesPerPage.
func DedupeCandidates(candidates []Candidate) []Candidate {
	seen := make(map[Candidate]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == MaxCandidatesPerPage {
			break
		}
	}
	return out
}
