package explore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/scout/pkg/browser"
)

// unsafeGlobs match candidate labels that must never be visited
// autonomously. Matching is case-insensitive against the whole label, so
// "Logout", "Sign out of your account", and "Delete workspace" all hit.
var unsafeGlobs = compileGlobs(
	"*logout*",
	"*log out*",
	"*signout*",
	"*sign out*",
	"*delete*",
	"*remove*",
	"*deactivate*",
	"*unsubscribe*",
	"*checkout*",
	"*check out*",
	"*payment*",
	"*pay now*",
	"*purchase*",
	"*buy*",
	"*cancel account*",
	"*close account*",
)

func compileGlobs(patterns ...string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, glob.MustCompile(p))
	}
	return out
}

// LabelMatcher matches candidate labels against user-configured glob
// patterns, extending the built-in unsafe set.
type LabelMatcher []glob.Glob

// CompileUnsafePatterns compiles extra unsafe-label patterns. A pattern
// that fails to compile fails the whole set.
func CompileUnsafePatterns(patterns []string) (LabelMatcher, error) {
	out := make(LabelMatcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("compiling unsafe pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether the label hits any configured pattern. A nil
// matcher matches nothing.
func (m LabelMatcher) Match(label string) bool {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, g := range m {
		if g.Match(normalized) {
			return true
		}
	}
	return false
}

// UnsafeLabel reports whether a candidate label matches a destructive or
// transactional pattern. Unsafe candidates are skipped unconditionally,
// regardless of what the exploration plan says.
func UnsafeLabel(label string) bool {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, g := range unsafeGlobs {
		if g.Match(normalized) {
			return true
		}
	}
	return false
}

// CrossHost reports whether href leaves the base host. Relative hrefs and
// subdomains of the base host stay in scope.
func CrossHost(baseHost, href string) bool {
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" || host == baseHost {
		return false
	}
	return !strings.HasSuffix(host, "."+baseHost)
}

// RiskyNavigation reports whether visiting a candidate requires an
// explicit human decision: the label is unsafe, or the target leaves the
// base host.
func RiskyNavigation(baseHost string, c browser.Candidate) bool {
	return UnsafeLabel(c.Label) || CrossHost(baseHost, c.Href)
}
