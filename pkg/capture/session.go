package capture

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session accumulates every call that passed the inclusion filter during
// one capture period. Its ordered list retains duplicates; the
// documentation set is the separately owned Deduper's view.
type Session struct {
	ID                string
	BaseURL           string
	IncludeThirdParty bool
	StartedAt         time.Time
	EndedAt           time.Time

	baseHost string

	mu    sync.Mutex
	calls []CapturedCall
}

func newSession(baseURL, baseHost string, includeThirdParty bool) *Session {
	return &Session{
		ID:                uuid.New().String(),
		BaseURL:           baseURL,
		IncludeThirdParty: includeThirdParty,
		StartedAt:         time.Now(),
		baseHost:          baseHost,
	}
}

func (s *Session) append(call CapturedCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

// Len returns the number of calls captured so far. The exploration loop
// uses it as a watermark to attribute calls to a page visit.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Calls returns a copy of the ordered call list.
func (s *Session) Calls() []CapturedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CapturedCall(nil), s.calls...)
}

// CallsSince returns a copy of the calls appended after the given
// watermark index.
func (s *Session) CallsSince(watermark int) []CapturedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if watermark < 0 {
		watermark = 0
	}
	if watermark >= len(s.calls) {
		return nil
	}
	return append([]CapturedCall(nil), s.calls[watermark:]...)
}

// DedupKey computes the documentation-set identity of a call:
// method + hostname + pathname. Query strings are deliberately excluded so
// parameter variants of one endpoint collapse to a single entry. Malformed
// URLs fall back to the raw string.
func DedupKey(method, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return fmt.Sprintf("%s %s", method, rawURL)
	}
	return fmt.Sprintf("%s %s%s", method, parsed.Hostname(), parsed.Path)
}

// Deduper retains the first call per DedupKey. It implements the
// session-level documentation set, distinct from the session's raw
// per-event list.
type Deduper struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	calls []CapturedCall
}

// NewDeduper creates an empty deduper for one capture session.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Add retains the call if its key is new, returning true on first
// occurrence and false for duplicates.
func (d *Deduper) Add(call CapturedCall) bool {
	key := DedupKey(call.Method, call.URL)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[key]; dup {
		return false
	}
	d.seen[key] = struct{}{}
	d.calls = append(d.calls, call)
	return true
}

// Calls returns the deduplicated documentation set in first-seen order.
func (d *Deduper) Calls() []CapturedCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]CapturedCall(nil), d.calls...)
}

// Len returns the number of distinct endpoints retained.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}
