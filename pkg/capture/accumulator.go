// Package capture joins observed browser request/response pairs, filters
// and truncates them into documentation-ready records, and scopes them to
// bounded capture sessions.
package capture

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultBodyCap is the maximum number of characters retained from a
// request or response body.
const DefaultBodyCap = 20000

// truncationMarker is appended to bodies cut at the cap.
const truncationMarker = "…"

// RequestInfo is captured when a request is observed, keyed by request
// identity until the matching response arrives.
type RequestInfo struct {
	Method       string
	URL          string
	Headers      map[string]string
	Body         string
	ResourceType string
	Timestamp    time.Time
}

// ObservedResponse is the accumulator's view of a network response from
// the browser collaborator. Body is read lazily; a read failure degrades
// to an omitted body, never an error.
type ObservedResponse struct {
	RequestID   string
	Method      string
	URL         string
	Status      int
	Headers     map[string]string
	ContentType string
	Body        func() (string, error)
}

// CapturedCall is a documentation-ready record of one request/response pair.
type CapturedCall struct {
	Method          string
	URL             string
	Status          int
	RequestHeaders  map[string]string
	ResponseHeaders map[string]string
	RequestBody     string
	ResponseBody    string

	// Timestamp is the capture time, not the request time.
	Timestamp time.Time
}

// Gate is invoked for every observed response, captured or not. The agent
// runs risk classification and approval gating behind it.
type Gate func(method, url string, status int)

// Listener receives every call that passes the inclusion filter. The
// session-level deduper subscribes here.
type Listener func(call CapturedCall)

// Accumulator joins the independent request-observed and response-observed
// event streams and appends passing calls to the active session.
type Accumulator struct {
	mu       sync.Mutex
	requests map[string]RequestInfo
	session  *Session
	gate     Gate
	listener Listener
	bodyCap  int
}

// NewAccumulator creates an accumulator that forwards every response to
// gate. A nil gate disables risk forwarding.
func NewAccumulator(gate Gate) *Accumulator {
	if gate == nil {
		gate = func(string, string, int) {}
	}
	return &Accumulator{
		requests: make(map[string]RequestInfo),
		gate:     gate,
		bodyCap:  DefaultBodyCap,
	}
}

// SetListener registers the capture listener invoked for each passing call.
func (a *Accumulator) SetListener(fn Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
}

// SetBodyCap overrides the body truncation limit.
func (a *Accumulator) SetBodyCap(cap int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cap > 0 {
		a.bodyCap = cap
	}
}

// StartSession begins a capture session scoped to baseURL. Starting while
// a session is active replaces it; the replaced session is finalized.
func (a *Accumulator) StartSession(baseURL string, includeThirdParty bool) (*Session, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid capture base URL %q", baseURL)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		a.session.EndedAt = time.Now()
	}
	a.session = newSession(baseURL, parsed.Hostname(), includeThirdParty)
	return a.session, nil
}

// Finalize ends the active session and returns it, or nil when none is
// active.
func (a *Accumulator) Finalize() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.session
	if s != nil {
		s.EndedAt = time.Now()
	}
	a.session = nil
	return s
}

// Session returns the active session, or nil.
func (a *Accumulator) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Active returns true while a capture session is running.
func (a *Accumulator) Active() bool {
	return a.Session() != nil
}

// OnRequest records an observed request, keyed by its identity.
func (a *Accumulator) OnRequest(requestID string, info RequestInfo) {
	if info.Timestamp.IsZero() {
		info.Timestamp = time.Now()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests[requestID] = info
}

// OnRequestFailed evicts the record of a request that will never get a
// response, such as an aborted navigation fetch.
func (a *Accumulator) OnRequestFailed(requestID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.requests, requestID)
}

// OnResponse handles an observed response. The risk gate always runs;
// capture happens only when a session is active, the matching request was
// observed, and the inclusion filter passes.
func (a *Accumulator) OnResponse(resp ObservedResponse) {
	a.mu.Lock()
	req, haveRequest := a.requests[resp.RequestID]
	if haveRequest {
		delete(a.requests, resp.RequestID)
	}
	session := a.session
	listener := a.listener
	bodyCap := a.bodyCap
	a.mu.Unlock()

	// The response's own method wins: when the request event was missed,
	// the record's empty method must not downgrade the risk check.
	method := resp.Method
	if method == "" {
		method = req.Method
	}
	if method == "" {
		method = "GET"
	}
	a.gate(method, resp.URL, resp.Status)

	if session == nil || !haveRequest {
		return
	}
	if !includableResourceType(req.ResourceType) {
		return
	}
	if !session.IncludeThirdParty && !sameSite(session.baseHost, resp.URL) {
		return
	}

	call := CapturedCall{
		Method:          method,
		URL:             resp.URL,
		Status:          resp.Status,
		RequestHeaders:  copyHeaders(req.Headers),
		ResponseHeaders: copyHeaders(resp.Headers),
		Timestamp:       time.Now(),
	}
	if textualBody(req.Headers, req.Body) {
		call.RequestBody = truncate(req.Body, bodyCap)
	}
	if body, ok := readDocumentableBody(resp); ok {
		call.ResponseBody = truncate(body, bodyCap)
	}

	session.append(call)
	if listener != nil {
		listener(call)
	}
}

// includableResourceType limits capture to API traffic; static assets and
// documents are excluded.
func includableResourceType(resourceType string) bool {
	switch strings.ToLower(resourceType) {
	case "xhr", "fetch":
		return true
	}
	return false
}

// sameSite reports whether rawURL's host shares a registrable base domain
// (last two labels) with baseHost. Malformed URLs fail the check rather
// than erroring.
func sameSite(baseHost, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}
	return baseDomain(host) == baseDomain(baseHost)
}

// baseDomain returns the last two labels of a hostname.
func baseDomain(host string) string {
	labels := strings.Split(strings.ToLower(host), ".")
	if len(labels) <= 2 {
		return strings.ToLower(host)
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// textualBody reports whether a request body should be documented.
func textualBody(headers map[string]string, body string) bool {
	if body == "" {
		return false
	}
	ct := strings.ToLower(HeaderValue(headers, "content-type"))
	if ct == "" {
		return utf8.ValidString(body)
	}
	return strings.Contains(ct, "json") ||
		strings.Contains(ct, "text") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "form-urlencoded")
}

// readDocumentableBody reads the response body when the content type is
// JSON or plain text. Read failures and other content types degrade to an
// omitted body.
func readDocumentableBody(resp ObservedResponse) (string, bool) {
	ct := strings.ToLower(resp.ContentType)
	if ct == "" {
		ct = strings.ToLower(HeaderValue(resp.Headers, "content-type"))
	}
	if !strings.Contains(ct, "json") && !strings.Contains(ct, "text/plain") {
		return "", false
	}
	if resp.Body == nil {
		return "", false
	}
	body, err := resp.Body()
	if err != nil {
		return "", false
	}
	return body, true
}

// HeaderValue looks up a header case-insensitively.
func HeaderValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func copyHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}

func truncate(s string, cap int) string {
	if len(s) <= cap {
		return s
	}
	// Back off to a rune boundary so the cut never emits invalid UTF-8.
	cut := cap
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncationMarker
}
