package capture

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateRecorder struct {
	calls []string
}

func (g *gateRecorder) gate(method, url string, status int) {
	g.calls = append(g.calls, method+" "+url)
}

func jsonResponse(id, url string, status int, body string) ObservedResponse {
	return ObservedResponse{
		RequestID:   id,
		URL:         url,
		Status:      status,
		ContentType: "application/json",
		Body:        func() (string, error) { return body, nil },
	}
}

func xhrRequest(method, url string) RequestInfo {
	return RequestInfo{Method: method, URL: url, ResourceType: "xhr"}
}

func TestOnResponseAlwaysForwardsToGate(t *testing.T) {
	rec := &gateRecorder{}
	acc := NewAccumulator(rec.gate)

	// No session, no request record: gate still fires.
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, "{}"))
	assert.Equal(t, []string{"GET https://x.com/api/items"}, rec.calls)

	_, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)
	acc.OnRequest("r2", xhrRequest("POST", "https://x.com/api/items"))
	acc.OnResponse(jsonResponse("r2", "https://x.com/api/items", 201, "{}"))
	assert.Len(t, rec.calls, 2)
	assert.Equal(t, "POST https://x.com/api/items", rec.calls[1])
}

func TestUnmatchedResponseGatesWithItsOwnMethod(t *testing.T) {
	rec := &gateRecorder{}
	acc := NewAccumulator(rec.gate)

	// The request event was missed; the response still knows its method
	// and the gate must see DELETE, not a fabricated GET.
	resp := jsonResponse("unmatched", "https://x.com/api/items/42", 204, "")
	resp.Method = "DELETE"
	acc.OnResponse(resp)

	assert.Equal(t, []string{"DELETE https://x.com/api/items/42"}, rec.calls)
}

func TestResponseMethodWinsOverRequestRecord(t *testing.T) {
	rec := &gateRecorder{}
	acc := NewAccumulator(rec.gate)

	acc.OnRequest("r1", xhrRequest("", "https://x.com/api/items/42"))
	resp := jsonResponse("r1", "https://x.com/api/items/42", 204, "")
	resp.Method = "DELETE"
	acc.OnResponse(resp)

	assert.Equal(t, []string{"DELETE https://x.com/api/items/42"}, rec.calls)
}

func TestOnRequestFailedEvictsRecord(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnRequestFailed("r1")

	// A later response for the evicted ID has no request record to join.
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, "{}"))
	assert.Equal(t, 0, session.Len())

	// Evicting an unknown ID is a no-op.
	acc.OnRequestFailed("never-seen")
}

func TestCaptureRequiresActiveSession(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, "{}"))
	assert.Nil(t, acc.Session())

	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)
	acc.OnRequest("r2", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnResponse(jsonResponse("r2", "https://x.com/api/items", 200, "{}"))
	assert.Equal(t, 1, session.Len())
}

func TestCaptureRequiresMatchingRequest(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnResponse(jsonResponse("unseen", "https://x.com/api/items", 200, "{}"))
	assert.Equal(t, 0, session.Len())
}

func TestResourceTypeFilter(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	for _, rt := range []string{"document", "stylesheet", "image", "script", ""} {
		acc.OnRequest("r", RequestInfo{Method: "GET", URL: "https://x.com/a", ResourceType: rt})
		acc.OnResponse(jsonResponse("r", "https://x.com/a", 200, "{}"))
	}
	assert.Equal(t, 0, session.Len())

	for _, rt := range []string{"xhr", "fetch", "Fetch"} {
		acc.OnRequest("r", RequestInfo{Method: "GET", URL: "https://x.com/a", ResourceType: rt})
		acc.OnResponse(jsonResponse("r", "https://x.com/a", 200, "{}"))
	}
	assert.Equal(t, 3, session.Len())
}

func TestSameSitePolicy(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://app.x.com", false)
	require.NoError(t, err)

	// Subdomain of the same registrable base domain passes.
	acc.OnRequest("r1", xhrRequest("GET", "https://api.x.com/v1/items"))
	acc.OnResponse(jsonResponse("r1", "https://api.x.com/v1/items", 200, "{}"))
	assert.Equal(t, 1, session.Len())

	// Different base domain is excluded.
	acc.OnRequest("r2", xhrRequest("GET", "https://tracker.example.com/hit"))
	acc.OnResponse(jsonResponse("r2", "https://tracker.example.com/hit", 200, "{}"))
	assert.Equal(t, 1, session.Len())
}

func TestThirdPartyInclusion(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", true)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://tracker.example.com/hit"))
	acc.OnResponse(jsonResponse("r1", "https://tracker.example.com/hit", 200, "{}"))
	assert.Equal(t, 1, session.Len())
}

func TestBodyTruncation(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.SetBodyCap(10)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	long := strings.Repeat("a", 50)
	acc.OnRequest("r1", RequestInfo{
		Method:       "POST",
		URL:          "https://x.com/api/items",
		ResourceType: "fetch",
		Headers:      map[string]string{"Content-Type": "application/json"},
		Body:         long,
	})
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, long))

	calls := session.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, strings.Repeat("a", 10)+"…", calls[0].RequestBody)
	assert.Equal(t, strings.Repeat("a", 10)+"…", calls[0].ResponseBody)
}

func TestTruncationKeepsValidUTF8(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.SetBodyCap(10)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	// Each rune is three bytes; a cap of 10 lands mid-rune.
	body := strings.Repeat("あ", 20)
	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, body))

	calls := session.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, strings.Repeat("あ", 3)+"…", calls[0].ResponseBody)
	assert.True(t, utf8.ValidString(calls[0].ResponseBody))
}

func TestUnreadableBodyIsOmitted(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnResponse(ObservedResponse{
		RequestID:   "r1",
		URL:         "https://x.com/api/items",
		Status:      200,
		ContentType: "application/json",
		Body:        func() (string, error) { return "", errors.New("body gone") },
	})

	calls := session.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].ResponseBody)
}

func TestNonTextResponseBodyIsOmitted(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/report"))
	acc.OnResponse(ObservedResponse{
		RequestID:   "r1",
		URL:         "https://x.com/api/report",
		Status:      200,
		ContentType: "application/pdf",
		Body:        func() (string, error) { return "binary", nil },
	})

	calls := session.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].ResponseBody)
}

func TestListenerReceivesPassingCalls(t *testing.T) {
	acc := NewAccumulator(nil)
	var got []CapturedCall
	acc.SetListener(func(call CapturedCall) { got = append(got, call) })

	_, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/items"))
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/items", 200, "{}"))

	// Filtered-out calls never reach the listener.
	acc.OnRequest("r2", RequestInfo{Method: "GET", URL: "https://x.com/logo.png", ResourceType: "image"})
	acc.OnResponse(jsonResponse("r2", "https://x.com/logo.png", 200, ""))

	require.Len(t, got, 1)
	assert.Equal(t, "https://x.com/api/items", got[0].URL)
}

func TestFinalizeEndsSession(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)
	assert.True(t, acc.Active())

	finalized := acc.Finalize()
	assert.Same(t, session, finalized)
	assert.False(t, acc.Active())
	assert.False(t, finalized.EndedAt.IsZero())
	assert.Nil(t, acc.Finalize())
}

func TestStartSessionRejectsInvalidBaseURL(t *testing.T) {
	acc := NewAccumulator(nil)
	_, err := acc.StartSession("not a url", false)
	assert.Error(t, err)
}
