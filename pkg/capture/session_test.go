package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupKeyIgnoresQueryString(t *testing.T) {
	k1 := DedupKey("GET", "https://x.com/api/items?x=1")
	k2 := DedupKey("GET", "https://x.com/api/items?x=2")
	assert.Equal(t, k1, k2)
	assert.Equal(t, "GET x.com/api/items", k1)
}

func TestDedupKeyDistinguishesMethodAndPath(t *testing.T) {
	assert.NotEqual(t,
		DedupKey("GET", "https://x.com/api/items"),
		DedupKey("POST", "https://x.com/api/items"))
	assert.NotEqual(t,
		DedupKey("GET", "https://x.com/api/items"),
		DedupKey("GET", "https://x.com/api/orders"))
	assert.NotEqual(t,
		DedupKey("GET", "https://x.com/api/items"),
		DedupKey("GET", "https://y.com/api/items"))
}

func TestDeduperFirstOccurrenceWins(t *testing.T) {
	d := NewDeduper()

	first := CapturedCall{Method: "GET", URL: "https://x.com/api/items?x=1", Status: 200}
	second := CapturedCall{Method: "GET", URL: "https://x.com/api/items?x=2", Status: 200}

	assert.True(t, d.Add(first))
	assert.False(t, d.Add(second))

	calls := d.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "https://x.com/api/items?x=1", calls[0].URL)
}

func TestDeduperMatchesSessionDocumentationSet(t *testing.T) {
	// The raw session list retains every passing call while the deduper's
	// documentation set holds one entry per distinct key.
	acc := NewAccumulator(nil)
	d := NewDeduper()
	acc.SetListener(func(call CapturedCall) { d.Add(call) })

	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	urls := []string{
		"https://x.com/api/items?x=1",
		"https://x.com/api/items?x=2",
		"https://x.com/api/orders",
		"https://x.com/api/orders",
	}
	for i, u := range urls {
		id := string(rune('a' + i))
		acc.OnRequest(id, xhrRequest("GET", u))
		acc.OnResponse(jsonResponse(id, u, 200, "{}"))
	}

	assert.Equal(t, 4, session.Len())
	assert.Equal(t, 2, d.Len())

	keys := make(map[string]struct{})
	for _, c := range d.Calls() {
		keys[DedupKey(c.Method, c.URL)] = struct{}{}
	}
	assert.Len(t, keys, d.Len())
}

func TestCallsSince(t *testing.T) {
	acc := NewAccumulator(nil)
	session, err := acc.StartSession("https://x.com", false)
	require.NoError(t, err)

	acc.OnRequest("r1", xhrRequest("GET", "https://x.com/api/a"))
	acc.OnResponse(jsonResponse("r1", "https://x.com/api/a", 200, "{}"))

	watermark := session.Len()

	acc.OnRequest("r2", xhrRequest("GET", "https://x.com/api/b"))
	acc.OnResponse(jsonResponse("r2", "https://x.com/api/b", 200, "{}"))

	delta := session.CallsSince(watermark)
	require.Len(t, delta, 1)
	assert.Equal(t, "https://x.com/api/b", delta[0].URL)

	assert.Nil(t, session.CallsSince(session.Len()))
	assert.Len(t, session.CallsSince(-1), 2)
}
