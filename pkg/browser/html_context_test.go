package browser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Acme Store</title><script>var x = "ignored";</script></head>
<body>
  <h1>Welcome</h1>
  <h2>Featured   Products</h2>
  <nav>
    <a href="/products">Products</a>
    <a href="/cart">Cart</a>
    <a href="https://docs.acme.com/help">Help</a>
    <a href="#top">Top</a>
    <a href="javascript:void(0)">Noop</a>
    <a href="/products">Products</a>
  </nav>
  <button>Sign In</button>
  <input type="submit" value="Search"/>
  <input type="text" value="not a button"/>
</body>
</html>`

func TestExtractPageContext(t *testing.T) {
	pc := ExtractPageContext(samplePage, "https://acme.com/")

	assert.Equal(t, "Acme Store", pc.Title)
	assert.Equal(t, "https://acme.com/", pc.URL)
	assert.Equal(t, []string{"Welcome", "Featured Products"}, pc.Headings)
	assert.Equal(t, []string{"Sign In", "Search"}, pc.Buttons)
	assert.Contains(t, pc.Links, "Products")
	assert.Contains(t, pc.Links, "Help")
}

func TestExtractCandidates(t *testing.T) {
	candidates := ExtractCandidates(samplePage, "https://acme.com/")

	byLabel := make(map[string]Candidate)
	for _, c := range candidates {
		byLabel[c.Label] = c
	}

	require.Contains(t, byLabel, "Products")
	assert.Equal(t, "https://acme.com/products", byLabel["Products"].Href)
	assert.Equal(t, "link", byLabel["Products"].Type)

	require.Contains(t, byLabel, "Help")
	assert.Equal(t, "https://docs.acme.com/help", byLabel["Help"].Href)

	require.Contains(t, byLabel, "Sign In")
	assert.Equal(t, "button", byLabel["Sign In"].Type)
	assert.Empty(t, byLabel["Sign In"].Href)

	// Fragment and javascript links are dropped; the duplicate Products
	// link collapses to one candidate.
	assert.NotContains(t, byLabel, "Top")
	assert.NotContains(t, byLabel, "Noop")
	var productCount int
	for _, c := range candidates {
		if c.Label == "Products" {
			productCount++
		}
	}
	assert.Equal(t, 1, productCount)
}

func TestExtractCandidatesCapsAtLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<a href="/page-%d">Page %d</a>`, i, i)
	}
	b.WriteString("</body></html>")

	candidates := ExtractCandidates(b.String(), "https://acme.com/")
	assert.Len(t, candidates, MaxCandidatesPerPage)
}

func TestDedupeCandidates(t *testing.T) {
	in := []Candidate{
		{Label: "A", Href: "https://x.com/a", Type: "link"},
		{Label: "A", Href: "https://x.com/a", Type: "link"},
		{Label: "A", Href: "", Type: "button"},
		{Label: "B", Href: "https://x.com/b", Type: "link"},
	}
	out := DedupeCandidates(in)
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Label)
	assert.Equal(t, "button", out[1].Type)
	assert.Equal(t, "B", out[2].Label)
}

func TestExtractPageContextMalformedHTML(t *testing.T) {
	pc := ExtractPageContext("<<<not html>>", "https://acme.com/")
	assert.Equal(t, "https://acme.com/", pc.URL)
}
