package docs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/flow"
)

func sampleCalls() []capture.CapturedCall {
	return []capture.CapturedCall{
		{
			Method:          "GET",
			URL:             "https://app.example.com/api/products?page=1",
			Status:          200,
			ResponseHeaders: map[string]string{"content-type": "application/json"},
			ResponseBody:    `[{"id":1}]`,
		},
		{
			Method:      "POST",
			URL:         "https://app.example.com/api/cart",
			Status:      201,
			RequestBody: `{"productId":1}`,
		},
	}
}

func TestWriteMarkdown(t *testing.T) {
	sess := &capture.Session{BaseURL: "https://app.example.com", StartedAt: time.Now()}
	flows := []*flow.Flow{
		{
			Name:    "Add to cart",
			EndedAt: time.Now(),
			Steps: []flow.Step{
				{Name: "Open products", Calls: sampleCalls()[:1]},
				{Name: "Add item"},
			},
		},
	}

	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, sess, sampleCalls(), flows))
	out := b.String()

	assert.Contains(t, out, "# API Capture Session — https://app.example.com")
	assert.Contains(t, out, "## Endpoints (2)")
	assert.Contains(t, out, "### GET /api/products")
	assert.Contains(t, out, "### POST /api/cart")
	assert.Contains(t, out, `{"productId":1}`)
	assert.Contains(t, out, "### Add to cart (completed)")
	assert.Contains(t, out, "1. Open products — 1 API call(s)")
}

func TestWriteMarkdownFindsCanonicallyCasedContentType(t *testing.T) {
	calls := []capture.CapturedCall{{
		Method:          "GET",
		URL:             "https://app.example.com/api/products",
		Status:          200,
		ResponseHeaders: map[string]string{"Content-Type": "application/json"},
	}}

	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, nil, calls, nil))

	assert.Contains(t, b.String(), "- Content-Type: application/json")
}

func TestWriteMarkdownWithoutSessionOrFlows(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, nil, nil, nil))

	assert.Contains(t, b.String(), "# API Capture Session")
	assert.Contains(t, b.String(), "## Endpoints (0)")
	assert.NotContains(t, b.String(), "## Flows")
}

func TestWriteOpenAPI(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteOpenAPI(&b, "Example App", sampleCalls()))

	var doc struct {
		OpenAPI string `yaml:"openapi"`
		Info    struct {
			Title string `yaml:"title"`
		} `yaml:"info"`
		Servers []struct {
			URL string `yaml:"url"`
		} `yaml:"servers"`
		Paths map[string]map[string]struct {
			Responses map[string]struct {
				Description string `yaml:"description"`
			} `yaml:"responses"`
		} `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(b.String()), &doc))

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Example App", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://app.example.com", doc.Servers[0].URL)

	require.Contains(t, doc.Paths, "/api/products")
	require.Contains(t, doc.Paths["/api/products"], "get")
	assert.Contains(t, doc.Paths["/api/products"]["get"].Responses, "200")

	require.Contains(t, doc.Paths, "/api/cart")
	assert.Contains(t, doc.Paths["/api/cart"]["post"].Responses, "201")
}

func TestWriteOpenAPISkipsMalformedURLs(t *testing.T) {
	calls := []capture.CapturedCall{{Method: "GET", URL: "::bad::", Status: 200}}

	var b strings.Builder
	require.NoError(t, WriteOpenAPI(&b, "Broken", calls))

	assert.Contains(t, b.String(), "paths: {}")
}

func TestSortedPaths(t *testing.T) {
	paths := SortedPaths(sampleCalls())
	assert.Equal(t, []string{"/api/cart", "/api/products"}, paths)
}
