package docs

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/scout/pkg/capture"
)

type openapiDoc struct {
	OpenAPI string                                 `yaml:"openapi"`
	Info    openapiInfo                            `yaml:"info"`
	Servers []openapiServer                        `yaml:"servers,omitempty"`
	Paths   map[string]map[string]openapiOperation `yaml:"paths"`
}

type openapiInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type openapiServer struct {
	URL string `yaml:"url"`
}

type openapiOperation struct {
	Summary   string                     `yaml:"summary,omitempty"`
	Responses map[string]openapiResponse `yaml:"responses"`
}

type openapiResponse struct {
	Description string `yaml:"description"`
}

// WriteOpenAPI renders the deduplicated call set as a minimal OpenAPI 3
// document: observed paths, methods, and response codes, with no schema
// inference. The server URL is derived from the first call.
func WriteOpenAPI(w io.Writer, title string, calls []capture.CapturedCall) error {
	doc := openapiDoc{
		OpenAPI: "3.0.3",
		Info:    openapiInfo{Title: title, Version: "0.1.0"},
		Paths:   make(map[string]map[string]openapiOperation),
	}

	for _, call := range calls {
		parsed, err := url.Parse(call.URL)
		if err != nil || parsed.Host == "" {
			continue
		}
		if len(doc.Servers) == 0 {
			doc.Servers = []openapiServer{{URL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)}}
		}

		path := parsed.Path
		if path == "" {
			path = "/"
		}
		method := strings.ToLower(call.Method)

		ops := doc.Paths[path]
		if ops == nil {
			ops = make(map[string]openapiOperation)
			doc.Paths[path] = ops
		}
		op, ok := ops[method]
		if !ok {
			op = openapiOperation{
				Summary:   fmt.Sprintf("Observed %s %s", call.Method, path),
				Responses: make(map[string]openapiResponse),
			}
		}
		code := strconv.Itoa(call.Status)
		if _, dup := op.Responses[code]; !dup {
			op.Responses[code] = openapiResponse{Description: "Observed response"}
		}
		ops[method] = op
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding OpenAPI document: %w", err)
	}
	return enc.Close()
}

// SortedPaths returns the document's path keys in lexical order. Useful
// for deterministic listings in the TUI.
func SortedPaths(calls []capture.CapturedCall) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, call := range calls {
		p := endpointPath(call.URL)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
