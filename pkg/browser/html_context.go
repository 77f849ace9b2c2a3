package browser

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractPageContext parses raw HTML into the structural summary handed to
// the reasoning service. Parse failures degrade to a context holding only
// the URL.
func ExtractPageContext(rawHTML, pageURL string) *PageContext {
	pc := &PageContext{URL: pageURL}
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return pc
	}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "title":
			if pc.Title == "" {
				pc.Title = nodeText(n)
			}
		case "h1", "h2", "h3":
			if t := nodeText(n); t != "" {
				pc.Headings = append(pc.Headings, t)
			}
		case "button":
			if t := nodeText(n); t != "" {
				pc.Buttons = append(pc.Buttons, t)
			}
		case "input":
			if attr(n, "type") == "submit" {
				if v := attr(n, "value"); v != "" {
					pc.Buttons = append(pc.Buttons, v)
				}
			}
		case "a":
			if t := nodeText(n); t != "" && attr(n, "href") != "" {
				pc.Links = append(pc.Links, t)
			}
		}
	})
	return pc
}

// ExtractCandidates parses raw HTML into navigation candidates: labeled
// links with hrefs resolved against baseURL, then labeled buttons.
// The result is deduplicated by (type, label, href) and capped.
func ExtractCandidates(rawHTML, baseURL string) []Candidate {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	base, _ := url.Parse(baseURL)

	var out []Candidate
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "a":
			label := nodeText(n)
			href := attr(n, "href")
			if label == "" || href == "" || strings.HasPrefix(href, "#") ||
				strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return
			}
			out = append(out, Candidate{Label: label, Href: resolveHref(base, href), Type: "link"})
		case "button":
			if label := nodeText(n); label != "" {
				out = append(out, Candidate{Label: label, Type: "button"})
			}
		case "input":
			if attr(n, "type") == "submit" {
				if v := attr(n, "value"); v != "" {
					out = append(out, Candidate{Label: v, Type: "button"})
				}
			}
		}
	})
	return DedupeCandidates(out)
}

func resolveHref(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// nodeText collects and normalizes the text content beneath a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var gather func(*html.Node)
	gather = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		// Script and style text is not user-visible.
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			gather(c)
		}
	}
	gather(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}
