package tuleap

import (
	"strings"

	"golang.org/x/net/html"
)

// isHTML reports whether the string starts with markup. The service stores
// rich-text bodies either as plain text or as an HTML document; the first
// non-text token decides which.
func isHTML(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		default:
			return false
		}
	}
}

// stripHTML extracts the visible text of an HTML body and trims surrounding
// whitespace. Plain text passes through unchanged apart from the trim.
func stripHTML(s string) string {
	if !isHTML(s) {
		return strings.TrimSpace(s)
	}
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.TrimSpace(b.String())
}
