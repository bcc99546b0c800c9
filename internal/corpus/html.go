package corpus

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText reduces fragment text to plain prose. Text exported from
// documents as HTML is parsed and only its visible text kept; plain text
// only has its whitespace collapsed.
func VisibleText(s string) (string, error) {
	if !looksLikeMarkup(s) {
		return collapse(s), nil
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	return collapse(extractVisibleText(doc)), nil
}

// extractVisibleText extracts text nodes, skipping scripts and styles.
// Block elements end a run of text so words either side do not merge.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "br", "td", "th", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				buf.WriteString(" ")
			}
		}
	}

	walk(n)
	return buf.String()
}

func looksLikeMarkup(s string) bool {
	open := strings.Index(s, "<")
	return open >= 0 && strings.Contains(s[open:], ">") && (strings.Contains(s, "</") || strings.Contains(s, "/>") || strings.Contains(s, "<br"))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
