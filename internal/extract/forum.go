package extract

import (
	"encoding/json"
	"strings"

	"github.com/netpulse-io/netpulse/internal/model"
	"golang.org/x/net/html"
)

// forumPayload is the shape produced by forum crawlers. Bodies arrive as
// HTML fragments and are reduced to visible text before scoring.
type forumPayload struct {
	Title    string         `json:"title"`
	BodyHTML string         `json:"body_html"`
	Comments []forumComment `json:"comments"`
}

type forumComment struct {
	BodyHTML string `json:"body_html"`
}

// ForumThreadAdapter extracts the opening post and each comment
type ForumThreadAdapter struct{}

// Source returns the forum thread source tag
func (a *ForumThreadAdapter) Source() model.Source { return model.SourceForumThread }

// Extract returns one item for the thread body (title prepended) and one
// per comment. A body that fails to parse is skipped, not fatal.
func (a *ForumThreadAdapter) Extract(payload json.RawMessage) ([]Item, error) {
	var p forumPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}

	var items []Item
	if body := visibleText(p.BodyHTML); body != "" || p.Title != "" {
		text := strings.TrimSpace(strings.TrimSpace(p.Title) + " " + body)
		if text != "" {
			items = append(items, Item{Text: text})
		}
	}
	for _, c := range p.Comments {
		if text := visibleText(c.BodyHTML); text != "" {
			items = append(items, Item{Text: text})
		}
	}
	return items, nil
}

// visibleText extracts text nodes from an HTML fragment, skipping
// script/style subtrees. Returns "" when parsing yields nothing useful.
func visibleText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
