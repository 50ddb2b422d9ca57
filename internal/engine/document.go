package engine

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page ready for accessibility checks.
//
// Design decision: We parse once with golang.org/x/net/html and hand the
// same tree to every check rather than letting checks parse independently
// because:
//  1. It correctly handles the malformed HTML common on the web
//  2. A single parse keeps evaluation cost proportional to page size
//  3. Checks stay small: they only walk, never tokenize
type Document struct {
	// root is the parsed document tree.
	root *html.Node

	// Title is the text of the first <title> element, trimmed.
	Title string

	// Lang is the lang attribute of the <html> element, if present.
	Lang string
}

// ParseDocument parses HTML content into a Document.
func ParseDocument(content []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	doc := &Document{root: root}

	doc.walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "html":
			if doc.Lang == "" {
				doc.Lang = getAttr(n, "lang")
			}
		case "title":
			if doc.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				doc.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}
	})

	return doc, nil
}

// walk visits every node in the tree in document order.
func (d *Document) walk(visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		visit(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(d.root)
}

// Elements returns all elements with any of the given tag names,
// in document order.
func (d *Document) Elements(tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[tag] = true
	}

	var result []*html.Node
	d.walk(func(n *html.Node) {
		if n.Type == html.ElementNode && want[n.Data] {
			result = append(result, n)
		}
	})
	return result
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the node carries the attribute at all,
// regardless of its value. Needed to distinguish alt="" from a missing alt.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return true
		}
	}
	return false
}

// nodeText returns the concatenated trimmed text content of a node's
// subtree. Used to decide whether links and buttons have discernible text.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return strings.TrimSpace(sb.String())
}

// snippet renders a short opening-tag representation of an element for use
// as an issue location, e.g. `<img src="logo.png">`.
func snippet(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(n.Data)
	for i, attr := range n.Attr {
		if i >= 3 {
			sb.WriteString(" ...")
			break
		}
		sb.WriteString(" ")
		sb.WriteString(attr.Key)
		sb.WriteString(`="`)
		val := attr.Val
		if len(val) > 40 {
			val = val[:40] + "..."
		}
		sb.WriteString(val)
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	return sb.String()
}
