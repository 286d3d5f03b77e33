package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Common errors.
var (
	ErrInvalidSelector = errors.New("dom: invalid selector")
	ErrIndexOutOfRange = errors.New("dom: child index out of range")
	ErrNotElement      = errors.New("dom: node is not an element")
)

// Document is a live HTML document.
type Document struct {
	root      *html.Node
	listeners map[*html.Node][]*Listener
	selectors map[string]cascadia.Sel
}

// New returns an empty document with html, head and body elements.
func New() *Document {
	doc, _ := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	return doc
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return newDocument(root), nil
}

// ParseString parses an HTML document from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node][]*Listener),
		selectors: make(map[string]cascadia.Sel),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// QuerySelector returns the first element matching selector, or nil if
// nothing matches.
func (d *Document) QuerySelector(selector string) (*html.Node, error) {
	sel, ok := d.selectors[selector]
	if !ok {
		var err error
		sel, err = cascadia.Parse(selector)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
		}
		d.selectors[selector] = sel
	}
	return cascadia.Query(d.root, sel), nil
}

// QuerySelectorAll returns every element matching selector in document order.
func (d *Document) QuerySelectorAll(selector string) ([]*html.Node, error) {
	if _, err := d.QuerySelector(selector); err != nil {
		return nil, err
	}
	return cascadia.QueryAll(d.root, d.selectors[selector]), nil
}

// Contains reports whether n is attached to the document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the document as HTML.
func (d *Document) String() string {
	var b bytes.Buffer
	_ = d.Render(&b)
	return b.String()
}

// OuterHTML returns the HTML of n and its subtree.
func OuterHTML(n *html.Node) string {
	var b bytes.Buffer
	_ = html.Render(&b, n)
	return b.String()
}

// InnerHTML returns the HTML of n's children.
func InnerHTML(n *html.Node) string {
	var b bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// CreateElement returns a detached element node.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// CreateText returns a detached text node.
func CreateText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}
