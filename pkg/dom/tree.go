package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ChildCount returns the number of child nodes of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// ChildAt returns child index of n, or nil.
func ChildAt(n *html.Node, index int) *html.Node {
	if index < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && index > 0; index-- {
		c = c.NextSibling
	}
	return c
}

// InsertChildAt inserts child before the node currently at index. An index
// equal to the child count appends.
func InsertChildAt(parent, child *html.Node, index int) error {
	if index == ChildCount(parent) {
		parent.AppendChild(child)
		return nil
	}
	ref := ChildAt(parent, index)
	if ref == nil {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, index, ChildCount(parent))
	}
	parent.InsertBefore(child, ref)
	return nil
}

// RemoveChildAt removes and returns the child at index.
func RemoveChildAt(parent *html.Node, index int) (*html.Node, error) {
	child := ChildAt(parent, index)
	if child == nil {
		return nil, fmt.Errorf("%w: remove %d of %d", ErrIndexOutOfRange, index, ChildCount(parent))
	}
	parent.RemoveChild(child)
	return child, nil
}

// ClearChildren removes every child of n.
func ClearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// Attribute returns the value of attribute key on n.
func Attribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets attribute key on element n.
func SetAttribute(n *html.Node, key, value string) error {
	if n.Type != html.ElementNode {
		return ErrNotElement
	}
	key = strings.ToLower(key)
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return nil
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	return nil
}

// RemoveAttribute removes attribute key from n. It reports whether the
// attribute was present.
func RemoveAttribute(n *html.Node, key string) bool {
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// SetText replaces the content of text node n.
func SetText(n *html.Node, text string) error {
	if n.Type != html.TextNode {
		return fmt.Errorf("dom: node is not a text node")
	}
	n.Data = text
	return nil
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			} else {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}
