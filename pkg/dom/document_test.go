package dom

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const page = `<!DOCTYPE html><html><head></head><body><div id="app"><p>loading</p><span class="x">a</span></div><section class="x"></section></body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestQuerySelector(t *testing.T) {
	doc := mustParse(t, page)

	tests := []struct {
		name     string
		selector string
		wantTag  string
	}{
		{"id", "#app", "div"},
		{"class first match", ".x", "span"},
		{"descendant", "body > section", "section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := doc.QuerySelector(tt.selector)
			if err != nil {
				t.Fatalf("QuerySelector() error = %v", err)
			}
			if n == nil || n.Data != tt.wantTag {
				t.Errorf("QuerySelector(%q) = %v, want <%s>", tt.selector, n, tt.wantTag)
			}
		})
	}
}

func TestQuerySelectorNoMatch(t *testing.T) {
	doc := mustParse(t, page)
	n, err := doc.QuerySelector("#missing")
	if err != nil || n != nil {
		t.Errorf("QuerySelector() = %v, %v; want nil, nil", n, err)
	}
}

func TestQuerySelectorInvalid(t *testing.T) {
	doc := mustParse(t, page)
	if _, err := doc.QuerySelector("div[["); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("error = %v, want ErrInvalidSelector", err)
	}
}

func TestQuerySelectorAll(t *testing.T) {
	doc := mustParse(t, page)
	nodes, err := doc.QuerySelectorAll(".x")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Errorf("len = %d, want 2", len(nodes))
	}
}

func TestContains(t *testing.T) {
	doc := mustParse(t, page)
	app, _ := doc.QuerySelector("#app")
	if !doc.Contains(app) {
		t.Error("attached element reported detached")
	}
	app.Parent.RemoveChild(app)
	if doc.Contains(app) {
		t.Error("removed element reported attached")
	}
	if doc.Contains(CreateElement("div")) {
		t.Error("fresh element reported attached")
	}
}

func TestChildOps(t *testing.T) {
	parent := CreateElement("ul")
	for _, s := range []string{"a", "c"} {
		parent.AppendChild(CreateText(s))
	}
	if err := InsertChildAt(parent, CreateText("b"), 1); err != nil {
		t.Fatal(err)
	}
	if err := InsertChildAt(parent, CreateText("d"), 3); err != nil {
		t.Fatal(err)
	}
	if got := TextContent(parent); got != "abcd" {
		t.Errorf("TextContent() = %q, want abcd", got)
	}
	if err := InsertChildAt(parent, CreateText("x"), 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("InsertChildAt(9) error = %v, want ErrIndexOutOfRange", err)
	}

	removed, err := RemoveChildAt(parent, 0)
	if err != nil || removed.Data != "a" {
		t.Errorf("RemoveChildAt(0) = %v, %v", removed, err)
	}
	if ChildCount(parent) != 3 {
		t.Errorf("ChildCount() = %d, want 3", ChildCount(parent))
	}
	if _, err := RemoveChildAt(parent, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveChildAt(3) error = %v", err)
	}

	ClearChildren(parent)
	if parent.FirstChild != nil {
		t.Error("ClearChildren left children")
	}
}

func TestAttributes(t *testing.T) {
	el := CreateElement("DIV")
	if el.Data != "div" {
		t.Errorf("tag = %q, want div", el.Data)
	}
	_ = SetAttribute(el, "class", "a")
	_ = SetAttribute(el, "Class", "b")
	if v, _ := Attribute(el, "class"); v != "b" || len(el.Attr) != 1 {
		t.Errorf("attrs = %+v", el.Attr)
	}
	if !RemoveAttribute(el, "class") || RemoveAttribute(el, "class") {
		t.Error("RemoveAttribute presence reporting wrong")
	}
	if err := SetAttribute(CreateText("t"), "a", "b"); !errors.Is(err, ErrNotElement) {
		t.Errorf("SetAttribute on text error = %v", err)
	}
}

func TestRenderAndInnerHTML(t *testing.T) {
	doc := mustParse(t, page)
	app, _ := doc.QuerySelector("#app")
	if got := InnerHTML(app); got != `<p>loading</p><span class="x">a</span>` {
		t.Errorf("InnerHTML() = %q", got)
	}
	if !strings.Contains(doc.String(), `<div id="app">`) {
		t.Errorf("String() missing app: %s", doc.String())
	}
}

func TestDispatchBubbles(t *testing.T) {
	doc := mustParse(t, page)
	app, _ := doc.QuerySelector("#app")
	span, _ := doc.QuerySelector("span")

	var order []string
	doc.AddEventListener(span, "click", func(e *Event) { order = append(order, "span") })
	doc.AddEventListener(app, "click", func(e *Event) {
		if e.Target != span || e.CurrentTarget != app {
			t.Errorf("unexpected targets %v %v", e.Target, e.CurrentTarget)
		}
		order = append(order, "app")
	})
	doc.AddEventListener(app, "input", func(*Event) { order = append(order, "input") })

	if n := doc.Dispatch(span, "click", ""); n != 2 {
		t.Errorf("Dispatch() invoked %d, want 2", n)
	}
	if strings.Join(order, ",") != "span,app" {
		t.Errorf("order = %v", order)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := mustParse(t, page)
	app, _ := doc.QuerySelector("#app")
	span, _ := doc.QuerySelector("span")
	doc.AddEventListener(span, "click", func(e *Event) { e.StopPropagation() })
	doc.AddEventListener(app, "click", func(*Event) { t.Error("event bubbled past StopPropagation") })
	doc.Dispatch(span, "click", "")
}

func TestRemoveEventListener(t *testing.T) {
	doc := New()
	el := CreateElement("button")
	l := doc.AddEventListener(el, "click", func(*Event) { t.Error("removed listener invoked") })
	if doc.ListenerCount() != 1 {
		t.Fatalf("ListenerCount() = %d", doc.ListenerCount())
	}
	if !doc.RemoveEventListener(l) {
		t.Error("first removal reported false")
	}
	if doc.RemoveEventListener(l) {
		t.Error("second removal reported true")
	}
	if doc.ListenerCount() != 0 || len(doc.Listeners(el)) != 0 {
		t.Error("listener still registered")
	}
	doc.Dispatch(el, "click", "")
}

func TestNewDocument(t *testing.T) {
	doc := New()
	body, err := doc.QuerySelector("body")
	if err != nil || body == nil || body.Type != html.ElementNode {
		t.Errorf("body = %v, %v", body, err)
	}
}
