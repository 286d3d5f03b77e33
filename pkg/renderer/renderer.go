package renderer

import (
	"log/slog"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/dom"
	"github.com/vango-dev/batchdom/pkg/heap"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
)

// Document is the part of the DOM host a Renderer needs beyond tree
// mutation. *dom.Document implements it.
type Document interface {
	Contains(n *html.Node) bool
	AddEventListener(n *html.Node, eventType string, fn func(*dom.Event)) *dom.Listener
	RemoveEventListener(l *dom.Listener) bool
}

// component is a registered component and the handler ids it owns.
type component struct {
	id       int32
	element  *html.Node
	root     bool
	handlers map[int32]struct{}
}

// binding is a live listener for one event handler id.
type binding struct {
	id        int32
	owner     int32
	element   *html.Node
	eventType string
	listener  *dom.Listener
}

// Renderer applies diffs for one root tree.
type Renderer struct {
	id     int32
	doc    Document
	config Config
	logger *slog.Logger

	components map[int32]*component
	handlers   map[int32]*binding
	byElement  map[*html.Node]map[string]int32
}

// New creates a Renderer with the given id mutating doc.
func New(id int32, doc Document, opts ...Option) *Renderer {
	config := buildConfig(opts)
	return &Renderer{
		id:         id,
		doc:        doc,
		config:     config,
		logger:     config.Logger.With("renderer", id),
		components: make(map[int32]*component),
		handlers:   make(map[int32]*binding),
		byElement:  make(map[*html.Node]map[string]int32),
	}
}

// ID returns the renderer id.
func (r *Renderer) ID() int32 {
	return r.id
}

// AttachRootComponentToElement makes componentID the root of element's
// subtree and discards element's existing children.
func (r *Renderer) AttachRootComponentToElement(componentID int32, element *html.Node) error {
	if element == nil || !r.doc.Contains(element) {
		return errors.New(errors.CodeElementDetached).
			WithDetailf("renderer %d, component %d", r.id, componentID)
	}
	if element.Type != html.ElementNode {
		return errors.New(errors.CodeElementDetached).
			WithDetailf("component %d target is not an element", componentID)
	}
	if _, ok := r.components[componentID]; ok {
		return errors.New(errors.CodeDuplicateComponent).
			WithDetailf("renderer %d, component %d", r.id, componentID)
	}
	r.components[componentID] = &component{
		id:       componentID,
		element:  element,
		root:     true,
		handlers: make(map[int32]struct{}),
	}
	dom.ClearChildren(element)
	r.logger.Debug("root component attached", "component", componentID, "element", element.Data)
	return nil
}

// UpdateComponent applies edits.Count edits of the segment, in order,
// against componentID's subtree. Edits may insert frames from
// referenceFrames by index. It returns the number of edits applied; on
// error the earlier edits stay applied.
func (r *Renderer) UpdateComponent(componentID int32, h *heap.Heap, edits renderbatch.ArraySegment, referenceFrames renderbatch.ArrayRange) (int, error) {
	c, ok := r.components[componentID]
	if !ok {
		return 0, errors.New(errors.CodeUnknownComponent).
			WithDetailf("renderer %d, component %d", r.id, componentID)
	}
	x := &editContext{r: r, h: h, frames: referenceFrames, owner: c}
	n, err := x.apply(edits)
	if err != nil {
		r.logger.Warn("component update failed", "component", componentID, "applied", n, "error", err)
		return n, err
	}
	r.logger.Debug("component updated", "component", componentID, "edits", n)
	return n, nil
}

// DisposeComponent forgets componentID and releases the handlers it owns.
// The component's DOM nodes are left in place. It reports whether the
// component was registered; disposing an unknown id is a no-op.
func (r *Renderer) DisposeComponent(componentID int32) bool {
	c, ok := r.components[componentID]
	if !ok {
		return false
	}
	released := 0
	for hid := range c.handlers {
		if b, ok := r.handlers[hid]; ok {
			r.release(b)
			released++
		}
	}
	delete(r.components, componentID)
	r.logger.Debug("component disposed", "component", componentID, "handlers_released", released)
	return true
}

// DisposeEventHandler detaches the listener bound to eventHandlerID. It
// reports whether the handler was bound; disposing an unknown or already
// released id is a no-op.
func (r *Renderer) DisposeEventHandler(eventHandlerID int32) bool {
	b, ok := r.handlers[eventHandlerID]
	if !ok {
		return false
	}
	r.release(b)
	r.logger.Debug("event handler disposed", "handler", eventHandlerID)
	return true
}

// Close releases every handler and forgets every component.
func (r *Renderer) Close() {
	for _, b := range r.handlers {
		r.release(b)
	}
	r.components = make(map[int32]*component)
	r.logger.Debug("renderer closed")
}

// HasComponent reports whether componentID is registered.
func (r *Renderer) HasComponent(componentID int32) bool {
	_, ok := r.components[componentID]
	return ok
}

// ComponentElement returns the element holding componentID's output.
func (r *Renderer) ComponentElement(componentID int32) (*html.Node, bool) {
	c, ok := r.components[componentID]
	if !ok {
		return nil, false
	}
	return c.element, true
}

// IsRootComponent reports whether componentID was attached as a root.
func (r *Renderer) IsRootComponent(componentID int32) bool {
	c, ok := r.components[componentID]
	return ok && c.root
}

// ComponentIDs returns the registered component ids in ascending order.
func (r *Renderer) ComponentIDs() []int32 {
	ids := make([]int32, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// HasEventHandler reports whether eventHandlerID is bound.
func (r *Renderer) HasEventHandler(eventHandlerID int32) bool {
	_, ok := r.handlers[eventHandlerID]
	return ok
}

// EventHandlerIDs returns the bound handler ids in ascending order.
func (r *Renderer) EventHandlerIDs() []int32 {
	ids := make([]int32, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// OwnedEventHandlerIDs returns the handler ids owned by componentID.
func (r *Renderer) OwnedEventHandlerIDs(componentID int32) []int32 {
	c, ok := r.components[componentID]
	if !ok {
		return nil
	}
	ids := make([]int32, 0, len(c.handlers))
	for id := range c.handlers {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []int32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
