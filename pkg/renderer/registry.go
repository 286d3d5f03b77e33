package renderer

// Registry maps renderer ids to Renderers. It is an owned table passed to
// whoever dispatches batches, not ambient global state.
type Registry struct {
	doc       Document
	opts      []Option
	renderers map[int32]*Renderer
}

// NewRegistry creates a registry whose renderers mutate doc and are built
// with opts.
func NewRegistry(doc Document, opts ...Option) *Registry {
	return &Registry{
		doc:       doc,
		opts:      opts,
		renderers: make(map[int32]*Renderer),
	}
}

// Get returns the renderer for id, if one exists.
func (g *Registry) Get(id int32) (*Renderer, bool) {
	r, ok := g.renderers[id]
	return r, ok
}

// GetOrCreate returns the renderer for id, creating it on first use.
// Repeated calls with the same id return the same instance.
func (g *Registry) GetOrCreate(id int32) *Renderer {
	if r, ok := g.renderers[id]; ok {
		return r
	}
	r := New(id, g.doc, g.opts...)
	g.renderers[id] = r
	return r
}

// Remove closes and forgets the renderer for id. It reports whether one
// existed.
func (g *Registry) Remove(id int32) bool {
	r, ok := g.renderers[id]
	if !ok {
		return false
	}
	r.Close()
	delete(g.renderers, id)
	return true
}

// Len returns the number of renderers.
func (g *Registry) Len() int {
	return len(g.renderers)
}

// IDs returns the renderer ids in ascending order.
func (g *Registry) IDs() []int32 {
	ids := make([]int32, 0, len(g.renderers))
	for id := range g.renderers {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}
