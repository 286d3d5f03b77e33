package renderer

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/batchdom/pkg/dom"
)

// eventType maps an event attribute name to its DOM event type.
func eventType(attributeName string) string {
	return strings.TrimPrefix(strings.ToLower(attributeName), "on")
}

// bind attaches a listener for handlerID on element, owned by owner.
func (r *Renderer) bind(owner *component, element *html.Node, attributeName string, handlerID int32) {
	typ := eventType(attributeName)

	// The host may rebind an id without disposing it first.
	if old, ok := r.handlers[handlerID]; ok {
		r.release(old)
	}
	if events := r.byElement[element]; events != nil {
		if prev, ok := events[typ]; ok {
			if b, ok := r.handlers[prev]; ok {
				r.release(b)
			}
		}
	}

	b := &binding{
		id:        handlerID,
		owner:     owner.id,
		element:   element,
		eventType: typ,
	}
	b.listener = r.doc.AddEventListener(element, typ, func(ev *dom.Event) {
		r.raise(b, ev)
	})
	r.handlers[handlerID] = b
	if r.byElement[element] == nil {
		r.byElement[element] = make(map[string]int32)
	}
	r.byElement[element][typ] = handlerID
	owner.handlers[handlerID] = struct{}{}
}

// unbindAttribute releases the binding for an event attribute on element,
// if any.
func (r *Renderer) unbindAttribute(element *html.Node, attributeName string) bool {
	events := r.byElement[element]
	if events == nil {
		return false
	}
	hid, ok := events[eventType(attributeName)]
	if !ok {
		return false
	}
	b, ok := r.handlers[hid]
	if !ok {
		return false
	}
	r.release(b)
	return true
}

// release detaches b and removes it from every table.
func (r *Renderer) release(b *binding) {
	r.doc.RemoveEventListener(b.listener)
	delete(r.handlers, b.id)
	if events := r.byElement[b.element]; events != nil {
		if events[b.eventType] == b.id {
			delete(events, b.eventType)
		}
		if len(events) == 0 {
			delete(r.byElement, b.element)
		}
	}
	if c, ok := r.components[b.owner]; ok {
		delete(c.handlers, b.id)
	}
}

func (r *Renderer) raise(b *binding, ev *dom.Event) {
	e := Event{
		RendererID:     r.id,
		EventHandlerID: b.id,
		ComponentID:    b.owner,
		EventType:      ev.Type,
		Value:          ev.Value,
	}
	if r.config.OnEvent == nil {
		r.logger.Debug("event dropped", "handler", b.id, "event", ev.Type)
		return
	}
	r.config.OnEvent(e)
}
