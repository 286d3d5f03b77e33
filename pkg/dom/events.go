package dom

import "golang.org/x/net/html"

// Event is delivered to listeners by Dispatch.
type Event struct {
	Type          string     // "click", "input", ...
	Target        *html.Node // Node the event was dispatched on
	CurrentTarget *html.Node // Node whose listener is running
	Value         string     // Optional payload, e.g. an input's new value

	stopped bool
}

// StopPropagation prevents the event from reaching ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener is a registered event callback.
type Listener struct {
	Node *html.Node
	Type string
	Fn   func(*Event)

	removed bool
}

// AddEventListener registers fn for events of type on node n.
func (d *Document) AddEventListener(n *html.Node, eventType string, fn func(*Event)) *Listener {
	l := &Listener{Node: n, Type: eventType, Fn: fn}
	d.listeners[n] = append(d.listeners[n], l)
	return l
}

// RemoveEventListener detaches l. It reports whether l was registered;
// removing a listener twice is a no-op.
func (d *Document) RemoveEventListener(l *Listener) bool {
	if l == nil || l.removed {
		return false
	}
	list := d.listeners[l.Node]
	for i, x := range list {
		if x == l {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(d.listeners, l.Node)
	} else {
		d.listeners[l.Node] = list
	}
	l.removed = true
	return true
}

// Listeners returns the listeners registered on n.
func (d *Document) Listeners(n *html.Node) []*Listener {
	return append([]*Listener(nil), d.listeners[n]...)
}

// ListenerCount returns the number of listeners registered anywhere.
func (d *Document) ListenerCount() int {
	count := 0
	for _, list := range d.listeners {
		count += len(list)
	}
	return count
}

// Dispatch delivers an event of type eventType to target and then bubbles it
// through target's ancestors. It returns the number of listeners invoked.
func (d *Document) Dispatch(target *html.Node, eventType, value string) int {
	ev := &Event{Type: eventType, Target: target, Value: value}
	invoked := 0
	for n := target; n != nil && !ev.stopped; n = n.Parent {
		ev.CurrentTarget = n
		for _, l := range d.Listeners(n) {
			if l.Type != eventType || l.removed {
				continue
			}
			l.Fn(ev)
			invoked++
		}
	}
	return invoked
}
