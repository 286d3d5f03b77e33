// Package renderer applies render-batch diffs to a live document.
//
// A Renderer owns one root tree. It maps logical component ids to the
// element that contains each component's output, and logical event-handler
// ids to the listener bound in the document. The Registry keeps exactly one
// Renderer per renderer id.
//
// # Component lifecycle
//
//	Unattached ──attach──> Attached (root)    ──update*──> Disposed
//	Unattached ──frame───> Registered (child) ──update*──> Disposed
//
// A root component is attached to an existing element whose previous
// children are discarded. A child component is registered when a Component
// frame is inserted; its output goes into a container element. Updates for
// an id that is not registered fail, because they mean the host and client
// state are out of sync. Ids may be reused by the host after disposal.
//
// # Event handlers
//
// An attribute frame carrying an event handler id binds a listener on the
// element and records the handler as owned by the component whose diff
// created it. Disposing a component releases every handler it owns;
// disposing a handler that is already gone is a no-op, so cascading and
// explicit disposal never conflict.
//
// Renderers are not safe for concurrent use. Batches for one renderer are
// applied one at a time by construction.
package renderer
