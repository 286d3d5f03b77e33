// Package browser exposes the entry points a host runtime calls: attaching
// a root component to an element and dispatching render batches.
//
// A Runtime owns the document, the renderer registry and the ambient
// instrumentation. Each render batch is applied in three fixed phases:
//
//  1. every updated component's diff, in batch order
//  2. every disposed component id
//  3. every disposed event-handler id
//
// Updates run first so a component's final edits land before its resources
// are released; components are disposed before handlers so handlers already
// released by a component's disposal turn the explicit disposal into a
// no-op.
//
// A batch either applies completely or the dispatch returns the first
// error, leaving earlier changes in place. There is no retry; the host
// decides whether to resend.
package browser
