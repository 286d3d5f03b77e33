// Package preview serves the document produced by a replay and pushes
// every new snapshot to connected browsers over a WebSocket.
//
// Routes:
//
//	GET /                     current snapshot with the live client script
//	GET /_batchdom/snapshot   current snapshot as produced by the runtime
//	GET /_batchdom/ws         snapshot and error notifications
//	GET /metrics              Prometheus metrics, when a gatherer is set
package preview
