// Package heap provides a bounds-checked view over the memory a host runtime
// shares with the renderer.
//
// A host writes render batches into a flat byte buffer and hands the
// renderer an Address into it. Addresses are plain byte offsets; the heap
// never exposes raw pointers and validates every read against the buffer
// before interpreting it, so a corrupt offset becomes an error rather than
// a memory fault.
//
// # Layout
//
// All integers are little-endian int32. Address 0 is the null pointer; the
// first ReservedBytes of every heap are never handed out so no record can
// live there. Strings are stored as an int32 byte length followed by UTF-8
// bytes:
//
//	┌──────────────┬──────────────────────────┐
//	│ Length       │ UTF-8 bytes              │
//	│ (4 bytes)    │ (Length bytes)           │
//	└──────────────┴──────────────────────────┘
//
// # Lifetime
//
// A Heap is only valid for the duration of one dispatch. Release marks the
// end of that lifetime; any read after Release panics because it means the
// caller kept a view past the point the host may have reused the memory.
//
// # Writing
//
// Writer is the producer side. It is used by tests, the capture tooling and
// any Go host that needs to emit batches in the same layout.
package heap
