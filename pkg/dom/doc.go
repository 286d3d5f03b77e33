// Package dom is the document host the renderer mutates.
//
// Documents are trees of golang.org/x/net/html nodes. The package adds the
// pieces of a browser DOM the renderer relies on and the html package does
// not provide: CSS selector lookup (via cascadia), positional child access,
// attachment checks and event listeners with bubbling dispatch.
//
// A Document is not safe for concurrent use. The renderer drives it from a
// single goroutine, the same way a page's event loop does.
package dom
