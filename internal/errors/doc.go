// Package errors provides structured, coded errors for batchdom.
//
// Every failure the renderer surfaces to a host carries a stable code so a
// host can tell a protocol violation from a document mismatch without
// parsing messages.
//
// # Error Categories
//
//   - protocol: the batch stream and the client state disagree (unknown
//     renderer, update for an unregistered component, malformed batch)
//   - document: the live document does not match what a call expects
//     (no element for a selector, element removed from the document)
//   - config: invalid batchdom.json
//   - capture: reading, decoding or replaying recordings
//
// Disposing something that is already gone is not an error and has no code.
//
// # Usage
//
//	err := errors.New("E200").
//	    WithDetail(fmt.Sprintf("renderer %d", id))
//
//	if errors.HasCode(err, "E200") {
//	    // unknown renderer
//	}
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E200: Unknown renderer
//	//
//	//   renderer 3
package errors
