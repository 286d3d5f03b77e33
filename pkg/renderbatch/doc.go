// Package renderbatch interprets render batches in place.
//
// A render batch is written by the host into a heap and describes one
// incremental update: the diffs of every updated component, a shared pool
// of reference frames the diffs point into, and the ids of components and
// event handlers the host has disposed. Accessors in this package compute
// the address of each record with O(1) arithmetic over the layout below;
// nothing is copied or traversed.
//
// # Wire Format
//
// All fields are little-endian int32 (see package heap):
//
//	RenderBatch      (32 bytes)
//	  @0   updatedComponents        ArrayRange<RenderTreeDiff>
//	  @8   referenceFrames          ArrayRange<RenderTreeFrame>
//	  @16  disposedComponentIds     ArrayRange<int32>
//	  @24  disposedEventHandlerIds  ArrayRange<int32>
//
//	ArrayRange       (8 bytes)   @0 array, @4 count
//	ArraySegment     (12 bytes)  @0 array, @4 offset, @8 count
//	RenderTreeDiff   (16 bytes)  @0 componentId, @4 edits ArraySegment<RenderTreeEdit>
//	RenderTreeEdit   (16 bytes)  @0 type, @4 siblingIndex, @8 newTreeIndex,
//	                             @12 removedAttributeName (string)
//	RenderTreeFrame  (24 bytes)  @0 frameType, @4 name (string), @8 value (string),
//	                             @12 descendantsEndIndex, @16 eventHandlerId,
//	                             @20 componentId
//
// A frame's name is the tag of an element, the content of a text node or
// the name of an attribute. Attribute frames directly follow the element
// they belong to.
//
// Reads outside the heap are protocol violations and come back as errors
// wrapping heap.ErrOutOfBounds. The layout is a fixed contract with the
// producer; there is no versioning.
package renderbatch
