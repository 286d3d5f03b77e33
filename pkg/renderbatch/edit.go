package renderbatch

import "github.com/vango-dev/batchdom/pkg/heap"

// EditType is the kind of a RenderTreeEdit.
type EditType int32

const (
	EditPrependFrame    EditType = 1 // Insert a reference frame subtree
	EditRemoveFrame     EditType = 2 // Remove a child node
	EditSetAttribute    EditType = 3 // Apply an attribute frame to a child element
	EditRemoveAttribute EditType = 4 // Remove an attribute by name
	EditUpdateText      EditType = 5 // Replace a text node's content
	EditStepIn          EditType = 6 // Descend into a child element
	EditStepOut         EditType = 7 // Return to the parent element
)

// String returns the string representation of the EditType.
func (t EditType) String() string {
	switch t {
	case EditPrependFrame:
		return "PrependFrame"
	case EditRemoveFrame:
		return "RemoveFrame"
	case EditSetAttribute:
		return "SetAttribute"
	case EditRemoveAttribute:
		return "RemoveAttribute"
	case EditUpdateText:
		return "UpdateText"
	case EditStepIn:
		return "StepIn"
	case EditStepOut:
		return "StepOut"
	default:
		return "Unknown"
	}
}

// Edit is a decoded RenderTreeEdit.
type Edit struct {
	Type                 EditType
	SiblingIndex         int32
	NewTreeIndex         int32  // Index into the reference-frame pool
	RemovedAttributeName string // RemoveAttribute only
}

// ReadEdit reads the RenderTreeEdit at addr.
func ReadEdit(h *heap.Heap, addr heap.Address) (Edit, error) {
	typ, err := h.ReadInt32Field(addr, 0)
	if err != nil {
		return Edit{}, err
	}
	sibling, err := h.ReadInt32Field(addr, 4)
	if err != nil {
		return Edit{}, err
	}
	newTree, err := h.ReadInt32Field(addr, 8)
	if err != nil {
		return Edit{}, err
	}
	e := Edit{Type: EditType(typ), SiblingIndex: sibling, NewTreeIndex: newTree}
	if e.Type == EditRemoveAttribute {
		if e.RemovedAttributeName, err = h.ReadStringField(addr, 12); err != nil {
			return Edit{}, err
		}
	}
	return e, nil
}

// ReadEditAt reads the i-th edit of a diff's segment.
func ReadEditAt(h *heap.Heap, edits ArraySegment, i int32) (Edit, error) {
	addr, err := edits.Entry(i, RenderTreeEditLength)
	if err != nil {
		return Edit{}, err
	}
	return ReadEdit(h, addr)
}
