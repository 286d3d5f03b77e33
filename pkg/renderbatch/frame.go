package renderbatch

import "github.com/vango-dev/batchdom/pkg/heap"

// FrameType is the node type discriminator of a reference frame.
type FrameType int32

const (
	FrameElement   FrameType = 1 // Container for other frames
	FrameText      FrameType = 2 // Text content
	FrameAttribute FrameType = 3 // Key/value pair on the preceding element
	FrameComponent FrameType = 4 // Child component placeholder
)

// String returns the string representation of the FrameType.
func (t FrameType) String() string {
	switch t {
	case FrameElement:
		return "Element"
	case FrameText:
		return "Text"
	case FrameAttribute:
		return "Attribute"
	case FrameComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Frame is a decoded RenderTreeFrame.
type Frame struct {
	Type                FrameType
	Name                string // Element tag, text content or attribute name
	Value               string // Attribute value
	DescendantsEndIndex int32  // Last frame index of an element subtree
	EventHandlerID      int32  // Attribute frames only; 0 for plain attributes
	ComponentID         int32  // Component frames only
}

// Frame field offsets.
const (
	frameTypeOffset           = 0
	frameNameOffset           = 4
	frameValueOffset          = 8
	frameDescendantsEndOffset = 12
	frameEventHandlerOffset   = 16
	frameComponentIDOffset    = 20
)

// ReadFrame reads the RenderTreeFrame at addr.
func ReadFrame(h *heap.Heap, addr heap.Address) (Frame, error) {
	var f Frame
	typ, err := h.ReadInt32Field(addr, frameTypeOffset)
	if err != nil {
		return Frame{}, err
	}
	f.Type = FrameType(typ)
	if f.Name, err = h.ReadStringField(addr, frameNameOffset); err != nil {
		return Frame{}, err
	}
	if f.Value, err = h.ReadStringField(addr, frameValueOffset); err != nil {
		return Frame{}, err
	}
	if f.DescendantsEndIndex, err = h.ReadInt32Field(addr, frameDescendantsEndOffset); err != nil {
		return Frame{}, err
	}
	if f.EventHandlerID, err = h.ReadInt32Field(addr, frameEventHandlerOffset); err != nil {
		return Frame{}, err
	}
	if f.ComponentID, err = h.ReadInt32Field(addr, frameComponentIDOffset); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// ReadFrameAt reads frame index of the reference-frame pool.
func ReadFrameAt(h *heap.Heap, frames ArrayRange, index int32) (Frame, error) {
	addr, err := frames.Entry(index, RenderTreeFrameLength)
	if err != nil {
		return Frame{}, err
	}
	return ReadFrame(h, addr)
}
