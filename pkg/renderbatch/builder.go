package renderbatch

import "github.com/vango-dev/batchdom/pkg/heap"

// DiffSpec is the producer-side form of a RenderTreeDiff.
type DiffSpec struct {
	ComponentID int32
	Edits       []Edit
}

// Spec is the producer-side form of a whole batch.
type Spec struct {
	Diffs                   []DiffSpec
	Frames                  []Frame
	DisposedComponentIDs    []int32
	DisposedEventHandlerIDs []int32
}

// Build encodes s into a fresh heap and returns it with the batch address.
func Build(s *Spec) (*heap.Heap, heap.Address) {
	w := heap.NewWriter()
	addr := Encode(w, s)
	return w.Heap(), addr
}

// Encode writes s to w and returns the address of the RenderBatch record.
//
// The edits of every diff are written to one shared array, each diff owning
// a segment of it, the same way a host lays out a batch.
func Encode(w *heap.Writer, s *Spec) heap.Address {
	batch := w.Alloc(RenderBatchLength)

	frames := encodeFrames(w, s.Frames)
	putRange(w, batch.Add(referenceFramesOffset), frames, len(s.Frames))

	total := 0
	for _, d := range s.Diffs {
		total += len(d.Edits)
	}
	var editsArray heap.Address
	if total > 0 {
		editsArray = w.Alloc(total * RenderTreeEditLength)
	}
	var diffsArray heap.Address
	if len(s.Diffs) > 0 {
		diffsArray = w.Alloc(len(s.Diffs) * RenderTreeDiffLength)
	}

	offset := int32(0)
	for i, d := range s.Diffs {
		diff := heap.ArrayEntry(diffsArray, int32(i), RenderTreeDiffLength)
		w.PutInt32(diff, d.ComponentID)
		w.PutAddress(diff.Add(4), editsArray)
		w.PutInt32(diff.Add(8), offset)
		w.PutInt32(diff.Add(12), int32(len(d.Edits)))
		for _, e := range d.Edits {
			encodeEdit(w, heap.ArrayEntry(editsArray, offset, RenderTreeEditLength), e)
			offset++
		}
	}
	putRange(w, batch.Add(updatedComponentsOffset), diffsArray, len(s.Diffs))

	putRange(w, batch.Add(disposedComponentIDsOffset), w.WriteInt32Array(s.DisposedComponentIDs), len(s.DisposedComponentIDs))
	putRange(w, batch.Add(disposedEventHandlerIDsOffset), w.WriteInt32Array(s.DisposedEventHandlerIDs), len(s.DisposedEventHandlerIDs))
	return batch
}

func putRange(w *heap.Writer, at, array heap.Address, count int) {
	w.PutAddress(at, array)
	w.PutInt32(at.Add(4), int32(count))
}

func encodeFrames(w *heap.Writer, frames []Frame) heap.Address {
	if len(frames) == 0 {
		return heap.Null
	}
	array := w.Alloc(len(frames) * RenderTreeFrameLength)
	for i, f := range frames {
		at := heap.ArrayEntry(array, int32(i), RenderTreeFrameLength)
		w.PutInt32(at.Add(frameTypeOffset), int32(f.Type))
		w.PutAddress(at.Add(frameNameOffset), writeOptionalString(w, f.Name))
		w.PutAddress(at.Add(frameValueOffset), writeOptionalString(w, f.Value))
		w.PutInt32(at.Add(frameDescendantsEndOffset), f.DescendantsEndIndex)
		w.PutInt32(at.Add(frameEventHandlerOffset), f.EventHandlerID)
		w.PutInt32(at.Add(frameComponentIDOffset), f.ComponentID)
	}
	return array
}

func encodeEdit(w *heap.Writer, at heap.Address, e Edit) {
	w.PutInt32(at, int32(e.Type))
	w.PutInt32(at.Add(4), e.SiblingIndex)
	w.PutInt32(at.Add(8), e.NewTreeIndex)
	w.PutAddress(at.Add(12), writeOptionalString(w, e.RemovedAttributeName))
}

func writeOptionalString(w *heap.Writer, s string) heap.Address {
	if s == "" {
		return heap.Null
	}
	return w.WriteString(s)
}

// Decode reads the whole batch at b back into its producer-side form.
func Decode(h *heap.Heap, b heap.Address) (*Spec, error) {
	batch, err := ReadBatch(h, b)
	if err != nil {
		return nil, err
	}
	s := &Spec{}
	for i := int32(0); i < batch.ReferenceFrames.Count; i++ {
		f, err := ReadFrameAt(h, batch.ReferenceFrames, i)
		if err != nil {
			return nil, err
		}
		s.Frames = append(s.Frames, f)
	}
	for i := int32(0); i < batch.UpdatedComponents.Count; i++ {
		addr, err := batch.UpdatedComponents.Entry(i, RenderTreeDiffLength)
		if err != nil {
			return nil, err
		}
		diff, err := ReadDiff(h, addr)
		if err != nil {
			return nil, err
		}
		ds := DiffSpec{ComponentID: diff.ComponentID}
		for j := int32(0); j < diff.Edits.Count; j++ {
			e, err := ReadEditAt(h, diff.Edits, j)
			if err != nil {
				return nil, err
			}
			ds.Edits = append(ds.Edits, e)
		}
		s.Diffs = append(s.Diffs, ds)
	}
	if s.DisposedComponentIDs, err = batch.DisposedComponentIDs.ReadInt32s(h); err != nil {
		return nil, err
	}
	if s.DisposedEventHandlerIDs, err = batch.DisposedEventHandlerIDs.ReadInt32s(h); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame constructors.

// ElementFrame returns an element frame whose subtree ends at frame index end.
func ElementFrame(tag string, end int32) Frame {
	return Frame{Type: FrameElement, Name: tag, DescendantsEndIndex: end}
}

// TextFrame returns a text frame.
func TextFrame(text string) Frame {
	return Frame{Type: FrameText, Name: text}
}

// AttributeFrame returns a plain attribute frame.
func AttributeFrame(name, value string) Frame {
	return Frame{Type: FrameAttribute, Name: name, Value: value}
}

// HandlerFrame returns an attribute frame bound to an event handler.
func HandlerFrame(name string, eventHandlerID int32) Frame {
	return Frame{Type: FrameAttribute, Name: name, EventHandlerID: eventHandlerID}
}

// ComponentFrame returns a child component placeholder frame.
func ComponentFrame(componentID int32) Frame {
	return Frame{Type: FrameComponent, ComponentID: componentID}
}

// Edit constructors.

// Prepend inserts frame newTreeIndex before child sibling.
func Prepend(sibling, newTreeIndex int32) Edit {
	return Edit{Type: EditPrependFrame, SiblingIndex: sibling, NewTreeIndex: newTreeIndex}
}

// Remove removes child sibling.
func Remove(sibling int32) Edit {
	return Edit{Type: EditRemoveFrame, SiblingIndex: sibling}
}

// SetAttribute applies attribute frame newTreeIndex to child sibling.
func SetAttribute(sibling, newTreeIndex int32) Edit {
	return Edit{Type: EditSetAttribute, SiblingIndex: sibling, NewTreeIndex: newTreeIndex}
}

// RemoveAttribute removes attribute name from child sibling.
func RemoveAttribute(sibling int32, name string) Edit {
	return Edit{Type: EditRemoveAttribute, SiblingIndex: sibling, RemovedAttributeName: name}
}

// UpdateText sets child sibling's text to frame newTreeIndex.
func UpdateText(sibling, newTreeIndex int32) Edit {
	return Edit{Type: EditUpdateText, SiblingIndex: sibling, NewTreeIndex: newTreeIndex}
}

// StepIn descends into child sibling.
func StepIn(sibling int32) Edit {
	return Edit{Type: EditStepIn, SiblingIndex: sibling}
}

// StepOut returns to the parent.
func StepOut() Edit {
	return Edit{Type: EditStepOut}
}
