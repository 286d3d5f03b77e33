package renderbatch

import (
	"errors"
	"fmt"
	"math"

	"github.com/vango-dev/batchdom/pkg/heap"
)

// Record strides in bytes.
const (
	ArrayRangeLength      = 8
	ArraySegmentLength    = 12
	RenderBatchLength     = 4 * ArrayRangeLength
	RenderTreeDiffLength  = 4 + ArraySegmentLength
	RenderTreeEditLength  = 16
	RenderTreeFrameLength = 24
	Int32Length           = 4
)

// ErrIndexOutOfRange is returned when an entry index is outside its range.
var ErrIndexOutOfRange = errors.New("renderbatch: index out of range")

// ArrayRange is a view of count contiguous records starting at Array.
type ArrayRange struct {
	Array heap.Address
	Count int32
}

// ReadArrayRange reads the ArrayRange stored at addr.
func ReadArrayRange(h *heap.Heap, addr heap.Address) (ArrayRange, error) {
	array, err := h.ReadAddressField(addr, 0)
	if err != nil {
		return ArrayRange{}, err
	}
	count, err := h.ReadInt32Field(addr, 4)
	if err != nil {
		return ArrayRange{}, err
	}
	if count < 0 {
		return ArrayRange{}, fmt.Errorf("renderbatch: negative array count %d at %d", count, addr)
	}
	return ArrayRange{Array: array, Count: count}, nil
}

// Entry returns the address of record i. Valid for 0 <= i < Count.
func (r ArrayRange) Entry(i, stride int32) (heap.Address, error) {
	if i < 0 || i >= r.Count {
		return heap.Null, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, r.Count)
	}
	addr := heap.ArrayEntry(r.Array, i, stride)
	if addr == heap.Invalid {
		return heap.Invalid, fmt.Errorf("%w: record %d of stride %d from %d", heap.ErrOutOfBounds, i, stride, r.Array)
	}
	return addr, nil
}

// ReadInt32s reads every entry of an int32 range.
func (r ArrayRange) ReadInt32s(h *heap.Heap) ([]int32, error) {
	if r.Count > 0 && !h.ArrayFits(r.Array, r.Count, Int32Length) {
		return nil, fmt.Errorf("%w: %d int32s at %d in heap of %d bytes", heap.ErrOutOfBounds, r.Count, r.Array, h.Len())
	}
	out := make([]int32, 0, r.Count)
	for i := int32(0); i < r.Count; i++ {
		v, err := h.ReadInt32(heap.ArrayEntry(r.Array, i, Int32Length))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ArraySegment is a sub-view of Count records starting Offset records into
// Array.
type ArraySegment struct {
	Array  heap.Address
	Offset int32
	Count  int32
}

// ReadArraySegment reads the ArraySegment stored at addr.
func ReadArraySegment(h *heap.Heap, addr heap.Address) (ArraySegment, error) {
	array, err := h.ReadAddressField(addr, 0)
	if err != nil {
		return ArraySegment{}, err
	}
	offset, err := h.ReadInt32Field(addr, 4)
	if err != nil {
		return ArraySegment{}, err
	}
	count, err := h.ReadInt32Field(addr, 8)
	if err != nil {
		return ArraySegment{}, err
	}
	if offset < 0 || count < 0 {
		return ArraySegment{}, fmt.Errorf("renderbatch: invalid segment offset=%d count=%d at %d", offset, count, addr)
	}
	return ArraySegment{Array: array, Offset: offset, Count: count}, nil
}

// Entry returns the address of the i-th record of the segment, that is
// record Offset+i of the underlying array. Valid for 0 <= i < Count.
func (s ArraySegment) Entry(i, stride int32) (heap.Address, error) {
	if i < 0 || i >= s.Count {
		return heap.Null, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.Count)
	}
	index := int64(s.Offset) + int64(i)
	if index > math.MaxInt32 {
		return heap.Invalid, fmt.Errorf("%w: segment record %d", heap.ErrOutOfBounds, index)
	}
	addr := heap.ArrayEntry(s.Array, int32(index), stride)
	if addr == heap.Invalid {
		return heap.Invalid, fmt.Errorf("%w: segment record %d of stride %d from %d", heap.ErrOutOfBounds, index, stride, s.Array)
	}
	return addr, nil
}

// Batch holds the four top-level ranges of a render batch.
type Batch struct {
	UpdatedComponents       ArrayRange
	ReferenceFrames         ArrayRange
	DisposedComponentIDs    ArrayRange
	DisposedEventHandlerIDs ArrayRange
}

// Batch field offsets.
const (
	updatedComponentsOffset       = 0
	referenceFramesOffset         = 8
	disposedComponentIDsOffset    = 16
	disposedEventHandlerIDsOffset = 24
)

// UpdatedComponents reads the updated-components range of the batch at b.
func UpdatedComponents(h *heap.Heap, b heap.Address) (ArrayRange, error) {
	return ReadArrayRange(h, b.Add(updatedComponentsOffset))
}

// ReferenceFrames reads the reference-frame range of the batch at b.
func ReferenceFrames(h *heap.Heap, b heap.Address) (ArrayRange, error) {
	return ReadArrayRange(h, b.Add(referenceFramesOffset))
}

// DisposedComponentIDs reads the disposed-component range of the batch at b.
func DisposedComponentIDs(h *heap.Heap, b heap.Address) (ArrayRange, error) {
	return ReadArrayRange(h, b.Add(disposedComponentIDsOffset))
}

// DisposedEventHandlerIDs reads the disposed-handler range of the batch at b.
func DisposedEventHandlerIDs(h *heap.Heap, b heap.Address) (ArrayRange, error) {
	return ReadArrayRange(h, b.Add(disposedEventHandlerIDsOffset))
}

// ReadBatch reads all four ranges of the batch at b.
func ReadBatch(h *heap.Heap, b heap.Address) (Batch, error) {
	var (
		out Batch
		err error
	)
	if out.UpdatedComponents, err = UpdatedComponents(h, b); err != nil {
		return Batch{}, err
	}
	if out.ReferenceFrames, err = ReferenceFrames(h, b); err != nil {
		return Batch{}, err
	}
	if out.DisposedComponentIDs, err = DisposedComponentIDs(h, b); err != nil {
		return Batch{}, err
	}
	if out.DisposedEventHandlerIDs, err = DisposedEventHandlerIDs(h, b); err != nil {
		return Batch{}, err
	}
	return out, nil
}

// Diff is one component's edits.
type Diff struct {
	ComponentID int32
	Edits       ArraySegment
}

// ReadDiff reads the RenderTreeDiff at addr.
func ReadDiff(h *heap.Heap, addr heap.Address) (Diff, error) {
	id, err := h.ReadInt32Field(addr, 0)
	if err != nil {
		return Diff{}, err
	}
	edits, err := ReadArraySegment(h, addr.Add(4))
	if err != nil {
		return Diff{}, err
	}
	return Diff{ComponentID: id, Edits: edits}, nil
}
