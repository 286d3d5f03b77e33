package heap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ReservedBytes is the size of the zero page at the start of every heap.
const ReservedBytes = 8

// MaxStringLength caps the length prefix accepted by ReadString (4MB).
const MaxStringLength = 4 * 1024 * 1024

// Common read errors.
var (
	ErrOutOfBounds    = errors.New("heap: address out of bounds")
	ErrNullPointer    = errors.New("heap: null pointer")
	ErrNegativeLength = errors.New("heap: negative length")
	ErrStringTooLarge = errors.New("heap: string length exceeds limit")
)

// Address is a byte offset into a Heap.
type Address int32

// Null is the null address.
const Null Address = 0

// Invalid is returned by address arithmetic that overflows. Every read at
// Invalid fails with ErrOutOfBounds.
const Invalid Address = -1

// Add returns a+n, or Invalid if the sum leaves the int32 address space.
func (a Address) Add(n int32) Address {
	return fromInt64(int64(a) + int64(n))
}

func fromInt64(v int64) Address {
	if v < 0 || v > math.MaxInt32 {
		return Invalid
	}
	return Address(v)
}

// Heap is a read-only view over a host-owned buffer.
type Heap struct {
	buf      []byte
	released bool
}

// New wraps buf. The heap does not copy buf; the caller must not modify it
// while the heap is in use.
func New(buf []byte) *Heap {
	return &Heap{buf: buf}
}

// Len returns the size of the heap in bytes.
func (h *Heap) Len() int {
	h.mustBeLive()
	return len(h.buf)
}

// Bytes returns the underlying buffer.
func (h *Heap) Bytes() []byte {
	h.mustBeLive()
	return h.buf
}

// Release ends the heap's lifetime. Reads after Release panic.
func (h *Heap) Release() {
	h.released = true
	h.buf = nil
}

// Released reports whether Release has been called.
func (h *Heap) Released() bool {
	return h.released
}

func (h *Heap) mustBeLive() {
	if h.released {
		panic("heap: read after release")
	}
}

// check validates that n bytes starting at addr lie inside the buffer.
func (h *Heap) check(addr Address, n int) error {
	h.mustBeLive()
	if addr < 0 || int64(addr)+int64(n) > int64(len(h.buf)) {
		return fmt.Errorf("%w: [%d, %d) in heap of %d bytes", ErrOutOfBounds, addr, int64(addr)+int64(n), len(h.buf))
	}
	return nil
}

// ReadInt32 reads a little-endian int32 at addr.
func (h *Heap) ReadInt32(addr Address) (int32, error) {
	if err := h.check(addr, 4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(h.buf[addr:])), nil
}

// ReadInt32Field reads the int32 field at offset bytes past base.
func (h *Heap) ReadInt32Field(base Address, offset int32) (int32, error) {
	return h.ReadInt32(base.Add(offset))
}

// ReadAddressField reads the pointer field at offset bytes past base.
func (h *Heap) ReadAddressField(base Address, offset int32) (Address, error) {
	v, err := h.ReadInt32(base.Add(offset))
	return Address(v), err
}

// ReadString reads the length-prefixed string at addr.
// The null address reads as the empty string.
func (h *Heap) ReadString(addr Address) (string, error) {
	if addr == Null {
		h.mustBeLive()
		return "", nil
	}
	length, err := h.ReadInt32(addr)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", ErrNegativeLength
	}
	if length > MaxStringLength {
		return "", ErrStringTooLarge
	}
	start := addr.Add(4)
	if err := h.check(start, int(length)); err != nil {
		return "", err
	}
	return string(h.buf[start : int(start)+int(length)]), nil
}

// ReadStringField reads the string whose address is stored at offset bytes
// past base.
func (h *Heap) ReadStringField(base Address, offset int32) (string, error) {
	ptr, err := h.ReadAddressField(base, offset)
	if err != nil {
		return "", err
	}
	return h.ReadString(ptr)
}

// ArrayEntry returns the address of element index in an array of
// fixed-size records starting at base, or Invalid if the offset overflows.
// It does not check index against a count; see renderbatch.ArrayRange for
// the checked form.
func ArrayEntry(base Address, index, stride int32) Address {
	return fromInt64(int64(base) + int64(index)*int64(stride))
}

// ArrayFits reports whether count records of stride bytes starting at base
// lie inside the heap.
func (h *Heap) ArrayFits(base Address, count, stride int32) bool {
	h.mustBeLive()
	if base < 0 || count < 0 || stride < 0 {
		return false
	}
	return int64(base)+int64(count)*int64(stride) <= int64(len(h.buf))
}
