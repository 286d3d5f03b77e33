package heap

import "encoding/binary"

// Writer builds a heap by appending records. It is designed for producing
// batches without reflection; records are written in place and patched by
// address.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the zero page already reserved.
func NewWriter() *Writer {
	return NewWriterWithCap(256)
}

// NewWriterWithCap creates a writer with the specified initial capacity.
func NewWriterWithCap(capacity int) *Writer {
	if capacity < ReservedBytes {
		capacity = ReservedBytes
	}
	w := &Writer{buf: make([]byte, ReservedBytes, capacity)}
	return w
}

// Len returns the number of bytes written, including the zero page.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the written bytes. The slice is valid until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Heap returns a Heap over a copy of the written bytes.
func (w *Writer) Heap() *Heap {
	buf := make([]byte, len(w.buf))
	copy(buf, w.buf)
	return New(buf)
}

// Alloc reserves n zeroed bytes and returns their address.
func (w *Writer) Alloc(n int) Address {
	addr := Address(len(w.buf))
	w.buf = append(w.buf, make([]byte, n)...)
	return addr
}

// WriteInt32 appends v and returns its address.
func (w *Writer) WriteInt32(v int32) Address {
	addr := Address(len(w.buf))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	return addr
}

// WriteInt32Array appends vs contiguously and returns the address of the
// first element. An empty slice returns Null.
func (w *Writer) WriteInt32Array(vs []int32) Address {
	if len(vs) == 0 {
		return Null
	}
	addr := Address(len(w.buf))
	for _, v := range vs {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	}
	return addr
}

// WriteString appends a length-prefixed string and returns its address.
func (w *Writer) WriteString(s string) Address {
	addr := w.WriteInt32(int32(len(s)))
	w.buf = append(w.buf, s...)
	return addr
}

// PutInt32 overwrites the int32 at addr. addr must have been returned by
// this writer.
func (w *Writer) PutInt32(addr Address, v int32) {
	binary.LittleEndian.PutUint32(w.buf[addr:], uint32(v))
}

// PutAddress overwrites the pointer at addr.
func (w *Writer) PutAddress(addr, target Address) {
	w.PutInt32(addr, int32(target))
}
