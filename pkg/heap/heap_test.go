package heap

import (
	"errors"
	"math"
	"testing"
)

func TestReadInt32(t *testing.T) {
	w := NewWriter()
	a := w.WriteInt32(42)
	b := w.WriteInt32(-7)
	h := w.Heap()

	tests := []struct {
		name string
		addr Address
		want int32
	}{
		{"positive", a, 42},
		{"negative", b, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.ReadInt32(tt.addr)
			if err != nil {
				t.Fatalf("ReadInt32() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadInt32() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadInt32OutOfBounds(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(1)
	h := w.Heap()

	for _, addr := range []Address{-4, Address(h.Len() - 3), Address(h.Len())} {
		if _, err := h.ReadInt32(addr); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ReadInt32(%d) error = %v, want ErrOutOfBounds", addr, err)
		}
	}
}

func TestReservedZeroPage(t *testing.T) {
	w := NewWriter()
	if got := w.WriteInt32(1); got != ReservedBytes {
		t.Errorf("first address = %d, want %d", got, ReservedBytes)
	}
}

func TestReadString(t *testing.T) {
	w := NewWriter()
	hello := w.WriteString("hello")
	empty := w.WriteString("")
	uni := w.WriteString("héllo wörld")
	h := w.Heap()

	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"ascii", hello, "hello"},
		{"empty", empty, ""},
		{"utf8", uni, "héllo wörld"},
		{"null", Null, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.ReadString(tt.addr)
			if err != nil {
				t.Fatalf("ReadString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadStringCorrupt(t *testing.T) {
	t.Run("length past end", func(t *testing.T) {
		w := NewWriter()
		addr := w.WriteInt32(100)
		if _, err := w.Heap().ReadString(addr); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("error = %v, want ErrOutOfBounds", err)
		}
	})
	t.Run("negative length", func(t *testing.T) {
		w := NewWriter()
		addr := w.WriteInt32(-1)
		if _, err := w.Heap().ReadString(addr); !errors.Is(err, ErrNegativeLength) {
			t.Errorf("error = %v, want ErrNegativeLength", err)
		}
	})
	t.Run("too large", func(t *testing.T) {
		w := NewWriter()
		addr := w.WriteInt32(MaxStringLength + 1)
		if _, err := w.Heap().ReadString(addr); !errors.Is(err, ErrStringTooLarge) {
			t.Errorf("error = %v, want ErrStringTooLarge", err)
		}
	})
}

func TestArrayEntry(t *testing.T) {
	base := Address(64)
	for _, stride := range []int32{4, 12, 16, 24} {
		for i := int32(0); i < 5; i++ {
			if got, want := ArrayEntry(base, i, stride), base+Address(i*stride); got != want {
				t.Errorf("ArrayEntry(%d, %d, %d) = %d, want %d", base, i, stride, got, want)
			}
		}
	}
}

func TestAddressOverflow(t *testing.T) {
	tests := []struct {
		name string
		got  Address
		want Address
	}{
		{"add in range", Address(100).Add(8), 108},
		{"add past max", Address(math.MaxInt32).Add(1), Invalid},
		{"add below zero", Address(4).Add(-8), Invalid},
		{"entry wraps to zero", ArrayEntry(0, 1<<28, 16), Invalid},
		{"entry past max", ArrayEntry(64, math.MaxInt32, 24), Invalid},
		{"entry at max", ArrayEntry(math.MaxInt32-4, 1, 4), math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}

	h := NewWriter().Heap()
	if _, err := h.ReadInt32(Invalid); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadInt32(Invalid) error = %v, want ErrOutOfBounds", err)
	}
}

func TestArrayFits(t *testing.T) {
	h := New(make([]byte, 40))
	tests := []struct {
		base          Address
		count, stride int32
		want          bool
	}{
		{8, 8, 4, true},
		{8, 9, 4, false},
		{8, 0, 4, true},
		{8, math.MaxInt32, 4, false},
		{-1, 1, 4, false},
	}
	for _, tt := range tests {
		if got := h.ArrayFits(tt.base, tt.count, tt.stride); got != tt.want {
			t.Errorf("ArrayFits(%d, %d, %d) = %v, want %v", tt.base, tt.count, tt.stride, got, tt.want)
		}
	}
}

func TestPutInt32(t *testing.T) {
	w := NewWriter()
	slot := w.Alloc(4)
	w.PutInt32(slot, 99)
	got, err := w.Heap().ReadInt32(slot)
	if err != nil || got != 99 {
		t.Errorf("ReadInt32() = %d, %v; want 99, nil", got, err)
	}
}

func TestReadAfterReleasePanics(t *testing.T) {
	w := NewWriter()
	addr := w.WriteInt32(1)
	h := w.Heap()
	h.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading a released heap")
		}
	}()
	_, _ = h.ReadInt32(addr)
}

func TestWriterHeapIsCopy(t *testing.T) {
	w := NewWriter()
	addr := w.WriteInt32(1)
	h := w.Heap()
	w.PutInt32(addr, 2)
	if got, _ := h.ReadInt32(addr); got != 1 {
		t.Errorf("heap observed later write: got %d, want 1", got)
	}
}
