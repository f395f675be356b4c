// Package buffer implements the byte store backing BSON documents: a
// tagged variant over four storage bindings (inline, heap-grown,
// read-only-borrowed, and externally managed), with the doubling growth
// policy the BSON builder relies on.
package buffer

import (
	"fmt"
	"math"

	errors "github.com/vaporbyte/bson/errors"
)

// InlineCapacity is the fixed size of the array embedded directly in a
// Buffer, sized to absorb typical small documents without a heap
// allocation.
const InlineCapacity = 120

// Storage identifies which of the four bindings a Buffer currently uses.
type Storage int

const (
	StorageInline Storage = iota
	StorageHeap
	StorageStatic
	StorageWriter
)

func (s Storage) String() string {
	switch s {
	case StorageInline:
		return "inline"
	case StorageHeap:
		return "heap"
	case StorageStatic:
		return "static"
	case StorageWriter:
		return "writer"
	default:
		return "unknown"
	}
}

// Reallocator grows an externally owned slice to at least size bytes,
// returning the (possibly relocated) slice. It must preserve the first
// len(cur) bytes of cur.
type Reallocator func(cur []byte, size int) []byte

// External describes a writer-bound backing store: a slice managed outside
// this package, reached through a pointer so that a reallocation performed
// by Realloc is visible to every Buffer sharing it.
type External struct {
	Data    *[]byte
	Offset  int
	Realloc Reallocator
}

// Buffer is a byte store backing one toplevel BSON document. While inline,
// it uses a fixed-size array; on overflow it promotes itself to a
// heap-allocated slice that doubles as needed. A static Buffer borrows a
// caller-owned read-only slice. A writer Buffer addresses a slice owned by
// an external party through an External.
type Buffer struct {
	storage   Storage
	inline    [InlineCapacity]byte
	heap      []byte
	allocated int
	static    []byte
	ext       External
}

// New returns an empty inline Buffer.
func New() *Buffer {
	return &Buffer{storage: StorageInline}
}

// NewSized returns an inline Buffer pre-grown to hold at least capacity
// bytes without a later reallocation.
func NewSized(capacity int) (*Buffer, error) {
	b := &Buffer{storage: StorageInline}
	if capacity > InlineCapacity {
		size, err := growthSize(capacity)
		if err != nil {
			return nil, err
		}
		b.promote(size)
	}
	return b, nil
}

// NewStatic returns a read-only Buffer borrowing data. The caller retains
// ownership; the Buffer never mutates or frees it.
func NewStatic(data []byte) *Buffer {
	return &Buffer{storage: StorageStatic, static: data}
}

// NewExternal returns a Buffer whose bytes live in an externally managed
// slice, grown via ext.Realloc.
func NewExternal(ext External) *Buffer {
	return &Buffer{storage: StorageWriter, ext: ext}
}

// Storage reports which binding the Buffer currently uses. An inline
// Buffer that has been promoted to a heap allocation reports StorageHeap.
func (b *Buffer) Storage() Storage {
	if b.storage == StorageInline && b.allocated > 0 {
		return StorageHeap
	}
	return b.storage
}

// ReadOnly reports whether the buffer refuses growth and mutation.
func (b *Buffer) ReadOnly() bool { return b.storage == StorageStatic }

// Bytes returns the full addressable backing slice. Its length is the
// buffer's current capacity, not any document's logical length — callers
// slice it down to the length they need. The returned slice is only valid
// until the next call to EnsureCapacity, which may reallocate.
func (b *Buffer) Bytes() []byte {
	switch b.storage {
	case StorageStatic:
		return b.static
	case StorageWriter:
		return (*b.ext.Data)[b.ext.Offset:]
	default:
		if b.allocated > 0 {
			return b.heap
		}
		return b.inline[:]
	}
}

// EnsureCapacity guarantees that Bytes() returns a slice of at least length
// bytes, promoting from inline to heap storage or reallocating as needed.
// It fails on static storage and when the required size would exceed the
// largest representable BSON document (math.MaxInt32).
func (b *Buffer) EnsureCapacity(length int) error {
	if length < 0 || length > math.MaxInt32 {
		return errCapacity(length)
	}
	switch b.storage {
	case StorageStatic:
		return errReadOnly()
	case StorageWriter:
		if len(*b.ext.Data)-b.ext.Offset >= length {
			return nil
		}
		want := b.ext.Offset + length
		size, err := growthSize(want)
		if err != nil {
			return err
		}
		*b.ext.Data = b.ext.Realloc(*b.ext.Data, size)
		return nil
	default:
		if b.allocated == 0 {
			if length <= InlineCapacity {
				return nil
			}
			size, err := growthSize(length)
			if err != nil {
				return err
			}
			b.promote(size)
			return nil
		}
		if length <= b.allocated {
			return nil
		}
		size, err := growthSize(length)
		if err != nil {
			return err
		}
		grown := make([]byte, size)
		copy(grown, b.heap)
		b.heap = grown
		b.allocated = size
		return nil
	}
}

func (b *Buffer) promote(size int) {
	heap := make([]byte, size)
	copy(heap, b.inline[:])
	b.heap = heap
	b.allocated = size
}

// growthSize returns the smallest power of two, at least 64, that is >=
// amin.
func growthSize(amin int) (int, error) {
	const min = 64
	size := min
	for size < amin {
		if size > math.MaxInt32/2 {
			return 0, errCapacity(amin)
		}
		size <<= 1
	}
	if size > math.MaxInt32 {
		return 0, errCapacity(amin)
	}
	return size, nil
}

func errCapacity(requested int) error {
	return errors.E(errors.Capacity, fmt.Sprintf("requested size %d exceeds maximum document size", requested))
}

func errReadOnly() error {
	return errors.E(errors.ReadOnly, "buffer is read-only")
}
