package bson

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/vaporbyte/bson/buffer"
	bsonerr "github.com/vaporbyte/bson/errors"
)

type kind int

const (
	kindRoot kind = iota
	kindChild
	kindStatic
)

// frame records one open child document or array on a root document's
// builder stack: the child handle itself and the absolute offset of its
// length prefix within the toplevel buffer. Frames replace the
// parent-pointer walk of the original design with an explicit stack that
// lives on the toplevel document; only the frame at the top of the stack
// (or the root, if the stack is empty) may be appended to.
type frame struct {
	doc    *Document
	offset int32
}

// Document is a handle onto the bytes of one BSON document. A root
// Document owns a buffer.Buffer. A child Document is an open window into
// its toplevel's buffer, created by BeginDocument/BeginArray and closed by
// EndDocument/EndArray. A static Document is a read-only view over
// borrowed or embedded bytes, produced by NewStaticView or by an
// Iterator/Visitor handing back a sub-document during traversal.
type Document struct {
	kind     kind
	length   int32
	noGrow   bool
	buf      *buffer.Buffer
	toplevel *Document
	offset   int32
	closed   bool
	frames   []frame
}

func newEmptyBuffer(buf *buffer.Buffer) error {
	if err := buf.EnsureCapacity(5); err != nil {
		return err
	}
	b := buf.Bytes()
	binary.LittleEndian.PutUint32(b[0:4], 5)
	b[4] = 0
	return nil
}

// NewDocument returns a new, empty root document with an inline buffer.
func NewDocument() *Document {
	buf := buffer.New()
	if err := newEmptyBuffer(buf); err != nil {
		// An inline buffer's 5-byte skeleton always fits; this cannot fail.
		panic(err)
	}
	d := &Document{kind: kindRoot, length: 5, buf: buf}
	d.toplevel = d
	metricsDocumentsBuilt.Inc()
	return d
}

// NewSized returns a new, empty root document whose buffer is pre-grown to
// hold at least capacity bytes, to avoid reallocation while building a
// document of a known approximate size.
func NewSized(capacity int) (*Document, error) {
	buf, err := buffer.NewSized(capacity)
	if err != nil {
		return nil, err
	}
	if err := newEmptyBuffer(buf); err != nil {
		return nil, err
	}
	d := &Document{kind: kindRoot, length: 5, buf: buf}
	d.toplevel = d
	metricsDocumentsBuilt.Inc()
	return d, nil
}

// NewWriter returns a new, empty root document whose buffer is managed
// through an externally owned slice, grown via ext.Realloc as needed.
func NewWriter(ext buffer.External) (*Document, error) {
	buf := buffer.NewExternal(ext)
	if err := newEmptyBuffer(buf); err != nil {
		return nil, err
	}
	d := &Document{kind: kindRoot, length: 5, buf: buf}
	d.toplevel = d
	metricsDocumentsBuilt.Inc()
	return d, nil
}

// NewFromBytes copies data into a new, independent root document. It fails
// if data is shorter than 5 bytes, its length prefix does not match
// len(data), or it is not nul-terminated.
func NewFromBytes(data []byte) (*Document, error) {
	if err := validateHeader(data); err != nil {
		return nil, err
	}
	buf, err := buffer.NewSized(len(data))
	if err != nil {
		return nil, err
	}
	if err := buf.EnsureCapacity(len(data)); err != nil {
		return nil, err
	}
	copy(buf.Bytes(), data)
	d := &Document{kind: kindRoot, length: int32(len(data)), buf: buf}
	d.toplevel = d
	metricsDocumentsBuilt.Inc()
	return d, nil
}

// NewStaticView returns a read-only document borrowing data directly: no
// bytes are copied, and the returned Document must not outlive data. Any
// Append operation on the result fails with a read-only error.
func NewStaticView(data []byte) (*Document, error) {
	if err := validateHeader(data); err != nil {
		return nil, err
	}
	d := &Document{
		kind:   kindStatic,
		length: int32(len(data)),
		noGrow: true,
		buf:    buffer.NewStatic(data),
	}
	d.toplevel = d
	return d, nil
}

func validateHeader(data []byte) error {
	if len(data) < 5 {
		return bsonerr.E(bsonerr.Malformed, "buffer shorter than the minimum 5-byte document")
	}
	length := binary.LittleEndian.Uint32(data[0:4])
	if int(length) != len(data) {
		return bsonerr.E(bsonerr.Malformed, fmt.Sprintf("length prefix %d does not match buffer size %d", length, len(data)))
	}
	if data[len(data)-1] != 0 {
		return bsonerr.E(bsonerr.Malformed, "document is not nul-terminated")
	}
	return nil
}

// Length returns the document's current logical length in bytes, prefix
// and terminator included.
func (d *Document) Length() int32 { return d.length }

// IsChild reports whether d was created by BeginDocument/BeginArray. It
// stays true after the matching End has closed d.
func (d *Document) IsChild() bool { return d.kind == kindChild }

// ReadOnly reports whether Append operations on d will fail: true for
// static views and for documents backed by a read-only buffer.
func (d *Document) ReadOnly() bool {
	return d.noGrow || d.toplevel.buf.ReadOnly()
}

// IsEmpty reports whether the document has no elements.
func (d *Document) IsEmpty() bool { return d.length == 5 }

// Bytes returns the document's current bytes. For a child, this is a
// window into its toplevel's buffer. The returned slice is only valid
// until the next append to the same document or one of its relatives (an
// ancestor, descendant, or open sibling frame), which may reallocate the
// underlying buffer.
func (d *Document) Bytes() []byte {
	base := d.toplevel.buf.Bytes()
	if d.kind == kindChild {
		return base[d.offset : d.offset+d.length]
	}
	return base[:d.length]
}

// Clone returns a new, independent root document with a copy of d's
// current bytes. Mutating the clone never affects d, or vice versa.
func (d *Document) Clone() (*Document, error) {
	return NewFromBytes(slices.Clone(d.Bytes()))
}

// CountFields returns the number of top-level elements in d, equal to the
// number of successful calls to Next on a fresh Iterator.
func (d *Document) CountFields() int {
	it, err := NewIterator(d)
	if err != nil {
		return 0
	}
	n := 0
	for it.Next() {
		n++
	}
	return n
}

// active returns the document that Append operations on the toplevel d
// (which must itself be a toplevel, i.e. d.toplevel == d) are currently
// allowed to target: the innermost open frame, or d itself if none are
// open.
func (d *Document) active() *Document {
	if len(d.frames) == 0 {
		return d
	}
	return d.frames[len(d.frames)-1].doc
}
