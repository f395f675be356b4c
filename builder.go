package bson

import (
	"encoding/binary"
	"math"

	bsonerr "github.com/vaporbyte/bson/errors"
)

func checkAppendable(doc *Document) error {
	if doc == nil {
		return bsonerr.E(bsonerr.Precondition, "nil document")
	}
	if doc.kind == kindStatic {
		return bsonerr.E(bsonerr.ReadOnly, "cannot append to a static view")
	}
	if doc.kind == kindChild && doc.closed {
		return bsonerr.E(bsonerr.Precondition, "cannot append to a closed child document")
	}
	if doc.ReadOnly() {
		return bsonerr.E(bsonerr.ReadOnly, "document is read-only")
	}
	if doc.toplevel.active() != doc {
		return bsonerr.E(bsonerr.Precondition, "only the innermost open document may be appended to")
	}
	return nil
}

// growAll grows the toplevel document and every currently open frame by n
// bytes, and rewrites each one's length prefix in the shared buffer.
// Because only the innermost open frame may ever be appended to, every open
// frame encloses the bytes just inserted, so a single flat pass over the
// frame stack replaces a parent-pointer walk.
func growAll(tl *Document, n int32) {
	tl.length += n
	buf := tl.buf.Bytes()
	binary.LittleEndian.PutUint32(buf[0:4], uint32(tl.length))
	for _, f := range tl.frames {
		f.doc.length += n
		binary.LittleEndian.PutUint32(buf[f.offset:f.offset+4], uint32(f.doc.length))
	}
}

// appendElement writes one element (type tag, key, and payload) over doc's
// terminator, growing the toplevel buffer as needed, and rewrites the
// terminators of doc and of every enclosing open document after it. A nil payload appends only the tag and
// key, used by BeginDocument/BeginArray to reserve an element header ahead
// of the embedded child skeleton.
func appendElement(doc *Document, typ Type, key string, payload []byte) error {
	if err := checkAppendable(doc); err != nil {
		return err
	}
	keyBytes := []byte(key)
	n := 1 + len(keyBytes) + 1 + len(payload)
	tl := doc.toplevel
	newLen := int(tl.length) + n
	if err := tl.buf.EnsureCapacity(newLen); err != nil {
		return err
	}
	buf := tl.buf.Bytes()
	pos := int(doc.offset) + int(doc.length) - 1
	buf[pos] = byte(typ)
	pos++
	pos += copy(buf[pos:], keyBytes)
	buf[pos] = 0
	pos++
	pos += copy(buf[pos:], payload)
	// doc's own terminator, then one for each enclosing open document.
	for i := 0; i <= len(tl.frames); i++ {
		buf[pos+i] = 0
	}
	growAll(tl, int32(n))
	metricsElementsAppended.Inc()
	return nil
}

func encodeCString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// encodeLenString encodes the int32-length-prefixed, nul-terminated string
// payload shared by utf8, code, and symbol.
func encodeLenString(s string) []byte {
	n := len(s) + 1
	buf := make([]byte, 4+n)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n))
	copy(buf[4:], s)
	return buf
}

// AppendDouble appends a double element.
func (d *Document) AppendDouble(key string, v float64) error {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, math.Float64bits(v))
	return appendElement(d, TypeDouble, key, payload)
}

// AppendUTF8 appends a utf8 string element. The string's contents are not
// validated as UTF-8 at append time; use Validate for that.
func (d *Document) AppendUTF8(key, v string) error {
	return appendElement(d, TypeUTF8, key, encodeLenString(v))
}

// AppendBinary appends a binary element of the given subtype.
func (d *Document) AppendBinary(key string, subtype BinarySubtype, data []byte) error {
	payload := make([]byte, 5+len(data))
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(data)))
	payload[4] = byte(subtype)
	copy(payload[5:], data)
	return appendElement(d, TypeBinary, key, payload)
}

// AppendUndefined appends a deprecated undefined element.
func (d *Document) AppendUndefined(key string) error {
	return appendElement(d, TypeUndefined, key, nil)
}

// AppendOID appends an ObjectID element.
func (d *Document) AppendOID(key string, oid ObjectID) error {
	return appendElement(d, TypeOID, key, oid[:])
}

// AppendBool appends a boolean element.
func (d *Document) AppendBool(key string, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return appendElement(d, TypeBool, key, []byte{b})
}

// AppendDateTime appends a UTC datetime element as milliseconds since the
// Unix epoch.
func (d *Document) AppendDateTime(key string, unixMillis int64) error {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, uint64(unixMillis))
	return appendElement(d, TypeDateTime, key, payload)
}

// AppendNull appends a null element.
func (d *Document) AppendNull(key string) error {
	return appendElement(d, TypeNull, key, nil)
}

// AppendRegex appends a regular expression element.
func (d *Document) AppendRegex(key, pattern, options string) error {
	payload := append(encodeCString(pattern), encodeCString(options)...)
	return appendElement(d, TypeRegex, key, payload)
}

// AppendDBPointer appends a deprecated dbpointer element.
func (d *Document) AppendDBPointer(key, namespace string, oid ObjectID) error {
	ns := encodeCString(namespace)
	payload := make([]byte, 4+len(ns)+12)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(ns)))
	copy(payload[4:], ns)
	copy(payload[4+len(ns):], oid[:])
	return appendElement(d, TypeDBPointer, key, payload)
}

// AppendCode appends a JavaScript code element.
func (d *Document) AppendCode(key, code string) error {
	return appendElement(d, TypeCode, key, encodeLenString(code))
}

// AppendSymbol appends a deprecated symbol element.
func (d *Document) AppendSymbol(key, symbol string) error {
	return appendElement(d, TypeSymbol, key, encodeLenString(symbol))
}

// AppendCodeWithScope appends a JavaScript code element with an associated
// scope document.
func (d *Document) AppendCodeWithScope(key, code string, scope *Document) error {
	codeBytes := encodeLenString(code)
	scopeBytes := scope.Bytes()
	total := 4 + len(codeBytes) + len(scopeBytes)
	payload := make([]byte, total)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(total))
	copy(payload[4:], codeBytes)
	copy(payload[4+len(codeBytes):], scopeBytes)
	return appendElement(d, TypeCodeWScope, key, payload)
}

// AppendInt32 appends a 32-bit integer element.
func (d *Document) AppendInt32(key string, v int32) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(v))
	return appendElement(d, TypeInt32, key, payload)
}

// AppendTimestamp appends an internal replication timestamp element.
func (d *Document) AppendTimestamp(key string, seconds, increment uint32) error {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], increment)
	binary.LittleEndian.PutUint32(payload[4:8], seconds)
	return appendElement(d, TypeTimestamp, key, payload)
}

// AppendInt64 appends a 64-bit integer element.
func (d *Document) AppendInt64(key string, v int64) error {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, uint64(v))
	return appendElement(d, TypeInt64, key, payload)
}

// AppendMaxKey appends a maxKey element.
func (d *Document) AppendMaxKey(key string) error {
	return appendElement(d, TypeMaxKey, key, nil)
}

// AppendMinKey appends a minKey element.
func (d *Document) AppendMinKey(key string) error {
	return appendElement(d, TypeMinKey, key, nil)
}

// AppendDocument appends sub's bytes as a nested document element,
// verbatim. Use BeginDocument/EndDocument instead to build the
// sub-document's fields directly into the parent's buffer without a copy.
func (d *Document) AppendDocument(key string, sub *Document) error {
	return appendElement(d, TypeDocument, key, sub.Bytes())
}

// AppendArray appends arr's bytes as a nested array element, verbatim.
func (d *Document) AppendArray(key string, arr *Document) error {
	return appendElement(d, TypeArray, key, arr.Bytes())
}

// beginContainer reserves an element header of type typ in parent, embeds
// an empty 5-byte document skeleton at the tail, and returns a child handle
// bound to that skeleton's offset. Until the matching endContainer call,
// parent (and any of its own open ancestors) may not be appended to.
func beginContainer(parent *Document, key string, typ Type) (*Document, error) {
	if err := appendElement(parent, typ, key, nil); err != nil {
		return nil, err
	}
	tl := parent.toplevel
	offset := parent.offset + parent.length - 1

	newLen := int(tl.length) + 5
	if err := tl.buf.EnsureCapacity(newLen); err != nil {
		return nil, err
	}
	buf := tl.buf.Bytes()
	binary.LittleEndian.PutUint32(buf[offset:offset+4], 5)
	// The child's terminator, then parent's and each enclosing open document's.
	for i := int32(4); i <= 5+int32(len(tl.frames)); i++ {
		buf[offset+i] = 0
	}
	growAll(tl, 5)

	child := &Document{kind: kindChild, length: 5, toplevel: tl, offset: offset}
	tl.frames = append(tl.frames, frame{doc: child, offset: offset})
	return child, nil
}

func endContainer(child *Document) error {
	if child == nil || child.kind != kindChild {
		return bsonerr.E(bsonerr.Precondition, "not an open child document")
	}
	tl := child.toplevel
	if len(tl.frames) == 0 || tl.frames[len(tl.frames)-1].doc != child {
		return bsonerr.E(bsonerr.Precondition, "end does not match the innermost open document")
	}
	tl.frames = tl.frames[:len(tl.frames)-1]
	child.closed = true

	buf := tl.buf.Bytes()
	binary.LittleEndian.PutUint32(buf[child.offset:child.offset+4], uint32(child.length))
	buf[int(child.offset)+int(child.length)-1] = 0
	return nil
}

// BeginDocument opens a nested document field named key and returns a
// handle to it. Until EndDocument is called with the returned handle, d
// (and any of its own open ancestors) cannot be appended to.
func (d *Document) BeginDocument(key string) (*Document, error) {
	return beginContainer(d, key, TypeDocument)
}

// EndDocument closes a document handle opened by BeginDocument, finalizing
// its length prefix and returning append rights to its parent.
func (d *Document) EndDocument(child *Document) error {
	return endContainer(child)
}

// BeginArray opens a nested array field named key and returns a handle to
// it. Array elements are appended with keys "0", "1", "2", ... by
// convention; nothing in this package enforces that convention.
func (d *Document) BeginArray(key string) (*Document, error) {
	return beginContainer(d, key, TypeArray)
}

// EndArray closes an array handle opened by BeginArray.
func (d *Document) EndArray(child *Document) error {
	return endContainer(child)
}
