package bson

import (
	"bytes"
	"encoding/binary"
	"math"

	"go.uber.org/zap"
)

// Iterator walks the top-level elements of a Document's bytes without
// copying or eagerly decoding values. It moves strictly forward; to walk
// again from the start, create a new Iterator over the same Document.
type Iterator struct {
	doc     *Document
	data    []byte
	offset  int32
	elemOff int32
	key     string
	typ     Type
	valOff  int32
	valLen  int32
	corrupt bool
	done    bool
}

// NewIterator returns an Iterator positioned before doc's first element.
// It fails only if doc's own header (length prefix, terminator) is
// malformed; malformed elements within the body surface as a corrupt state
// during Next, not as an error here.
func NewIterator(doc *Document) (*Iterator, error) {
	data := doc.Bytes()
	if err := validateHeader(data); err != nil {
		return nil, err
	}
	return &Iterator{doc: doc, data: data, offset: 4}, nil
}

// Next advances to the following element, returning false at the
// terminator (Done) or once a structural inconsistency is found (Corrupt).
func (it *Iterator) Next() bool {
	if it.done || it.corrupt {
		return false
	}
	if it.offset >= int32(len(it.data)) {
		it.markCorrupt(it.offset)
		return false
	}
	if it.data[it.offset] == 0 {
		it.done = true
		return false
	}

	start := it.offset
	typ := Type(it.data[start])
	if !typ.valid() {
		it.markCorrupt(start)
		return false
	}

	pos := start + 1
	keyEnd := pos
	for {
		if keyEnd >= int32(len(it.data)) {
			it.markCorrupt(start)
			return false
		}
		if it.data[keyEnd] == 0 {
			break
		}
		keyEnd++
	}
	key := string(it.data[pos:keyEnd])
	valStart := keyEnd + 1

	valLen, ok := valueLength(it.data, typ, valStart)
	if !ok {
		it.markCorrupt(start)
		return false
	}

	it.elemOff = start
	it.key = key
	it.typ = typ
	it.valOff = valStart
	it.valLen = valLen
	it.offset = valStart + valLen
	return true
}

func (it *Iterator) markCorrupt(offset int32) {
	it.corrupt = true
	it.elemOff = offset
	logger.Warn("corrupt bson document", zap.Int32("offset", offset))
	metricsCorruptDocuments.Inc()
}

// Key returns the current element's key.
func (it *Iterator) Key() string { return it.key }

// Type returns the current element's type.
func (it *Iterator) Type() Type { return it.typ }

// Offset returns the byte offset, relative to the document that Iterator
// was created over, of the current element's type tag — or, once Corrupt
// reports true, of the type tag of the element found inconsistent (or of
// the position past the end of the data, if the terminator is missing).
func (it *Iterator) Offset() int32 { return it.elemOff }

// Done reports whether Next reached the terminator without error.
func (it *Iterator) Done() bool { return it.done }

// Corrupt reports whether Next stopped because of a structural
// inconsistency rather than the terminator.
func (it *Iterator) Corrupt() bool { return it.corrupt }

func (it *Iterator) value() []byte {
	return it.data[it.valOff : it.valOff+it.valLen]
}

// Double returns the current element's value. It does not check Type(); for
// a value shorter than 8 bytes it panics.
func (it *Iterator) Double() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(it.value()))
}

// UTF8 returns the current element's value, with the trailing nul dropped.
func (it *Iterator) UTF8() string {
	v := it.value()
	n := binary.LittleEndian.Uint32(v[0:4])
	return string(v[4 : 4+n-1])
}

// Binary returns the current element's subtype and data.
func (it *Iterator) Binary() (BinarySubtype, []byte) {
	v := it.value()
	n := binary.LittleEndian.Uint32(v[0:4])
	return BinarySubtype(v[4]), v[5 : 5+n]
}

// OID returns the current element's value.
func (it *Iterator) OID() ObjectID {
	var oid ObjectID
	copy(oid[:], it.value())
	return oid
}

// Bool returns the current element's value.
func (it *Iterator) Bool() bool { return it.value()[0] != 0 }

// DateTime returns the current element's value, in milliseconds since the
// Unix epoch.
func (it *Iterator) DateTime() int64 { return int64(binary.LittleEndian.Uint64(it.value())) }

// Regex returns the current element's pattern and options.
func (it *Iterator) Regex() (pattern, options string) {
	v := it.value()
	i := bytes.IndexByte(v, 0)
	pattern = string(v[:i])
	options = string(v[i+1 : len(v)-1])
	return
}

// DBPointer returns the current element's namespace and referenced OID.
func (it *Iterator) DBPointer() (namespace string, oid ObjectID) {
	v := it.value()
	n := binary.LittleEndian.Uint32(v[0:4])
	namespace = string(v[4 : 4+n-1])
	copy(oid[:], v[4+n:])
	return
}

// Code returns the current element's value.
func (it *Iterator) Code() string { return it.UTF8() }

// Symbol returns the current element's value.
func (it *Iterator) Symbol() string { return it.UTF8() }

// CodeWithScope returns the current element's code string and a static
// view over its embedded scope document.
func (it *Iterator) CodeWithScope() (code string, scope *Document, err error) {
	v := it.value()
	codeLen := binary.LittleEndian.Uint32(v[4:8])
	code = string(v[8 : 8+codeLen-1])
	scope, err = NewStaticView(v[8+codeLen:])
	return
}

// Int32 returns the current element's value.
func (it *Iterator) Int32() int32 { return int32(binary.LittleEndian.Uint32(it.value())) }

// Timestamp returns the current element's seconds and increment fields.
func (it *Iterator) Timestamp() (seconds, increment uint32) {
	v := it.value()
	increment = binary.LittleEndian.Uint32(v[0:4])
	seconds = binary.LittleEndian.Uint32(v[4:8])
	return
}

// Int64 returns the current element's value.
func (it *Iterator) Int64() int64 { return int64(binary.LittleEndian.Uint64(it.value())) }

// Document returns a static view over the current element's embedded
// document. It does not check Type(); a value that is not a well-formed
// document yields a Malformed error.
func (it *Iterator) Document() (*Document, error) {
	return NewStaticView(it.value())
}

// Array returns a static view over the current element's embedded array.
// It does not check Type(); a value that is not a well-formed document
// yields a Malformed error.
func (it *Iterator) Array() (*Document, error) {
	return NewStaticView(it.value())
}

// valueLength computes the byte length of the value payload starting at
// start for the given type, bounds-checking any length field it reads
// against the bytes actually remaining in data.
func valueLength(data []byte, typ Type, start int32) (int32, bool) {
	remain := int32(len(data)) - start
	if remain < 0 {
		return 0, false
	}
	switch typ {
	case TypeDouble, TypeDateTime, TypeTimestamp, TypeInt64:
		if remain < 8 {
			return 0, false
		}
		return 8, true
	case TypeInt32:
		if remain < 4 {
			return 0, false
		}
		return 4, true
	case TypeBool:
		if remain < 1 {
			return 0, false
		}
		return 1, true
	case TypeOID:
		if remain < 12 {
			return 0, false
		}
		return 12, true
	case TypeUndefined, TypeNull, TypeMaxKey, TypeMinKey:
		return 0, true
	case TypeUTF8, TypeSymbol, TypeCode:
		if remain < 4 {
			return 0, false
		}
		n := int32(binary.LittleEndian.Uint32(data[start : start+4]))
		if n < 1 || 4+n > remain {
			return 0, false
		}
		return 4 + n, true
	case TypeBinary:
		if remain < 5 {
			return 0, false
		}
		n := int32(binary.LittleEndian.Uint32(data[start : start+4]))
		if n < 0 || 5+n > remain {
			return 0, false
		}
		return 5 + n, true
	case TypeDocument, TypeArray:
		if remain < 5 {
			return 0, false
		}
		n := int32(binary.LittleEndian.Uint32(data[start : start+4]))
		if n < 5 || n > remain {
			return 0, false
		}
		if data[start+n-1] != 0 {
			return 0, false
		}
		return n, true
	case TypeRegex:
		p := start
		for p < int32(len(data)) && data[p] != 0 {
			p++
		}
		if p >= int32(len(data)) {
			return 0, false
		}
		p++
		o := p
		for o < int32(len(data)) && data[o] != 0 {
			o++
		}
		if o >= int32(len(data)) {
			return 0, false
		}
		o++
		return o - start, true
	case TypeDBPointer:
		if remain < 4 {
			return 0, false
		}
		n := int32(binary.LittleEndian.Uint32(data[start : start+4]))
		if n < 1 || 4+n+12 > remain {
			return 0, false
		}
		return 4 + n + 12, true
	case TypeCodeWScope:
		if remain < 4 {
			return 0, false
		}
		total := int32(binary.LittleEndian.Uint32(data[start : start+4]))
		// total covers itself (4), the inner code length prefix (4), at
		// least a 1-byte cstring, and a minimal 5-byte embedded document.
		if total < 14 || total > remain {
			return 0, false
		}
		codeLen := int32(binary.LittleEndian.Uint32(data[start+4 : start+8]))
		if codeLen < 1 || 8+codeLen+5 > total {
			return 0, false
		}
		return total, true
	default:
		return 0, false
	}
}
