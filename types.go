package bson

// Type is a single-byte BSON element type tag as it appears on the wire.
type Type uint8

// Type tags, per the BSON specification.
const (
	TypeDouble      Type = 0x01
	TypeUTF8        Type = 0x02
	TypeDocument    Type = 0x03
	TypeArray       Type = 0x04
	TypeBinary      Type = 0x05
	TypeUndefined   Type = 0x06
	TypeOID         Type = 0x07
	TypeBool        Type = 0x08
	TypeDateTime    Type = 0x09
	TypeNull        Type = 0x0A
	TypeRegex       Type = 0x0B
	TypeDBPointer   Type = 0x0C
	TypeCode        Type = 0x0D
	TypeSymbol      Type = 0x0E
	TypeCodeWScope  Type = 0x0F
	TypeInt32       Type = 0x10
	TypeTimestamp   Type = 0x11
	TypeInt64       Type = 0x12
	TypeMaxKey      Type = 0x7F
	TypeMinKey      Type = 0xFF
)

// String returns the canonical BSON name for the type, or "unknown" for an
// unrecognized tag.
func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeUTF8:
		return "utf8"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeOID:
		return "oid"
	case TypeBool:
		return "bool"
	case TypeDateTime:
		return "date_time"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeDBPointer:
		return "dbpointer"
	case TypeCode:
		return "code"
	case TypeSymbol:
		return "symbol"
	case TypeCodeWScope:
		return "code_w_scope"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	case TypeMaxKey:
		return "max_key"
	case TypeMinKey:
		return "min_key"
	default:
		return "unknown"
	}
}

// IsContainer reports whether the type carries an embedded document body
// (TypeDocument or TypeArray).
func (t Type) IsContainer() bool {
	return t == TypeDocument || t == TypeArray
}

// valid reports whether t is one of the recognized type tags. An iterator
// encountering an unrecognized tag treats the document as corrupt.
func (t Type) valid() bool {
	switch t {
	case TypeDouble, TypeUTF8, TypeDocument, TypeArray, TypeBinary,
		TypeUndefined, TypeOID, TypeBool, TypeDateTime, TypeNull,
		TypeRegex, TypeDBPointer, TypeCode, TypeSymbol, TypeCodeWScope,
		TypeInt32, TypeTimestamp, TypeInt64, TypeMaxKey, TypeMinKey:
		return true
	default:
		return false
	}
}

// BinarySubtype is the subtype byte carried by a TypeBinary value.
type BinarySubtype uint8

const (
	SubtypeGeneric     BinarySubtype = 0x00
	SubtypeFunction    BinarySubtype = 0x01
	SubtypeBinaryOld   BinarySubtype = 0x02
	SubtypeUUIDOld     BinarySubtype = 0x03
	SubtypeUUID        BinarySubtype = 0x04
	SubtypeMD5         BinarySubtype = 0x05
	SubtypeEncrypted   BinarySubtype = 0x06
	SubtypeUserDefined BinarySubtype = 0x80
)
