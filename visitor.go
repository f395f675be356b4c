package bson

import bsonerr "github.com/vaporbyte/bson/errors"

// Visitor is a table of per-type callbacks driven over an Iterator by
// VisitAll. Every callback returns true to stop traversal early (mirroring
// the corpus's SkipContainer-style sentinel, but as a plain bool since
// nothing here needs to distinguish "stop the whole walk" from "skip this
// container"). A nil callback for a given type simply skips elements of
// that type without stopping.
type Visitor struct {
	// Before runs before an element is dispatched to its typed callback.
	// After runs once the typed callback returns without stopping.
	Before func(key string, typ Type) bool
	After  func(key string, typ Type) bool
	// Corrupt runs if the underlying Iterator ends in a corrupt state,
	// with the offset at which the inconsistency was found.
	Corrupt func(offset int32)

	Double        func(key string, v float64) bool
	UTF8          func(key, v string) bool
	Document      func(key string, v *Document) bool
	Array         func(key string, v *Document) bool
	Binary        func(key string, subtype BinarySubtype, data []byte) bool
	Undefined     func(key string) bool
	OID           func(key string, oid ObjectID) bool
	Bool          func(key string, v bool) bool
	DateTime      func(key string, unixMillis int64) bool
	Null          func(key string) bool
	Regex         func(key, pattern, options string) bool
	DBPointer     func(key, namespace string, oid ObjectID) bool
	Code          func(key, code string) bool
	Symbol        func(key, symbol string) bool
	CodeWithScope func(key, code string, scope *Document) bool
	Int32         func(key string, v int32) bool
	Timestamp     func(key string, seconds, increment uint32) bool
	Int64         func(key string, v int64) bool
	MaxKey        func(key string) bool
	MinKey        func(key string) bool
}

// VisitAll drives v over every element it produces, in order, until it is
// exhausted, a callback stops the walk, or it ends in a corrupt state (in
// which case VisitAll returns a Corrupt error after calling v.Corrupt, if
// set).
func VisitAll(it *Iterator, v *Visitor) error {
	for it.Next() {
		if v.Before != nil && v.Before(it.Key(), it.Type()) {
			return nil
		}
		stop, err := dispatch(it, v)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if v.After != nil && v.After(it.Key(), it.Type()) {
			return nil
		}
	}
	if it.Corrupt() {
		if v.Corrupt != nil {
			v.Corrupt(it.Offset())
		}
		return bsonerr.E(bsonerr.Corrupt, int(it.Offset()), "corrupt document encountered during traversal")
	}
	return nil
}

func dispatch(it *Iterator, v *Visitor) (bool, error) {
	key := it.Key()
	switch it.Type() {
	case TypeDouble:
		if v.Double != nil {
			return v.Double(key, it.Double()), nil
		}
	case TypeUTF8:
		if v.UTF8 != nil {
			return v.UTF8(key, it.UTF8()), nil
		}
	case TypeDocument:
		if v.Document != nil {
			sub, err := it.Document()
			if err != nil {
				return false, err
			}
			return v.Document(key, sub), nil
		}
	case TypeArray:
		if v.Array != nil {
			sub, err := it.Array()
			if err != nil {
				return false, err
			}
			return v.Array(key, sub), nil
		}
	case TypeBinary:
		if v.Binary != nil {
			subtype, data := it.Binary()
			return v.Binary(key, subtype, data), nil
		}
	case TypeUndefined:
		if v.Undefined != nil {
			return v.Undefined(key), nil
		}
	case TypeOID:
		if v.OID != nil {
			return v.OID(key, it.OID()), nil
		}
	case TypeBool:
		if v.Bool != nil {
			return v.Bool(key, it.Bool()), nil
		}
	case TypeDateTime:
		if v.DateTime != nil {
			return v.DateTime(key, it.DateTime()), nil
		}
	case TypeNull:
		if v.Null != nil {
			return v.Null(key), nil
		}
	case TypeRegex:
		if v.Regex != nil {
			pattern, options := it.Regex()
			return v.Regex(key, pattern, options), nil
		}
	case TypeDBPointer:
		if v.DBPointer != nil {
			ns, oid := it.DBPointer()
			return v.DBPointer(key, ns, oid), nil
		}
	case TypeCode:
		if v.Code != nil {
			return v.Code(key, it.Code()), nil
		}
	case TypeSymbol:
		if v.Symbol != nil {
			return v.Symbol(key, it.Symbol()), nil
		}
	case TypeCodeWScope:
		if v.CodeWithScope != nil {
			code, scope, err := it.CodeWithScope()
			if err != nil {
				return false, err
			}
			return v.CodeWithScope(key, code, scope), nil
		}
	case TypeInt32:
		if v.Int32 != nil {
			return v.Int32(key, it.Int32()), nil
		}
	case TypeTimestamp:
		if v.Timestamp != nil {
			seconds, increment := it.Timestamp()
			return v.Timestamp(key, seconds, increment), nil
		}
	case TypeInt64:
		if v.Int64 != nil {
			return v.Int64(key, it.Int64()), nil
		}
	case TypeMaxKey:
		if v.MaxKey != nil {
			return v.MaxKey(key), nil
		}
	case TypeMinKey:
		if v.MinKey != nil {
			return v.MinKey(key), nil
		}
	}
	return false, nil
}
