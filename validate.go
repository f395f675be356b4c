package bson

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	bsonerr "github.com/vaporbyte/bson/errors"
)

// Flags controls which semantic checks Validate performs, independent of
// the structural checks (bounds, tag recognition, key termination) an
// Iterator always applies.
type Flags uint8

const (
	// FlagUTF8 requires every utf8, symbol, code, regex pattern, regex
	// options string, and key to be valid UTF-8.
	FlagUTF8 Flags = 1 << iota
	// FlagUTF8AllowNull relaxes FlagUTF8 to permit embedded nul bytes,
	// which are otherwise rejected even in an otherwise-valid string.
	FlagUTF8AllowNull
	// FlagDollarKeys rejects any key beginning with '$'.
	FlagDollarKeys
	// FlagDotKeys rejects any key containing '.'.
	FlagDotKeys
)

func validUTF8(s string, allowNull bool) bool {
	if !allowNull && strings.IndexByte(s, 0) >= 0 {
		return false
	}
	_, _, err := transform.String(encoding.UTF8Validator, s)
	return err == nil
}

// Validate walks doc structurally and semantically per flags, returning the
// byte offset of the first failing element and a Corrupt or Validation
// error, or (-1, nil) if doc passes. A failure inside a sub-document or
// array is reported at the offset of the outer element that embeds it, not
// at the offset within the sub-document itself, matching how a corrupt
// child is attributed to the field that contains it.
func Validate(doc *Document, flags Flags) (int, error) {
	it, err := NewIterator(doc)
	if err != nil {
		return 0, err
	}
	offset, err := validateDocument(it, flags)
	if err != nil {
		metricsValidationFailures.Inc()
	}
	return offset, err
}

func validateDocument(it *Iterator, flags Flags) (int, error) {
	offset := -1
	kind := bsonerr.Validation

	utf8Check := func(vals ...string) bool {
		if flags&FlagUTF8 == 0 {
			return false
		}
		for _, s := range vals {
			if !validUTF8(s, flags&FlagUTF8AllowNull != 0) {
				offset = int(it.Offset())
				return true
			}
		}
		return false
	}

	validateSub := func(sub *Document) bool {
		subIt, err := NewIterator(sub)
		if err != nil {
			offset = int(it.Offset())
			return true
		}
		childOffset, err := validateDocument(subIt, flags)
		if err != nil || childOffset >= 0 {
			if e, ok := err.(*bsonerr.Error); ok {
				kind = e.Kind
			}
			offset = int(it.Offset())
			return true
		}
		return false
	}

	v := &Visitor{
		Before: func(key string, typ Type) bool {
			if flags&FlagUTF8 != 0 && !validUTF8(key, flags&FlagUTF8AllowNull != 0) {
				offset = int(it.Offset())
				return true
			}
			if flags&FlagDollarKeys != 0 && strings.HasPrefix(key, "$") {
				offset = int(it.Offset())
				return true
			}
			if flags&FlagDotKeys != 0 && strings.Contains(key, ".") {
				offset = int(it.Offset())
				return true
			}
			return false
		},
		UTF8:     func(key, val string) bool { return utf8Check(val) },
		Code:     func(key, val string) bool { return utf8Check(val) },
		Symbol:   func(key, val string) bool { return utf8Check(val) },
		Regex:    func(key, pattern, options string) bool { return utf8Check(pattern, options) },
		Document: func(key string, sub *Document) bool { return validateSub(sub) },
		Array:    func(key string, sub *Document) bool { return validateSub(sub) },
		Corrupt:  func(o int32) { offset = int(o); kind = bsonerr.Corrupt },
	}

	if err := VisitAll(it, v); err != nil && offset < 0 {
		offset = int(it.Offset())
	}
	if offset >= 0 {
		return offset, bsonerr.E(kind, offset, "document failed validation")
	}
	return -1, nil
}
