package bson

import "golang.org/x/exp/slices"

// Compare returns a negative number, zero, or a positive number as a
// sorts before, equal to, or after b: first by length, then, only if
// lengths match, lexicographically by byte. Two documents with the same
// fields in different orders, or the same numeric value encoded as
// different BSON types, compare unequal — this is byte-exact comparison,
// not semantic equivalence.
func Compare(a, b *Document) int {
	la, lb := a.Length(), b.Length()
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return slices.Compare(a.Bytes(), b.Bytes())
}

// Equal reports whether a and b have byte-identical encodings.
func Equal(a, b *Document) bool {
	return Compare(a, b) == 0
}
