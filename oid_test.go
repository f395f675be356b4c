package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewObjectIDIsUnique(t *testing.T) {
	a := NewObjectID()
	b := NewObjectID()
	require.NotEqual(t, a, b)
	require.Len(t, a.Hex(), 24)
}

func TestObjectIDHexRoundtrip(t *testing.T) {
	orig := NewObjectID()
	got, err := ObjectIDFromHex(orig.Hex())
	require.NoError(t, err)
	require.Equal(t, orig, got)
}

func TestObjectIDFromHexRejectsBadLength(t *testing.T) {
	_, err := ObjectIDFromHex("abcd")
	require.Error(t, err)
}

func TestObjectIDFromHexRejectsNonHex(t *testing.T) {
	_, err := ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	require.Error(t, err)
}
