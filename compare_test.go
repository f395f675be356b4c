package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualIdenticalDocuments(t *testing.T) {
	a := NewDocument()
	require.NoError(t, a.AppendInt32("x", 1))
	b := NewDocument()
	require.NoError(t, b.AppendInt32("x", 1))
	require.True(t, Equal(a, b))
	require.Equal(t, 0, Compare(a, b))
}

func TestCompareByLengthFirst(t *testing.T) {
	a := NewDocument()
	require.NoError(t, a.AppendInt32("x", 1))
	b := NewDocument()
	require.NoError(t, b.AppendInt64("x", 1))
	require.NotEqual(t, 0, Compare(a, b))
	require.Less(t, Compare(a, b), 0)
}

func TestCompareFieldOrderMatters(t *testing.T) {
	a := NewDocument()
	require.NoError(t, a.AppendInt32("a", 1))
	require.NoError(t, a.AppendInt32("b", 2))
	b := NewDocument()
	require.NoError(t, b.AppendInt32("b", 2))
	require.NoError(t, b.AppendInt32("a", 1))
	require.False(t, Equal(a, b))
}

func TestCompareIsAntisymmetric(t *testing.T) {
	a := NewDocument()
	require.NoError(t, a.AppendUTF8("k", "aaa"))
	b := NewDocument()
	require.NoError(t, b.AppendUTF8("k", "aab"))
	require.Equal(t, -Compare(a, b), Compare(b, a))
}
