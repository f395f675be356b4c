package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIteratorOverEmptyDocument(t *testing.T) {
	d := NewDocument()
	it, err := NewIterator(d)
	require.NoError(t, err)
	require.False(t, it.Next())
	require.True(t, it.Done())
	require.False(t, it.Corrupt())
}

func TestIteratorAcceptsWellFormedHeader(t *testing.T) {
	d, err := NewStaticView([]byte{5, 0, 0, 0, 0})
	require.NoError(t, err)
	_, err = NewIterator(d)
	require.NoError(t, err)
}

func TestIteratorDetectsUnknownType(t *testing.T) {
	raw := []byte{
		8, 0, 0, 0,
		0x99, 'x', 0,
		0,
	}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	it, err := NewIterator(d)
	require.NoError(t, err)
	require.False(t, it.Next())
	require.True(t, it.Corrupt())
	require.Equal(t, int32(4), it.Offset())
}

func TestIteratorDetectsOverrunningLength(t *testing.T) {
	raw := []byte{
		11, 0, 0, 0,
		0x02, 'x', 0,
		0xFF, 0, 0, 0,
	}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	it, err := NewIterator(d)
	require.NoError(t, err)
	require.False(t, it.Next())
	require.True(t, it.Corrupt())
}

func TestIteratorDetectsTruncatedCodeWithScope(t *testing.T) {
	raw := []byte{
		12, 0, 0, 0,
		0x0F, 'x', 0,
		4, 0, 0, 0,
		0,
	}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	it, err := NewIterator(d)
	require.NoError(t, err)
	require.False(t, it.Next())
	require.True(t, it.Corrupt())
}

func TestIteratorIsSinglePassButRestartable(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("a", 1))
	require.NoError(t, d.AppendInt32("b", 2))

	it, err := NewIterator(d)
	require.NoError(t, err)
	require.True(t, it.Next())
	require.Equal(t, "a", it.Key())
	require.True(t, it.Next())
	require.Equal(t, "b", it.Key())
	require.False(t, it.Next())

	it2, err := NewIterator(d)
	require.NoError(t, err)
	require.True(t, it2.Next())
	require.Equal(t, "a", it2.Key())
}

func TestIteratorBinaryAndFloat(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendBinary("bin", SubtypeUUID, []byte{1, 2, 3, 4}))
	require.NoError(t, d.AppendDouble("pi", 3.14159))

	it, err := NewIterator(d)
	require.NoError(t, err)
	require.True(t, it.Next())
	subtype, data := it.Binary()
	require.Equal(t, SubtypeUUID, subtype)
	require.Equal(t, []byte{1, 2, 3, 4}, data)

	require.True(t, it.Next())
	require.InDelta(t, 3.14159, it.Double(), 0.00001)
}
