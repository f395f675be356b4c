package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitAllDispatchesEachType(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("a", 1))
	require.NoError(t, d.AppendUTF8("b", "hi"))
	sub, err := d.BeginDocument("c")
	require.NoError(t, err)
	require.NoError(t, sub.AppendBool("flag", true))
	require.NoError(t, d.EndDocument(sub))

	var seen []string
	it, err := NewIterator(d)
	require.NoError(t, err)
	v := &Visitor{
		Int32: func(key string, val int32) bool { seen = append(seen, key); return false },
		UTF8:  func(key, val string) bool { seen = append(seen, key); return false },
		Document: func(key string, doc *Document) bool {
			seen = append(seen, key)
			require.Equal(t, 1, doc.CountFields())
			return false
		},
	}
	require.NoError(t, VisitAll(it, v))
	require.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestVisitAllStopsOnCallbackTrue(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("a", 1))
	require.NoError(t, d.AppendInt32("b", 2))

	var seen []string
	it, err := NewIterator(d)
	require.NoError(t, err)
	v := &Visitor{
		Int32: func(key string, val int32) bool {
			seen = append(seen, key)
			return true
		},
	}
	require.NoError(t, VisitAll(it, v))
	require.Equal(t, []string{"a"}, seen)
}

func TestVisitAllBeforeCanStop(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("a", 1))
	require.NoError(t, d.AppendInt32("b", 2))

	called := 0
	it, err := NewIterator(d)
	require.NoError(t, err)
	v := &Visitor{
		Before: func(key string, typ Type) bool { return key == "b" },
		Int32:  func(key string, val int32) bool { called++; return false },
	}
	require.NoError(t, VisitAll(it, v))
	require.Equal(t, 1, called)
}

func TestVisitAllReportsCorrupt(t *testing.T) {
	raw := []byte{8, 0, 0, 0, 0x99, 'x', 0, 0}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	it, err := NewIterator(d)
	require.NoError(t, err)

	var corruptOffset int32 = -1
	v := &Visitor{Corrupt: func(o int32) { corruptOffset = o }}
	err = VisitAll(it, v)
	require.Error(t, err)
	require.Equal(t, int32(4), corruptOffset)
}
