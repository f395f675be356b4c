package bson

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAllCollectsEveryFailure(t *testing.T) {
	good := NewDocument()
	require.NoError(t, good.AppendInt32("ok", 1))

	bad1 := NewDocument()
	require.NoError(t, bad1.AppendInt32("$bad", 1))

	bad2 := NewDocument()
	require.NoError(t, bad2.AppendInt32("also.bad", 1))

	err := ValidateAll([]*Document{good, bad1, bad2}, FlagDollarKeys|FlagDotKeys, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "document 1")
	require.Contains(t, err.Error(), "document 2")
}

func TestValidateAllPassesWhenAllClean(t *testing.T) {
	a := NewDocument()
	require.NoError(t, a.AppendInt32("x", 1))
	b := NewDocument()
	require.NoError(t, b.AppendInt32("y", 2))
	require.NoError(t, ValidateAll([]*Document{a, b}, FlagDollarKeys, 4))
}

func TestRenderAllPreservesOrder(t *testing.T) {
	docs := make([]*Document, 5)
	for i := range docs {
		d := NewDocument()
		require.NoError(t, d.AppendInt32("i", int32(i)))
		docs[i] = d
	}
	out, err := RenderAll(docs, 2)
	require.NoError(t, err)
	for i, s := range out {
		requireJSONEqual(t, fmt.Sprintf(`{ "i" : %d }`, i), s)
	}
}
