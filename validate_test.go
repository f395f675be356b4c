package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassesCleanDocument(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendUTF8("name", "gopher"))
	require.NoError(t, d.AppendInt32("age", 15))
	offset, err := Validate(d, FlagUTF8|FlagDollarKeys|FlagDotKeys)
	require.NoError(t, err)
	require.Equal(t, -1, offset)
}

func TestValidateRejectsDollarKey(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("$where", 1))
	offset, err := Validate(d, FlagDollarKeys)
	require.Error(t, err)
	require.Equal(t, 4, offset)
}

func TestValidateAllowsDollarKeyWhenNotFlagged(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("$where", 1))
	_, err := Validate(d, 0)
	require.NoError(t, err)
}

func TestValidateRejectsDottedKey(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("a.b", 1))
	_, err := Validate(d, FlagDotKeys)
	require.Error(t, err)
}

func TestValidateRejectsInvalidUTF8Value(t *testing.T) {
	raw := []byte{
		16, 0, 0, 0,
		0x02, 'k', 0,
		4, 0, 0, 0, 0xFF, 0xFE, 0xFD, 0,
		0,
	}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	_, err = Validate(d, FlagUTF8)
	require.Error(t, err)
}

func TestValidateSubDocumentFailureReportsParentOffset(t *testing.T) {
	root := NewDocument()
	sub, err := root.BeginDocument("nested")
	require.NoError(t, err)
	require.NoError(t, sub.AppendInt32("$bad", 1))
	require.NoError(t, root.EndDocument(sub))

	it, err := NewIterator(root)
	require.NoError(t, err)
	require.True(t, it.Next())
	parentOffset := it.Offset()

	offset, err := Validate(root, FlagDollarKeys)
	require.Error(t, err)
	require.Equal(t, int(parentOffset), offset)
}

func TestValidateCorruptDocument(t *testing.T) {
	raw := []byte{8, 0, 0, 0, 0x99, 'x', 0, 0}
	d, err := NewStaticView(raw)
	require.NoError(t, err)
	offset, err := Validate(d, FlagUTF8)
	require.Error(t, err)
	require.Equal(t, 4, offset)
}
