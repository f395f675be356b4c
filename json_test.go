package bson

import (
	"fmt"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
)

func requireJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Fatalf("json mismatch:\n%s", diff)
}

func TestToJSONEmptyDocument(t *testing.T) {
	d := NewDocument()
	out, err := ToJSON(d)
	require.NoError(t, err)
	requireJSONEqual(t, "{}", out)
}

func TestToJSONScalarTypes(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.AppendInt32("i", 7))
	require.NoError(t, d.AppendUTF8("s", "hi"))
	require.NoError(t, d.AppendBool("b", true))
	require.NoError(t, d.AppendNull("n"))

	out, err := ToJSON(d)
	require.NoError(t, err)
	requireJSONEqual(t, `{ "i" : 7, "s" : "hi", "b" : true, "n" : null }`, out)
}

func TestToJSONNestedDocument(t *testing.T) {
	root := NewDocument()
	sub, err := root.BeginDocument("inner")
	require.NoError(t, err)
	require.NoError(t, sub.AppendInt32("x", 1))
	require.NoError(t, root.EndDocument(sub))

	out, err := ToJSON(root)
	require.NoError(t, err)
	requireJSONEqual(t, `{ "inner" : { "x" : 1 } }`, out)
}

func TestToJSONArray(t *testing.T) {
	root := NewDocument()
	arr, err := root.BeginArray("items")
	require.NoError(t, err)
	require.NoError(t, arr.AppendInt32("0", 1))
	require.NoError(t, arr.AppendInt32("1", 2))
	require.NoError(t, root.EndArray(arr))

	out, err := ToJSON(root)
	require.NoError(t, err)
	requireJSONEqual(t, `{ "items" : [ 1, 2 ] }`, out)
}

func TestToJSONExtendedTypes(t *testing.T) {
	d := NewDocument()
	oid := NewObjectID()
	require.NoError(t, d.AppendOID("oid", oid))
	require.NoError(t, d.AppendDateTime("date", 100))
	require.NoError(t, d.AppendRegex("re", "^a$", "i"))
	require.NoError(t, d.AppendTimestamp("ts", 5, 1))
	require.NoError(t, d.AppendMaxKey("mx"))
	require.NoError(t, d.AppendMinKey("mn"))

	out, err := ToJSON(d)
	require.NoError(t, err)
	want := fmt.Sprintf(
		`{ "oid" : { "$oid" : "%s" }, "date" : { "$date" : 100 }, "re" : { "$regex" : "^a$", "$options" : "i" }, "ts" : { "$timestamp" : { "t" : 5, "i" : 1 } }, "mx" : { "$maxKey" : 1 }, "mn" : { "$minKey" : 1 } }`,
		oid.Hex(),
	)
	requireJSONEqual(t, want, out)
}

func TestPrettyIndentsNesting(t *testing.T) {
	root := NewDocument()
	sub, err := root.BeginDocument("inner")
	require.NoError(t, err)
	require.NoError(t, sub.AppendInt32("x", 1))
	require.NoError(t, root.EndDocument(sub))

	out, err := Pretty(root)
	require.NoError(t, err)
	want := "{\n  \"inner\" : {\n    \"x\" : 1\n  }\n}"
	requireJSONEqual(t, want, out)
}

func TestPrettyEmptyDocument(t *testing.T) {
	d := NewDocument()
	out, err := Pretty(d)
	require.NoError(t, err)
	requireJSONEqual(t, "{}", out)
}
