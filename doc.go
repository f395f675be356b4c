// Package bson constructs, parses, validates, compares, and renders BSON
// documents: the binary, length-prefixed, typed key/value serialization
// format used by MongoDB and compatible databases.
//
// A Document is a handle onto a byte buffer holding one BSON document. New
// documents are built incrementally with the Append* methods and the
// BeginDocument/EndDocument (and BeginArray/EndArray) pair for nesting.
// Existing documents are read with an Iterator, which walks the buffer
// without allocating or decoding values eagerly, or with a Visitor, which
// drives a per-type callback table over an Iterator for validation and
// JSON rendering.
//
// The four ways a Document's bytes can be owned — grown inline, promoted to
// the heap, borrowed read-only, or managed by an external writer — are
// handled by the buffer package and are invisible at this level except
// through the read-only and child-of-another-document restrictions they
// impose.
package bson
