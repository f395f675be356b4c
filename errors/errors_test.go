package bsonerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEKind(t *testing.T) {
	err := E(Corrupt, 42, "bad length field")
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, Corrupt, e.Kind)
	require.Equal(t, 42, e.Offset)
	require.Contains(t, err.Error(), "corrupt document")
	require.Contains(t, err.Error(), "at offset 42")
	require.Contains(t, err.Error(), "bad length field")
}

func TestEWrap(t *testing.T) {
	inner := errors.New("boom")
	err := E(ReadOnly, inner)
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Same(t, inner, errors.Unwrap(err))
	require.Equal(t, "boom", e.Message())
}

func TestENoOffset(t *testing.T) {
	err := E(Precondition, "nil handle")
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, -1, e.Offset)
	require.NotContains(t, err.Error(), "at offset")
}

func TestEPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() { E() })
}

func TestKindString(t *testing.T) {
	require.Equal(t, "capacity exceeded", Capacity.String())
	require.Equal(t, "unknown error kind", Kind(99).String())
}
