package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("engine", "NewOpenAI", func() {})
	r.Register("engine", "Nil", nil)

	ref, err := r.Lookup("engine", "NewOpenAI")
	require.NoError(t, err)
	require.NotNil(t, ref)

	_, err = r.Lookup("missing", "Thing")
	require.ErrorIs(t, err, ErrNotFound)
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	require.Equal(t, "module", lookupErr.Missing)
	require.Equal(t, "module 'missing' not found", err.Error())

	_, err = r.Lookup("engine", "Absent")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, "symbol 'Absent' not found in module 'engine'", err.Error())

	_, err = r.Lookup("engine", "Nil")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("ui.components", "NewPrinter", 1)

	ref, err := r.Resolve("ui.components.NewPrinter")
	require.NoError(t, err)
	require.Equal(t, 1, ref)

	for _, bad := range []string{"", "nodot", ".Leading", "trailing."} {
		_, err := r.Resolve(bad)
		require.Error(t, err, bad)
		require.NotErrorIs(t, err, ErrNotFound, bad)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("b", "Two", 2)
	r.Register("a", "One", 1)
	r.Register("b", "Alpha", 3)

	require.Equal(t, []string{"a.One", "b.Alpha", "b.Two"}, r.List())
}
