package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("missing")
	require.False(t, ok)

	require.NoError(t, s.Put("k", []byte("v")))
	got, ok := s.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)

	s.Delete("k")
	_, ok = s.Get("k")
	require.False(t, ok)
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put("radio_volume", []byte("85")))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	got, ok := s2.Get("radio_volume")
	require.True(t, ok)
	require.Equal(t, "85", string(got))
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("k", []byte("v")))
	got, ok := s.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)

	s.Delete("k")
	_, ok = s.Get("k")
	require.False(t, ok)
}
