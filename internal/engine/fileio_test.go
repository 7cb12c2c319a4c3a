package engine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/miniapp/pkg/api"
)

func TestWriteTo_CreatesParentsAndReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	require.NoError(t, writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	boom := errors.New("boom")
	err = writeTo(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got), "failed write must leave the previous file intact")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestReadFrom_MissingFileIsIOError(t *testing.T) {
	called := false
	err := readFrom(filepath.Join(t.TempDir(), "missing"), func(io.Reader) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, api.IsIOError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, called)
}
