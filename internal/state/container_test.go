package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   int
	Text string
}

func TestContainer_GetDataOnFreshContainerIsEmptyNotNil(t *testing.T) {
	c := New[note]()

	got := c.GetData()
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, c.IsModified(), "reading must not mark the container modified")

	var zero Container[note]
	require.NotNil(t, zero.GetData())
	assert.True(t, zero.IsEmpty())
}

func TestContainer_SetDataStoresCopy(t *testing.T) {
	c := New[note]()
	in := []note{{1, "a"}, {2, "b"}, {3, "c"}}

	c.SetData(in)
	assert.True(t, c.IsModified())

	// Mutating the caller's slice must not leak into the container.
	in[0].Text = "changed"
	in = append(in[:1], in[2:]...)

	got := c.GetData()
	assert.Equal(t, []note{{1, "a"}, {2, "b"}, {3, "c"}}, got)

	// Mutating the returned slice must not leak either.
	got[1].Text = "also changed"
	assert.Equal(t, "b", c.GetData()[1].Text)
}

func TestContainer_SetDataNilBecomesEmpty(t *testing.T) {
	c := New[note]()
	c.SetData([]note{{1, "a"}})
	c.SetModified(false)

	c.SetData(nil)

	require.NotNil(t, c.GetData())
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.IsModified())
}

func TestContainer_ClearNonEmptySetsModified(t *testing.T) {
	c := New[note]()
	c.SetData([]note{{1, "a"}})
	c.SetModified(false)

	c.Clear()

	assert.Empty(t, c.GetData())
	assert.True(t, c.IsEmpty())
	assert.True(t, c.IsModified())
}

func TestContainer_ClearEmptyLeavesModifiedUnchanged(t *testing.T) {
	c := New[note]()

	c.Clear()
	assert.False(t, c.IsModified())

	c.SetData(nil)
	require.True(t, c.IsModified())
	c.Clear()
	assert.True(t, c.IsModified(), "flag must be left as it was")
}

func TestContainer_LenAndIsEmpty(t *testing.T) {
	c := New[note]()
	assert.True(t, c.IsEmpty())

	c.SetData([]note{{1, "a"}, {2, "b"}})
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.IsEmpty())
}
