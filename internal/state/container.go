// Package state holds the in-memory working data set of an application.
package state

import "slices"

// Container holds an application's records and tracks whether they changed
// since the last successful export.
//
// Readers always observe a non-nil slice. Every slice crossing the
// container boundary is copied, so callers can neither alias nor corrupt
// the stored records.
type Container[T any] struct {
	data     []T
	modified bool
}

// New returns an empty, unmodified Container.
func New[T any]() *Container[T] {
	return &Container[T]{data: make([]T, 0)}
}

// GetData returns a copy of the current records.
func (c *Container[T]) GetData() []T {
	if c.data == nil {
		c.data = make([]T, 0)
	}
	return slices.Clone(c.data)
}

// SetData replaces the records with a copy of items and marks the container
// modified. A nil items is stored as an empty sequence.
func (c *Container[T]) SetData(items []T) {
	c.data = make([]T, len(items))
	copy(c.data, items)
	c.modified = true
}

// Clear removes all records. The container is marked modified only if it
// held any.
func (c *Container[T]) Clear() {
	if len(c.data) == 0 {
		return
	}
	clear(c.data)
	c.data = c.data[:0]
	c.modified = true
}

// IsModified reports whether the records changed since the flag was last reset.
func (c *Container[T]) IsModified() bool { return c.modified }

// SetModified sets the modified flag explicitly.
func (c *Container[T]) SetModified(modified bool) { c.modified = modified }

// Len returns the number of records.
func (c *Container[T]) Len() int { return len(c.data) }

// IsEmpty reports whether there are no records.
func (c *Container[T]) IsEmpty() bool { return len(c.data) == 0 }
