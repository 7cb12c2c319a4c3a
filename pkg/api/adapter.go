package api

import "io"

// FormatAdapter converts a sequence of records to and from one serialization
// format. An adapter is bound to exactly one record type and one format id.
type FormatAdapter[T any] interface {
	// Format returns the identifier the adapter is registered under,
	// e.g. "json". It doubles as the default file extension.
	Format() string

	// Read decodes all records from r. Malformed input yields a *DecodeError.
	Read(r io.Reader) ([]T, error)

	// Write encodes items to w. A record that cannot be represented yields
	// an *EncodeError.
	Write(items []T, w io.Writer) error

	// Validate sniffs whether r holds content in this adapter's format.
	// It must not panic and returns false for malformed input.
	Validate(r io.Reader) bool
}
