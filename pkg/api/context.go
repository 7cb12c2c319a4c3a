package api

import "context"

// Context is the facade application code uses to reach its data set and
// the registered format adapters.
//
// File paths passed to the Import/Export methods are resolved against the
// configured base path unless they are absolute. When no path is given the
// default file name "{appName}.{format}" is used.
type Context[T any] interface {
	// AppName returns the configured application name.
	AppName() string

	// GetData returns a copy of the current records. It is never nil.
	GetData() []T

	// SetData replaces the records with a copy of items and marks the
	// data set modified.
	SetData(items []T)

	// ClearData removes all records.
	ClearData()

	// IsModified reports whether the data changed since the last export.
	IsModified() bool

	// ImportData reads the default file for format and replaces the data.
	ImportData(ctx context.Context, format string) error

	// ImportDataWith reads the default file for format and merges it using strategy.
	ImportDataWith(ctx context.Context, format string, strategy MergeStrategy[T]) error

	// ImportFile reads path as format and replaces the data.
	ImportFile(ctx context.Context, path, format string) error

	// ImportFileWith reads path as format and merges it using strategy.
	// A nil strategy means Replace.
	ImportFileWith(ctx context.Context, path, format string, strategy MergeStrategy[T]) error

	// ImportDetected detects the format of path and imports it.
	ImportDetected(ctx context.Context, path string, strategy MergeStrategy[T]) error

	// ExportData writes the records to the default file for format.
	ExportData(ctx context.Context, format string) error

	// ExportFile writes the records to path as format.
	ExportFile(ctx context.Context, path, format string) error

	// DetectFormat guesses the format of path, first by extension and then
	// by probing each adapter's Validate against the file content.
	DetectFormat(path string) (string, bool)

	// SupportsFormat reports whether an adapter is registered for format.
	SupportsFormat(format string) bool

	// SupportedFormats returns the registered format ids, sorted.
	SupportedFormats() []string
}
