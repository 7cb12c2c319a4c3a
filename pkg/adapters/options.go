package adapters

import (
	"io"
	"strings"

	"github.com/petrijr/miniapp/pkg/api"
)

// Option customizes an adapter at construction time.
type Option func(*options)

type options struct {
	format string
}

// WithFormat binds the adapter to a different format id, for example "yml"
// for the YAML adapter.
func WithFormat(id string) Option {
	return func(o *options) {
		o.format = strings.ToLower(strings.TrimSpace(id))
	}
}

func buildOptions(defaultFormat string, opts []Option) options {
	o := options{format: defaultFormat}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.format == "" {
		o.format = defaultFormat
	}
	return o
}

// readAll drains r, reporting stream failures as *api.IOError.
func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &api.IOError{Op: "read", Path: "<stream>", Err: err}
	}
	return b, nil
}

// writeAll writes b to w, reporting failures as *api.IOError.
func writeAll(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return &api.IOError{Op: "write", Path: "<stream>", Err: err}
	}
	return nil
}

// sniff reads r for a Validate implementation; any failure reads as "no".
func sniff(r io.Reader) ([]byte, bool) {
	b, err := readAll(r)
	if err != nil {
		return nil, false
	}
	return b, true
}

// nonNil normalizes a decoded nil slice to an empty one.
func nonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
