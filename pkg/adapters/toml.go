package adapters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/petrijr/miniapp/pkg/api"
)

// tomlKey is the top-level key holding the record array.
const tomlKey = "records"

// TOMLAdapter stores records under a top-level "records" array, which for
// struct records renders as [[records]] tables.
//
// Lossy: TOML has no null, so nil pointers, nil maps and nil slices inside a
// record are omitted and read back as zero values.
type TOMLAdapter[T any] struct {
	format string
}

var _ api.FormatAdapter[struct{}] = (*TOMLAdapter[struct{}])(nil)

type tomlDocument[T any] struct {
	Records []T `toml:"records"`
}

// TOML returns a TOML adapter bound to format "toml".
func TOML[T any](opts ...Option) *TOMLAdapter[T] {
	return &TOMLAdapter[T]{format: buildOptions("toml", opts).format}
}

func (a *TOMLAdapter[T]) Format() string { return a.format }

func (a *TOMLAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var doc tomlDocument[T]
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	return nonNil(doc.Records), nil
}

func (a *TOMLAdapter[T]) Write(items []T, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &api.EncodeError{Format: a.format, Err: fmt.Errorf("%v", r)}
		}
	}()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlDocument[T]{Records: nonNil(items)}); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, buf.Bytes())
}

// Validate accepts a TOML document with a top-level "records" array.
func (a *TOMLAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok {
		return false
	}
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return false
	}
	switch raw[tomlKey].(type) {
	case []map[string]any, []any:
		return true
	default:
		return false
	}
}
