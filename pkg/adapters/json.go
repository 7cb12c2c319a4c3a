package adapters

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/tidwall/gjson"

	"github.com/petrijr/miniapp/pkg/api"
)

// JSONAdapter stores records as a single indented JSON array.
//
// An empty document and a literal null both read as zero records.
type JSONAdapter[T any] struct {
	format string
}

var _ api.FormatAdapter[struct{}] = (*JSONAdapter[struct{}])(nil)

// JSON returns a JSON adapter bound to format "json".
func JSON[T any](opts ...Option) *JSONAdapter[T] {
	return &JSONAdapter[T]{format: buildOptions("json", opts).format}
}

func (a *JSONAdapter[T]) Format() string { return a.format }

func (a *JSONAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make([]T, 0), nil
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	return nonNil(out), nil
}

func (a *JSONAdapter[T]) Write(items []T, w io.Writer) error {
	b, err := json.MarshalIndent(nonNil(items), "", "  ")
	if err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, append(b, '\n'))
}

// Validate accepts well-formed JSON whose top-level value is an array.
func (a *JSONAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok || !gjson.ValidBytes(data) {
		return false
	}
	return gjson.ParseBytes(data).IsArray()
}
