package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/miniapp/pkg/api"
)

// YAMLAdapter stores records as a YAML sequence document.
//
// JSON arrays are valid YAML, so Validate also accepts them; register JSON
// alongside YAML if both must be told apart by content.
type YAMLAdapter[T any] struct {
	format string
}

var _ api.FormatAdapter[struct{}] = (*YAMLAdapter[struct{}])(nil)

// YAML returns a YAML adapter bound to format "yaml".
func YAML[T any](opts ...Option) *YAMLAdapter[T] {
	return &YAMLAdapter[T]{format: buildOptions("yaml", opts).format}
}

func (a *YAMLAdapter[T]) Format() string { return a.format }

func (a *YAMLAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var out []T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	return nonNil(out), nil
}

func (a *YAMLAdapter[T]) Write(items []T, w io.Writer) (err error) {
	// yaml.v3 panics on some unsupported kinds (funcs, channels).
	defer func() {
		if r := recover(); r != nil {
			err = &api.EncodeError{Format: a.format, Err: fmt.Errorf("%v", r)}
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(items)); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	if err := enc.Close(); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, buf.Bytes())
}

// Validate accepts a document whose root node is a sequence.
func (a *YAMLAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok {
		return false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	return doc.Kind == yaml.DocumentNode &&
		len(doc.Content) == 1 &&
		doc.Content[0].Kind == yaml.SequenceNode
}
