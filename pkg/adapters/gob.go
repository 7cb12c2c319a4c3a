package adapters

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/petrijr/miniapp/pkg/api"
)

// GobAdapter stores records with encoding/gob. It is compact and exact for
// exported fields but only readable by Go programs.
//
// Records held behind interface fields must have their concrete types
// registered with gob.Register by the caller.
type GobAdapter[T any] struct {
	format string
}

var _ api.FormatAdapter[struct{}] = (*GobAdapter[struct{}])(nil)

// gobEnvelope wraps the records so that an empty data set still encodes to
// a valid, self-describing stream.
type gobEnvelope[T any] struct {
	Records []T
}

// Gob returns a gob adapter bound to format "gob".
func Gob[T any](opts ...Option) *GobAdapter[T] {
	return &GobAdapter[T]{format: buildOptions("gob", opts).format}
}

func (a *GobAdapter[T]) Format() string { return a.format }

func (a *GobAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return make([]T, 0), nil
	}

	env, err := decodeGob[T](data)
	if err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	return nonNil(env.Records), nil
}

func (a *GobAdapter[T]) Write(items []T, w io.Writer) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobEnvelope[T]{Records: items}); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, buf.Bytes())
}

// Validate accepts any stream that decodes into the adapter's record type.
func (a *GobAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok || len(data) == 0 {
		return false
	}
	_, err := decodeGob[T](data)
	return err == nil
}

// decodeGob decodes a gobEnvelope, converting decoder panics on hostile
// input into errors.
func decodeGob[T any](data []byte) (env gobEnvelope[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gob: %v", r)
		}
	}()
	err = gob.NewDecoder(bytes.NewReader(data)).Decode(&env)
	return env, err
}
