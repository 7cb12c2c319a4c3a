package adapters

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/petrijr/miniapp/pkg/api"
)

// CSVCodec maps one record to and from a CSV row. Header names the columns
// and is written as the first line.
type CSVCodec[T any] struct {
	Header    []string
	Marshal   func(T) ([]string, error)
	Unmarshal func(row []string) (T, error)
}

// CSVAdapter stores records as CSV rows with a header line.
//
// Lossy: fields survive a round trip only as faithfully as the codec
// renders them as text.
type CSVAdapter[T any] struct {
	format string
	codec  CSVCodec[T]
}

var _ api.FormatAdapter[struct{}] = (*CSVAdapter[struct{}])(nil)

// CSV returns a CSV adapter bound to format "csv". It panics if the codec
// is incomplete, since that is a programming error.
func CSV[T any](codec CSVCodec[T], opts ...Option) *CSVAdapter[T] {
	if len(codec.Header) == 0 || codec.Marshal == nil || codec.Unmarshal == nil {
		panic("adapters: CSV codec requires Header, Marshal and Unmarshal")
	}
	return &CSVAdapter[T]{
		format: buildOptions("csv", opts).format,
		codec:  codec,
	}
}

func (a *CSVAdapter[T]) Format() string { return a.format }

func (a *CSVAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(a.codec.Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return make([]T, 0), nil
	}
	if err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	if !a.headerMatches(header) {
		return nil, &api.DecodeError{
			Format: a.format,
			Err:    fmt.Errorf("unexpected header %v, want %v", header, a.codec.Header),
		}
	}

	out := make([]T, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &api.DecodeError{Format: a.format, Err: err}
		}
		item, err := a.codec.Unmarshal(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &api.DecodeError{Format: a.format, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		out = append(out, item)
	}
	return out, nil
}

func (a *CSVAdapter[T]) Write(items []T, w io.Writer) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(a.codec.Header); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	for i, item := range items {
		row, err := a.codec.Marshal(item)
		if err != nil {
			return &api.EncodeError{Format: a.format, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if len(row) != len(a.codec.Header) {
			return &api.EncodeError{
				Format: a.format,
				Err:    fmt.Errorf("record %d: %d fields, header has %d", i, len(row), len(a.codec.Header)),
			}
		}
		if err := cw.Write(row); err != nil {
			return &api.EncodeError{Format: a.format, Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, buf.Bytes())
}

// Validate accepts CSV content whose first line is the codec header.
func (a *CSVAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok {
		return false
	}
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return false
	}
	return a.headerMatches(header)
}

func (a *CSVAdapter[T]) headerMatches(header []string) bool {
	if len(header) != len(a.codec.Header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), a.codec.Header[i]) {
			return false
		}
	}
	return true
}
