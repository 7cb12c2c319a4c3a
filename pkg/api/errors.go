package api

import (
	"errors"
	"fmt"
	"strings"
)

// DecodeError reports malformed input while reading a format.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError wraps err as a *DecodeError for format. An err that already
// is a *DecodeError is returned unchanged.
func NewDecodeError(format string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Format: format, Err: err}
}

// EncodeError reports data that could not be represented in a format.
type EncodeError struct {
	Format string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// NewEncodeError wraps err as an *EncodeError for format. An err that already
// is an *EncodeError is returned unchanged.
func NewEncodeError(format string, err error) error {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return err
	}
	return &EncodeError{Format: format, Err: err}
}

// UnsupportedFormatError is returned when no adapter is bound to a format.
// Supported lists exactly the formats registered for the application.
type UnsupportedFormatError struct {
	AppName   string
	Format    string
	Supported []string

	// Suggestion is the closest supported format, if any is near enough.
	Suggestion string
}

func (e *UnsupportedFormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "format %q is not supported by %s; supported formats: [%s]",
		e.Format, e.AppName, strings.Join(e.Supported, ", "))
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

// IOError reports a failure to open, read, or write a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// InvalidArgumentError reports invalid configuration or arguments.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LifecycleError is returned when a lifecycle phase fails. Phase is the
// phase that was executing.
type LifecycleError struct {
	AppName string
	Phase   Phase
	Err     error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s failed during %s: %v", e.AppName, e.Phase, e.Err)
}

func (e *LifecycleError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err (or anything it wraps) is a *DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsEncodeError reports whether err is an *EncodeError.
func IsEncodeError(err error) bool {
	var e *EncodeError
	return errors.As(err, &e)
}

// IsUnsupportedFormat reports whether err is an *UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var e *UnsupportedFormatError
	return errors.As(err, &e)
}

// IsIOError reports whether err is an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// IsInvalidArgument reports whether err is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}
