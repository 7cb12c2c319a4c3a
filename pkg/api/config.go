package api

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// DefaultBasePath is the directory relative import/export paths resolve
// against when ConfigParams.BasePath is empty.
const DefaultBasePath = "resources"

// ConfigParams holds the inputs to NewConfig.
type ConfigParams[T any] struct {
	// AppName names the application. It is also the stem of default
	// import/export file names.
	AppName string

	// BasePath is the resource directory. Empty means DefaultBasePath.
	BasePath string

	// Adapters are registered in order; a later adapter with the same
	// format id replaces an earlier one.
	Adapters []FormatAdapter[T]
}

// Config is the immutable startup configuration of an application.
// The record type T is the application's data model.
type Config[T any] struct {
	appName  string
	basePath string
	adapters []FormatAdapter[T]
}

// NewConfig validates p and returns the configuration built from it.
func NewConfig[T any](p ConfigParams[T]) (Config[T], error) {
	name := strings.TrimSpace(p.AppName)
	if name == "" {
		return Config[T]{}, &InvalidArgumentError{Field: "app name", Reason: "must not be empty"}
	}
	if strings.ContainsAny(name, `/\`) {
		return Config[T]{}, &InvalidArgumentError{Field: "app name", Reason: fmt.Sprintf("%q must not contain path separators", name)}
	}

	base := p.BasePath
	if base == "" {
		base = DefaultBasePath
	}

	adapters := make([]FormatAdapter[T], 0, len(p.Adapters))
	for i, a := range p.Adapters {
		if a == nil || reflect.ValueOf(a).Kind() == reflect.Pointer && reflect.ValueOf(a).IsNil() {
			return Config[T]{}, &InvalidArgumentError{Field: fmt.Sprintf("adapter %d", i), Reason: "is nil"}
		}
		if strings.TrimSpace(a.Format()) == "" {
			return Config[T]{}, &InvalidArgumentError{Field: fmt.Sprintf("adapter %d", i), Reason: "declares no format"}
		}
		adapters = append(adapters, a)
	}

	return Config[T]{
		appName:  name,
		basePath: base,
		adapters: adapters,
	}, nil
}

// MustConfig is like NewConfig but panics on error.
// Useful for initialization in main().
func MustConfig[T any](p ConfigParams[T]) Config[T] {
	cfg, err := NewConfig(p)
	if err != nil {
		panic(err)
	}
	return cfg
}

// AppName returns the application name.
func (c Config[T]) AppName() string { return c.appName }

// BasePath returns the resource directory.
func (c Config[T]) BasePath() string { return c.basePath }

// Adapters returns a copy of the configured adapters.
func (c Config[T]) Adapters() []FormatAdapter[T] { return slices.Clone(c.adapters) }

// DataModel names the record type, for diagnostics.
func (c Config[T]) DataModel() string {
	return reflect.TypeFor[T]().String()
}

// Valid reports whether c was produced by NewConfig.
func (c Config[T]) Valid() bool { return c.appName != "" }
