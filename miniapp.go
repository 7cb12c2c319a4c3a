package miniapp

import (
	"github.com/petrijr/miniapp/internal/engine"
	"github.com/petrijr/miniapp/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Application          = api.Application
	ErrorHandler         = api.ErrorHandler
	Phase                = api.Phase
	RunInfo              = api.RunInfo
	TransferEvent        = api.TransferEvent
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	DecodeError            = api.DecodeError
	EncodeError            = api.EncodeError
	UnsupportedFormatError = api.UnsupportedFormatError
	IOError                = api.IOError
	InvalidArgumentError   = api.InvalidArgumentError
	LifecycleError         = api.LifecycleError
)

// Generic re-exports.

type (
	Context[T any]       = api.Context[T]
	Config[T any]        = api.Config[T]
	ConfigParams[T any]  = api.ConfigParams[T]
	FormatAdapter[T any] = api.FormatAdapter[T]
	MergeStrategy[T any] = api.MergeStrategy[T]
	MergeFunc[T any]     = api.MergeFunc[T]
	AppFactory[T any]    = api.AppFactory[T]
)

// Re-export lifecycle phases for convenience.

const (
	PhaseCreated      = api.PhaseCreated
	PhaseInitializing = api.PhaseInitializing
	PhaseRunning      = api.PhaseRunning
	PhaseShuttingDown = api.PhaseShuttingDown
	PhaseTerminated   = api.PhaseTerminated
	PhaseFailed       = api.PhaseFailed
)

// DefaultBasePath is where relative paths resolve when no base path is set.
const DefaultBasePath = api.DefaultBasePath

// Re-export common observer and error helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver

	IsDecodeError       = api.IsDecodeError
	IsEncodeError       = api.IsEncodeError
	IsUnsupportedFormat = api.IsUnsupportedFormat
	IsIOError           = api.IsIOError
	IsInvalidArgument   = api.IsInvalidArgument
)

// NewConfig validates p and returns an immutable Config.
func NewConfig[T any](p ConfigParams[T]) (Config[T], error) {
	return api.NewConfig(p)
}

// MustConfig is like NewConfig but panics on error.
func MustConfig[T any](p ConfigParams[T]) Config[T] {
	return api.MustConfig(p)
}

// Replace is the default merge strategy: imported records replace the
// current ones.
func Replace[T any]() MergeStrategy[T] { return api.Replace[T]() }

// Append adds imported records after the current ones.
func Append[T any]() MergeStrategy[T] { return api.Append[T]() }

// MergeByKey upserts imported records by key. See api.MergeByKey.
func MergeByKey[T any, K comparable](key func(T) K) MergeStrategy[T] {
	return api.MergeByKey(key)
}

// NewContext builds a standalone Context for cfg, outside of any lifecycle.
// It is mostly useful in tests and tools that only need import/export.
// A nil observer is allowed.
func NewContext[T any](cfg Config[T], obs Observer) (Context[T], error) {
	return engine.NewContext(cfg, obs)
}
