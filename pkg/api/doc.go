// Package api contains the core contracts of the miniapp framework: the
// application lifecycle, the per-application Context, format adapters, merge
// strategies, configuration, observers and the typed errors the framework
// reports.
//
// Most users interact with the higher-level miniapp package, which re-exports
// selected types and helpers from this package and adds the runner. The api
// package is intended for code that implements its own adapters or observers,
// or that drives the lifecycle directly.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Applications and their lifecycle phases
//   - The Context, which owns the data set
//   - Format adapters and merge strategies
//   - Observability
//
// # Applications
//
// An Application implements Initialize, Run and Shutdown. The framework
// calls them strictly in that order, once each, and stops at the first one
// that fails. An Application may also implement ErrorHandler to replace the
// default failure report.
//
// # Context
//
// A Context[T] holds the application's records in memory and moves them to
// and from files through FormatAdapters registered under format ids such as
// "json" or "csv". Relative paths resolve against the configured base path;
// default file names follow the "{appName}.{format}" convention.
//
// Imports decode the whole file before touching the data set, so a failed
// import leaves it exactly as it was. Exports write to a temporary file and
// rename it into place.
//
// # Merge Strategies
//
// A MergeStrategy combines imported records with the current ones. Replace
// is the default; Append and MergeByKey cover the common alternatives, and
// MergeFunc adapts any function.
//
// # Observability
//
// The Observer interface receives lifecycle transitions, failures and
// completed transfers. NewLoggingObserver logs them with log/slog,
// BasicMetrics counts them, and NewCompositeObserver combines several.
package api
