// Package miniapp provides a small, embeddable framework for single-process
// data-centric applications in Go.
//
// A miniapp application holds a list of records of one type in memory, lets
// the user work on them, and loads and saves them through pluggable file
// formats. The framework supplies the parts every such program repeats: a
// fixed lifecycle, a per-application Context owning the data set, a registry
// of format adapters, import merge strategies and uniform error reporting.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Application
//  2. Context
//  3. FormatAdapter
//  4. MergeStrategy
//  5. Run / Main
//
// # Application
//
// An Application implements three methods that are always called in this
// order, at most once each:
//
//	Initialize(ctx) -> Run(ctx) -> Shutdown(ctx)
//
// The first phase that returns an error (or panics) stops the sequence; later
// phases are not called. The failure is handed once to the application's
// HandleError method if it implements ErrorHandler, otherwise it is logged
// with log/slog, and Run returns it as a *LifecycleError.
//
// # Context
//
// Each application receives a Context[T] from its factory. It holds the
// records and moves them to and from files:
//
//	appCtx.ImportData(ctx, "json")        // reads resources/TodoApp.json
//	appCtx.ExportFile(ctx, "out.csv", "csv")
//
// Relative paths resolve against the configured base path ("resources" by
// default); absolute paths are used as given. A failed import leaves the data
// set untouched, and exports replace the target file atomically.
//
// DetectFormat and ImportDetected pick a format from the file extension,
// falling back to asking each registered adapter whether it recognizes the
// content.
//
// # Format Adapters
//
// A FormatAdapter[T] converts between []T and a byte stream for one format
// id. Adapters are listed in the Config and registered in order; the
// framework itself knows no concrete format. Ready-made adapters for JSON,
// YAML, TOML, gob, CSV, SQLite and passphrase-encrypted files live in
// the pkg/adapters package.
//
// # Merge Strategies
//
// Imports combine the file's records with the current ones through a
// MergeStrategy. Replace is the default; Append and MergeByKey cover the
// usual alternatives, and MergeFunc adapts any function.
//
// # Run and Main
//
// Run wires everything together:
//
//	cfg := miniapp.MustConfig(miniapp.ConfigParams[Task]{
//	    AppName:  "TodoApp",
//	    Adapters: []miniapp.FormatAdapter[Task]{adapters.JSON[Task]()},
//	})
//	err := miniapp.Run(ctx, cfg, func(appCtx miniapp.Context[Task]) (miniapp.Application, error) {
//	    return &TodoApp{ctx: appCtx}, nil
//	})
//
// Main does the same from a main function and exits with status 1 on
// failure. LoadSettings reads the base path and logging options from a
// config file and MINIAPP_* environment variables.
//
// # Observability
//
// Observers receive lifecycle transitions and completed imports and exports.
// NewLoggingObserver logs them, BasicMetrics counts them, and
// NewCompositeObserver combines several. Pass them with WithObserver or
// WithLogger.
//
// For complete programs, see the /examples directory.
package miniapp
