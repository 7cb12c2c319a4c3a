package miniapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/petrijr/miniapp/internal/engine"
	"github.com/petrijr/miniapp/pkg/api"
)

// exit terminates the process; tests replace it.
var exit = os.Exit

// RunOption customizes Run and Main.
type RunOption func(*runOptions)

type runOptions struct {
	observers []Observer
	logger    *slog.Logger
}

// WithObserver adds an Observer that receives lifecycle and transfer events.
// It may be given more than once.
func WithObserver(obs Observer) RunOption {
	return func(o *runOptions) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithLogger sets the logger used for the default failure report and adds a
// LoggingObserver writing to it.
func WithLogger(logger *slog.Logger) RunOption {
	return func(o *runOptions) {
		o.logger = logger
	}
}

func buildRunOptions(opts []RunOption) runOptions {
	var o runOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o runOptions) observer() Observer {
	obs := o.observers
	if o.logger != nil {
		obs = append([]Observer{api.NewLoggingObserver(o.logger)}, obs...)
	}
	return api.NewCompositeObserver(obs...)
}

// Run launches an application: it builds the Context from cfg, registering
// cfg's adapters in order, hands it to newApp and drives the resulting
// Application through Initialize, Run and Shutdown.
//
// Run returns nil when all three phases succeed. A failing phase is reported
// once (through the application's HandleError if it has one) and returned as
// a *LifecycleError. Errors from building the Context or from newApp are
// returned before any phase starts.
func Run[T any](ctx context.Context, cfg Config[T], newApp AppFactory[T], opts ...RunOption) error {
	if newApp == nil {
		return &api.InvalidArgumentError{Field: "app factory", Reason: "is nil"}
	}
	o := buildRunOptions(opts)
	obs := o.observer()

	appCtx, err := engine.NewContext(cfg, obs)
	if err != nil {
		return err
	}

	app, err := newApp(appCtx)
	if err != nil {
		return fmt.Errorf("launch %s: %w", cfg.AppName(), err)
	}
	if app == nil {
		return &api.InvalidArgumentError{Field: "app factory", Reason: "returned a nil application"}
	}

	return engine.RunLifecycle(ctx, app, engine.LifecycleConfig{
		AppName:  cfg.AppName(),
		Observer: obs,
		Logger:   o.logger,
	})
}

// Main is Run for a program's main function: it runs with a background
// context and exits the process with status 1 if the application fails.
//
//	func main() {
//	    cfg := miniapp.MustConfig(miniapp.ConfigParams[Task]{
//	        AppName:  "TodoApp",
//	        Adapters: []miniapp.FormatAdapter[Task]{adapters.JSON[Task]()},
//	    })
//	    miniapp.Main(cfg, NewTodoApp)
//	}
func Main[T any](cfg Config[T], newApp AppFactory[T], opts ...RunOption) {
	err := Run(context.Background(), cfg, newApp, opts...)
	if err == nil {
		return
	}

	// Lifecycle failures were already reported by the error handler.
	var lerr *api.LifecycleError
	if !errors.As(err, &lerr) {
		logger := buildRunOptions(opts).logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("failed to launch application",
			slog.String("app", cfg.AppName()),
			slog.Any("error", err),
		)
	}
	exit(1)
}
