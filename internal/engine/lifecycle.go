package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/miniapp/pkg/api"
)

// LifecycleConfig describes how RunLifecycle reports progress and failure.
type LifecycleConfig struct {
	AppName  string
	Observer api.Observer

	// Logger receives the default failure report when the application does
	// not implement api.ErrorHandler. Nil means slog.Default().
	Logger *slog.Logger
}

// lifecycle tracks the phase of a single run.
type lifecycle struct {
	run      api.RunInfo
	phase    api.Phase
	observer api.Observer
}

func (l *lifecycle) transition(ctx context.Context, to api.Phase) {
	from := l.phase
	l.phase = to
	l.observer.OnPhaseChange(ctx, l.run, from, to)
}

// RunLifecycle drives app through Initialize, Run and Shutdown, in that
// order and at most once each. The first failing phase stops the sequence:
// the error is handed once to the application's HandleError (or the default
// report) and returned as an *api.LifecycleError. It returns nil when all
// three phases succeed.
func RunLifecycle(ctx context.Context, app api.Application, cfg LifecycleConfig) error {
	if app == nil {
		return &api.InvalidArgumentError{Field: "application", Reason: "is nil"}
	}
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}

	l := &lifecycle{
		run: api.RunInfo{
			ID:      uuid.NewString(),
			AppName: cfg.AppName,
			Started: time.Now(),
		},
		phase:    api.PhaseCreated,
		observer: obs,
	}

	phases := []struct {
		phase api.Phase
		fn    func(context.Context) error
	}{
		{api.PhaseInitializing, app.Initialize},
		{api.PhaseRunning, app.Run},
		{api.PhaseShuttingDown, app.Shutdown},
	}

	for _, p := range phases {
		l.transition(ctx, p.phase)
		if err := callPhase(ctx, p.phase, p.fn); err != nil {
			lerr := &api.LifecycleError{AppName: cfg.AppName, Phase: p.phase, Err: err}
			obs.OnLifecycleFailed(ctx, l.run, p.phase, err)
			l.transition(ctx, api.PhaseFailed)
			handleError(ctx, app, cfg.Logger, lerr)
			return lerr
		}
	}

	l.transition(ctx, api.PhaseTerminated)
	return nil
}

// callPhase invokes fn and converts a panic into an error.
func callPhase(ctx context.Context, phase api.Phase, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during %s: %v", phase, r)
		}
	}()
	return fn(ctx)
}

func handleError(ctx context.Context, app api.Application, logger *slog.Logger, err *api.LifecycleError) {
	if h, ok := app.(api.ErrorHandler); ok {
		h.HandleError(ctx, err)
		return
	}
	reportError(ctx, logger, err)
}

// reportError is the default failure report.
func reportError(ctx context.Context, logger *slog.Logger, err *api.LifecycleError) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(ctx, "error in "+err.AppName+"; the application will now exit",
		slog.String("app", err.AppName),
		slog.String("phase", string(err.Phase)),
		slog.Any("error", err.Err),
	)
}
