package api

import (
	"context"
	"time"
)

// Phase represents the lifecycle state of a running application.
type Phase string

const (
	PhaseCreated      Phase = "CREATED"
	PhaseInitializing Phase = "INITIALIZING"
	PhaseRunning      Phase = "RUNNING"
	PhaseShuttingDown Phase = "SHUTTING_DOWN"
	PhaseTerminated   Phase = "TERMINATED"
	PhaseFailed       Phase = "FAILED"
)

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	return p == PhaseTerminated || p == PhaseFailed
}

// Application is the unit of user logic driven by the lifecycle.
//
// The three phases are invoked strictly in order, once each:
//
//	Initialize -> Run -> Shutdown
//
// If a phase returns an error (or panics), no later phase is invoked.
type Application interface {
	// Initialize prepares the application, typically loading prior state
	// through its Context.
	Initialize(ctx context.Context) error

	// Run is the main loop. It returns when the user is done.
	Run(ctx context.Context) error

	// Shutdown persists final state and releases resources.
	Shutdown(ctx context.Context) error
}

// ErrorHandler may be implemented by an Application to replace the default
// failure report. It is called once, with the error that stopped the
// lifecycle. The lifecycle is never resumed afterwards.
type ErrorHandler interface {
	HandleError(ctx context.Context, err error)
}

// AppFactory constructs an Application bound to the given Context.
// It is how the runner injects the context into user code.
type AppFactory[T any] func(appCtx Context[T]) (Application, error)

// RunInfo identifies a single lifecycle run.
type RunInfo struct {
	ID      string
	AppName string
	Started time.Time
}
