package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// TransferEvent describes one completed import or export.
type TransferEvent struct {
	AppName  string
	Format   string
	Path     string
	Records  int
	Duration time.Duration
	Err      error
}

// Observer receives callbacks from the lifecycle driver and the Context for
// logging and metrics.
//
// Implementations should be fast; they run inline with application code.
type Observer interface {
	// OnPhaseChange is called on every lifecycle transition.
	OnPhaseChange(ctx context.Context, run RunInfo, from, to Phase)

	// OnLifecycleFailed is called once when a phase fails, before the
	// error handler runs.
	OnLifecycleFailed(ctx context.Context, run RunInfo, phase Phase, err error)

	// OnImport is called after each import attempt, successful or not.
	OnImport(ctx context.Context, ev TransferEvent)

	// OnExport is called after each export attempt, successful or not.
	OnExport(ctx context.Context, ev TransferEvent)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnPhaseChange(ctx context.Context, run RunInfo, from, to Phase) {}
func (NoopObserver) OnLifecycleFailed(ctx context.Context, run RunInfo, phase Phase, err error) {
}
func (NoopObserver) OnImport(ctx context.Context, ev TransferEvent) {}
func (NoopObserver) OnExport(ctx context.Context, ev TransferEvent) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnPhaseChange(ctx context.Context, run RunInfo, from, to Phase) {
	for _, o := range c.observers {
		o.OnPhaseChange(ctx, run, from, to)
	}
}

func (c *CompositeObserver) OnLifecycleFailed(ctx context.Context, run RunInfo, phase Phase, err error) {
	for _, o := range c.observers {
		o.OnLifecycleFailed(ctx, run, phase, err)
	}
}

func (c *CompositeObserver) OnImport(ctx context.Context, ev TransferEvent) {
	for _, o := range c.observers {
		o.OnImport(ctx, ev)
	}
}

func (c *CompositeObserver) OnExport(ctx context.Context, ev TransferEvent) {
	for _, o := range c.observers {
		o.OnExport(ctx, ev)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs lifecycle and transfer
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnPhaseChange(ctx context.Context, run RunInfo, from, to Phase) {
	o.Logger.DebugContext(ctx, "phase_change",
		slog.String("app", run.AppName),
		slog.String("run_id", run.ID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}

func (o *LoggingObserver) OnLifecycleFailed(ctx context.Context, run RunInfo, phase Phase, err error) {
	o.Logger.ErrorContext(ctx, "lifecycle_failed",
		slog.String("app", run.AppName),
		slog.String("run_id", run.ID),
		slog.String("phase", string(phase)),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnImport(ctx context.Context, ev TransferEvent) {
	o.logTransfer(ctx, "import", ev)
}

func (o *LoggingObserver) OnExport(ctx context.Context, ev TransferEvent) {
	o.logTransfer(ctx, "export", ev)
}

func (o *LoggingObserver) logTransfer(ctx context.Context, msg string, ev TransferEvent) {
	level := slog.LevelInfo
	if ev.Err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, msg,
		slog.String("app", ev.AppName),
		slog.String("format", ev.Format),
		slog.String("path", ev.Path),
		slog.Int("records", ev.Records),
		slog.Duration("duration", ev.Duration),
		slog.Any("error", ev.Err),
	)
}

// BasicMetrics collects simple counters for runs and transfers.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	runsStarted     atomic.Int64
	runsTerminated  atomic.Int64
	runsFailed      atomic.Int64
	imports         atomic.Int64
	exports         atomic.Int64
	transferErrors  atomic.Int64
	recordsImported atomic.Int64
	recordsExported atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	RunsStarted    int64
	RunsTerminated int64
	RunsFailed     int64

	Imports         int64
	Exports         int64
	TransferErrors  int64
	RecordsImported int64
	RecordsExported int64
}

func (m *BasicMetrics) OnPhaseChange(ctx context.Context, run RunInfo, from, to Phase) {
	switch to {
	case PhaseInitializing:
		m.runsStarted.Add(1)
	case PhaseTerminated:
		m.runsTerminated.Add(1)
	case PhaseFailed:
		m.runsFailed.Add(1)
	}
}

func (m *BasicMetrics) OnImport(ctx context.Context, ev TransferEvent) {
	if ev.Err != nil {
		m.transferErrors.Add(1)
		return
	}
	m.imports.Add(1)
	m.recordsImported.Add(int64(ev.Records))
}

func (m *BasicMetrics) OnExport(ctx context.Context, ev TransferEvent) {
	if ev.Err != nil {
		m.transferErrors.Add(1)
		return
	}
	m.exports.Add(1)
	m.recordsExported.Add(int64(ev.Records))
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		RunsStarted:     m.runsStarted.Load(),
		RunsTerminated:  m.runsTerminated.Load(),
		RunsFailed:      m.runsFailed.Load(),
		Imports:         m.imports.Load(),
		Exports:         m.exports.Load(),
		TransferErrors:  m.transferErrors.Load(),
		RecordsImported: m.recordsImported.Load(),
		RecordsExported: m.recordsExported.Load(),
	}
}
