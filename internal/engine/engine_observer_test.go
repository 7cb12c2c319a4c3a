package engine

import (
	"context"
	"sync"

	"github.com/petrijr/miniapp/pkg/api"
)

// fakeObserver records all calls so tests can assert on them.
type fakeObserver struct {
	mu sync.Mutex

	transitions []transition
	failures    []failure
	imports     []api.TransferEvent
	exports     []api.TransferEvent
}

type transition struct {
	RunID    string
	From, To api.Phase
}

type failure struct {
	Phase api.Phase
	Err   error
}

func (o *fakeObserver) OnPhaseChange(ctx context.Context, run api.RunInfo, from, to api.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, transition{RunID: run.ID, From: from, To: to})
}

func (o *fakeObserver) OnLifecycleFailed(ctx context.Context, run api.RunInfo, phase api.Phase, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, failure{Phase: phase, Err: err})
}

func (o *fakeObserver) OnImport(ctx context.Context, ev api.TransferEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.imports = append(o.imports, ev)
}

func (o *fakeObserver) OnExport(ctx context.Context, ev api.TransferEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exports = append(o.exports, ev)
}

func (o *fakeObserver) phases() []api.Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]api.Phase, 0, len(o.transitions))
	for _, t := range o.transitions {
		out = append(out, t.To)
	}
	return out
}
