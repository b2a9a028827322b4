package workers

import "context"

// Workers runs a set of background workers as a unit.
type Workers struct {
	workers []Worker
}

// New creates the aggregate from the given workers.
func New(list ...Worker) *Workers {
	return &Workers{workers: list}
}

// Run starts every worker in order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops every worker in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
