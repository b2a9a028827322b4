// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface implemented by any background worker: the network
// status observer and the sync job both satisfy it through adapters.
//
// Run starts the worker. Implementations spawn their goroutines internally
// and return immediately; the goroutines exit when ctx is cancelled or the
// worker is stopped.
type Worker interface {
	Run(ctx context.Context)

	// Stop signals the worker's goroutines to exit and blocks until they
	// have.
	Stop()
}

// WorkerFunc adapts a start function and a stop function to the Worker
// interface.
type WorkerFunc struct {
	Start    func(ctx context.Context)
	Shutdown func()
}

// Run implements Worker.
func (w WorkerFunc) Run(ctx context.Context) {
	if w.Start != nil {
		w.Start(ctx)
	}
}

// Stop implements Worker.
func (w WorkerFunc) Stop() {
	if w.Shutdown != nil {
		w.Shutdown()
	}
}
