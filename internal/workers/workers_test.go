package workers

import (
	"context"
	"testing"
)

// mockWorker tracks Run and Stop calls and records start order into a shared
// slice.
type mockWorker struct {
	id       int
	runs     int
	stops    int
	runOrder *[]int
}

func (m *mockWorker) Run(context.Context) {
	m.runs++
	if m.runOrder != nil {
		*m.runOrder = append(*m.runOrder, m.id)
	}
}

func (m *mockWorker) Stop() {
	m.stops++
	if m.runOrder != nil {
		*m.runOrder = append(*m.runOrder, -m.id)
	}
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := New(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runs != 1 {
			t.Errorf("worker[%d]: expected runs=1, got %d", i, w.runs)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := New()

	// Should not panic on empty workers list
	ws.Run(context.Background())
	ws.Stop()
}

func TestWorkers_StartStopOrder(t *testing.T) {
	order := []int{}
	w1 := &mockWorker{id: 1, runOrder: &order}
	w2 := &mockWorker{id: 2, runOrder: &order}

	ws := New(w1, w2)
	ws.Run(context.Background())
	ws.Stop()

	expected := []int{1, 2, -2, -1}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

func TestWorkers_WorkerFunc(t *testing.T) {
	started, stopped := false, false
	w := WorkerFunc{
		Start:    func(context.Context) { started = true },
		Shutdown: func() { stopped = true },
	}

	ws := New(w)
	ws.Run(context.Background())
	ws.Stop()

	if !started || !stopped {
		t.Errorf("expected started and stopped, got started=%v stopped=%v", started, stopped)
	}

	// nil funcs should not panic
	New(WorkerFunc{}).Run(context.Background())
}
