// Package netstatus tracks backend reachability. An Observer probes the
// remote on a ticker and publishes transitions to subscribers; the rest of
// the client consults Online() before deciding between a direct remote call
// and the pending-operation queue.
package netstatus

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/biotaxa/taxoclient/internal/logger"
)

//go:generate mockgen -source=netstatus.go -destination=../mock/netstatus_mock.go -package=mock

// Pinger probes backend reachability. Satisfied by the remote client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is one reachability observation.
type Status struct {
	// Online reports whether the backend answered the probe.
	Online bool

	// CheckedAt is when the observation was made.
	CheckedAt time.Time
}

// Observer probes the backend on a ticker and fans reachability transitions
// out to subscribers. The zero interval defaults to 30 seconds. The observer
// starts offline; the first probe runs immediately on Start.
type Observer struct {
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	online bool
	subs   []chan Status
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewObserver creates an Observer that is idle until Start is called.
func NewObserver(pinger Pinger, interval time.Duration, logger *logger.Logger) *Observer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Observer{pinger: pinger, interval: interval, logger: logger}
}

// Online reports the last observed reachability.
func (o *Observer) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// Subscribe returns a channel receiving every reachability transition. The
// channel is buffered; a subscriber that falls behind misses intermediate
// transitions but always ends on the latest one.
func (o *Observer) Subscribe() <-chan Status {
	ch := make(chan Status, 1)
	o.mu.Lock()
	o.subs = append(o.subs, ch)
	o.mu.Unlock()
	return ch
}

// SetOnline records a reachability observation made elsewhere, e.g. a
// transport failure seen by the sync engine between probes. Subscribers are
// notified only when the state actually changes.
func (o *Observer) SetOnline(online bool) {
	o.mu.Lock()
	changed := o.online != online
	o.online = online
	subs := make([]chan Status, len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	if !changed {
		return
	}

	o.logger.Info().
		Str("func", "SetOnline").
		Bool("online", online).
		Msg("network status changed")

	status := Status{Online: online, CheckedAt: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- status:
		default:
			// drop the stale observation, replace with the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- status:
			default:
			}
		}
	}
}

// Start stops any previously running probe loop, then launches a background
// goroutine that probes immediately and again every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (o *Observer) Start(ctx context.Context) {
	o.Stop()

	o.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.wg.Add(1)
	o.mu.Unlock()

	go func() {
		defer o.wg.Done()
		o.probe(probeCtx)

		t := time.NewTicker(o.interval)
		defer t.Stop()

		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				o.probe(probeCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and blocks until it has exited. Safe to call
// when the observer is not running.
func (o *Observer) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.cancel = nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.wg.Wait()
}

// probe pings the backend, retrying transient failures with fibonacci
// backoff so one dropped packet does not flip the client offline.
func (o *Observer) probe(ctx context.Context) {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(o.pinger.Ping(ctx))
	})

	if ctx.Err() != nil {
		return
	}

	o.SetOnline(err == nil)
}
