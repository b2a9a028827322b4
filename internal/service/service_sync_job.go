package service

import (
	"context"
	"sync"
	"time"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/netstatus"
)

// statusSource is the slice of the network status observer the job needs.
type statusSource interface {
	Online() bool
	Subscribe() <-chan netstatus.Status
}

type syncJob struct {
	sync     SyncService
	uploader Uploader
	net      statusSource
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates the background drain job. The job is idle until Start
// is called.
func NewSyncJob(syncService SyncService, uploader Uploader, net statusSource, logger *logger.Logger) SyncJob {
	return &syncJob{sync: syncService, uploader: uploader, net: net, logger: logger}
}

// Start implements SyncJob. The goroutine drains both queues once on every
// offline-to-online transition and on every tick while online, and exits
// when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	transitions := j.net.Subscribe()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case status := <-transitions:
				if status.Online {
					j.drain(jobCtx)
				}
			case <-t.C:
				if j.net.Online() {
					j.drain(jobCtx)
				}
			}
		}
	}()
}

// Stop implements SyncJob. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) drain(ctx context.Context) {
	if err := j.sync.SyncToRemote(ctx); err != nil {
		j.logger.Error().Str("func", "drain").Err(err).Msg("operation queue drain failed")
	}
	if err := j.uploader.ProcessUploadQueue(ctx); err != nil {
		j.logger.Error().Str("func", "drain").Err(err).Msg("upload queue drain failed")
	}
}
