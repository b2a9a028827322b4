// Package service holds the business layer of the client: the durable
// operation queue, the artifact uploader, the sync engine reconciling local
// writes with the hosted backend, the auth/session cache, and the background
// sync job. Services never talk HTTP or SQL directly; they compose the
// store repositories, the remote adapter and the object store.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/biotaxa/taxoclient/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ProgressFunc receives upload progress as a files-processed percentage
// (0-100). The percentage counts files, not bytes: a coarse but stable
// signal that does not jump around with file-size skew.
type ProgressFunc func(percent int)

// OperationQueue is the durable FIFO of remote writes that could not be
// delivered immediately. Operations are replayed in Timestamp order by the
// sync engine.
type OperationQueue interface {
	// Enqueue records a write intent. Identity (uuid), Timestamp (now) and
	// RetryCount (0) are assigned here; the persisted operation is
	// returned. Persistence errors propagate to the caller.
	Enqueue(ctx context.Context, opType models.OperationType, table string, payload json.RawMessage) (models.PendingOperation, error)

	// Dequeue returns the earliest-Timestamp operation without removing
	// it. Returns store.ErrQueueEmpty when nothing is queued.
	Dequeue(ctx context.Context) (models.PendingOperation, error)

	// List returns every queued operation in replay order.
	List(ctx context.Context) ([]models.PendingOperation, error)

	// Remove deletes the operation with the given id after a confirmed
	// remote ack. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// ShouldRetry reports whether op is still under the retry ceiling.
	// Pure; no I/O.
	ShouldRetry(op models.PendingOperation) bool

	// UpdateRetryCount persists op.RetryCount+1.
	UpdateRetryCount(ctx context.Context, op models.PendingOperation) error

	// Pending reports how many operations await replay.
	Pending(ctx context.Context) (int, error)
}

// Uploader moves sequencing artifacts into object storage, deferring
// everything it cannot deliver right now to a durable upload queue.
type Uploader interface {
	// UploadFiles stores files under basePath in bucket. Online, each file
	// is existence-checked first (a check failure counts as absent, so the
	// worst case is a duplicate upload, never a lost one) and skipped if
	// already stored; a failed upload is queued and the batch continues.
	// Offline, every file is queued without a single remote call. The
	// returned destination paths cover all files, delivered and deferred
	// alike. progress may be nil.
	UploadFiles(ctx context.Context, files []models.LocalFile, basePath, bucket string, progress ProgressFunc) ([]string, error)

	// ProcessUploadQueue drains the deferred uploads: tasks whose object
	// meanwhile exists are dropped, successful uploads are removed, and
	// failures are retried on later drains until the ceiling, then dropped
	// with a terminal notification. One task's failure never aborts the
	// drain.
	ProcessUploadQueue(ctx context.Context) error

	// PendingUploads reports how many deferred uploads are queued.
	PendingUploads(ctx context.Context) (int, error)
}

// SyncService reconciles the local mirror and the pending-operation queue
// with the hosted backend.
type SyncService interface {
	// SyncFromRemote pulls table rows scoped to orgID (updated after
	// since, when non-zero) and upserts them into the local mirror by
	// primary key. Rows deleted remotely are not pruned. Returns the
	// number of rows mirrored.
	SyncFromRemote(ctx context.Context, table, orgID string, since time.Time) (int, error)

	// SyncToRemote drains the operation queue in Timestamp order,
	// dispatching each operation by type to the remote. An operation
	// leaves the queue only after a confirmed ack; failed operations stay
	// for the next drain until the retry ceiling, then are dropped with a
	// terminal notification.
	SyncToRemote(ctx context.Context) error

	// SyncProcessedData pushes one classification result matrix with a
	// last-write-wins remote upsert, bypassing the queue, and mirrors the
	// row locally on success. On failure or offline the write is queued as
	// an update operation instead.
	SyncProcessedData(ctx context.Context, data models.ProcessedData) error

	// LocalRecords reads mirrored rows for table scoped to orgID. Reads
	// never touch the network; the mirror serves them online and offline
	// alike, at whatever freshness the last pull left it.
	LocalRecords(ctx context.Context, table, orgID string) ([]models.MirrorRecord, error)

	// LocalRecord reads one mirrored row by primary key. Returns
	// store.ErrNotFound when the row was never pulled.
	LocalRecord(ctx context.Context, table, id string) (models.MirrorRecord, error)
}

// AuthService owns the session lifecycle and the local auth cache. Reads go
// remote-first and fall back to the cache; the cache is never authoritative.
type AuthService interface {
	// SignIn authenticates against the backend and caches the resulting
	// session and user. Credential rejection is returned as-is and never
	// queued.
	SignIn(ctx context.Context, email, password string) (models.AuthState, error)

	// SignUp registers a new account and caches the initial session.
	SignUp(ctx context.Context, email, password string) (models.AuthState, error)

	// SignOut revokes the session remotely (best effort when offline) and
	// purges the local auth cache.
	SignOut(ctx context.Context) error

	// ResetPassword triggers the hosted recovery flow.
	ResetPassword(ctx context.Context, email string) error

	// Session returns a usable session: the remote one when reachable
	// (cached on the way through), otherwise the cached one if still
	// valid. An expired cached session is purged and reported absent.
	Session(ctx context.Context) (models.Session, error)

	// State resolves the full auth state machine value: session, user,
	// profile and organization, remote-first with cache fallback.
	State(ctx context.Context) models.AuthState
}

// SyncJob runs the queue drains in the background: once on every
// offline-to-online transition and periodically while online.
type SyncJob interface {
	// Start launches the background goroutine. A non-positive interval
	// defaults to 5 minutes. Any previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the goroutine to exit and blocks until it has.
	Stop()
}

// Notifier receives terminal-failure events: work the client has given up
// on after exhausting retries. Implementations surface them to the user.
type Notifier interface {
	// UploadFailed reports a deferred upload dropped at the retry ceiling.
	UploadFailed(task models.UploadTask, err error)

	// OperationDropped reports a queued write dropped at the retry
	// ceiling.
	OperationDropped(op models.PendingOperation, err error)
}
