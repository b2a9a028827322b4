package store

import (
	"context"
	"time"

	"github.com/biotaxa/taxoclient/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// OperationRepository is the durable queue of remote writes recorded while
// offline or after a failed remote call. Ordering is ascending Timestamp.
type OperationRepository interface {
	// Enqueue persists op as-is. Identity fields (ID, Timestamp,
	// RetryCount) are assigned by the service layer before the call.
	Enqueue(ctx context.Context, op models.PendingOperation) error

	// Dequeue returns the earliest-timestamp operation without removing
	// it. Returns ErrQueueEmpty when the queue holds nothing.
	Dequeue(ctx context.Context) (models.PendingOperation, error)

	// List returns all pending operations in replay order.
	List(ctx context.Context) ([]models.PendingOperation, error)

	// Remove deletes the operation with the given id. Removing an absent
	// id is a no-op.
	Remove(ctx context.Context, id string) error

	// IncrementRetry persists retry_count+1 for the given id.
	IncrementRetry(ctx context.Context, id string) error

	// Count reports how many operations are queued.
	Count(ctx context.Context) (int, error)
}

// UploadRepository is the durable queue of deferred object uploads.
type UploadRepository interface {
	Enqueue(ctx context.Context, task models.UploadTask) error
	List(ctx context.Context) ([]models.UploadTask, error)
	Remove(ctx context.Context, id string) error
	IncrementRetry(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// AuthCacheRepository mirrors the remote identity entities so the client can
// render a degraded but functional state while offline. The cache is never
// authoritative.
type AuthCacheRepository interface {
	SaveSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context) (models.Session, error)
	RemoveSession(ctx context.Context) error

	SaveUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)

	SaveProfile(ctx context.Context, p models.UserProfile) error
	GetProfileByUser(ctx context.Context, userID string) (models.UserProfile, error)

	SaveOrganization(ctx context.Context, o models.Organization) error
	GetOrganization(ctx context.Context, id string) (models.Organization, error)

	// Purge wipes every cached auth entity. Called on sign-out and when an
	// expired cached session is detected.
	Purge(ctx context.Context) error
}

// MirrorRepository is the generic offline copy of remote domain tables.
// Rows are upserted by (table, id); removed-remotely rows are not pruned.
type MirrorRepository interface {
	Upsert(ctx context.Context, records ...models.MirrorRecord) error

	// Select returns mirrored rows for table scoped to orgID. A non-zero
	// since filters to rows with updated_at after it.
	Select(ctx context.Context, table, orgID string, since time.Time) ([]models.MirrorRecord, error)

	// Get returns one mirrored row by primary key.
	Get(ctx context.Context, table, id string) (models.MirrorRecord, error)
}
