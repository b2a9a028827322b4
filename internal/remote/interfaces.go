// Package remote provides transport-layer abstractions for communicating
// with the hosted taxoclient backend.
//
// The primary abstractions are [Client], a table-level CRUD contract over
// the backend's REST interface, and [AuthAPI] for session management. Both
// decouple the service layer from the underlying protocol; the package ships
// an HTTP implementation built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/biotaxa/taxoclient/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_mock.go -package=mock

// Filter narrows a Select to the rows the sync engine needs. Zero-value
// fields are omitted from the request.
type Filter struct {
	// Eq maps column name to required value (equality match).
	Eq map[string]string

	// UpdatedAfter keeps only rows with updated_at strictly after the
	// given instant. Used for incremental pulls.
	UpdatedAfter time.Time
}

// Client is the transport-agnostic remote CRUD contract. Record payloads are
// raw JSON; the implementation validates known tables against their schemas
// before anything leaves the process.
type Client interface {
	// SetToken stores the bearer token attached to all subsequent
	// requests. Called after a successful sign-in or session restore.
	SetToken(token string)

	// Token returns the bearer token currently stored, or an empty string.
	Token() string

	// Insert creates record in table. Returns the created row as the
	// backend echoed it back.
	Insert(ctx context.Context, table string, record json.RawMessage) (json.RawMessage, error)

	// Update replaces the remote record identified by the payload's "id"
	// field. Returns [ErrValidation] (wrapped) if the payload has no id.
	Update(ctx context.Context, table string, record json.RawMessage) error

	// Delete removes the remote record with the given primary key.
	Delete(ctx context.Context, table, id string) error

	// Select fetches the rows of table matching filter.
	Select(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error)

	// Upsert creates or replaces record by primary key (last-write-wins).
	Upsert(ctx context.Context, table string, record json.RawMessage) error

	// Ping probes backend reachability. Used by the network status
	// observer; any non-transport error still counts as reachable.
	Ping(ctx context.Context) error
}

// AuthAPI is the hosted auth contract. Successful calls return the fresh
// session/user so the caller can mirror them into the local cache.
type AuthAPI interface {
	// SignIn exchanges credentials for a session. Credential rejection
	// surfaces as [ErrInvalidCredentials]; it is never queued or retried.
	SignIn(ctx context.Context, email, password string) (models.Session, models.User, error)

	// SignUp registers a new account and returns the initial session.
	SignUp(ctx context.Context, email, password string) (models.Session, models.User, error)

	// SignOut revokes the current session remotely.
	SignOut(ctx context.Context) error

	// ResetPassword triggers the hosted recovery flow for email.
	ResetPassword(ctx context.Context, email string) error

	// GetUser fetches the identity record for the current token.
	GetUser(ctx context.Context) (models.User, error)

	// RefreshSession exchanges refreshToken for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (models.Session, error)
}
