package models

import (
	"encoding/json"
	"time"
)

// OperationType identifies the kind of remote write a queued operation
// represents.
type OperationType string

const (
	// OperationCreate inserts a new record into a remote table.
	OperationCreate OperationType = "create"

	// OperationUpdate replaces an existing remote record by primary key.
	OperationUpdate OperationType = "update"

	// OperationDelete removes a remote record by primary key.
	OperationDelete OperationType = "delete"
)

// MaxRetries is the ceiling shared by the operation queue and the upload
// queue. An item that has failed MaxRetries times is dropped with a terminal
// notification instead of being retried again.
const MaxRetries = 3

// PendingOperation is a remote write recorded while the client was offline
// or after the immediate remote call failed. Operations are replayed in
// ascending Timestamp order; no dependency tracking is done beyond FIFO.
type PendingOperation struct {
	// ID is an opaque unique identifier assigned at enqueue time.
	ID string `json:"id"`

	// Type selects the remote CRUD call used during replay.
	Type OperationType `json:"type"`

	// Table is the remote table the operation targets.
	Table string `json:"table"`

	// Payload is the record body for create/update, or an object carrying
	// at least the primary key for delete. Stored opaque; it is validated
	// against the table schema at the remote boundary, not here.
	Payload json.RawMessage `json:"payload"`

	// Timestamp is the enqueue time and defines replay order.
	Timestamp time.Time `json:"timestamp"`

	// RetryCount is incremented after each failed replay. Once it reaches
	// MaxRetries the operation is dropped.
	RetryCount int `json:"retry_count"`
}

// TableName returns the name of the local table
// associated with the PendingOperation model.
func (o PendingOperation) TableName() string {
	return "pending_operations"
}

// PayloadID extracts the "id" field from the operation payload. Delete
// payloads carry at least this field; create/update payloads carry the full
// record. Returns an empty string if the payload has no id.
func (o PendingOperation) PayloadID() string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(o.Payload, &probe); err != nil {
		return ""
	}
	return probe.ID
}
