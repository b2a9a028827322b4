package models

import (
	"encoding/json"
	"time"
)

// Mirrored remote tables. Rows pulled from these tables are kept in one
// generic local mirror so offline reads keep working.
const (
	TableFileUploads     = "file_uploads"
	TableProcessedData   = "processed_data"
	TableSamples         = "samples"
	TableAnalysisResults = "analysis_results"
)

// MirrorRecord is one locally cached row of a remote domain table. The
// payload is kept as the raw remote JSON so the mirror does not have to know
// every table's schema; typed access goes through the models for the tables
// the sync engine touches directly.
type MirrorRecord struct {
	// Table is the remote table the row belongs to.
	Table string `json:"table"`

	// ID is the remote primary key. Upserts into the mirror replace by
	// (Table, ID).
	ID string `json:"id"`

	// OrgID scopes the row to an organization.
	OrgID string `json:"organization_id"`

	// UpdatedAt is the remote modification timestamp, used for
	// incremental pulls ("since" filtering happens remotely, this field
	// records what was pulled).
	UpdatedAt time.Time `json:"updated_at"`

	// Payload is the full remote row as returned by the backend.
	Payload json.RawMessage `json:"payload"`
}

// TableName returns the name of the local table
// associated with the MirrorRecord model.
func (m MirrorRecord) TableName() string {
	return "table_mirror"
}
