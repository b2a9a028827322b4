package store

import (
	"context"
	"fmt"

	"github.com/biotaxa/taxoclient/internal/config"
	"github.com/biotaxa/taxoclient/internal/logger"
)

// Storages groups all local repositories into a single value that can be
// passed around the service layer. All four views share one SQLite
// connection; the store exclusively owns the persisted bytes.
type Storages struct {
	db *DB

	// Operations is the durable queue of deferred remote writes.
	Operations OperationRepository

	// Uploads is the durable queue of deferred object uploads.
	Uploads UploadRepository

	// AuthCache mirrors the remote identity entities.
	AuthCache AuthCacheRepository

	// Mirror holds offline copies of remote domain tables.
	Mirror MirrorRepository
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		db:         db,
		Operations: NewOperationRepository(db, logger),
		Uploads:    NewUploadRepository(db, logger),
		AuthCache:  NewAuthCacheRepository(db, logger),
		Mirror:     NewMirrorRepository(db, logger),
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
