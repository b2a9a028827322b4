package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

type mirrorRepository struct {
	*DB
	logger *logger.Logger
}

// NewMirrorRepository returns the SQLite-backed generic mirror of remote
// domain tables.
func NewMirrorRepository(db *DB, logger *logger.Logger) MirrorRepository {
	return &mirrorRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *mirrorRepository) Upsert(ctx context.Context, records ...models.MirrorRecord) error {
	log := logger.FromContext(ctx)

	for _, rec := range records {
		_, err := r.DB.ExecContext(ctx, upsertMirrorRecord,
			rec.Table,
			rec.ID,
			rec.OrgID,
			rec.UpdatedAt,
			string(rec.Payload),
		)
		if err != nil {
			log.Err(err).
				Str("func", "mirrorRepository.Upsert").
				Str("table", rec.Table).
				Str("id", rec.ID).
				Msg("failed to upsert mirror record")
			return fmt.Errorf("failed to upsert mirror record (%s/%s): %w", rec.Table, rec.ID, err)
		}
	}

	return nil
}

func (r *mirrorRepository) Select(ctx context.Context, table, orgID string, since time.Time) ([]models.MirrorRecord, error) {
	log := logger.FromContext(ctx)

	builder := sq.
		Select("table_name", "id", "organization_id", "updated_at", "payload").
		From("table_mirror").
		Where(sq.Eq{"table_name": table}).
		OrderBy("updated_at ASC")

	if orgID != "" {
		builder = builder.Where(sq.Eq{"organization_id": orgID})
	}
	if !since.IsZero() {
		builder = builder.Where(sq.Gt{"updated_at": since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build mirror select: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "mirrorRepository.Select").
			Str("table", table).
			Str("org_id", orgID).
			Msg("failed to query mirror records")
		return nil, fmt.Errorf("failed to query mirror records (%s): %w", table, err)
	}
	defer rows.Close()

	var records []models.MirrorRecord
	for rows.Next() {
		rec, scanErr := scanMirrorRecord(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "mirrorRepository.Select").
				Str("table", table).
				Msg("failed to scan mirror record row")
			return nil, fmt.Errorf("failed to scan mirror record row: %w", scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "mirrorRepository.Select").
			Str("table", table).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating mirror record rows: %w", rowsErr)
	}

	return records, nil
}

func (r *mirrorRepository) Get(ctx context.Context, table, id string) (models.MirrorRecord, error) {
	query, args, err := sq.
		Select("table_name", "id", "organization_id", "updated_at", "payload").
		From("table_mirror").
		Where(sq.Eq{"table_name": table, "id": id}).
		ToSql()
	if err != nil {
		return models.MirrorRecord{}, fmt.Errorf("failed to build mirror get: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	rec, err := scanMirrorRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MirrorRecord{}, ErrNotFound
		}
		return models.MirrorRecord{}, fmt.Errorf("failed to read mirror record (%s/%s): %w", table, id, err)
	}

	return rec, nil
}

func scanMirrorRecord(scan func(dest ...any) error) (models.MirrorRecord, error) {
	var rec models.MirrorRecord
	var payload string

	err := scan(
		&rec.Table,
		&rec.ID,
		&rec.OrgID,
		&rec.UpdatedAt,
		&payload,
	)
	if err != nil {
		return models.MirrorRecord{}, err
	}

	rec.Payload = []byte(payload)
	return rec, nil
}
