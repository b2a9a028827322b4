package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

func mirrorRecord(table, id, orgID string, updatedAt time.Time) models.MirrorRecord {
	return models.MirrorRecord{
		Table:     table,
		ID:        id,
		OrgID:     orgID,
		UpdatedAt: updatedAt,
		Payload:   json.RawMessage(`{"id":"` + id + `"}`),
	}
}

func TestMirrorRepository_UpsertReplacesByPrimaryKey(t *testing.T) {
	repo := NewMirrorRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, mirrorRecord(models.TableSamples, "s-1", "org-1", ts)))

	updated := mirrorRecord(models.TableSamples, "s-1", "org-1", ts.Add(time.Hour))
	updated.Payload = json.RawMessage(`{"id":"s-1","status":"classified"}`)
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, models.TableSamples, "s-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"s-1","status":"classified"}`, string(got.Payload))

	all, err := repo.Select(ctx, models.TableSamples, "org-1", time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMirrorRepository_SelectScopesByOrgAndSince(t *testing.T) {
	repo := NewMirrorRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx,
		mirrorRecord(models.TableFileUploads, "f-1", "org-1", base),
		mirrorRecord(models.TableFileUploads, "f-2", "org-1", base.Add(2*time.Hour)),
		mirrorRecord(models.TableFileUploads, "f-3", "org-2", base.Add(3*time.Hour)),
	))

	// org scope
	records, err := repo.Select(ctx, models.TableFileUploads, "org-1", time.Time{})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// since filter keeps only rows updated after the cutoff
	records, err = repo.Select(ctx, models.TableFileUploads, "org-1", base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "f-2", records[0].ID)
}

func TestMirrorRepository_RowsForOtherTablesStayIsolated(t *testing.T) {
	repo := NewMirrorRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	ts := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx,
		mirrorRecord(models.TableSamples, "same-id", "org-1", ts),
		mirrorRecord(models.TableProcessedData, "same-id", "org-1", ts),
	))

	got, err := repo.Get(ctx, models.TableProcessedData, "same-id")
	require.NoError(t, err)
	assert.Equal(t, models.TableProcessedData, got.Table)
}

func TestMirrorRepository_GetMissing(t *testing.T) {
	repo := NewMirrorRepository(newTestDB(t), logger.Nop())

	_, err := repo.Get(testCtx(), models.TableSamples, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
