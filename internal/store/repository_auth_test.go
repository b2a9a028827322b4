package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

func TestAuthCacheRepository_SessionSingletonSlot(t *testing.T) {
	repo := NewAuthCacheRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	first := models.Session{
		AccessToken: "token-a",
		UserID:      "u-1",
		ExpiresAt:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveSession(ctx, first))

	// a second save overwrites the singleton slot, never adds a row
	second := first
	second.AccessToken = "token-b"
	require.NoError(t, repo.SaveSession(ctx, second))

	got, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-b", got.AccessToken)
	assert.Equal(t, "u-1", got.UserID)
}

func TestAuthCacheRepository_GetSessionMissing(t *testing.T) {
	repo := NewAuthCacheRepository(newTestDB(t), logger.Nop())

	_, err := repo.GetSession(testCtx())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthCacheRepository_EntityRoundTrip(t *testing.T) {
	repo := NewAuthCacheRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	user := models.User{ID: "u-1", Email: "lab@taxo.test", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, repo.SaveUser(ctx, user))

	profile := models.UserProfile{
		ID:             "p-1",
		UserID:         "u-1",
		FullName:       "Lab Admin",
		Role:           "admin",
		OrganizationID: "org-1",
		UpdatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveProfile(ctx, profile))

	org := models.Organization{ID: "org-1", Name: "Wet Lab", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, repo.SaveOrganization(ctx, org))

	gotUser, err := repo.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, gotUser.Email)

	gotProfile, err := repo.GetProfileByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "org-1", gotProfile.OrganizationID)

	gotOrg, err := repo.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Wet Lab", gotOrg.Name)
}

func TestAuthCacheRepository_SaveOverwritesOnFreshRemoteRead(t *testing.T) {
	repo := NewAuthCacheRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	require.NoError(t, repo.SaveUser(ctx, models.User{ID: "u-1", Email: "old@taxo.test"}))
	require.NoError(t, repo.SaveUser(ctx, models.User{ID: "u-1", Email: "new@taxo.test"}))

	got, err := repo.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "new@taxo.test", got.Email)
}

func TestAuthCacheRepository_Purge(t *testing.T) {
	repo := NewAuthCacheRepository(newTestDB(t), logger.Nop())
	ctx := testCtx()

	require.NoError(t, repo.SaveSession(ctx, models.Session{AccessToken: "t", UserID: "u-1", ExpiresAt: time.Now()}))
	require.NoError(t, repo.SaveUser(ctx, models.User{ID: "u-1"}))
	require.NoError(t, repo.SaveOrganization(ctx, models.Organization{ID: "org-1"}))

	require.NoError(t, repo.Purge(ctx))

	_, err := repo.GetSession(ctx)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.GetUser(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetOrganization(ctx, "org-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
