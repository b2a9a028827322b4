package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

type authCacheRepository struct {
	*DB
	logger *logger.Logger
}

// NewAuthCacheRepository returns the SQLite-backed mirror of the remote
// identity entities (session, user, profile, organization).
func NewAuthCacheRepository(db *DB, logger *logger.Logger) AuthCacheRepository {
	return &authCacheRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *authCacheRepository) SaveSession(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveSession,
		s.AccessToken,
		s.RefreshToken,
		s.UserID,
		s.ExpiresAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "authCacheRepository.SaveSession").
			Str("user_id", s.UserID).
			Msg("failed to cache session")
		return fmt.Errorf("failed to cache session: %w", err)
	}

	return nil
}

func (r *authCacheRepository) GetSession(ctx context.Context) (models.Session, error) {
	var s models.Session

	err := r.DB.QueryRowContext(ctx, getSession).Scan(
		&s.AccessToken,
		&s.RefreshToken,
		&s.UserID,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("failed to read cached session: %w", err)
	}

	return s, nil
}

func (r *authCacheRepository) RemoveSession(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, removeSession); err != nil {
		return fmt.Errorf("failed to remove cached session: %w", err)
	}
	return nil
}

func (r *authCacheRepository) SaveUser(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveUser, u.ID, u.Email, u.CreatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "authCacheRepository.SaveUser").
			Str("user_id", u.ID).
			Msg("failed to cache user")
		return fmt.Errorf("failed to cache user (id=%s): %w", u.ID, err)
	}

	return nil
}

func (r *authCacheRepository) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User

	err := r.DB.QueryRowContext(ctx, getUser, id).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to read cached user (id=%s): %w", id, err)
	}

	return u, nil
}

func (r *authCacheRepository) SaveProfile(ctx context.Context, p models.UserProfile) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveProfile,
		p.ID,
		p.UserID,
		p.FullName,
		p.Role,
		p.OrganizationID,
		p.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "authCacheRepository.SaveProfile").
			Str("profile_id", p.ID).
			Msg("failed to cache user profile")
		return fmt.Errorf("failed to cache user profile (id=%s): %w", p.ID, err)
	}

	return nil
}

func (r *authCacheRepository) GetProfileByUser(ctx context.Context, userID string) (models.UserProfile, error) {
	var p models.UserProfile

	err := r.DB.QueryRowContext(ctx, getProfileByUser, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Role,
		&p.OrganizationID,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, fmt.Errorf("failed to read cached profile (user_id=%s): %w", userID, err)
	}

	return p, nil
}

func (r *authCacheRepository) SaveOrganization(ctx context.Context, o models.Organization) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveOrganization, o.ID, o.Name, o.LicenseKey, o.CreatedAt)
	if err != nil {
		log.Err(err).
			Str("func", "authCacheRepository.SaveOrganization").
			Str("org_id", o.ID).
			Msg("failed to cache organization")
		return fmt.Errorf("failed to cache organization (id=%s): %w", o.ID, err)
	}

	return nil
}

func (r *authCacheRepository) GetOrganization(ctx context.Context, id string) (models.Organization, error) {
	var o models.Organization

	err := r.DB.QueryRowContext(ctx, getOrganization, id).Scan(&o.ID, &o.Name, &o.LicenseKey, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Organization{}, ErrNotFound
		}
		return models.Organization{}, fmt.Errorf("failed to read cached organization (id=%s): %w", id, err)
	}

	return o, nil
}

func (r *authCacheRepository) Purge(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, purgeAuthCache); err != nil {
		log.Err(err).
			Str("func", "authCacheRepository.Purge").
			Msg("failed to purge auth cache")
		return fmt.Errorf("failed to purge auth cache: %w", err)
	}

	return nil
}
