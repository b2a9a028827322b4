package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/remote"
	"github.com/biotaxa/taxoclient/internal/store"
	"github.com/biotaxa/taxoclient/models"
)

type authService struct {
	auth   remote.AuthAPI
	remote remote.Client
	cache  store.AuthCacheRepository
	net    onlineChecker
	logger *logger.Logger

	now func() time.Time
}

// NewAuthService creates the session/auth layer. The remote is the source of
// truth; cache holds the last known good copy for offline operation.
func NewAuthService(auth remote.AuthAPI, remoteClient remote.Client, cache store.AuthCacheRepository, net onlineChecker, logger *logger.Logger) AuthService {
	return &authService{
		auth:   auth,
		remote: remoteClient,
		cache:  cache,
		net:    net,
		logger: logger,
		now:    time.Now,
	}
}

// SignIn implements AuthService.
func (a *authService) SignIn(ctx context.Context, email, password string) (models.AuthState, error) {
	session, user, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return models.AuthState{Phase: models.AuthUnauthenticated}, err
	}

	return a.adoptSession(ctx, session, user)
}

// SignUp implements AuthService.
func (a *authService) SignUp(ctx context.Context, email, password string) (models.AuthState, error) {
	session, user, err := a.auth.SignUp(ctx, email, password)
	if err != nil {
		return models.AuthState{Phase: models.AuthUnauthenticated}, err
	}

	return a.adoptSession(ctx, session, user)
}

// SignOut implements AuthService. The remote revocation is best effort; the
// local purge is not.
func (a *authService) SignOut(ctx context.Context) error {
	if a.net.Online() {
		if err := a.auth.SignOut(ctx); err != nil {
			a.logger.Warn().
				Str("func", "SignOut").
				Err(err).
				Msg("remote revocation failed, clearing local state anyway")
		}
	}
	a.remote.SetToken("")

	if err := a.cache.Purge(ctx); err != nil {
		return fmt.Errorf("purge auth cache: %w", err)
	}
	return nil
}

// ResetPassword implements AuthService.
func (a *authService) ResetPassword(ctx context.Context, email string) error {
	return a.auth.ResetPassword(ctx, email)
}

// Session implements AuthService. Expiry is judged against the stricter of
// the stored instant and the token's own exp claim.
func (a *authService) Session(ctx context.Context) (models.Session, error) {
	session, err := a.cache.GetSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read cached session: %w", err)
	}

	if exp, expErr := remote.TokenExpiry(session.AccessToken); expErr == nil && exp.Before(session.ExpiresAt) {
		session.ExpiresAt = exp
	}

	if session.Valid(a.now()) {
		a.remote.SetToken(session.AccessToken)
		return session, nil
	}

	// try to renew before giving up on the cached identity
	if a.net.Online() && session.RefreshToken != "" {
		fresh, refreshErr := a.auth.RefreshSession(ctx, session.RefreshToken)
		if refreshErr == nil {
			if saveErr := a.cache.SaveSession(ctx, fresh); saveErr != nil {
				a.logger.Warn().Str("func", "Session").Err(saveErr).Msg("cache refreshed session")
			}
			a.remote.SetToken(fresh.AccessToken)
			return fresh, nil
		}
		a.logger.Warn().Str("func", "Session").Err(refreshErr).Msg("session refresh failed")
	}

	if err = a.cache.Purge(ctx); err != nil {
		a.logger.Error().Str("func", "Session").Err(err).Msg("purge expired session")
	}

	return models.Session{}, ErrSessionExpired
}

// State implements AuthService.
func (a *authService) State(ctx context.Context) models.AuthState {
	session, err := a.Session(ctx)
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired) {
		return models.AuthState{Phase: models.AuthUnauthenticated}
	}
	if err != nil {
		return models.AuthState{Phase: models.AuthError, Err: err}
	}

	online := a.net.Online()

	user, fromCache, err := a.resolveUser(ctx, session.UserID, online)
	if err != nil {
		return models.AuthState{Phase: models.AuthError, Err: err}
	}

	state := models.AuthState{
		Phase:   models.AuthAuthenticated,
		User:    &user,
		Offline: !online || fromCache,
	}

	// profile and organization are best effort: a fresh account may not
	// have either yet
	if profile, ok := a.resolveProfile(ctx, user.ID, online); ok {
		state.Profile = &profile
		if org, ok := a.resolveOrganization(ctx, profile.OrganizationID, online); ok {
			state.Organization = &org
		}
	}

	return state
}

func (a *authService) adoptSession(ctx context.Context, session models.Session, user models.User) (models.AuthState, error) {
	if err := a.cache.SaveSession(ctx, session); err != nil {
		return models.AuthState{}, fmt.Errorf("cache session: %w", err)
	}
	if err := a.cache.SaveUser(ctx, user); err != nil {
		return models.AuthState{}, fmt.Errorf("cache user: %w", err)
	}

	a.logger.Info().
		Str("func", "adoptSession").
		Str("user_id", user.ID).
		Msg("session established")

	return a.State(ctx), nil
}

// resolveUser fetches the identity remote-first, falling back to the cache.
// A cache read failure during fallback is treated as a miss.
func (a *authService) resolveUser(ctx context.Context, userID string, online bool) (models.User, bool, error) {
	if online {
		user, err := a.auth.GetUser(ctx)
		if err == nil {
			if saveErr := a.cache.SaveUser(ctx, user); saveErr != nil {
				a.logger.Warn().Str("func", "resolveUser").Err(saveErr).Msg("cache user")
			}
			return user, false, nil
		}
		a.logger.Warn().Str("func", "resolveUser").Err(err).Msg("remote identity fetch failed, trying cache")
	}

	user, err := a.cache.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn().Str("func", "resolveUser").Err(err).Msg("cache read failed, treating as miss")
		}
		return models.User{}, true, ErrNotAuthenticated
	}

	return user, true, nil
}

func (a *authService) resolveProfile(ctx context.Context, userID string, online bool) (models.UserProfile, bool) {
	if online {
		rows, err := a.remote.Select(ctx, "user_profiles", remote.Filter{Eq: map[string]string{"user_id": userID}})
		if err == nil && len(rows) > 0 {
			var profile models.UserProfile
			if err = json.Unmarshal(rows[0], &profile); err == nil {
				if saveErr := a.cache.SaveProfile(ctx, profile); saveErr != nil {
					a.logger.Warn().Str("func", "resolveProfile").Err(saveErr).Msg("cache profile")
				}
				return profile, true
			}
		}
	}

	profile, err := a.cache.GetProfileByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn().Str("func", "resolveProfile").Err(err).Msg("cache read failed, treating as miss")
		}
		return models.UserProfile{}, false
	}

	return profile, true
}

func (a *authService) resolveOrganization(ctx context.Context, orgID string, online bool) (models.Organization, bool) {
	if orgID == "" {
		return models.Organization{}, false
	}

	if online {
		rows, err := a.remote.Select(ctx, "organizations", remote.Filter{Eq: map[string]string{"id": orgID}})
		if err == nil && len(rows) > 0 {
			var org models.Organization
			if err = json.Unmarshal(rows[0], &org); err == nil {
				if saveErr := a.cache.SaveOrganization(ctx, org); saveErr != nil {
					a.logger.Warn().Str("func", "resolveOrganization").Err(saveErr).Msg("cache organization")
				}
				return org, true
			}
		}
	}

	org, err := a.cache.GetOrganization(ctx, orgID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn().Str("func", "resolveOrganization").Err(err).Msg("cache read failed, treating as miss")
		}
		return models.Organization{}, false
	}

	return org, true
}
