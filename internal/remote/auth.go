package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/biotaxa/taxoclient/models"
)

// authResponse is the hosted auth token payload shared by sign-in, sign-up
// and refresh.
type authResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         models.User `json:"user"`
}

// SignIn implements [AuthAPI]. It exchanges credentials for a session via
// POST /auth/v1/token?grant_type=password. On success the access token is
// stored via SetToken. A 400/401 response surfaces as
// [ErrInvalidCredentials] so callers never queue or retry it.
func (h *HTTPRemote) SignIn(ctx context.Context, email, password string) (models.Session, models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/auth/v1/token")
	if err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("%w: sign-in request: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
		return models.Session{}, models.User{}, ErrInvalidCredentials
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, models.User{}, err
	}

	return h.adoptAuthResponse(resp.Body())
}

// SignUp implements [AuthAPI]. It registers a new account via
// POST /auth/v1/signup and adopts the returned session.
func (h *HTTPRemote) SignUp(ctx context.Context, email, password string) (models.Session, models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/auth/v1/signup")
	if err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("%w: sign-up request: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, models.User{}, err
	}

	return h.adoptAuthResponse(resp.Body())
}

// SignOut implements [AuthAPI]. It revokes the session remotely and clears
// the stored token regardless of the outcome.
func (h *HTTPRemote) SignOut(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/auth/v1/logout")
	h.SetToken("")
	if err != nil {
		return fmt.Errorf("%w: sign-out request: %v", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// ResetPassword implements [AuthAPI] via POST /auth/v1/recover.
func (h *HTTPRemote) ResetPassword(ctx context.Context, email string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email}).
		Post("/auth/v1/recover")
	if err != nil {
		return fmt.Errorf("%w: reset password request: %v", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// GetUser implements [AuthAPI] via GET /auth/v1/user with the stored token.
func (h *HTTPRemote) GetUser(ctx context.Context) (models.User, error) {
	resp, err := h.authedRequest(ctx).Get("/auth/v1/user")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: get user request: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var user models.User
	if err = json.Unmarshal(resp.Body(), &user); err != nil {
		return models.User{}, fmt.Errorf("decode user response: %w", err)
	}

	return user, nil
}

// RefreshSession implements [AuthAPI]. It exchanges refreshToken for a fresh
// session via POST /auth/v1/token?grant_type=refresh_token.
func (h *HTTPRemote) RefreshSession(ctx context.Context, refreshToken string) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/auth/v1/token")
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: refresh request: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	session, _, err := h.adoptAuthResponse(resp.Body())
	return session, err
}

func (h *HTTPRemote) adoptAuthResponse(body []byte) (models.Session, models.User, error) {
	var ar authResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("decode auth response: %w", err)
	}

	session := models.Session{
		AccessToken:  ar.AccessToken,
		RefreshToken: ar.RefreshToken,
		UserID:       ar.User.ID,
		ExpiresAt:    time.Now().Add(time.Duration(ar.ExpiresIn) * time.Second),
	}

	// Prefer the exp claim when the token carries one: it survives clock
	// drift between client and backend better than expires_in arithmetic.
	if exp, err := TokenExpiry(ar.AccessToken); err == nil {
		session.ExpiresAt = exp
	}

	h.SetToken(ar.AccessToken)
	return session, ar.User, nil
}

// TokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature. Signature checks belong to the backend; the
// client only needs the expiry instant to judge a cached session.
func TokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}

	return exp.Time, nil
}
